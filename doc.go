/*
Package ipahelper implements one helper node's share of a three-party
Interactive Privacy-Preserving Aggregation (IPA) protocol. The package
features:

  - A replicated secret-sharing arithmetic layer over small prime and
    binary (GF(2)) fields, including fixed-width bit arrays.
  - A one-round secret-shared multiplication primitive and the
    if_else/or/integer-adder/comparator gates built from it.
  - An oblivious per-user attribution, capping, and aggregation circuit
    that never reveals an individual user's events or match key.

ipahelper aims to keep each of the three helpers in lock-step through an
explicit step-path and record-id discipline, so that the honest-majority
semi-honest protocol stays correct under concurrent per-user circuits.
*/
package ipahelper
