// Package inmemory is a same-process transport fixture for running all
// three helpers of a query together, the way the teacher's own multiparty
// examples do (examples/multiparty/int_pir/main.go: "All parties are run
// in the same process"). It is test/demo scaffolding, not a production
// transport — real deployments implement transport.Channel over mutually
// authenticated HTTP (§1), which is out of scope here.
package inmemory

import (
	"fmt"
	"sync"

	"github.com/private-attribution/ipa-helper/helper"
)

type mailboxKey struct {
	from, to helper.Role
	step     string
	record   uint64
}

// Network is a shared rendezvous point for three in-process helpers. Each
// helper gets its own Channel view via ForRole.
type Network struct {
	mu        sync.Mutex
	mailboxes map[mailboxKey]chan []byte
}

// NewNetwork creates an empty in-process network for three helpers.
func NewNetwork() *Network {
	return &Network{mailboxes: make(map[mailboxKey]chan []byte)}
}

func (n *Network) mailbox(from, to helper.Role, step string, record uint64) chan []byte {
	n.mu.Lock()
	defer n.mu.Unlock()
	k := mailboxKey{from: from, to: to, step: step, record: record}
	ch, ok := n.mailboxes[k]
	if !ok {
		ch = make(chan []byte, 1)
		n.mailboxes[k] = ch
	}
	return ch
}

// ForRole returns the transport.Channel view of the network for one helper.
func (n *Network) ForRole(self helper.Role) *Channel {
	return &Channel{self: self, net: n}
}

// Channel implements transport.Channel against a shared in-process Network.
type Channel struct {
	self helper.Role
	net  *Network
}

func (c *Channel) Send(to helper.Role, stepPath string, recordID uint64, data []byte) error {
	mb := c.net.mailbox(c.self, to, stepPath, recordID)
	select {
	case mb <- data:
		return nil
	default:
		return fmt.Errorf("inmemory: record id %d reused at step %q between %s and %s", recordID, stepPath, c.self, to)
	}
}

func (c *Channel) Receive(from helper.Role, stepPath string, recordID uint64) ([]byte, error) {
	mb := c.net.mailbox(from, c.self, stepPath, recordID)
	data, ok := <-mb
	if !ok {
		return nil, fmt.Errorf("inmemory: mailbox closed for step %q record %d", stepPath, recordID)
	}
	return data, nil
}
