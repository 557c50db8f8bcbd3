package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/private-attribution/ipa-helper/config"
)

func validConfig() config.QueryConfig {
	return config.QueryConfig{
		PerUserCreditCap: 32,
		BreakdownKeyBits: 5,
		TriggerValueBits: 3,
		TimestampBits:    20,
	}
}

func TestValidConfigPasses(t *testing.T) {
	c := validConfig()
	require.NoError(t, c.Validate())
	assert.Equal(t, 5, c.SaturatingSumBits())
}

func TestRejectsUnsupportedCap(t *testing.T) {
	c := validConfig()
	c.PerUserCreditCap = 17
	assert.Error(t, c.Validate())
}

func TestRejectsUnsupportedBreakdownKeyWidth(t *testing.T) {
	c := validConfig()
	c.BreakdownKeyBits = 6
	assert.Error(t, c.Validate())
}

func TestRejectsZeroAttributionWindow(t *testing.T) {
	c := validConfig()
	zero := uint32(0)
	c.AttributionWindowSeconds = &zero
	assert.Error(t, c.Validate())
}

func TestAcceptsPositiveAttributionWindow(t *testing.T) {
	c := validConfig()
	w := uint32(86400)
	c.AttributionWindowSeconds = &w
	assert.NoError(t, c.Validate())
}

func TestRejectsCapSmallerThanMaxTriggerValue(t *testing.T) {
	c := validConfig()
	c.PerUserCreditCap = 8
	c.TriggerValueBits = 4 // max trigger value 15 > cap 8; Validate reports the unsupported 4-bit width before it compares the cap
	assert.Error(t, c.Validate())
}

func TestCapToSaturatingSumWidthTable(t *testing.T) {
	cases := map[uint32]int{8: 3, 16: 4, 32: 5, 64: 6, 128: 7}
	for cap, want := range cases {
		c := validConfig()
		c.PerUserCreditCap = cap
		require.NoError(t, c.Validate())
		assert.Equal(t, want, c.SaturatingSumBits())
	}
}
