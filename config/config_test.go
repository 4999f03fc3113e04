package config

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// validProjectConfig returns a default config with the operator-supplied fields filled in.
func validProjectConfig() *ProjectConfig {
	projectConfig := GetDefaultProjectConfig()
	projectConfig.Network.RPCURL = "http://localhost:8545"
	return projectConfig
}

// TestDefaultConfigValidates verifies the defaults pass validation once the endpoint is set.
func TestDefaultConfigValidates(t *testing.T) {
	assert.NoError(t, validProjectConfig().Validate())
}

// TestConfigValidationFailures verifies each guarded field is rejected when out of range.
func TestConfigValidationFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ProjectConfig)
	}{
		{"missing rpc url", func(p *ProjectConfig) { p.Network.RPCURL = "" }},
		{"missing key file", func(p *ProjectConfig) { p.Wallets.KeyFile = "" }},
		{"unknown mode", func(p *ProjectConfig) { p.Agent.Mode = "chaotic" }},
		{"zero workers", func(p *ProjectConfig) { p.Agent.Workers = 0 }},
		{"inverted agent delay", func(p *ProjectConfig) { p.Agent.AgentDelayMinSeconds = 90 }},
		{"inverted wallet delay", func(p *ProjectConfig) { p.Agent.WalletDelayMinSeconds = 90 }},
		{"probability above one", func(p *ProjectConfig) { p.Agent.Rules.MintShare = 1.5 }},
		{"negative probability", func(p *ProjectConfig) { p.Agent.Rules.CreateTokenProbability = -0.1 }},
		{"zero faucet attempts", func(p *ProjectConfig) { p.Activities.FaucetAttempts = 0 }},
		{"inverted liquidity bounds", func(p *ProjectConfig) {
			p.Activities.LiquidityMinimum = p.Activities.LiquidityMaximum.Add(decimal.NewFromInt(1))
		}},
		{"missing asset database", func(p *ProjectConfig) { p.Storage.AssetDatabase = "" }},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			projectConfig := validProjectConfig()
			test.mutate(projectConfig)
			assert.Error(t, projectConfig.Validate())
		})
	}
}

// TestConfigRoundTrip verifies a config written to disk reads back with the same values.
func TestConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drover.json")

	written := validProjectConfig()
	written.Agent.Mode = ModeSweep
	written.Agent.Seed = 42
	written.Network.Tokens = map[string]string{"PathUSD": "0x0000000000000000000000000000000000000020"}
	assert.NoError(t, written.WriteToFile(path))

	read, err := ReadProjectConfigFromFile(path)
	assert.NoError(t, err)
	assert.Equal(t, ModeSweep, read.Agent.Mode)
	assert.EqualValues(t, 42, read.Agent.Seed)
	assert.True(t, written.Agent.Rules.FaucetThreshold.Equal(read.Agent.Rules.FaucetThreshold))
	assert.Equal(t, written.Network.Tokens, read.Network.Tokens)
}

// TestReadConfigRejectsInvalid verifies reading applies validation.
func TestReadConfigRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drover.json")
	invalid := GetDefaultProjectConfig()
	assert.NoError(t, invalid.WriteToFile(path))

	// The default endpoint is empty, so the read must fail validation.
	_, err := ReadProjectConfigFromFile(path)
	assert.Error(t, err)
}
