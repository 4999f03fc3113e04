package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/tempolabs/drover/chain"
	"github.com/tempolabs/drover/logging"
)

// Agent scheduling modes.
const (
	// ModeSweep runs every activity in the catalog once per wallet, in a per-wallet shuffled order.
	ModeSweep = "sweep"

	// ModeAdaptive lets each agent pick activities cycle-by-cycle from its decision rules.
	ModeAdaptive = "adaptive"
)

// ProjectConfig describes the complete configuration for a run.
type ProjectConfig struct {
	// Network describes the RPC endpoint, deployed contract addresses, and submission retry behavior.
	Network NetworkConfig `json:"network"`

	// Wallets describes where funded keys are loaded from and which wallets participate.
	Wallets WalletsConfig `json:"wallets"`

	// Agent describes scheduling behavior: mode, cycle counts, concurrency, pacing, and decision rules.
	Agent AgentConfig `json:"agent"`

	// Activities describes per-activity amounts and thresholds.
	Activities ActivitiesConfig `json:"activities"`

	// Storage describes where created assets are persisted.
	Storage StorageConfig `json:"storage"`

	// Logging describes the verbosity and output targets for log messages.
	Logging LoggingConfig `json:"logging"`
}

// NetworkConfig describes the chain endpoint and the contracts deployed on it.
type NetworkConfig struct {
	// RPCURL is the JSON-RPC endpoint transactions are submitted through.
	RPCURL string `json:"rpcUrl"`

	// Contracts maps well-known contract names to their deployed addresses.
	Contracts map[string]string `json:"contracts"`

	// Tokens maps token symbols to their deployed addresses.
	Tokens map[string]string `json:"tokens"`

	// RetryAttempts is the number of attempts made for each retryable RPC operation.
	RetryAttempts int `json:"retryAttempts"`

	// RetryBackoffSeconds is the base delay between retry attempts, in seconds.
	RetryBackoffSeconds int `json:"retryBackoffSeconds"`

	// ReceiptAttempts is the number of receipt polls performed before confirmation times out.
	ReceiptAttempts int `json:"receiptAttempts"`

	// ReceiptDelaySeconds is the delay between receipt polls, in seconds.
	ReceiptDelaySeconds int `json:"receiptDelaySeconds"`
}

// PipelineConfig converts the network's retry settings into the transaction pipeline's configuration.
func (c *NetworkConfig) PipelineConfig() chain.PipelineConfig {
	return chain.PipelineConfig{
		RetryAttempts:   c.RetryAttempts,
		RetryBackoff:    time.Duration(c.RetryBackoffSeconds) * time.Second,
		ReceiptAttempts: c.ReceiptAttempts,
		ReceiptDelay:    time.Duration(c.ReceiptDelaySeconds) * time.Second,
	}
}

// WalletsConfig describes the funded wallet pool.
type WalletsConfig struct {
	// KeyFile is the path to a file of hex-encoded private keys, one per line.
	KeyFile string `json:"keyFile"`

	// Selection describes which wallets participate, using one-based wallet numbers: "all", "3", "1-10", or a
	// comma-separated mix.
	Selection string `json:"selection"`
}

// AgentConfig describes agent scheduling behavior.
type AgentConfig struct {
	// Mode selects the scheduling mode, either "sweep" or "adaptive".
	Mode string `json:"mode"`

	// Cycles is the number of decision cycles each agent runs in adaptive mode. Zero or less runs until the
	// process is stopped.
	Cycles int `json:"cycles"`

	// Workers is the maximum number of agents running concurrently.
	Workers int `json:"workers"`

	// Seed seeds each agent's random source for reproducible runs. Zero derives a seed from the wall clock.
	Seed int64 `json:"seed"`

	// AgentDelayMinSeconds is the minimum pause between an agent's cycles, in seconds.
	AgentDelayMinSeconds int `json:"agentDelayMinSeconds"`

	// AgentDelayMaxSeconds is the maximum pause between an agent's cycles, in seconds.
	AgentDelayMaxSeconds int `json:"agentDelayMaxSeconds"`

	// ActivityDelayMinSeconds is the minimum pause between consecutive activities in sweep mode, in seconds.
	ActivityDelayMinSeconds int `json:"activityDelayMinSeconds"`

	// ActivityDelayMaxSeconds is the maximum pause between consecutive activities in sweep mode, in seconds.
	ActivityDelayMaxSeconds int `json:"activityDelayMaxSeconds"`

	// WalletDelayMinSeconds is the minimum pause the orchestrator inserts between wallet starts, in seconds.
	WalletDelayMinSeconds int `json:"walletDelayMinSeconds"`

	// WalletDelayMaxSeconds is the maximum pause the orchestrator inserts between wallet starts, in seconds.
	WalletDelayMaxSeconds int `json:"walletDelayMaxSeconds"`

	// Rules describes the thresholds and probabilities driving adaptive activity selection.
	Rules RulesConfig `json:"rules"`
}

// RulesConfig describes the decision rules an agent evaluates each cycle, in priority order. Thresholds compare
// against display-unit balances; probabilities gate rules whose predicate holds.
type RulesConfig struct {
	// FaucetThreshold is the native balance below which an agent requests faucet funding before anything else.
	FaucetThreshold decimal.Decimal `json:"faucetThreshold"`

	// CreateTokenProbability gates token creation, which is always eligible.
	CreateTokenProbability float64 `json:"createTokenProbability"`

	// SwapSourceMinimum is the source-token balance above which swapping becomes eligible.
	SwapSourceMinimum decimal.Decimal `json:"swapSourceMinimum"`

	// SwapPeerMaximum is the peer-token balance below which the peer is considered short and worth swapping into.
	SwapPeerMaximum decimal.Decimal `json:"swapPeerMaximum"`

	// AddLiquidityMinimum is the balance both pool sides must exceed for liquidity provision to be eligible.
	AddLiquidityMinimum decimal.Decimal `json:"addLiquidityMinimum"`

	// AddLiquidityProbability gates liquidity provision when it is eligible.
	AddLiquidityProbability float64 `json:"addLiquidityProbability"`

	// MintBurnProbability gates issuance activity on an agent's own created tokens.
	MintBurnProbability float64 `json:"mintBurnProbability"`

	// MintShare is the probability that gated issuance activity mints rather than burns.
	MintShare float64 `json:"mintShare"`
}

// ActivitiesConfig describes per-activity amounts, expressed in display units.
type ActivitiesConfig struct {
	// TokenDecimals is the decimal precision shared by the configured stablecoin tokens.
	TokenDecimals int32 `json:"tokenDecimals"`

	// TransferAmount is the token amount moved by transfer activities.
	TransferAmount decimal.Decimal `json:"transferAmount"`

	// SwapAmount is the source-token amount consumed by swap activities.
	SwapAmount decimal.Decimal `json:"swapAmount"`

	// LiquidityMinimum is the smallest token amount provided by add-liquidity activities. The deposited amount is
	// drawn uniformly between LiquidityMinimum and LiquidityMaximum.
	LiquidityMinimum decimal.Decimal `json:"liquidityMinimum"`

	// LiquidityMaximum is the largest token amount provided by add-liquidity activities.
	LiquidityMaximum decimal.Decimal `json:"liquidityMaximum"`

	// MintAmount is the token amount minted on an agent's own tokens.
	MintAmount decimal.Decimal `json:"mintAmount"`

	// BurnAmount is the token amount burned on an agent's own tokens. Burning is skipped while the balance is
	// below this amount.
	BurnAmount decimal.Decimal `json:"burnAmount"`

	// WithdrawMinimum is the smallest liquidity withdrawal ever attempted.
	WithdrawMinimum decimal.Decimal `json:"withdrawMinimum"`

	// FaucetAttempts is the number of funding requests made before the faucet is considered unavailable.
	FaucetAttempts int `json:"faucetAttempts"`

	// FaucetBackoffSeconds is the base delay between faucet attempts, in seconds. The actual delay grows linearly
	// with the attempt number.
	FaucetBackoffSeconds int `json:"faucetBackoffSeconds"`
}

// StorageConfig describes where created assets are persisted.
type StorageConfig struct {
	// AssetDatabase is the path of the file-backed database recording each wallet's created assets.
	AssetDatabase string `json:"assetDatabase"`
}

// LoggingConfig describes the verbosity and output targets for log messages.
type LoggingConfig struct {
	// Level describes the log level filtering messages emitted during a run.
	Level zerolog.Level `json:"level"`

	// LogDirectory describes the directory unstructured log files are written to. An empty value disables file
	// logging.
	LogDirectory string `json:"logDirectory"`

	// NoColor disables colored terminal output.
	NoColor bool `json:"noColor"`
}

// ReadProjectConfigFromFile reads and validates a ProjectConfig from the provided JSON file. Fields missing from the
// file keep their default values.
func ReadProjectConfigFromFile(path string) (*ProjectConfig, error) {
	encoded, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read configuration file %s", path)
	}

	projectConfig := GetDefaultProjectConfig()
	if err = json.Unmarshal(encoded, projectConfig); err != nil {
		return nil, errors.Wrapf(err, "could not parse configuration file %s", path)
	}
	if err = projectConfig.Validate(); err != nil {
		return nil, err
	}
	return projectConfig, nil
}

// WriteToFile writes the ProjectConfig to the provided path as indented JSON.
func (p *ProjectConfig) WriteToFile(path string) error {
	encoded, err := json.MarshalIndent(p, "", "\t")
	if err != nil {
		return errors.Wrap(err, "could not encode configuration")
	}
	return errors.Wrapf(os.WriteFile(path, encoded, 0o644), "could not write configuration file %s", path)
}

// Validate checks the ProjectConfig for values that would make a run impossible or meaningless.
func (p *ProjectConfig) Validate() error {
	if p.Network.RPCURL == "" {
		return errors.New("network.rpcUrl must be set")
	}
	if p.Network.RetryAttempts < 1 {
		return errors.New("network.retryAttempts must be at least 1")
	}
	if p.Network.ReceiptAttempts < 1 {
		return errors.New("network.receiptAttempts must be at least 1")
	}
	if p.Wallets.KeyFile == "" {
		return errors.New("wallets.keyFile must be set")
	}
	if p.Agent.Mode != ModeSweep && p.Agent.Mode != ModeAdaptive {
		return errors.Errorf("agent.mode must be %q or %q, got %q", ModeSweep, ModeAdaptive, p.Agent.Mode)
	}
	if p.Agent.Workers < 1 {
		return errors.New("agent.workers must be at least 1")
	}
	if p.Agent.AgentDelayMinSeconds > p.Agent.AgentDelayMaxSeconds {
		return errors.New("agent.agentDelayMinSeconds must not exceed agent.agentDelayMaxSeconds")
	}
	if p.Agent.ActivityDelayMinSeconds > p.Agent.ActivityDelayMaxSeconds {
		return errors.New("agent.activityDelayMinSeconds must not exceed agent.activityDelayMaxSeconds")
	}
	if p.Agent.WalletDelayMinSeconds > p.Agent.WalletDelayMaxSeconds {
		return errors.New("agent.walletDelayMinSeconds must not exceed agent.walletDelayMaxSeconds")
	}
	for name, probability := range map[string]float64{
		"agent.rules.createTokenProbability":  p.Agent.Rules.CreateTokenProbability,
		"agent.rules.addLiquidityProbability": p.Agent.Rules.AddLiquidityProbability,
		"agent.rules.mintBurnProbability":     p.Agent.Rules.MintBurnProbability,
		"agent.rules.mintShare":               p.Agent.Rules.MintShare,
	} {
		if probability < 0 || probability > 1 {
			return errors.Errorf("%s must be in [0, 1], got %v", name, probability)
		}
	}
	if p.Activities.TokenDecimals < 0 {
		return errors.New("activities.tokenDecimals must not be negative")
	}
	if p.Activities.LiquidityMinimum.GreaterThan(p.Activities.LiquidityMaximum) {
		return errors.New("activities.liquidityMinimum must not exceed activities.liquidityMaximum")
	}
	if p.Activities.FaucetAttempts < 1 {
		return errors.New("activities.faucetAttempts must be at least 1")
	}
	if p.Storage.AssetDatabase == "" {
		return errors.New("storage.assetDatabase must be set")
	}
	// Ensure our log level is a valid one.
	if _, err := zerolog.ParseLevel(p.Logging.Level.String()); err != nil {
		return errors.Wrap(err, "config specifies an invalid log level")
	}
	return nil
}

// NewLogger constructs a logger honoring the logging configuration.
func (c *LoggingConfig) NewLogger() *logging.Logger {
	return logging.NewLogger(c.Level)
}
