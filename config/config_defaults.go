package config

import (
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// GetDefaultProjectConfig obtains a default initialized ProjectConfig. The endpoint, contract addresses, and key
// file are deployment-specific and left for the operator to fill in.
func GetDefaultProjectConfig() *ProjectConfig {
	return &ProjectConfig{
		Network: NetworkConfig{
			RPCURL:              "",
			Contracts:           map[string]string{},
			Tokens:              map[string]string{},
			RetryAttempts:       3,
			RetryBackoffSeconds: 2,
			ReceiptAttempts:     30,
			ReceiptDelaySeconds: 2,
		},
		Wallets: WalletsConfig{
			KeyFile:   "keys.txt",
			Selection: "all",
		},
		Agent: AgentConfig{
			Mode:                    ModeAdaptive,
			Cycles:                  0,
			Workers:                 5,
			Seed:                    0,
			AgentDelayMinSeconds:    20,
			AgentDelayMaxSeconds:    60,
			ActivityDelayMinSeconds: 5,
			ActivityDelayMaxSeconds: 15,
			WalletDelayMinSeconds:   5,
			WalletDelayMaxSeconds:   10,
			Rules: RulesConfig{
				FaucetThreshold:         decimal.NewFromFloat(2.0),
				CreateTokenProbability:  0.15,
				SwapSourceMinimum:       decimal.NewFromInt(10),
				SwapPeerMaximum:         decimal.NewFromInt(5),
				AddLiquidityMinimum:     decimal.NewFromInt(5),
				AddLiquidityProbability: 0.3,
				MintBurnProbability:     0.4,
				MintShare:               0.6,
			},
		},
		Activities: ActivitiesConfig{
			TokenDecimals:        6,
			TransferAmount:       decimal.NewFromFloat(0.01),
			SwapAmount:           decimal.NewFromInt(1),
			LiquidityMinimum:     decimal.NewFromInt(5),
			LiquidityMaximum:     decimal.NewFromInt(10),
			MintAmount:           decimal.NewFromInt(1000),
			BurnAmount:           decimal.NewFromInt(10),
			WithdrawMinimum:      decimal.NewFromFloat(0.1),
			FaucetAttempts:       3,
			FaucetBackoffSeconds: 5,
		},
		Storage: StorageConfig{
			AssetDatabase: "drover-assets.db",
		},
		Logging: LoggingConfig{
			Level:        zerolog.InfoLevel,
			LogDirectory: "drover-logs",
			NoColor:      false,
		},
	}
}
