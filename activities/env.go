package activities

import (
	"context"
	"math/big"
	"math/rand"

	"github.com/shopspring/decimal"
	"github.com/tempolabs/drover/accounts"
	"github.com/tempolabs/drover/assetstore"
	"github.com/tempolabs/drover/chain"
	"github.com/tempolabs/drover/chain/contracts"
	"github.com/tempolabs/drover/config"
	"github.com/tempolabs/drover/logging"
)

// NativeDecimals is the decimal precision of the native currency.
const NativeDecimals = 18

// Env carries everything a Recipe needs to execute on behalf of one wallet.
type Env struct {
	// Backend is the node connection used for reads and raw RPC methods.
	Backend chain.Backend

	// Pipeline submits the activity's transactions.
	Pipeline *chain.Pipeline

	// Guard ensures spender allowances before allowance-dependent calls.
	Guard *chain.AllowanceGuard

	// Directory resolves contract and token names to bound contracts.
	Directory *contracts.Directory

	// Store records assets created by this wallet.
	Store *assetstore.Store

	// Account is the wallet the activity acts for.
	Account *accounts.Account

	// Settings describes per-activity amounts and thresholds.
	Settings config.ActivitiesConfig

	// Rand is the wallet's seeded random source. All randomness flows through it so runs are reproducible under a
	// fixed seed.
	Rand *rand.Rand

	// Logger describes the activity's log object that can be used to log messages and associate them with the
	// activities service.
	Logger *logging.Logger
}

// ToBaseUnits converts a display-unit amount into base units at the configured token precision.
func (e *Env) ToBaseUnits(amount decimal.Decimal) *big.Int {
	return amount.Shift(e.Settings.TokenDecimals).Truncate(0).BigInt()
}

// FromBaseUnits converts a base-unit amount into display units at the configured token precision.
func (e *Env) FromBaseUnits(raw *big.Int) decimal.Decimal {
	return decimal.NewFromBigInt(raw, -e.Settings.TokenDecimals)
}

// TokenBalance reads the wallet's balance on the provided token, in base units.
func (e *Env) TokenBalance(ctx context.Context, token *contracts.Contract) (*big.Int, error) {
	var balance *big.Int
	if err := token.Call(ctx, e.Backend, "balanceOf", []any{&balance}, e.Account.Address); err != nil {
		return nil, err
	}
	return balance, nil
}

// pickDistinctSymbols selects n distinct token symbols from the directory using the wallet's random source. The
// second return value reports whether enough symbols are configured.
func (e *Env) pickDistinctSymbols(n int) ([]string, bool) {
	symbols := e.Directory.TokenSymbols()
	if len(symbols) < n {
		return nil, false
	}
	e.Rand.Shuffle(len(symbols), func(i, j int) {
		symbols[i], symbols[j] = symbols[j], symbols[i]
	})
	return symbols[:n], true
}
