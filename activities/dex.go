package activities

import (
	"context"
	"fmt"
	"math/big"

	"github.com/tempolabs/drover/chain"
	"github.com/tempolabs/drover/chain/contracts"
	"github.com/tempolabs/drover/logging"
)

// Tick bounds for resting limit orders, chosen to sit near the stablecoin peg.
const (
	orderTickMin = 990
	orderTickMax = 1010
)

// LimitOrder rests a limit order on the exchange's book for a configured token.
type LimitOrder struct {
	// TokenSymbol selects the token the order is placed against. Empty picks one at random.
	TokenSymbol string
}

// Kind returns the activity's catalog identifier.
func (a *LimitOrder) Kind() Kind {
	return KindLimitOrder
}

// Run ensures the exchange's allowance and rests an order at a random side and tick near the peg, skipping if the
// wallet's balance cannot cover the order size.
func (a *LimitOrder) Run(ctx context.Context, env *Env) chain.Outcome {
	dex, err := env.Directory.Contract(contracts.NameDex)
	if err != nil {
		return chain.Fail(err)
	}

	amount := env.ToBaseUnits(env.Settings.SwapAmount)
	token, outcome := resolveFundedToken(ctx, env, a.TokenSymbol, amount)
	if outcome != nil {
		return *outcome
	}

	if guardOutcome, guardErr := env.Guard.EnsureAllowance(ctx, env.Account.Key(), token, dex.Address, amount); guardErr != nil {
		return chain.Fail(guardErr)
	} else if guardOutcome != nil && !guardOutcome.Confirmed() {
		return *guardOutcome
	}

	isBid := env.Rand.Intn(2) == 0
	tick := big.NewInt(int64(orderTickMin + env.Rand.Intn(orderTickMax-orderTickMin+1)))
	data, err := dex.Pack("place", token.Address, amount, isBid, tick)
	if err != nil {
		return chain.Fail(err)
	}

	env.Logger.Info("Placing limit order", logging.StructuredLogInfo{
		"wallet": env.Account.Label(),
		"token":  token.Name,
		"amount": env.Settings.SwapAmount.String(),
		"bid":    fmt.Sprintf("%t", isBid),
		"tick":   tick.String(),
	})
	return env.Pipeline.Submit(ctx, env.Account.Key(), chain.NewIntent(dex.Address, data, chain.GasLimitSwap))
}

// SetFeeToken selects the wallet's preferred fee token on the fee manager.
type SetFeeToken struct {
	// TokenSymbol selects the fee token. Empty picks one at random.
	TokenSymbol string
}

// Kind returns the activity's catalog identifier.
func (a *SetFeeToken) Kind() Kind {
	return KindSetFeeToken
}

// Run submits the fee token selection.
func (a *SetFeeToken) Run(ctx context.Context, env *Env) chain.Outcome {
	feeManager, err := env.Directory.Contract(contracts.NameFeeManager)
	if err != nil {
		return chain.Fail(err)
	}

	symbol := a.TokenSymbol
	if symbol == "" {
		symbols, ok := env.pickDistinctSymbols(1)
		if !ok {
			return chain.Skip("no tokens configured")
		}
		symbol = symbols[0]
	}
	token, err := env.Directory.Token(symbol)
	if err != nil {
		return chain.Fail(err)
	}

	data, err := feeManager.Pack("setUserToken", token.Address)
	if err != nil {
		return chain.Fail(err)
	}

	env.Logger.Info("Selecting fee token", logging.StructuredLogInfo{
		"wallet": env.Account.Label(),
		"token":  token.Name,
	})
	return env.Pipeline.Submit(ctx, env.Account.Key(), chain.NewIntent(feeManager.Address, data, chain.GasLimitMemo))
}
