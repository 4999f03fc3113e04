package activities

import (
	"context"
	"fmt"
	"math/big"

	"github.com/pkg/errors"
	"github.com/tempolabs/drover/chain"
	"github.com/tempolabs/drover/chain/contracts"
	"github.com/tempolabs/drover/logging"
)

// slippageNumerator and slippageDenominator bound the accepted output of a swap to 99% of its quote.
const (
	slippageNumerator   = 99
	slippageDenominator = 100
)

// Swap trades one configured token for another through the exchange. Empty symbols pick a random distinct pair.
type Swap struct {
	// TokenIn selects the token sold. Empty picks at random.
	TokenIn string

	// TokenOut selects the token bought. Empty picks at random.
	TokenOut string
}

// Kind returns the activity's catalog identifier.
func (a *Swap) Kind() Kind {
	return KindSwap
}

// Run quotes the swap, skips when the pool quotes zero output, ensures the exchange's allowance, and submits the
// swap with a 1% slippage bound.
func (a *Swap) Run(ctx context.Context, env *Env) chain.Outcome {
	dex, err := env.Directory.Contract(contracts.NameDex)
	if err != nil {
		return chain.Fail(err)
	}

	tokenIn, tokenOut, outcome := a.resolvePair(env)
	if outcome != nil {
		return *outcome
	}

	amountIn := env.ToBaseUnits(env.Settings.SwapAmount)
	balance, err := env.TokenBalance(ctx, tokenIn)
	if err != nil {
		return chain.Fail(err)
	}
	if balance.Cmp(amountIn) < 0 {
		return chain.Skip(fmt.Sprintf("%s balance %s does not cover swap amount %s", tokenIn.Name, env.FromBaseUnits(balance), env.Settings.SwapAmount))
	}

	// Quote first: a zero quote means the pool cannot serve the trade, which is an expected condition rather than
	// an error.
	var quote *big.Int
	if err = dex.Call(ctx, env.Backend, "quoteSwapExactAmountIn", []any{&quote}, tokenIn.Address, tokenOut.Address, amountIn); err != nil {
		return chain.Fail(err)
	}
	if quote.Sign() == 0 {
		return chain.Skip(fmt.Sprintf("exchange quotes zero output for %s -> %s", tokenIn.Name, tokenOut.Name))
	}

	if guardOutcome, guardErr := env.Guard.EnsureAllowance(ctx, env.Account.Key(), tokenIn, dex.Address, amountIn); guardErr != nil {
		return chain.Fail(guardErr)
	} else if guardOutcome != nil && !guardOutcome.Confirmed() {
		return *guardOutcome
	}

	minOut := new(big.Int).Div(new(big.Int).Mul(quote, big.NewInt(slippageNumerator)), big.NewInt(slippageDenominator))
	data, err := dex.Pack("swapExactAmountIn", tokenIn.Address, tokenOut.Address, amountIn, minOut)
	if err != nil {
		return chain.Fail(err)
	}

	env.Logger.Info("Swapping tokens", logging.StructuredLogInfo{
		"wallet": env.Account.Label(),
		"in":     tokenIn.Name,
		"out":    tokenOut.Name,
		"amount": env.Settings.SwapAmount.String(),
		"minOut": env.FromBaseUnits(minOut).String(),
	})
	return env.Pipeline.Submit(ctx, env.Account.Key(), chain.NewIntent(dex.Address, data, chain.GasLimitSwap))
}

// resolvePair resolves the swap's token pair, picking a random distinct pair when unset.
func (a *Swap) resolvePair(env *Env) (*contracts.Contract, *contracts.Contract, *chain.Outcome) {
	inSymbol, outSymbol := a.TokenIn, a.TokenOut
	if inSymbol == "" || outSymbol == "" {
		symbols, ok := env.pickDistinctSymbols(2)
		if !ok {
			outcome := chain.Skip("fewer than two tokens configured")
			return nil, nil, &outcome
		}
		if inSymbol == "" {
			inSymbol = symbols[0]
		}
		if outSymbol == "" {
			outSymbol = symbols[1]
			if outSymbol == inSymbol {
				outSymbol = symbols[0]
			}
		}
	}
	if inSymbol == outSymbol {
		outcome := chain.Fail(errors.Errorf("swap pair must be distinct, got %s twice", inSymbol))
		return nil, nil, &outcome
	}

	tokenIn, err := env.Directory.Token(inSymbol)
	if err != nil {
		outcome := chain.Fail(err)
		return nil, nil, &outcome
	}
	tokenOut, err := env.Directory.Token(outSymbol)
	if err != nil {
		outcome := chain.Fail(err)
		return nil, nil, &outcome
	}
	return tokenIn, tokenOut, nil
}
