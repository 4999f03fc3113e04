package activities

import (
	"context"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/tempolabs/drover/chain"
	"github.com/tempolabs/drover/chain/contracts"
	"github.com/tempolabs/drover/logging"
	"github.com/tempolabs/drover/utils"
)

// Withdrawal fraction bounds for liquidity removal, in percent of the held position.
const (
	withdrawMinPercent = 20
	withdrawMaxPercent = 50
)

// AddLiquidity provides token liquidity to a fee manager pool. Empty symbols pick a random distinct pair.
type AddLiquidity struct {
	// UserToken selects the token provided. Empty picks at random.
	UserToken string

	// ValidatorToken selects the pool's counterpart token. Empty picks at random.
	ValidatorToken string
}

// Kind returns the activity's catalog identifier.
func (a *AddLiquidity) Kind() Kind {
	return KindAddLiquidity
}

// Run ensures the fee manager's allowance on the provided token and mints a pool position, skipping if the wallet's
// balance cannot cover the contribution.
func (a *AddLiquidity) Run(ctx context.Context, env *Env) chain.Outcome {
	feeManager, err := env.Directory.Contract(contracts.NameFeeManager)
	if err != nil {
		return chain.Fail(err)
	}

	userSymbol, validatorSymbol := a.UserToken, a.ValidatorToken
	if userSymbol == "" || validatorSymbol == "" {
		symbols, ok := env.pickDistinctSymbols(2)
		if !ok {
			return chain.Skip("fewer than two tokens configured")
		}
		if userSymbol == "" {
			userSymbol = symbols[0]
		}
		if validatorSymbol == "" {
			validatorSymbol = symbols[1]
			if validatorSymbol == userSymbol {
				validatorSymbol = symbols[0]
			}
		}
	}

	userToken, err := env.Directory.Token(userSymbol)
	if err != nil {
		return chain.Fail(err)
	}
	validatorToken, err := env.Directory.Token(validatorSymbol)
	if err != nil {
		return chain.Fail(err)
	}

	deposit := a.depositAmount(env)
	amount := env.ToBaseUnits(deposit)
	balance, err := env.TokenBalance(ctx, userToken)
	if err != nil {
		return chain.Fail(err)
	}
	if balance.Cmp(amount) < 0 {
		return chain.Skip(fmt.Sprintf("%s balance %s does not cover liquidity amount %s", userToken.Name, env.FromBaseUnits(balance), deposit))
	}

	if guardOutcome, guardErr := env.Guard.EnsureAllowance(ctx, env.Account.Key(), userToken, feeManager.Address, amount); guardErr != nil {
		return chain.Fail(guardErr)
	} else if guardOutcome != nil && !guardOutcome.Confirmed() {
		return *guardOutcome
	}

	data, err := feeManager.Pack("mintWithValidatorToken", userToken.Address, validatorToken.Address, amount, env.Account.Address)
	if err != nil {
		return chain.Fail(err)
	}

	env.Logger.Info("Adding liquidity", logging.StructuredLogInfo{
		"wallet":    env.Account.Label(),
		"userToken": userToken.Name,
		"validator": validatorToken.Name,
		"amount":    deposit.String(),
	})
	return env.Pipeline.Submit(ctx, env.Account.Key(), chain.NewIntent(feeManager.Address, data, chain.GasLimitFactory))
}

// depositAmount draws the contribution uniformly between the configured liquidity bounds.
func (a *AddLiquidity) depositAmount(env *Env) decimal.Decimal {
	span := env.Settings.LiquidityMaximum.Sub(env.Settings.LiquidityMinimum)
	return env.Settings.LiquidityMinimum.Add(span.Mul(decimal.NewFromFloat(env.Rand.Float64())))
}

// RemoveLiquidity withdraws part of an existing fee manager pool position. Pools are discovered by enumerating every
// unordered pair of configured tokens and probing the wallet's position in each.
type RemoveLiquidity struct{}

// Kind returns the activity's catalog identifier.
func (a *RemoveLiquidity) Kind() Kind {
	return KindRemoveLiquidity
}

// Run finds a pool the wallet holds a position in and withdraws a 20-50% slice of it, raised to the configured
// minimum withdrawal. Positions below that minimum are passed over, and holding no withdrawable position anywhere is
// a skip, not a failure.
func (a *RemoveLiquidity) Run(ctx context.Context, env *Env) chain.Outcome {
	feeManager, err := env.Directory.Contract(contracts.NameFeeManager)
	if err != nil {
		return chain.Fail(err)
	}

	symbols := env.Directory.TokenSymbols()
	if len(symbols) < 2 {
		return chain.Skip("fewer than two tokens configured")
	}
	pairs := utils.PairCombinations(symbols)
	env.Rand.Shuffle(len(pairs), func(i, j int) {
		pairs[i], pairs[j] = pairs[j], pairs[i]
	})

	minimum := env.ToBaseUnits(env.Settings.WithdrawMinimum)
	for _, pair := range pairs {
		userToken, tokenErr := env.Directory.Token(pair[0])
		if tokenErr != nil {
			return chain.Fail(tokenErr)
		}
		validatorToken, tokenErr := env.Directory.Token(pair[1])
		if tokenErr != nil {
			return chain.Fail(tokenErr)
		}

		var poolID [32]byte
		if err = feeManager.Call(ctx, env.Backend, "getPoolId", []any{&poolID}, userToken.Address, validatorToken.Address); err != nil {
			return chain.Fail(err)
		}
		var position *big.Int
		if err = feeManager.Call(ctx, env.Backend, "liquidityBalances", []any{&position}, poolID, env.Account.Address); err != nil {
			return chain.Fail(err)
		}
		// Positions below the configured withdrawal floor are never drained in full; they are left to grow.
		if position.Cmp(minimum) < 0 {
			continue
		}

		withdraw := a.withdrawAmount(env, position, minimum)
		data, packErr := feeManager.Pack("burn", userToken.Address, validatorToken.Address, withdraw, env.Account.Address)
		if packErr != nil {
			return chain.Fail(packErr)
		}

		env.Logger.Info("Removing liquidity", logging.StructuredLogInfo{
			"wallet":    env.Account.Label(),
			"userToken": userToken.Name,
			"validator": validatorToken.Name,
			"amount":    env.FromBaseUnits(withdraw).String(),
		})
		return env.Pipeline.Submit(ctx, env.Account.Key(), chain.NewIntent(feeManager.Address, data, chain.GasLimitFactory))
	}
	return chain.Skip("no withdrawable liquidity position in any configured pool")
}

// withdrawAmount sizes a withdrawal as a random 20-50% slice of the position, raised to the provided floor. Callers
// only pass positions at or above the floor, so the result never exceeds the position.
func (a *RemoveLiquidity) withdrawAmount(env *Env, position *big.Int, minimum *big.Int) *big.Int {
	percent := int64(withdrawMinPercent + env.Rand.Intn(withdrawMaxPercent-withdrawMinPercent+1))
	withdraw := new(big.Int).Div(new(big.Int).Mul(position, big.NewInt(percent)), big.NewInt(100))

	if withdraw.Cmp(minimum) < 0 {
		withdraw = new(big.Int).Set(minimum)
	}
	return withdraw
}
