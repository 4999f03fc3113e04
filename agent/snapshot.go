package agent

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/tempolabs/drover/activities"
)

// BalanceSnapshot captures a wallet's native and token balances at one point in time, in display units. Decision
// rules compare against it instead of issuing their own reads, so one cycle sees one consistent view.
type BalanceSnapshot struct {
	// Native is the wallet's native currency balance.
	Native decimal.Decimal

	// Tokens maps configured token symbols to the wallet's balances on them.
	Tokens map[string]decimal.Decimal
}

// TakeSnapshot reads the wallet's native balance and its balance on every configured token.
func TakeSnapshot(ctx context.Context, env *activities.Env) (*BalanceSnapshot, error) {
	native, err := env.Backend.BalanceAt(ctx, env.Account.Address)
	if err != nil {
		return nil, errors.Wrap(err, "could not read native balance")
	}

	snapshot := &BalanceSnapshot{
		Native: decimal.NewFromBigInt(native, -activities.NativeDecimals),
		Tokens: make(map[string]decimal.Decimal),
	}
	for _, symbol := range env.Directory.TokenSymbols() {
		token, tokenErr := env.Directory.Token(symbol)
		if tokenErr != nil {
			return nil, tokenErr
		}
		balance, balanceErr := env.TokenBalance(ctx, token)
		if balanceErr != nil {
			return nil, errors.Wrapf(balanceErr, "could not read %s balance", symbol)
		}
		snapshot.Tokens[symbol] = env.FromBaseUnits(balance)
	}
	return snapshot, nil
}

// richestToken returns the symbol with the highest balance in the snapshot, iterating symbols in sorted order so
// ties break deterministically.
func (s *BalanceSnapshot) richestToken(symbols []string) (string, decimal.Decimal) {
	best, bestBalance := "", decimal.Zero
	for _, symbol := range symbols {
		if balance := s.Tokens[symbol]; best == "" || balance.GreaterThan(bestBalance) {
			best, bestBalance = symbol, balance
		}
	}
	return best, bestBalance
}

// poorestToken returns the symbol with the lowest balance in the snapshot, excluding the provided symbol.
func (s *BalanceSnapshot) poorestToken(symbols []string, excluding string) (string, decimal.Decimal) {
	best, bestBalance := "", decimal.Zero
	for _, symbol := range symbols {
		if symbol == excluding {
			continue
		}
		if balance := s.Tokens[symbol]; best == "" || balance.LessThan(bestBalance) {
			best, bestBalance = symbol, balance
		}
	}
	return best, bestBalance
}
