package activities

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/tempolabs/drover/accounts"
	"github.com/tempolabs/drover/chain"
	"github.com/tempolabs/drover/chain/contracts"
	"github.com/tempolabs/drover/logging"
)

// TokenTransfer sends a small token amount to a freshly generated recipient. An empty TokenSymbol picks a random
// configured token the wallet can cover the transfer from.
type TokenTransfer struct {
	// TokenSymbol selects the token to transfer. Empty picks one at random.
	TokenSymbol string
}

// Kind returns the activity's catalog identifier.
func (a *TokenTransfer) Kind() Kind {
	return KindTokenTransfer
}

// Run transfers the configured amount to a fresh recipient, skipping if the wallet's balance cannot cover it.
func (a *TokenTransfer) Run(ctx context.Context, env *Env) chain.Outcome {
	token, outcome := resolveFundedToken(ctx, env, a.TokenSymbol, env.ToBaseUnits(env.Settings.TransferAmount))
	if outcome != nil {
		return *outcome
	}

	recipient, err := accounts.GenerateRecipient()
	if err != nil {
		return chain.Fail(err)
	}

	data, err := token.Pack("transfer", recipient.Address, env.ToBaseUnits(env.Settings.TransferAmount))
	if err != nil {
		return chain.Fail(err)
	}

	env.Logger.Info("Transferring tokens", logging.StructuredLogInfo{
		"wallet": env.Account.Label(),
		"token":  token.Name,
		"to":     recipient.Address.Hex(),
		"amount": env.Settings.TransferAmount.String(),
	})
	return env.Pipeline.Submit(ctx, env.Account.Key(), chain.NewIntent(token.Address, data, chain.GasLimitTransfer))
}

// TransferWithMemo sends a token amount carrying a short on-chain memo.
type TransferWithMemo struct {
	// TokenSymbol selects the token to transfer. Empty picks one at random.
	TokenSymbol string
}

// Kind returns the activity's catalog identifier.
func (a *TransferWithMemo) Kind() Kind {
	return KindTransferWithMemo
}

// Run transfers the configured amount with a memo derived from a generated name, skipping if the wallet's balance
// cannot cover it.
func (a *TransferWithMemo) Run(ctx context.Context, env *Env) chain.Outcome {
	token, outcome := resolveFundedToken(ctx, env, a.TokenSymbol, env.ToBaseUnits(env.Settings.TransferAmount))
	if outcome != nil {
		return *outcome
	}

	recipient, err := accounts.GenerateRecipient()
	if err != nil {
		return chain.Fail(err)
	}

	memo := crypto.Keccak256Hash([]byte(RandomName(env.Rand)))
	data, err := token.Pack("transferWithMemo", recipient.Address, env.ToBaseUnits(env.Settings.TransferAmount), memo)
	if err != nil {
		return chain.Fail(err)
	}

	env.Logger.Info("Transferring tokens with memo", logging.StructuredLogInfo{
		"wallet": env.Account.Label(),
		"token":  token.Name,
		"to":     recipient.Address.Hex(),
		"memo":   memo.Hex(),
	})
	return env.Pipeline.Submit(ctx, env.Account.Key(), chain.NewIntent(token.Address, data, chain.GasLimitMemo))
}

// resolveFundedToken resolves the named token, or a random configured token when the name is empty, and verifies the
// wallet's balance covers the required base-unit amount. On failure or unmet precondition it returns a non-nil
// Outcome for the caller to surface.
func resolveFundedToken(ctx context.Context, env *Env, symbol string, required *big.Int) (*contracts.Contract, *chain.Outcome) {
	var token *contracts.Contract
	var err error
	if symbol != "" {
		if token, err = env.Directory.Token(symbol); err != nil {
			outcome := chain.Fail(err)
			return nil, &outcome
		}
	} else {
		symbols, ok := env.pickDistinctSymbols(1)
		if !ok {
			outcome := chain.Skip("no tokens configured")
			return nil, &outcome
		}
		if token, err = env.Directory.Token(symbols[0]); err != nil {
			outcome := chain.Fail(err)
			return nil, &outcome
		}
	}

	balance, err := env.TokenBalance(ctx, token)
	if err != nil {
		outcome := chain.Fail(err)
		return nil, &outcome
	}
	if balance.Cmp(required) < 0 {
		outcome := chain.Skip(fmt.Sprintf("%s balance %s does not cover %s", token.Name, env.FromBaseUnits(balance), env.FromBaseUnits(required)))
		return nil, &outcome
	}
	return token, nil
}
