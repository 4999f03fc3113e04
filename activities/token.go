package activities

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/tempolabs/drover/accounts"
	"github.com/tempolabs/drover/assetstore"
	"github.com/tempolabs/drover/chain"
	"github.com/tempolabs/drover/chain/contracts"
	"github.com/tempolabs/drover/logging"
)

// Role identifiers used by factory-created tokens.
var (
	// issuerRole authorizes minting and burning.
	issuerRole = crypto.Keccak256Hash([]byte("ISSUER_ROLE"))

	// pauseRole authorizes pausing transfers.
	pauseRole = crypto.Keccak256Hash([]byte("PAUSE_ROLE"))
)

// tokenCurrency is the fiat currency denomination passed to the factory for created tokens.
const tokenCurrency = "USD"

// CreateToken creates a new token through the on-chain factory and records it as owned by the wallet. The deployed
// token's address is learned from the factory's TokenCreated event; a confirmed receipt without that event is a
// failure, never a silently guessed address.
type CreateToken struct{}

// Kind returns the activity's catalog identifier.
func (a *CreateToken) Kind() Kind {
	return KindCreateToken
}

// Run submits the factory call, decodes the created token's address from the receipt, and persists it.
func (a *CreateToken) Run(ctx context.Context, env *Env) chain.Outcome {
	factory, err := env.Directory.Contract(contracts.NameFactory)
	if err != nil {
		return chain.Fail(err)
	}

	// A configured token serves as the quote token for the new listing, when one exists.
	quoteToken := common.Address{}
	if symbols, ok := env.pickDistinctSymbols(1); ok {
		token, tokenErr := env.Directory.Token(symbols[0])
		if tokenErr != nil {
			return chain.Fail(tokenErr)
		}
		quoteToken = token.Address
	}

	name := RandomName(env.Rand)
	symbol := RandomSymbol(env.Rand, name)
	data, err := factory.Pack("createToken", name, symbol, tokenCurrency, quoteToken, env.Account.Address)
	if err != nil {
		return chain.Fail(err)
	}

	env.Logger.Info("Creating token", logging.StructuredLogInfo{
		"wallet": env.Account.Label(),
		"name":   name,
		"symbol": symbol,
	})
	outcome := env.Pipeline.Submit(ctx, env.Account.Key(), chain.NewIntent(factory.Address, data, chain.GasLimitFactory))
	if !outcome.Confirmed() {
		return outcome
	}

	decoded, found, err := factory.DecodeEventLog("TokenCreated", outcome.Receipt.Logs)
	if err != nil {
		return chain.Fail(err)
	}
	if !found {
		return chain.Failf("token creation confirmed but the receipt carries no TokenCreated event (tx: %s)", outcome.TxHash.Hex()).WithTxHash(outcome.TxHash)
	}
	tokenAddress, ok := decoded["token"].(common.Address)
	if !ok {
		return chain.Failf("TokenCreated event carries no token address (tx: %s)", outcome.TxHash.Hex()).WithTxHash(outcome.TxHash)
	}

	if err = env.Store.Record(env.Account.Address, assetstore.Record{
		Kind:    assetstore.AssetKindToken,
		Address: tokenAddress,
		Name:    name,
		Symbol:  symbol,
	}); err != nil {
		return chain.Fail(err)
	}
	env.Logger.Info("Token created", logging.StructuredLogInfo{
		"wallet": env.Account.Label(),
		"token":  tokenAddress.Hex(),
		"symbol": symbol,
	})
	return outcome
}

// MintToken mints supply on a token the wallet previously created, granting itself the issuer role first when it
// does not hold it yet.
type MintToken struct {
	// Token selects the created token to mint on. The zero address picks one at random from the wallet's recorded
	// tokens.
	Token common.Address
}

// Kind returns the activity's catalog identifier.
func (a *MintToken) Kind() Kind {
	return KindMintToken
}

// Run mints the configured amount to the wallet, submitting an issuer role grant first if needed.
func (a *MintToken) Run(ctx context.Context, env *Env) chain.Outcome {
	token, outcome := resolveOwnToken(env, a.Token)
	if outcome != nil {
		return *outcome
	}

	// The issuer role gates minting; grant it to ourselves on first use. The admin of a created token can always
	// grant roles on it.
	var hasIssuerRole bool
	if err := token.Call(ctx, env.Backend, "hasRole", []any{&hasIssuerRole}, issuerRole, env.Account.Address); err != nil {
		return chain.Fail(err)
	}
	if !hasIssuerRole {
		data, err := token.Pack("grantRole", issuerRole, env.Account.Address)
		if err != nil {
			return chain.Fail(err)
		}
		env.Logger.Info("Granting issuer role", logging.StructuredLogInfo{
			"wallet": env.Account.Label(),
			"token":  token.Address.Hex(),
		})
		if grantOutcome := env.Pipeline.Submit(ctx, env.Account.Key(), chain.NewIntent(token.Address, data, chain.GasLimitMemo)); !grantOutcome.Confirmed() {
			return grantOutcome
		}
	}

	amount := env.ToBaseUnits(env.Settings.MintAmount)
	data, err := token.Pack("mint", env.Account.Address, amount)
	if err != nil {
		return chain.Fail(err)
	}
	env.Logger.Info("Minting tokens", logging.StructuredLogInfo{
		"wallet": env.Account.Label(),
		"token":  token.Address.Hex(),
		"amount": env.Settings.MintAmount.String(),
	})
	return env.Pipeline.Submit(ctx, env.Account.Key(), chain.NewIntent(token.Address, data, chain.GasLimitMint))
}

// BurnToken burns supply on a token the wallet previously created.
type BurnToken struct {
	// Token selects the created token to burn on. The zero address picks one at random from the wallet's recorded
	// tokens.
	Token common.Address
}

// Kind returns the activity's catalog identifier.
func (a *BurnToken) Kind() Kind {
	return KindBurnToken
}

// Run burns the configured amount, skipping while the wallet's balance on the token is below it.
func (a *BurnToken) Run(ctx context.Context, env *Env) chain.Outcome {
	token, outcome := resolveOwnToken(env, a.Token)
	if outcome != nil {
		return *outcome
	}

	amount := env.ToBaseUnits(env.Settings.BurnAmount)
	balance, err := env.TokenBalance(ctx, token)
	if err != nil {
		return chain.Fail(err)
	}
	if balance.Cmp(amount) < 0 {
		return chain.Skip(fmt.Sprintf("balance %s on own token is below burn amount %s", env.FromBaseUnits(balance), env.Settings.BurnAmount))
	}

	data, err := token.Pack("burn", amount)
	if err != nil {
		return chain.Fail(err)
	}
	env.Logger.Info("Burning tokens", logging.StructuredLogInfo{
		"wallet": env.Account.Label(),
		"token":  token.Address.Hex(),
		"amount": env.Settings.BurnAmount.String(),
	})
	return env.Pipeline.Submit(ctx, env.Account.Key(), chain.NewIntent(token.Address, data, chain.GasLimitMint))
}

// GrantRole grants the pause role on a created token to a freshly generated account.
type GrantRole struct {
	// Token selects the created token to grant on. The zero address picks one at random from the wallet's recorded
	// tokens.
	Token common.Address
}

// Kind returns the activity's catalog identifier.
func (a *GrantRole) Kind() Kind {
	return KindGrantRole
}

// Run grants the pause role to a fresh account, skipping if the grantee somehow holds it already.
func (a *GrantRole) Run(ctx context.Context, env *Env) chain.Outcome {
	token, outcome := resolveOwnToken(env, a.Token)
	if outcome != nil {
		return *outcome
	}

	grantee, err := accounts.GenerateRecipient()
	if err != nil {
		return chain.Fail(err)
	}
	var held bool
	if err = token.Call(ctx, env.Backend, "hasRole", []any{&held}, pauseRole, grantee.Address); err != nil {
		return chain.Fail(err)
	}
	if held {
		return chain.Skip("grantee already holds the pause role")
	}

	data, err := token.Pack("grantRole", pauseRole, grantee.Address)
	if err != nil {
		return chain.Fail(err)
	}
	env.Logger.Info("Granting pause role", logging.StructuredLogInfo{
		"wallet":  env.Account.Label(),
		"token":   token.Address.Hex(),
		"grantee": grantee.Address.Hex(),
	})
	return env.Pipeline.Submit(ctx, env.Account.Key(), chain.NewIntent(token.Address, data, chain.GasLimitMemo))
}

// resolveOwnToken resolves a token the wallet created, either the explicitly selected address or a random recorded
// one. Having created no tokens yet is a skip for the caller to surface.
func resolveOwnToken(env *Env, selected common.Address) (*contracts.Contract, *chain.Outcome) {
	if selected != (common.Address{}) {
		return env.Directory.TokenAt(selected), nil
	}

	owned, err := env.Store.TokensByOwner(env.Account.Address)
	if err != nil {
		outcome := chain.Fail(err)
		return nil, &outcome
	}
	if len(owned) == 0 {
		outcome := chain.Skip("wallet has not created any tokens yet")
		return nil, &outcome
	}
	return env.Directory.TokenAt(owned[env.Rand.Intn(len(owned))]), nil
}
