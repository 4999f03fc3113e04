package activities

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/tempolabs/drover/assetstore"
	"github.com/tempolabs/drover/chain"
	"github.com/tempolabs/drover/logging"
)

// minimalInitCode deploys a tiny contract whose runtime returns the constant 42, enough to exercise deployment flow
// and leave a resolvable code address behind.
var minimalInitCode = common.FromHex("0x600a600c600039600a6000f3602a60505260206050f3")

// DeployContract deploys a minimal contract from raw init code and records the deployment.
type DeployContract struct{}

// Kind returns the activity's catalog identifier.
func (a *DeployContract) Kind() Kind {
	return KindDeployContract
}

// Run deploys the init code and records the resulting address.
func (a *DeployContract) Run(ctx context.Context, env *Env) chain.Outcome {
	env.Logger.Info("Deploying contract", logging.StructuredLogInfo{
		"wallet": env.Account.Label(),
	})
	outcome := env.Pipeline.Submit(ctx, env.Account.Key(), chain.NewDeployIntent(minimalInitCode))
	if !outcome.Confirmed() {
		return outcome
	}

	if err := env.Store.Record(env.Account.Address, assetstore.Record{
		Kind:    assetstore.AssetKindContract,
		Address: outcome.Receipt.ContractAddress,
	}); err != nil {
		return chain.Fail(err)
	}
	return outcome
}

// DeployNFT deploys an NFT collection named from the word dictionary and records it.
type DeployNFT struct{}

// Kind returns the activity's catalog identifier.
func (a *DeployNFT) Kind() Kind {
	return KindDeployNFT
}

// Run deploys the collection and records its generated name alongside the address.
func (a *DeployNFT) Run(ctx context.Context, env *Env) chain.Outcome {
	name := fmt.Sprintf("%s Collection", RandomName(env.Rand))
	env.Logger.Info("Deploying NFT collection", logging.StructuredLogInfo{
		"wallet": env.Account.Label(),
		"name":   name,
	})
	outcome := env.Pipeline.Submit(ctx, env.Account.Key(), chain.NewDeployIntent(minimalInitCode))
	if !outcome.Confirmed() {
		return outcome
	}

	if err := env.Store.Record(env.Account.Address, assetstore.Record{
		Kind:    assetstore.AssetKindNFT,
		Address: outcome.Receipt.ContractAddress,
		Name:    name,
	}); err != nil {
		return chain.Fail(err)
	}
	return outcome
}
