// Package activities defines the closed catalog of on-chain actions an agent can perform, each expressed as a Recipe
// producing exactly one Outcome per execution.
package activities

import (
	"context"

	"github.com/pkg/errors"
	"github.com/tempolabs/drover/chain"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Kind identifies an activity in the catalog.
type Kind string

const (
	// KindFaucet requests native currency funding from the endpoint's faucet.
	KindFaucet Kind = "faucet"

	// KindTokenTransfer sends a small token amount to a fresh recipient.
	KindTokenTransfer Kind = "token-transfer"

	// KindTransferWithMemo sends a token amount carrying an on-chain memo.
	KindTransferWithMemo Kind = "transfer-with-memo"

	// KindSwap trades one configured token for another through the exchange.
	KindSwap Kind = "swap"

	// KindAddLiquidity provides token liquidity to a fee manager pool.
	KindAddLiquidity Kind = "add-liquidity"

	// KindRemoveLiquidity withdraws part of an existing fee manager pool position.
	KindRemoveLiquidity Kind = "remove-liquidity"

	// KindCreateToken creates a new token through the on-chain factory.
	KindCreateToken Kind = "create-token"

	// KindMintToken mints supply on a token the wallet previously created.
	KindMintToken Kind = "mint-token"

	// KindBurnToken burns supply on a token the wallet previously created.
	KindBurnToken Kind = "burn-token"

	// KindGrantRole grants a pause role on a created token to a fresh account.
	KindGrantRole Kind = "grant-role"

	// KindDeployContract deploys a minimal contract from raw init code.
	KindDeployContract Kind = "deploy-contract"

	// KindDeployNFT deploys a named NFT collection.
	KindDeployNFT Kind = "deploy-nft"

	// KindClaimNFT claims one edition from the configured NFT drop.
	KindClaimNFT Kind = "claim-nft"

	// KindLimitOrder rests a limit order on the exchange's book.
	KindLimitOrder Kind = "limit-order"

	// KindSetFeeToken selects the wallet's preferred fee token on the fee manager.
	KindSetFeeToken Kind = "set-fee-token"
)

// Recipe describes one executable activity. Run performs the full sequence for the activity, including precondition
// checks and any prerequisite approvals, and always returns a single Outcome.
type Recipe interface {
	// Kind returns the activity's catalog identifier.
	Kind() Kind

	// Run executes the activity against the provided environment.
	Run(ctx context.Context, env *Env) chain.Outcome
}

// registry maps each Kind to a constructor for its default-parameterized Recipe.
var registry = map[Kind]func() Recipe{
	KindFaucet:           func() Recipe { return &Faucet{} },
	KindTokenTransfer:    func() Recipe { return &TokenTransfer{} },
	KindTransferWithMemo: func() Recipe { return &TransferWithMemo{} },
	KindSwap:             func() Recipe { return &Swap{} },
	KindAddLiquidity:     func() Recipe { return &AddLiquidity{} },
	KindRemoveLiquidity:  func() Recipe { return &RemoveLiquidity{} },
	KindCreateToken:      func() Recipe { return &CreateToken{} },
	KindMintToken:        func() Recipe { return &MintToken{} },
	KindBurnToken:        func() Recipe { return &BurnToken{} },
	KindGrantRole:        func() Recipe { return &GrantRole{} },
	KindDeployContract:   func() Recipe { return &DeployContract{} },
	KindDeployNFT:        func() Recipe { return &DeployNFT{} },
	KindClaimNFT:         func() Recipe { return &ClaimNFT{} },
	KindLimitOrder:       func() Recipe { return &LimitOrder{} },
	KindSetFeeToken:      func() Recipe { return &SetFeeToken{} },
}

// AllKinds returns every catalog Kind in sorted order.
func AllKinds() []Kind {
	kinds := maps.Keys(registry)
	slices.Sort(kinds)
	return kinds
}

// New constructs the default-parameterized Recipe for the provided Kind. Unknown kinds are an explicit error, never
// a silent no-op.
func New(kind Kind) (Recipe, error) {
	constructor, ok := registry[kind]
	if !ok {
		return nil, errors.Errorf("unknown activity kind %q", kind)
	}
	return constructor(), nil
}
