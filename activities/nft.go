package activities

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/tempolabs/drover/chain"
	"github.com/tempolabs/drover/chain/contracts"
	"github.com/tempolabs/drover/logging"
)

// nativeCurrencySentinel is the conventional address the drop contract uses to denote payment in native currency.
var nativeCurrencySentinel = common.HexToAddress("0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE")

// allowlistProof mirrors the drop contract's claim proof tuple. Open editions pass an empty proof.
type allowlistProof struct {
	Proof                  [][32]byte
	QuantityLimitPerWallet *big.Int
	PricePerToken          *big.Int
	Currency               common.Address
}

// ClaimNFT claims one edition from the configured open NFT drop.
type ClaimNFT struct{}

// Kind returns the activity's catalog identifier.
func (a *ClaimNFT) Kind() Kind {
	return KindClaimNFT
}

// Run claims a single free edition to the wallet.
func (a *ClaimNFT) Run(ctx context.Context, env *Env) chain.Outcome {
	drop, err := env.Directory.Contract(contracts.NameNFTDrop)
	if err != nil {
		return chain.Fail(err)
	}

	proof := allowlistProof{
		Proof:                  [][32]byte{},
		QuantityLimitPerWallet: big.NewInt(0),
		PricePerToken:          big.NewInt(0),
		Currency:               nativeCurrencySentinel,
	}
	data, err := drop.Pack("claim", env.Account.Address, big.NewInt(1), nativeCurrencySentinel, big.NewInt(0), proof, []byte{})
	if err != nil {
		return chain.Fail(err)
	}

	env.Logger.Info("Claiming NFT edition", logging.StructuredLogInfo{
		"wallet": env.Account.Label(),
		"drop":   drop.Address.Hex(),
	})
	return env.Pipeline.Submit(ctx, env.Account.Key(), chain.NewIntent(drop.Address, data, chain.GasLimitSwap))
}
