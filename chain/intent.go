package chain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Default gas limits per transaction category. These are fixed hints rather than estimates, so a transaction's cost
// ceiling is known before it is signed.
const (
	// GasLimitTransfer covers native transfers, token transfers, and approvals.
	GasLimitTransfer = 100_000

	// GasLimitSwap covers swaps, NFT claims, and limit orders.
	GasLimitSwap = 300_000

	// GasLimitFactory covers token factory calls and liquidity operations.
	GasLimitFactory = 500_000

	// GasLimitMemo covers memo-carrying transfers and role grants.
	GasLimitMemo = 150_000

	// GasLimitMint covers token mint and burn calls.
	GasLimitMint = 200_000

	// GasLimitDeploy covers raw contract deployments.
	GasLimitDeploy = 2_500_000
)

// TxIntent describes a transaction an activity wants executed, before any chain-specific fields (nonce, gas price,
// signature) are attached. The pipeline owns those.
type TxIntent struct {
	// To is the recipient address. It is nil for contract deployments.
	To *common.Address

	// Data is the calldata, or the init code for deployments.
	Data []byte

	// Value is the native currency amount to attach. A nil Value is treated as zero.
	Value *big.Int

	// GasLimit is the fixed gas limit hint for this transaction category.
	GasLimit uint64
}

// NewIntent returns a TxIntent calling the provided address with the given calldata and gas limit.
func NewIntent(to common.Address, data []byte, gasLimit uint64) TxIntent {
	return TxIntent{
		To:       &to,
		Data:     data,
		GasLimit: gasLimit,
	}
}

// NewDeployIntent returns a TxIntent deploying the provided init code.
func NewDeployIntent(initCode []byte) TxIntent {
	return TxIntent{
		Data:     initCode,
		GasLimit: GasLimitDeploy,
	}
}

// WithValue returns a copy of the TxIntent carrying the provided native currency value.
func (i TxIntent) WithValue(value *big.Int) TxIntent {
	i.Value = value
	return i
}

// value returns the intent's value, substituting zero for nil.
func (i TxIntent) value() *big.Int {
	if i.Value == nil {
		return big.NewInt(0)
	}
	return i.Value
}
