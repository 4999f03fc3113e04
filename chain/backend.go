package chain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Backend describes the subset of node functionality the pipeline and activities depend on. It is implemented by
// Client against a live RPC endpoint and by test fakes elsewhere.
type Backend interface {
	// ChainID returns the chain ID the backend is connected to.
	ChainID() *big.Int

	// PendingNonceAt returns the next nonce for the given account, including pending transactions.
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)

	// SuggestGasPrice returns the gas price the node currently suggests.
	SuggestGasPrice(ctx context.Context) (*big.Int, error)

	// SendTransaction broadcasts a signed transaction.
	SendTransaction(ctx context.Context, tx *types.Transaction) error

	// TransactionReceipt returns the receipt for a mined transaction, or ethereum.NotFound if it has not been mined
	// yet.
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)

	// BalanceAt returns the native currency balance of the given account.
	BalanceAt(ctx context.Context, account common.Address) (*big.Int, error)

	// CallContract executes a read-only contract call.
	CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error)

	// RawCall invokes an arbitrary JSON-RPC method, unmarshalling the result into the provided value. This exists
	// for endpoint-specific methods that have no typed client wrapper.
	RawCall(ctx context.Context, result any, method string, args ...any) error
}
