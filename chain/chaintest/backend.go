// Package chaintest provides an in-memory Backend implementation for exercising transaction submission and activity
// logic without a live node.
package chaintest

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
)

// FakeBackend implements chain.Backend entirely in memory. Transactions sent to it are recorded and immediately
// assigned receipts, nonces advance per sender, and per-call error queues let tests inject transient or terminal
// failures at specific points.
type FakeBackend struct {
	// lock guards all mutable state below.
	lock sync.Mutex

	// chainID is the chain ID reported to callers.
	chainID *big.Int

	// nonces tracks the next pending nonce per sender.
	nonces map[common.Address]uint64

	// balances tracks native currency balances per account.
	balances map[common.Address]*big.Int

	// receipts maps mined transaction hashes to their receipts.
	receipts map[common.Hash]*types.Receipt

	// sentTransactions records every transaction accepted by SendTransaction, in order.
	sentTransactions []*types.Transaction

	// nonceErrors is a queue of errors returned by successive PendingNonceAt calls. A nil entry means the call
	// succeeds.
	nonceErrors []error

	// sendErrors is a queue of errors returned by successive SendTransaction calls. A nil entry means the call
	// succeeds.
	sendErrors []error

	// receiptNotFoundPolls is the number of TransactionReceipt calls that report not-found before receipts become
	// visible, simulating mining delay.
	receiptNotFoundPolls int

	// nextReceiptStatus is the execution status assigned to the next mined receipt.
	nextReceiptStatus uint64

	// callHandler services CallContract requests. A nil handler returns an error for every call.
	callHandler func(msg ethereum.CallMsg) ([]byte, error)

	// rawCallHandler services RawCall requests. A nil handler returns an error for every call.
	rawCallHandler func(result any, method string, args ...any) error
}

// NewFakeBackend returns a FakeBackend reporting the provided chain ID.
func NewFakeBackend(chainID int64) *FakeBackend {
	return &FakeBackend{
		chainID:           big.NewInt(chainID),
		nonces:            make(map[common.Address]uint64),
		balances:          make(map[common.Address]*big.Int),
		receipts:          make(map[common.Hash]*types.Receipt),
		nextReceiptStatus: types.ReceiptStatusSuccessful,
	}
}

// ChainID returns the configured chain ID.
func (b *FakeBackend) ChainID() *big.Int {
	return b.chainID
}

// PendingNonceAt returns the next nonce for the given account, or the next queued nonce error.
func (b *FakeBackend) PendingNonceAt(_ context.Context, account common.Address) (uint64, error) {
	b.lock.Lock()
	defer b.lock.Unlock()

	if err := popError(&b.nonceErrors); err != nil {
		return 0, err
	}
	return b.nonces[account], nil
}

// SuggestGasPrice returns a fixed gas price.
func (b *FakeBackend) SuggestGasPrice(_ context.Context) (*big.Int, error) {
	return big.NewInt(1_000_000_000), nil
}

// SendTransaction records the transaction, advances the sender's nonce, and mines a receipt for it.
func (b *FakeBackend) SendTransaction(_ context.Context, tx *types.Transaction) error {
	b.lock.Lock()
	defer b.lock.Unlock()

	if err := popError(&b.sendErrors); err != nil {
		return err
	}

	sender, err := types.Sender(types.LatestSignerForChainID(b.chainID), tx)
	if err != nil {
		return errors.Wrap(err, "could not recover transaction sender")
	}
	if tx.Nonce() != b.nonces[sender] {
		return errors.Errorf("invalid nonce: got %d, expected %d", tx.Nonce(), b.nonces[sender])
	}

	b.sentTransactions = append(b.sentTransactions, tx)
	b.nonces[sender] = tx.Nonce() + 1
	b.receipts[tx.Hash()] = &types.Receipt{
		Status: b.nextReceiptStatus,
		TxHash: tx.Hash(),
	}
	b.nextReceiptStatus = types.ReceiptStatusSuccessful
	return nil
}

// TransactionReceipt returns the receipt for a recorded transaction, honoring any configured mining delay.
func (b *FakeBackend) TransactionReceipt(_ context.Context, txHash common.Hash) (*types.Receipt, error) {
	b.lock.Lock()
	defer b.lock.Unlock()

	if b.receiptNotFoundPolls > 0 {
		b.receiptNotFoundPolls--
		return nil, ethereum.NotFound
	}
	receipt, ok := b.receipts[txHash]
	if !ok {
		return nil, ethereum.NotFound
	}
	return receipt, nil
}

// BalanceAt returns the configured balance for the given account, defaulting to zero.
func (b *FakeBackend) BalanceAt(_ context.Context, account common.Address) (*big.Int, error) {
	b.lock.Lock()
	defer b.lock.Unlock()

	if balance, ok := b.balances[account]; ok {
		return new(big.Int).Set(balance), nil
	}
	return big.NewInt(0), nil
}

// CallContract delegates to the configured call handler.
func (b *FakeBackend) CallContract(_ context.Context, msg ethereum.CallMsg) ([]byte, error) {
	b.lock.Lock()
	handler := b.callHandler
	b.lock.Unlock()

	if handler == nil {
		return nil, errors.New("no call handler configured")
	}
	return handler(msg)
}

// RawCall delegates to the configured raw call handler.
func (b *FakeBackend) RawCall(_ context.Context, result any, method string, args ...any) error {
	b.lock.Lock()
	handler := b.rawCallHandler
	b.lock.Unlock()

	if handler == nil {
		return errors.Errorf("no raw call handler configured for method %s", method)
	}
	return handler(result, method, args...)
}

// SetBalance configures the native currency balance for an account.
func (b *FakeBackend) SetBalance(account common.Address, balance *big.Int) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.balances[account] = new(big.Int).Set(balance)
}

// QueueNonceErrors appends errors to be returned by successive PendingNonceAt calls.
func (b *FakeBackend) QueueNonceErrors(errs ...error) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.nonceErrors = append(b.nonceErrors, errs...)
}

// QueueSendErrors appends errors to be returned by successive SendTransaction calls.
func (b *FakeBackend) QueueSendErrors(errs ...error) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.sendErrors = append(b.sendErrors, errs...)
}

// DelayReceipts configures the number of TransactionReceipt calls that report not-found before receipts become
// visible.
func (b *FakeBackend) DelayReceipts(polls int) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.receiptNotFoundPolls = polls
}

// FailNextReceipt marks the next mined receipt as reverted.
func (b *FakeBackend) FailNextReceipt() {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.nextReceiptStatus = types.ReceiptStatusFailed
}

// SetCallHandler configures the handler servicing CallContract requests.
func (b *FakeBackend) SetCallHandler(handler func(msg ethereum.CallMsg) ([]byte, error)) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.callHandler = handler
}

// SetRawCallHandler configures the handler servicing RawCall requests.
func (b *FakeBackend) SetRawCallHandler(handler func(result any, method string, args ...any) error) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.rawCallHandler = handler
}

// SentTransactions returns a snapshot of all transactions accepted so far, in broadcast order.
func (b *FakeBackend) SentTransactions() []*types.Transaction {
	b.lock.Lock()
	defer b.lock.Unlock()
	return append([]*types.Transaction(nil), b.sentTransactions...)
}

// popError removes and returns the first error in the queue, or nil if the queue is empty.
func popError(queue *[]error) error {
	if len(*queue) == 0 {
		return nil
	}
	err := (*queue)[0]
	*queue = (*queue)[1:]
	return err
}
