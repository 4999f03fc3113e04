package chain

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/tempolabs/drover/logging"
)

// PipelineConfig describes the retry and confirmation behavior of a Pipeline.
type PipelineConfig struct {
	// RetryAttempts is the number of attempts made for each retryable RPC operation (nonce query, gas price query,
	// broadcast) before the last error is surfaced.
	RetryAttempts int `json:"retryAttempts"`

	// RetryBackoff is the base delay between retry attempts. The actual delay grows linearly with the attempt
	// number.
	RetryBackoff time.Duration `json:"retryBackoff"`

	// ReceiptAttempts is the number of receipt polls performed before confirmation is considered timed out.
	ReceiptAttempts int `json:"receiptAttempts"`

	// ReceiptDelay is the delay between receipt polls.
	ReceiptDelay time.Duration `json:"receiptDelay"`
}

// DefaultPipelineConfig returns a PipelineConfig with sensible defaults for a public testnet endpoint.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		RetryAttempts:   3,
		RetryBackoff:    2 * time.Second,
		ReceiptAttempts: 30,
		ReceiptDelay:    2 * time.Second,
	}
}

// Pipeline turns TxIntents into signed, broadcast, and confirmed transactions. Submissions for the same account are
// serialized so concurrent activities never race on a nonce; submissions for different accounts proceed in parallel.
type Pipeline struct {
	// backend is the node connection used for all chain interaction.
	backend Backend

	// config describes retry and confirmation behavior.
	config PipelineConfig

	// accountLocks holds one mutex per sending account, created lazily. Each lock is held from nonce acquisition
	// through confirmation.
	accountLocks map[common.Address]*sync.Mutex

	// accountLocksLock guards accountLocks.
	accountLocksLock sync.Mutex

	// logger describes the Pipeline's log object that can be used to log messages and associate them with the
	// chain service.
	logger *logging.Logger
}

// NewPipeline returns a Pipeline submitting through the provided backend.
func NewPipeline(backend Backend, config PipelineConfig, logger *logging.Logger) *Pipeline {
	return &Pipeline{
		backend:      backend,
		config:       config,
		accountLocks: make(map[common.Address]*sync.Mutex),
		logger:       logger,
	}
}

// accountLock returns the mutex serializing submissions for the given account, creating it on first use.
func (p *Pipeline) accountLock(account common.Address) *sync.Mutex {
	p.accountLocksLock.Lock()
	defer p.accountLocksLock.Unlock()

	lock, ok := p.accountLocks[account]
	if !ok {
		lock = &sync.Mutex{}
		p.accountLocks[account] = lock
	}
	return lock
}

// Submit signs the provided intent with the given key, broadcasts it, and waits for confirmation. The sending
// account's lock is held for the full submit-to-confirm window, and the nonce is re-read from the node under that
// lock, so consecutive submissions from one account observe strictly increasing nonces.
func (p *Pipeline) Submit(ctx context.Context, key *ecdsa.PrivateKey, intent TxIntent) Outcome {
	sender := crypto.PubkeyToAddress(key.PublicKey)
	lock := p.accountLock(sender)
	lock.Lock()
	defer lock.Unlock()

	// Obtain the account's pending nonce. This is re-read on every submission rather than tracked locally, so the
	// pipeline converges after external transactions or dropped broadcasts.
	var nonce uint64
	err := p.withRetry(ctx, func() error {
		var nonceErr error
		nonce, nonceErr = p.backend.PendingNonceAt(ctx, sender)
		return nonceErr
	})
	if err != nil {
		return Fail(errors.Wrap(err, "could not obtain account nonce"))
	}

	// Obtain the node's suggested gas price.
	var gasPrice *big.Int
	err = p.withRetry(ctx, func() error {
		var gasErr error
		gasPrice, gasErr = p.backend.SuggestGasPrice(ctx)
		return gasErr
	})
	if err != nil {
		return Fail(errors.Wrap(err, "could not obtain gas price"))
	}

	// Construct and sign the transaction locally.
	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      intent.GasLimit,
		To:       intent.To,
		Value:    intent.value(),
		Data:     intent.Data,
	})
	signedTx, err := types.SignTx(tx, types.LatestSignerForChainID(p.backend.ChainID()), key)
	if err != nil {
		return Fail(errors.Wrap(err, "could not sign transaction"))
	}

	// Broadcast, retrying transient RPC failures. Terminal errors (revert at broadcast, invalid nonce,
	// insufficient funds) surface immediately.
	err = p.withRetry(ctx, func() error {
		return p.backend.SendTransaction(ctx, signedTx)
	})
	if err != nil {
		return Fail(errors.Wrap(err, "could not broadcast transaction"))
	}

	p.logger.Debug("Broadcast transaction", logging.StructuredLogInfo{
		"sender": sender.Hex(),
		"nonce":  nonce,
		"tx":     signedTx.Hash().Hex(),
	})

	// Poll for the mined receipt.
	return p.waitMined(ctx, signedTx.Hash())
}

// waitMined polls for the receipt of the given transaction hash until it is mined, the poll budget is exhausted, or
// the context is cancelled.
func (p *Pipeline) waitMined(ctx context.Context, txHash common.Hash) Outcome {
	var lastErr error
	for attempt := 0; attempt < p.config.ReceiptAttempts; attempt++ {
		receipt, err := p.backend.TransactionReceipt(ctx, txHash)
		if err == nil {
			if receipt.Status == types.ReceiptStatusSuccessful {
				return Confirm(receipt)
			}
			return Failf("transaction reverted on-chain (status 0)").WithTxHash(txHash)
		}
		if !errors.Is(err, ethereum.NotFound) && !IsTransient(err) {
			return Fail(errors.Wrap(err, "could not query transaction receipt")).WithTxHash(txHash)
		}
		lastErr = err

		if sleepErr := sleepContext(ctx, p.config.ReceiptDelay); sleepErr != nil {
			return Fail(sleepErr).WithTxHash(txHash)
		}
	}
	return Failf("transaction not confirmed after %d polls (last error: %v); it may still be mined", p.config.ReceiptAttempts, lastErr).WithTxHash(txHash)
}

// withRetry invokes the provided operation, retrying transient failures with linearly increasing backoff up to the
// configured attempt budget. Terminal errors are returned immediately.
func (p *Pipeline) withRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 1; attempt <= p.config.RetryAttempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if !IsTransient(err) {
			return err
		}
		if attempt < p.config.RetryAttempts {
			p.logger.Debug("Retrying transient RPC failure", logging.StructuredLogInfo{
				"attempt": attempt,
				"error":   err.Error(),
			})
			if sleepErr := sleepContext(ctx, time.Duration(attempt)*p.config.RetryBackoff); sleepErr != nil {
				return sleepErr
			}
		}
	}
	return err
}

// sleepContext sleeps for the provided duration, returning early with the context's error if it is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
