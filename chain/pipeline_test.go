package chain

import (
	"context"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/tempolabs/drover/chain/chaintest"
	"github.com/tempolabs/drover/logging"
)

// testPipelineConfig returns a PipelineConfig with delays short enough for tests.
func testPipelineConfig() PipelineConfig {
	return PipelineConfig{
		RetryAttempts:   3,
		RetryBackoff:    time.Millisecond,
		ReceiptAttempts: 5,
		ReceiptDelay:    time.Millisecond,
	}
}

// TestPipelineNoncesStrictlyIncrease runs sequential submissions from one account and verifies each broadcast
// transaction carries the next nonce in sequence.
func TestPipelineNoncesStrictlyIncrease(t *testing.T) {
	backend := chaintest.NewFakeBackend(1)
	pipeline := NewPipeline(backend, testPipelineConfig(), logging.NewLogger(zerolog.Disabled))

	key, err := crypto.GenerateKey()
	assert.NoError(t, err)

	to := crypto.PubkeyToAddress(key.PublicKey)
	for i := 0; i < 5; i++ {
		outcome := pipeline.Submit(context.Background(), key, NewIntent(to, nil, GasLimitTransfer))
		assert.True(t, outcome.Confirmed(), "submission %d: %s", i, outcome)
	}

	sent := backend.SentTransactions()
	assert.Len(t, sent, 5)
	for i, tx := range sent {
		assert.EqualValues(t, i, tx.Nonce())
	}
}

// TestPipelineRetriesTransientBroadcastErrors verifies transient RPC failures during broadcast are retried until the
// attempt budget succeeds, and that the transaction ultimately confirms.
func TestPipelineRetriesTransientBroadcastErrors(t *testing.T) {
	backend := chaintest.NewFakeBackend(1)
	backend.QueueSendErrors(errors.New("connection reset by peer"), errors.New("gateway timeout"))
	pipeline := NewPipeline(backend, testPipelineConfig(), logging.NewLogger(zerolog.Disabled))

	key, err := crypto.GenerateKey()
	assert.NoError(t, err)

	outcome := pipeline.Submit(context.Background(), key, NewIntent(crypto.PubkeyToAddress(key.PublicKey), nil, GasLimitTransfer))
	assert.True(t, outcome.Confirmed(), "outcome: %s", outcome)
	assert.Len(t, backend.SentTransactions(), 1)
}

// TestPipelineTerminalBroadcastErrorFailsImmediately verifies a chain-level rejection is not retried and surfaces as
// a failed outcome.
func TestPipelineTerminalBroadcastErrorFailsImmediately(t *testing.T) {
	backend := chaintest.NewFakeBackend(1)
	backend.QueueSendErrors(errors.New("execution reverted: transfer amount exceeds balance"))
	pipeline := NewPipeline(backend, testPipelineConfig(), logging.NewLogger(zerolog.Disabled))

	key, err := crypto.GenerateKey()
	assert.NoError(t, err)

	outcome := pipeline.Submit(context.Background(), key, NewIntent(crypto.PubkeyToAddress(key.PublicKey), nil, GasLimitTransfer))
	assert.True(t, outcome.Failed())
	assert.Contains(t, outcome.Diagnostic, "reverted")
	assert.Empty(t, backend.SentTransactions())
}

// TestPipelineFlagsInsufficientFunds verifies an insufficient-funds rejection is marked on the outcome so recovery
// can trigger.
func TestPipelineFlagsInsufficientFunds(t *testing.T) {
	backend := chaintest.NewFakeBackend(1)
	backend.QueueSendErrors(errors.New("insufficient funds for gas * price + value"))
	pipeline := NewPipeline(backend, testPipelineConfig(), logging.NewLogger(zerolog.Disabled))

	key, err := crypto.GenerateKey()
	assert.NoError(t, err)

	outcome := pipeline.Submit(context.Background(), key, NewIntent(crypto.PubkeyToAddress(key.PublicKey), nil, GasLimitTransfer))
	assert.True(t, outcome.Failed())
	assert.True(t, outcome.InsufficientFunds)
}

// TestPipelineWaitsForDelayedReceipt verifies a transaction whose receipt appears after a few polls still confirms.
func TestPipelineWaitsForDelayedReceipt(t *testing.T) {
	backend := chaintest.NewFakeBackend(1)
	backend.DelayReceipts(3)
	pipeline := NewPipeline(backend, testPipelineConfig(), logging.NewLogger(zerolog.Disabled))

	key, err := crypto.GenerateKey()
	assert.NoError(t, err)

	outcome := pipeline.Submit(context.Background(), key, NewIntent(crypto.PubkeyToAddress(key.PublicKey), nil, GasLimitTransfer))
	assert.True(t, outcome.Confirmed(), "outcome: %s", outcome)
}

// TestPipelineRevertedReceiptFails verifies a mined-but-reverted transaction produces a failed outcome carrying the
// transaction hash.
func TestPipelineRevertedReceiptFails(t *testing.T) {
	backend := chaintest.NewFakeBackend(1)
	backend.FailNextReceipt()
	pipeline := NewPipeline(backend, testPipelineConfig(), logging.NewLogger(zerolog.Disabled))

	key, err := crypto.GenerateKey()
	assert.NoError(t, err)

	outcome := pipeline.Submit(context.Background(), key, NewIntent(crypto.PubkeyToAddress(key.PublicKey), nil, GasLimitTransfer))
	assert.True(t, outcome.Failed())
	assert.Contains(t, outcome.Diagnostic, "reverted")
	assert.Equal(t, backend.SentTransactions()[0].Hash(), outcome.TxHash)
}

// TestPipelineRetriesTransientNonceErrors verifies transient failures during the nonce query are retried.
func TestPipelineRetriesTransientNonceErrors(t *testing.T) {
	backend := chaintest.NewFakeBackend(1)
	backend.QueueNonceErrors(errors.New("503 service unavailable"))
	pipeline := NewPipeline(backend, testPipelineConfig(), logging.NewLogger(zerolog.Disabled))

	key, err := crypto.GenerateKey()
	assert.NoError(t, err)

	outcome := pipeline.Submit(context.Background(), key, NewIntent(crypto.PubkeyToAddress(key.PublicKey), nil, GasLimitTransfer))
	assert.True(t, outcome.Confirmed(), "outcome: %s", outcome)
}
