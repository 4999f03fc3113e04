package chain

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

// TestClassifyError verifies RPC/network failures are classified as transient while chain-level rejections are
// classified as terminal.
func TestClassifyError(t *testing.T) {
	transient := []string{
		"Post \"http://localhost:8545\": context deadline exceeded",
		"read tcp: connection reset by peer",
		"502 Bad Gateway",
		"too many requests, rate limit exceeded",
		"unexpected EOF",
	}
	for _, msg := range transient {
		assert.Equal(t, ErrorClassTransient, ClassifyError(errors.New(msg)), "message: %s", msg)
	}

	terminal := []string{
		"execution reverted: insufficient allowance",
		"nonce too low",
		"insufficient funds for gas * price + value",
		"invalid sender",
	}
	for _, msg := range terminal {
		assert.Equal(t, ErrorClassTerminal, ClassifyError(errors.New(msg)), "message: %s", msg)
	}
}

// TestIsInsufficientFunds verifies funding failures are recognized regardless of retry classification.
func TestIsInsufficientFunds(t *testing.T) {
	assert.True(t, IsInsufficientFunds(errors.New("insufficient funds for gas * price + value")))
	assert.True(t, IsInsufficientFunds(errors.New("Insufficient Balance")))
	assert.False(t, IsInsufficientFunds(errors.New("execution reverted")))
	assert.False(t, IsInsufficientFunds(nil))
}

// TestOutcomeDiagnosticTruncation verifies long error messages are bounded on the recorded outcome.
func TestOutcomeDiagnosticTruncation(t *testing.T) {
	long := make([]byte, 1000)
	for i := range long {
		long[i] = 'x'
	}
	outcome := Fail(errors.New(string(long)))
	assert.True(t, outcome.Failed())
	assert.LessOrEqual(t, len(outcome.Diagnostic), diagnosticLimit+len("..."))
}
