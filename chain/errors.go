package chain

import "strings"

// ErrorClass describes how callers should react to an error surfaced by the RPC endpoint or the chain itself.
type ErrorClass int

const (
	// ErrorClassTransient describes RPC/network errors (timeouts, connection resets, gateway errors) which are
	// expected to resolve on their own and should be retried with backoff.
	ErrorClassTransient ErrorClass = iota

	// ErrorClassTerminal describes chain-level errors (reverted execution, invalid nonce, insufficient funds) which
	// will not resolve by retrying and must be surfaced to the caller immediately.
	ErrorClassTerminal
)

// transientMarkers describes substrings which identify an error as a transient RPC/network failure. Matching is
// case-insensitive.
var transientMarkers = []string{
	"timeout",
	"timed out",
	"deadline exceeded",
	"connection reset",
	"connection refused",
	"broken pipe",
	"502",
	"503",
	"bad gateway",
	"service unavailable",
	"too many requests",
	"rate limit",
	"eof",
}

// insufficientFundsMarkers describes substrings which identify an error as an insufficient-funds failure. These are
// terminal for the transaction pipeline but feed the agent's faucet recovery edge.
var insufficientFundsMarkers = []string{
	"insufficient funds",
	"insufficient balance",
}

// ClassifyError inspects an error returned by the RPC endpoint and sorts it into an ErrorClass. A nil error is
// classified as terminal so that callers never retry on it by accident.
func ClassifyError(err error) ErrorClass {
	if err == nil {
		return ErrorClassTerminal
	}

	// Match the error message against our known transient markers.
	msg := strings.ToLower(err.Error())
	for _, marker := range transientMarkers {
		if strings.Contains(msg, marker) {
			return ErrorClassTransient
		}
	}
	return ErrorClassTerminal
}

// IsTransient returns true if the provided error represents a retryable RPC/network failure.
func IsTransient(err error) bool {
	return err != nil && ClassifyError(err) == ErrorClassTransient
}

// IsInsufficientFunds returns true if the provided error indicates the sending account cannot cover the transaction
// cost.
func IsInsufficientFunds(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range insufficientFundsMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
