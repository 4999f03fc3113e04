package chain

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/google/uuid"
	"github.com/tempolabs/drover/utils"
)

// diagnosticLimit describes the maximum length of a failure diagnostic recorded on an Outcome. Longer error messages
// are truncated so log lines and stored records stay bounded.
const diagnosticLimit = 200

// OutcomeStatus describes the terminal state of an activity execution.
type OutcomeStatus string

const (
	// OutcomeStatusConfirmed indicates the transaction was mined and executed successfully.
	OutcomeStatusConfirmed OutcomeStatus = "confirmed"

	// OutcomeStatusFailed indicates the transaction was rejected, reverted, or could not be confirmed.
	OutcomeStatusFailed OutcomeStatus = "failed"

	// OutcomeStatusSkipped indicates the activity's preconditions were not met and no transaction was attempted.
	// Skips are benign and never counted as failures.
	OutcomeStatusSkipped OutcomeStatus = "skipped"
)

// Outcome describes the result of one activity execution. Every execution produces exactly one Outcome, identified by
// a unique execution ID, regardless of whether a transaction reached the chain.
type Outcome struct {
	// ID is a unique identifier for this execution, assigned when the Outcome is created.
	ID uuid.UUID `json:"id"`

	// Status describes the terminal state of the execution.
	Status OutcomeStatus `json:"status"`

	// TxHash is the hash of the broadcast transaction. It is the zero hash when no transaction was sent.
	TxHash common.Hash `json:"txHash"`

	// Receipt is the mined transaction receipt, if one was obtained. It is nil for skipped and pre-broadcast
	// failures.
	Receipt *types.Receipt `json:"-"`

	// Diagnostic is a bounded, human-readable description of why the execution failed or was skipped. It is empty
	// for confirmed outcomes.
	Diagnostic string `json:"diagnostic,omitempty"`

	// InsufficientFunds indicates the failure was caused by the account being unable to cover the transaction cost.
	// The agent uses this to trigger faucet recovery on its next cycle.
	InsufficientFunds bool `json:"insufficientFunds,omitempty"`
}

// Confirm returns a confirmed Outcome carrying the mined receipt.
func Confirm(receipt *types.Receipt) Outcome {
	return Outcome{
		ID:      uuid.New(),
		Status:  OutcomeStatusConfirmed,
		TxHash:  receipt.TxHash,
		Receipt: receipt,
	}
}

// ConfirmExternal returns a confirmed Outcome for an operation whose effect was verified by observation rather than
// by a mined receipt, such as faucet funding.
func ConfirmExternal() Outcome {
	return Outcome{
		ID:     uuid.New(),
		Status: OutcomeStatusConfirmed,
	}
}

// Fail returns a failed Outcome derived from the provided error. The error message is truncated to keep the
// diagnostic bounded, and insufficient-funds errors are flagged for the agent's recovery edge.
func Fail(err error) Outcome {
	return Outcome{
		ID:                uuid.New(),
		Status:            OutcomeStatusFailed,
		Diagnostic:        utils.TruncateString(err.Error(), diagnosticLimit),
		InsufficientFunds: IsInsufficientFunds(err),
	}
}

// Failf returns a failed Outcome with a formatted diagnostic.
func Failf(format string, args ...any) Outcome {
	return Outcome{
		ID:         uuid.New(),
		Status:     OutcomeStatusFailed,
		Diagnostic: utils.TruncateString(fmt.Sprintf(format, args...), diagnosticLimit),
	}
}

// Skip returns a skipped Outcome with the provided reason. Skips indicate unmet preconditions, not errors.
func Skip(reason string) Outcome {
	return Outcome{
		ID:         uuid.New(),
		Status:     OutcomeStatusSkipped,
		Diagnostic: utils.TruncateString(reason, diagnosticLimit),
	}
}

// Confirmed returns true if the execution confirmed on-chain.
func (o Outcome) Confirmed() bool {
	return o.Status == OutcomeStatusConfirmed
}

// Failed returns true if the execution failed.
func (o Outcome) Failed() bool {
	return o.Status == OutcomeStatusFailed
}

// Skipped returns true if the execution was skipped due to unmet preconditions.
func (o Outcome) Skipped() bool {
	return o.Status == OutcomeStatusSkipped
}

// WithTxHash returns a copy of the Outcome annotated with the provided transaction hash. This is used when a
// transaction was broadcast but the execution still failed (e.g. confirmation timed out).
func (o Outcome) WithTxHash(hash common.Hash) Outcome {
	o.TxHash = hash
	return o
}

// String returns a compact description of the Outcome suitable for logging.
func (o Outcome) String() string {
	if o.Status == OutcomeStatusConfirmed {
		return fmt.Sprintf("%s (tx: %s)", o.Status, o.TxHash.Hex())
	}
	if o.Diagnostic != "" {
		return fmt.Sprintf("%s: %s", o.Status, o.Diagnostic)
	}
	return string(o.Status)
}
