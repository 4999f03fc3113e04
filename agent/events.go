package agent

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/tempolabs/drover/activities"
	"github.com/tempolabs/drover/chain"
	"github.com/tempolabs/drover/events"
)

// ActivityStartedEvent describes an event where an agent has chosen an activity and is about to execute it.
type ActivityStartedEvent struct {
	// Wallet is the address of the wallet the agent acts for.
	Wallet common.Address

	// Kind is the chosen activity's catalog identifier.
	Kind activities.Kind

	// Reason is a short description of why the activity was chosen.
	Reason string
}

// ActivityConcludedEvent describes an event where an agent's activity execution has produced its outcome.
type ActivityConcludedEvent struct {
	// Wallet is the address of the wallet the agent acts for.
	Wallet common.Address

	// Kind is the executed activity's catalog identifier.
	Kind activities.Kind

	// Outcome is the execution's terminal result.
	Outcome chain.Outcome
}

// AgentEvents defines event emitters for all events agents raise while running.
type AgentEvents struct {
	// ActivityStarted emits events when an agent has chosen an activity and is about to execute it.
	ActivityStarted events.EventEmitter[ActivityStartedEvent]

	// ActivityConcluded emits events when an agent's activity execution has concluded.
	ActivityConcluded events.EventEmitter[ActivityConcludedEvent]
}
