// Package agent drives per-wallet activity: each agent takes balance snapshots, applies its decision rules, executes
// the chosen activities, and paces itself between cycles.
package agent

import (
	"context"
	"time"

	"github.com/tempolabs/drover/activities"
	"github.com/tempolabs/drover/chain"
	"github.com/tempolabs/drover/config"
	"github.com/tempolabs/drover/logging"
	"github.com/tempolabs/drover/utils"
)

// Agent runs activities for one wallet. Agents are not safe for concurrent use; the orchestrator runs each on its
// own goroutine.
type Agent struct {
	// env carries the wallet's execution environment.
	env *activities.Env

	// agentConfig describes scheduling behavior: cycle counts and pacing.
	agentConfig config.AgentConfig

	// rules describes the thresholds and probabilities driving decisions.
	rules config.RulesConfig

	// ruleSet is the ordered rule list built from rules.
	ruleSet []Rule

	// history records the outcome of every executed activity, in order.
	history []chain.Outcome

	// lastInsufficientFunds indicates the previous cycle failed for lack of native funds, forcing faucet recovery
	// on the next decision.
	lastInsufficientFunds bool

	// events is raised as the agent chooses and concludes activities.
	events *AgentEvents

	// metrics aggregates outcome counts across the run.
	metrics *Metrics

	// logger describes the agent's log object that can be used to log messages and associate them with the agent
	// service.
	logger *logging.Logger
}

// NewAgent returns an Agent driving the provided environment under the provided scheduling configuration.
func NewAgent(env *activities.Env, agentConfig config.AgentConfig, agentEvents *AgentEvents, metrics *Metrics, logger *logging.Logger) *Agent {
	return &Agent{
		env:         env,
		agentConfig: agentConfig,
		rules:       agentConfig.Rules,
		ruleSet:     buildRules(agentConfig.Rules),
		events:      agentEvents,
		metrics:     metrics,
		logger:      logger,
	}
}

// History returns the outcomes of every activity the agent has executed, in execution order.
func (a *Agent) History() []chain.Outcome {
	return a.history
}

// ownsTokens reports whether the wallet has created any tokens.
func (a *Agent) ownsTokens() bool {
	owned, err := a.env.Store.TokensByOwner(a.env.Account.Address)
	if err != nil {
		a.logger.Warn("Could not read created tokens", err)
		return false
	}
	return len(owned) > 0
}

// execute runs one recipe, raising events and recording the outcome.
func (a *Agent) execute(ctx context.Context, recipe activities.Recipe, reason string) chain.Outcome {
	a.events.ActivityStarted.Publish(ActivityStartedEvent{
		Wallet: a.env.Account.Address,
		Kind:   recipe.Kind(),
		Reason: reason,
	})
	a.logger.Debug("Executing activity", logging.StructuredLogInfo{
		"wallet":   a.env.Account.Label(),
		"activity": string(recipe.Kind()),
		"reason":   reason,
	})

	outcome := recipe.Run(ctx, a.env)
	a.history = append(a.history, outcome)
	a.lastInsufficientFunds = outcome.InsufficientFunds
	a.metrics.Record(recipe.Kind(), outcome)

	a.events.ActivityConcluded.Publish(ActivityConcludedEvent{
		Wallet:  a.env.Account.Address,
		Kind:    recipe.Kind(),
		Outcome: outcome,
	})
	return outcome
}

// RunCycle takes a balance snapshot, decides one activity, and executes it. A confirmed token creation is followed
// immediately by issuance and role activity on the fresh token, mirroring how a holder exercises a token it just
// listed.
func (a *Agent) RunCycle(ctx context.Context) (chain.Outcome, error) {
	snapshot, err := TakeSnapshot(ctx, a.env)
	if err != nil {
		return chain.Outcome{}, err
	}

	recipe, reason := a.decide(snapshot)
	outcome := a.execute(ctx, recipe, reason)

	if recipe.Kind() == activities.KindCreateToken && outcome.Confirmed() {
		if err = a.exerciseFreshToken(ctx); err != nil {
			return outcome, err
		}
	}
	return outcome, nil
}

// exerciseFreshToken runs the issuance and role activities that follow a confirmed token creation.
func (a *Agent) exerciseFreshToken(ctx context.Context) error {
	for _, followUp := range []activities.Recipe{&activities.MintToken{}, &activities.BurnToken{}, &activities.GrantRole{}} {
		if err := a.pause(ctx, a.agentConfig.ActivityDelayMinSeconds, a.agentConfig.ActivityDelayMaxSeconds); err != nil {
			return err
		}
		a.execute(ctx, followUp, "exercising freshly created token")
	}
	return nil
}

// Run executes decision cycles until the configured cycle count is reached or the context is cancelled. A
// non-positive cycle count runs until cancellation.
func (a *Agent) Run(ctx context.Context) error {
	for cycle := 0; a.agentConfig.Cycles <= 0 || cycle < a.agentConfig.Cycles; cycle++ {
		if ctx.Err() != nil {
			return nil
		}
		if _, err := a.RunCycle(ctx); err != nil {
			return err
		}
		if err := a.pause(ctx, a.agentConfig.AgentDelayMinSeconds, a.agentConfig.AgentDelayMaxSeconds); err != nil {
			return nil
		}
	}
	return nil
}

// sweepKinds returns the catalog kinds a sweep executes directly. Issuance and role activities are left out of the
// sweep order; they run as the follow-up chain after a confirmed token creation.
func sweepKinds() []activities.Kind {
	return utils.SliceWhere(activities.AllKinds(), func(kind activities.Kind) bool {
		return kind != activities.KindMintToken && kind != activities.KindBurnToken && kind != activities.KindGrantRole
	})
}

// Sweep executes the sweep catalog once, in an order shuffled per wallet, pausing between activities.
func (a *Agent) Sweep(ctx context.Context) error {
	kinds := sweepKinds()
	a.env.Rand.Shuffle(len(kinds), func(i, j int) {
		kinds[i], kinds[j] = kinds[j], kinds[i]
	})

	for i, kind := range kinds {
		if ctx.Err() != nil {
			return nil
		}
		recipe, err := activities.New(kind)
		if err != nil {
			return err
		}
		outcome := a.execute(ctx, recipe, "catalog sweep")
		if kind == activities.KindCreateToken && outcome.Confirmed() {
			if err = a.exerciseFreshToken(ctx); err != nil {
				return nil
			}
		}
		if i < len(kinds)-1 {
			if err = a.pause(ctx, a.agentConfig.ActivityDelayMinSeconds, a.agentConfig.ActivityDelayMaxSeconds); err != nil {
				return nil
			}
		}
	}
	return nil
}

// pause sleeps for a random duration within the provided bounds, returning the context's error on cancellation.
func (a *Agent) pause(ctx context.Context, minSeconds int, maxSeconds int) error {
	if maxSeconds <= 0 {
		return ctx.Err()
	}
	delay := time.Duration(minSeconds) * time.Second
	if spread := maxSeconds - minSeconds; spread > 0 {
		delay += time.Duration(a.env.Rand.Intn(spread+1)) * time.Second
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
