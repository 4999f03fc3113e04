package agent

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/tempolabs/drover/accounts"
	"github.com/tempolabs/drover/activities"
	"github.com/tempolabs/drover/assetstore"
	"github.com/tempolabs/drover/chain"
	"github.com/tempolabs/drover/chain/contracts"
	"github.com/tempolabs/drover/config"
	"github.com/tempolabs/drover/logging"
)

// Orchestrator runs one agent per selected wallet, bounding how many run concurrently and aggregating their metrics.
type Orchestrator struct {
	// projectConfig describes the run.
	projectConfig *config.ProjectConfig

	// backend is the shared node connection.
	backend chain.Backend

	// pipeline is the shared transaction pipeline. Per-account serialization lives inside it.
	pipeline *chain.Pipeline

	// guard is the shared allowance guard.
	guard *chain.AllowanceGuard

	// directory resolves the deployed contracts and tokens.
	directory *contracts.Directory

	// store persists created assets across runs.
	store *assetstore.Store

	// wallets are the selected accounts, one agent each.
	wallets []*accounts.Account

	// baseSeed is the root of every agent's random seed.
	baseSeed int64

	// Events is raised as agents choose and conclude activities.
	Events *AgentEvents

	// metrics aggregates outcomes across all agents.
	metrics *Metrics

	// logger describes the orchestrator's log object that can be used to log messages and associate them with the
	// agent service.
	logger *logging.Logger
}

// NewOrchestrator builds an Orchestrator from the project configuration, a connected backend, an open asset store,
// and the selected wallets.
func NewOrchestrator(projectConfig *config.ProjectConfig, backend chain.Backend, store *assetstore.Store, wallets []*accounts.Account, logger *logging.Logger) (*Orchestrator, error) {
	if len(wallets) == 0 {
		return nil, errors.New("no wallets selected")
	}

	directory, err := buildDirectory(&projectConfig.Network)
	if err != nil {
		return nil, err
	}

	chainLogger := logger.NewSubLogger("module", logging.CHAIN_SERVICE)
	pipeline := chain.NewPipeline(backend, projectConfig.Network.PipelineConfig(), chainLogger)

	baseSeed := projectConfig.Agent.Seed
	if baseSeed == 0 {
		baseSeed = time.Now().UnixNano()
	}

	return &Orchestrator{
		projectConfig: projectConfig,
		backend:       backend,
		pipeline:      pipeline,
		guard:         chain.NewAllowanceGuard(backend, pipeline, chainLogger),
		directory:     directory,
		store:         store,
		wallets:       wallets,
		baseSeed:      baseSeed,
		Events:        &AgentEvents{},
		metrics:       NewMetrics(),
		logger:        logger,
	}, nil
}

// buildDirectory parses the configured contract and token addresses into a resolution directory.
func buildDirectory(network *config.NetworkConfig) (*contracts.Directory, error) {
	contractAddresses := make(map[string]common.Address, len(network.Contracts))
	for name, hex := range network.Contracts {
		if !common.IsHexAddress(hex) {
			return nil, errors.Errorf("contract %s has an invalid address %q", name, hex)
		}
		contractAddresses[name] = common.HexToAddress(hex)
	}

	tokenAddresses := make(map[string]common.Address, len(network.Tokens))
	for symbol, hex := range network.Tokens {
		if !common.IsHexAddress(hex) {
			return nil, errors.Errorf("token %s has an invalid address %q", symbol, hex)
		}
		tokenAddresses[symbol] = common.HexToAddress(hex)
	}
	return contracts.NewDirectory(contractAddresses, tokenAddresses)
}

// Metrics returns the run's aggregated outcome counts.
func (o *Orchestrator) Metrics() *Metrics {
	return o.metrics
}

// newAgent builds the agent for one wallet, seeding its random source from the base seed and the wallet's index so
// runs reproduce under a fixed seed while wallets still diverge from each other.
func (o *Orchestrator) newAgent(wallet *accounts.Account) *Agent {
	env := &activities.Env{
		Backend:   o.backend,
		Pipeline:  o.pipeline,
		Guard:     o.guard,
		Directory: o.directory,
		Store:     o.store,
		Account:   wallet,
		Settings:  o.projectConfig.Activities,
		Rand:      rand.New(rand.NewSource(o.baseSeed + int64(wallet.Index))),
		Logger:    o.logger.NewSubLogger("module", logging.ACTIVITY_SERVICE),
	}
	return NewAgent(env, o.projectConfig.Agent, o.Events, o.metrics, o.logger.NewSubLogger("module", logging.AGENT_SERVICE))
}

// pauseBetweenWallets sleeps for a random duration within the configured wallet delay bounds, returning the context's
// error on cancellation.
func (o *Orchestrator) pauseBetweenWallets(ctx context.Context, pacing *rand.Rand) error {
	maxSeconds := o.projectConfig.Agent.WalletDelayMaxSeconds
	if maxSeconds <= 0 {
		return ctx.Err()
	}
	delay := time.Duration(o.projectConfig.Agent.WalletDelayMinSeconds) * time.Second
	if spread := maxSeconds - o.projectConfig.Agent.WalletDelayMinSeconds; spread > 0 {
		delay += time.Duration(pacing.Intn(spread+1)) * time.Second
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

// Run executes every selected wallet's agent in the configured mode, at most Workers at a time, staggering wallet
// starts by the configured pacing delay, and logs the aggregated summary when all agents finish. The first agent
// error cancels the remaining work.
func (o *Orchestrator) Run(ctx context.Context) error {
	o.logger.Info("Starting agents", logging.StructuredLogInfo{
		"wallets": len(o.wallets),
		"workers": o.projectConfig.Agent.Workers,
		"mode":    o.projectConfig.Agent.Mode,
		"seed":    o.baseSeed,
	})

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	slots := make(chan struct{}, o.projectConfig.Agent.Workers)
	errs := make(chan error, len(o.wallets))

	// Wallet starts are paced from their own random source so agent seeds stay stable regardless of pacing.
	pacing := rand.New(rand.NewSource(o.baseSeed))
	for i, wallet := range o.wallets {
		select {
		case slots <- struct{}{}:
		case <-runCtx.Done():
		}
		if runCtx.Err() != nil {
			break
		}
		if i > 0 {
			if pauseErr := o.pauseBetweenWallets(runCtx, pacing); pauseErr != nil {
				<-slots
				break
			}
		}

		wg.Add(1)
		go func(wallet *accounts.Account) {
			defer wg.Done()
			defer func() { <-slots }()

			walletAgent := o.newAgent(wallet)
			var err error
			if o.projectConfig.Agent.Mode == config.ModeSweep {
				err = walletAgent.Sweep(runCtx)
			} else {
				err = walletAgent.Run(runCtx)
			}
			if err != nil {
				o.logger.Error("Agent stopped with error", logging.StructuredLogInfo{
					"wallet": wallet.Label(),
				}, err)
				errs <- err
				cancel()
			}
		}(wallet)
	}
	wg.Wait()
	close(errs)

	o.metrics.LogSummary(o.logger)
	if err, ok := <-errs; ok {
		return err
	}
	return ctx.Err()
}
