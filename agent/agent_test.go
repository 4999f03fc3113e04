package agent

import (
	"context"
	"math/big"
	"math/rand"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/tempolabs/drover/accounts"
	"github.com/tempolabs/drover/activities"
	"github.com/tempolabs/drover/assetstore"
	"github.com/tempolabs/drover/chain"
	"github.com/tempolabs/drover/chain/chaintest"
	"github.com/tempolabs/drover/chain/contracts"
	"github.com/tempolabs/drover/config"
	"github.com/tempolabs/drover/logging"
)

// agentHarness bundles an agent under test with the fakes behind it.
type agentHarness struct {
	agent   *Agent
	env     *activities.Env
	backend *chaintest.FakeBackend

	// tokenBalances maps token address -> base-unit balance served to balance reads.
	tokenBalances map[common.Address]*big.Int
}

// newAgentHarness builds an agent against three configured tokens, a given seed, and overridable rule config.
func newAgentHarness(t *testing.T, seed int64, mutate func(*config.ProjectConfig)) *agentHarness {
	projectConfig := config.GetDefaultProjectConfig()
	projectConfig.Agent.Seed = seed
	// Pacing off for tests.
	projectConfig.Agent.AgentDelayMinSeconds = 0
	projectConfig.Agent.AgentDelayMaxSeconds = 0
	projectConfig.Agent.ActivityDelayMinSeconds = 0
	projectConfig.Agent.ActivityDelayMaxSeconds = 0
	if mutate != nil {
		mutate(projectConfig)
	}

	directory, err := contracts.NewDirectory(
		map[string]common.Address{
			contracts.NameFactory:    common.HexToAddress("0x1000"),
			contracts.NameDex:        common.HexToAddress("0x1001"),
			contracts.NameFeeManager: common.HexToAddress("0x1002"),
			contracts.NameNFTDrop:    common.HexToAddress("0x1003"),
		},
		map[string]common.Address{
			"PathUSD":  common.HexToAddress("0x2000"),
			"AlphaUSD": common.HexToAddress("0x2001"),
			"BetaUSD":  common.HexToAddress("0x2002"),
		},
	)
	assert.NoError(t, err)

	harness := &agentHarness{
		backend:       chaintest.NewFakeBackend(1),
		tokenBalances: make(map[common.Address]*big.Int),
	}
	token := directory.TokenAt(common.Address{})
	balanceOf := token.ABI.Methods["balanceOf"]
	harness.backend.SetCallHandler(func(msg ethereum.CallMsg) ([]byte, error) {
		// Only balance reads are needed by decision tests.
		balance := harness.tokenBalances[*msg.To]
		if balance == nil {
			balance = big.NewInt(0)
		}
		return balanceOf.Outputs.Pack(balance)
	})

	store, err := assetstore.Open(filepath.Join(t.TempDir(), "assets.db"))
	assert.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})

	key, err := crypto.GenerateKey()
	assert.NoError(t, err)
	account, err := accounts.NewAccountFromHexKey(common.Bytes2Hex(crypto.FromECDSA(key)), 1)
	assert.NoError(t, err)

	logger := logging.NewLogger(zerolog.Disabled)
	pipeline := chain.NewPipeline(harness.backend, chain.PipelineConfig{
		RetryAttempts:   2,
		RetryBackoff:    time.Millisecond,
		ReceiptAttempts: 3,
		ReceiptDelay:    time.Millisecond,
	}, logger)

	harness.env = &activities.Env{
		Backend:   harness.backend,
		Pipeline:  pipeline,
		Guard:     chain.NewAllowanceGuard(harness.backend, pipeline, logger),
		Directory: directory,
		Store:     store,
		Account:   account,
		Settings:  projectConfig.Activities,
		Rand:      rand.New(rand.NewSource(seed)),
		Logger:    logger,
	}
	harness.agent = NewAgent(harness.env, projectConfig.Agent, &AgentEvents{}, NewMetrics(), logger)
	return harness
}

// setNative sets the wallet's native balance in display units.
func (h *agentHarness) setNative(t *testing.T, amount string) {
	value, err := decimal.NewFromString(amount)
	assert.NoError(t, err)
	h.backend.SetBalance(h.env.Account.Address, value.Shift(activities.NativeDecimals).BigInt())
}

// setToken sets the wallet's balance on a token in display units.
func (h *agentHarness) setToken(t *testing.T, symbol string, amount string) {
	token, err := h.env.Directory.Token(symbol)
	assert.NoError(t, err)
	value, err := decimal.NewFromString(amount)
	assert.NoError(t, err)
	h.tokenBalances[token.Address] = h.env.ToBaseUnits(value)
}

// TestDecideFundsLowNativeBalance verifies a wallet below the funding threshold always chooses the faucet, before
// any other rule.
func TestDecideFundsLowNativeBalance(t *testing.T) {
	h := newAgentHarness(t, 1, nil)
	h.setNative(t, "1.5")

	snapshot, err := TakeSnapshot(context.Background(), h.env)
	assert.NoError(t, err)

	recipe, reason := h.agent.decide(snapshot)
	assert.Equal(t, activities.KindFaucet, recipe.Kind())
	assert.Contains(t, reason, "funding threshold")
}

// TestDecideFundsAfterInsufficientFundsFailure verifies an insufficient-funds failure forces faucet recovery on the
// next decision even when the snapshot looks healthy.
func TestDecideFundsAfterInsufficientFundsFailure(t *testing.T) {
	h := newAgentHarness(t, 1, nil)
	h.setNative(t, "100")

	snapshot, err := TakeSnapshot(context.Background(), h.env)
	assert.NoError(t, err)

	h.agent.lastInsufficientFunds = true
	recipe, _ := h.agent.decide(snapshot)
	assert.Equal(t, activities.KindFaucet, recipe.Kind())
}

// TestDecideRebalancesSkewedTokenBalances verifies a rich source token and a short peer trigger the rebalancing swap
// from the richest into the poorest token.
func TestDecideRebalancesSkewedTokenBalances(t *testing.T) {
	h := newAgentHarness(t, 1, func(p *config.ProjectConfig) {
		// Disable the probabilistic rules so the deterministic swap rule is observable.
		p.Agent.Rules.CreateTokenProbability = 0
	})
	h.setNative(t, "100")
	h.setToken(t, "PathUSD", "20")
	h.setToken(t, "AlphaUSD", "1")
	h.setToken(t, "BetaUSD", "6")

	snapshot, err := TakeSnapshot(context.Background(), h.env)
	assert.NoError(t, err)

	recipe, reason := h.agent.decide(snapshot)
	assert.Equal(t, activities.KindSwap, recipe.Kind())
	assert.Contains(t, reason, "rebalance-swap")

	swap := recipe.(*activities.Swap)
	assert.Equal(t, "PathUSD", swap.TokenIn)
	assert.Equal(t, "AlphaUSD", swap.TokenOut)
}

// TestDecideFallsBackWhenNoRuleFires verifies balanced, healthy wallets draw from the fallback catalog.
func TestDecideFallsBackWhenNoRuleFires(t *testing.T) {
	h := newAgentHarness(t, 1, func(p *config.ProjectConfig) {
		p.Agent.Rules.CreateTokenProbability = 0
		p.Agent.Rules.AddLiquidityProbability = 0
		p.Agent.Rules.MintBurnProbability = 0
	})
	h.setNative(t, "100")
	// All tokens comfortable and even: the swap rule's short-peer predicate cannot hold.
	for _, symbol := range []string{"PathUSD", "AlphaUSD", "BetaUSD"} {
		h.setToken(t, symbol, "50")
	}

	snapshot, err := TakeSnapshot(context.Background(), h.env)
	assert.NoError(t, err)

	recipe, reason := h.agent.decide(snapshot)
	assert.Contains(t, reason, "fallback")
	assert.Contains(t, fallbackKinds, recipe.Kind())
}

// TestDecideIsDeterministicUnderSeed verifies two agents with identical seeds and balances produce identical
// decision sequences.
func TestDecideIsDeterministicUnderSeed(t *testing.T) {
	sequence := func() []activities.Kind {
		h := newAgentHarness(t, 42, nil)
		h.setNative(t, "100")
		h.setToken(t, "PathUSD", "20")
		h.setToken(t, "AlphaUSD", "1")

		snapshot, err := TakeSnapshot(context.Background(), h.env)
		assert.NoError(t, err)

		var kinds []activities.Kind
		for i := 0; i < 20; i++ {
			recipe, _ := h.agent.decide(snapshot)
			kinds = append(kinds, recipe.Kind())
		}
		return kinds
	}
	assert.Equal(t, sequence(), sequence())
}

// TestSnapshotReadsAllTokens verifies the snapshot covers the native balance and every configured token.
func TestSnapshotReadsAllTokens(t *testing.T) {
	h := newAgentHarness(t, 1, nil)
	h.setNative(t, "2.5")
	h.setToken(t, "AlphaUSD", "7")

	snapshot, err := TakeSnapshot(context.Background(), h.env)
	assert.NoError(t, err)
	assert.True(t, snapshot.Native.Equal(decimal.NewFromFloat(2.5)))
	assert.Len(t, snapshot.Tokens, 3)
	assert.True(t, snapshot.Tokens["AlphaUSD"].Equal(decimal.NewFromInt(7)))
	assert.True(t, snapshot.Tokens["BetaUSD"].Equal(decimal.Zero))
}

// TestRunCycleRecordsHistoryAndEvents verifies a cycle raises start and conclude events and appends to history.
func TestRunCycleRecordsHistoryAndEvents(t *testing.T) {
	h := newAgentHarness(t, 1, nil)
	h.setNative(t, "1.0")

	// The faucet path will fire; serve it through the raw call handler and fund the wallet on the way.
	h.backend.SetRawCallHandler(func(result any, method string, args ...any) error {
		assert.Equal(t, "tempo_fundAddress", method)
		h.backend.SetBalance(h.env.Account.Address, big.NewInt(1e18*5))
		return nil
	})
	h.env.Settings.FaucetBackoffSeconds = 0

	var started []ActivityStartedEvent
	var concluded []ActivityConcludedEvent
	h.agent.events.ActivityStarted.Subscribe(func(event ActivityStartedEvent) {
		started = append(started, event)
	})
	h.agent.events.ActivityConcluded.Subscribe(func(event ActivityConcludedEvent) {
		concluded = append(concluded, event)
	})

	outcome, err := h.agent.RunCycle(context.Background())
	assert.NoError(t, err)
	assert.True(t, outcome.Confirmed(), "outcome: %s", outcome)
	assert.Len(t, started, 1)
	assert.Len(t, concluded, 1)
	assert.Equal(t, activities.KindFaucet, started[0].Kind)
	assert.Len(t, h.agent.History(), 1)
	assert.Equal(t, KindCounts{Confirmed: 1}, h.agent.metrics.Counts(activities.KindFaucet))
}
