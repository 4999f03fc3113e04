package agent

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tempolabs/drover/activities"
	"github.com/tempolabs/drover/chain"
	"github.com/tempolabs/drover/config"
)

// TestBuildDirectoryRejectsInvalidAddresses verifies malformed configured addresses fail directory construction.
func TestBuildDirectoryRejectsInvalidAddresses(t *testing.T) {
	_, err := buildDirectory(&config.NetworkConfig{
		Tokens: map[string]string{"PathUSD": "not-an-address"},
	})
	assert.Error(t, err)

	_, err = buildDirectory(&config.NetworkConfig{
		Contracts: map[string]string{"TokenFactory": "0x12345"},
	})
	assert.Error(t, err)
}

// TestWalletPacingHonorsBoundsAndCancellation verifies wallet starts are staggered by the configured delay, that
// zero bounds pause for no time at all, and that cancellation interrupts a pending pause.
func TestWalletPacingHonorsBoundsAndCancellation(t *testing.T) {
	o := &Orchestrator{projectConfig: config.GetDefaultProjectConfig()}
	pacing := rand.New(rand.NewSource(1))

	// Zero bounds return without sleeping.
	o.projectConfig.Agent.WalletDelayMinSeconds = 0
	o.projectConfig.Agent.WalletDelayMaxSeconds = 0
	start := time.Now()
	assert.NoError(t, o.pauseBetweenWallets(context.Background(), pacing))
	assert.Less(t, time.Since(start), 100*time.Millisecond)

	// A cancelled context interrupts the pause instead of waiting it out.
	o.projectConfig.Agent.WalletDelayMinSeconds = 1
	o.projectConfig.Agent.WalletDelayMaxSeconds = 2
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, o.pauseBetweenWallets(cancelled, pacing))

	// Configured bounds produce a real delay.
	o.projectConfig.Agent.WalletDelayMinSeconds = 1
	o.projectConfig.Agent.WalletDelayMaxSeconds = 1
	start = time.Now()
	assert.NoError(t, o.pauseBetweenWallets(context.Background(), pacing))
	assert.GreaterOrEqual(t, time.Since(start), time.Second)
}

// TestSweepKindsExcludeIssuanceActivities verifies the sweep order leaves issuance and role activities to the
// post-creation follow-up chain while covering the rest of the catalog.
func TestSweepKindsExcludeIssuanceActivities(t *testing.T) {
	kinds := sweepKinds()
	assert.Len(t, kinds, len(activities.AllKinds())-3)
	assert.NotContains(t, kinds, activities.KindMintToken)
	assert.NotContains(t, kinds, activities.KindBurnToken)
	assert.NotContains(t, kinds, activities.KindGrantRole)
	assert.Contains(t, kinds, activities.KindCreateToken)
}

// TestMetricsAggregation verifies outcome tallies accumulate per kind.
func TestMetricsAggregation(t *testing.T) {
	metrics := NewMetrics()
	metrics.Record(activities.KindSwap, chain.ConfirmExternal())
	metrics.Record(activities.KindSwap, chain.Skip("no quote"))
	metrics.Record(activities.KindSwap, chain.Failf("reverted"))
	metrics.Record(activities.KindFaucet, chain.ConfirmExternal())

	assert.Equal(t, KindCounts{Confirmed: 1, Failed: 1, Skipped: 1}, metrics.Counts(activities.KindSwap))
	assert.Equal(t, KindCounts{Confirmed: 1}, metrics.Counts(activities.KindFaucet))
	assert.Equal(t, KindCounts{}, metrics.Counts(activities.KindMintToken))
}
