package activities

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/tempolabs/drover/chain"
	"github.com/tempolabs/drover/logging"
)

// faucetMethod is the endpoint-specific RPC method funding an address with native currency.
const faucetMethod = "tempo_fundAddress"

// Faucet requests native currency funding from the endpoint's faucet. Funding is verified by observing a balance
// increase rather than a receipt, since the faucet transaction is issued by the endpoint itself.
type Faucet struct{}

// Kind returns the activity's catalog identifier.
func (a *Faucet) Kind() Kind {
	return KindFaucet
}

// Run requests funding, retrying transient errors with linearly increasing backoff, and confirms once the wallet's
// native balance has increased. Terminal errors abort immediately without consuming further attempts.
func (a *Faucet) Run(ctx context.Context, env *Env) chain.Outcome {
	before, err := env.Backend.BalanceAt(ctx, env.Account.Address)
	if err != nil {
		return chain.Fail(err)
	}

	backoff := time.Duration(env.Settings.FaucetBackoffSeconds) * time.Second
	var lastErr error
	for attempt := 1; attempt <= env.Settings.FaucetAttempts; attempt++ {
		var result any
		if lastErr = env.Backend.RawCall(ctx, &result, faucetMethod, env.Account.Address); lastErr == nil {
			// Give the endpoint a moment to mine the funding transaction before checking.
			if sleepErr := sleepFor(ctx, backoff); sleepErr != nil {
				return chain.Fail(sleepErr)
			}
			after, balanceErr := env.Backend.BalanceAt(ctx, env.Account.Address)
			if balanceErr != nil {
				return chain.Fail(balanceErr)
			}
			if after.Cmp(before) > 0 {
				env.Logger.Info("Faucet funding received", logging.StructuredLogInfo{
					"wallet":  env.Account.Label(),
					"balance": after.String(),
				})
				return chain.ConfirmExternal()
			}
			// A successful call without an observable balance change stays retryable.
			lastErr = errNoBalanceIncrease
		} else if !chain.IsTransient(lastErr) {
			return chain.Fail(lastErr)
		}

		env.Logger.Debug("Faucet attempt did not fund wallet", logging.StructuredLogInfo{
			"wallet":  env.Account.Label(),
			"attempt": attempt,
			"error":   lastErr.Error(),
		})
		if attempt < env.Settings.FaucetAttempts {
			if sleepErr := sleepFor(ctx, time.Duration(attempt)*backoff); sleepErr != nil {
				return chain.Fail(sleepErr)
			}
		}
	}
	return chain.Failf("faucet did not fund wallet after %d attempts (last error: %v)", env.Settings.FaucetAttempts, lastErr)
}

// errNoBalanceIncrease marks a faucet attempt that returned success without an observable balance change.
var errNoBalanceIncrease = errors.New("faucet call returned without a balance increase")

// sleepFor sleeps for the provided duration, returning early with the context's error if it is cancelled.
func sleepFor(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
