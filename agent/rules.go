package agent

import (
	"fmt"

	"github.com/tempolabs/drover/activities"
	"github.com/tempolabs/drover/config"
)

// Rule describes one decision heuristic an agent evaluates each cycle. Rules are evaluated in declaration order: the
// first rule whose predicate holds and whose probability gate passes wins the cycle.
type Rule struct {
	// Name identifies the rule in decision logs.
	Name string

	// Probability gates the rule after its predicate holds. One means the rule always fires when eligible.
	Probability float64

	// Eligible reports whether the rule's preconditions hold against the balance snapshot.
	Eligible func(a *Agent, snapshot *BalanceSnapshot) bool

	// Build constructs the recipe the rule has chosen, parameterized from the snapshot.
	Build func(a *Agent, snapshot *BalanceSnapshot) activities.Recipe
}

// fallbackKinds are the activities drawn from uniformly when no rule fires. They are safe at any balance level
// because each skips itself when its preconditions fail.
var fallbackKinds = []activities.Kind{
	activities.KindTokenTransfer,
	activities.KindTransferWithMemo,
	activities.KindRemoveLiquidity,
	activities.KindGrantRole,
	activities.KindDeployContract,
	activities.KindDeployNFT,
	activities.KindClaimNFT,
	activities.KindLimitOrder,
	activities.KindSetFeeToken,
}

// buildRules constructs the ordered rule list from the configured thresholds and probabilities.
func buildRules(rules config.RulesConfig) []Rule {
	return []Rule{
		{
			// Token creation is always possible; the probability gate keeps it occasional.
			Name:        "create-token",
			Probability: rules.CreateTokenProbability,
			Eligible: func(a *Agent, snapshot *BalanceSnapshot) bool {
				return true
			},
			Build: func(a *Agent, snapshot *BalanceSnapshot) activities.Recipe {
				return &activities.CreateToken{}
			},
		},
		{
			// Rebalance: when one token runs rich while another runs short, swap from the rich one into the
			// short one.
			Name:        "rebalance-swap",
			Probability: 1,
			Eligible: func(a *Agent, snapshot *BalanceSnapshot) bool {
				symbols := a.env.Directory.TokenSymbols()
				if len(symbols) < 2 {
					return false
				}
				richest, richBalance := snapshot.richestToken(symbols)
				_, poorBalance := snapshot.poorestToken(symbols, richest)
				return richBalance.GreaterThan(rules.SwapSourceMinimum) && poorBalance.LessThan(rules.SwapPeerMaximum)
			},
			Build: func(a *Agent, snapshot *BalanceSnapshot) activities.Recipe {
				symbols := a.env.Directory.TokenSymbols()
				richest, _ := snapshot.richestToken(symbols)
				poorest, _ := snapshot.poorestToken(symbols, richest)
				return &activities.Swap{TokenIn: richest, TokenOut: poorest}
			},
		},
		{
			// Provide liquidity when two tokens both carry a comfortable balance.
			Name:        "add-liquidity",
			Probability: rules.AddLiquidityProbability,
			Eligible: func(a *Agent, snapshot *BalanceSnapshot) bool {
				comfortable := 0
				for _, balance := range snapshot.Tokens {
					if balance.GreaterThan(rules.AddLiquidityMinimum) {
						comfortable++
					}
				}
				return comfortable >= 2
			},
			Build: func(a *Agent, snapshot *BalanceSnapshot) activities.Recipe {
				symbols := a.env.Directory.TokenSymbols()
				richest, _ := snapshot.richestToken(symbols)
				second, _ := snapshot.poorestToken(symbols, richest)
				return &activities.AddLiquidity{UserToken: richest, ValidatorToken: second}
			},
		},
		{
			// Exercise issuance on tokens this wallet created, weighted toward minting.
			Name:        "issue-own-token",
			Probability: rules.MintBurnProbability,
			Eligible: func(a *Agent, snapshot *BalanceSnapshot) bool {
				return a.ownsTokens()
			},
			Build: func(a *Agent, snapshot *BalanceSnapshot) activities.Recipe {
				if a.env.Rand.Float64() < rules.MintShare {
					return &activities.MintToken{}
				}
				return &activities.BurnToken{}
			},
		},
	}
}

// decide evaluates the ordered rules against the snapshot, falling back to a uniform pick from the safe catalog when
// none fires. The returned reason describes the decision for logs and events.
func (a *Agent) decide(snapshot *BalanceSnapshot) (activities.Recipe, string) {
	// Recovery comes before every heuristic: a wallet that cannot pay for gas can do nothing else.
	if a.lastInsufficientFunds || snapshot.Native.LessThan(a.rules.FaucetThreshold) {
		return &activities.Faucet{}, fmt.Sprintf("native balance %s below funding threshold %s", snapshot.Native, a.rules.FaucetThreshold)
	}

	for _, rule := range a.ruleSet {
		if !rule.Eligible(a, snapshot) {
			continue
		}
		if a.env.Rand.Float64() >= rule.Probability {
			continue
		}
		return rule.Build(a, snapshot), fmt.Sprintf("rule %q fired", rule.Name)
	}

	kind := fallbackKinds[a.env.Rand.Intn(len(fallbackKinds))]
	recipe, err := activities.New(kind)
	if err != nil {
		// The fallback list is drawn from the registry's own constants.
		panic(err)
	}
	return recipe, fmt.Sprintf("uniform fallback chose %q", kind)
}
