package contracts

// Human-readable contract interfaces, expressed as JSON ABI fragments. Only the methods and events the activities
// actually invoke are declared.
const (
	// ERC20ABI describes the standard token surface used for balance reads, transfers, and approvals.
	ERC20ABI = `[
		{"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
		{"type":"function","name":"allowance","stateMutability":"view","inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
		{"type":"function","name":"transfer","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
		{"type":"function","name":"approve","stateMutability":"nonpayable","inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
		{"type":"function","name":"decimals","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint8"}]}
	]`

	// TokenABI extends the standard token surface with the issuance, role, and memo extensions exposed by tokens
	// created through the on-chain factory.
	TokenABI = `[
		{"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
		{"type":"function","name":"allowance","stateMutability":"view","inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
		{"type":"function","name":"transfer","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
		{"type":"function","name":"approve","stateMutability":"nonpayable","inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
		{"type":"function","name":"mint","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[]},
		{"type":"function","name":"burn","stateMutability":"nonpayable","inputs":[{"name":"amount","type":"uint256"}],"outputs":[]},
		{"type":"function","name":"transferWithMemo","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"},{"name":"memo","type":"bytes32"}],"outputs":[{"name":"","type":"bool"}]},
		{"type":"function","name":"hasRole","stateMutability":"view","inputs":[{"name":"role","type":"bytes32"},{"name":"account","type":"address"}],"outputs":[{"name":"","type":"bool"}]},
		{"type":"function","name":"grantRole","stateMutability":"nonpayable","inputs":[{"name":"role","type":"bytes32"},{"name":"account","type":"address"}],"outputs":[]}
	]`

	// FactoryABI describes the token factory. TokenCreated is the event the create-token activity decodes to learn
	// the deployed token's address.
	FactoryABI = `[
		{"type":"function","name":"createToken","stateMutability":"nonpayable","inputs":[{"name":"name","type":"string"},{"name":"symbol","type":"string"},{"name":"currency","type":"string"},{"name":"quoteToken","type":"address"},{"name":"admin","type":"address"}],"outputs":[{"name":"","type":"address"}]},
		{"type":"event","name":"TokenCreated","anonymous":false,"inputs":[{"name":"token","type":"address","indexed":true},{"name":"admin","type":"address","indexed":true},{"name":"name","type":"string","indexed":false},{"name":"symbol","type":"string","indexed":false}]}
	]`

	// DexABI describes the stablecoin exchange used for quoting, swapping, and resting limit orders.
	DexABI = `[
		{"type":"function","name":"quoteSwapExactAmountIn","stateMutability":"view","inputs":[{"name":"tokenIn","type":"address"},{"name":"tokenOut","type":"address"},{"name":"amountIn","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},
		{"type":"function","name":"swapExactAmountIn","stateMutability":"nonpayable","inputs":[{"name":"tokenIn","type":"address"},{"name":"tokenOut","type":"address"},{"name":"amountIn","type":"uint256"},{"name":"minAmountOut","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},
		{"type":"function","name":"place","stateMutability":"nonpayable","inputs":[{"name":"token","type":"address"},{"name":"amount","type":"uint256"},{"name":"isBid","type":"bool"},{"name":"tick","type":"uint256"}],"outputs":[]}
	]`

	// FeeManagerABI describes the fee/AMM manager used for validator-token liquidity, pool introspection, and fee
	// token selection.
	FeeManagerABI = `[
		{"type":"function","name":"mintWithValidatorToken","stateMutability":"nonpayable","inputs":[{"name":"userToken","type":"address"},{"name":"validatorToken","type":"address"},{"name":"amount","type":"uint256"},{"name":"to","type":"address"}],"outputs":[]},
		{"type":"function","name":"burn","stateMutability":"nonpayable","inputs":[{"name":"userToken","type":"address"},{"name":"validatorToken","type":"address"},{"name":"liquidity","type":"uint256"},{"name":"to","type":"address"}],"outputs":[]},
		{"type":"function","name":"getPoolId","stateMutability":"view","inputs":[{"name":"userToken","type":"address"},{"name":"validatorToken","type":"address"}],"outputs":[{"name":"","type":"bytes32"}]},
		{"type":"function","name":"liquidityBalances","stateMutability":"view","inputs":[{"name":"poolId","type":"bytes32"},{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
		{"type":"function","name":"setUserToken","stateMutability":"nonpayable","inputs":[{"name":"token","type":"address"}],"outputs":[]}
	]`

	// NFTDropABI describes the open-edition NFT drop contract used by the claim activity.
	NFTDropABI = `[
		{"type":"function","name":"claim","stateMutability":"payable","inputs":[{"name":"receiver","type":"address"},{"name":"quantity","type":"uint256"},{"name":"currency","type":"address"},{"name":"pricePerToken","type":"uint256"},{"name":"allowlistProof","type":"tuple","components":[{"name":"proof","type":"bytes32[]"},{"name":"quantityLimitPerWallet","type":"uint256"},{"name":"pricePerToken","type":"uint256"},{"name":"currency","type":"address"}]},{"name":"data","type":"bytes"}],"outputs":[]},
		{"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"uint256"}]}
	]`
)
