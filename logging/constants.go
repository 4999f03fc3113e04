package logging

// These constants are used to identify the various services that may do some logging
const (
	// CLI_SERVICE is the constant used to identify the cmd package
	CLI_SERVICE = "cli"
	// AGENT_SERVICE is the constant used to identify the agent package
	AGENT_SERVICE = "agent"
	// CHAIN_SERVICE is the constant used to identify the chain package
	CHAIN_SERVICE = "chain"
	// ACTIVITY_SERVICE is the constant used to identify the activities package
	ACTIVITY_SERVICE = "activities"
	// STORE_SERVICE is the constant used to identify the assetstore package
	STORE_SERVICE = "assetstore"
)
