package cli

// Flag constants for dex CLI commands
const (
	// Output format of query results
	FlagOutput = "output"

	// Swap quote flags
	FlagExpected = "expected"
	FlagSlippage = "slippage"
	FlagDeadline = "deadline"
)

// Output formats
const (
	OutputJSON = "json"
	OutputText = "text"
)
