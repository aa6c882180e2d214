package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/moneta/tests/common"
)

// TestCashRunway checks the seeded cash position: £20,750.75 across the
// GBP cash accounts and $2,400 in Chase. The burn window trails the
// current month, where the seed has no activity, so both currencies
// report no net burn.
func TestCashRunway(t *testing.T) {
	env := common.NewEnv(t)
	if env == nil {
		return
	}
	defer env.Cleanup()

	guard := env.OutputGuard()

	result, err := env.MCPRequest("tools/call", map[string]interface{}{
		"name":      "get_cash_runway",
		"arguments": map[string]interface{}{},
	})
	require.NoError(t, err, "get_cash_runway MCP request failed")
	guard.SaveResult("01_cash_runway", common.FormatMCPContent(result))

	require.NoError(t, common.ValidateMCPToolResponse(result))

	content := common.FormatMCPContent(result)
	assert.Contains(t, content, "Cash runway: GBP")
	assert.Contains(t, content, "£20,750.75")
	assert.Contains(t, content, "$2,400.00")
	assert.Contains(t, content, "no net burn")
	assert.Contains(t, content, "Burn measured over")

	t.Logf("Results saved to: %s", guard.ResultsDir())
}
