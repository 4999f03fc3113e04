package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestPairCombinations verifies every unordered pair of distinct elements is produced exactly once.
func TestPairCombinations(t *testing.T) {
	pairs := PairCombinations([]string{"a", "b", "c"})
	assert.Equal(t, [][2]string{{"a", "b"}, {"a", "c"}, {"b", "c"}}, pairs)

	assert.Empty(t, PairCombinations([]string{"a"}))
	assert.Empty(t, PairCombinations([]string{}))
}

// TestTruncateString verifies strings at or under the limit pass through unchanged and longer ones are shortened
// with an ellipsis.
func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", TruncateString("short", 10))
	assert.Equal(t, "exact", TruncateString("exact", 5))
	assert.Equal(t, "trunc...", TruncateString("truncated", 5))
}
