package accounts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestParseSelection verifies selection expressions expand to the expected zero-based indices.
func TestParseSelection(t *testing.T) {
	indices, err := ParseSelection("all", 4)
	assert.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, indices)

	indices, err = ParseSelection("3", 4)
	assert.NoError(t, err)
	assert.Equal(t, []int{2}, indices)

	indices, err = ParseSelection("1-3", 4)
	assert.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, indices)

	// Mixed terms with overlap deduplicate and sort.
	indices, err = ParseSelection("2-3, 1, 3", 4)
	assert.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, indices)
}

// TestParseSelectionErrors verifies malformed and out-of-range expressions are rejected.
func TestParseSelectionErrors(t *testing.T) {
	for _, expression := range []string{"0", "5", "1-9", "3-1", "a", "1,,2"} {
		_, err := ParseSelection(expression, 4)
		assert.Error(t, err, "expression: %s", expression)
	}
}

// TestLoadFromFile verifies keys load with one-based indices, skipping comments and blank lines.
func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys.txt")
	contents := "# funded wallets\n" +
		"0x59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d\n" +
		"\n" +
		"8f2a559490fe81daae104ad84341e17ec50c983b4f62ee83c93e8d7f55d7deee\n"
	assert.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	loaded, err := LoadFromFile(path)
	assert.NoError(t, err)
	assert.Len(t, loaded, 2)
	assert.Equal(t, 1, loaded[0].Index)
	assert.Equal(t, 2, loaded[1].Index)
	assert.NotEqual(t, loaded[0].Address, loaded[1].Address)
}

// TestLoadFromFileEmpty verifies a key file with no usable keys is rejected.
func TestLoadFromFileEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys.txt")
	assert.NoError(t, os.WriteFile(path, []byte("# nothing here\n"), 0o600))

	_, err := LoadFromFile(path)
	assert.Error(t, err)
}
