package accounts

import (
	"bufio"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// LoadFromFile reads hex-encoded private keys from the provided file, one per line. Blank lines and lines starting
// with '#' are skipped. Accounts are indexed by their one-based position among the loaded keys.
func LoadFromFile(path string) ([]*Account, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open key file %s", path)
	}
	defer file.Close()

	var loaded []*Account
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		account, accountErr := NewAccountFromHexKey(line, len(loaded)+1)
		if accountErr != nil {
			return nil, accountErr
		}
		loaded = append(loaded, account)
	}
	if err = scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "could not read key file %s", path)
	}
	if len(loaded) == 0 {
		return nil, errors.Errorf("key file %s contains no keys", path)
	}
	return loaded, nil
}
