package accounts

import (
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ParseSelection interprets a wallet selection expression against a pool of total wallets, returning the selected
// accounts' zero-based indices in ascending order without duplicates. Expressions use one-based wallet numbers:
// "all" selects every wallet, "3" selects one, "1-10" a range, and "1-10,15,20-22" a comma-separated mix.
func ParseSelection(expression string, total int) ([]int, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" || strings.EqualFold(expression, "all") {
		indices := make([]int, total)
		for i := range indices {
			indices[i] = i
		}
		return indices, nil
	}

	selected := make(map[int]struct{})
	for _, part := range strings.Split(expression, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, errors.Errorf("empty term in wallet selection %q", expression)
		}

		low, high, err := parseTerm(part)
		if err != nil {
			return nil, err
		}
		if low < 1 || high > total {
			return nil, errors.Errorf("wallet selection term %q is out of range (have %d wallets)", part, total)
		}
		for wallet := low; wallet <= high; wallet++ {
			selected[wallet-1] = struct{}{}
		}
	}

	indices := make([]int, 0, len(selected))
	for index := range selected {
		indices = append(indices, index)
	}
	sort.Ints(indices)
	return indices, nil
}

// parseTerm interprets a single selection term as either a wallet number or an inclusive range.
func parseTerm(term string) (int, int, error) {
	if low, high, isRange := strings.Cut(term, "-"); isRange {
		lowNum, err := strconv.Atoi(strings.TrimSpace(low))
		if err != nil {
			return 0, 0, errors.Errorf("invalid wallet range %q", term)
		}
		highNum, err := strconv.Atoi(strings.TrimSpace(high))
		if err != nil {
			return 0, 0, errors.Errorf("invalid wallet range %q", term)
		}
		if lowNum > highNum {
			return 0, 0, errors.Errorf("wallet range %q is inverted", term)
		}
		return lowNum, highNum, nil
	}

	wallet, err := strconv.Atoi(term)
	if err != nil {
		return 0, 0, errors.Errorf("invalid wallet number %q", term)
	}
	return wallet, wallet, nil
}
