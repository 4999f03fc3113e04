package chain

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/tempolabs/drover/chain/chaintest"
	"github.com/tempolabs/drover/chain/contracts"
	"github.com/tempolabs/drover/logging"
)

// allowanceBackend wires a FakeBackend to answer allowance reads with a settable value.
func allowanceBackend(t *testing.T, token *contracts.Contract, allowance *big.Int) *chaintest.FakeBackend {
	backend := chaintest.NewFakeBackend(1)
	backend.SetCallHandler(func(msg ethereum.CallMsg) ([]byte, error) {
		packed, err := token.ABI.Methods["allowance"].Outputs.Pack(allowance)
		assert.NoError(t, err)
		return packed, nil
	})
	return backend
}

// TestAllowanceGuardSkipsWhenSufficient verifies no approval is submitted when the existing allowance already covers
// the requirement.
func TestAllowanceGuardSkipsWhenSufficient(t *testing.T) {
	token, err := contracts.NewContract("PathUSD", common.HexToAddress("0x01"), contracts.TokenABI)
	assert.NoError(t, err)

	backend := allowanceBackend(t, token, big.NewInt(1_000_000))
	logger := logging.NewLogger(zerolog.Disabled)
	guard := NewAllowanceGuard(backend, NewPipeline(backend, testPipelineConfig(), logger), logger)

	key, err := crypto.GenerateKey()
	assert.NoError(t, err)

	outcome, err := guard.EnsureAllowance(context.Background(), key, token, common.HexToAddress("0x02"), big.NewInt(500_000))
	assert.NoError(t, err)
	assert.Nil(t, outcome)
	assert.Empty(t, backend.SentTransactions())
}

// TestAllowanceGuardApprovesWhenInsufficient verifies an unlimited approval is submitted when the existing allowance
// falls short.
func TestAllowanceGuardApprovesWhenInsufficient(t *testing.T) {
	token, err := contracts.NewContract("PathUSD", common.HexToAddress("0x01"), contracts.TokenABI)
	assert.NoError(t, err)

	backend := allowanceBackend(t, token, big.NewInt(100))
	logger := logging.NewLogger(zerolog.Disabled)
	guard := NewAllowanceGuard(backend, NewPipeline(backend, testPipelineConfig(), logger), logger)

	key, err := crypto.GenerateKey()
	assert.NoError(t, err)

	spender := common.HexToAddress("0x02")
	outcome, err := guard.EnsureAllowance(context.Background(), key, token, spender, big.NewInt(500_000))
	assert.NoError(t, err)
	assert.NotNil(t, outcome)
	assert.True(t, outcome.Confirmed())

	sent := backend.SentTransactions()
	assert.Len(t, sent, 1)
	assert.Equal(t, token.Address, *sent[0].To())

	// The approval must be for the maximum uint256 value.
	expected, err := token.Pack("approve", spender, MaxApproval())
	assert.NoError(t, err)
	assert.Equal(t, expected, sent[0].Data())
}

// TestAllowanceGuardIsIdempotent verifies a second call after a confirmed approval submits no further transaction
// once the chain reflects the unlimited allowance.
func TestAllowanceGuardIsIdempotent(t *testing.T) {
	token, err := contracts.NewContract("PathUSD", common.HexToAddress("0x01"), contracts.TokenABI)
	assert.NoError(t, err)

	// The fake starts with a short allowance and flips to unlimited once an approval lands.
	allowance := big.NewInt(100)
	backend := chaintest.NewFakeBackend(1)
	backend.SetCallHandler(func(msg ethereum.CallMsg) ([]byte, error) {
		if len(backend.SentTransactions()) > 0 {
			allowance = MaxApproval()
		}
		return token.ABI.Methods["allowance"].Outputs.Pack(allowance)
	})
	logger := logging.NewLogger(zerolog.Disabled)
	guard := NewAllowanceGuard(backend, NewPipeline(backend, testPipelineConfig(), logger), logger)

	key, err := crypto.GenerateKey()
	assert.NoError(t, err)
	spender := common.HexToAddress("0x02")

	outcome, err := guard.EnsureAllowance(context.Background(), key, token, spender, big.NewInt(500_000))
	assert.NoError(t, err)
	assert.NotNil(t, outcome)

	outcome, err = guard.EnsureAllowance(context.Background(), key, token, spender, big.NewInt(500_000))
	assert.NoError(t, err)
	assert.Nil(t, outcome)
	assert.Len(t, backend.SentTransactions(), 1)
}

// TestMaxApproval verifies the unlimited approval amount is the maximum uint256 value.
func TestMaxApproval(t *testing.T) {
	expected := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
	assert.Zero(t, expected.Cmp(MaxApproval()))
}
