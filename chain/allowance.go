package chain

import (
	"context"
	"crypto/ecdsa"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/tempolabs/drover/chain/contracts"
	"github.com/tempolabs/drover/logging"
)

// MaxApproval returns the maximum uint256 value, used as an unlimited approval amount so each (owner, token, spender)
// triple needs at most one approval transaction.
func MaxApproval() *big.Int {
	return new(uint256.Int).SetAllOne().ToBig()
}

// AllowanceGuard ensures a spender holds a sufficient token allowance before an activity depends on it. The
// check-then-approve sequence is not atomic; a concurrent allowance change between the read and the approval can make
// the approval redundant, which is harmless, or insufficient, which surfaces as a failure in the dependent activity.
type AllowanceGuard struct {
	// backend is used for allowance reads.
	backend Backend

	// pipeline submits approval transactions when the current allowance is insufficient.
	pipeline *Pipeline

	// logger describes the guard's log object that can be used to log messages and associate them with the chain
	// service.
	logger *logging.Logger
}

// NewAllowanceGuard returns an AllowanceGuard reading through the provided backend and approving through the provided
// pipeline.
func NewAllowanceGuard(backend Backend, pipeline *Pipeline, logger *logging.Logger) *AllowanceGuard {
	return &AllowanceGuard{
		backend:  backend,
		pipeline: pipeline,
		logger:   logger,
	}
}

// EnsureAllowance verifies the spender's allowance on the provided token covers the required amount, submitting an
// unlimited approval if it does not. It returns a nil Outcome when the existing allowance was already sufficient,
// otherwise the Outcome of the approval transaction. The operation is idempotent: repeated calls with a sufficient
// allowance submit nothing.
func (g *AllowanceGuard) EnsureAllowance(ctx context.Context, key *ecdsa.PrivateKey, token *contracts.Contract, spender common.Address, required *big.Int) (*Outcome, error) {
	owner := crypto.PubkeyToAddress(key.PublicKey)

	var allowance *big.Int
	if err := token.Call(ctx, g.backend, "allowance", []any{&allowance}, owner, spender); err != nil {
		return nil, errors.Wrapf(err, "could not read allowance of %s for spender %s", token.Name, spender.Hex())
	}
	if allowance.Cmp(required) >= 0 {
		return nil, nil
	}

	g.logger.Debug("Submitting unlimited approval", logging.StructuredLogInfo{
		"token":   token.Name,
		"owner":   owner.Hex(),
		"spender": spender.Hex(),
	})

	data, err := token.Pack("approve", spender, MaxApproval())
	if err != nil {
		return nil, err
	}
	outcome := g.pipeline.Submit(ctx, key, NewIntent(token.Address, data, GasLimitTransfer))
	return &outcome, nil
}
