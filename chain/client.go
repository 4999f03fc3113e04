package chain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"
)

// Client wraps a JSON-RPC connection to a node and implements Backend against it. The chain ID is fetched once at
// dial time and cached for the lifetime of the client.
type Client struct {
	// rpcClient is the underlying JSON-RPC connection, retained for raw method calls.
	rpcClient *rpc.Client

	// eth provides the typed node API on top of rpcClient.
	eth *ethclient.Client

	// chainID is the chain ID reported by the node at dial time.
	chainID *big.Int
}

// NewClient dials the provided RPC endpoint and fetches its chain ID. Returns the connected client, or an error if
// dialing or the chain ID query failed.
func NewClient(ctx context.Context, rpcURL string) (*Client, error) {
	rpcClient, err := rpc.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, errors.Wrapf(err, "could not dial RPC endpoint %s", rpcURL)
	}

	eth := ethclient.NewClient(rpcClient)
	chainID, err := eth.ChainID(ctx)
	if err != nil {
		rpcClient.Close()
		return nil, errors.Wrap(err, "could not query chain ID")
	}

	return &Client{
		rpcClient: rpcClient,
		eth:       eth,
		chainID:   chainID,
	}, nil
}

// Close tears down the underlying RPC connection.
func (c *Client) Close() {
	c.rpcClient.Close()
}

// ChainID returns the chain ID cached at dial time.
func (c *Client) ChainID() *big.Int {
	return c.chainID
}

// PendingNonceAt returns the next nonce for the given account, including pending transactions.
func (c *Client) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	return c.eth.PendingNonceAt(ctx, account)
}

// SuggestGasPrice returns the gas price the node currently suggests.
func (c *Client) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return c.eth.SuggestGasPrice(ctx)
}

// SendTransaction broadcasts a signed transaction.
func (c *Client) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	return c.eth.SendTransaction(ctx, tx)
}

// TransactionReceipt returns the receipt for a mined transaction.
func (c *Client) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	return c.eth.TransactionReceipt(ctx, txHash)
}

// BalanceAt returns the latest native currency balance of the given account.
func (c *Client) BalanceAt(ctx context.Context, account common.Address) (*big.Int, error) {
	return c.eth.BalanceAt(ctx, account, nil)
}

// CallContract executes a read-only contract call against the latest block.
func (c *Client) CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error) {
	return c.eth.CallContract(ctx, msg, nil)
}

// RawCall invokes an arbitrary JSON-RPC method, unmarshalling the result into the provided value.
func (c *Client) RawCall(ctx context.Context, result any, method string, args ...any) error {
	return c.rpcClient.CallContext(ctx, result, method, args...)
}
