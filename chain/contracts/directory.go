package contracts

import (
	"context"
	"reflect"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Well-known contract names resolvable through a Directory.
const (
	// NameFactory identifies the token factory contract.
	NameFactory = "TokenFactory"

	// NameDex identifies the stablecoin exchange contract.
	NameDex = "StablecoinDex"

	// NameFeeManager identifies the fee/AMM manager contract.
	NameFeeManager = "FeeManager"

	// NameNFTDrop identifies the open-edition NFT drop contract.
	NameNFTDrop = "NFTDrop"
)

// ContractCaller describes the read-only call capability a Contract needs to execute view methods. chain.Backend
// satisfies it.
type ContractCaller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error)
}

// Contract binds a deployed address to its parsed ABI, providing typed packing, calling, and event decoding.
type Contract struct {
	// Name is the human-readable name the contract is registered under.
	Name string

	// Address is the contract's deployed address.
	Address common.Address

	// ABI is the contract's parsed interface.
	ABI abi.ABI
}

// NewContract parses the provided ABI JSON and binds it to the given address. Returns the bound contract, or an
// error if the ABI could not be parsed.
func NewContract(name string, address common.Address, abiJSON string) (*Contract, error) {
	parsed, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		return nil, errors.Wrapf(err, "could not parse ABI for contract %s", name)
	}
	return &Contract{
		Name:    name,
		Address: address,
		ABI:     parsed,
	}, nil
}

// At returns a copy of the contract bound to a different address. This is used for factory-created tokens which
// share one interface across many deployments.
func (c *Contract) At(address common.Address) *Contract {
	bound := *c
	bound.Address = address
	return &bound
}

// Pack encodes a method call with the provided arguments into calldata.
func (c *Contract) Pack(method string, args ...any) ([]byte, error) {
	data, err := c.ABI.Pack(method, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "could not pack %s.%s", c.Name, method)
	}
	return data, nil
}

// Call executes a view method against the provided caller and unpacks the results into out. Each element of out must
// be a pointer to a value of the method's corresponding return type.
func (c *Contract) Call(ctx context.Context, caller ContractCaller, method string, out []any, args ...any) error {
	data, err := c.Pack(method, args...)
	if err != nil {
		return err
	}
	result, err := caller.CallContract(ctx, ethereum.CallMsg{To: &c.Address, Data: data})
	if err != nil {
		return errors.Wrapf(err, "call to %s.%s failed", c.Name, method)
	}
	values, err := c.ABI.Unpack(method, result)
	if err != nil {
		return errors.Wrapf(err, "could not unpack result of %s.%s", c.Name, method)
	}
	if len(values) < len(out) {
		return errors.Errorf("%s.%s returned %d values, expected at least %d", c.Name, method, len(values), len(out))
	}
	for i := range out {
		if err = assign(out[i], values[i]); err != nil {
			return errors.Wrapf(err, "could not decode return value %d of %s.%s", i, c.Name, method)
		}
	}
	return nil
}

// DecodeEventLog scans the provided receipt logs for the named event emitted by this contract, decoding both indexed
// and non-indexed arguments into a map. The second return value reports whether a matching log was found; absence is
// an explicit condition callers must handle, not a silent default.
func (c *Contract) DecodeEventLog(eventName string, logs []*types.Log) (map[string]any, bool, error) {
	event, ok := c.ABI.Events[eventName]
	if !ok {
		return nil, false, errors.Errorf("contract %s has no event named %s", c.Name, eventName)
	}

	for _, log := range logs {
		if log.Address != c.Address || len(log.Topics) == 0 || log.Topics[0] != event.ID {
			continue
		}

		decoded := make(map[string]any)
		if err := abi.ParseTopicsIntoMap(decoded, indexedArguments(event.Inputs), log.Topics[1:]); err != nil {
			return nil, false, errors.Wrapf(err, "could not decode indexed arguments of %s.%s", c.Name, eventName)
		}
		if err := c.ABI.UnpackIntoMap(decoded, eventName, log.Data); err != nil {
			return nil, false, errors.Wrapf(err, "could not decode data arguments of %s.%s", c.Name, eventName)
		}
		return decoded, true, nil
	}
	return nil, false, nil
}

// indexedArguments filters an event's inputs down to its indexed arguments.
func indexedArguments(inputs abi.Arguments) abi.Arguments {
	indexed := make(abi.Arguments, 0, len(inputs))
	for _, input := range inputs {
		if input.Indexed {
			indexed = append(indexed, input)
		}
	}
	return indexed
}

// Directory resolves contract and token names to bound Contracts. Resolution failure is always an explicit error.
type Directory struct {
	// contracts maps well-known contract names to their bound instances.
	contracts map[string]*Contract

	// tokens maps token symbols to their bound token instances.
	tokens map[string]*Contract

	// tokenTemplate is the shared token interface, rebindable to factory-created token addresses.
	tokenTemplate *Contract

	// erc20Template is the minimal standard token interface, rebindable to arbitrary token addresses.
	erc20Template *Contract
}

// NewDirectory builds a Directory from contract and token address maps. Contract names must be drawn from the
// well-known Name constants; token keys are free-form symbols.
func NewDirectory(contractAddresses map[string]common.Address, tokenAddresses map[string]common.Address) (*Directory, error) {
	abisByName := map[string]string{
		NameFactory:    FactoryABI,
		NameDex:        DexABI,
		NameFeeManager: FeeManagerABI,
		NameNFTDrop:    NFTDropABI,
	}

	directory := &Directory{
		contracts: make(map[string]*Contract),
		tokens:    make(map[string]*Contract),
	}

	var err error
	if directory.tokenTemplate, err = NewContract("Token", common.Address{}, TokenABI); err != nil {
		return nil, err
	}
	if directory.erc20Template, err = NewContract("ERC20", common.Address{}, ERC20ABI); err != nil {
		return nil, err
	}

	for name, address := range contractAddresses {
		abiJSON, ok := abisByName[name]
		if !ok {
			return nil, errors.Errorf("unknown contract name %s in directory configuration", name)
		}
		contract, contractErr := NewContract(name, address, abiJSON)
		if contractErr != nil {
			return nil, contractErr
		}
		directory.contracts[name] = contract
	}

	for symbol, address := range tokenAddresses {
		token := directory.tokenTemplate.At(address)
		token.Name = symbol
		directory.tokens[symbol] = token
	}
	return directory, nil
}

// Contract resolves a well-known contract name. Returns an error if the name was not configured.
func (d *Directory) Contract(name string) (*Contract, error) {
	contract, ok := d.contracts[name]
	if !ok {
		return nil, errors.Errorf("contract %s is not configured", name)
	}
	return contract, nil
}

// Token resolves a token symbol. Returns an error if the symbol was not configured.
func (d *Directory) Token(symbol string) (*Contract, error) {
	token, ok := d.tokens[symbol]
	if !ok {
		return nil, errors.Errorf("token %s is not configured", symbol)
	}
	return token, nil
}

// TokenAt binds the shared token interface to an arbitrary address, for tokens created at runtime.
func (d *Directory) TokenAt(address common.Address) *Contract {
	return d.tokenTemplate.At(address)
}

// ERC20At binds the minimal standard token interface to an arbitrary address.
func (d *Directory) ERC20At(address common.Address) *Contract {
	return d.erc20Template.At(address)
}

// TokenSymbols returns the configured token symbols in sorted order, so iteration order is stable across runs.
func (d *Directory) TokenSymbols() []string {
	symbols := maps.Keys(d.tokens)
	slices.Sort(symbols)
	return symbols
}

// assign copies a decoded ABI value into the provided output pointer, converting compatible representations.
func assign(out any, value any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("cannot assign %T to %T", value, out)
		}
	}()

	outValue := reflect.ValueOf(out)
	if outValue.Kind() != reflect.Ptr || outValue.IsNil() {
		return errors.New("output must be a non-nil pointer")
	}
	converted := abi.ConvertType(value, outValue.Elem().Interface())
	outValue.Elem().Set(reflect.ValueOf(converted))
	return nil
}
