package contracts

import (
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
)

// testDirectory builds a Directory with one of each well-known contract and two tokens.
func testDirectory(t *testing.T) *Directory {
	directory, err := NewDirectory(
		map[string]common.Address{
			NameFactory:    common.HexToAddress("0x10"),
			NameDex:        common.HexToAddress("0x11"),
			NameFeeManager: common.HexToAddress("0x12"),
			NameNFTDrop:    common.HexToAddress("0x13"),
		},
		map[string]common.Address{
			"PathUSD":  common.HexToAddress("0x20"),
			"AlphaUSD": common.HexToAddress("0x21"),
		},
	)
	assert.NoError(t, err)
	return directory
}

// TestDirectoryResolution verifies configured names resolve and unknown names fail explicitly.
func TestDirectoryResolution(t *testing.T) {
	directory := testDirectory(t)

	dex, err := directory.Contract(NameDex)
	assert.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0x11"), dex.Address)

	token, err := directory.Token("PathUSD")
	assert.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0x20"), token.Address)

	_, err = directory.Contract("Unknown")
	assert.Error(t, err)
	_, err = directory.Token("GammaUSD")
	assert.Error(t, err)
}

// TestDirectoryRejectsUnknownContractName verifies construction fails when the configuration names a contract the
// directory has no interface for.
func TestDirectoryRejectsUnknownContractName(t *testing.T) {
	_, err := NewDirectory(map[string]common.Address{"Mystery": common.HexToAddress("0x01")}, nil)
	assert.Error(t, err)
}

// TestDirectoryTokenSymbolsSorted verifies symbol enumeration order is stable.
func TestDirectoryTokenSymbolsSorted(t *testing.T) {
	directory := testDirectory(t)
	assert.Equal(t, []string{"AlphaUSD", "PathUSD"}, directory.TokenSymbols())
}

// TestDirectoryTokenAt verifies runtime token binding shares the factory token interface.
func TestDirectoryTokenAt(t *testing.T) {
	directory := testDirectory(t)
	token := directory.TokenAt(common.HexToAddress("0xAB"))
	assert.Equal(t, common.HexToAddress("0xAB"), token.Address)

	// The bound interface must expose the issuance extensions.
	_, err := token.Pack("mint", common.HexToAddress("0x01"), common.Big1)
	assert.NoError(t, err)
}

// TestDecodeEventLog verifies TokenCreated logs decode into their named arguments, and that absence of a matching
// log is reported rather than defaulted.
func TestDecodeEventLog(t *testing.T) {
	factory, err := NewContract(NameFactory, common.HexToAddress("0x10"), FactoryABI)
	assert.NoError(t, err)

	tokenAddr := common.HexToAddress("0xDEAD")
	admin := common.HexToAddress("0xBEEF")
	event := factory.ABI.Events["TokenCreated"]
	data, err := abi.Arguments{event.Inputs[2], event.Inputs[3]}.Pack("Glimmer Token", "GLM")
	assert.NoError(t, err)

	logs := []*types.Log{
		{
			Address: factory.Address,
			Topics: []common.Hash{
				event.ID,
				common.BytesToHash(tokenAddr.Bytes()),
				common.BytesToHash(admin.Bytes()),
			},
			Data: data,
		},
	}

	decoded, found, err := factory.DecodeEventLog("TokenCreated", logs)
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, tokenAddr, decoded["token"])
	assert.Equal(t, "GLM", decoded["symbol"])

	// A receipt without the event must report not-found, not a zero address.
	_, found, err = factory.DecodeEventLog("TokenCreated", nil)
	assert.NoError(t, err)
	assert.False(t, found)
}
