package assetstore

import (
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

// openTestStore opens a Store backed by a temporary file, closed when the test ends.
func openTestStore(t *testing.T) *Store {
	store, err := Open(filepath.Join(t.TempDir(), "assets.db"))
	assert.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

// TestStoreRecordAndList verifies records round-trip per owner and owners stay isolated.
func TestStoreRecordAndList(t *testing.T) {
	store := openTestStore(t)

	alice := common.HexToAddress("0xA1")
	bob := common.HexToAddress("0xB0")

	assert.NoError(t, store.Record(alice, Record{Kind: AssetKindToken, Address: common.HexToAddress("0x01"), Symbol: "GLM"}))
	assert.NoError(t, store.Record(alice, Record{Kind: AssetKindNFT, Address: common.HexToAddress("0x02"), Name: "Amber Falcon"}))
	assert.NoError(t, store.Record(bob, Record{Kind: AssetKindToken, Address: common.HexToAddress("0x03"), Symbol: "BRK"}))

	aliceRecords, err := store.ListByOwner(alice)
	assert.NoError(t, err)
	assert.Len(t, aliceRecords, 2)

	bobRecords, err := store.ListByOwner(bob)
	assert.NoError(t, err)
	assert.Len(t, bobRecords, 1)
	assert.Equal(t, "BRK", bobRecords[0].Symbol)

	// Every record gets a creation timestamp.
	for _, record := range aliceRecords {
		assert.False(t, record.CreatedAt.IsZero())
	}
}

// TestStoreRecordIdempotent verifies re-recording the same asset address does not duplicate it.
func TestStoreRecordIdempotent(t *testing.T) {
	store := openTestStore(t)

	owner := common.HexToAddress("0xA1")
	record := Record{Kind: AssetKindToken, Address: common.HexToAddress("0x01"), Symbol: "GLM"}
	assert.NoError(t, store.Record(owner, record))
	assert.NoError(t, store.Record(owner, record))

	records, err := store.ListByOwner(owner)
	assert.NoError(t, err)
	assert.Len(t, records, 1)
}

// TestStoreUnknownOwner verifies listing an owner with no records yields an empty result, not an error.
func TestStoreUnknownOwner(t *testing.T) {
	store := openTestStore(t)

	records, err := store.ListByOwner(common.HexToAddress("0xFF"))
	assert.NoError(t, err)
	assert.Empty(t, records)
}

// TestTokensByOwner verifies token filtering excludes other asset kinds.
func TestTokensByOwner(t *testing.T) {
	store := openTestStore(t)

	owner := common.HexToAddress("0xA1")
	tokenAddr := common.HexToAddress("0x01")
	assert.NoError(t, store.Record(owner, Record{Kind: AssetKindToken, Address: tokenAddr, Symbol: "GLM"}))
	assert.NoError(t, store.Record(owner, Record{Kind: AssetKindContract, Address: common.HexToAddress("0x02")}))

	tokens, err := store.TokensByOwner(owner)
	assert.NoError(t, err)
	assert.Equal(t, []common.Address{tokenAddr}, tokens)
}
