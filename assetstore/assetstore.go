// Package assetstore persists the on-chain assets each wallet has created, so agents can target their own tokens and
// deployments across process restarts.
package assetstore

import (
	"encoding/json"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/tempolabs/drover/utils"
	bolt "go.etcd.io/bbolt"
)

// AssetKind describes the category of a recorded asset.
type AssetKind string

const (
	// AssetKindToken describes a token created through the on-chain factory.
	AssetKindToken AssetKind = "token"

	// AssetKindContract describes a raw contract deployment.
	AssetKindContract AssetKind = "contract"

	// AssetKindNFT describes a deployed NFT collection.
	AssetKindNFT AssetKind = "nft"
)

// Record describes one asset created by a wallet.
type Record struct {
	// Kind describes the asset's category.
	Kind AssetKind `json:"kind"`

	// Address is the asset's deployed address.
	Address common.Address `json:"address"`

	// Name is the asset's human-readable name, if it has one.
	Name string `json:"name,omitempty"`

	// Symbol is the asset's token symbol, if it has one.
	Symbol string `json:"symbol,omitempty"`

	// CreatedAt is the wall-clock time the asset was recorded.
	CreatedAt time.Time `json:"createdAt"`
}

// Store persists asset records in a file-backed key-value database. Records are grouped into one bucket per owning
// wallet, keyed by asset address, so re-recording the same asset is naturally idempotent.
type Store struct {
	// db is the underlying database handle.
	db *bolt.DB
}

// Open opens or creates the asset database at the provided path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "could not open asset database %s", path)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record persists an asset under the provided owner. Recording the same asset address twice overwrites the prior
// record rather than duplicating it.
func (s *Store) Record(owner common.Address, record Record) error {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	encoded, err := json.Marshal(record)
	if err != nil {
		return errors.Wrap(err, "could not encode asset record")
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		bucket, bucketErr := tx.CreateBucketIfNotExists(owner.Bytes())
		if bucketErr != nil {
			return bucketErr
		}
		return bucket.Put(record.Address.Bytes(), encoded)
	})
	return errors.Wrapf(err, "could not record asset %s for owner %s", record.Address.Hex(), owner.Hex())
}

// ListByOwner returns every asset recorded for the provided owner. An owner with no records yields an empty slice,
// not an error.
func (s *Store) ListByOwner(owner common.Address) ([]Record, error) {
	var records []Record
	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(owner.Bytes())
		if bucket == nil {
			return nil
		}
		return bucket.ForEach(func(_, value []byte) error {
			var record Record
			if decodeErr := json.Unmarshal(value, &record); decodeErr != nil {
				return errors.Wrap(decodeErr, "could not decode asset record")
			}
			records = append(records, record)
			return nil
		})
	})
	if err != nil {
		return nil, errors.Wrapf(err, "could not list assets for owner %s", owner.Hex())
	}
	return records, nil
}

// TokensByOwner returns the addresses of factory-created tokens recorded for the provided owner.
func (s *Store) TokensByOwner(owner common.Address) ([]common.Address, error) {
	records, err := s.ListByOwner(owner)
	if err != nil {
		return nil, err
	}
	tokens := utils.SliceWhere(records, func(record Record) bool {
		return record.Kind == AssetKindToken
	})
	return utils.SliceSelect(tokens, func(record Record) common.Address {
		return record.Address
	}), nil
}
