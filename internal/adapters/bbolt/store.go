// Package bbolt implements the ports.PrimeCache interface using bbolt
// (embedded B+ tree). One bucket holds every cached prime set, keyed by the
// dump digest plus scan parameters, with values JSON-serialized. Writes are
// transactional: a crash mid-write cannot corrupt previously committed data.
package bbolt

import (
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/zetatwo/primefind/internal/ports"
)

var bucketPrimes = []byte("primes")

// Store implements ports.PrimeCache backed by bbolt.
type Store struct {
	db *bolt.DB
}

// NewStore opens (or creates) a bbolt database at the given path.
func NewStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

// cacheKeyBytes encodes every field of the key; any parameter change yields
// a distinct entry.
func cacheKeyBytes(key ports.CacheKey) []byte {
	return []byte(fmt.Sprintf("%016x:%d:%d:%s:%d:%d",
		key.Digest, key.PrimeSize, key.NullRun, key.Order,
		key.Stage1Rounds, key.Stage2Rounds))
}

// primeSetJSON is the stored form: one minimal big-endian byte string per
// prime (base64 under encoding/json).
type primeSetJSON struct {
	Primes [][]byte `json:"primes"`
}

// SavePrimes stores the confirmed-prime set under key.
func (s *Store) SavePrimes(key ports.CacheKey, primes []*big.Int) error {
	set := primeSetJSON{Primes: make([][]byte, len(primes))}
	for i, p := range primes {
		set.Primes[i] = p.Bytes()
	}
	data, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("marshal prime set: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketPrimes)
		if err != nil {
			return err
		}
		return b.Put(cacheKeyBytes(key), data)
	})
}

// LoadPrimes retrieves the set for key. Returns nil, nil when absent.
func (s *Store) LoadPrimes(key ports.CacheKey) ([]*big.Int, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketPrimes)
		if b == nil {
			return nil
		}
		// Copy bytes out of the transaction (bbolt slices are only valid within tx)
		if v := b.Get(cacheKeyBytes(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	var set primeSetJSON
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("unmarshal prime set: %w", err)
	}
	primes := make([]*big.Int, len(set.Primes))
	for i, raw := range set.Primes {
		primes[i] = new(big.Int).SetBytes(raw)
	}
	return primes, nil
}

// Stats reports the number of cached sets and the database file size.
func (s *Store) Stats() (int, int64, error) {
	entries := 0
	err := s.db.View(func(tx *bolt.Tx) error {
		if b := tx.Bucket(bucketPrimes); b != nil {
			entries = b.Stats().KeyN
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	info, err := os.Stat(s.db.Path())
	if err != nil {
		return entries, 0, err
	}
	return entries, info.Size(), nil
}

// Clear removes every cached entry. Idempotent.
func (s *Store) Clear() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		err := tx.DeleteBucket(bucketPrimes)
		if err == bolt.ErrBucketNotFound {
			return nil
		}
		return err
	})
}
