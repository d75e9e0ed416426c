package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	bucketCells = []byte("cells")
	bucketState = []byte("state")
	keyVersion  = []byte("version")
)

const schemaVersion = "2"

// DB caches computed table cells. Only the CLI layer uses it; the
// statistics themselves never touch storage.
type DB struct {
	db *bolt.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open cache %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		st, e := tx.CreateBucketIfNotExists(bucketState)
		if e != nil {
			return e
		}
		// cells written under another key layout are unreachable; drop them
		if v := st.Get(keyVersion); v != nil && string(v) != schemaVersion {
			if e := tx.DeleteBucket(bucketCells); e != nil && !errors.Is(e, bolt.ErrBucketNotFound) {
				return e
			}
		}
		if _, e := tx.CreateBucketIfNotExists(bucketCells); e != nil {
			return e
		}
		return st.Put(keyVersion, []byte(schemaVersion))
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &DB{db: db}, nil
}

func (d *DB) Close() error { return d.db.Close() }

// Key identifies one statistic evaluation, including the solver settings
// that shaped its value.
type Key struct {
	Kind      string  `json:"kind"`
	N         int     `json:"n"`
	F         int     `json:"f"`
	Level     float64 `json:"level"`
	Tolerance float64 `json:"tolerance"`
	MaxIter   int     `json:"max_iter"`
}

func (k Key) bytes() []byte {
	return []byte(fmt.Sprintf("%s/%d/%d/%g/%g/%d", k.Kind, k.N, k.F, k.Level, k.Tolerance, k.MaxIter))
}

type CellRecord struct {
	Key
	Value        float64 `json:"value"`
	OK           bool    `json:"ok"` // false: the statistic had no value
	ComputedUnix int64   `json:"computed_unix"`
}

func (d *DB) PutCell(c CellRecord) error {
	if c.ComputedUnix == 0 {
		c.ComputedUnix = time.Now().Unix()
	}
	return d.db.Update(func(tx *bolt.Tx) error {
		j, err := json.Marshal(c)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketCells).Put(c.Key.bytes(), j)
	})
}

// GetCell returns the cached cell and whether it was present.
func (d *DB) GetCell(k Key) (CellRecord, bool, error) {
	var c CellRecord
	found := false
	err := d.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketCells).Get(k.bytes())
		if v == nil {
			return nil
		}
		found = true
		return json.Unmarshal(v, &c)
	})
	if err != nil {
		return CellRecord{}, false, err
	}
	return c, found, nil
}

func (d *DB) ListCells() ([]CellRecord, error) {
	out := []CellRecord{}
	err := d.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketCells).ForEach(func(k, v []byte) error {
			var c CellRecord
			if err := json.Unmarshal(v, &c); err != nil {
				return fmt.Errorf("cell %s: %w", k, err)
			}
			out = append(out, c)
			return nil
		})
	})
	return out, err
}

// Clear drops every cached cell and returns how many there were.
func (d *DB) Clear() (int, error) {
	var n int
	err := d.db.Update(func(tx *bolt.Tx) error {
		n = tx.Bucket(bucketCells).Stats().KeyN
		if err := tx.DeleteBucket(bucketCells); err != nil {
			return err
		}
		_, err := tx.CreateBucket(bucketCells)
		return err
	})
	return n, err
}
