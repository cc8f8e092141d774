package store

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// RecordType is the stable small-integer type tag of an entity record.
// The tag is the first byte of every key and part of the on-disk contract:
// never renumber or reuse a tag.
type RecordType uint8

const (
	RecordTypeConversation RecordType = 1
	RecordTypeProfile      RecordType = 2
)

func (t RecordType) String() string {
	switch t {
	case RecordTypeConversation:
		return "conversation"
	case RecordTypeProfile:
		return "profile"
	default:
		return fmt.Sprintf("type(%d)", uint8(t))
	}
}

// Config holds store configuration.
type Config struct {
	// Path is the directory for database files. Ignored when InMemory is set.
	Path string

	// InMemory keeps all records in memory. Used by tests.
	InMemory bool

	// SyncWrites forces writes to disk before a put returns. Durability of
	// a put is what makes a status transition observable, so this defaults
	// on for persistent stores.
	SyncWrites bool

	// Logger receives the database's internal log output. Nil disables it.
	Logger *slog.Logger

	// GCInterval is how often value-log garbage collection runs.
	// Zero disables GC (in-memory stores never run it).
	GCInterval time.Duration
}

// Store is the shared durable resource of the system. All operations are
// per-record atomic: a Put either fully succeeds or leaves the prior record
// intact. No cross-record transactions are offered.
type Store struct {
	db   *badger.DB
	log  *slog.Logger
	stop chan struct{}
}

// badgerLogger adapts slog.Logger to BadgerDB's Logger interface.
type badgerLogger struct {
	log *slog.Logger
}

func (l badgerLogger) Errorf(format string, args ...any)   { l.log.Error(fmt.Sprintf(format, args...)) }
func (l badgerLogger) Warningf(format string, args ...any) { l.log.Warn(fmt.Sprintf(format, args...)) }
func (l badgerLogger) Infof(format string, args ...any)    { l.log.Debug(fmt.Sprintf(format, args...)) }
func (l badgerLogger) Debugf(format string, args ...any)   { l.log.Debug(fmt.Sprintf(format, args...)) }

// Open opens (creating if necessary) the record store.
func Open(cfg Config) (*Store, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Path == "" {
			return nil, fmt.Errorf("%w: store path required", ErrStorage)
		}
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("%w: create store directory: %v", ErrStorage, err)
		}
		opts = badger.DefaultOptions(cfg.Path).WithSyncWrites(cfg.SyncWrites)
	}
	if cfg.Logger != nil {
		opts = opts.WithLogger(badgerLogger{log: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: open store: %v", ErrStorage, err)
	}

	s := &Store{db: db, log: cfg.Logger, stop: make(chan struct{})}
	if !cfg.InMemory && cfg.GCInterval > 0 {
		go s.runGC(cfg.GCInterval)
	}
	return s, nil
}

// OpenInMemory opens a throwaway in-memory store for tests.
func OpenInMemory() (*Store, error) {
	return Open(Config{InMemory: true})
}

func (s *Store) runGC(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			// Returns ErrNoRewrite when there is nothing to collect.
			_ = s.db.RunValueLogGC(0.5)
		}
	}
}

// Close releases the underlying database.
func (s *Store) Close() error {
	close(s.stop)
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("%w: close store: %v", ErrStorage, err)
	}
	return nil
}

func key(t RecordType, id string) []byte {
	k := make([]byte, 0, len(id)+2)
	k = append(k, byte(t), '/')
	return append(k, id...)
}

func prefix(t RecordType) []byte {
	return []byte{byte(t), '/'}
}

// Put writes one record. The write is durable when Put returns nil.
func (s *Store) Put(t RecordType, id string, record []byte) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(t, id), record)
	})
	if err != nil {
		return fmt.Errorf("%w: put %s %s: %v", ErrStorage, t, id, err)
	}
	return nil
}

// Get reads one record. Returns ErrNotFound when the id is unknown.
func (s *Store) Get(t RecordType, id string) ([]byte, error) {
	var record []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(t, id))
		if err != nil {
			return err
		}
		record, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, fmt.Errorf("%s %s: %w", t, id, ErrNotFound)
		}
		return nil, fmt.Errorf("%w: get %s %s: %v", ErrStorage, t, id, err)
	}
	return record, nil
}

// List returns every record of the given type, in key order.
func (s *Store) List(t RecordType) ([][]byte, error) {
	var records [][]byte
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix(t)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			record, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			records = append(records, record)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: list %s: %v", ErrStorage, t, err)
	}
	return records, nil
}

// Delete removes one record. Deleting an unknown id is not an error.
func (s *Store) Delete(t RecordType, id string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key(t, id))
	})
	if err != nil {
		return fmt.Errorf("%w: delete %s %s: %v", ErrStorage, t, id, err)
	}
	return nil
}

// DeleteAll removes every record of the given type.
func (s *Store) DeleteAll(t RecordType) error {
	if err := s.db.DropPrefix(prefix(t)); err != nil {
		return fmt.Errorf("%w: delete all %s: %v", ErrStorage, t, err)
	}
	return nil
}
