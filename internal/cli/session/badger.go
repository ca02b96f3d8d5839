package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v3"
)

// BadgerStorage keeps the payload in a Badger database under Key.
type BadgerStorage struct {
	db *badger.DB
}

// OpenBadgerStorage opens (or creates) the database in dir.
func OpenBadgerStorage(dir string, logger *slog.Logger) (*BadgerStorage, error) {
	if dir == "" {
		return nil, fmt.Errorf("session: badger dir is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	opts := badger.DefaultOptions(dir)
	opts.Logger = &badgerLogger{logger: logger}
	// One tiny key; keep the footprint small.
	opts.ValueLogFileSize = 1 << 20
	opts.MemTableSize = 1 << 20
	opts.NumVersionsToKeep = 1
	opts.SyncWrites = true

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("session: open badger: %w", err)
	}
	return &BadgerStorage{db: db}, nil
}

// Load reads the payload.
func (s *BadgerStorage) Load(ctx context.Context) ([]byte, error) {
	var value []byte

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(Key))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNoSession
			}
			return err
		}

		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Save stores the payload.
func (s *BadgerStorage) Save(ctx context.Context, data []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(Key), data)
	})
}

// Remove deletes the payload.
func (s *BadgerStorage) Remove(ctx context.Context) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(Key))
	})
}

// Close closes the database.
func (s *BadgerStorage) Close() error {
	return s.db.Close()
}

// badgerLogger adapts slog.Logger to Badger's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

// Badger is chatty at info level; demote to debug.
func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
