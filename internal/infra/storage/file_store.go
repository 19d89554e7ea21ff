// Package storage persists the birthday document as a single flat JSON file.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"birthday_bot/internal/domain/birthday"

	"github.com/codeGROOVE-dev/retry"
	"github.com/sirupsen/logrus"
)

// FileStore keeps the whole birthday document in one JSON file. A single
// mutex serializes every read and write, so a transaction observes and
// replaces the document atomically with respect to all other callers.
type FileStore struct {
	path   string
	logger *logrus.Entry
	mu     sync.Mutex
}

func NewFileStore(path string, logger *logrus.Entry) *FileStore {
	return &FileStore{path: path, logger: logger}
}

// Read returns the current snapshot. A missing file is a first run and yields
// an empty snapshot; an undecodable file is backed up to <path>.bak and
// reported as birthday.ErrSnapshotCorrupted alongside an empty snapshot.
func (s *FileStore) Read(ctx context.Context) (*birthday.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readLocked()
}

func (s *FileStore) readLocked() (*birthday.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return birthday.NewSnapshot(), nil
		}
		return nil, fmt.Errorf("read snapshot file: %w", err)
	}

	snap := birthday.NewSnapshot()
	if err := json.Unmarshal(data, snap); err != nil {
		backupPath := s.path + ".bak"
		if copyErr := os.WriteFile(backupPath, data, 0o600); copyErr != nil {
			// Without the backup the next write would destroy the only copy
			// of the corrupted bytes, so give up instead.
			return nil, fmt.Errorf("back up corrupted snapshot: %w", copyErr)
		}
		s.logger.WithError(err).WithField("backup_path", backupPath).
			Warn("Snapshot file is corrupted; backed it up and starting from an empty store")
		return birthday.NewSnapshot(), birthday.ErrSnapshotCorrupted
	}

	if snap.Entries == nil {
		snap.Entries = []birthday.Record{}
	}
	if snap.ServerChannels == nil {
		snap.ServerChannels = make(map[int64]int64)
	}
	return snap, nil
}

// Write durably replaces the document with snap.
func (s *FileStore) Write(ctx context.Context, snap *birthday.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(ctx, snap)
}

func (s *FileStore) writeLocked(ctx context.Context, snap *birthday.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	err = retry.Do(
		func() error { return replaceFile(s.path, data) },
		retry.Attempts(3),
		retry.Delay(100*time.Millisecond),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, retryErr error) {
			s.logger.WithError(retryErr).WithField("attempt", n).Info("Retrying snapshot write")
		}),
	)
	if err != nil {
		return fmt.Errorf("write snapshot after retries: %w", err)
	}
	return nil
}

// replaceFile writes data to a temp file in the target directory and renames
// it over path, so the document is never observable half-written.
func replaceFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp snapshot file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp snapshot file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp snapshot file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace snapshot file: %w", err)
	}
	return nil
}

// Transact runs mutate against the current snapshot and persists the result,
// holding the store lock for the entire read-mutate-write cycle. A corrupted
// file has already been backed up by the read, so the transaction proceeds on
// the fresh empty snapshot.
func (s *FileStore) Transact(ctx context.Context, mutate func(*birthday.Snapshot) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.readLocked()
	if err != nil && !errors.Is(err, birthday.ErrSnapshotCorrupted) {
		return err
	}
	if err := mutate(snap); err != nil {
		return err
	}
	return s.writeLocked(ctx, snap)
}
