package app

import (
	"context"
	"sync"

	"birthday_bot/internal/domain/birthday"
)

// memStore is an in-memory SnapshotStore with injectable failures, used to
// exercise the services without touching disk.
type memStore struct {
	mu       sync.Mutex
	snap     *birthday.Snapshot
	readErr  error
	writeErr error
}

func newMemStore() *memStore {
	return &memStore{snap: birthday.NewSnapshot()}
}

func cloneSnapshot(snap *birthday.Snapshot) *birthday.Snapshot {
	out := birthday.NewSnapshot()
	out.Entries = append(out.Entries, snap.Entries...)
	for k, v := range snap.ServerChannels {
		out.ServerChannels[k] = v
	}
	return out
}

func (m *memStore) Read(ctx context.Context) (*birthday.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, m.readErr
	}
	return cloneSnapshot(m.snap), nil
}

func (m *memStore) Write(ctx context.Context, snap *birthday.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.snap = cloneSnapshot(snap)
	return nil
}

func (m *memStore) Transact(ctx context.Context, mutate func(*birthday.Snapshot) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return m.readErr
	}
	work := cloneSnapshot(m.snap)
	if err := mutate(work); err != nil {
		return err
	}
	if m.writeErr != nil {
		return m.writeErr
	}
	m.snap = work
	return nil
}
