package birthday

import (
	"context"
	"errors"
)

// ErrSnapshotCorrupted reports that the durable document could not be
// decoded. The store recovers by backing up the raw bytes and starting from
// an empty snapshot; callers treat this as a warning, never a fatal
// condition.
var ErrSnapshotCorrupted = errors.New("birthday snapshot file is corrupted")

// SnapshotStore persists the full birthday document.
type SnapshotStore interface {
	// Read returns a copy of the current snapshot. A corrupted file yields an
	// empty snapshot together with ErrSnapshotCorrupted after the original
	// bytes have been backed up.
	Read(ctx context.Context) (*Snapshot, error)
	// Write durably replaces the whole document.
	Write(ctx context.Context, snap *Snapshot) error
	// Transact runs mutate against the current snapshot and writes the result
	// back, holding an exclusive critical section across the entire
	// read-mutate-write cycle. A mutator error aborts without writing. All
	// mutations must go through Transact; pairing Read and Write as two
	// separately locked steps can drop a concurrent update.
	Transact(ctx context.Context, mutate func(*Snapshot) error) error
}
