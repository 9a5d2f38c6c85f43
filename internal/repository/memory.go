package repository

import (
	"context"
	"slices"
	"sync"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/entity"
)

type memorySession struct {
	lock      sync.RWMutex
	snapshots map[string]entity.Snapshot
}

// NewMemorySessionRepository keeps snapshots for the lifetime of the process.
func NewMemorySessionRepository() SessionRepository {
	return &memorySession{
		snapshots: make(map[string]entity.Snapshot),
	}
}

func (that *memorySession) Save(_ context.Context, id string, snapshot *entity.Snapshot) error {
	that.lock.Lock()
	defer that.lock.Unlock()

	that.snapshots[id] = cloneSnapshot(snapshot)

	return nil
}

func (that *memorySession) GetByID(_ context.Context, id string) (*entity.Snapshot, error) {
	that.lock.RLock()
	defer that.lock.RUnlock()

	snapshot, ok := that.snapshots[id]
	if !ok {
		return nil, ErrSessionNotFound
	}

	copied := cloneSnapshot(&snapshot)

	return &copied, nil
}

func (that *memorySession) DeleteByID(_ context.Context, id string) error {
	that.lock.Lock()
	defer that.lock.Unlock()

	if _, ok := that.snapshots[id]; !ok {
		return ErrSessionNotFound
	}

	delete(that.snapshots, id)

	return nil
}

func cloneSnapshot(snapshot *entity.Snapshot) entity.Snapshot {
	return entity.Snapshot{
		History:  slices.Clone(snapshot.History),
		Position: snapshot.Position,
	}
}
