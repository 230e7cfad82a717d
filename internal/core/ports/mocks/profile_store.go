package mocks

import (
	"context"
	"maps"
	"sync"

	"github.com/stretchr/testify/mock"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/profile"
	"dispatch/internal/core/ports"
)

// ProfileStore is a testify mock of ports.ProfileStore that remembers the last
// saved document.
type ProfileStore struct {
	mock.Mock

	mu   sync.Mutex
	last map[kernel.UserID]profile.Snapshot
}

var _ ports.ProfileStore = (*ProfileStore)(nil)

// NewProfileStore returns a store that loads initial and accepts every save.
func NewProfileStore(initial map[kernel.UserID]profile.Snapshot) *ProfileStore {
	m := &ProfileStore{}
	m.On("Load", mock.Anything).Return(maps.Clone(initial), nil).Maybe()
	m.On("Save", mock.Anything, mock.Anything).Return(nil).Maybe()
	return m
}

// Last returns the most recently saved document, nil before the first save.
func (m *ProfileStore) Last() map[kernel.UserID]profile.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return maps.Clone(m.last)
}

func (m *ProfileStore) Load(ctx context.Context) (map[kernel.UserID]profile.Snapshot, error) {
	args := m.Called(ctx)
	v, _ := args.Get(0).(map[kernel.UserID]profile.Snapshot)
	return v, args.Error(1)
}

func (m *ProfileStore) Save(ctx context.Context, profiles map[kernel.UserID]profile.Snapshot) error {
	args := m.Called(ctx, profiles)
	if err := args.Error(0); err != nil {
		return err
	}
	m.mu.Lock()
	m.last = maps.Clone(profiles)
	m.mu.Unlock()
	return nil
}
