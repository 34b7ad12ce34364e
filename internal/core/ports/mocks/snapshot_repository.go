package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/srgjo27/hotel_frontdesk/internal/core/domain"
)

type SnapshotRepository struct {
	mock.Mock
}

func (m *SnapshotRepository) Save(ctx context.Context, snapshot *domain.Snapshot) error {
	return m.Called(ctx, snapshot).Error(0)
}

func (m *SnapshotRepository) Load(ctx context.Context) (*domain.Snapshot, error) {
	args := m.Called(ctx)
	snap, _ := args.Get(0).(*domain.Snapshot)
	return snap, args.Error(1)
}

func NewSnapshotRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *SnapshotRepository {
	m := &SnapshotRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
