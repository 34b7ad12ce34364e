package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/srgjo27/hotel_frontdesk/internal/core/domain"
)

type RoomInventory struct {
	mock.Mock
}

func (m *RoomInventory) ListRooms(ctx context.Context) ([]domain.Room, error) {
	args := m.Called(ctx)
	rooms, _ := args.Get(0).([]domain.Room)
	return rooms, args.Error(1)
}

func NewRoomInventory(t interface {
	mock.TestingT
	Cleanup(func())
}) *RoomInventory {
	m := &RoomInventory{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
