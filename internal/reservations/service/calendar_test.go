package service

import (
	"context"
	"testing"
	"time"

	propertiesrepo "innkeep/internal/properties/repository"
	"innkeep/internal/reservations/repository"
	"innkeep/internal/reservations/validator"
	"innkeep/pkg/config"
	"innkeep/pkg/daterange"
	"innkeep/pkg/events"
	"innkeep/pkg/logger"
	"innkeep/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalendarMonth(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{
		Log:             logger.Discard(),
		CollationLocale: "en",
		MaxListLimit:    200,
	}

	propertyStore := propertiesrepo.NewMemoryPropertyStore()
	roomStore := propertiesrepo.NewMemoryRoomStore()
	store := repository.NewMemoryStore()

	property := &model.Property{OwnerID: testOwner, Name: "Seaside"}
	require.NoError(t, propertyStore.Insert(ctx, property))
	room := &model.Room{OwnerID: testOwner, PropertyID: property.ID, Name: "Suite"}
	require.NoError(t, roomStore.Insert(ctx, room))

	resSvc := NewReservationService(
		store,
		repository.NewMemoryRoomLocker(),
		roomStore,
		propertyStore,
		validator.NewReservationValidator(cfg.Log),
		events.NopPublisher{},
		cfg,
	)
	calSvc := NewCalendarService(store, roomStore, propertyStore, cfg)

	// Spans the May/June boundary; only its June days land on the grid.
	res := &model.Reservation{
		PropertyID: property.ID,
		RoomID:     room.ID,
		Name:       "Grace",
		Lastname:   "Hopper",
		StartDate:  daterange.NewDate(2030, time.May, 30),
		EndDate:    daterange.NewDate(2030, time.June, 2),
	}
	require.NoError(t, resSvc.Create(ctx, testOwner, res))

	grid, err := calSvc.Month(ctx, testOwner, daterange.NewDate(2030, time.June, 1), "", false)
	require.NoError(t, err)

	require.False(t, grid.NoRooms)
	require.Len(t, grid.Rows, 1)
	row := grid.Rows[0]
	assert.Equal(t, "Seaside", row.PropertyName)
	require.Len(t, row.Days, 30)

	assert.True(t, row.Days[0].Occupied, "June 1 is part of the stay")
	assert.False(t, row.Days[0].SpanStart, "the stay started in May")
	assert.True(t, row.Days[1].SpanEnd)
	assert.False(t, row.Days[2].Occupied)

	t.Run("no rooms flag", func(t *testing.T) {
		grid, err := calSvc.Month(ctx, "someone-else", daterange.NewDate(2030, time.June, 1), "", false)
		require.NoError(t, err)
		assert.True(t, grid.NoRooms)
		assert.Nil(t, grid.Rows)
	})

	t.Run("padded grid", func(t *testing.T) {
		grid, err := calSvc.Month(ctx, testOwner, daterange.NewDate(2030, time.June, 1), "", true)
		require.NoError(t, err)
		require.Len(t, grid.Rows, 1)
		assert.Len(t, grid.Rows[0].Days, 42)
	})
}
