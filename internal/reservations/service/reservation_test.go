package service

import (
	"context"
	"sync"
	"testing"
	"time"

	propertiesrepo "innkeep/internal/properties/repository"
	"innkeep/internal/reservations/repository"
	"innkeep/internal/reservations/validator"
	"innkeep/pkg/config"
	"innkeep/pkg/daterange"
	apperrors "innkeep/pkg/errors"
	"innkeep/pkg/events"
	"innkeep/pkg/logger"
	"innkeep/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testOwner = "owner-1"

type fixture struct {
	svc        ReservationService
	store      *repository.MemoryStore
	locker     repository.RoomLocker
	propertyID string
	roomID     string
	otherRoom  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	cfg := &config.Config{
		Log:          logger.Discard(),
		MaxListLimit: 200,
	}

	propertyStore := propertiesrepo.NewMemoryPropertyStore()
	roomStore := propertiesrepo.NewMemoryRoomStore()

	property := &model.Property{OwnerID: testOwner, Name: "Seaside"}
	require.NoError(t, propertyStore.Insert(ctx, property))

	room := &model.Room{OwnerID: testOwner, PropertyID: property.ID, Name: "Suite"}
	require.NoError(t, roomStore.Insert(ctx, room))

	other := &model.Room{OwnerID: testOwner, PropertyID: property.ID, Name: "Attic"}
	require.NoError(t, roomStore.Insert(ctx, other))

	store := repository.NewMemoryStore()
	locker := repository.NewMemoryRoomLocker()
	svc := NewReservationService(
		store,
		locker,
		roomStore,
		propertyStore,
		validator.NewReservationValidator(cfg.Log),
		events.NopPublisher{},
		cfg,
	)

	return &fixture{
		svc:        svc,
		store:      store,
		locker:     locker,
		propertyID: property.ID,
		roomID:     room.ID,
		otherRoom:  other.ID,
	}
}

func (f *fixture) reservation(start, end daterange.Date) *model.Reservation {
	return &model.Reservation{
		PropertyID: f.propertyID,
		RoomID:     f.roomID,
		Name:       "Ada",
		Lastname:   "Lovelace",
		StartDate:  start,
		EndDate:    end,
	}
}

func date(d int) daterange.Date {
	return daterange.NewDate(2030, time.June, d)
}

func TestCreateAppliesDefaultsAndSanitizes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	phone := "  +1 650-253-0000  "
	mail := " guest@EXAMPLE.COM "
	res := f.reservation(date(10), date(12))
	res.Name = "  Ada   Byron "
	res.Phone = &phone
	res.Mail = &mail

	require.NoError(t, f.svc.Create(ctx, testOwner, res))
	require.NotEmpty(t, res.ID)

	stored, err := f.svc.GetByID(ctx, testOwner, res.ID)
	require.NoError(t, err)

	assert.Equal(t, model.StatusPreliminary, stored.Status)
	assert.Equal(t, "Ada Byron", stored.Name)
	require.NotNil(t, stored.Phone)
	assert.Equal(t, "+16502530000", *stored.Phone)
	require.NotNil(t, stored.Mail)
	assert.Equal(t, "guest@example.com", *stored.Mail)
	require.NotNil(t, stored.Room)
	assert.Equal(t, "Suite", stored.Room.Name)
	require.NotNil(t, stored.Property)
	assert.Equal(t, "Seaside", stored.Property.Name)
	require.NotNil(t, stored.Display)
	assert.Equal(t, "#C36F2B", stored.Display.Color)
	assert.False(t, stored.Past)
}

func TestCreateOverlapScenarios(t *testing.T) {
	tests := []struct {
		name         string
		start, end   int
		wantConflict bool
	}{
		{name: "identical range", start: 10, end: 12, wantConflict: true},
		{name: "contained inside", start: 11, end: 11, wantConflict: true},
		{name: "containing the existing", start: 8, end: 14, wantConflict: true},
		{name: "overlapping the tail", start: 12, end: 14, wantConflict: true},
		{name: "overlapping the head", start: 8, end: 10, wantConflict: true},
		{name: "touching at existing end", start: 12, end: 13, wantConflict: true},
		{name: "touching at existing start", start: 9, end: 10, wantConflict: true},
		{name: "day after", start: 13, end: 15, wantConflict: false},
		{name: "day before", start: 8, end: 9, wantConflict: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()

			existing := f.reservation(date(10), date(12))
			require.NoError(t, f.svc.Create(ctx, testOwner, existing))

			err := f.svc.Create(ctx, testOwner, f.reservation(date(tt.start), date(tt.end)))
			if !tt.wantConflict {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			appErr := apperrors.AsAppError(err)
			assert.Equal(t, apperrors.CodeConflict, appErr.Code)
			assert.Equal(t, []string{existing.ID}, appErr.Details["conflicting_ids"])
		})
	}
}

func TestCreateSameDatesDifferentRooms(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Create(ctx, testOwner, f.reservation(date(10), date(12))))

	second := f.reservation(date(10), date(12))
	second.RoomID = f.otherRoom
	assert.NoError(t, f.svc.Create(ctx, testOwner, second))
}

func TestCreateRejectsInvertedRangeBeforeStore(t *testing.T) {
	f := newFixture(t)

	err := f.svc.Create(context.Background(), testOwner, f.reservation(date(12), date(10)))
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeValidation, apperrors.AsAppError(err).Code)
}

func TestCreateRoomOwnershipAndPropertyMatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("foreign owner sees not found", func(t *testing.T) {
		res := f.reservation(date(10), date(12))
		err := f.svc.Create(ctx, "someone-else", res)
		require.Error(t, err)
		assert.Equal(t, apperrors.CodeNotFound, apperrors.AsAppError(err).Code)
	})

	t.Run("room under a different property", func(t *testing.T) {
		propertyStore := propertiesrepo.NewMemoryPropertyStore()
		otherProperty := &model.Property{OwnerID: testOwner, Name: "Alpine"}
		require.NoError(t, propertyStore.Insert(ctx, otherProperty))

		res := f.reservation(date(10), date(12))
		res.PropertyID = otherProperty.ID
		err := f.svc.Create(ctx, testOwner, res)
		require.Error(t, err)
		assert.Equal(t, apperrors.CodeInvalidInput, apperrors.AsAppError(err).Code)
	})
}

func TestUpdateExcludesItselfFromConflictCheck(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res := f.reservation(date(10), date(12))
	require.NoError(t, f.svc.Create(ctx, testOwner, res))

	// Shifting a stay by one day overlaps its own old dates; that must
	// not count as a conflict.
	moved := f.reservation(date(11), date(13))
	require.NoError(t, f.svc.Update(ctx, testOwner, res.ID, moved))

	stored, err := f.svc.GetByID(ctx, testOwner, res.ID)
	require.NoError(t, err)
	assert.True(t, stored.StartDate.Equal(date(11)))
	assert.True(t, stored.EndDate.Equal(date(13)))
}

func TestUpdateConflictsWithOtherReservation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.reservation(date(10), date(12))
	require.NoError(t, f.svc.Create(ctx, testOwner, first))
	second := f.reservation(date(14), date(16))
	require.NoError(t, f.svc.Create(ctx, testOwner, second))

	moved := f.reservation(date(12), date(14))
	err := f.svc.Update(ctx, testOwner, second.ID, moved)
	require.Error(t, err)
	appErr := apperrors.AsAppError(err)
	assert.Equal(t, apperrors.CodeConflict, appErr.Code)
	assert.Equal(t, []string{first.ID}, appErr.Details["conflicting_ids"])
}

func TestUpdateKeepsStatusWhenOmitted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res := f.reservation(date(10), date(12))
	res.Status = model.StatusConfirmed
	require.NoError(t, f.svc.Create(ctx, testOwner, res))

	update := f.reservation(date(10), date(12))
	require.NoError(t, f.svc.Update(ctx, testOwner, res.ID, update))

	stored, err := f.svc.GetByID(ctx, testOwner, res.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, stored.Status)
}

func TestDeleteTwiceReturnsNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res := f.reservation(date(10), date(12))
	require.NoError(t, f.svc.Create(ctx, testOwner, res))

	require.NoError(t, f.svc.Delete(ctx, testOwner, res.ID))

	err := f.svc.Delete(ctx, testOwner, res.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.AsAppError(err).Code)
}

func TestListFiltersAndOrdering(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	late := f.reservation(date(20), date(22))
	late.Lastname = "Hopper"
	require.NoError(t, f.svc.Create(ctx, testOwner, late))

	early := f.reservation(date(5), date(7))
	early.Lastname = "hoPPer"
	require.NoError(t, f.svc.Create(ctx, testOwner, early))

	other := f.reservation(date(10), date(12))
	other.Lastname = "Lovelace"
	require.NoError(t, f.svc.Create(ctx, testOwner, other))

	t.Run("sorted by start date ascending", func(t *testing.T) {
		all, total, err := f.svc.List(ctx, testOwner, model.ListFilter{}, 100, 0)
		require.NoError(t, err)
		assert.EqualValues(t, 3, total)
		require.Len(t, all, 3)
		assert.Equal(t, early.ID, all[0].ID)
		assert.Equal(t, other.ID, all[1].ID)
		assert.Equal(t, late.ID, all[2].ID)
	})

	t.Run("case-insensitive lastname prefix", func(t *testing.T) {
		found, total, err := f.svc.List(ctx, testOwner, model.ListFilter{LastnamePrefix: "hop"}, 100, 0)
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
		require.Len(t, found, 2)
	})

	t.Run("start date lower bound", func(t *testing.T) {
		found, _, err := f.svc.List(ctx, testOwner, model.ListFilter{StartDateFrom: date(10)}, 100, 0)
		require.NoError(t, err)
		require.Len(t, found, 2)
		assert.Equal(t, other.ID, found[0].ID)
	})

	t.Run("foreign owner sees nothing", func(t *testing.T) {
		found, total, err := f.svc.List(ctx, "someone-else", model.ListFilter{}, 100, 0)
		require.NoError(t, err)
		assert.EqualValues(t, 0, total)
		assert.Empty(t, found)
	})
}

func TestCheckAvailability(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	existing := f.reservation(date(10), date(12))
	require.NoError(t, f.svc.Create(ctx, testOwner, existing))

	t.Run("free range", func(t *testing.T) {
		ids, err := f.svc.CheckAvailability(ctx, testOwner, f.roomID, daterange.NewRange(date(14), date(16)), "")
		require.NoError(t, err)
		assert.Empty(t, ids)
	})

	t.Run("occupied range reports ids", func(t *testing.T) {
		ids, err := f.svc.CheckAvailability(ctx, testOwner, f.roomID, daterange.NewRange(date(12), date(14)), "")
		require.NoError(t, err)
		assert.Equal(t, []string{existing.ID}, ids)
	})

	t.Run("excluding the reservation itself", func(t *testing.T) {
		ids, err := f.svc.CheckAvailability(ctx, testOwner, f.roomID, daterange.NewRange(date(12), date(14)), existing.ID)
		require.NoError(t, err)
		assert.Empty(t, ids)
	})

	t.Run("malformed exclude id", func(t *testing.T) {
		_, err := f.svc.CheckAvailability(ctx, testOwner, f.roomID, daterange.NewRange(date(12), date(14)), "not-a-hex-id")
		require.Error(t, err)
		assert.Equal(t, apperrors.CodeInvalidInput, apperrors.AsAppError(err).Code)
	})

	t.Run("inverted range fails fast", func(t *testing.T) {
		_, err := f.svc.CheckAvailability(ctx, testOwner, f.roomID, daterange.NewRange(date(14), date(12)), "")
		require.Error(t, err)
		assert.Equal(t, apperrors.CodeInvalidInput, apperrors.AsAppError(err).Code)
	})
}

func TestConcurrentCreatesExactlyOneSucceeds(t *testing.T) {
	f := newFixture(t)

	const writers = 8
	var wg sync.WaitGroup
	errs := make([]error, writers)

	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func(i int) {
			defer wg.Done()
			errs[i] = f.svc.Create(context.Background(), testOwner, f.reservation(date(10), date(12)))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.Equal(t, apperrors.CodeConflict, apperrors.AsAppError(err).Code)
	}
	assert.Equal(t, 1, succeeded, "exactly one concurrent create must win")

	all, _, err := f.svc.List(context.Background(), testOwner, model.ListFilter{}, 100, 0)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCreateCancelledContextWritesNothing(t *testing.T) {
	t.Run("cancelled before any store call", func(t *testing.T) {
		f := newFixture(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := f.svc.Create(ctx, testOwner, f.reservation(date(10), date(12)))
		require.Error(t, err)

		count, err := f.store.Count(context.Background(), testOwner, model.ListFilter{})
		require.NoError(t, err)
		assert.EqualValues(t, 0, count)
	})

	t.Run("cancelled while waiting for the room lock", func(t *testing.T) {
		f := newFixture(t)

		lockID, err := f.locker.Acquire(context.Background(), testOwner, f.roomID)
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			done <- f.svc.Create(ctx, testOwner, f.reservation(date(10), date(12)))
		}()
		cancel()

		err = <-done
		require.Error(t, err)
		assert.Equal(t, apperrors.CodeUpstream, apperrors.AsAppError(err).Code)

		require.NoError(t, f.locker.Release(context.Background(), lockID))

		count, err := f.store.Count(context.Background(), testOwner, model.ListFilter{})
		require.NoError(t, err)
		assert.EqualValues(t, 0, count)
	})
}
