package service

import (
	"context"
	"time"

	"innkeep/internal/calendar"
	propertiesrepo "innkeep/internal/properties/repository"
	"innkeep/internal/reservations/repository"
	"innkeep/pkg/config"
	"innkeep/pkg/daterange"
	apperrors "innkeep/pkg/errors"
	"innkeep/pkg/locale"
	"innkeep/pkg/model"
)

type CalendarService interface {
	Month(ctx context.Context, ownerID string, monthDay daterange.Date, propertyID string, padded bool) (calendar.MonthGrid, error)
}

type calendarService struct {
	store        repository.ReservationStore
	roomRepo     propertiesrepo.RoomStore
	propertyRepo propertiesrepo.PropertyStore
	projector    *calendar.Projector
	cfg          *config.Config
	now          func() time.Time
}

func NewCalendarService(
	store repository.ReservationStore,
	roomRepo propertiesrepo.RoomStore,
	propertyRepo propertiesrepo.PropertyStore,
	cfg *config.Config,
) CalendarService {
	return &calendarService{
		store:        store,
		roomRepo:     roomRepo,
		propertyRepo: propertyRepo,
		projector:    calendar.New(locale.New(cfg.CollationLocale)),
		cfg:          cfg,
		now:          time.Now,
	}
}

func (s *calendarService) Month(ctx context.Context, ownerID string, monthDay daterange.Date, propertyID string, padded bool) (calendar.MonthGrid, error) {
	var rooms []*model.Room
	var err error
	if propertyID != "" {
		rooms, err = s.roomRepo.ListByProperty(ctx, ownerID, propertyID)
	} else {
		rooms, err = s.roomRepo.ListByOwner(ctx, ownerID)
	}
	if err != nil {
		s.cfg.Log.Error("Failed to load rooms for calendar", "owner_id", ownerID, "error", err)
		return calendar.MonthGrid{}, apperrors.Upstream("Failed to load rooms", err)
	}

	properties, err := s.propertyRepo.List(ctx, ownerID)
	if err != nil {
		s.cfg.Log.Error("Failed to load properties for calendar", "owner_id", ownerID, "error", err)
		return calendar.MonthGrid{}, apperrors.Upstream("Failed to load properties", err)
	}

	// The padded grid shows days of the bordering months, so the window
	// the reservations are fetched for has to match what is rendered.
	window := daterange.MonthWindow(monthDay)
	if padded {
		start := daterange.WeekStart(window.Start)
		window = daterange.NewRange(start, start.AddDays(41))
	}

	reservations, err := s.store.FindInWindow(ctx, ownerID, window, propertyID)
	if err != nil {
		s.cfg.Log.Error("Failed to load reservations for calendar", "owner_id", ownerID, "error", err)
		return calendar.MonthGrid{}, apperrors.Upstream("Failed to load reservations", err)
	}

	today := daterange.Today(s.now)
	if padded {
		return s.projector.ProjectMonthPadded(deref(rooms), derefProperties(properties), derefReservations(reservations), monthDay, today), nil
	}
	return s.projector.ProjectMonth(deref(rooms), derefProperties(properties), derefReservations(reservations), monthDay, today), nil
}

func deref(rooms []*model.Room) []model.Room {
	out := make([]model.Room, len(rooms))
	for i, room := range rooms {
		out[i] = *room
	}
	return out
}

func derefProperties(properties []*model.Property) []model.Property {
	out := make([]model.Property, len(properties))
	for i, property := range properties {
		out[i] = *property
	}
	return out
}

func derefReservations(reservations []*model.Reservation) []model.Reservation {
	out := make([]model.Reservation, len(reservations))
	for i, reservation := range reservations {
		out[i] = *reservation
	}
	return out
}
