package handler

import (
	"encoding/json"
	"net/http"

	"innkeep/internal/reservations/service"
	"innkeep/pkg/daterange"
	apperrors "innkeep/pkg/errors"
	httputil "innkeep/pkg/http"
	"innkeep/pkg/logger"
	"innkeep/pkg/middleware"
	"innkeep/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type ReservationHandler struct {
	service      service.ReservationService
	log          *logger.Logger
	maxListLimit int
}

func NewReservationHandler(service service.ReservationService, log *logger.Logger, maxListLimit int) *ReservationHandler {
	return &ReservationHandler{
		service:      service,
		log:          log,
		maxListLimit: maxListLimit,
	}
}

func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var reservation model.Reservation
	if err := json.NewDecoder(r.Body).Decode(&reservation); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	if err := h.service.Create(r.Context(), middleware.OwnerID(r.Context()), &reservation); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, reservation)
}

func (h *ReservationHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	reservation, err := h.service.GetByID(r.Context(), middleware.OwnerID(r.Context()), ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, reservation)
}

func (h *ReservationHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r, h.maxListLimit)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	startDateFrom, err := httputil.ExtractDate(r, "start_date")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	query := r.URL.Query()
	filter := model.ListFilter{
		PropertyID:     query.Get("property_id"),
		RoomID:         query.Get("room_id"),
		StartDateFrom:  startDateFrom,
		LastnamePrefix: query.Get("lastname"),
	}

	reservations, total, err := h.service.List(r.Context(), middleware.OwnerID(r.Context()), filter, limit, offset)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WritePaginated(w, reservations, total, limit, offset)
}

func (h *ReservationHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var reservation model.Reservation
	if err := json.NewDecoder(r.Body).Decode(&reservation); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	id := ps.ByName("id")
	if err := h.service.Update(r.Context(), middleware.OwnerID(r.Context()), id, &reservation); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, reservation)
}

func (h *ReservationHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), middleware.OwnerID(r.Context()), ps.ByName("id")); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteMessage(w, "Reservation deleted")
}

// AvailabilityResponse is the body of the pre-check read endpoint.
type AvailabilityResponse struct {
	Available      bool     `json:"available"`
	ConflictingIDs []string `json:"conflicting_ids"`
}

// CheckAvailability answers the booking form's "are these dates free"
// question without writing anything.
func (h *ReservationHandler) CheckAvailability(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	startDate, err := httputil.RequireDate(r, "start_date")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	endDate, err := httputil.RequireDate(r, "end_date")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	ids, err := h.service.CheckAvailability(
		r.Context(),
		middleware.OwnerID(r.Context()),
		ps.ByName("id"),
		daterange.NewRange(startDate, endDate),
		r.URL.Query().Get("exclude"),
	)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if ids == nil {
		ids = []string{}
	}
	httputil.WriteSuccess(w, AvailabilityResponse{
		Available:      len(ids) == 0,
		ConflictingIDs: ids,
	})
}

func (h *ReservationHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/reservations", h.Create)
	router.GET("/api/v1/reservations", h.List)
	router.GET("/api/v1/reservations/:id", h.GetByID)
	router.PUT("/api/v1/reservations/:id", h.Update)
	router.DELETE("/api/v1/reservations/:id", h.Delete)
	router.GET("/api/v1/rooms/:id/availability", h.CheckAvailability)
}
