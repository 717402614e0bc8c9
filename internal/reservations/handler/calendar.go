package handler

import (
	"net/http"
	"time"

	"innkeep/internal/reservations/service"
	"innkeep/pkg/daterange"
	apperrors "innkeep/pkg/errors"
	httputil "innkeep/pkg/http"
	"innkeep/pkg/logger"
	"innkeep/pkg/middleware"

	"github.com/julienschmidt/httprouter"
)

type CalendarHandler struct {
	service service.CalendarService
	log     *logger.Logger
}

func NewCalendarHandler(service service.CalendarService, log *logger.Logger) *CalendarHandler {
	return &CalendarHandler{
		service: service,
		log:     log,
	}
}

// Month serves the occupancy grid. The month parameter defaults to the
// current month when absent.
func (h *CalendarHandler) Month(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	monthDay := daterange.Today(time.Now)
	if monthStr := query.Get("month"); monthStr != "" {
		parsed, err := time.Parse("2006-01", monthStr)
		if err != nil {
			httputil.WriteError(w, apperrors.InvalidInput("invalid month parameter, must be YYYY-MM"))
			return
		}
		monthDay = daterange.FromTime(parsed)
	}

	padded := query.Get("padded") == "true"

	grid, err := h.service.Month(r.Context(), middleware.OwnerID(r.Context()), monthDay, query.Get("property_id"), padded)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, grid)
}

func (h *CalendarHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/calendar", h.Month)
}
