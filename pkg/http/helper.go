package http

import (
	"net/http"
	"strconv"

	"innkeep/pkg/daterange"
	apperrors "innkeep/pkg/errors"
)

// ExtractDate reads an optional query parameter in 2006-01-02 form.
// A missing parameter yields a zero Date and no error.
func ExtractDate(r *http.Request, name string) (daterange.Date, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return daterange.Date{}, nil
	}
	d, err := daterange.Parse(s)
	if err != nil {
		return daterange.Date{}, apperrors.InvalidInput("invalid " + name + " parameter, must be YYYY-MM-DD")
	}
	return d, nil
}

// RequireDate reads a mandatory date query parameter.
func RequireDate(r *http.Request, name string) (daterange.Date, error) {
	d, err := ExtractDate(r, name)
	if err != nil {
		return daterange.Date{}, err
	}
	if d.IsZero() {
		return daterange.Date{}, apperrors.InvalidInput(name + " parameter is required")
	}
	return d, nil
}

func ExtractLimitOffset(r *http.Request, maxLimit int) (int, int64, error) {
	query := r.URL.Query()

	limit := 0
	if s := query.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid limit parameter: " + s)
		}
		limit = v
	}

	var offset int64
	if s := query.Get("offset"); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid offset parameter: " + s)
		}
		offset = v
	}

	if limit <= 0 || limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}

	return limit, offset, nil
}
