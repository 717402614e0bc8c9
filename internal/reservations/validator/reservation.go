package validator

import (
	"errors"
	"fmt"
	"strings"

	"innkeep/pkg/daterange"
	"innkeep/pkg/logger"
	"innkeep/pkg/model"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type ReservationValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewReservationValidator(log *logger.Logger) *ReservationValidator {
	v := validator.New()

	if err := v.RegisterValidation("reservation_status", validateStatus); err != nil {
		log.Fatal("Failed to register 'reservation_status' validator",
			"error", err,
		)
	}

	return &ReservationValidator{
		validate: v,
		logger:   log,
	}
}

func validateStatus(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(model.Status)
	if !ok {
		return false
	}
	return s == "" || s.Valid()
}

// Validate checks a complete reservation. The date range check runs
// before anything touches the store: an inverted range is rejected
// here, never as an availability conflict.
func (v *ReservationValidator) Validate(res *model.Reservation) error {
	if err := v.validate.Struct(res); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if !res.Range().Valid() {
		return ValidationErrors{
			ValidationError{
				Field:   "EndDate",
				Message: "end_date must be on or after start_date",
			},
		}
	}

	return nil
}

// ValidateRange checks only the date pair, for read paths that take the
// range as query parameters.
func (v *ReservationValidator) ValidateRange(rng daterange.Range) error {
	if !rng.Valid() {
		return ValidationErrors{
			ValidationError{
				Field:   "EndDate",
				Message: "end_date must be on or after start_date",
			},
		}
	}
	return nil
}

func statusList() string {
	statuses := model.Statuses()
	parts := make([]string, len(statuses))
	for i, s := range statuses {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}

func (v *ReservationValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", err.Field())
		case "gte":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "lte":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "reservation_status":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), statusList())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
