package models

import (
	"errors"
	"strings"

	"github.com/believe-gautam/travel-planner-api/internal/validator"
)

// DefaultUserID is used when a compare request carries no userId.
const DefaultUserID = "user123"

// CompareRequest is the body of POST /compare-prices. Lat/Long keys are
// capitalized to match the public API contract.
type CompareRequest struct {
	Lat    float64 `json:"Lat"`
	Long   float64 `json:"Long"`
	Type   string  `json:"type"`
	UserID string  `json:"userId,omitempty"`
}

func (r *CompareRequest) Validate() error {
	var errs []string

	t, err := validator.ValidateType(r.Type)
	if err != nil {
		errs = append(errs, err.Error())
	} else {
		r.Type = t // normalized
	}

	if err := validator.ValidateLatitude(r.Lat); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validator.ValidateLongitude(r.Long); err != nil {
		errs = append(errs, err.Error())
	}

	if r.UserID == "" {
		r.UserID = DefaultUserID
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, ", "))
	}
	return nil
}
