package echoapi

import (
	"github.com/go-playground/validator/v10"
)

type (
	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
		Role     string `json:"role" validate:"omitempty,oneof=user admin core-team"`
	}

	LoginResponse struct {
		Token string `json:"token"`
	}

	SuccessResponse struct {
		Success string `json:"success"`
	}

	StatsResponse struct {
		TotalUsers      int64 `json:"total_users"`
		OngoingEvents   int64 `json:"ongoing_events"`
		CompletedEvents int64 `json:"completed_events"`
		TotalPoints     int64 `json:"total_points"`
	}

	SelectionResponse struct {
		Admitted int         `json:"admitted"`
		Round    interface{} `json:"round"`
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(lr)
}
