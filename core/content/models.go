package content

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/campuskit/bytehub/core"
)

type (
	// ClubHead is a public profile shown on the club page.
	ClubHead struct {
		ID          string     `json:"id" bson:"_id,omitempty"`
		Name        string     `json:"name" bson:"name"`
		Designation string     `json:"designation" bson:"designation"`
		Bio         string     `json:"bio" bson:"bio"`
		Image       core.Image `json:"image" bson:"image"`
		CreatedAt   time.Time  `json:"created_at" bson:"createdAt"`
	}

	// GalleryEntry is a set of photos from a past event.
	GalleryEntry struct {
		ID        string       `json:"id" bson:"_id,omitempty"`
		EventName string       `json:"event_name" bson:"eventName"`
		EventDate string       `json:"event_date" bson:"eventDate"`
		EventType string       `json:"event_type" bson:"eventType"`
		Images    []core.Image `json:"images" bson:"images"`
		CreatedAt time.Time    `json:"created_at" bson:"createdAt"`
	}

	// Leaderboard tracks per-semester standings. It is written by the quiz
	// scorer; read endpoints are not exposed.
	Leaderboard struct {
		ID       string `json:"id" bson:"_id,omitempty"`
		UserID   string `json:"user_id" bson:"userId"`
		Semester string `json:"semester" bson:"semester"`
		Points   int    `json:"points" bson:"points"`
	}
)

type (
	NewClubHead struct {
		Name        string `form:"name" validate:"required"`
		Designation string `form:"designation" validate:"required"`
		Bio         string `form:"bio"`
	}

	NewGalleryEntry struct {
		EventName string `form:"event_name" validate:"required"`
		EventDate string `form:"event_date" validate:"required,datetime=2006-01-02"`
		EventType string `form:"event_type" validate:"required"`
	}
)

func (nch *NewClubHead) Validate(validate *validator.Validate) error {
	return validate.Struct(nch)
}

func (nge *NewGalleryEntry) Validate(validate *validator.Validate) error {
	return validate.Struct(nge)
}
