package team

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/campuskit/bytehub/core"
)

// Team binds a leader and members to exactly one event. The member list
// includes the leader.
type Team struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	Name      string    `json:"name" bson:"name"`
	Leader    string    `json:"leader" bson:"leader"`
	Members   []string  `json:"members" bson:"members"`
	EventID   string    `json:"event_id" bson:"event"`
	CreatedAt time.Time `json:"created_at" bson:"createdAt"` // UTC
	UpdatedAt time.Time `json:"updated_at" bson:"updatedAt"` // UTC
}

func (t *Team) HasMember(userID string) bool {
	for _, id := range t.Members {
		if id == userID {
			return true
		}
	}
	return false
}

// NewTeam contains information needed to create a Team.
type NewTeam struct {
	Name    string `json:"name" validate:"required,min=3"`
	EventID string `json:"event_id" validate:"required,hexid"`
}

func (nt *NewTeam) Validate(validate *validator.Validate) error {
	nt.Name = core.CleanString(nt.Name)
	return validate.Struct(nt)
}

// AddMember identifies the teammate to add by roll number.
type AddMember struct {
	TeamID       string `json:"team_id" validate:"required,hexid"`
	MemberRollNo int    `json:"member_roll_no" validate:"required,min=1"`
}

func (am *AddMember) Validate(validate *validator.Validate) error {
	return validate.Struct(am)
}
