package event

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/campuskit/bytehub/core"
)

// Event types
const (
	TypeIndividual = "individual"
	TypeTeam       = "team"
)

// Lifecycle statuses, shared by events and rounds.
const (
	StatusUpcoming  = "upcoming"
	StatusOngoing   = "ongoing"
	StatusCompleted = "completed"
)

// Round types
const (
	RoundTypeQuiz = "quiz"
	RoundTypeTask = "task"
)

// RegisteredUser is an event-local registration entry with its own point counter.
type RegisteredUser struct {
	UserID      string `json:"user_id" bson:"userId"`
	EventPoints int    `json:"event_points" bson:"eventPoints"`
}

type Event struct {
	ID              string           `json:"id" bson:"_id,omitempty"`
	Name            string           `json:"name" bson:"name"`
	Description     string           `json:"description" bson:"description"`
	Date            time.Time        `json:"date" bson:"date"`
	Time            string           `json:"time" bson:"time"`
	Location        string           `json:"location" bson:"location"`
	Image           core.Image       `json:"image" bson:"image"`
	MaxParticipants int              `json:"max_participants" bson:"maxParticipants"`
	Type            string           `json:"type" bson:"type"`
	ByteCoins       int              `json:"byte_coins" bson:"byteCoins"`
	RoundIDs        []string         `json:"rounds" bson:"rounds"`
	RegisteredUsers []RegisteredUser `json:"registered_users" bson:"registeredUsers"`
	RegisteredTeams []string         `json:"registered_teams" bson:"registeredTeams"`
	Status          string           `json:"status" bson:"status"`
	CreatedAt       time.Time        `json:"created_at" bson:"createdAt"` // UTC
	UpdatedAt       time.Time        `json:"updated_at" bson:"updatedAt"` // UTC
}

func (e *Event) HasRegisteredUser(userID string) bool {
	for _, ru := range e.RegisteredUsers {
		if ru.UserID == userID {
			return true
		}
	}
	return false
}

func (e *Event) HasRegisteredTeam(teamID string) bool {
	for _, id := range e.RegisteredTeams {
		if id == teamID {
			return true
		}
	}
	return false
}

// Member is an identity snapshot kept inside a qualified-team entry.
// Later profile edits do not retroactively update it.
type Member struct {
	Name  string `json:"name" bson:"name"`
	Email string `json:"email" bson:"email"`
}

// QualifiedUser is a round-local qualification entry. Name and email are
// snapshots taken at qualification time.
type QualifiedUser struct {
	UserID      string `json:"user_id" bson:"userId"`
	Name        string `json:"name" bson:"name"`
	Email       string `json:"email" bson:"email"`
	RoundPoints int    `json:"round_points" bson:"roundPoints"`
}

// QualifiedTeam is a round-local qualification entry for team events.
type QualifiedTeam struct {
	TeamID      string   `json:"team_id" bson:"teamId"`
	TeamName    string   `json:"team_name" bson:"teamName"`
	Members     []Member `json:"members" bson:"members"`
	RoundPoints int      `json:"round_points" bson:"roundPoints"`
}

// Round is one elimination stage of an event. Version guards the
// read-modify-write mutations of the qualified lists.
type Round struct {
	ID             string          `json:"id" bson:"_id,omitempty"`
	EventID        string          `json:"event_id" bson:"eventId"`
	RoundNumber    int             `json:"round_number" bson:"roundNumber"`
	RoundName      string          `json:"round_name" bson:"roundName"`
	RoundType      string          `json:"round_type" bson:"roundType"`
	TopX           int             `json:"top_x" bson:"topX"`
	QualifiedUsers []QualifiedUser `json:"qualified_users" bson:"qualifiedUsers"`
	QualifiedTeams []QualifiedTeam `json:"qualified_teams" bson:"qualifiedTeams"`
	Status         string          `json:"status" bson:"status"`
	Version        int64           `json:"-" bson:"version"`
	CreatedAt      time.Time       `json:"created_at" bson:"createdAt"` // UTC
	UpdatedAt      time.Time       `json:"updated_at" bson:"updatedAt"` // UTC
}

func (r *Round) HasQualifiedUser(userID string) bool {
	return r.findQualifiedUser(userID) >= 0
}

func (r *Round) HasQualifiedTeam(teamID string) bool {
	return r.findQualifiedTeam(teamID) >= 0
}

func (r *Round) findQualifiedUser(userID string) int {
	for i, qu := range r.QualifiedUsers {
		if qu.UserID == userID {
			return i
		}
	}
	return -1
}

func (r *Round) findQualifiedTeam(teamID string) int {
	for i, qt := range r.QualifiedTeams {
		if qt.TeamID == teamID {
			return i
		}
	}
	return -1
}

// Overview is the aggregate list item for the event catalog.
type Overview struct {
	ID                      string     `json:"id"`
	Name                    string     `json:"name"`
	Description             string     `json:"description"`
	Date                    time.Time  `json:"date"`
	Time                    string     `json:"time"`
	Location                string     `json:"location"`
	MaxParticipants         int        `json:"max_participants"`
	ByteCoins               int        `json:"byte_coins"`
	Status                  string     `json:"status"`
	Type                    string     `json:"type"`
	Image                   core.Image `json:"image"`
	TotalRegisteredStudents int        `json:"total_registered_students"`
	TotalRounds             int        `json:"total_rounds"`
	CurrentRounds           int        `json:"current_rounds"`
}

// TeamDetail is a populated registered-team entry on the event detail view.
type TeamDetail struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Members []Member `json:"members"`
}

// Detail is the fully populated event view.
type Detail struct {
	Event
	Rounds []Round      `json:"rounds_detail"`
	Teams  []TeamDetail `json:"registered_teams_detail"`
}

// RecentRegistration is one entry of the admin activity feed.
type RecentRegistration struct {
	ID    string `json:"id"`
	User  string `json:"user"`
	Event string `json:"event"`
	Date  string `json:"date"`
}

// ScanResult reports the outcome of an attendance QR scan.
type ScanResult struct {
	Message          string `json:"message"`
	AlreadyQualified bool   `json:"already_qualified"`
}

// Request payloads

// NewEvent contains information needed to create an Event.
type NewEvent struct {
	Name            string `json:"name" form:"name" validate:"required,min=3"`
	Description     string `json:"description" form:"description" validate:"required,min=10"`
	Date            string `json:"date" form:"date" validate:"required,datetime=2006-01-02"`
	Time            string `json:"time" form:"time" validate:"required"`
	Location        string `json:"location" form:"location" validate:"required,min=3"`
	MaxParticipants int    `json:"max_participants" form:"max_participants" validate:"required,min=1"`
	ByteCoins       int    `json:"byte_coins" form:"byte_coins" validate:"min=0"`
	Type            string `json:"type" form:"type" validate:"required,oneof=individual team"`
}

func (ne *NewEvent) Validate(validate *validator.Validate) error {
	ne.Name = core.CleanString(ne.Name)
	ne.Description = core.CleanString(ne.Description)
	ne.Location = core.CleanString(ne.Location)
	return validate.Struct(ne)
}

// NewRound contains information needed to append a Round to an Event.
type NewRound struct {
	EventID     string `json:"event_id" validate:"required,hexid"`
	RoundNumber int    `json:"round_number" validate:"required,min=1"`
	RoundName   string `json:"round_name" validate:"required"`
	RoundType   string `json:"round_type" validate:"required,oneof=quiz task"`
	TopX        int    `json:"top_x" validate:"required,min=1"`
}

func (nr *NewRound) Validate(validate *validator.Validate) error {
	nr.RoundName = core.CleanString(nr.RoundName)
	return validate.Struct(nr)
}

// Registration registers the caller (or their team) for an event.
type Registration struct {
	EventID string `json:"event_id" validate:"required,hexid"`
	TeamID  string `json:"team_id" validate:"omitempty,hexid"`
}

func (r *Registration) Validate(validate *validator.Validate) error {
	return validate.Struct(r)
}

// Manual selection actions
const (
	ActionAccept = "accept"
	ActionReject = "reject"
)

// ManualSelection accepts or rejects a batch of entrants into a target round.
type ManualSelection struct {
	UserIDs     []string `json:"user_ids" validate:"omitempty,dive,hexid"`
	TeamIDs     []string `json:"team_ids" validate:"omitempty,dive,hexid"`
	NextRoundID string   `json:"next_round_id" validate:"required,hexid"`
	Action      string   `json:"action" validate:"required,oneof=accept reject"`
}

func (ms *ManualSelection) Validate(validate *validator.Validate) error {
	return validate.Struct(ms)
}

// FirstRoundSelection bulk-seeds round 1 of an event.
type FirstRoundSelection struct {
	EventID string   `json:"event_id" validate:"required,hexid"`
	UserIDs []string `json:"user_ids" validate:"required,min=1,dive,hexid"`
}

func (fs *FirstRoundSelection) Validate(validate *validator.Validate) error {
	return validate.Struct(fs)
}

// StatusUpdate moves an event through its lifecycle.
type StatusUpdate struct {
	EventID string `json:"event_id" validate:"required,hexid"`
	Status  string `json:"status" validate:"required,oneof=upcoming ongoing completed"`
}

func (su *StatusUpdate) Validate(validate *validator.Validate) error {
	return validate.Struct(su)
}

// ScanRequest carries a scanned QR payload.
type ScanRequest struct {
	QRData string `json:"qr_data" validate:"required"`
}

func (sr *ScanRequest) Validate(validate *validator.Validate) error {
	sr.QRData = core.CleanString(sr.QRData)
	return validate.Struct(sr)
}
