package user

import (
	"net/mail"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/campuskit/bytehub/core"
)

// Roles
const (
	RoleUser     = "user"
	RoleAdmin    = "admin"
	RoleCoreTeam = "core-team"
)

var (
	AdminRoles = []string{RoleAdmin, RoleCoreTeam}
	AllRoles   = []string{RoleUser, RoleAdmin, RoleCoreTeam}
)

// Departments
const (
	DeptCSE   = "CSE"
	DeptCSEAI = "CSE-AI"
)

// Event registration statuses as denormalized onto the user profile.
const (
	EventStatusUpcoming   = "upcoming"
	EventStatusRegistered = "registered"
	EventStatusCompleted  = "completed"
)

// EventSummary is the denormalized event entry kept on a user profile.
// It is a snapshot taken at registration time.
type EventSummary struct {
	EventID string    `json:"event_id" bson:"eventId"`
	Name    string    `json:"name" bson:"name"`
	Date    time.Time `json:"date" bson:"date"`
	Status  string    `json:"status" bson:"status"`
}

type User struct {
	ID               string         `json:"id" bson:"_id,omitempty"`
	Name             string         `json:"name" bson:"name"`
	Email            string         `json:"email" bson:"email"`
	RollNo           int            `json:"roll_no" bson:"rollNo"`
	Phone            string         `json:"phone" bson:"phone"`
	Department       string         `json:"department" bson:"department"`
	Year             int            `json:"year" bson:"year"`
	Group            int            `json:"group" bson:"group"`
	Points           int            `json:"points" bson:"points"`
	RegisteredEvents []EventSummary `json:"registered_events" bson:"registeredEvents"`
	Image            core.Image     `json:"image,omitempty" bson:"image,omitempty"`
	PasswordHash     []byte         `json:"-" bson:"password"`
	CreatedAt        time.Time      `json:"created_at" bson:"createdAt"` // UTC
	UpdatedAt        time.Time      `json:"updated_at" bson:"updatedAt"` // UTC
}

// Address returns the user's email address for mail dispatch.
func (u User) Address() mail.Address {
	return mail.Address{Name: u.Name, Address: u.Email}
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

// Admin is a staff account; Role gates authorization per route.
type Admin struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Name         string    `json:"name" bson:"name"`
	Email        string    `json:"email" bson:"email"`
	Role         string    `json:"role" bson:"role"`
	PasswordHash []byte    `json:"-" bson:"password"`
	CreatedAt    time.Time `json:"created_at" bson:"createdAt"` // UTC
	UpdatedAt    time.Time `json:"updated_at" bson:"updatedAt"` // UTC
}

func (a *Admin) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.PasswordHash = hash
	return nil
}

func (a *Admin) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(a.PasswordHash, []byte(pwd))
}

// NewUser contains information needed to sign up a new User.
type NewUser struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,campus_email"`
	RollNo          int    `json:"roll_no" validate:"required,min=1"`
	Phone           string `json:"phone" validate:"required,min=10,max=13"`
	Department      string `json:"department" validate:"required,oneof=CSE CSE-AI"`
	Year            int    `json:"year" validate:"required,min=1,max=4"`
	Group           int    `json:"group" validate:"required,min=1"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

func (nu *NewUser) Validate(validate *validator.Validate, svc *Service) error {
	nu.Name = core.CleanString(nu.Name)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.Phone = core.CleanString(nu.Phone)

	if err := validate.Struct(nu); err != nil {
		return err
	}
	return svc.checkUniqueness(nu.Email, nu.RollNo)
}

// UpdateProfile defines what a user may change on their own profile.
type UpdateProfile struct {
	Group           *int   `json:"group" validate:"omitempty,min=1"`
	Year            *int   `json:"year" validate:"omitempty,min=1,max=4"`
	CurrentPassword string `json:"current_password" validate:"required_with=NewPassword"`
	NewPassword     string `json:"new_password" validate:"omitempty"`
}

func (up *UpdateProfile) Validate(validate *validator.Validate) error {
	return validate.Struct(up)
}

// NewAdmin contains information needed to register an Admin account.
type NewAdmin struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=admin core-team"`
}

func (na *NewAdmin) Validate(validate *validator.Validate, svc *Service) error {
	na.Name = core.CleanString(na.Name)
	na.Email = core.CleanString(na.Email, true /* lower */)

	if err := validate.Struct(na); err != nil {
		return err
	}
	return svc.checkAdminUniqueness(na.Email)
}
