package user

import (
	"context"
	"errors"
	"time"

	"github.com/campuskit/bytehub/core"
)

var (
	// errors
	ErrNotFound     = errors.New("user not found")
	ErrEmailExists  = errors.New("a user with this email already exists")
	ErrRollNoExists = errors.New("a user with this roll number already exists")
	ErrAdminExists  = errors.New("an admin with this email already exists")

	errBadPassword = errors.New("current password is incorrect")
)

type (
	Repository interface {
		CheckUniqueness(ctx context.Context, email string, rollNo int) error
		CreateUser(ctx context.Context, usr User) (User, error)
		GetUserByID(ctx context.Context, id string) (User, error)
		GetUserByEmail(ctx context.Context, email string) (User, error)
		GetUserByRollNo(ctx context.Context, rollNo int) (User, error)
		GetUsersByID(ctx context.Context, ids []string) ([]User, error)
		UpdateUser(ctx context.Context, usr User) (User, error)
		// AddPoints atomically increments the points accumulator of every given user.
		AddPoints(ctx context.Context, ids []string, delta int) error
		AppendRegisteredEvent(ctx context.Context, userID string, summary EventSummary) error
		CountUsers(ctx context.Context) (int64, error)
		TotalPoints(ctx context.Context) (int64, error)
	}

	AdminRepository interface {
		CreateAdmin(ctx context.Context, adm Admin) (Admin, error)
		GetAdminByEmail(ctx context.Context, email string) (Admin, error)
	}

	Service struct {
		repo      Repository
		adminRepo AdminRepository
		conf      *core.Config
	}
)

func NewService(repo Repository, adminRepo AdminRepository, conf *core.Config) *Service {
	return &Service{repo: repo, adminRepo: adminRepo, conf: conf}
}

func (svc *Service) checkUniqueness(email string, rollNo int) error {
	err := svc.repo.CheckUniqueness(context.Background(), email, rollNo)
	switch err {
	case nil:
		return nil
	case ErrEmailExists:
		return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
	case ErrRollNoExists:
		return core.NewValidationError(err, core.FieldError{Field: "roll_no", Error: err.Error()})
	default:
		return err
	}
}

func (svc *Service) checkAdminUniqueness(email string) error {
	if _, err := svc.adminRepo.GetAdminByEmail(context.Background(), email); err == nil {
		return core.NewValidationError(ErrAdminExists, core.FieldError{Field: "email", Error: ErrAdminExists.Error()})
	} else if err != ErrNotFound {
		return err
	}
	return nil
}

func (svc *Service) Register(ctx context.Context, nu NewUser) (User, error) {
	if err := svc.checkUniqueness(nu.Email, nu.RollNo); err != nil {
		return User{}, err
	}

	now := time.Now().UTC()
	usr := User{
		Name:             nu.Name,
		Email:            nu.Email,
		RollNo:           nu.RollNo,
		Phone:            nu.Phone,
		Department:       nu.Department,
		Year:             nu.Year,
		Group:            nu.Group,
		RegisteredEvents: []EventSummary{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, err
	}
	return svc.repo.CreateUser(ctx, usr)
}

func (svc *Service) RegisterAdmin(ctx context.Context, na NewAdmin) (Admin, error) {
	if err := svc.checkAdminUniqueness(na.Email); err != nil {
		return Admin{}, err
	}

	now := time.Now().UTC()
	adm := Admin{
		Name:      na.Name,
		Email:     na.Email,
		Role:      na.Role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := adm.SetPassword(na.Password); err != nil {
		return Admin{}, err
	}
	return svc.adminRepo.CreateAdmin(ctx, adm)
}

func (svc *Service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
}

func (svc *Service) GetByRollNo(ctx context.Context, rollNo int) (User, error) {
	return svc.repo.GetUserByRollNo(ctx, rollNo)
}

func (svc *Service) GetManyByID(ctx context.Context, ids []string) ([]User, error) {
	return svc.repo.GetUsersByID(ctx, ids)
}

// AuthenticateUser checks a student's credentials.
func (svc *Service) AuthenticateUser(ctx context.Context, email, pwd string) (User, error) {
	usr, err := svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
	if err != nil {
		return User{}, err
	}
	if err = usr.CheckPassword(pwd); err != nil {
		return User{}, err
	}
	return usr, nil
}

// AuthenticateAdmin checks a staff account's credentials; the account's stored
// role must match the requested one.
func (svc *Service) AuthenticateAdmin(ctx context.Context, email, pwd, role string) (Admin, error) {
	adm, err := svc.adminRepo.GetAdminByEmail(ctx, core.CleanString(email, true /* lower */))
	if err != nil {
		return Admin{}, err
	}
	if adm.Role != role {
		return Admin{}, ErrNotFound
	}
	if err = adm.CheckPassword(pwd); err != nil {
		return Admin{}, err
	}
	return adm, nil
}

// Update applies a profile update; a password change requires the current password.
func (svc *Service) Update(ctx context.Context, id string, up UpdateProfile, image core.Image) (User, error) {
	usr, err := svc.repo.GetUserByID(ctx, id)
	if err != nil {
		return User{}, err
	}

	if up.Group != nil {
		usr.Group = *up.Group
	}
	if up.Year != nil {
		usr.Year = *up.Year
	}
	if !image.IsZero() {
		usr.Image = image
	}
	if up.NewPassword != "" {
		if err = usr.CheckPassword(up.CurrentPassword); err != nil {
			return User{}, core.NewValidationError(errBadPassword, core.FieldError{Field: "current_password", Error: errBadPassword.Error()})
		}
		if err = usr.SetPassword(up.NewPassword); err != nil {
			return User{}, err
		}
	}
	usr.UpdatedAt = time.Now().UTC()

	return svc.repo.UpdateUser(ctx, usr)
}

// AwardPoints adds byte coins to every given user.
func (svc *Service) AwardPoints(ctx context.Context, ids []string, delta int) error {
	if len(ids) == 0 || delta == 0 {
		return nil
	}
	return svc.repo.AddPoints(ctx, ids, delta)
}

func (svc *Service) Count(ctx context.Context) (int64, error) {
	return svc.repo.CountUsers(ctx)
}

func (svc *Service) TotalPoints(ctx context.Context) (int64, error) {
	return svc.repo.TotalPoints(ctx)
}
