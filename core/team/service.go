package team

import (
	"context"
	"errors"
	"fmt"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/campuskit/bytehub/core"
	"github.com/campuskit/bytehub/core/user"
)

var (
	// errors
	ErrNotFound      = errors.New("team not found")
	ErrNameTaken     = errors.New("team name already taken")
	ErrAlreadyInTeam = errors.New("you are already part of a team for this event")
	ErrEventNotFound = errors.New("event not found")

	errNotTeamEvent = errors.New("cannot create a team for an individual event")
	errAlreadyHas   = errors.New("user already in the team")
	errTeamFull     = errors.New("team is already full")
)

type (
	Repository interface {
		CreateTeam(ctx context.Context, t Team) (Team, error)
		GetTeamByID(ctx context.Context, id string) (Team, error)
		GetTeamByName(ctx context.Context, name string) (Team, error)
		GetTeamsByID(ctx context.Context, ids []string) ([]Team, error)
		// GetTeamForUser finds the team a user belongs to for the given event.
		GetTeamForUser(ctx context.Context, eventID, userID string) (Team, error)
		// GetTeamByLeader finds the team a user leads for the given event.
		GetTeamByLeader(ctx context.Context, eventID, leaderID string) (Team, error)
		AddTeamMember(ctx context.Context, teamID, userID string) (Team, error)
		QueryAllTeams(ctx context.Context) ([]Team, error)
	}

	// EventInfo is the slice of event state team formation needs.
	EventInfo struct {
		ID              string
		Name            string
		Type            string
		MaxParticipants int
	}

	// EventDirectory is implemented by the event storage layer.
	EventDirectory interface {
		GetEventInfo(ctx context.Context, eventID string) (EventInfo, error)
	}

	Service struct {
		repo    Repository
		users   user.Repository
		events  EventDirectory
		mailSvc core.EmailService
	}
)

const teamEventType = "team"

func NewService(repo Repository, users user.Repository, events EventDirectory, mailSvc core.EmailService) *Service {
	return &Service{repo: repo, users: users, events: events, mailSvc: mailSvc}
}

// Create forms a new team led by leaderID and emails the leader the
// attendance QR code for the team.
func (svc *Service) Create(ctx context.Context, nt NewTeam, leaderID string) (Team, error) {
	if _, err := svc.repo.GetTeamByName(ctx, nt.Name); err == nil {
		return Team{}, core.NewValidationError(ErrNameTaken, core.FieldError{Field: "name", Error: ErrNameTaken.Error()})
	} else if err != ErrNotFound {
		return Team{}, pkgerrors.Wrap(err, "checking team name")
	}

	leader, err := svc.users.GetUserByID(ctx, leaderID)
	if err != nil {
		return Team{}, err
	}

	evt, err := svc.events.GetEventInfo(ctx, nt.EventID)
	if err != nil {
		if err == ErrEventNotFound {
			return Team{}, core.NewNotFoundError(err)
		}
		return Team{}, err
	}
	if evt.Type != teamEventType {
		return Team{}, core.NewValidationError(errNotTeamEvent)
	}

	// a user belongs to at most one team per event
	if _, err = svc.repo.GetTeamForUser(ctx, nt.EventID, leaderID); err == nil {
		return Team{}, core.NewValidationError(ErrAlreadyInTeam)
	} else if err != ErrNotFound {
		return Team{}, pkgerrors.Wrap(err, "checking existing membership")
	}

	now := time.Now().UTC()
	t := Team{
		Name:      nt.Name,
		Leader:    leaderID,
		Members:   []string{leaderID},
		EventID:   nt.EventID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	t, err = svc.repo.CreateTeam(ctx, t)
	if err != nil {
		return Team{}, err
	}

	svc.sendQRCode(t, evt.Name, leader)
	return t, nil
}

func (svc *Service) sendQRCode(t Team, eventName string, leader user.User) {
	png, err := core.QRCodePNG(core.QRData(t.ID, t.EventID))
	if err != nil {
		return // team exists regardless; no compensation on email failure
	}
	msg, err := core.NewRegistrationEmail(leader.Address(), eventName, png)
	if err != nil {
		return
	}
	svc.mailSvc.SendMessages(msg)
}

// AddMember adds a teammate by roll number; only the leader may do this and
// the team is capped by the event's maxParticipants.
func (svc *Service) AddMember(ctx context.Context, am AddMember, leaderID string) (Team, error) {
	t, err := svc.repo.GetTeamByID(ctx, am.TeamID)
	if err != nil {
		return Team{}, err
	}
	if t.Leader != leaderID {
		return Team{}, core.NewForbiddenError(errors.New("only the team leader can add members"))
	}

	member, err := svc.users.GetUserByRollNo(ctx, am.MemberRollNo)
	if err != nil {
		if err == user.ErrNotFound {
			return Team{}, core.NewNotFoundError(errors.New("no student with this roll number"))
		}
		return Team{}, err
	}
	if t.HasMember(member.ID) {
		return Team{}, core.NewValidationError(errAlreadyHas)
	}
	if _, err = svc.repo.GetTeamForUser(ctx, t.EventID, member.ID); err == nil {
		return Team{}, core.NewValidationError(fmt.Errorf("%s is already part of a team for this event", member.Name))
	} else if err != ErrNotFound {
		return Team{}, pkgerrors.Wrap(err, "checking existing membership")
	}

	evt, err := svc.events.GetEventInfo(ctx, t.EventID)
	if err != nil {
		return Team{}, err
	}
	if len(t.Members) >= evt.MaxParticipants {
		return Team{}, core.NewValidationError(errTeamFull)
	}

	return svc.repo.AddTeamMember(ctx, t.ID, member.ID)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Team, error) {
	return svc.repo.GetTeamByID(ctx, id)
}

func (svc *Service) GetByLeader(ctx context.Context, eventID, leaderID string) (Team, error) {
	return svc.repo.GetTeamByLeader(ctx, eventID, leaderID)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Team, error) {
	return svc.repo.QueryAllTeams(ctx)
}
