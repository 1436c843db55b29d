package event

import (
	"context"
	"errors"
	"sort"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/campuskit/bytehub/core"
	"github.com/campuskit/bytehub/core/team"
	"github.com/campuskit/bytehub/core/user"
)

var (
	// errors
	ErrNotFound         = errors.New("event not found")
	ErrRoundNotFound    = errors.New("round not found")
	ErrNoFirstRound     = errors.New("first round not created for this event")
	ErrVersionConflict  = errors.New("round was modified concurrently")
	ErrRoundNumberTaken = errors.New("a round with this number already exists for this event")

	errAlreadyRegistered     = errors.New("you are already registered for this event")
	errTeamAlreadyRegistered = errors.New("team already registered for this event")
	errTeamRequired          = errors.New("this is a team event; create or join a team to participate")
	errTeamWrongEvent        = errors.New("team does not belong to this event")
)

// Point awards
const (
	firstRoundAward   = 10
	manualAcceptAward = 20
)

// casRetries bounds optimistic-concurrency retry loops on round mutations.
const casRetries = 3

type (
	Repository interface {
		CreateEvent(ctx context.Context, evt Event) (Event, error)
		GetEventByID(ctx context.Context, id string) (Event, error)
		// GetEventByRoundID finds the event whose rounds list contains roundID.
		GetEventByRoundID(ctx context.Context, roundID string) (Event, error)
		QueryAllEvents(ctx context.Context) ([]Event, error)
		AppendRound(ctx context.Context, eventID, roundID string) error
		// SaveRegistrations persists the registeredUsers/registeredTeams lists.
		SaveRegistrations(ctx context.Context, evt Event) (Event, error)
		UpdateEventStatus(ctx context.Context, eventID, status string) (Event, error)
		// QueryEventsWithRegistrations returns up to limit events having at
		// least one registration, most recent event date first.
		QueryEventsWithRegistrations(ctx context.Context, limit int64) ([]Event, error)
		CountEventsByStatus(ctx context.Context, status string) (int64, error)
	}

	RoundRepository interface {
		CreateRound(ctx context.Context, rnd Round) (Round, error)
		GetRoundByID(ctx context.Context, id string) (Round, error)
		GetRoundByNumber(ctx context.Context, eventID string, number int) (Round, error)
		GetEventRounds(ctx context.Context, eventID string) ([]Round, error)
		// UpdateRoundQualifiers persists the qualified lists under a version
		// check; ErrVersionConflict is returned when the stored version moved.
		UpdateRoundQualifiers(ctx context.Context, rnd Round) (Round, error)
		UpdateRoundStatus(ctx context.Context, roundID, status string) (Round, error)
	}

	Service struct {
		repo    Repository
		rounds  RoundRepository
		users   user.Repository
		teams   team.Repository
		mailSvc core.EmailService
	}
)

func NewService(repo Repository, rounds RoundRepository, users user.Repository, teams team.Repository, mailSvc core.EmailService) *Service {
	return &Service{repo: repo, rounds: rounds, users: users, teams: teams, mailSvc: mailSvc}
}

func (svc *Service) Create(ctx context.Context, ne NewEvent, image core.Image) (Event, error) {
	date, err := time.Parse("2006-01-02", ne.Date)
	if err != nil {
		return Event{}, core.NewValidationError(err, core.FieldError{Field: "date", Error: "must be a valid date in YYYY-MM-DD format"})
	}

	now := time.Now().UTC()
	evt := Event{
		Name:            ne.Name,
		Description:     ne.Description,
		Date:            date,
		Time:            ne.Time,
		Location:        ne.Location,
		Image:           image,
		MaxParticipants: ne.MaxParticipants,
		Type:            ne.Type,
		ByteCoins:       ne.ByteCoins,
		RoundIDs:        []string{},
		RegisteredUsers: []RegisteredUser{},
		RegisteredTeams: []string{},
		Status:          StatusUpcoming,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	return svc.repo.CreateEvent(ctx, evt)
}

// AddRound appends an elimination stage; round numbers are unique per event.
func (svc *Service) AddRound(ctx context.Context, nr NewRound) (Round, error) {
	if _, err := svc.repo.GetEventByID(ctx, nr.EventID); err != nil {
		return Round{}, err
	}
	if _, err := svc.rounds.GetRoundByNumber(ctx, nr.EventID, nr.RoundNumber); err == nil {
		return Round{}, core.NewValidationError(ErrRoundNumberTaken, core.FieldError{Field: "round_number", Error: ErrRoundNumberTaken.Error()})
	} else if err != ErrRoundNotFound {
		return Round{}, pkgerrors.Wrap(err, "checking round number")
	}

	now := time.Now().UTC()
	rnd := Round{
		EventID:        nr.EventID,
		RoundNumber:    nr.RoundNumber,
		RoundName:      nr.RoundName,
		RoundType:      nr.RoundType,
		TopX:           nr.TopX,
		QualifiedUsers: []QualifiedUser{},
		QualifiedTeams: []QualifiedTeam{},
		Status:         StatusUpcoming,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	rnd, err := svc.rounds.CreateRound(ctx, rnd)
	if err != nil {
		return Round{}, err
	}
	if err = svc.repo.AppendRound(ctx, nr.EventID, rnd.ID); err != nil {
		return Round{}, pkgerrors.Wrap(err, "linking round to event")
	}
	return rnd, nil
}

// QueryAll lists the catalog with aggregate registration/round counts.
func (svc *Service) QueryAll(ctx context.Context) ([]Overview, error) {
	events, err := svc.repo.QueryAllEvents(ctx)
	if err != nil {
		return nil, err
	}

	overviews := make([]Overview, 0, len(events))
	for _, evt := range events {
		rounds, err := svc.rounds.GetEventRounds(ctx, evt.ID)
		if err != nil {
			return nil, pkgerrors.Wrapf(err, "loading rounds for event %s", evt.ID)
		}
		var ongoing int
		for _, rnd := range rounds {
			if rnd.Status == StatusOngoing {
				ongoing++
			}
		}
		overviews = append(overviews, Overview{
			ID:                      evt.ID,
			Name:                    evt.Name,
			Description:             evt.Description,
			Date:                    evt.Date,
			Time:                    evt.Time,
			Location:                evt.Location,
			MaxParticipants:         evt.MaxParticipants,
			ByteCoins:               evt.ByteCoins,
			Status:                  evt.Status,
			Type:                    evt.Type,
			Image:                   evt.Image,
			TotalRegisteredStudents: len(evt.RegisteredUsers),
			TotalRounds:             len(evt.RoundIDs),
			CurrentRounds:           ongoing,
		})
	}
	return overviews, nil
}

// GetDetail returns an event with its rounds and registered teams populated.
func (svc *Service) GetDetail(ctx context.Context, eventID string) (Detail, error) {
	evt, err := svc.repo.GetEventByID(ctx, eventID)
	if err != nil {
		return Detail{}, err
	}

	rounds, err := svc.rounds.GetEventRounds(ctx, eventID)
	if err != nil {
		return Detail{}, pkgerrors.Wrap(err, "loading rounds")
	}
	sort.Slice(rounds, func(i, j int) bool { return rounds[i].RoundNumber < rounds[j].RoundNumber })

	teams := make([]TeamDetail, 0, len(evt.RegisteredTeams))
	if len(evt.RegisteredTeams) > 0 {
		regTeams, err := svc.teams.GetTeamsByID(ctx, evt.RegisteredTeams)
		if err != nil {
			return Detail{}, pkgerrors.Wrap(err, "loading registered teams")
		}
		for _, t := range regTeams {
			members, err := svc.memberSnapshots(ctx, t.Members)
			if err != nil {
				return Detail{}, err
			}
			teams = append(teams, TeamDetail{ID: t.ID, Name: t.Name, Members: members})
		}
	}

	return Detail{Event: evt, Rounds: rounds, Teams: teams}, nil
}

// Register signs the caller (individual events) or their team (team events)
// up for the event. Individual registrations get the attendance QR emailed.
func (svc *Service) Register(ctx context.Context, reg Registration, userID string) (Event, error) {
	evt, err := svc.repo.GetEventByID(ctx, reg.EventID)
	if err != nil {
		return Event{}, err
	}

	switch evt.Type {
	case TypeTeam:
		return svc.registerTeam(ctx, evt, reg.TeamID)
	case TypeIndividual:
		return svc.registerUser(ctx, evt, userID)
	default:
		return Event{}, core.NewValidationError(errors.New("invalid event type"))
	}
}

func (svc *Service) registerUser(ctx context.Context, evt Event, userID string) (Event, error) {
	if evt.HasRegisteredUser(userID) {
		return Event{}, core.NewValidationError(errAlreadyRegistered)
	}

	usr, err := svc.users.GetUserByID(ctx, userID)
	if err != nil {
		return Event{}, err
	}

	evt.RegisteredUsers = append(evt.RegisteredUsers, RegisteredUser{UserID: userID})
	evt, err = svc.repo.SaveRegistrations(ctx, evt)
	if err != nil {
		return Event{}, err
	}

	if err = svc.appendEventSummary(ctx, userID, evt); err != nil {
		return Event{}, err
	}

	svc.sendQRCode(evt, usr)
	return evt, nil
}

func (svc *Service) registerTeam(ctx context.Context, evt Event, teamID string) (Event, error) {
	if teamID == "" {
		return Event{}, core.NewValidationError(errTeamRequired)
	}

	t, err := svc.teams.GetTeamByID(ctx, teamID)
	if err != nil {
		return Event{}, err
	}
	if t.EventID != evt.ID {
		return Event{}, core.NewValidationError(errTeamWrongEvent)
	}
	if evt.HasRegisteredTeam(teamID) {
		return Event{}, core.NewValidationError(errTeamAlreadyRegistered)
	}

	evt.RegisteredTeams = append(evt.RegisteredTeams, teamID)
	for _, memberID := range t.Members {
		if !evt.HasRegisteredUser(memberID) {
			evt.RegisteredUsers = append(evt.RegisteredUsers, RegisteredUser{UserID: memberID})
		}
	}
	evt, err = svc.repo.SaveRegistrations(ctx, evt)
	if err != nil {
		return Event{}, err
	}

	for _, memberID := range t.Members {
		if err = svc.appendEventSummary(ctx, memberID, evt); err != nil {
			return Event{}, err
		}
	}
	// the team QR code was emailed at team creation
	return evt, nil
}

func (svc *Service) appendEventSummary(ctx context.Context, userID string, evt Event) error {
	summary := user.EventSummary{
		EventID: evt.ID,
		Name:    evt.Name,
		Date:    evt.Date,
		Status:  user.EventStatusRegistered,
	}
	return pkgerrors.Wrap(svc.users.AppendRegisteredEvent(ctx, userID, summary), "recording registration on profile")
}

func (svc *Service) sendQRCode(evt Event, usr user.User) {
	png, err := core.QRCodePNG(core.QRData(usr.ID, evt.ID))
	if err != nil {
		return // registration stands; no compensation on email failure
	}
	msg, err := core.NewRegistrationEmail(usr.Address(), evt.Name, png)
	if err != nil {
		return
	}
	svc.mailSvc.SendMessages(msg)
}

// ManualSelect accepts or rejects a batch of entrants into a target round.
// Accepted entries are capped at the round's remaining topX slots; the
// returned count reports how many were actually admitted.
func (svc *Service) ManualSelect(ctx context.Context, ms ManualSelection) (Round, int, error) {
	rnd, err := svc.rounds.GetRoundByID(ctx, ms.NextRoundID)
	if err != nil {
		return Round{}, 0, err
	}
	evt, err := svc.repo.GetEventByID(ctx, rnd.EventID)
	if err != nil {
		return Round{}, 0, err
	}

	if ms.Action == ActionReject {
		rnd, err = svc.rejectEntrants(ctx, rnd.ID, ms.UserIDs, ms.TeamIDs)
		return rnd, 0, err
	}

	if evt.Type == TypeTeam {
		return svc.acceptTeams(ctx, rnd.ID, ms.TeamIDs)
	}
	return svc.acceptUsers(ctx, rnd.ID, ms.UserIDs)
}

func (svc *Service) acceptUsers(ctx context.Context, roundID string, userIDs []string) (Round, int, error) {
	var admitted []string

	rnd, err := svc.updateRound(ctx, roundID, func(rnd *Round) error {
		slots := rnd.TopX - len(rnd.QualifiedUsers)
		if slots < 0 {
			slots = 0
		}
		ids := userIDs
		if len(ids) > slots {
			ids = ids[:slots] // silently truncate overflow
		}

		users, err := svc.users.GetUsersByID(ctx, ids)
		if err != nil {
			return err
		}

		admitted = admitted[:0]
		for _, usr := range users {
			if i := rnd.findQualifiedUser(usr.ID); i >= 0 {
				rnd.QualifiedUsers = append(rnd.QualifiedUsers[:i], rnd.QualifiedUsers[i+1:]...)
			}
			rnd.QualifiedUsers = append(rnd.QualifiedUsers, QualifiedUser{
				UserID: usr.ID,
				Name:   usr.Name,
				Email:  usr.Email,
			})
			admitted = append(admitted, usr.ID)
		}
		return nil
	})
	if err != nil {
		return Round{}, 0, err
	}

	if err = svc.users.AddPoints(ctx, admitted, manualAcceptAward); err != nil {
		return Round{}, 0, pkgerrors.Wrap(err, "awarding points")
	}
	return rnd, len(admitted), nil
}

func (svc *Service) acceptTeams(ctx context.Context, roundID string, teamIDs []string) (Round, int, error) {
	var admitted int
	var memberIDs []string

	rnd, err := svc.updateRound(ctx, roundID, func(rnd *Round) error {
		slots := rnd.TopX - len(rnd.QualifiedTeams)
		if slots < 0 {
			slots = 0
		}
		ids := teamIDs
		if len(ids) > slots {
			ids = ids[:slots] // silently truncate overflow
		}

		teams, err := svc.teams.GetTeamsByID(ctx, ids)
		if err != nil {
			return err
		}

		admitted = 0
		memberIDs = memberIDs[:0]
		for _, t := range teams {
			members, err := svc.memberSnapshots(ctx, t.Members)
			if err != nil {
				return err
			}
			if i := rnd.findQualifiedTeam(t.ID); i >= 0 {
				rnd.QualifiedTeams = append(rnd.QualifiedTeams[:i], rnd.QualifiedTeams[i+1:]...)
			}
			rnd.QualifiedTeams = append(rnd.QualifiedTeams, QualifiedTeam{
				TeamID:   t.ID,
				TeamName: t.Name,
				Members:  members,
			})
			admitted++
			memberIDs = append(memberIDs, t.Members...)
		}
		return nil
	})
	if err != nil {
		return Round{}, 0, err
	}

	if err = svc.users.AddPoints(ctx, memberIDs, manualAcceptAward); err != nil {
		return Round{}, 0, pkgerrors.Wrap(err, "awarding points")
	}
	return rnd, admitted, nil
}

func (svc *Service) rejectEntrants(ctx context.Context, roundID string, userIDs, teamIDs []string) (Round, error) {
	return svc.updateRound(ctx, roundID, func(rnd *Round) error {
		for _, id := range userIDs {
			if i := rnd.findQualifiedUser(id); i >= 0 {
				rnd.QualifiedUsers = append(rnd.QualifiedUsers[:i], rnd.QualifiedUsers[i+1:]...)
			}
		}
		for _, id := range teamIDs {
			if i := rnd.findQualifiedTeam(id); i >= 0 {
				rnd.QualifiedTeams = append(rnd.QualifiedTeams[:i], rnd.QualifiedTeams[i+1:]...)
			}
		}
		return nil
	})
}

// SeedFirstRound bulk-qualifies users into round 1 with a flat point reward.
func (svc *Service) SeedFirstRound(ctx context.Context, fs FirstRoundSelection) (Round, error) {
	firstRound, err := svc.rounds.GetRoundByNumber(ctx, fs.EventID, 1)
	if err != nil {
		if err == ErrRoundNotFound {
			return Round{}, ErrNoFirstRound
		}
		return Round{}, err
	}

	var seeded []string
	rnd, err := svc.updateRound(ctx, firstRound.ID, func(rnd *Round) error {
		users, err := svc.users.GetUsersByID(ctx, fs.UserIDs)
		if err != nil {
			return err
		}
		seeded = seeded[:0]
		for _, usr := range users {
			if rnd.HasQualifiedUser(usr.ID) {
				continue
			}
			rnd.QualifiedUsers = append(rnd.QualifiedUsers, QualifiedUser{
				UserID: usr.ID,
				Name:   usr.Name,
				Email:  usr.Email,
			})
			seeded = append(seeded, usr.ID)
		}
		return nil
	})
	if err != nil {
		return Round{}, err
	}

	if err = svc.users.AddPoints(ctx, seeded, firstRoundAward); err != nil {
		return Round{}, pkgerrors.Wrap(err, "awarding points")
	}
	return rnd, nil
}

// UpdateStatus moves an event through its lifecycle.
func (svc *Service) UpdateStatus(ctx context.Context, su StatusUpdate) (Event, error) {
	return svc.repo.UpdateEventStatus(ctx, su.EventID, su.Status)
}

// UpdateRoundStatus moves a round through its lifecycle.
func (svc *Service) UpdateRoundStatus(ctx context.Context, roundID, status string) (Round, error) {
	return svc.rounds.UpdateRoundStatus(ctx, roundID, status)
}

// RecentRegistrations returns the 5 most recent registrations across events.
func (svc *Service) RecentRegistrations(ctx context.Context) ([]RecentRegistration, error) {
	events, err := svc.repo.QueryEventsWithRegistrations(ctx, 5)
	if err != nil {
		return nil, err
	}

	regs := make([]RecentRegistration, 0)
	for _, evt := range events {
		ids := make([]string, 0, len(evt.RegisteredUsers))
		for _, ru := range evt.RegisteredUsers {
			ids = append(ids, ru.UserID)
		}
		users, err := svc.users.GetUsersByID(ctx, ids)
		if err != nil {
			return nil, pkgerrors.Wrap(err, "loading registered users")
		}
		names := make(map[string]string, len(users))
		for _, usr := range users {
			names[usr.ID] = usr.Name
		}
		for _, ru := range evt.RegisteredUsers {
			name, ok := names[ru.UserID]
			if !ok {
				continue // deleted account
			}
			regs = append(regs, RecentRegistration{
				ID:    ru.UserID,
				User:  name,
				Event: evt.Name,
				Date:  evt.Date.Format("2006-01-02"),
			})
		}
	}

	sort.SliceStable(regs, func(i, j int) bool { return regs[i].Date > regs[j].Date })
	if len(regs) > 5 {
		regs = regs[:5]
	}
	return regs, nil
}

// ScanQR qualifies the scanned entity into the event's first round.
// Re-scanning an already-qualified code is a no-op confirmation.
func (svc *Service) ScanQR(ctx context.Context, qrData string) (ScanResult, error) {
	entityID, eventID, err := core.ParseQRData(qrData)
	if err != nil {
		return ScanResult{}, err
	}

	evt, err := svc.repo.GetEventByID(ctx, eventID)
	if err != nil {
		return ScanResult{}, err
	}
	firstRound, err := svc.rounds.GetRoundByNumber(ctx, eventID, 1)
	if err != nil {
		if err == ErrRoundNotFound {
			return ScanResult{}, ErrNoFirstRound
		}
		return ScanResult{}, err
	}

	switch evt.Type {
	case TypeTeam:
		return svc.scanTeam(ctx, evt, firstRound.ID, entityID)
	case TypeIndividual:
		return svc.scanUser(ctx, firstRound.ID, entityID)
	default:
		return ScanResult{}, core.NewValidationError(errors.New("invalid event type"))
	}
}

func (svc *Service) scanUser(ctx context.Context, roundID, userID string) (ScanResult, error) {
	usr, err := svc.users.GetUserByID(ctx, userID)
	if err != nil {
		return ScanResult{}, err
	}

	var already bool
	if _, err = svc.updateRound(ctx, roundID, func(rnd *Round) error {
		if rnd.HasQualifiedUser(usr.ID) {
			already = true
			return errNoop
		}
		rnd.QualifiedUsers = append(rnd.QualifiedUsers, QualifiedUser{
			UserID: usr.ID,
			Name:   usr.Name,
			Email:  usr.Email,
		})
		return nil
	}); err != nil && err != errNoop {
		return ScanResult{}, err
	}

	if already {
		return ScanResult{Message: "User already qualified for first round.", AlreadyQualified: true}, nil
	}
	return ScanResult{Message: "User successfully qualified for first round."}, nil
}

func (svc *Service) scanTeam(ctx context.Context, evt Event, roundID, teamID string) (ScanResult, error) {
	t, err := svc.teams.GetTeamByID(ctx, teamID)
	if err != nil {
		return ScanResult{}, err
	}
	if t.EventID != evt.ID {
		return ScanResult{}, core.NewValidationError(errors.New("team not registered for this event"))
	}

	members, err := svc.memberSnapshots(ctx, t.Members)
	if err != nil {
		return ScanResult{}, err
	}

	var already bool
	if _, err = svc.updateRound(ctx, roundID, func(rnd *Round) error {
		if rnd.HasQualifiedTeam(t.ID) {
			already = true
			return errNoop
		}
		rnd.QualifiedTeams = append(rnd.QualifiedTeams, QualifiedTeam{
			TeamID:   t.ID,
			TeamName: t.Name,
			Members:  members,
		})
		return nil
	}); err != nil && err != errNoop {
		return ScanResult{}, err
	}

	if already {
		return ScanResult{Message: "Team already qualified for first round.", AlreadyQualified: true}, nil
	}
	return ScanResult{Message: "Team successfully qualified for first round."}, nil
}

// errNoop aborts an updateRound mutation without writing.
var errNoop = errors.New("no-op")

// updateRound applies mutate under optimistic concurrency, retrying a bounded
// number of times when the stored round version moved.
func (svc *Service) updateRound(ctx context.Context, roundID string, mutate func(*Round) error) (Round, error) {
	var err error
	for i := 0; i < casRetries; i++ {
		var rnd Round
		if rnd, err = svc.rounds.GetRoundByID(ctx, roundID); err != nil {
			return Round{}, err
		}
		if err = mutate(&rnd); err != nil {
			return rnd, err
		}
		rnd.UpdatedAt = time.Now().UTC()
		if rnd, err = svc.rounds.UpdateRoundQualifiers(ctx, rnd); err != ErrVersionConflict {
			return rnd, err
		}
	}
	return Round{}, pkgerrors.Wrap(err, "updating round")
}

// UpdateRound exposes the optimistic-concurrency round mutation to sibling
// services (quiz scoring).
func (svc *Service) UpdateRound(ctx context.Context, roundID string, mutate func(*Round) error) (Round, error) {
	return svc.updateRound(ctx, roundID, mutate)
}

func (svc *Service) memberSnapshots(ctx context.Context, memberIDs []string) ([]Member, error) {
	users, err := svc.users.GetUsersByID(ctx, memberIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "loading team members")
	}
	members := make([]Member, 0, len(users))
	for _, usr := range users {
		members = append(members, Member{Name: usr.Name, Email: usr.Email})
	}
	return members, nil
}

// GetEvent returns the raw event document.
func (svc *Service) GetEvent(ctx context.Context, id string) (Event, error) {
	return svc.repo.GetEventByID(ctx, id)
}

// GetEventByRound finds the event owning a round.
func (svc *Service) GetEventByRound(ctx context.Context, roundID string) (Event, error) {
	return svc.repo.GetEventByRoundID(ctx, roundID)
}

// GetRound returns the raw round document.
func (svc *Service) GetRound(ctx context.Context, id string) (Round, error) {
	return svc.rounds.GetRoundByID(ctx, id)
}

// NextRound returns the round following rnd in its event, or ErrRoundNotFound.
func (svc *Service) NextRound(ctx context.Context, rnd Round) (Round, error) {
	return svc.rounds.GetRoundByNumber(ctx, rnd.EventID, rnd.RoundNumber+1)
}

func (svc *Service) CountByStatus(ctx context.Context, status string) (int64, error) {
	return svc.repo.CountEventsByStatus(ctx, status)
}
