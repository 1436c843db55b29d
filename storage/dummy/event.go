package dummydb

import (
	"context"
	"sort"

	"github.com/campuskit/bytehub/core/event"
	"github.com/campuskit/bytehub/core/team"
)

type eventRepository struct {
	db *eventTable
}

var _ event.Repository = (*eventRepository)(nil)
var _ team.EventDirectory = (*eventRepository)(nil)

func NewEventRepository(db *DB) *eventRepository {
	return &eventRepository{db: db.event}
}

// copyEvent detaches the slices so callers cannot alias table state.
func copyEvent(evt event.Event) event.Event {
	evt.RoundIDs = append([]string(nil), evt.RoundIDs...)
	evt.RegisteredUsers = append([]event.RegisteredUser(nil), evt.RegisteredUsers...)
	evt.RegisteredTeams = append([]string(nil), evt.RegisteredTeams...)
	return evt
}

func (repo *eventRepository) CreateEvent(ctx context.Context, evt event.Event) (event.Event, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	evt.ID = newID()
	stored := copyEvent(evt)
	repo.db.table[evt.ID] = &stored
	return evt, nil
}

func (repo *eventRepository) GetEventByID(ctx context.Context, id string) (event.Event, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if evt, ok := repo.db.table[id]; ok {
		return copyEvent(*evt), nil
	}
	return event.Event{}, event.ErrNotFound
}

func (repo *eventRepository) GetEventByRoundID(ctx context.Context, roundID string) (event.Event, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, evt := range repo.db.table {
		for _, id := range evt.RoundIDs {
			if id == roundID {
				return copyEvent(*evt), nil
			}
		}
	}
	return event.Event{}, event.ErrNotFound
}

func (repo *eventRepository) QueryAllEvents(ctx context.Context) ([]event.Event, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	events := make([]event.Event, 0, len(repo.db.table))
	for _, evt := range repo.db.table {
		events = append(events, copyEvent(*evt))
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Date.After(events[j].Date) })
	return events, nil
}

func (repo *eventRepository) AppendRound(ctx context.Context, eventID, roundID string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	evt, ok := repo.db.table[eventID]
	if !ok {
		return event.ErrNotFound
	}
	evt.RoundIDs = append(evt.RoundIDs, roundID)
	return nil
}

func (repo *eventRepository) SaveRegistrations(ctx context.Context, evt event.Event) (event.Event, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	stored, ok := repo.db.table[evt.ID]
	if !ok {
		return event.Event{}, event.ErrNotFound
	}
	stored.RegisteredUsers = append([]event.RegisteredUser(nil), evt.RegisteredUsers...)
	stored.RegisteredTeams = append([]string(nil), evt.RegisteredTeams...)
	stored.UpdatedAt = evt.UpdatedAt
	return copyEvent(*stored), nil
}

func (repo *eventRepository) UpdateEventStatus(ctx context.Context, eventID, status string) (event.Event, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	evt, ok := repo.db.table[eventID]
	if !ok {
		return event.Event{}, event.ErrNotFound
	}
	evt.Status = status
	return copyEvent(*evt), nil
}

func (repo *eventRepository) QueryEventsWithRegistrations(ctx context.Context, limit int64) ([]event.Event, error) {
	all, _ := repo.QueryAllEvents(ctx)

	events := make([]event.Event, 0, limit)
	for _, evt := range all {
		if len(evt.RegisteredUsers) == 0 {
			continue
		}
		events = append(events, evt)
		if int64(len(events)) == limit {
			break
		}
	}
	return events, nil
}

func (repo *eventRepository) CountEventsByStatus(ctx context.Context, status string) (int64, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var n int64
	for _, evt := range repo.db.table {
		if evt.Status == status {
			n++
		}
	}
	return n, nil
}

func (repo *eventRepository) GetEventInfo(ctx context.Context, eventID string) (team.EventInfo, error) {
	evt, err := repo.GetEventByID(ctx, eventID)
	if err != nil {
		return team.EventInfo{}, team.ErrEventNotFound
	}
	return team.EventInfo{
		ID:              evt.ID,
		Name:            evt.Name,
		Type:            evt.Type,
		MaxParticipants: evt.MaxParticipants,
	}, nil
}

type roundRepository struct {
	db *roundTable
}

var _ event.RoundRepository = (*roundRepository)(nil)

func NewRoundRepository(db *DB) event.RoundRepository {
	return &roundRepository{db: db.round}
}

func copyRound(rnd event.Round) event.Round {
	rnd.QualifiedUsers = append([]event.QualifiedUser(nil), rnd.QualifiedUsers...)
	rnd.QualifiedTeams = append([]event.QualifiedTeam(nil), rnd.QualifiedTeams...)
	return rnd
}

func (repo *roundRepository) CreateRound(ctx context.Context, rnd event.Round) (event.Round, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	rnd.ID = newID()
	rnd.Version = 1
	stored := copyRound(rnd)
	repo.db.table[rnd.ID] = &stored
	return rnd, nil
}

func (repo *roundRepository) GetRoundByID(ctx context.Context, id string) (event.Round, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if rnd, ok := repo.db.table[id]; ok {
		return copyRound(*rnd), nil
	}
	return event.Round{}, event.ErrRoundNotFound
}

func (repo *roundRepository) GetRoundByNumber(ctx context.Context, eventID string, number int) (event.Round, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, rnd := range repo.db.table {
		if rnd.EventID == eventID && rnd.RoundNumber == number {
			return copyRound(*rnd), nil
		}
	}
	return event.Round{}, event.ErrRoundNotFound
}

func (repo *roundRepository) GetEventRounds(ctx context.Context, eventID string) ([]event.Round, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	rounds := []event.Round{}
	for _, rnd := range repo.db.table {
		if rnd.EventID == eventID {
			rounds = append(rounds, copyRound(*rnd))
		}
	}
	sort.Slice(rounds, func(i, j int) bool { return rounds[i].RoundNumber < rounds[j].RoundNumber })
	return rounds, nil
}

func (repo *roundRepository) UpdateRoundQualifiers(ctx context.Context, rnd event.Round) (event.Round, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	stored, ok := repo.db.table[rnd.ID]
	if !ok {
		return event.Round{}, event.ErrRoundNotFound
	}
	if stored.Version != rnd.Version {
		return event.Round{}, event.ErrVersionConflict
	}
	stored.QualifiedUsers = append([]event.QualifiedUser(nil), rnd.QualifiedUsers...)
	stored.QualifiedTeams = append([]event.QualifiedTeam(nil), rnd.QualifiedTeams...)
	stored.UpdatedAt = rnd.UpdatedAt
	stored.Version++
	return copyRound(*stored), nil
}

func (repo *roundRepository) UpdateRoundStatus(ctx context.Context, roundID, status string) (event.Round, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	rnd, ok := repo.db.table[roundID]
	if !ok {
		return event.Round{}, event.ErrRoundNotFound
	}
	rnd.Status = status
	return copyRound(*rnd), nil
}
