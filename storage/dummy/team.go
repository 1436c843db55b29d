package dummydb

import (
	"context"

	"github.com/campuskit/bytehub/core/team"
)

type teamRepository struct {
	db *teamTable
}

var _ team.Repository = (*teamRepository)(nil)

func NewTeamRepository(db *DB) team.Repository {
	return &teamRepository{db: db.team}
}

func copyTeam(t team.Team) team.Team {
	t.Members = append([]string(nil), t.Members...)
	return t
}

func (repo *teamRepository) CreateTeam(ctx context.Context, t team.Team) (team.Team, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	t.ID = newID()
	stored := copyTeam(t)
	repo.db.table[t.ID] = &stored
	return t, nil
}

func (repo *teamRepository) GetTeamByID(ctx context.Context, id string) (team.Team, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if t, ok := repo.db.table[id]; ok {
		return copyTeam(*t), nil
	}
	return team.Team{}, team.ErrNotFound
}

func (repo *teamRepository) GetTeamByName(ctx context.Context, name string) (team.Team, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, t := range repo.db.table {
		if t.Name == name {
			return copyTeam(*t), nil
		}
	}
	return team.Team{}, team.ErrNotFound
}

func (repo *teamRepository) GetTeamsByID(ctx context.Context, ids []string) ([]team.Team, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	teams := make([]team.Team, 0, len(ids))
	for _, id := range ids {
		if t, ok := repo.db.table[id]; ok {
			teams = append(teams, copyTeam(*t))
		}
	}
	return teams, nil
}

func (repo *teamRepository) GetTeamForUser(ctx context.Context, eventID, userID string) (team.Team, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, t := range repo.db.table {
		if t.EventID == eventID && t.HasMember(userID) {
			return copyTeam(*t), nil
		}
	}
	return team.Team{}, team.ErrNotFound
}

func (repo *teamRepository) GetTeamByLeader(ctx context.Context, eventID, leaderID string) (team.Team, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, t := range repo.db.table {
		if t.EventID == eventID && t.Leader == leaderID {
			return copyTeam(*t), nil
		}
	}
	return team.Team{}, team.ErrNotFound
}

func (repo *teamRepository) AddTeamMember(ctx context.Context, teamID, userID string) (team.Team, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	t, ok := repo.db.table[teamID]
	if !ok {
		return team.Team{}, team.ErrNotFound
	}
	if !t.HasMember(userID) {
		t.Members = append(t.Members, userID)
	}
	return copyTeam(*t), nil
}

func (repo *teamRepository) QueryAllTeams(ctx context.Context) ([]team.Team, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	teams := make([]team.Team, 0, len(repo.db.table))
	for _, t := range repo.db.table {
		teams = append(teams, copyTeam(*t))
	}
	return teams, nil
}
