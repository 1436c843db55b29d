package mongodb

import (
	"context"
	"time"

	pkgerrors "github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/campuskit/bytehub/core/team"
)

// TeamRepository implements team.Repository over the teams collection.
type TeamRepository struct {
	collection *mongo.Collection
}

var _ team.Repository = (*TeamRepository)(nil)

func NewTeamRepository(client *Client) *TeamRepository {
	return &TeamRepository{collection: client.Collection(teamsCollection)}
}

func (repo *TeamRepository) CreateTeam(ctx context.Context, t team.Team) (team.Team, error) {
	t.ID = newID()
	if _, err := repo.collection.InsertOne(ctx, t); err != nil {
		return team.Team{}, pkgerrors.Wrap(err, "inserting team")
	}
	return t, nil
}

func (repo *TeamRepository) GetTeamByID(ctx context.Context, id string) (team.Team, error) {
	return repo.getOne(ctx, bson.M{"_id": id})
}

func (repo *TeamRepository) GetTeamByName(ctx context.Context, name string) (team.Team, error) {
	return repo.getOne(ctx, bson.M{"name": name})
}

func (repo *TeamRepository) GetTeamForUser(ctx context.Context, eventID, userID string) (team.Team, error) {
	return repo.getOne(ctx, bson.M{"event": eventID, "members": userID})
}

func (repo *TeamRepository) GetTeamByLeader(ctx context.Context, eventID, leaderID string) (team.Team, error) {
	return repo.getOne(ctx, bson.M{"event": eventID, "leader": leaderID})
}

func (repo *TeamRepository) getOne(ctx context.Context, filter bson.M) (team.Team, error) {
	var t team.Team
	if err := repo.collection.FindOne(ctx, filter).Decode(&t); err != nil {
		if err == mongo.ErrNoDocuments {
			return team.Team{}, team.ErrNotFound
		}
		return team.Team{}, pkgerrors.Wrap(err, "finding team")
	}
	return t, nil
}

func (repo *TeamRepository) GetTeamsByID(ctx context.Context, ids []string) ([]team.Team, error) {
	if len(ids) == 0 {
		return []team.Team{}, nil
	}
	return repo.query(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (repo *TeamRepository) AddTeamMember(ctx context.Context, teamID, userID string) (team.Team, error) {
	var t team.Team
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := repo.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": teamID},
		bson.M{
			"$addToSet": bson.M{"members": userID},
			"$set":      bson.M{"updatedAt": time.Now().UTC()},
		},
		opts,
	).Decode(&t)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return team.Team{}, team.ErrNotFound
		}
		return team.Team{}, pkgerrors.Wrap(err, "adding team member")
	}
	return t, nil
}

func (repo *TeamRepository) QueryAllTeams(ctx context.Context) ([]team.Team, error) {
	return repo.query(ctx, bson.M{})
}

func (repo *TeamRepository) query(ctx context.Context, filter bson.M) ([]team.Team, error) {
	cursor, err := repo.collection.Find(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "finding teams")
	}
	teams := []team.Team{}
	if err = cursor.All(ctx, &teams); err != nil {
		return nil, pkgerrors.Wrap(err, "decoding teams")
	}
	return teams, nil
}
