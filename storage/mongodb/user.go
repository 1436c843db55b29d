package mongodb

import (
	"context"

	pkgerrors "github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/campuskit/bytehub/core/user"
)

// UserRepository implements user.Repository over the users collection.
type UserRepository struct {
	collection *mongo.Collection
}

var _ user.Repository = (*UserRepository)(nil)

func NewUserRepository(client *Client) *UserRepository {
	return &UserRepository{collection: client.Collection(usersCollection)}
}

func (repo *UserRepository) CheckUniqueness(ctx context.Context, email string, rollNo int) error {
	n, err := repo.collection.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return pkgerrors.Wrap(err, "counting users by email")
	}
	if n > 0 {
		return user.ErrEmailExists
	}

	n, err = repo.collection.CountDocuments(ctx, bson.M{"rollNo": rollNo})
	if err != nil {
		return pkgerrors.Wrap(err, "counting users by roll number")
	}
	if n > 0 {
		return user.ErrRollNoExists
	}
	return nil
}

func (repo *UserRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	usr.ID = newID()
	if _, err := repo.collection.InsertOne(ctx, usr); err != nil {
		return user.User{}, pkgerrors.Wrap(err, "inserting user")
	}
	return usr, nil
}

func (repo *UserRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	return repo.getOne(ctx, bson.M{"_id": id})
}

func (repo *UserRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	return repo.getOne(ctx, bson.M{"email": email})
}

func (repo *UserRepository) GetUserByRollNo(ctx context.Context, rollNo int) (user.User, error) {
	return repo.getOne(ctx, bson.M{"rollNo": rollNo})
}

func (repo *UserRepository) getOne(ctx context.Context, filter bson.M) (user.User, error) {
	var usr user.User
	if err := repo.collection.FindOne(ctx, filter).Decode(&usr); err != nil {
		if err == mongo.ErrNoDocuments {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, pkgerrors.Wrap(err, "finding user")
	}
	return usr, nil
}

func (repo *UserRepository) GetUsersByID(ctx context.Context, ids []string) ([]user.User, error) {
	if len(ids) == 0 {
		return []user.User{}, nil
	}
	cursor, err := repo.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "finding users")
	}
	users := []user.User{}
	if err = cursor.All(ctx, &users); err != nil {
		return nil, pkgerrors.Wrap(err, "decoding users")
	}
	return users, nil
}

func (repo *UserRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	res, err := repo.collection.ReplaceOne(ctx, bson.M{"_id": usr.ID}, usr)
	if err != nil {
		return user.User{}, pkgerrors.Wrap(err, "updating user")
	}
	if res.MatchedCount == 0 {
		return user.User{}, user.ErrNotFound
	}
	return usr, nil
}

func (repo *UserRepository) AddPoints(ctx context.Context, ids []string, delta int) error {
	if len(ids) == 0 || delta == 0 {
		return nil
	}
	_, err := repo.collection.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		bson.M{"$inc": bson.M{"points": delta}},
	)
	return pkgerrors.Wrap(err, "incrementing user points")
}

func (repo *UserRepository) AppendRegisteredEvent(ctx context.Context, userID string, summary user.EventSummary) error {
	// $addToSet keeps re-registration attempts from duplicating the summary
	res, err := repo.collection.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$addToSet": bson.M{"registeredEvents": summary}},
	)
	if err != nil {
		return pkgerrors.Wrap(err, "appending registered event")
	}
	if res.MatchedCount == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (repo *UserRepository) CountUsers(ctx context.Context) (int64, error) {
	n, err := repo.collection.CountDocuments(ctx, bson.M{})
	return n, pkgerrors.Wrap(err, "counting users")
}

func (repo *UserRepository) TotalPoints(ctx context.Context) (int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$points"}}}},
	}
	cursor, err := repo.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, pkgerrors.Wrap(err, "aggregating user points")
	}
	var results []struct {
		Total int64 `bson:"total"`
	}
	if err = cursor.All(ctx, &results); err != nil {
		return 0, pkgerrors.Wrap(err, "decoding points total")
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}

// AdminRepository implements user.AdminRepository over the admins collection.
type AdminRepository struct {
	collection *mongo.Collection
}

var _ user.AdminRepository = (*AdminRepository)(nil)

func NewAdminRepository(client *Client) *AdminRepository {
	return &AdminRepository{collection: client.Collection(adminsCollection)}
}

func (repo *AdminRepository) CreateAdmin(ctx context.Context, adm user.Admin) (user.Admin, error) {
	adm.ID = newID()
	if _, err := repo.collection.InsertOne(ctx, adm); err != nil {
		return user.Admin{}, pkgerrors.Wrap(err, "inserting admin")
	}
	return adm, nil
}

func (repo *AdminRepository) GetAdminByEmail(ctx context.Context, email string) (user.Admin, error) {
	var adm user.Admin
	if err := repo.collection.FindOne(ctx, bson.M{"email": email}).Decode(&adm); err != nil {
		if err == mongo.ErrNoDocuments {
			return user.Admin{}, user.ErrNotFound
		}
		return user.Admin{}, pkgerrors.Wrap(err, "finding admin")
	}
	return adm, nil
}
