package mongodb

import (
	"context"

	pkgerrors "github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/campuskit/bytehub/core/content"
)

// ContentRepository implements content.Repository over the club page
// collections plus the write-only leaderboards collection.
type ContentRepository struct {
	clubHeads   *mongo.Collection
	gallery     *mongo.Collection
	leaderboard *mongo.Collection
}

var _ content.Repository = (*ContentRepository)(nil)

func NewContentRepository(client *Client) *ContentRepository {
	return &ContentRepository{
		clubHeads:   client.Collection(clubHeadsCollection),
		gallery:     client.Collection(galleryCollection),
		leaderboard: client.Collection(leaderboardCollection),
	}
}

func (repo *ContentRepository) CreateClubHead(ctx context.Context, ch content.ClubHead) (content.ClubHead, error) {
	ch.ID = newID()
	if _, err := repo.clubHeads.InsertOne(ctx, ch); err != nil {
		return content.ClubHead{}, pkgerrors.Wrap(err, "inserting club head")
	}
	return ch, nil
}

func (repo *ContentRepository) QueryClubHeads(ctx context.Context) ([]content.ClubHead, error) {
	cursor, err := repo.clubHeads.Find(ctx, bson.M{})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "finding club heads")
	}
	heads := []content.ClubHead{}
	if err = cursor.All(ctx, &heads); err != nil {
		return nil, pkgerrors.Wrap(err, "decoding club heads")
	}
	return heads, nil
}

func (repo *ContentRepository) CreateGalleryEntry(ctx context.Context, ge content.GalleryEntry) (content.GalleryEntry, error) {
	ge.ID = newID()
	if _, err := repo.gallery.InsertOne(ctx, ge); err != nil {
		return content.GalleryEntry{}, pkgerrors.Wrap(err, "inserting gallery entry")
	}
	return ge, nil
}

func (repo *ContentRepository) QueryGallery(ctx context.Context) ([]content.GalleryEntry, error) {
	opts := options.Find().SetSort(bson.M{"eventDate": -1})
	cursor, err := repo.gallery.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "finding gallery entries")
	}
	entries := []content.GalleryEntry{}
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, pkgerrors.Wrap(err, "decoding gallery entries")
	}
	return entries, nil
}

// UpsertLeaderboardPoints accumulates a user's points for the semester.
func (repo *ContentRepository) UpsertLeaderboardPoints(ctx context.Context, userID, semester string, delta int) error {
	opts := options.Update().SetUpsert(true)
	_, err := repo.leaderboard.UpdateOne(ctx,
		bson.M{"userId": userID, "semester": semester},
		bson.M{"$inc": bson.M{"points": delta}},
		opts,
	)
	return pkgerrors.Wrap(err, "upserting leaderboard points")
}
