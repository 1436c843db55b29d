package mongodb

import (
	"context"
	"time"

	pkgerrors "github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/campuskit/bytehub/core"
)

// Collection names.
const (
	usersCollection       = "users"
	adminsCollection      = "admins"
	eventsCollection      = "events"
	roundsCollection      = "rounds"
	quizzesCollection     = "quizzes"
	teamsCollection       = "teams"
	clubHeadsCollection   = "clubheads"
	galleryCollection     = "gallery"
	leaderboardCollection = "leaderboards"
)

const connectTimeout = 10 * time.Second

// Client wraps *mongo.Client with the application database bound.
type Client struct {
	client   *mongo.Client
	database string
}

// Open connects to MongoDB and verifies the connection with a ping.
func Open(conf *core.Config) (*Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(conf.Database.URI))
	if err != nil {
		return nil, pkgerrors.Wrap(err, "connecting to mongodb")
	}
	if err = client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, pkgerrors.Wrap(err, "pinging mongodb")
	}
	return &Client{client: client, database: conf.Database.Name}, nil
}

// Collection returns a handle on a collection in the application database.
func (c *Client) Collection(name string) *mongo.Collection {
	return c.client.Database(c.database).Collection(name)
}

// StatusCheck verifies the database is reachable.
func (c *Client) StatusCheck(ctx context.Context) error {
	return c.client.Ping(ctx, readpref.Primary())
}

func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

// newID mints a document id. IDs are stored as hex strings so domain models
// and QR payloads carry them without conversion.
func newID() string {
	return primitive.NewObjectID().Hex()
}
