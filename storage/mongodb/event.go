package mongodb

import (
	"context"
	"time"

	pkgerrors "github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/campuskit/bytehub/core/event"
	"github.com/campuskit/bytehub/core/team"
)

// EventRepository implements event.Repository over the events collection.
// It also serves team.EventDirectory so team formation can check event
// constraints without importing the event package.
type EventRepository struct {
	collection *mongo.Collection
}

var (
	_ event.Repository    = (*EventRepository)(nil)
	_ team.EventDirectory = (*EventRepository)(nil)
)

func NewEventRepository(client *Client) *EventRepository {
	return &EventRepository{collection: client.Collection(eventsCollection)}
}

func (repo *EventRepository) CreateEvent(ctx context.Context, evt event.Event) (event.Event, error) {
	evt.ID = newID()
	if _, err := repo.collection.InsertOne(ctx, evt); err != nil {
		return event.Event{}, pkgerrors.Wrap(err, "inserting event")
	}
	return evt, nil
}

func (repo *EventRepository) GetEventByID(ctx context.Context, id string) (event.Event, error) {
	return repo.getOne(ctx, bson.M{"_id": id})
}

func (repo *EventRepository) GetEventByRoundID(ctx context.Context, roundID string) (event.Event, error) {
	return repo.getOne(ctx, bson.M{"rounds": roundID})
}

func (repo *EventRepository) getOne(ctx context.Context, filter bson.M) (event.Event, error) {
	var evt event.Event
	if err := repo.collection.FindOne(ctx, filter).Decode(&evt); err != nil {
		if err == mongo.ErrNoDocuments {
			return event.Event{}, event.ErrNotFound
		}
		return event.Event{}, pkgerrors.Wrap(err, "finding event")
	}
	return evt, nil
}

func (repo *EventRepository) QueryAllEvents(ctx context.Context) ([]event.Event, error) {
	opts := options.Find().SetSort(bson.M{"date": -1})
	cursor, err := repo.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "finding events")
	}
	events := []event.Event{}
	if err = cursor.All(ctx, &events); err != nil {
		return nil, pkgerrors.Wrap(err, "decoding events")
	}
	return events, nil
}

func (repo *EventRepository) AppendRound(ctx context.Context, eventID, roundID string) error {
	res, err := repo.collection.UpdateOne(ctx,
		bson.M{"_id": eventID},
		bson.M{
			"$push": bson.M{"rounds": roundID},
			"$set":  bson.M{"updatedAt": time.Now().UTC()},
		},
	)
	if err != nil {
		return pkgerrors.Wrap(err, "appending round")
	}
	if res.MatchedCount == 0 {
		return event.ErrNotFound
	}
	return nil
}

func (repo *EventRepository) SaveRegistrations(ctx context.Context, evt event.Event) (event.Event, error) {
	evt.UpdatedAt = time.Now().UTC()
	res, err := repo.collection.UpdateOne(ctx,
		bson.M{"_id": evt.ID},
		bson.M{"$set": bson.M{
			"registeredUsers": evt.RegisteredUsers,
			"registeredTeams": evt.RegisteredTeams,
			"updatedAt":       evt.UpdatedAt,
		}},
	)
	if err != nil {
		return event.Event{}, pkgerrors.Wrap(err, "saving registrations")
	}
	if res.MatchedCount == 0 {
		return event.Event{}, event.ErrNotFound
	}
	return evt, nil
}

func (repo *EventRepository) UpdateEventStatus(ctx context.Context, eventID, status string) (event.Event, error) {
	var evt event.Event
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := repo.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": eventID},
		bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now().UTC()}},
		opts,
	).Decode(&evt)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return event.Event{}, event.ErrNotFound
		}
		return event.Event{}, pkgerrors.Wrap(err, "updating event status")
	}
	return evt, nil
}

func (repo *EventRepository) QueryEventsWithRegistrations(ctx context.Context, limit int64) ([]event.Event, error) {
	opts := options.Find().SetSort(bson.M{"date": -1}).SetLimit(limit)
	cursor, err := repo.collection.Find(ctx, bson.M{"registeredUsers.0": bson.M{"$exists": true}}, opts)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "finding events with registrations")
	}
	events := []event.Event{}
	if err = cursor.All(ctx, &events); err != nil {
		return nil, pkgerrors.Wrap(err, "decoding events")
	}
	return events, nil
}

func (repo *EventRepository) CountEventsByStatus(ctx context.Context, status string) (int64, error) {
	n, err := repo.collection.CountDocuments(ctx, bson.M{"status": status})
	return n, pkgerrors.Wrap(err, "counting events")
}

// GetEventInfo satisfies team.EventDirectory.
func (repo *EventRepository) GetEventInfo(ctx context.Context, eventID string) (team.EventInfo, error) {
	evt, err := repo.GetEventByID(ctx, eventID)
	if err != nil {
		if err == event.ErrNotFound {
			return team.EventInfo{}, team.ErrEventNotFound
		}
		return team.EventInfo{}, err
	}
	return team.EventInfo{
		ID:              evt.ID,
		Name:            evt.Name,
		Type:            evt.Type,
		MaxParticipants: evt.MaxParticipants,
	}, nil
}

// RoundRepository implements event.RoundRepository over the rounds collection.
type RoundRepository struct {
	collection *mongo.Collection
}

var _ event.RoundRepository = (*RoundRepository)(nil)

func NewRoundRepository(client *Client) *RoundRepository {
	return &RoundRepository{collection: client.Collection(roundsCollection)}
}

func (repo *RoundRepository) CreateRound(ctx context.Context, rnd event.Round) (event.Round, error) {
	rnd.ID = newID()
	rnd.Version = 1
	if _, err := repo.collection.InsertOne(ctx, rnd); err != nil {
		return event.Round{}, pkgerrors.Wrap(err, "inserting round")
	}
	return rnd, nil
}

func (repo *RoundRepository) GetRoundByID(ctx context.Context, id string) (event.Round, error) {
	return repo.getOne(ctx, bson.M{"_id": id})
}

func (repo *RoundRepository) GetRoundByNumber(ctx context.Context, eventID string, number int) (event.Round, error) {
	return repo.getOne(ctx, bson.M{"eventId": eventID, "roundNumber": number})
}

func (repo *RoundRepository) getOne(ctx context.Context, filter bson.M) (event.Round, error) {
	var rnd event.Round
	if err := repo.collection.FindOne(ctx, filter).Decode(&rnd); err != nil {
		if err == mongo.ErrNoDocuments {
			return event.Round{}, event.ErrRoundNotFound
		}
		return event.Round{}, pkgerrors.Wrap(err, "finding round")
	}
	return rnd, nil
}

func (repo *RoundRepository) GetEventRounds(ctx context.Context, eventID string) ([]event.Round, error) {
	opts := options.Find().SetSort(bson.M{"roundNumber": 1})
	cursor, err := repo.collection.Find(ctx, bson.M{"eventId": eventID}, opts)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "finding rounds")
	}
	rounds := []event.Round{}
	if err = cursor.All(ctx, &rounds); err != nil {
		return nil, pkgerrors.Wrap(err, "decoding rounds")
	}
	return rounds, nil
}

// UpdateRoundQualifiers writes the qualified lists with a compare-and-swap on
// the stored version. A matched-count of zero means either the round vanished
// or another writer got there first.
func (repo *RoundRepository) UpdateRoundQualifiers(ctx context.Context, rnd event.Round) (event.Round, error) {
	res, err := repo.collection.UpdateOne(ctx,
		bson.M{"_id": rnd.ID, "version": rnd.Version},
		bson.M{
			"$set": bson.M{
				"qualifiedUsers": rnd.QualifiedUsers,
				"qualifiedTeams": rnd.QualifiedTeams,
				"updatedAt":      rnd.UpdatedAt,
			},
			"$inc": bson.M{"version": 1},
		},
	)
	if err != nil {
		return event.Round{}, pkgerrors.Wrap(err, "updating round qualifiers")
	}
	if res.MatchedCount == 0 {
		n, err := repo.collection.CountDocuments(ctx, bson.M{"_id": rnd.ID})
		if err != nil {
			return event.Round{}, pkgerrors.Wrap(err, "checking round existence")
		}
		if n == 0 {
			return event.Round{}, event.ErrRoundNotFound
		}
		return event.Round{}, event.ErrVersionConflict
	}
	rnd.Version++
	return rnd, nil
}

func (repo *RoundRepository) UpdateRoundStatus(ctx context.Context, roundID, status string) (event.Round, error) {
	var rnd event.Round
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := repo.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": roundID},
		bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now().UTC()}},
		opts,
	).Decode(&rnd)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return event.Round{}, event.ErrRoundNotFound
		}
		return event.Round{}, pkgerrors.Wrap(err, "updating round status")
	}
	return rnd, nil
}
