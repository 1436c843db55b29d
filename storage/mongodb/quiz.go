package mongodb

import (
	"context"

	pkgerrors "github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/campuskit/bytehub/core/quiz"
)

// QuizRepository implements quiz.Repository over the quizzes collection.
type QuizRepository struct {
	collection *mongo.Collection
}

var _ quiz.Repository = (*QuizRepository)(nil)

func NewQuizRepository(client *Client) *QuizRepository {
	return &QuizRepository{collection: client.Collection(quizzesCollection)}
}

func (repo *QuizRepository) CreateQuiz(ctx context.Context, q quiz.Quiz) (quiz.Quiz, error) {
	q.ID = newID()
	if _, err := repo.collection.InsertOne(ctx, q); err != nil {
		return quiz.Quiz{}, pkgerrors.Wrap(err, "inserting quiz")
	}
	return q, nil
}

func (repo *QuizRepository) GetQuizByRound(ctx context.Context, roundID string) (quiz.Quiz, error) {
	var q quiz.Quiz
	if err := repo.collection.FindOne(ctx, bson.M{"roundId": roundID}).Decode(&q); err != nil {
		if err == mongo.ErrNoDocuments {
			return quiz.Quiz{}, quiz.ErrNotFound
		}
		return quiz.Quiz{}, pkgerrors.Wrap(err, "finding quiz")
	}
	return q, nil
}

func (repo *QuizRepository) GetQuizzesByRound(ctx context.Context, roundID string) ([]quiz.Quiz, error) {
	cursor, err := repo.collection.Find(ctx, bson.M{"roundId": roundID})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "finding quizzes")
	}
	quizzes := []quiz.Quiz{}
	if err = cursor.All(ctx, &quizzes); err != nil {
		return nil, pkgerrors.Wrap(err, "decoding quizzes")
	}
	return quizzes, nil
}
