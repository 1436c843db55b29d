package dummydb

import (
	"context"

	"github.com/campuskit/bytehub/core/quiz"
)

type quizRepository struct {
	db *quizTable
}

var _ quiz.Repository = (*quizRepository)(nil)

func NewQuizRepository(db *DB) quiz.Repository {
	return &quizRepository{db: db.quiz}
}

func (repo *quizRepository) CreateQuiz(ctx context.Context, q quiz.Quiz) (quiz.Quiz, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	q.ID = newID()
	repo.db.table[q.ID] = &q
	return q, nil
}

func (repo *quizRepository) GetQuizByRound(ctx context.Context, roundID string) (quiz.Quiz, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, q := range repo.db.table {
		if q.RoundID == roundID {
			return *q, nil
		}
	}
	return quiz.Quiz{}, quiz.ErrNotFound
}

func (repo *quizRepository) GetQuizzesByRound(ctx context.Context, roundID string) ([]quiz.Quiz, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	quizzes := []quiz.Quiz{}
	for _, q := range repo.db.table {
		if q.RoundID == roundID {
			quizzes = append(quizzes, *q)
		}
	}
	return quizzes, nil
}
