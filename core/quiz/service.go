package quiz

import (
	"context"
	"errors"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/campuskit/bytehub/core"
	"github.com/campuskit/bytehub/core/event"
	"github.com/campuskit/bytehub/core/team"
	"github.com/campuskit/bytehub/core/user"
)

var (
	// errors
	ErrNotFound     = errors.New("no quiz found for this round")
	ErrQuizExists   = errors.New("a quiz already exists for this round")
	ErrNotQuizRound = errors.New("this round is not a quiz round")

	errNotQualified     = errors.New("you are not qualified for this round")
	errTeamNotQualified = errors.New("your team is not qualified for this round")
	errNotLeader        = errors.New("only the team leader may submit answers")
)

type (
	Repository interface {
		CreateQuiz(ctx context.Context, q Quiz) (Quiz, error)
		// GetQuizByRound returns the scoring quiz for a round.
		GetQuizByRound(ctx context.Context, roundID string) (Quiz, error)
		GetQuizzesByRound(ctx context.Context, roundID string) ([]Quiz, error)
	}

	// LeaderboardRepository records per-semester standings as quizzes score.
	LeaderboardRepository interface {
		UpsertLeaderboardPoints(ctx context.Context, userID, semester string, delta int) error
	}

	SubmitResult struct {
		Score     int  `json:"score"`
		Advanced  bool `json:"advanced_to_next_round"`
		FinalTier bool `json:"final_round"`
	}

	Service struct {
		repo        Repository
		leaderboard LeaderboardRepository
		events      *event.Service
		users       user.Repository
		teams       team.Repository
		conf        *core.Config
	}
)

func NewService(repo Repository, leaderboard LeaderboardRepository, events *event.Service, users user.Repository, teams team.Repository, conf *core.Config) *Service {
	return &Service{repo: repo, leaderboard: leaderboard, events: events, users: users, teams: teams, conf: conf}
}

// Create attaches a question bank to a quiz round.
func (svc *Service) Create(ctx context.Context, nq NewQuiz) (Quiz, error) {
	rnd, err := svc.events.GetRound(ctx, nq.RoundID)
	if err != nil {
		return Quiz{}, err
	}
	if rnd.RoundType != event.RoundTypeQuiz {
		return Quiz{}, core.NewValidationError(ErrNotQuizRound)
	}
	if _, err = svc.repo.GetQuizByRound(ctx, nq.RoundID); err == nil {
		return Quiz{}, core.NewValidationError(ErrQuizExists)
	} else if err != ErrNotFound {
		return Quiz{}, pkgerrors.Wrap(err, "checking existing quiz")
	}

	now := time.Now().UTC()
	q := Quiz{
		RoundID:   nq.RoundID,
		Questions: make([]Question, 0, len(nq.Questions)),
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, question := range nq.Questions {
		q.Questions = append(q.Questions, Question{
			Text:          question.Text,
			Options:       question.Options,
			CorrectOption: question.CorrectOption,
		})
	}
	return svc.repo.CreateQuiz(ctx, q)
}

// GetByRound returns all quizzes attached to a round.
func (svc *Service) GetByRound(ctx context.Context, roundID string) ([]Quiz, error) {
	quizzes, err := svc.repo.GetQuizzesByRound(ctx, roundID)
	if err != nil {
		return nil, err
	}
	if len(quizzes) == 0 {
		return nil, core.NewNotFoundError(ErrNotFound)
	}
	return quizzes, nil
}

// Submit scores a participant's answers against the round quiz, adds the
// score to their round tally and global points, and reseeds the next round
// from the updated standings.
func (svc *Service) Submit(ctx context.Context, sub Submission, userID string) (SubmitResult, error) {
	rnd, err := svc.events.GetRound(ctx, sub.RoundID)
	if err != nil {
		return SubmitResult{}, err
	}
	evt, err := svc.events.GetEventByRound(ctx, sub.RoundID)
	if err != nil {
		return SubmitResult{}, err
	}
	q, err := svc.repo.GetQuizByRound(ctx, sub.RoundID)
	if err != nil {
		if err == ErrNotFound {
			return SubmitResult{}, core.NewNotFoundError(err)
		}
		return SubmitResult{}, err
	}

	score := q.Score(sub.Answers)

	if evt.Type == event.TypeTeam {
		rnd, err = svc.scoreTeam(ctx, rnd, userID, score)
	} else {
		rnd, err = svc.scoreUser(ctx, rnd, userID, score)
	}
	if err != nil {
		return SubmitResult{}, err
	}

	advanced, err := svc.seedNextRound(ctx, rnd)
	if err != nil {
		return SubmitResult{}, err
	}
	return SubmitResult{Score: score, Advanced: advanced, FinalTier: !advanced}, nil
}

func (svc *Service) scoreUser(ctx context.Context, rnd event.Round, userID string, score int) (event.Round, error) {
	if !rnd.HasQualifiedUser(userID) {
		return event.Round{}, core.NewForbiddenError(errNotQualified)
	}

	rnd, err := svc.events.UpdateRound(ctx, rnd.ID, func(rnd *event.Round) error {
		for i := range rnd.QualifiedUsers {
			if rnd.QualifiedUsers[i].UserID == userID {
				rnd.QualifiedUsers[i].RoundPoints += score
				return nil
			}
		}
		return core.NewForbiddenError(errNotQualified)
	})
	if err != nil {
		return event.Round{}, err
	}

	if err = svc.users.AddPoints(ctx, []string{userID}, score); err != nil {
		return event.Round{}, pkgerrors.Wrap(err, "awarding points")
	}
	svc.recordStanding(ctx, userID, score)
	return rnd, nil
}

func (svc *Service) scoreTeam(ctx context.Context, rnd event.Round, userID string, score int) (event.Round, error) {
	t, err := svc.teams.GetTeamByLeader(ctx, rnd.EventID, userID)
	if err != nil {
		if err == team.ErrNotFound {
			return event.Round{}, core.NewForbiddenError(errNotLeader)
		}
		return event.Round{}, err
	}
	if !rnd.HasQualifiedTeam(t.ID) {
		return event.Round{}, core.NewForbiddenError(errTeamNotQualified)
	}

	rnd, err = svc.events.UpdateRound(ctx, rnd.ID, func(rnd *event.Round) error {
		for i := range rnd.QualifiedTeams {
			if rnd.QualifiedTeams[i].TeamID == t.ID {
				rnd.QualifiedTeams[i].RoundPoints += score
				return nil
			}
		}
		return core.NewForbiddenError(errTeamNotQualified)
	})
	if err != nil {
		return event.Round{}, err
	}

	if err = svc.users.AddPoints(ctx, t.Members, score); err != nil {
		return event.Round{}, pkgerrors.Wrap(err, "awarding points")
	}
	for _, memberID := range t.Members {
		svc.recordStanding(ctx, memberID, score)
	}
	return rnd, nil
}

// seedNextRound overwrites the following round's qualified lists with the
// topX cutoff of the round just scored. Reports false on the final round.
func (svc *Service) seedNextRound(ctx context.Context, rnd event.Round) (bool, error) {
	next, err := svc.events.NextRound(ctx, rnd)
	if err != nil {
		if err == event.ErrRoundNotFound {
			return false, nil
		}
		return false, err
	}

	_, err = svc.events.UpdateRound(ctx, next.ID, func(nr *event.Round) error {
		nr.QualifiedUsers = event.TopQualifiedUsers(rnd.QualifiedUsers, rnd.TopX)
		nr.QualifiedTeams = event.TopQualifiedTeams(rnd.QualifiedTeams, rnd.TopX)
		return nil
	})
	if err != nil {
		return false, pkgerrors.Wrap(err, "seeding next round")
	}
	return true, nil
}

// recordStanding is best-effort; a standings write must not fail a scored
// submission.
func (svc *Service) recordStanding(ctx context.Context, userID string, delta int) {
	_ = svc.leaderboard.UpsertLeaderboardPoints(ctx, userID, svc.conf.Semester, delta)
}
