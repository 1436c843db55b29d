package quiz_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/bytehub/core"
	"github.com/campuskit/bytehub/core/event"
	"github.com/campuskit/bytehub/core/quiz"
	"github.com/campuskit/bytehub/core/team"
	"github.com/campuskit/bytehub/core/user"
	emailsvc "github.com/campuskit/bytehub/services/email"
	dummydb "github.com/campuskit/bytehub/storage/dummy"
)

type testEnv struct {
	conf    *core.Config
	usrRepo user.Repository
	rounds  event.RoundRepository
	evtSvc  *event.Service
	quizSvc *quiz.Service
	teamSvc *team.Service
}

func setup(t *testing.T) *testEnv {
	t.Helper()

	db, err := dummydb.Open()
	require.NoError(t, err)

	conf := &core.Config{AppName: "ByteHub", TestMode: true, Semester: "spring-2026"}

	usrRepo := dummydb.NewUserRepository(db)
	evtRepo := dummydb.NewEventRepository(db)
	rndRepo := dummydb.NewRoundRepository(db)
	quizRepo := dummydb.NewQuizRepository(db)
	teamRepo := dummydb.NewTeamRepository(db)
	contentRepo := dummydb.NewContentRepository(db)
	mailSvc := emailsvc.NewConsoleServiceMock(conf)

	evtSvc := event.NewService(evtRepo, rndRepo, usrRepo, teamRepo, mailSvc)
	return &testEnv{
		conf:    conf,
		usrRepo: usrRepo,
		rounds:  rndRepo,
		evtSvc:  evtSvc,
		quizSvc: quiz.NewService(quizRepo, contentRepo, evtSvc, usrRepo, teamRepo, conf),
		teamSvc: team.NewService(teamRepo, usrRepo, evtRepo, mailSvc),
	}
}

func (env *testEnv) createUser(t *testing.T, name string, rollNo int) user.User {
	t.Helper()
	usr := user.User{Name: name, Email: name + "@chitkara.edu.in", RollNo: rollNo}
	require.NoError(t, usr.SetPassword("s3cur3-p4ss!"))
	created, err := env.usrRepo.CreateUser(context.Background(), usr)
	require.NoError(t, err)
	return created
}

func (env *testEnv) createEvent(t *testing.T, typ string, rounds int) (event.Event, []event.Round) {
	t.Helper()
	ctx := context.Background()

	evt, err := env.evtSvc.Create(ctx, event.NewEvent{
		Name:            "Byte Battle",
		Description:     "annual flagship coding battle",
		Date:            "2026-09-15",
		Time:            "10:00",
		Location:        "Turing Block",
		MaxParticipants: 4,
		ByteCoins:       100,
		Type:            typ,
	}, core.Image{})
	require.NoError(t, err)

	created := make([]event.Round, 0, rounds)
	for i := 1; i <= rounds; i++ {
		rnd, err := env.evtSvc.AddRound(ctx, event.NewRound{
			EventID:     evt.ID,
			RoundNumber: i,
			RoundName:   "Round",
			RoundType:   event.RoundTypeQuiz,
			TopX:        2,
		})
		require.NoError(t, err)
		created = append(created, rnd)
	}
	return evt, created
}

func (env *testEnv) createQuiz(t *testing.T, roundID string) quiz.Quiz {
	t.Helper()
	q, err := env.quizSvc.Create(context.Background(), quiz.NewQuiz{
		RoundID: roundID,
		Questions: []quiz.NewQuestion{
			{Text: "q1", Options: []string{"a", "b", "c", "d"}, CorrectOption: 1},
			{Text: "q2", Options: []string{"a", "b", "c", "d"}, CorrectOption: 2},
			{Text: "q3", Options: []string{"a", "b", "c", "d"}, CorrectOption: 3},
		},
	})
	require.NoError(t, err)
	return q
}

func TestService_Create(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	_, rounds := env.createEvent(t, event.TypeIndividual, 1)

	t.Run("ok", func(t *testing.T) {
		q := env.createQuiz(t, rounds[0].ID)
		assert.NotEmpty(t, q.ID)
		assert.Len(t, q.Questions, 3)
	})

	t.Run("duplicate quiz rejected", func(t *testing.T) {
		_, err := env.quizSvc.Create(ctx, quiz.NewQuiz{
			RoundID: rounds[0].ID,
			Questions: []quiz.NewQuestion{
				{Text: "q", Options: []string{"a", "b", "c", "d"}, CorrectOption: 0},
			},
		})
		assert.IsType(t, &core.ValidationError{}, err)
	})

	t.Run("unknown round", func(t *testing.T) {
		_, err := env.quizSvc.Create(ctx, quiz.NewQuiz{
			RoundID: "ffffffffffffffffffffffff",
			Questions: []quiz.NewQuestion{
				{Text: "q", Options: []string{"a", "b", "c", "d"}, CorrectOption: 0},
			},
		})
		assert.Equal(t, event.ErrRoundNotFound, err)
	})
}

func TestService_GetByRound(t *testing.T) {
	env := setup(t)
	_, rounds := env.createEvent(t, event.TypeIndividual, 1)

	t.Run("none is a 404", func(t *testing.T) {
		_, err := env.quizSvc.GetByRound(context.Background(), rounds[0].ID)
		assert.IsType(t, &core.NotFoundError{}, err)
	})

	t.Run("ok", func(t *testing.T) {
		env.createQuiz(t, rounds[0].ID)
		quizzes, err := env.quizSvc.GetByRound(context.Background(), rounds[0].ID)
		require.NoError(t, err)
		assert.Len(t, quizzes, 1)
	})
}

func TestService_Submit_individual(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	evt, rounds := env.createEvent(t, event.TypeIndividual, 2)
	usr := env.createUser(t, "alice", 2210991)
	outsider := env.createUser(t, "mallory", 2210992)
	env.createQuiz(t, rounds[0].ID)

	_, err := env.evtSvc.SeedFirstRound(ctx, event.FirstRoundSelection{
		EventID: evt.ID,
		UserIDs: []string{usr.ID},
	})
	require.NoError(t, err)

	t.Run("unqualified submitter is forbidden", func(t *testing.T) {
		_, err := env.quizSvc.Submit(ctx, quiz.Submission{RoundID: rounds[0].ID, Answers: []int{1, 2, 3}}, outsider.ID)
		assert.IsType(t, &core.ForbiddenError{}, err)
	})

	t.Run("scored submission updates round and global points", func(t *testing.T) {
		result, err := env.quizSvc.Submit(ctx, quiz.Submission{RoundID: rounds[0].ID, Answers: []int{1, 2, 0}}, usr.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, result.Score)
		assert.True(t, result.Advanced)

		rnd, err := env.rounds.GetRoundByID(ctx, rounds[0].ID)
		require.NoError(t, err)
		require.Len(t, rnd.QualifiedUsers, 1)
		assert.Equal(t, 2, rnd.QualifiedUsers[0].RoundPoints)

		// +10 first round seed, +2 quiz score
		scored, err := env.usrRepo.GetUserByID(ctx, usr.ID)
		require.NoError(t, err)
		assert.Equal(t, 12, scored.Points)
	})

	t.Run("next round is reseeded from the standings", func(t *testing.T) {
		next, err := env.rounds.GetRoundByID(ctx, rounds[1].ID)
		require.NoError(t, err)
		require.Len(t, next.QualifiedUsers, 1)
		assert.Equal(t, usr.ID, next.QualifiedUsers[0].UserID)
		assert.Equal(t, 0, next.QualifiedUsers[0].RoundPoints)
	})

	t.Run("missing quiz is a 404", func(t *testing.T) {
		_, err := env.quizSvc.Submit(ctx, quiz.Submission{RoundID: rounds[1].ID, Answers: []int{0}}, usr.ID)
		assert.IsType(t, &core.NotFoundError{}, err)
	})

	t.Run("final round has nothing to advance to", func(t *testing.T) {
		env.createQuiz(t, rounds[1].ID)
		result, err := env.quizSvc.Submit(ctx, quiz.Submission{RoundID: rounds[1].ID, Answers: []int{1, 2, 3}}, usr.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, result.Score)
		assert.False(t, result.Advanced)
		assert.True(t, result.FinalTier)
	})
}

func TestService_Submit_team(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	evt, rounds := env.createEvent(t, event.TypeTeam, 2)
	leader := env.createUser(t, "lead", 2210001)
	mate := env.createUser(t, "mate", 2210002)
	env.createQuiz(t, rounds[0].ID)

	tm, err := env.teamSvc.Create(ctx, team.NewTeam{Name: "ByteForce", EventID: evt.ID}, leader.ID)
	require.NoError(t, err)
	tm, err = env.teamSvc.AddMember(ctx, team.AddMember{TeamID: tm.ID, MemberRollNo: mate.RollNo}, leader.ID)
	require.NoError(t, err)

	// qualify the team into round 1 via an attendance scan
	_, err = env.evtSvc.ScanQR(ctx, core.QRData(tm.ID, evt.ID))
	require.NoError(t, err)

	t.Run("non-leader cannot submit", func(t *testing.T) {
		_, err := env.quizSvc.Submit(ctx, quiz.Submission{RoundID: rounds[0].ID, Answers: []int{1, 2, 3}}, mate.ID)
		assert.IsType(t, &core.ForbiddenError{}, err)
	})

	t.Run("leader submission scores every member", func(t *testing.T) {
		result, err := env.quizSvc.Submit(ctx, quiz.Submission{RoundID: rounds[0].ID, Answers: []int{1, 2, 3}}, leader.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, result.Score)

		rnd, err := env.rounds.GetRoundByID(ctx, rounds[0].ID)
		require.NoError(t, err)
		require.Len(t, rnd.QualifiedTeams, 1)
		assert.Equal(t, 3, rnd.QualifiedTeams[0].RoundPoints)

		for _, id := range []string{leader.ID, mate.ID} {
			member, err := env.usrRepo.GetUserByID(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, 3, member.Points)
		}

		next, err := env.rounds.GetRoundByID(ctx, rounds[1].ID)
		require.NoError(t, err)
		require.Len(t, next.QualifiedTeams, 1)
		assert.Equal(t, tm.ID, next.QualifiedTeams[0].TeamID)
	})
}
