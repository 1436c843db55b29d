package echoapi

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/bytehub/core"
	"github.com/campuskit/bytehub/core/event"
	"github.com/campuskit/bytehub/core/quiz"
	"github.com/campuskit/bytehub/core/team"
	"github.com/campuskit/bytehub/core/user"
)

func TestServer_home(t *testing.T) {
	ts := setupAPI(t)

	rec := ts.do(newRequest(t, http.MethodGet, "/", nil))
	checkCode(t, rec, http.StatusOK)
	assert.Equal(t, "Welcome to ByteHub API!", rec.Body.String())
}

func TestAuthAPI_login(t *testing.T) {
	ts := setupAPI(t)
	ts.createUser(t, "ravi", 2220001)
	ts.createAdmin(t, "chief", user.RoleAdmin)

	tests := []struct {
		name     string
		body     LoginRequest
		wantCode int
	}{
		{"student ok", LoginRequest{Email: "ravi@chitkara.edu.in", Password: "s3cur3-p4ss!"}, http.StatusOK},
		{"student wrong password", LoginRequest{Email: "ravi@chitkara.edu.in", Password: "nope"}, http.StatusBadRequest},
		{"unknown account", LoginRequest{Email: "ghost@chitkara.edu.in", Password: "s3cur3-p4ss!"}, http.StatusBadRequest},
		{"admin ok", LoginRequest{Email: "chief@club.org", Password: "adm1n-s3cret", Role: user.RoleAdmin}, http.StatusOK},
		{"admin with wrong role", LoginRequest{Email: "chief@club.org", Password: "adm1n-s3cret", Role: user.RoleCoreTeam}, http.StatusBadRequest},
		{"student with admin role", LoginRequest{Email: "ravi@chitkara.edu.in", Password: "s3cur3-p4ss!", Role: user.RoleAdmin}, http.StatusBadRequest},
		{"missing fields", LoginRequest{}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(newRequest(t, http.MethodPost, "/api/auth/login", tt.body))
			checkCode(t, rec, tt.wantCode)

			if tt.wantCode == http.StatusOK {
				var resp LoginResponse
				decodeJSON(t, rec, &resp)
				assert.NotEmpty(t, resp.Token)
			}
		})
	}
}

func TestUserAPI(t *testing.T) {
	ts := setupAPI(t)

	t.Run("register", func(t *testing.T) {
		body := map[string]interface{}{
			"name":             "meera",
			"email":            "meera@chitkara.edu.in",
			"roll_no":          2220101,
			"phone":            "9876543210",
			"department":       "CSE-AI",
			"year":             1,
			"group":            9,
			"password":         "s3cur3-p4ss!",
			"password_confirm": "s3cur3-p4ss!",
		}
		rec := ts.do(newRequest(t, http.MethodPost, "/api/users/register", body))
		checkCode(t, rec, http.StatusCreated)

		var usr user.User
		decodeJSON(t, rec, &usr)
		assert.NotEmpty(t, usr.ID)

		t.Run("duplicate email", func(t *testing.T) {
			body["roll_no"] = 2220102
			rec := ts.do(newRequest(t, http.MethodPost, "/api/users/register", body))
			checkCode(t, rec, http.StatusBadRequest)

			var fields map[string]string
			decodeJSON(t, rec, &fields)
			assert.Contains(t, fields, "email")
		})

		t.Run("weak password", func(t *testing.T) {
			body["email"] = "other@chitkara.edu.in"
			body["password"] = "123"
			body["password_confirm"] = "123"
			rec := ts.do(newRequest(t, http.MethodPost, "/api/users/register", body))
			checkCode(t, rec, http.StatusBadRequest)
		})
	})

	usr, token := ts.createUser(t, "arjun", 2220201)

	t.Run("me", func(t *testing.T) {
		rec := ts.do(newAuthRequest(t, http.MethodGet, "/api/users/me", token, nil))
		checkCode(t, rec, http.StatusOK)

		var got user.User
		decodeJSON(t, rec, &got)
		assert.Equal(t, usr.ID, got.ID)
		assert.Empty(t, got.PasswordHash)
	})

	t.Run("me without token", func(t *testing.T) {
		rec := ts.do(newRequest(t, http.MethodGet, "/api/users/me", nil))
		checkCode(t, rec, http.StatusUnauthorized)
	})

	t.Run("update own profile", func(t *testing.T) {
		rec := ts.do(newAuthRequest(t, http.MethodPut, "/api/users/"+usr.ID, token, map[string]interface{}{"year": 3}))
		checkCode(t, rec, http.StatusOK)

		var got user.User
		decodeJSON(t, rec, &got)
		assert.Equal(t, 3, got.Year)
	})

	t.Run("update someone else", func(t *testing.T) {
		other, _ := ts.createUser(t, "devi", 2220202)
		rec := ts.do(newAuthRequest(t, http.MethodPut, "/api/users/"+other.ID, token, map[string]interface{}{"year": 4}))
		checkCode(t, rec, http.StatusForbidden)
	})
}

func TestEventAPI(t *testing.T) {
	ts := setupAPI(t)
	_, adminToken := ts.createAdmin(t, "chair", user.RoleAdmin)
	_, coreToken := ts.createAdmin(t, "crew", user.RoleCoreTeam)
	usr, userToken := ts.createUser(t, "tara", 2220301)

	eventFields := map[string]string{
		"name":             "Debug Derby",
		"description":      "find the planted bugs first",
		"date":             "2026-10-10",
		"time":             "14:00",
		"location":         "Lab 3",
		"max_participants": "4",
		"byte_coins":       "60",
		"type":             "individual",
	}

	t.Run("create needs staff", func(t *testing.T) {
		rec := ts.do(newMultipartRequest(t, http.MethodPost, "/api/events/create", userToken, eventFields, "image"))
		checkCode(t, rec, http.StatusForbidden)
	})

	t.Run("create needs an image", func(t *testing.T) {
		rec := ts.do(newMultipartRequest(t, http.MethodPost, "/api/events/create", adminToken, eventFields))
		checkCode(t, rec, http.StatusBadRequest)
	})

	var evt event.Event
	t.Run("create", func(t *testing.T) {
		rec := ts.do(newMultipartRequest(t, http.MethodPost, "/api/events/create", adminToken, eventFields, "image"))
		checkCode(t, rec, http.StatusCreated)

		decodeJSON(t, rec, &evt)
		assert.NotEmpty(t, evt.ID)
		assert.Equal(t, event.StatusUpcoming, evt.Status)
		assert.NotEmpty(t, evt.Image.URL)
	})

	var rnd event.Round
	t.Run("add round", func(t *testing.T) {
		rec := ts.do(newAuthRequest(t, http.MethodPost, "/api/events/add-round", adminToken, event.NewRound{
			EventID:     evt.ID,
			RoundNumber: 1,
			RoundName:   "Screening",
			RoundType:   event.RoundTypeQuiz,
			TopX:        2,
		}))
		checkCode(t, rec, http.StatusCreated)
		decodeJSON(t, rec, &rnd)
	})

	t.Run("catalog is public", func(t *testing.T) {
		rec := ts.do(newRequest(t, http.MethodGet, "/api/events", nil))
		checkCode(t, rec, http.StatusOK)

		var overviews []event.Overview
		decodeJSON(t, rec, &overviews)
		require.Len(t, overviews, 1)
		assert.Equal(t, 1, overviews[0].TotalRounds)
	})

	t.Run("detail", func(t *testing.T) {
		rec := ts.do(newRequest(t, http.MethodGet, "/api/events/"+evt.ID, nil))
		checkCode(t, rec, http.StatusOK)

		var detail event.Detail
		decodeJSON(t, rec, &detail)
		require.Len(t, detail.Rounds, 1)
	})

	t.Run("unknown event detail", func(t *testing.T) {
		rec := ts.do(newRequest(t, http.MethodGet, "/api/events/ffffffffffffffffffffffff", nil))
		checkCode(t, rec, http.StatusNotFound)
	})

	t.Run("register", func(t *testing.T) {
		rec := ts.do(newAuthRequest(t, http.MethodPost, "/api/events/register", userToken, event.Registration{EventID: evt.ID}))
		checkCode(t, rec, http.StatusOK)

		t.Run("twice", func(t *testing.T) {
			rec := ts.do(newAuthRequest(t, http.MethodPost, "/api/events/register", userToken, event.Registration{EventID: evt.ID}))
			checkCode(t, rec, http.StatusBadRequest)
		})
	})

	t.Run("scanQR is admin only", func(t *testing.T) {
		body := event.ScanRequest{QRData: core.QRData(usr.ID, evt.ID)}

		rec := ts.do(newAuthRequest(t, http.MethodPost, "/api/events/scanQR", coreToken, body))
		checkCode(t, rec, http.StatusForbidden)

		rec = ts.do(newAuthRequest(t, http.MethodPost, "/api/events/scanQR", adminToken, body))
		checkCode(t, rec, http.StatusOK)

		var result event.ScanResult
		decodeJSON(t, rec, &result)
		assert.False(t, result.AlreadyQualified)
	})

	t.Run("manual qualify", func(t *testing.T) {
		other, _ := ts.createUser(t, "vans", 2220302)

		rec := ts.do(newAuthRequest(t, http.MethodPost, "/api/events/qualify", coreToken, event.ManualSelection{
			UserIDs:     []string{other.ID},
			NextRoundID: rnd.ID,
			Action:      event.ActionAccept,
		}))
		checkCode(t, rec, http.StatusOK)

		var resp SelectionResponse
		decodeJSON(t, rec, &resp)
		assert.Equal(t, 1, resp.Admitted)
	})

	t.Run("recent registrations", func(t *testing.T) {
		rec := ts.do(newAuthRequest(t, http.MethodGet, "/api/events/recentRegistrations", adminToken, nil))
		checkCode(t, rec, http.StatusOK)

		var regs []event.RecentRegistration
		decodeJSON(t, rec, &regs)
		require.Len(t, regs, 1)
		assert.Equal(t, "tara", regs[0].User)
	})

	t.Run("update status", func(t *testing.T) {
		rec := ts.do(newAuthRequest(t, http.MethodPost, "/api/events/updateStatus", adminToken, event.StatusUpdate{
			EventID: evt.ID,
			Status:  event.StatusOngoing,
		}))
		checkCode(t, rec, http.StatusOK)
	})
}

func TestQuizAPI(t *testing.T) {
	ts := setupAPI(t)
	_, adminToken := ts.createAdmin(t, "quizmaster", user.RoleAdmin)
	usr, userToken := ts.createUser(t, "zoya", 2220401)

	evt := ts.createEvent(t, event.TypeIndividual)
	rnd := ts.addRound(t, evt.ID, 1)

	_, err := ts.evtSvc.SeedFirstRound(context.Background(), event.FirstRoundSelection{
		EventID: evt.ID,
		UserIDs: []string{usr.ID},
	})
	require.NoError(t, err)

	newQuiz := quiz.NewQuiz{
		RoundID: rnd.ID,
		Questions: []quiz.NewQuestion{
			{Text: "what does CAS stand for", Options: []string{"a", "b", "c", "d"}, CorrectOption: 2},
			{Text: "pick the even prime", Options: []string{"1", "2", "3", "5"}, CorrectOption: 1},
		},
	}

	t.Run("create needs staff", func(t *testing.T) {
		rec := ts.do(newAuthRequest(t, http.MethodPost, "/api/quiz/create", userToken, newQuiz))
		checkCode(t, rec, http.StatusForbidden)
	})

	t.Run("create", func(t *testing.T) {
		rec := ts.do(newAuthRequest(t, http.MethodPost, "/api/quiz/create", adminToken, newQuiz))
		checkCode(t, rec, http.StatusCreated)
	})

	t.Run("get by round", func(t *testing.T) {
		rec := ts.do(newAuthRequest(t, http.MethodGet, "/api/quiz/getQuiz/"+rnd.ID, userToken, nil))
		checkCode(t, rec, http.StatusOK)

		var quizzes []quiz.Quiz
		decodeJSON(t, rec, &quizzes)
		require.Len(t, quizzes, 1)
		assert.Len(t, quizzes[0].Questions, 2)
	})

	t.Run("get with malformed round id", func(t *testing.T) {
		rec := ts.do(newAuthRequest(t, http.MethodGet, "/api/quiz/getQuiz/not-an-id", userToken, nil))
		checkCode(t, rec, http.StatusBadRequest)
	})

	t.Run("submit", func(t *testing.T) {
		rec := ts.do(newAuthRequest(t, http.MethodPost, "/api/quiz/submit", userToken, quiz.Submission{
			RoundID: rnd.ID,
			Answers: []int{2, 0},
		}))
		checkCode(t, rec, http.StatusOK)

		var result quiz.SubmitResult
		decodeJSON(t, rec, &result)
		assert.Equal(t, 1, result.Score)
		assert.True(t, result.FinalTier)
	})

	t.Run("submit by outsider", func(t *testing.T) {
		_, outsiderToken := ts.createUser(t, "noor", 2220402)
		rec := ts.do(newAuthRequest(t, http.MethodPost, "/api/quiz/submit", outsiderToken, quiz.Submission{
			RoundID: rnd.ID,
			Answers: []int{2, 1},
		}))
		checkCode(t, rec, http.StatusForbidden)
	})
}

func TestTeamAPI(t *testing.T) {
	ts := setupAPI(t)
	_, adminToken := ts.createAdmin(t, "lead", user.RoleAdmin)
	_, leaderToken := ts.createUser(t, "kabir", 2220501)
	mate, mateToken := ts.createUser(t, "esha", 2220502)

	evt := ts.createEvent(t, event.TypeTeam)

	var tm team.Team
	t.Run("create", func(t *testing.T) {
		rec := ts.do(newAuthRequest(t, http.MethodPost, "/api/team/create", leaderToken, team.NewTeam{
			Name:    "SegFaults",
			EventID: evt.ID,
		}))
		checkCode(t, rec, http.StatusCreated)
		decodeJSON(t, rec, &tm)
		assert.NotEmpty(t, tm.ID)
	})

	t.Run("add member", func(t *testing.T) {
		rec := ts.do(newAuthRequest(t, http.MethodPost, "/api/team/add-member", leaderToken, team.AddMember{
			TeamID:       tm.ID,
			MemberRollNo: mate.RollNo,
		}))
		checkCode(t, rec, http.StatusOK)

		var got team.Team
		decodeJSON(t, rec, &got)
		assert.Contains(t, got.Members, mate.ID)
	})

	t.Run("only the leader adds members", func(t *testing.T) {
		rec := ts.do(newAuthRequest(t, http.MethodPost, "/api/team/add-member", mateToken, team.AddMember{
			TeamID:       tm.ID,
			MemberRollNo: 2220503,
		}))
		checkCode(t, rec, http.StatusForbidden)
	})

	t.Run("listing is staff only", func(t *testing.T) {
		rec := ts.do(newAuthRequest(t, http.MethodGet, "/api/team", leaderToken, nil))
		checkCode(t, rec, http.StatusForbidden)

		rec = ts.do(newAuthRequest(t, http.MethodGet, "/api/team", adminToken, nil))
		checkCode(t, rec, http.StatusOK)

		var teams []team.Team
		decodeJSON(t, rec, &teams)
		require.Len(t, teams, 1)
	})
}

func TestAdminAPI(t *testing.T) {
	ts := setupAPI(t)

	var adminToken string
	t.Run("bootstrap admin", func(t *testing.T) {
		rec := ts.do(newRequest(t, http.MethodPost, "/api/admin/register/admin", user.NewAdmin{
			Name:     "First Admin",
			Email:    "first@club.org",
			Password: "adm1n-s3cret",
		}))
		checkCode(t, rec, http.StatusCreated)

		var adm user.Admin
		decodeJSON(t, rec, &adm)
		assert.Equal(t, user.RoleAdmin, adm.Role)

		rec = ts.do(newRequest(t, http.MethodPost, "/api/auth/login", LoginRequest{
			Email: "first@club.org", Password: "adm1n-s3cret", Role: user.RoleAdmin,
		}))
		checkCode(t, rec, http.StatusOK)
		var resp LoginResponse
		decodeJSON(t, rec, &resp)
		adminToken = resp.Token
	})

	t.Run("core team registration is admin gated", func(t *testing.T) {
		body := user.NewAdmin{Name: "Crew", Email: "crew@club.org", Password: "adm1n-s3cret"}

		rec := ts.do(newRequest(t, http.MethodPost, "/api/admin/register/core-team", body))
		checkCode(t, rec, http.StatusUnauthorized)

		rec = ts.do(newAuthRequest(t, http.MethodPost, "/api/admin/register/core-team", adminToken, body))
		checkCode(t, rec, http.StatusCreated)

		var adm user.Admin
		decodeJSON(t, rec, &adm)
		assert.Equal(t, user.RoleCoreTeam, adm.Role)
	})

	t.Run("stats", func(t *testing.T) {
		_, userToken := ts.createUser(t, "sid", 2220601)
		evt := ts.createEvent(t, event.TypeIndividual)
		_, err := ts.evtSvc.UpdateStatus(context.Background(), event.StatusUpdate{EventID: evt.ID, Status: event.StatusOngoing})
		require.NoError(t, err)
		require.NoError(t, ts.usrSvc.AwardPoints(context.Background(), nil, 0)) // no-op

		rec := ts.do(newAuthRequest(t, http.MethodGet, "/api/admin/stats", userToken, nil))
		checkCode(t, rec, http.StatusForbidden)

		rec = ts.do(newAuthRequest(t, http.MethodGet, "/api/admin/stats", adminToken, nil))
		checkCode(t, rec, http.StatusOK)

		var stats StatsResponse
		decodeJSON(t, rec, &stats)
		assert.EqualValues(t, 1, stats.TotalUsers)
		assert.EqualValues(t, 1, stats.OngoingEvents)
		assert.EqualValues(t, 0, stats.CompletedEvents)
	})

	t.Run("club page content is public", func(t *testing.T) {
		rec := ts.do(newRequest(t, http.MethodGet, "/api/admin/clubHeads", nil))
		checkCode(t, rec, http.StatusOK)

		rec = ts.do(newRequest(t, http.MethodGet, "/api/admin/gallery", nil))
		checkCode(t, rec, http.StatusOK)
	})
}

func TestUploadAPI(t *testing.T) {
	ts := setupAPI(t)
	_, adminToken := ts.createAdmin(t, "curator", user.RoleAdmin)
	_, userToken := ts.createUser(t, "pial", 2220701)

	t.Run("club head", func(t *testing.T) {
		fields := map[string]string{"name": "A. Mentor", "designation": "President"}

		rec := ts.do(newMultipartRequest(t, http.MethodPost, "/api/upload/club-head", userToken, fields, "image"))
		checkCode(t, rec, http.StatusForbidden)

		rec = ts.do(newMultipartRequest(t, http.MethodPost, "/api/upload/club-head", adminToken, fields, "image"))
		checkCode(t, rec, http.StatusCreated)

		list := ts.do(newRequest(t, http.MethodGet, "/api/admin/clubHeads", nil))
		checkCode(t, list, http.StatusOK)
		assert.Contains(t, list.Body.String(), "A. Mentor")
	})

	t.Run("event gallery", func(t *testing.T) {
		fields := map[string]string{
			"event_name": "Byte Battle 2025",
			"event_date": "2025-11-02",
			"event_type": "individual",
		}
		rec := ts.do(newMultipartRequest(t, http.MethodPost, "/api/upload/event-gallery", adminToken, fields, "images", "images"))
		checkCode(t, rec, http.StatusCreated)

		list := ts.do(newRequest(t, http.MethodGet, "/api/admin/gallery", nil))
		checkCode(t, list, http.StatusOK)
		assert.Contains(t, list.Body.String(), "Byte Battle 2025")
	})
}
