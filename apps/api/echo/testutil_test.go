package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/bytehub/core"
	"github.com/campuskit/bytehub/core/content"
	"github.com/campuskit/bytehub/core/event"
	"github.com/campuskit/bytehub/core/quiz"
	"github.com/campuskit/bytehub/core/team"
	"github.com/campuskit/bytehub/core/user"
	emailsvc "github.com/campuskit/bytehub/services/email"
	logsvc "github.com/campuskit/bytehub/services/logger"
	uploadsvc "github.com/campuskit/bytehub/services/upload"
	dummydb "github.com/campuskit/bytehub/storage/dummy"
)

type testServer struct {
	srv  Server
	conf *core.Config

	usrSvc  *user.Service
	evtSvc  *event.Service
	quizSvc *quiz.Service
	teamSvc *team.Service

	rounds event.RoundRepository
}

func setupAPI(t *testing.T) *testServer {
	t.Helper()

	db, err := dummydb.Open()
	require.NoError(t, err)

	conf := &core.Config{
		AppName:   "ByteHub",
		TestMode:  true,
		Env:       "TEST",
		SecretKey: []byte("test-secret-key"),
		Semester:  "spring-2026",
		Server: core.ServerConfig{
			JWTExpirationDelta: time.Hour,
			// keep the throttle out of the way
			RateLimit: 1000,
			RateBurst: 1000,
		},
	}

	usrRepo := dummydb.NewUserRepository(db)
	admRepo := dummydb.NewAdminRepository(db)
	evtRepo := dummydb.NewEventRepository(db)
	rndRepo := dummydb.NewRoundRepository(db)
	quizRepo := dummydb.NewQuizRepository(db)
	teamRepo := dummydb.NewTeamRepository(db)
	contentRepo := dummydb.NewContentRepository(db)
	mailSvc := emailsvc.NewConsoleServiceMock(conf)

	usrSvc := user.NewService(usrRepo, admRepo, conf)
	evtSvc := event.NewService(evtRepo, rndRepo, usrRepo, teamRepo, mailSvc)
	quizSvc := quiz.NewService(quizRepo, contentRepo, evtSvc, usrRepo, teamRepo, conf)
	teamSvc := team.NewService(teamRepo, usrRepo, evtRepo, mailSvc)
	contentSvc := content.NewService(contentRepo)

	lang := en.New()
	translator, found := ut.New(lang, lang).GetTranslator(lang.Locale())
	require.True(t, found)
	validate := validator.New()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	appLogger := logsvc.NewRollbarLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags), conf)
	appLogger.Enable(false)

	srv := NewServer(ServerDeps{
		Conf:           conf,
		Logger:         appLogger,
		UserSvc:        usrSvc,
		EventSvc:       evtSvc,
		QuizSvc:        quizSvc,
		TeamSvc:        teamSvc,
		ContentSvc:     contentSvc,
		FileStore:      uploadsvc.NewDummyService(),
		Validate:       validate,
		Translator:     translator,
		DisableReqLogs: true,
	})

	return &testServer{
		srv:     srv,
		conf:    conf,
		usrSvc:  usrSvc,
		evtSvc:  evtSvc,
		quizSvc: quizSvc,
		teamSvc: teamSvc,
		rounds:  rndRepo,
	}
}

func (ts *testServer) createUser(t *testing.T, name string, rollNo int) (user.User, string) {
	t.Helper()

	usr, err := ts.usrSvc.Register(context.Background(), user.NewUser{
		Name:            name,
		Email:           name + "@chitkara.edu.in",
		RollNo:          rollNo,
		Phone:           "9876543210",
		Department:      "CSE",
		Year:            2,
		Group:           5,
		Password:        "s3cur3-p4ss!",
		PasswordConfirm: "s3cur3-p4ss!",
	})
	require.NoError(t, err)

	token, err := GenerateToken(ts.conf, GetUserClaims(ts.conf, usr))
	require.NoError(t, err)
	return usr, token
}

func (ts *testServer) createAdmin(t *testing.T, name, role string) (user.Admin, string) {
	t.Helper()

	adm, err := ts.usrSvc.RegisterAdmin(context.Background(), user.NewAdmin{
		Name:     name,
		Email:    name + "@club.org",
		Password: "adm1n-s3cret",
		Role:     role,
	})
	require.NoError(t, err)

	token, err := GenerateToken(ts.conf, GetAdminClaims(ts.conf, adm))
	require.NoError(t, err)
	return adm, token
}

func (ts *testServer) createEvent(t *testing.T, typ string) event.Event {
	t.Helper()

	evt, err := ts.evtSvc.Create(context.Background(), event.NewEvent{
		Name:            "Code Rush",
		Description:     "timed problem solving rush",
		Date:            "2026-09-20",
		Time:            "11:00",
		Location:        "Audi 1",
		MaxParticipants: 4,
		ByteCoins:       75,
		Type:            typ,
	}, core.Image{})
	require.NoError(t, err)
	return evt
}

func (ts *testServer) addRound(t *testing.T, eventID string, number int) event.Round {
	t.Helper()

	rnd, err := ts.evtSvc.AddRound(context.Background(), event.NewRound{
		EventID:     eventID,
		RoundNumber: number,
		RoundName:   "Stage",
		RoundType:   event.RoundTypeQuiz,
		TopX:        2,
	})
	require.NoError(t, err)
	return rnd
}

func (ts *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	ts.srv.ServeHTTP(rec, req)
	return rec
}

func newRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	return req
}

func newAuthRequest(t *testing.T, method, path, token string, body interface{}) *http.Request {
	t.Helper()

	req := newRequest(t, method, path, body)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	return req
}

// newMultipartRequest builds a multipart/form-data request from string fields
// plus one dummy PNG per given file field.
func newMultipartRequest(t *testing.T, method, path, token string, fields map[string]string, fileFields ...string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, value := range fields {
		require.NoError(t, mw.WriteField(name, value))
	}
	for _, name := range fileFields {
		fw, err := mw.CreateFormFile(name, "pic.png")
		require.NoError(t, err)
		_, err = fw.Write([]byte("\x89PNG\r\n\x1a\nfake"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	return req
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, into interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), into))
}

func checkCode(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	assert.Equal(t, want, rec.Code, "unexpected status: body=%s", rec.Body.String())
}
