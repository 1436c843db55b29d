package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	echoapi "github.com/campuskit/bytehub/apps/api/echo"
	"github.com/campuskit/bytehub/core"
	"github.com/campuskit/bytehub/core/content"
	"github.com/campuskit/bytehub/core/event"
	"github.com/campuskit/bytehub/core/quiz"
	"github.com/campuskit/bytehub/core/team"
	"github.com/campuskit/bytehub/core/user"
	emailsvc "github.com/campuskit/bytehub/services/email"
	logsvc "github.com/campuskit/bytehub/services/logger"
	uploadsvc "github.com/campuskit/bytehub/services/upload"
	"github.com/campuskit/bytehub/storage/mongodb"
)

var build = "develop" // set on build

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig(build)

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	// set up DB
	db, err := mongodb.Open(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(context.Background()); err != nil {
			logger.Error(fmt.Sprintf("closing database: %v", err), err)
		}
	}()

	// set up repositories
	usrRepo := mongodb.NewUserRepository(db)
	admRepo := mongodb.NewAdminRepository(db)
	evtRepo := mongodb.NewEventRepository(db)
	rndRepo := mongodb.NewRoundRepository(db)
	quizRepo := mongodb.NewQuizRepository(db)
	teamRepo := mongodb.NewTeamRepository(db)
	contentRepo := mongodb.NewContentRepository(db)

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}
	fileStore, err := uploadsvc.NewCloudinaryService(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up file store: %v", err), err)
	}

	usrSvc := user.NewService(usrRepo, admRepo, conf)
	teamSvc := team.NewService(teamRepo, usrRepo, evtRepo, mailSvc)
	evtSvc := event.NewService(evtRepo, rndRepo, usrRepo, teamRepo, mailSvc)
	quizSvc := quiz.NewService(quizRepo, contentRepo, evtSvc, usrRepo, teamRepo, conf)
	contentSvc := content.NewService(contentRepo)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:       conf,
			Logger:     logger,
			UserSvc:    usrSvc,
			EventSvc:   evtSvc,
			QuizSvc:    quizSvc,
			TeamSvc:    teamSvc,
			ContentSvc: contentSvc,
			FileStore:  fileStore,
			Validate:   validate,
			Translator: translator,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
