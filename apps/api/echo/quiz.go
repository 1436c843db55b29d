package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/campuskit/bytehub/core"
	"github.com/campuskit/bytehub/core/quiz"
)

type quizApi struct {
	deps ServerDeps
}

func registerQuizAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := quizApi{deps: deps}

	qg := g.Group("/quiz", jwt)
	qg.POST("/create", api.create, adminMiddleware())
	qg.GET("/getQuiz/:roundId", api.getByRound)
	qg.POST("/submit", api.submit)
}

func (api *quizApi) create(ctx echo.Context) error {
	var data quiz.NewQuiz
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewQuiz")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	q, err := api.deps.QuizSvc.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, q)
}

func (api *quizApi) getByRound(ctx echo.Context) error {
	roundID := ctx.Param("roundId")
	if !core.IsHexID(roundID) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid round id")
	}

	quizzes, err := api.deps.QuizSvc.GetByRound(ctx.Request().Context(), roundID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, quizzes)
}

func (api *quizApi) submit(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data quiz.Submission
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Submission")
	}
	if err = data.Validate(api.deps.Validate); err != nil {
		return err
	}

	result, err := api.deps.QuizSvc.Submit(ctx.Request().Context(), data, claims.Subject)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, result)
}
