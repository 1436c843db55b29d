package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/campuskit/bytehub/core/team"
)

type teamApi struct {
	deps ServerDeps
}

func registerTeamAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := teamApi{deps: deps}

	tg := g.Group("/team", jwt)
	tg.POST("/create", api.create)
	tg.POST("/add-member", api.addMember)
	tg.GET("", api.query, adminMiddleware())
}

func (api *teamApi) create(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data team.NewTeam
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTeam")
	}
	if err = data.Validate(api.deps.Validate); err != nil {
		return err
	}

	t, err := api.deps.TeamSvc.Create(ctx.Request().Context(), data, claims.Subject)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, t)
}

func (api *teamApi) addMember(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data team.AddMember
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AddMember")
	}
	if err = data.Validate(api.deps.Validate); err != nil {
		return err
	}

	t, err := api.deps.TeamSvc.AddMember(ctx.Request().Context(), data, claims.Subject)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *teamApi) query(ctx echo.Context) error {
	teams, err := api.deps.TeamSvc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying teams")
	}
	return ctx.JSON(http.StatusOK, teams)
}
