package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/campuskit/bytehub/core/event"
	"github.com/campuskit/bytehub/core/user"
)

type adminApi struct {
	deps ServerDeps
}

func registerAdminAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := adminApi{deps: deps}

	ag := g.Group("/admin")

	// public club page content
	ag.GET("/clubHeads", api.clubHeads)
	ag.GET("/gallery", api.gallery)

	// open admin bootstrap
	ag.POST("/register/admin", api.registerAdmin)

	sg := ag.Group("", jwt)
	sg.POST("/register/core-team", api.registerCoreTeam, adminMiddleware(user.RoleAdmin))
	sg.GET("/stats", api.stats, adminMiddleware())
}

func (api *adminApi) registerAdmin(ctx echo.Context) error {
	return api.registerStaff(ctx, user.RoleAdmin)
}

func (api *adminApi) registerCoreTeam(ctx echo.Context) error {
	return api.registerStaff(ctx, user.RoleCoreTeam)
}

func (api *adminApi) registerStaff(ctx echo.Context, role string) error {
	var data user.NewAdmin
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAdmin")
	}
	data.Role = role
	if err := data.Validate(api.deps.Validate, api.deps.UserSvc); err != nil {
		return err
	}

	adm, err := api.deps.UserSvc.RegisterAdmin(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "registering admin")
	}
	return ctx.JSON(http.StatusCreated, adm)
}

func (api *adminApi) stats(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	totalUsers, err := api.deps.UserSvc.Count(reqCtx)
	if err != nil {
		return errors.Wrap(err, "counting users")
	}
	ongoing, err := api.deps.EventSvc.CountByStatus(reqCtx, event.StatusOngoing)
	if err != nil {
		return errors.Wrap(err, "counting ongoing events")
	}
	completed, err := api.deps.EventSvc.CountByStatus(reqCtx, event.StatusCompleted)
	if err != nil {
		return errors.Wrap(err, "counting completed events")
	}
	totalPoints, err := api.deps.UserSvc.TotalPoints(reqCtx)
	if err != nil {
		return errors.Wrap(err, "summing user points")
	}

	return ctx.JSON(http.StatusOK, StatsResponse{
		TotalUsers:      totalUsers,
		OngoingEvents:   ongoing,
		CompletedEvents: completed,
		TotalPoints:     totalPoints,
	})
}

func (api *adminApi) clubHeads(ctx echo.Context) error {
	heads, err := api.deps.ContentSvc.ClubHeads(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying club heads")
	}
	return ctx.JSON(http.StatusOK, heads)
}

func (api *adminApi) gallery(ctx echo.Context) error {
	entries, err := api.deps.ContentSvc.Gallery(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying gallery")
	}
	return ctx.JSON(http.StatusOK, entries)
}
