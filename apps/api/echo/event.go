package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/campuskit/bytehub/core/event"
	"github.com/campuskit/bytehub/core/user"
)

type eventApi struct {
	deps ServerDeps
}

func registerEventAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := eventApi{deps: deps}

	eg := g.Group("/events")

	// public catalog
	eg.GET("", api.query)
	eg.GET("/:id", api.retrieve)

	ag := eg.Group("", jwt)
	ag.POST("/register", api.register)

	staff := adminMiddleware()
	ag.POST("/create", api.create, staff)
	ag.POST("/add-round", api.addRound, staff)
	ag.POST("/qualify", api.manualQualify, staff)
	ag.POST("/manualQualify", api.manualQualify, staff)
	ag.POST("/selected", api.seedFirstRound, staff)
	ag.POST("/updateStatus", api.updateStatus, staff)
	ag.GET("/recentRegistrations", api.recentRegistrations, staff)
	ag.POST("/scanQR", api.scanQR, adminMiddleware(user.RoleAdmin))
}

func (api *eventApi) create(ctx echo.Context) error {
	var data event.NewEvent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEvent")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	fh, err := ctx.FormFile("image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "event image is required")
	}
	image, err := uploadFile(ctx, api.deps.FileStore, fh, "events")
	if err != nil {
		return errors.Wrap(err, "uploading event image")
	}

	evt, err := api.deps.EventSvc.Create(ctx.Request().Context(), data, image)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, evt)
}

func (api *eventApi) addRound(ctx echo.Context) error {
	var data event.NewRound
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRound")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	rnd, err := api.deps.EventSvc.AddRound(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, rnd)
}

func (api *eventApi) query(ctx echo.Context) error {
	events, err := api.deps.EventSvc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying events")
	}
	return ctx.JSON(http.StatusOK, events)
}

func (api *eventApi) retrieve(ctx echo.Context) error {
	detail, err := api.deps.EventSvc.GetDetail(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, detail)
}

func (api *eventApi) register(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data event.Registration
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Registration")
	}
	if err = data.Validate(api.deps.Validate); err != nil {
		return err
	}

	evt, err := api.deps.EventSvc.Register(ctx.Request().Context(), data, claims.Subject)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, evt)
}

func (api *eventApi) manualQualify(ctx echo.Context) error {
	var data event.ManualSelection
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ManualSelection")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	rnd, admitted, err := api.deps.EventSvc.ManualSelect(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, SelectionResponse{Admitted: admitted, Round: rnd})
}

func (api *eventApi) seedFirstRound(ctx echo.Context) error {
	var data event.FirstRoundSelection
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to FirstRoundSelection")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	rnd, err := api.deps.EventSvc.SeedFirstRound(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, rnd)
}

func (api *eventApi) updateStatus(ctx echo.Context) error {
	var data event.StatusUpdate
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StatusUpdate")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	evt, err := api.deps.EventSvc.UpdateStatus(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, evt)
}

func (api *eventApi) recentRegistrations(ctx echo.Context) error {
	regs, err := api.deps.EventSvc.RecentRegistrations(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying recent registrations")
	}
	return ctx.JSON(http.StatusOK, regs)
}

func (api *eventApi) scanQR(ctx echo.Context) error {
	var data event.ScanRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ScanRequest")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	result, err := api.deps.EventSvc.ScanQR(ctx.Request().Context(), data.QRData)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, result)
}
