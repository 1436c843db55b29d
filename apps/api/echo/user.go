package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/campuskit/bytehub/core"
	"github.com/campuskit/bytehub/core/user"
)

type authApi struct {
	deps ServerDeps
}

func registerAuthAPI(g *echo.Group, deps ServerDeps) {
	api := authApi{deps: deps}

	ag := g.Group("/auth")
	ag.POST("/login", api.login)
}

// login authenticates students and staff alike; the requested role picks the
// account table checked.
func (api *authApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	var claims *Claims
	switch data.Role {
	case user.RoleAdmin, user.RoleCoreTeam:
		adm, err := api.deps.UserSvc.AuthenticateAdmin(ctx.Request().Context(), data.Email, data.Password, data.Role)
		if err != nil {
			return errAuthenticationFailed
		}
		claims = GetAdminClaims(api.deps.Conf, adm)
	default:
		usr, err := api.deps.UserSvc.AuthenticateUser(ctx.Request().Context(), data.Email, data.Password)
		if err != nil {
			return errAuthenticationFailed
		}
		claims = GetUserClaims(api.deps.Conf, usr)
	}

	token, err := GenerateToken(api.deps.Conf, claims)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

type userApi struct {
	deps ServerDeps
}

func registerUserAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := userApi{deps: deps}

	ug := g.Group("/users")

	// un-authed endpoints
	ug.POST("/register", api.register)

	// authed endpoints
	ag := ug.Group("", jwt)
	ag.GET("/me", api.me)
	ag.PUT("/:id", api.update)
}

func (api *userApi) register(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	if err := data.Validate(api.deps.Validate, api.deps.UserSvc); err != nil {
		return err
	}

	usr, err := api.deps.UserSvc.Register(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "registering user")
	}
	return ctx.JSON(http.StatusCreated, usr)
}

func (api *userApi) me(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	usr, err := api.deps.UserSvc.GetByID(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, usr)
}

// update edits the caller's own profile; an optional multipart "image" part
// replaces the profile picture.
func (api *userApi) update(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	if ctx.Param("id") != claims.Subject {
		return errHttpForbidden
	}

	var data user.UpdateProfile
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateProfile")
	}
	if err = data.Validate(api.deps.Validate); err != nil {
		return err
	}

	var image core.Image
	if fh, fErr := ctx.FormFile("image"); fErr == nil {
		if image, err = uploadFile(ctx, api.deps.FileStore, fh, "users"); err != nil {
			return errors.Wrap(err, "uploading profile image")
		}
	}

	usr, err := api.deps.UserSvc.Update(ctx.Request().Context(), claims.Subject, data, image)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, usr)
}
