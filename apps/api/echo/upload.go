package echoapi

import (
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/campuskit/bytehub/core"
	"github.com/campuskit/bytehub/core/content"
)

type uploadApi struct {
	deps ServerDeps
}

func registerUploadAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := uploadApi{deps: deps}

	ug := g.Group("/upload", jwt, adminMiddleware())
	ug.POST("/club-head", api.clubHead)
	ug.POST("/event-gallery", api.eventGallery)
}

func (api *uploadApi) clubHead(ctx echo.Context) error {
	var data content.NewClubHead
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClubHead")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	fh, err := ctx.FormFile("image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "club head image is required")
	}
	image, err := uploadFile(ctx, api.deps.FileStore, fh, "club-heads")
	if err != nil {
		return errors.Wrap(err, "uploading club head image")
	}

	ch, err := api.deps.ContentSvc.AddClubHead(ctx.Request().Context(), data, image)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, ch)
}

func (api *uploadApi) eventGallery(ctx echo.Context) error {
	var data content.NewGalleryEntry
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewGalleryEntry")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "gallery images are required")
	}
	files := form.File["images"]
	if len(files) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "gallery images are required")
	}

	images := make([]core.Image, 0, len(files))
	for _, fh := range files {
		image, err := uploadFile(ctx, api.deps.FileStore, fh, "gallery")
		if err != nil {
			return errors.Wrap(err, "uploading gallery image")
		}
		images = append(images, image)
	}

	entry, err := api.deps.ContentSvc.AddGalleryEntry(ctx.Request().Context(), data, images)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, entry)
}

// uploadFile streams a multipart file to the file store.
func uploadFile(ctx echo.Context, store core.FileStore, fh *multipart.FileHeader, folder string) (core.Image, error) {
	f, err := fh.Open()
	if err != nil {
		return core.Image{}, errors.Wrap(err, "opening uploaded file")
	}
	defer f.Close()
	return store.Upload(ctx.Request().Context(), f, folder)
}
