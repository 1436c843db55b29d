package uploadsvc

import (
	"context"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"

	"github.com/campuskit/bytehub/core"
)

// imageTransformation bounds stored images to a web-friendly size.
const imageTransformation = "c_limit,w_500,h_500"

type cloudinaryService struct {
	client *cloudinary.Cloudinary
}

var _ core.FileStore = (*cloudinaryService)(nil)

func NewCloudinaryService(conf *core.Config) (*cloudinaryService, error) {
	client, err := cloudinary.NewFromURL(conf.CloudinaryURL)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "configuring cloudinary")
	}
	return &cloudinaryService{client: client}, nil
}

func (svc *cloudinaryService) Upload(ctx context.Context, r io.Reader, folder string) (core.Image, error) {
	res, err := svc.client.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:         folder,
		PublicID:       uuid.NewString(),
		Transformation: imageTransformation,
	})
	if err != nil {
		return core.Image{}, pkgerrors.Wrap(err, "uploading image")
	}
	return core.Image{URL: res.SecureURL, PublicID: res.PublicID}, nil
}

func (svc *cloudinaryService) Delete(ctx context.Context, publicID string) error {
	_, err := svc.client.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	return pkgerrors.Wrap(err, "deleting image")
}
