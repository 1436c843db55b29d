package uploadsvc

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"sync"

	"github.com/campuskit/bytehub/core"
)

// DummyService stores nothing and fabricates URLs; for tests.
type DummyService struct {
	mu       sync.Mutex
	count    int
	Uploaded []string
	Deleted  []string
}

var _ core.FileStore = (*DummyService)(nil)

func NewDummyService() *DummyService {
	return &DummyService{}
}

func (svc *DummyService) Upload(ctx context.Context, r io.Reader, folder string) (core.Image, error) {
	if _, err := io.Copy(ioutil.Discard, r); err != nil {
		return core.Image{}, err
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.count++
	publicID := fmt.Sprintf("%s/dummy-%d", folder, svc.count)
	svc.Uploaded = append(svc.Uploaded, publicID)
	return core.Image{
		URL:      "https://files.invalid/" + publicID + ".png",
		PublicID: publicID,
	}, nil
}

func (svc *DummyService) Delete(ctx context.Context, publicID string) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.Deleted = append(svc.Deleted, publicID)
	return nil
}
