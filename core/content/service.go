package content

import (
	"context"
	"time"

	"github.com/campuskit/bytehub/core"
)

type (
	Repository interface {
		CreateClubHead(ctx context.Context, ch ClubHead) (ClubHead, error)
		QueryClubHeads(ctx context.Context) ([]ClubHead, error)
		CreateGalleryEntry(ctx context.Context, ge GalleryEntry) (GalleryEntry, error)
		QueryGallery(ctx context.Context) ([]GalleryEntry, error)
		UpsertLeaderboardPoints(ctx context.Context, userID, semester string, delta int) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) AddClubHead(ctx context.Context, nch NewClubHead, image core.Image) (ClubHead, error) {
	return svc.repo.CreateClubHead(ctx, ClubHead{
		Name:        nch.Name,
		Designation: nch.Designation,
		Bio:         nch.Bio,
		Image:       image,
		CreatedAt:   time.Now().UTC(),
	})
}

func (svc *Service) ClubHeads(ctx context.Context) ([]ClubHead, error) {
	return svc.repo.QueryClubHeads(ctx)
}

func (svc *Service) AddGalleryEntry(ctx context.Context, nge NewGalleryEntry, images []core.Image) (GalleryEntry, error) {
	return svc.repo.CreateGalleryEntry(ctx, GalleryEntry{
		EventName: nge.EventName,
		EventDate: nge.EventDate,
		EventType: nge.EventType,
		Images:    images,
		CreatedAt: time.Now().UTC(),
	})
}

func (svc *Service) Gallery(ctx context.Context) ([]GalleryEntry, error) {
	return svc.repo.QueryGallery(ctx)
}
