package dummydb

import (
	"context"

	"github.com/campuskit/bytehub/core/content"
)

type contentRepository struct {
	db *contentTable
}

var _ content.Repository = (*contentRepository)(nil)

func NewContentRepository(db *DB) content.Repository {
	return &contentRepository{db: db.content}
}

func (repo *contentRepository) CreateClubHead(ctx context.Context, ch content.ClubHead) (content.ClubHead, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	ch.ID = newID()
	repo.db.clubHeads[ch.ID] = &ch
	return ch, nil
}

func (repo *contentRepository) QueryClubHeads(ctx context.Context) ([]content.ClubHead, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	heads := make([]content.ClubHead, 0, len(repo.db.clubHeads))
	for _, ch := range repo.db.clubHeads {
		heads = append(heads, *ch)
	}
	return heads, nil
}

func (repo *contentRepository) CreateGalleryEntry(ctx context.Context, ge content.GalleryEntry) (content.GalleryEntry, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	ge.ID = newID()
	repo.db.gallery[ge.ID] = &ge
	return ge, nil
}

func (repo *contentRepository) QueryGallery(ctx context.Context) ([]content.GalleryEntry, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	entries := make([]content.GalleryEntry, 0, len(repo.db.gallery))
	for _, ge := range repo.db.gallery {
		entries = append(entries, *ge)
	}
	return entries, nil
}

func (repo *contentRepository) UpsertLeaderboardPoints(ctx context.Context, userID, semester string, delta int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	key := userID + ":" + semester
	if entry, ok := repo.db.leaderboard[key]; ok {
		entry.Points += delta
		return nil
	}
	repo.db.leaderboard[key] = &content.Leaderboard{
		ID:       newID(),
		UserID:   userID,
		Semester: semester,
		Points:   delta,
	}
	return nil
}
