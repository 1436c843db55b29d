package dummydb

import (
	"fmt"
	"sync"

	"github.com/campuskit/bytehub/core/content"
	"github.com/campuskit/bytehub/core/event"
	"github.com/campuskit/bytehub/core/quiz"
	"github.com/campuskit/bytehub/core/team"
	"github.com/campuskit/bytehub/core/user"
)

type (
	DB struct {
		user    *userTable
		admin   *adminTable
		event   *eventTable
		round   *roundTable
		quiz    *quizTable
		team    *teamTable
		content *contentTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}
	adminTable struct {
		sync.RWMutex
		table map[string]*user.Admin
	}
	eventTable struct {
		sync.RWMutex
		table map[string]*event.Event
	}
	roundTable struct {
		sync.RWMutex
		table map[string]*event.Round
	}
	quizTable struct {
		sync.RWMutex
		table map[string]*quiz.Quiz
	}
	teamTable struct {
		sync.RWMutex
		table map[string]*team.Team
	}
	contentTable struct {
		sync.RWMutex
		clubHeads   map[string]*content.ClubHead
		gallery     map[string]*content.GalleryEntry
		leaderboard map[string]*content.Leaderboard
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:  &userTable{table: make(map[string]*user.User)},
		admin: &adminTable{table: make(map[string]*user.Admin)},
		event: &eventTable{table: make(map[string]*event.Event)},
		round: &roundTable{table: make(map[string]*event.Round)},
		quiz:  &quizTable{table: make(map[string]*quiz.Quiz)},
		team:  &teamTable{table: make(map[string]*team.Team)},
		content: &contentTable{
			clubHeads:   make(map[string]*content.ClubHead),
			gallery:     make(map[string]*content.GalleryEntry),
			leaderboard: make(map[string]*content.Leaderboard),
		},
	}
	return db, nil
}

var (
	pkMu    sync.Mutex
	pkCount int
)

// newID mints a 24-char hex id like the real database does.
func newID() string {
	pkMu.Lock()
	defer pkMu.Unlock()
	pkCount++
	return fmt.Sprintf("%024x", pkCount)
}
