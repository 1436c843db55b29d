package dummydb

import (
	"context"

	"github.com/campuskit/bytehub/core/user"
)

type userRepository struct {
	db *userTable
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{db: db.user}
}

func (repo *userRepository) query() []user.User {
	users := make([]user.User, 0, len(repo.db.table))
	for _, u := range repo.db.table {
		users = append(users, *u)
	}
	return users
}

func (repo *userRepository) CheckUniqueness(ctx context.Context, email string, rollNo int) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, usr := range repo.query() {
		if usr.Email == email {
			return user.ErrEmailExists
		}
		if usr.RollNo == rollNo {
			return user.ErrRollNoExists
		}
	}
	return nil
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	usr.ID = newID()
	repo.db.table[usr.ID] = &usr
	return usr, nil
}

func (repo *userRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if usr, ok := repo.db.table[id]; ok {
		return *usr, nil
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, usr := range repo.query() {
		if usr.Email == email {
			return usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) GetUserByRollNo(ctx context.Context, rollNo int) (user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, usr := range repo.query() {
		if usr.RollNo == rollNo {
			return usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) GetUsersByID(ctx context.Context, ids []string) ([]user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	users := make([]user.User, 0, len(ids))
	for _, id := range ids {
		if usr, ok := repo.db.table[id]; ok {
			users = append(users, *usr)
		}
	}
	return users, nil
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[usr.ID]; !ok {
		return user.User{}, user.ErrNotFound
	}
	repo.db.table[usr.ID] = &usr
	return usr, nil
}

func (repo *userRepository) AddPoints(ctx context.Context, ids []string, delta int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, id := range ids {
		if usr, ok := repo.db.table[id]; ok {
			usr.Points += delta
		}
	}
	return nil
}

func (repo *userRepository) AppendRegisteredEvent(ctx context.Context, userID string, summary user.EventSummary) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	usr, ok := repo.db.table[userID]
	if !ok {
		return user.ErrNotFound
	}
	for _, evt := range usr.RegisteredEvents {
		if evt == summary {
			return nil
		}
	}
	usr.RegisteredEvents = append(usr.RegisteredEvents, summary)
	return nil
}

func (repo *userRepository) CountUsers(ctx context.Context) (int64, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return int64(len(repo.db.table)), nil
}

func (repo *userRepository) TotalPoints(ctx context.Context) (int64, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var total int64
	for _, usr := range repo.db.table {
		total += int64(usr.Points)
	}
	return total, nil
}

type adminRepository struct {
	db *adminTable
}

var _ user.AdminRepository = (*adminRepository)(nil)

func NewAdminRepository(db *DB) user.AdminRepository {
	return &adminRepository{db: db.admin}
}

func (repo *adminRepository) CreateAdmin(ctx context.Context, adm user.Admin) (user.Admin, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	adm.ID = newID()
	repo.db.table[adm.ID] = &adm
	return adm, nil
}

func (repo *adminRepository) GetAdminByEmail(ctx context.Context, email string) (user.Admin, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, adm := range repo.db.table {
		if adm.Email == email {
			return *adm, nil
		}
	}
	return user.Admin{}, user.ErrNotFound
}
