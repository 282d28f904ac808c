package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"farmertwin/model"
	"farmertwin/utils"
)

// MemoryUserRepo keeps users in process memory. It is the store used when
// no DATABASE_URL is configured and by the handler tests.
type MemoryUserRepo struct {
	mu      sync.RWMutex
	byID    map[string]*model.User
	byEmail map[string]string
}

func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{
		byID:    make(map[string]*model.User),
		byEmail: make(map[string]string),
	}
}

func (r *MemoryUserRepo) AddUser(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[user.Email]; taken {
		return fmt.Errorf("email %s: %w", user.Email, utils.ErrConflict)
	}
	stored := cloneUser(user)
	r.byID[user.UserID] = stored
	r.byEmail[user.Email] = user.UserID
	return nil
}

func (r *MemoryUserRepo) FindUserByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return cloneUser(r.byID[id]), nil
}

func (r *MemoryUserRepo) FindUser(_ context.Context, userID string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[userID]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return cloneUser(user), nil
}

func (r *MemoryUserRepo) RecordLogin(_ context.Context, userID string, at time.Time, readiness *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[userID]
	if !ok {
		return utils.ErrNotFound
	}
	user.LastLogin = &at
	if readiness != nil {
		value := *readiness
		user.LastReadiness = &value
	}
	return nil
}

func (r *MemoryUserRepo) UpdateProfileImage(_ context.Context, userID, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[userID]
	if !ok {
		return utils.ErrNotFound
	}
	user.ProfileImage = &path
	return nil
}

// Delete removes a user; only tests use it to simulate a vanished account.
func (r *MemoryUserRepo) Delete(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user, ok := r.byID[userID]; ok {
		delete(r.byEmail, user.Email)
		delete(r.byID, userID)
	}
}

// SetStatus changes an account's status, e.g. to suspend it.
func (r *MemoryUserRepo) SetStatus(userID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[userID]
	if !ok {
		return utils.ErrNotFound
	}
	user.Status = status
	return nil
}

func (r *MemoryUserRepo) Close(context.Context) error { return nil }

func cloneUser(u *model.User) *model.User {
	c := *u
	if u.LastLogin != nil {
		t := *u.LastLogin
		c.LastLogin = &t
	}
	if u.LastReadiness != nil {
		v := *u.LastReadiness
		c.LastReadiness = &v
	}
	if u.ProfileImage != nil {
		v := *u.ProfileImage
		c.ProfileImage = &v
	}
	return &c
}
