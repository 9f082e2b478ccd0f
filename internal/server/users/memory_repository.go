package users

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/authapp/internal/common"
)

// MemoryRepository is a Repository kept in process memory. Usernames are
// unique without regard to case.
type MemoryRepository struct {
	mu      sync.RWMutex
	nextID  int64
	byID    map[int64]*User
	byLogin map[string]int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:    make(map[int64]*User),
		byLogin: make(map[string]int64),
	}
}

func loginKey(login string) string {
	return strings.ToLower(strings.TrimSpace(login))
}

func clone(u *User) *User {
	c := *u
	c.PasswordHash = append([]byte(nil), u.PasswordHash...)
	return &c
}

func (r *MemoryRepository) Create(ctx context.Context, user *User) (*User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := loginKey(user.UserName)
	if _, ok := r.byLogin[key]; ok {
		return nil, common.ErrorAlreadyExists
	}

	r.nextID++
	u := clone(user)
	u.ID = r.nextID
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt

	r.byID[u.ID] = u
	r.byLogin[key] = u.ID
	return clone(u), nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clone(u), nil
}

func (r *MemoryRepository) GetUserByLogin(ctx context.Context, login string) (*User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byLogin[loginKey(login)]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clone(r.byID[id]), nil
}

func (r *MemoryRepository) Update(ctx context.Context, user *User) (*User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byID[user.ID]
	if !ok {
		return nil, common.ErrorNotFound
	}

	oldKey, newKey := loginKey(cur.UserName), loginKey(user.UserName)
	if oldKey != newKey {
		if _, taken := r.byLogin[newKey]; taken {
			return nil, common.ErrorAlreadyExists
		}
		delete(r.byLogin, oldKey)
		r.byLogin[newKey] = user.ID
	}

	u := clone(user)
	u.CreatedAt = cur.CreatedAt
	u.UpdatedAt = time.Now().UTC()
	r.byID[u.ID] = u
	return clone(u), nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	delete(r.byLogin, loginKey(u.UserName))
	delete(r.byID, id)
	return nil
}
