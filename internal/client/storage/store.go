package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/authapp/internal/client/models"
	"github.com/dmitrijs2005/authapp/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/authapp/internal/common"
	"github.com/dmitrijs2005/authapp/internal/dbx"
)

// Credentials is what a previous run left behind: enough to attempt a
// startup validation.
type Credentials struct {
	Token string
	User  models.Identity
}

// SessionStore reads and writes the two persisted session entries, "token"
// and "user", on top of the metadata table.
type SessionStore struct {
	db *sql.DB
}

func NewSessionStore(db *sql.DB) *SessionStore {
	return &SessionStore{db: db}
}

func (s *SessionStore) repo(db dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(db)
}

// Load returns the persisted credentials.
//
// The result is one of:
//   - (*Credentials, nil) when both entries are present and well formed;
//   - (nil, nil) when either entry is absent;
//   - (nil, *ParseError) when the user entry is present but malformed;
//   - (nil, err) when the store cannot be read.
func (s *SessionStore) Load(ctx context.Context) (*Credentials, error) {
	repo := s.repo(s.db)

	token, err := repo.Get(ctx, common.StoreKeyToken)
	if err != nil {
		return nil, err
	}
	raw, err := repo.Get(ctx, common.StoreKeyUser)
	if err != nil {
		return nil, err
	}

	var user *models.Identity
	if raw != nil {
		user, err = decodeIdentity(raw)
		if err != nil {
			return nil, &ParseError{Key: common.StoreKeyUser, Err: err}
		}
	}

	if len(token) == 0 || user == nil {
		return nil, nil
	}
	return &Credentials{Token: string(token), User: *user}, nil
}

func decodeIdentity(raw []byte) (*models.Identity, error) {
	switch strings.TrimSpace(string(raw)) {
	case "", "undefined", "null":
		return nil, errUndefinedRecord
	}

	var user models.Identity
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, err
	}
	if !user.Valid() {
		return nil, errMissingID
	}
	return &user, nil
}

// Save persists token and user together.
func (s *SessionStore) Save(ctx context.Context, token string, user models.Identity) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repo(tx)
		if err := repo.Set(ctx, common.StoreKeyToken, []byte(token)); err != nil {
			return err
		}
		return repo.Set(ctx, common.StoreKeyUser, raw)
	})
}

// SaveUser replaces the persisted identity and leaves the token alone.
func (s *SessionStore) SaveUser(ctx context.Context, user models.Identity) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	return s.repo(s.db).Set(ctx, common.StoreKeyUser, raw)
}

// PurgeUser drops the user entry together with the token it belonged to.
// It is the recovery path for a malformed user record.
func (s *SessionStore) PurgeUser(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repo(tx)
		if err := repo.Delete(ctx, common.StoreKeyUser); err != nil {
			return err
		}
		return repo.Delete(ctx, common.StoreKeyToken)
	})
}

// Clear removes every persisted entry.
func (s *SessionStore) Clear(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repo(tx).Clear(ctx)
	})
}

// Entries returns the raw persisted entries. It exists for diagnostics and
// tests.
func (s *SessionStore) Entries(ctx context.Context) (map[string][]byte, error) {
	return s.repo(s.db).List(ctx)
}
