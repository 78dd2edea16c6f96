package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/altavoz/altavoz-server/database/model"
)

// GetUserByUsername retrieves a user by login name.
func (s *SqliteRepo) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	const query = `SELECT id,
		username,
		password,
		created FROM users WHERE username=? LIMIT 1`
	return sqlScanUser(s.dbReadHandle.QueryRowContext(ctx, query, username))
}

// GetUserWithProfiles retrieves a user with the profiles relation populated.
func (s *SqliteRepo) GetUserWithProfiles(ctx context.Context, userID int64) (*model.User, error) {
	const query = `SELECT id,
		username,
		password,
		created FROM users WHERE id=? LIMIT 1`
	user, err := sqlScanUser(s.dbReadHandle.QueryRowContext(ctx, query, userID))
	if err != nil {
		return nil, err
	}

	var profiles []struct {
		ID          int64          `db:"id"`
		UserID      int64          `db:"userid"`
		Name        string         `db:"name"`
		Pin         string         `db:"pin"`
		Preferences sql.NullString `db:"preferences"`
	}
	if err := s.dbReadHandle.SelectContext(ctx, &profiles,
		`SELECT id, userid, name, pin, preferences FROM profiles WHERE userid=? ORDER BY id`,
		userID); err != nil {
		return nil, err
	}
	for _, p := range profiles {
		user.Profiles = append(user.Profiles, model.Profile{
			ID:          p.ID,
			UserID:      p.UserID,
			Name:        p.Name,
			Pin:         p.Pin,
			Preferences: p.Preferences.String,
		})
	}
	return user, nil
}

// InsertUser creates a new user, hashing the password with bcrypt.
func (s *SqliteRepo) InsertUser(ctx context.Context, username, password string) (*model.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username: username,
		Password: string(hashedPassword),
		Created:  time.Now().UTC(),
	}

	tx, err := s.dbWriteHandle.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO users (username, password, created) VALUES (?, ?, ?)`,
		user.Username, user.Password, user.Created)
	if err != nil {
		return nil, err
	}
	if user.ID, err = res.LastInsertId(); err != nil {
		return nil, err
	}
	return user, tx.Commit()
}

// sqlScanUser scans one user row. Only a missing row maps to the
// not-found sentinel; an engine failure passes through untransformed.
func sqlScanUser(row *sql.Row) (*model.User, error) {
	var user model.User
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Password,
		&user.Created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}
