package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/altavoz/altavoz-server/database/model"
)

// GetProfile retrieves a profile by id.
func (s *SqliteRepo) GetProfile(ctx context.Context, profileID int64) (*model.Profile, error) {
	const query = `SELECT id,
		userid,
		name,
		pin,
		preferences FROM profiles WHERE id=? LIMIT 1`
	return sqlScanProfile(s.dbReadHandle.QueryRowContext(ctx, query, profileID))
}

// GetProfileWithUser retrieves a profile together with its owning user,
// the user's subscriptions and the plan of each subscription.
func (s *SqliteRepo) GetProfileWithUser(ctx context.Context, profileID int64) (*model.Profile, error) {
	profile, err := s.GetProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}

	const userQuery = `SELECT id,
		username,
		password,
		created FROM users WHERE id=? LIMIT 1`
	user, err := sqlScanUser(s.dbReadHandle.QueryRowContext(ctx, userQuery, profile.UserID))
	if err != nil {
		return nil, err
	}

	var subs []struct {
		ID          int64          `db:"id"`
		UserID      int64          `db:"userid"`
		StartDate   sql.NullTime   `db:"startdate"`
		EndDate     sql.NullTime   `db:"enddate"`
		Active      bool           `db:"active"`
		PlanID      sql.NullInt64  `db:"planid"`
		PlanName    sql.NullString `db:"planname"`
		AllowsAudio sql.NullBool   `db:"allows_audio"`
		AllowsVideo sql.NullBool   `db:"allows_video"`
	}
	const subQuery = `SELECT s.id, s.userid, s.startdate, s.enddate, s.active,
		p.id AS planid, p.name AS planname, p.allows_audio, p.allows_video
		FROM subscriptions s
		LEFT JOIN subscription_plans p ON p.id = s.planid
		WHERE s.userid=? ORDER BY s.id`
	if err := s.dbReadHandle.SelectContext(ctx, &subs, subQuery, profile.UserID); err != nil {
		return nil, err
	}
	for _, sub := range subs {
		entry := model.Subscription{
			ID:        sub.ID,
			UserID:    sub.UserID,
			StartDate: sub.StartDate.Time,
			EndDate:   sub.EndDate.Time,
			Active:    sub.Active,
		}
		if sub.PlanID.Valid {
			entry.Plan = &model.Plan{
				ID:          sub.PlanID.Int64,
				Name:        sub.PlanName.String,
				AllowsAudio: sub.AllowsAudio.Bool,
				AllowsVideo: sub.AllowsVideo.Bool,
			}
		}
		user.Subscriptions = append(user.Subscriptions, entry)
	}

	profile.User = user
	return profile, nil
}

// UpdateProfilePin overwrites the stored PIN of a profile.
// Concurrent updates are last-writer-wins, there is no versioning.
func (s *SqliteRepo) UpdateProfilePin(ctx context.Context, profileID int64, pin string) (*model.Profile, error) {
	tx, err := s.dbWriteHandle.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `UPDATE profiles SET pin=? WHERE id=?`, pin, profileID)
	if err != nil {
		return nil, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, model.ErrNotFound
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return s.GetProfile(ctx, profileID)
}

// sqlScanProfile scans one profile row. Only a missing row maps to the
// not-found sentinel; an engine failure passes through untransformed.
func sqlScanProfile(row *sql.Row) (*model.Profile, error) {
	var profile model.Profile
	var preferences sql.NullString
	if err := row.Scan(
		&profile.ID,
		&profile.UserID,
		&profile.Name,
		&profile.Pin,
		&preferences); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	profile.Preferences = preferences.String
	return &profile, nil
}
