package database

import (
	"context"

	"github.com/altavoz/altavoz-server/database/model"
	"github.com/altavoz/altavoz-server/database/sqlite"
)

type (
	Options struct {
		Filename string
	}

	// Repository is the storage surface the server depends on.
	Repository interface {
		UserRepo
		ProfileRepo
		ContentRepo
		PlaylistRepo
		MetricRepo
		RecommendationRepo
	}

	// UserRepo defines user account operations.
	UserRepo interface {
		// GetUserByUsername retrieves a user by login name.
		GetUserByUsername(ctx context.Context, username string) (*model.User, error)
		// GetUserWithProfiles retrieves a user with the profiles relation populated.
		GetUserWithProfiles(ctx context.Context, userID int64) (*model.User, error)
		// InsertUser creates a new user with a bcrypt-hashed password.
		InsertUser(ctx context.Context, username, password string) (*model.User, error)
	}

	// ProfileRepo defines viewer profile operations.
	ProfileRepo interface {
		// GetProfile retrieves a profile by id.
		GetProfile(ctx context.Context, profileID int64) (*model.Profile, error)
		// GetProfileWithUser retrieves a profile with its owning user,
		// the user's subscriptions and their plans populated.
		GetProfileWithUser(ctx context.Context, profileID int64) (*model.Profile, error)
		// UpdateProfilePin overwrites the stored PIN of a profile.
		UpdateProfilePin(ctx context.Context, profileID int64, pin string) (*model.Profile, error)
	}

	// ContentRepo defines catalog read operations.
	ContentRepo interface {
		// ContentByType lists catalog items of one media type, newest first.
		ContentByType(ctx context.Context, mediaType string) ([]model.Content, error)
		// ContentByIDs retrieves catalog items by id.
		ContentByIDs(ctx context.Context, ids []int64) ([]model.Content, error)
		// AllContent lists the whole catalog.
		AllContent(ctx context.Context) ([]model.Content, error)
	}

	// PlaylistRepo defines playlist read operations.
	PlaylistRepo interface {
		// PlaylistsByProfile lists a profile's playlists with items and
		// their content populated. With newestFirst set playlists are
		// ordered by creation time descending.
		PlaylistsByProfile(ctx context.Context, profileID int64, newestFirst bool) ([]model.Playlist, error)
	}

	// MetricRepo defines usage metric operations. The metric log is
	// append-only; nothing here mutates or deletes records.
	MetricRepo interface {
		// UsageMetrics lists all playback records of a profile.
		UsageMetrics(ctx context.Context, profileID int64) ([]model.UsageMetric, error)
		// SumPlaybackSeconds sums playback seconds across a profile's records.
		SumPlaybackSeconds(ctx context.Context, profileID int64) (int64, error)
		// UsageMetricsWithTotal runs both reads inside a single read
		// transaction so they observe one snapshot of the log.
		UsageMetricsWithTotal(ctx context.Context, profileID int64) ([]model.UsageMetric, int64, error)
		// InsertUsageMetric appends one playback record.
		InsertUsageMetric(ctx context.Context, metric *model.UsageMetric) error
	}

	// RecommendationRepo defines recommendation edge lookups.
	RecommendationRepo interface {
		// EdgesByOrigins returns all edges whose origin is in originIDs,
		// suggested content populated. The lookup is chunked internally;
		// chunks are issued in input order and per-chunk results ordered
		// by edge id, so callers see one merged, deterministically
		// ordered edge list no matter how large the origin set is.
		EdgesByOrigins(ctx context.Context, originIDs []int64) ([]model.RecommendationEdge, error)
	}
)

// New opens the sqlite-backed repository.
func New(o *Options) (Repository, error) {
	return sqlite.New(&sqlite.Options{
		Filename: o.Filename,
	})
}
