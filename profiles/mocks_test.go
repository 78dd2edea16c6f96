package profiles

import (
	"context"

	"github.com/altavoz/altavoz-server/database"
	"github.com/altavoz/altavoz-server/database/model"
)

// fakeRepo is an in-memory stand-in for the storage collaborator. Call
// counters let tests assert which queries were (not) issued.
type fakeRepo struct {
	user      *model.User
	profile   *model.Profile
	playlists []model.Playlist
	metrics   []model.UsageMetric
	total     int64
	edges     []model.RecommendationEdge
	content   []model.Content

	// err, when set, fails every call.
	err error

	playlistCalls   int
	edgeCalls       int
	pinWrites       int
	lastOrigins     []int64
	lastNewestFirst bool
}

var _ database.Repository = (*fakeRepo)(nil)

func (f *fakeRepo) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.user == nil || f.user.Username != username {
		return nil, model.ErrNotFound
	}
	return f.user, nil
}

func (f *fakeRepo) GetUserWithProfiles(ctx context.Context, userID int64) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.user == nil || f.user.ID != userID {
		return nil, model.ErrNotFound
	}
	return f.user, nil
}

func (f *fakeRepo) InsertUser(ctx context.Context, username, password string) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.user = &model.User{ID: 1, Username: username, Password: password}
	return f.user, nil
}

func (f *fakeRepo) GetProfile(ctx context.Context, profileID int64) (*model.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.profile == nil || f.profile.ID != profileID {
		return nil, model.ErrNotFound
	}
	return f.profile, nil
}

func (f *fakeRepo) GetProfileWithUser(ctx context.Context, profileID int64) (*model.Profile, error) {
	return f.GetProfile(ctx, profileID)
}

func (f *fakeRepo) UpdateProfilePin(ctx context.Context, profileID int64, pin string) (*model.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.profile == nil || f.profile.ID != profileID {
		return nil, model.ErrNotFound
	}
	f.pinWrites++
	f.profile.Pin = pin
	return f.profile, nil
}

func (f *fakeRepo) ContentByType(ctx context.Context, mediaType string) ([]model.Content, error) {
	if f.err != nil {
		return nil, f.err
	}
	var result []model.Content
	for _, c := range f.content {
		if c.MediaType == mediaType {
			result = append(result, c)
		}
	}
	return result, nil
}

func (f *fakeRepo) ContentByIDs(ctx context.Context, ids []int64) ([]model.Content, error) {
	if f.err != nil {
		return nil, f.err
	}
	var result []model.Content
	for _, id := range ids {
		for _, c := range f.content {
			if c.ID == id {
				result = append(result, c)
			}
		}
	}
	return result, nil
}

func (f *fakeRepo) AllContent(ctx context.Context) ([]model.Content, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.content, nil
}

func (f *fakeRepo) PlaylistsByProfile(ctx context.Context, profileID int64, newestFirst bool) ([]model.Playlist, error) {
	f.playlistCalls++
	f.lastNewestFirst = newestFirst
	if f.err != nil {
		return nil, f.err
	}
	return f.playlists, nil
}

func (f *fakeRepo) UsageMetrics(ctx context.Context, profileID int64) ([]model.UsageMetric, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.metrics, nil
}

func (f *fakeRepo) SumPlaybackSeconds(ctx context.Context, profileID int64) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.total, nil
}

func (f *fakeRepo) UsageMetricsWithTotal(ctx context.Context, profileID int64) ([]model.UsageMetric, int64, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	return f.metrics, f.total, nil
}

func (f *fakeRepo) InsertUsageMetric(ctx context.Context, metric *model.UsageMetric) error {
	if f.err != nil {
		return f.err
	}
	metric.ID = int64(len(f.metrics) + 1)
	f.metrics = append(f.metrics, *metric)
	return nil
}

func (f *fakeRepo) EdgesByOrigins(ctx context.Context, originIDs []int64) ([]model.RecommendationEdge, error) {
	f.edgeCalls++
	f.lastOrigins = originIDs
	if f.err != nil {
		return nil, f.err
	}
	return f.edges, nil
}
