package profiles

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altavoz/altavoz-server/database/model"
)

func TestProjectPlaylists(t *testing.T) {
	created := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("CoverFromOrderOneItem", func(t *testing.T) {
		repo := &fakeRepo{playlists: []model.Playlist{{
			ID:      1,
			Name:    "viaje",
			Type:    "mixta",
			Created: created,
			Items: []model.PlaylistItem{
				{ContentID: 5, Order: 2, Content: &model.Content{ID: 5, CoverArt: "b.jpg"}},
				{ContentID: 4, Order: 1, Content: &model.Content{ID: 4, CoverArt: "a.jpg"}},
			},
		}}}
		p := New(&Options{Repo: repo})

		views, err := p.ProjectPlaylists(context.Background(), 7)
		require.NoError(t, err)
		require.Len(t, views, 1)
		require.NotNil(t, views[0].Portada)
		assert.Equal(t, "a.jpg", *views[0].Portada)
		// storage order preserved, not re-sorted by the order column
		require.Len(t, views[0].Contenidos, 2)
		assert.Equal(t, int64(5), views[0].Contenidos[0].ID)
		assert.Equal(t, 2, views[0].Contenidos[0].Orden)
		assert.Equal(t, int64(4), views[0].Contenidos[1].ID)
		assert.Equal(t, 1, views[0].Contenidos[1].Orden)
	})

	t.Run("MissingCoverMarkerDegradesToNull", func(t *testing.T) {
		repo := &fakeRepo{playlists: []model.Playlist{{
			ID: 1,
			Items: []model.PlaylistItem{
				{ContentID: 5, Order: 2, Content: &model.Content{ID: 5, CoverArt: "b.jpg"}},
				{ContentID: 6, Order: 3, Content: &model.Content{ID: 6, CoverArt: "c.jpg"}},
			},
		}}}
		p := New(&Options{Repo: repo})

		views, err := p.ProjectPlaylists(context.Background(), 7)
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Nil(t, views[0].Portada)
		assert.Len(t, views[0].Contenidos, 2)
	})

	t.Run("DuplicateCoverMarkerFirstWins", func(t *testing.T) {
		repo := &fakeRepo{playlists: []model.Playlist{{
			ID: 1,
			Items: []model.PlaylistItem{
				{ContentID: 5, Order: 1, Content: &model.Content{ID: 5, CoverArt: "b.jpg"}},
				{ContentID: 6, Order: 1, Content: &model.Content{ID: 6, CoverArt: "c.jpg"}},
			},
		}}}
		p := New(&Options{Repo: repo})

		views, err := p.ProjectPlaylists(context.Background(), 7)
		require.NoError(t, err)
		require.NotNil(t, views[0].Portada)
		assert.Equal(t, "b.jpg", *views[0].Portada)
	})

	t.Run("RequestsNewestFirst", func(t *testing.T) {
		repo := &fakeRepo{}
		p := New(&Options{Repo: repo})

		_, err := p.ProjectPlaylists(context.Background(), 7)
		require.NoError(t, err)
		assert.True(t, repo.lastNewestFirst)
	})

	t.Run("EmptyProfile", func(t *testing.T) {
		p := New(&Options{Repo: &fakeRepo{}})

		views, err := p.ProjectPlaylists(context.Background(), 7)
		require.NoError(t, err)
		assert.Empty(t, views)
	})
}
