package sqlite

import (
	"context"
	"database/sql"

	"github.com/altavoz/altavoz-server/database/model"
)

// PlaylistsByProfile lists a profile's playlists with items and their
// content populated. Items come back in rowid order, which is insertion
// order; callers that care about the itemorder column read it per item.
func (s *SqliteRepo) PlaylistsByProfile(ctx context.Context, profileID int64, newestFirst bool) ([]model.Playlist, error) {
	order := `ORDER BY id`
	if newestFirst {
		order = `ORDER BY created DESC, id DESC`
	}

	var playlistRows []struct {
		ID        int64          `db:"id"`
		ProfileID int64          `db:"profileid"`
		Name      string         `db:"name"`
		Type      sql.NullString `db:"type"`
		Created   sql.NullTime   `db:"created"`
	}
	if err := s.dbReadHandle.SelectContext(ctx, &playlistRows,
		`SELECT id, profileid, name, type, created FROM playlists WHERE profileid=? `+order,
		profileID); err != nil {
		return nil, err
	}

	result := make([]model.Playlist, 0, len(playlistRows))
	for _, row := range playlistRows {
		playlist := model.Playlist{
			ID:        row.ID,
			ProfileID: row.ProfileID,
			Name:      row.Name,
			Type:      row.Type.String,
			Created:   row.Created.Time,
		}

		var itemRows []struct {
			PlaylistID int64 `db:"playlistid"`
			ContentID  int64 `db:"contentid"`
			ItemOrder  int   `db:"itemorder"`
			contentRow
		}
		const itemQuery = `SELECT pi.playlistid, pi.contentid, pi.itemorder,
			c.id, c.title,
			COALESCE(c.description, '') AS description,
			COALESCE(c.coverart, '') AS coverart,
			c.mediatype,
			COALESCE(c.url, '') AS url,
			c.created
			FROM playlist_items pi
			JOIN content c ON c.id = pi.contentid
			WHERE pi.playlistid=? ORDER BY pi.rowid`
		if err := s.dbReadHandle.SelectContext(ctx, &itemRows, itemQuery, playlist.ID); err != nil {
			return nil, err
		}
		for _, item := range itemRows {
			content := model.Content{
				ID:          item.contentRow.ID,
				Title:       item.Title,
				Description: item.Description,
				CoverArt:    item.CoverArt,
				MediaType:   item.MediaType,
				URL:         item.URL,
				Created:     item.Created.Time,
			}
			playlist.Items = append(playlist.Items, model.PlaylistItem{
				PlaylistID: item.PlaylistID,
				ContentID:  item.ContentID,
				Order:      item.ItemOrder,
				Content:    &content,
			})
		}
		result = append(result, playlist)
	}
	return result, nil
}
