package sqlite

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/altavoz/altavoz-server/database/model"
)

type contentRow struct {
	ID          int64        `db:"id"`
	Title       string       `db:"title"`
	Description string       `db:"description"`
	CoverArt    string       `db:"coverart"`
	MediaType   string       `db:"mediatype"`
	URL         string       `db:"url"`
	Created     sql.NullTime `db:"created"`
}

const contentColumns = `id,
	title,
	COALESCE(description, '') AS description,
	COALESCE(coverart, '') AS coverart,
	mediatype,
	COALESCE(url, '') AS url,
	created`

// ContentByType lists catalog items of one media type, newest first.
func (s *SqliteRepo) ContentByType(ctx context.Context, mediaType string) ([]model.Content, error) {
	var rows []contentRow
	if err := s.dbReadHandle.SelectContext(ctx, &rows,
		`SELECT `+contentColumns+` FROM content WHERE mediatype=? ORDER BY created DESC, id DESC`,
		mediaType); err != nil {
		return nil, err
	}
	return contentFromRows(rows), nil
}

// ContentByIDs retrieves catalog items by id. Lookups are chunked to stay
// below the sqlite host-variable ceiling.
func (s *SqliteRepo) ContentByIDs(ctx context.Context, ids []int64) ([]model.Content, error) {
	result := make([]model.Content, 0, len(ids))
	for _, chunk := range chunkIDs(ids, sqlMaxInVariables) {
		query, args, err := sqlx.In(
			`SELECT `+contentColumns+` FROM content WHERE id IN (?) ORDER BY id`, chunk)
		if err != nil {
			return nil, err
		}
		var rows []contentRow
		if err := s.dbReadHandle.SelectContext(ctx, &rows,
			s.dbReadHandle.Rebind(query), args...); err != nil {
			return nil, err
		}
		result = append(result, contentFromRows(rows)...)
	}
	return result, nil
}

// AllContent lists the whole catalog.
func (s *SqliteRepo) AllContent(ctx context.Context) ([]model.Content, error) {
	var rows []contentRow
	if err := s.dbReadHandle.SelectContext(ctx, &rows,
		`SELECT `+contentColumns+` FROM content ORDER BY id`); err != nil {
		return nil, err
	}
	return contentFromRows(rows), nil
}

func contentFromRows(rows []contentRow) []model.Content {
	result := make([]model.Content, 0, len(rows))
	for _, r := range rows {
		result = append(result, model.Content{
			ID:          r.ID,
			Title:       r.Title,
			Description: r.Description,
			CoverArt:    r.CoverArt,
			MediaType:   r.MediaType,
			URL:         r.URL,
			Created:     r.Created.Time,
		})
	}
	return result
}
