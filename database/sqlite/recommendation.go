package sqlite

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/altavoz/altavoz-server/database/model"
)

// sqlMaxInVariables caps the number of host variables per IN query.
// SQLite's default SQLITE_MAX_VARIABLE_NUMBER is 999; stay well below it.
const sqlMaxInVariables = 500

// EdgesByOrigins returns all recommendation edges whose origin content id
// is in originIDs, with the suggested content joined in. The origin set is
// unbounded: it is chunked into IN queries issued in input order, per-chunk
// results ordered by edge id, and the chunks concatenated. That keeps the
// merged edge order deterministic regardless of where chunk boundaries fall.
func (s *SqliteRepo) EdgesByOrigins(ctx context.Context, originIDs []int64) ([]model.RecommendationEdge, error) {
	result := make([]model.RecommendationEdge, 0)
	for _, chunk := range chunkIDs(originIDs, sqlMaxInVariables) {
		query, args, err := sqlx.In(`SELECT r.id, r.originid, r.suggestid,
			c.id AS contentid, c.title,
			COALESCE(c.description, '') AS description,
			COALESCE(c.coverart, '') AS coverart,
			c.mediatype,
			COALESCE(c.url, '') AS url,
			c.created
			FROM recommendations r
			JOIN content c ON c.id = r.suggestid
			WHERE r.originid IN (?) ORDER BY r.id`, chunk)
		if err != nil {
			return nil, err
		}

		var rows []struct {
			ID          int64        `db:"id"`
			OriginID    int64        `db:"originid"`
			SuggestID   int64        `db:"suggestid"`
			ContentID   int64        `db:"contentid"`
			Title       string       `db:"title"`
			Description string       `db:"description"`
			CoverArt    string       `db:"coverart"`
			MediaType   string       `db:"mediatype"`
			URL         string       `db:"url"`
			Created     sql.NullTime `db:"created"`
		}
		if err := s.dbReadHandle.SelectContext(ctx, &rows,
			s.dbReadHandle.Rebind(query), args...); err != nil {
			return nil, err
		}
		for _, r := range rows {
			result = append(result, model.RecommendationEdge{
				ID:        r.ID,
				OriginID:  r.OriginID,
				SuggestID: r.SuggestID,
				Suggested: &model.Content{
					ID:          r.ContentID,
					Title:       r.Title,
					Description: r.Description,
					CoverArt:    r.CoverArt,
					MediaType:   r.MediaType,
					URL:         r.URL,
					Created:     r.Created.Time,
				},
			})
		}
	}
	return result, nil
}

// chunkIDs splits ids into slices of at most size elements, preserving order.
func chunkIDs(ids []int64, size int) [][]int64 {
	if len(ids) == 0 {
		return nil
	}
	chunks := make([][]int64, 0, (len(ids)+size-1)/size)
	for size < len(ids) {
		chunks = append(chunks, ids[:size])
		ids = ids[size:]
	}
	return append(chunks, ids)
}
