package sqlite

import (
	"context"
	"database/sql"

	"github.com/altavoz/altavoz-server/database/model"
)

type metricRow struct {
	ID              int64        `db:"id"`
	ProfileID       int64        `db:"profileid"`
	MediaType       string       `db:"mediatype"`
	PlaybackSeconds int64        `db:"playbackseconds"`
	Timestamp       sql.NullTime `db:"timestamp"`
}

const metricQuery = `SELECT id,
	profileid,
	mediatype,
	playbackseconds,
	timestamp FROM usage_metrics WHERE profileid=? ORDER BY id`

const metricSumQuery = `SELECT COALESCE(SUM(playbackseconds), 0)
	FROM usage_metrics WHERE profileid=?`

// UsageMetrics lists all playback records of a profile.
func (s *SqliteRepo) UsageMetrics(ctx context.Context, profileID int64) ([]model.UsageMetric, error) {
	var rows []metricRow
	if err := s.dbReadHandle.SelectContext(ctx, &rows, metricQuery, profileID); err != nil {
		return nil, err
	}
	return metricsFromRows(rows), nil
}

// SumPlaybackSeconds sums playback seconds across a profile's records.
func (s *SqliteRepo) SumPlaybackSeconds(ctx context.Context, profileID int64) (int64, error) {
	var total int64
	if err := s.dbReadHandle.GetContext(ctx, &total, metricSumQuery, profileID); err != nil {
		return 0, err
	}
	return total, nil
}

// UsageMetricsWithTotal runs the record listing and the playback sum in a
// single read transaction, so both observe one snapshot of the log even
// while metrics are being appended concurrently.
func (s *SqliteRepo) UsageMetricsWithTotal(ctx context.Context, profileID int64) ([]model.UsageMetric, int64, error) {
	tx, err := s.dbReadHandle.BeginTxx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, 0, err
	}
	defer tx.Rollback()

	var rows []metricRow
	if err := tx.SelectContext(ctx, &rows, metricQuery, profileID); err != nil {
		return nil, 0, err
	}
	var total int64
	if err := tx.GetContext(ctx, &total, metricSumQuery, profileID); err != nil {
		return nil, 0, err
	}
	return metricsFromRows(rows), total, tx.Commit()
}

// InsertUsageMetric appends one playback record. The log is append-only,
// existing records are never touched.
func (s *SqliteRepo) InsertUsageMetric(ctx context.Context, metric *model.UsageMetric) error {
	tx, err := s.dbWriteHandle.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO usage_metrics (profileid, mediatype, playbackseconds, timestamp)
		VALUES (?, ?, ?, ?)`,
		metric.ProfileID, metric.MediaType, metric.PlaybackSeconds, metric.Timestamp)
	if err != nil {
		return err
	}
	if metric.ID, err = res.LastInsertId(); err != nil {
		return err
	}
	return tx.Commit()
}

func metricsFromRows(rows []metricRow) []model.UsageMetric {
	result := make([]model.UsageMetric, 0, len(rows))
	for _, r := range rows {
		result = append(result, model.UsageMetric{
			ID:              r.ID,
			ProfileID:       r.ProfileID,
			MediaType:       r.MediaType,
			PlaybackSeconds: r.PlaybackSeconds,
			Timestamp:       r.Timestamp.Time,
		})
	}
	return result
}
