package profiles

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/altavoz/altavoz-server/database/model"
)

// BuildDashboard aggregates a profile's usage metrics into the weekly
// analytics snapshot. now is injected so the 7/14 day window boundaries
// are deterministic; handlers pass time.Now().
//
// The record list and the playback-seconds total come from one snapshot
// read, so both reflect the same prefix of the append-only log.
func (p *Profiles) BuildDashboard(ctx context.Context, profileID int64, now time.Time) (*Dashboard, error) {
	metrics, total, err := p.repo.UsageMetricsWithTotal(ctx, profileID)
	if err != nil {
		return nil, err
	}

	dashboard := &Dashboard{
		TiempoTotal: total,
	}

	weekAgo := now.AddDate(0, 0, -7)
	twoWeeksAgo := now.AddDate(0, 0, -14)

	var recentCount, priorCount int
	for _, m := range metrics {
		switch m.MediaType {
		case model.MediaTypeAudio:
			dashboard.TotalAudio++
		case model.MediaTypeVideo:
			dashboard.TotalVideo++
		}
		if !m.Timestamp.Before(weekAgo) && m.Timestamp.Before(now) {
			recentCount++
		} else if !m.Timestamp.Before(twoWeeksAgo) && m.Timestamp.Before(weekAgo) {
			priorCount++
		}
	}

	dashboard.IncrementoSemanal = weeklyTrend(recentCount, priorCount)
	return dashboard, nil
}

// weeklyTrend renders the week-over-week change of playback activity.
// With no prior-week baseline the trend is pinned at "100%", even when
// the recent week is also empty. That degenerate-but-defined policy is
// part of the dashboard contract.
func weeklyTrend(recentCount, priorCount int) string {
	if priorCount == 0 {
		return "100%"
	}
	change := float64(recentCount-priorCount) / float64(priorCount) * 100
	return fmt.Sprintf("%.1f%%", change)
}

// GET /api/perfiles/{id}/dashboard
//
// dashboardHandler returns the weekly analytics snapshot of a profile.
func (p *Profiles) dashboardHandler(w http.ResponseWriter, r *http.Request) {
	profileID, err := pathID(r, "id")
	if err != nil {
		apierror(w, "id de perfil inválido", http.StatusBadRequest)
		return
	}

	dashboard, err := p.BuildDashboard(r.Context(), profileID, time.Now())
	if err != nil {
		repoerror(w, err)
		return
	}
	serveJSON(dashboard, w)
}

// POST /api/perfiles/{id}/metricas
//
// insertMetricHandler appends one playback record to the usage log.
func (p *Profiles) insertMetricHandler(w http.ResponseWriter, r *http.Request) {
	profileID, err := pathID(r, "id")
	if err != nil {
		apierror(w, "id de perfil inválido", http.StatusBadRequest)
		return
	}

	var request struct {
		Tipo               string `json:"tipo"`
		TiempoReproduccion int64  `json:"tiempoReproduccion"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		apierror(w, "cuerpo de petición inválido", http.StatusBadRequest)
		return
	}
	if request.Tipo != model.MediaTypeAudio && request.Tipo != model.MediaTypeVideo {
		apierror(w, "tipo de contenido inválido", http.StatusBadRequest)
		return
	}

	metric := &model.UsageMetric{
		ProfileID:       profileID,
		MediaType:       request.Tipo,
		PlaybackSeconds: request.TiempoReproduccion,
		Timestamp:       time.Now().UTC(),
	}
	if err := p.repo.InsertUsageMetric(r.Context(), metric); err != nil {
		repoerror(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]int64{"id": metric.ID})
}
