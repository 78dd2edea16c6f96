package profiles

import (
	"encoding/json"
	"time"

	"github.com/altavoz/altavoz-server/database/model"
)

// Wire types follow the platform's existing (Spanish) field contract,
// clients depend on these exact names.

// ProfileSummary is the rich PIN-validation response.
type ProfileSummary struct {
	PerfilID     int64           `json:"perfilId"`
	Nombre       string          `json:"nombre"`
	UsuarioID    int64           `json:"usuarioId"`
	Preferencias json.RawMessage `json:"preferencias"`
	Suscripcion  *Subscription   `json:"suscripcion"`
}

type Subscription struct {
	ID          int64     `json:"id"`
	FechaInicio time.Time `json:"fechaInicio"`
	FechaFin    time.Time `json:"fechaFin"`
	Activa      bool      `json:"activa"`
	Tipo        *Plan     `json:"tipo"`
}

type Plan struct {
	ID           int64  `json:"id"`
	Nombre       string `json:"nombre"`
	PermiteAudio bool   `json:"permiteAudio"`
	PermiteVideo bool   `json:"permiteVideo"`
}

// ProfileEntry is one profile in the per-user listing. The stored PIN is
// deliberately not part of the listing.
type ProfileEntry struct {
	ID           int64           `json:"id"`
	Nombre       string          `json:"nombre"`
	Preferencias json.RawMessage `json:"preferencias"`
}

// Dashboard is the rolling weekly analytics snapshot of one profile.
type Dashboard struct {
	TotalAudio        int    `json:"totalAudio"`
	TotalVideo        int    `json:"totalVideo"`
	TiempoTotal       int64  `json:"tiempoTotal"`
	IncrementoSemanal string `json:"incrementoSemanal"`
}

// ContentSummary is one catalog item on the wire.
type ContentSummary struct {
	ID          int64  `json:"id"`
	Titulo      string `json:"titulo"`
	Descripcion string `json:"descripcion"`
	Portada     string `json:"portada"`
	Tipo        string `json:"tipo"`
	URL         string `json:"url"`
}

// PlaylistItem is one entry of a projected playlist, annotated with its
// position marker.
type PlaylistItem struct {
	ContentSummary
	Orden int `json:"orden"`
}

// PlaylistView is one projected playlist: cover art of the order-1 item
// (null when absent) plus every item in storage order.
type PlaylistView struct {
	ID            int64          `json:"id"`
	Nombre        string         `json:"nombre"`
	Tipo          string         `json:"tipo"`
	FechaCreacion time.Time      `json:"fechaCreacion"`
	Portada       *string        `json:"portada"`
	Contenidos    []PlaylistItem `json:"contenidos"`
}

// LoginResult is the response to a successful account login.
type LoginResult struct {
	UsuarioID int64  `json:"usuarioId"`
	Nombre    string `json:"nombre"`
}

func makeContentSummary(c *model.Content) ContentSummary {
	return ContentSummary{
		ID:          c.ID,
		Titulo:      c.Title,
		Descripcion: c.Description,
		Portada:     c.CoverArt,
		Tipo:        c.MediaType,
		URL:         c.URL,
	}
}

// rawPreferences passes the stored opaque preferences blob through as-is.
// Empty or invalid blobs degrade to JSON null rather than failing.
func rawPreferences(preferences string) json.RawMessage {
	if preferences == "" || !json.Valid([]byte(preferences)) {
		return json.RawMessage("null")
	}
	return json.RawMessage(preferences)
}
