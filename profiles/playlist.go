package profiles

import (
	"context"
	"net/http"
)

// ProjectPlaylists reshapes a profile's playlists into the annotated view:
// newest playlist first, cover art taken from the item at order 1, every
// item emitted in storage order with its own order marker.
//
// A playlist without an order-1 item (or with the marker duplicated by a
// broken writer) degrades to a null cover instead of failing; with
// duplicates the first order-1 item in storage order wins.
func (p *Profiles) ProjectPlaylists(ctx context.Context, profileID int64) ([]PlaylistView, error) {
	playlists, err := p.repo.PlaylistsByProfile(ctx, profileID, true)
	if err != nil {
		return nil, err
	}

	result := make([]PlaylistView, 0, len(playlists))
	for _, playlist := range playlists {
		view := PlaylistView{
			ID:            playlist.ID,
			Nombre:        playlist.Name,
			Tipo:          playlist.Type,
			FechaCreacion: playlist.Created,
			Contenidos:    make([]PlaylistItem, 0, len(playlist.Items)),
		}
		for _, item := range playlist.Items {
			if item.Content == nil {
				continue
			}
			if view.Portada == nil && item.Order == 1 && item.Content.CoverArt != "" {
				cover := item.Content.CoverArt
				view.Portada = &cover
			}
			view.Contenidos = append(view.Contenidos, PlaylistItem{
				ContentSummary: makeContentSummary(item.Content),
				Orden:          item.Order,
			})
		}
		result = append(result, view)
	}
	return result, nil
}

// GET /api/perfiles/{id}/playlists
//
// playlistsHandler returns the projected playlists of a profile.
func (p *Profiles) playlistsHandler(w http.ResponseWriter, r *http.Request) {
	profileID, err := pathID(r, "id")
	if err != nil {
		apierror(w, "id de perfil inválido", http.StatusBadRequest)
		return
	}

	playlists, err := p.ProjectPlaylists(r.Context(), profileID)
	if err != nil {
		repoerror(w, err)
		return
	}
	serveJSON(playlists, w)
}
