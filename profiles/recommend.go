package profiles

import (
	"context"
	"net/http"
)

// DeriveRecommendations suggests content for a profile based on what its
// playlists already reference. Every content id appearing in any of the
// profile's playlists becomes an origin; all precomputed recommendation
// edges leaving those origins are collected and deduplicated by suggested
// content id, first edge wins and fixes the output position.
//
// Suggestions already present in the profile's own playlists are kept on
// purpose: re-surfacing known content is the platform's chosen behaviour.
func (p *Profiles) DeriveRecommendations(ctx context.Context, profileID int64) ([]ContentSummary, error) {
	playlists, err := p.repo.PlaylistsByProfile(ctx, profileID, false)
	if err != nil {
		return nil, err
	}

	// Insertion-ordered origin set.
	var originIDs []int64
	seenOrigins := make(map[int64]bool)
	for _, playlist := range playlists {
		for _, item := range playlist.Items {
			if !seenOrigins[item.ContentID] {
				seenOrigins[item.ContentID] = true
				originIDs = append(originIDs, item.ContentID)
			}
		}
	}

	// Without origins there is nothing to look up; the edge query must
	// not be issued at all.
	if len(originIDs) == 0 {
		return []ContentSummary{}, nil
	}

	edges, err := p.repo.EdgesByOrigins(ctx, originIDs)
	if err != nil {
		return nil, err
	}

	result := make([]ContentSummary, 0, len(edges))
	seen := make(map[int64]bool)
	for _, edge := range edges {
		if edge.Suggested == nil || seen[edge.Suggested.ID] {
			continue
		}
		seen[edge.Suggested.ID] = true
		result = append(result, makeContentSummary(edge.Suggested))
	}
	return result, nil
}

// GET /api/perfiles/{id}/recomendaciones
//
// recommendationsHandler returns the deduplicated suggestion list for a
// profile. A profile without playlists gets an empty list, not an error.
func (p *Profiles) recommendationsHandler(w http.ResponseWriter, r *http.Request) {
	profileID, err := pathID(r, "id")
	if err != nil {
		apierror(w, "id de perfil inválido", http.StatusBadRequest)
		return
	}

	recommendations, err := p.DeriveRecommendations(r.Context(), profileID)
	if err != nil {
		repoerror(w, err)
		return
	}
	serveJSON(recommendations, w)
}
