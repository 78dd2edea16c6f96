package profiles

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/altavoz/altavoz-server/database/model"
)

// GET /api/contenidos/por-tipo/{tipo}
//
// contentByTypeHandler lists catalog items of one media type, newest first.
func (p *Profiles) contentByTypeHandler(w http.ResponseWriter, r *http.Request) {
	mediaType := mux.Vars(r)["tipo"]
	if mediaType != model.MediaTypeAudio && mediaType != model.MediaTypeVideo {
		apierror(w, "tipo de contenido inválido", http.StatusBadRequest)
		return
	}

	content, err := p.repo.ContentByType(r.Context(), mediaType)
	if err != nil {
		repoerror(w, err)
		return
	}

	result := make([]ContentSummary, 0, len(content))
	for i := range content {
		result = append(result, makeContentSummary(&content[i]))
	}
	serveJSON(result, w)
}

// maximum number of hits returned per search
const searchResultLimit = 25

// GET /api/contenidos/search?q=
//
// contentSearchHandler runs a full-text search over the catalog index and
// resolves the hit ids back to catalog items, preserving relevance order.
func (p *Profiles) contentSearchHandler(w http.ResponseWriter, r *http.Request) {
	if p.search == nil {
		apierror(w, "búsqueda no disponible", http.StatusServiceUnavailable)
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		serveJSON([]ContentSummary{}, w)
		return
	}

	ids, err := p.search.Search(r.Context(), query, searchResultLimit)
	if err != nil {
		apierror(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if len(ids) == 0 {
		serveJSON([]ContentSummary{}, w)
		return
	}

	content, err := p.repo.ContentByIDs(r.Context(), ids)
	if err != nil {
		repoerror(w, err)
		return
	}
	byID := make(map[int64]*model.Content, len(content))
	for i := range content {
		byID[content[i].ID] = &content[i]
	}

	result := make([]ContentSummary, 0, len(ids))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			result = append(result, makeContentSummary(c))
		}
	}
	serveJSON(result, w)
}
