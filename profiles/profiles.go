package profiles

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/altavoz/altavoz-server/contentsearch"
	"github.com/altavoz/altavoz-server/database"
)

type Options struct {
	Repo database.Repository
	// Search is the catalog full-text index, optional.
	Search *contentsearch.Search
}

// Profiles implements the profile-scoped API surface: PIN gating,
// the analytics dashboard, playlist-derived recommendations and the
// surrounding catalog plumbing.
type Profiles struct {
	repo   database.Repository
	search *contentsearch.Search
}

func New(o *Options) *Profiles {
	return &Profiles{
		repo:   o.Repo,
		search: o.Search,
	}
}

func (p *Profiles) RegisterHandlers(r *mux.Router) {
	gzip := handlers.CompressHandler

	r.HandleFunc("/health", p.healthHandler)

	s := r.PathPrefix("/api/").Subrouter()

	s.HandleFunc("/login", p.loginHandler).Methods("POST")
	s.HandleFunc("/usuarios/{id}/perfiles", p.userProfilesHandler).Methods("GET")

	s.HandleFunc("/perfiles/validar-pin", p.validatePinHandler).Methods("POST")
	s.HandleFunc("/perfiles/validar-pin-simple", p.validatePinSimpleHandler).Methods("POST")
	s.HandleFunc("/perfiles/{id}/pin", p.updatePinHandler).Methods("PATCH")

	s.HandleFunc("/perfiles/{id}/dashboard", p.dashboardHandler).Methods("GET")
	s.Handle("/perfiles/{id}/recomendaciones", gzip(http.HandlerFunc(p.recommendationsHandler))).Methods("GET")
	s.Handle("/perfiles/{id}/playlists", gzip(http.HandlerFunc(p.playlistsHandler))).Methods("GET")
	s.HandleFunc("/perfiles/{id}/metricas", p.insertMetricHandler).Methods("POST")

	s.Handle("/contenidos/por-tipo/{tipo}", gzip(http.HandlerFunc(p.contentByTypeHandler))).Methods("GET")
	s.HandleFunc("/contenidos/search", p.contentSearchHandler).Methods("GET")
}

// GET /health
func (p *Profiles) healthHandler(w http.ResponseWriter, r *http.Request) {
	serveJSON(map[string]string{"status": "ok"}, w)
}
