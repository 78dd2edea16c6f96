package profiles

import (
	"encoding/json"
	"errors"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/altavoz/altavoz-server/database/model"
)

// POST /api/login
//
// loginHandler validates an account password. Unlike the profile PIN the
// account password is bcrypt-hashed at rest.
func (p *Profiles) loginHandler(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Usuario  string `json:"usuario"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		apierror(w, "cuerpo de petición inválido", http.StatusBadRequest)
		return
	}
	if request.Usuario == "" || request.Password == "" {
		apierror(w, "usuario y password requeridos", http.StatusBadRequest)
		return
	}

	user, err := p.repo.GetUserByUsername(r.Context(), request.Usuario)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			// Same signal as a wrong password, do not leak which one it was.
			apierror(w, "credenciales incorrectas", http.StatusUnauthorized)
			return
		}
		repoerror(w, err)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(request.Password)); err != nil {
		apierror(w, "credenciales incorrectas", http.StatusUnauthorized)
		return
	}

	serveJSON(LoginResult{
		UsuarioID: user.ID,
		Nombre:    user.Username,
	}, w)
}

// GET /api/usuarios/{id}/perfiles
//
// userProfilesHandler lists the viewer profiles of a user.
func (p *Profiles) userProfilesHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		apierror(w, "id de usuario inválido", http.StatusBadRequest)
		return
	}

	user, err := p.repo.GetUserWithProfiles(r.Context(), userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			apierror(w, "usuario no encontrado", http.StatusNotFound)
			return
		}
		repoerror(w, err)
		return
	}

	result := make([]ProfileEntry, 0, len(user.Profiles))
	for _, profile := range user.Profiles {
		result = append(result, ProfileEntry{
			ID:           profile.ID,
			Nombre:       profile.Name,
			Preferencias: rawPreferences(profile.Preferences),
		})
	}
	serveJSON(result, w)
}
