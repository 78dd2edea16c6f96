package profiles

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/altavoz/altavoz-server/database/model"
)

// verifyPin looks up the profile with its user graph and checks the
// supplied PIN. Both validation entry points run through here so their
// not-found/unauthorized semantics cannot drift apart.
//
// The PIN is compared exactly as stored. It is a child-lock style gate
// shared across the platform's clients, not a credential; the account
// password is the hashed secret (see auth.go).
func (p *Profiles) verifyPin(ctx context.Context, profileID int64, pin string) (*model.Profile, error) {
	profile, err := p.repo.GetProfileWithUser(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if profile.Pin != pin {
		return nil, model.ErrPinMismatch
	}
	return profile, nil
}

// ValidatePin checks a profile's PIN and returns the rich profile summary
// including the user's active subscription, or a null subscription when
// the user has no active one.
func (p *Profiles) ValidatePin(ctx context.Context, profileID int64, pin string) (*ProfileSummary, error) {
	profile, err := p.verifyPin(ctx, profileID, pin)
	if err != nil {
		return nil, err
	}

	summary := &ProfileSummary{
		PerfilID:     profile.ID,
		Nombre:       profile.Name,
		UsuarioID:    profile.UserID,
		Preferencias: rawPreferences(profile.Preferences),
	}

	// First active subscription wins, expired ones are ignored.
	for i := range profile.User.Subscriptions {
		sub := &profile.User.Subscriptions[i]
		if !sub.Active {
			continue
		}
		entry := &Subscription{
			ID:          sub.ID,
			FechaInicio: sub.StartDate,
			FechaFin:    sub.EndDate,
			Activa:      sub.Active,
		}
		if sub.Plan != nil {
			entry.Tipo = &Plan{
				ID:           sub.Plan.ID,
				Nombre:       sub.Plan.Name,
				PermiteAudio: sub.Plan.AllowsAudio,
				PermiteVideo: sub.Plan.AllowsVideo,
			}
		}
		summary.Suscripcion = entry
		break
	}
	return summary, nil
}

// ValidatePinSimple checks a profile's PIN and reports only whether it
// matched. Failure semantics are identical to ValidatePin.
func (p *Profiles) ValidatePinSimple(ctx context.Context, profileID int64, pin string) (bool, error) {
	if _, err := p.verifyPin(ctx, profileID, pin); err != nil {
		return false, err
	}
	return true, nil
}

// UpdatePin overwrites a profile's PIN unconditionally. No format or
// complexity rules apply; concurrent updates are last-writer-wins.
func (p *Profiles) UpdatePin(ctx context.Context, profileID int64, newPin string) (*model.Profile, error) {
	if _, err := p.repo.GetProfile(ctx, profileID); err != nil {
		return nil, err
	}
	return p.repo.UpdateProfilePin(ctx, profileID, newPin)
}

type pinRequest struct {
	PerfilID int64  `json:"perfilId"`
	Pin      string `json:"pin"`
}

// POST /api/perfiles/validar-pin
//
// validatePinHandler returns the rich profile summary on a PIN match.
func (p *Profiles) validatePinHandler(w http.ResponseWriter, r *http.Request) {
	var request pinRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		apierror(w, "cuerpo de petición inválido", http.StatusBadRequest)
		return
	}

	summary, err := p.ValidatePin(r.Context(), request.PerfilID, request.Pin)
	if err != nil {
		repoerror(w, err)
		return
	}
	serveJSON(summary, w)
}

// POST /api/perfiles/validar-pin-simple
//
// validatePinSimpleHandler returns a bare boolean on a PIN match.
func (p *Profiles) validatePinSimpleHandler(w http.ResponseWriter, r *http.Request) {
	var request pinRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		apierror(w, "cuerpo de petición inválido", http.StatusBadRequest)
		return
	}

	ok, err := p.ValidatePinSimple(r.Context(), request.PerfilID, request.Pin)
	if err != nil {
		repoerror(w, err)
		return
	}
	serveJSON(ok, w)
}

// PATCH /api/perfiles/{id}/pin
//
// updatePinHandler overwrites the PIN of a profile.
func (p *Profiles) updatePinHandler(w http.ResponseWriter, r *http.Request) {
	profileID, err := pathID(r, "id")
	if err != nil {
		apierror(w, "id de perfil inválido", http.StatusBadRequest)
		return
	}

	var request struct {
		NuevoPin string `json:"nuevoPin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		apierror(w, "cuerpo de petición inválido", http.StatusBadRequest)
		return
	}

	profile, err := p.UpdatePin(r.Context(), profileID, request.NuevoPin)
	if err != nil {
		repoerror(w, err)
		return
	}
	serveJSON(ProfileEntry{
		ID:           profile.ID,
		Nombre:       profile.Name,
		Preferencias: rawPreferences(profile.Preferences),
	}, w)
}

// pathID parses a numeric id path variable.
func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)[name], 10, 64)
}
