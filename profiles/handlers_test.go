package profiles

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/altavoz/altavoz-server/database/model"
)

func newTestRouter(repo *fakeRepo) *mux.Router {
	r := mux.NewRouter()
	New(&Options{Repo: repo}).RegisterHandlers(r)
	return r
}

func doJSON(t *testing.T, r *mux.Router, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		blob, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(blob)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestValidatePinHandler(t *testing.T) {
	repo := &fakeRepo{profile: profileWithSubscriptions(
		model.Subscription{ID: 2, Active: true, Plan: &model.Plan{ID: 2, Name: "premium"}},
	)}
	r := newTestRouter(repo)

	t.Run("Match", func(t *testing.T) {
		w := doJSON(t, r, "POST", "/api/perfiles/validar-pin",
			map[string]any{"perfilId": 7, "pin": "1234"})

		assert.Equal(t, http.StatusOK, w.Code)
		var resp map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		// platform wire contract, clients parse these exact keys
		assert.Contains(t, resp, "perfilId")
		assert.Contains(t, resp, "nombre")
		assert.Contains(t, resp, "usuarioId")
		assert.Contains(t, resp, "preferencias")
		assert.Contains(t, resp, "suscripcion")
		assert.NotEqual(t, "null", string(resp["suscripcion"]))
	})

	t.Run("WrongPinIsUnauthorized", func(t *testing.T) {
		w := doJSON(t, r, "POST", "/api/perfiles/validar-pin",
			map[string]any{"perfilId": 7, "pin": "9999"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("UnknownProfileIsNotFound", func(t *testing.T) {
		w := doJSON(t, r, "POST", "/api/perfiles/validar-pin",
			map[string]any{"perfilId": 42, "pin": "1234"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("SimpleVariantSameSemantics", func(t *testing.T) {
		w := doJSON(t, r, "POST", "/api/perfiles/validar-pin-simple",
			map[string]any{"perfilId": 7, "pin": "1234"})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "true", string(bytes.TrimSpace(w.Body.Bytes())))

		w = doJSON(t, r, "POST", "/api/perfiles/validar-pin-simple",
			map[string]any{"perfilId": 7, "pin": "9999"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w = doJSON(t, r, "POST", "/api/perfiles/validar-pin-simple",
			map[string]any{"perfilId": 42, "pin": "1234"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestUpdatePinHandler(t *testing.T) {
	t.Run("Updates", func(t *testing.T) {
		repo := &fakeRepo{profile: profileWithSubscriptions()}
		r := newTestRouter(repo)

		w := doJSON(t, r, "PATCH", "/api/perfiles/7/pin",
			map[string]any{"nuevoPin": "4321"})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "4321", repo.profile.Pin)

		// the response identifies the profile but never echoes the PIN
		var resp map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotContains(t, resp, "pin")
		assert.Equal(t, `"Ana"`, string(resp["nombre"]))
	})

	t.Run("UnknownProfile", func(t *testing.T) {
		repo := &fakeRepo{}
		r := newTestRouter(repo)

		w := doJSON(t, r, "PATCH", "/api/perfiles/42/pin",
			map[string]any{"nuevoPin": "4321"})
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, 0, repo.pinWrites)
	})
}

func TestDashboardHandler(t *testing.T) {
	repo := &fakeRepo{total: 120}
	r := newTestRouter(repo)

	w := doJSON(t, r, "GET", "/api/perfiles/7/dashboard", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp, "totalAudio")
	assert.Contains(t, resp, "totalVideo")
	assert.Contains(t, resp, "tiempoTotal")
	assert.Contains(t, resp, "incrementoSemanal")
	assert.Equal(t, "120", string(resp["tiempoTotal"]))
	assert.Equal(t, `"100%"`, string(resp["incrementoSemanal"]))
}

func TestInsertMetricHandler(t *testing.T) {
	t.Run("Appends", func(t *testing.T) {
		repo := &fakeRepo{}
		r := newTestRouter(repo)

		w := doJSON(t, r, "POST", "/api/perfiles/7/metricas",
			map[string]any{"tipo": "audio", "tiempoReproduccion": 180})
		assert.Equal(t, http.StatusCreated, w.Code)
		require.Len(t, repo.metrics, 1)
		assert.Equal(t, int64(180), repo.metrics[0].PlaybackSeconds)
	})

	t.Run("RejectsUnknownMediaType", func(t *testing.T) {
		repo := &fakeRepo{}
		r := newTestRouter(repo)

		w := doJSON(t, r, "POST", "/api/perfiles/7/metricas",
			map[string]any{"tipo": "podcast", "tiempoReproduccion": 180})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, repo.metrics)
	})
}

func TestLoginHandler(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secreto"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := &fakeRepo{user: &model.User{ID: 3, Username: "familia", Password: string(hash)}}
	r := newTestRouter(repo)

	t.Run("Valid", func(t *testing.T) {
		w := doJSON(t, r, "POST", "/api/login",
			map[string]any{"usuario": "familia", "password": "secreto"})
		assert.Equal(t, http.StatusOK, w.Code)

		var resp LoginResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, int64(3), resp.UsuarioID)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		w := doJSON(t, r, "POST", "/api/login",
			map[string]any{"usuario": "familia", "password": "nope"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("UnknownUserSameSignal", func(t *testing.T) {
		w := doJSON(t, r, "POST", "/api/login",
			map[string]any{"usuario": "ghost", "password": "secreto"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestUserProfilesHandler(t *testing.T) {
	repo := &fakeRepo{user: &model.User{
		ID:       3,
		Username: "familia",
		Profiles: []model.Profile{
			{ID: 7, Name: "Ana", Pin: "1234"},
			{ID: 8, Name: "Luis", Pin: "5678"},
		},
	}}
	r := newTestRouter(repo)

	w := doJSON(t, r, "GET", "/api/usuarios/3/perfiles", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	// the stored PIN never leaves the server through the listing
	assert.NotContains(t, resp[0], "pin")
	assert.Equal(t, `"Ana"`, string(resp[0]["nombre"]))
}
