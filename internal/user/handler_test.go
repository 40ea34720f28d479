package user

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fkhayef/mealsplit/pkg/middleware"
)

func serve(router http.Handler, method, path, userID, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if userID != "" {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Create(t *testing.T) {
	svc, _ := newTestService(&fakeSources{})
	router := NewHandler(svc).Routes(middleware.RequireUser)

	rec := serve(router, http.MethodPost, "/", "", `{"email":"alice@example.com","displayName":"Alice"}`)
	require.Equal(t, http.StatusCreated, rec.Code, "sign-up needs no user")

	rec = serve(router, http.MethodPost, "/", "", `{"email":"alice@example.com","displayName":"Again"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = serve(router, http.MethodPost, "/", "", `{"email":"nope","displayName":"Alice"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_GetByID(t *testing.T) {
	svc, store := newTestService(&fakeSources{})
	store.users[aliceID] = &User{ID: aliceID, Email: "alice@example.com", DisplayName: "Alice"}
	router := NewHandler(svc).Routes(middleware.RequireUser)

	rec := serve(router, http.MethodGet, "/"+aliceID, "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(router, http.MethodGet, "/"+aliceID, bobID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = serve(router, http.MethodGet, "/"+bobID, aliceID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(router, http.MethodGet, "/42", aliceID, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_MeStats(t *testing.T) {
	svc, store := newTestService(&fakeSources{rooms: 3})
	store.users[aliceID] = &User{ID: aliceID, Email: "alice@example.com", DisplayName: "Alice"}
	router := NewHandler(svc).MeRoutes()

	rec := serve(router, http.MethodGet, "/stats", aliceID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.EqualValues(t, 3, body.Data["roomsCount"])
	assert.EqualValues(t, 0, body.Data["netCents"])
	assert.Contains(t, body.Data, "last30Days")

	rec = serve(router, http.MethodPatch, "/", aliceID, `{"displayName":"Ali"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Ali", store.users[aliceID].DisplayName)

	rec = serve(router, http.MethodGet, "/", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
