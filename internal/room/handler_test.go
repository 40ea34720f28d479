package room

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fkhayef/mealsplit/pkg/middleware"
)

func serve(h *Handler, method, path, userID, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if userID != "" {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	}
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)
	return rec
}

func TestHandler_Create(t *testing.T) {
	h := NewHandler(NewService(newMemoryStore(), 4))

	rec := serve(h, http.MethodPost, "/", ownerID, `{"name":"  Flat 4B ","currency":"eur"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		Data Room `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Flat 4B", body.Data.Name)
	assert.Equal(t, "EUR", body.Data.Currency)

	rec = serve(h, http.MethodPost, "/", ownerID, `{"name":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(h, http.MethodPost, "/", "", `{"name":"x"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandler_GetByID(t *testing.T) {
	svc, _, room := setupRoom(t, 4)
	h := NewHandler(svc)

	rec := serve(h, http.MethodGet, "/"+room.ID, ownerID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data RoomResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Data.Members, 1)

	rec = serve(h, http.MethodGet, "/"+room.ID, bobID, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = serve(h, http.MethodGet, "/not-a-uuid", ownerID, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_AddMember(t *testing.T) {
	svc, _, room := setupRoom(t, 2)
	h := NewHandler(svc)

	rec := serve(h, http.MethodPost, "/"+room.ID+"/members", ownerID, `{"userId":"`+aliceID+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = serve(h, http.MethodPost, "/"+room.ID+"/members", ownerID, `{"userId":"`+bobID+`"}`)
	assert.Equal(t, http.StatusConflict, rec.Code, "cap of two reached")

	rec = serve(h, http.MethodPost, "/"+room.ID+"/members", aliceID, `{"userId":"`+bobID+`"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = serve(h, http.MethodPost, "/"+room.ID+"/members", ownerID, `{"userId":"bob"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Leave(t *testing.T) {
	svc, _, room := setupRoom(t, 4)
	h := NewHandler(svc)

	_, err := svc.AddMember(context.Background(), room.ID, ownerID, &AddMemberRequest{UserID: aliceID})
	require.NoError(t, err)

	rec := serve(h, http.MethodPost, "/"+room.ID+"/leave", ownerID, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(h, http.MethodPost, "/"+room.ID+"/leave", aliceID, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandler_UpdateMemberStatus(t *testing.T) {
	svc, _, room := setupRoom(t, 4)
	h := NewHandler(svc)

	alice, err := svc.AddMember(context.Background(), room.ID, ownerID, &AddMemberRequest{UserID: aliceID})
	require.NoError(t, err)

	rec := serve(h, http.MethodPatch, "/"+room.ID+"/members/"+alice.ID+"/status", ownerID, `{"status":"pending"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = serve(h, http.MethodPatch, "/"+room.ID+"/members/"+alice.ID+"/status", ownerID, `{"status":"vacation"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
