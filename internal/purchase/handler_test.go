package purchase

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fkhayef/mealsplit/pkg/middleware"
)

func serve(h *Handler, method, path, userID, body string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Mount("/rooms/{roomId}/purchases", h.Routes())

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if userID != "" {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Create(t *testing.T) {
	svc, _, _ := newTestService(nil)
	h := NewHandler(svc)
	path := "/rooms/" + roomID + "/purchases"

	rec := serve(h, http.MethodPost, path, aliceID, `{"totalAmount":"12.00","payerUserId":"`+aliceID+`","category":"groceries"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		Success bool               `json:"success"`
		Data    PurchaseWithSplits `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, int64(1200), body.Data.Purchase.TotalCents)
	assert.Len(t, body.Data.Splits, 3)
}

func TestHandler_Create_SplitError(t *testing.T) {
	svc, _, _ := newTestService(nil)
	h := NewHandler(svc)
	path := "/rooms/" + roomID + "/purchases"

	rec := serve(h, http.MethodPost, path, aliceID, `{
		"totalAmount":"10",
		"payerUserId":"`+aliceID+`",
		"splitMode":"custom_percent",
		"splitInputs":[
			{"userId":"`+aliceID+`","value":"50"},
			{"userId":"`+bobID+`","value":"30"},
			{"userId":"`+carolID+`","value":"10"}
		]}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Error struct {
			Code    string `json:"code"`
			Details struct {
				Kind     string `json:"kind"`
				Actual   int64  `json:"actual"`
				Expected int64  `json:"expected"`
			} `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "SPLIT_INVALID", body.Error.Code)
	assert.Equal(t, "PercentSumMismatch", body.Error.Details.Kind)
	assert.Equal(t, int64(9000), body.Error.Details.Actual)
	assert.Equal(t, int64(10000), body.Error.Details.Expected)
}

func TestHandler_Create_BadInput(t *testing.T) {
	svc, _, _ := newTestService(nil)
	h := NewHandler(svc)
	path := "/rooms/" + roomID + "/purchases"

	tests := []struct {
		name   string
		path   string
		user   string
		body   string
		status int
	}{
		{name: "no auth", path: path, body: `{}`, status: http.StatusUnauthorized},
		{name: "bad room id", path: "/rooms/flat/purchases", user: aliceID, body: `{}`, status: http.StatusBadRequest},
		{name: "bad json", path: path, user: aliceID, body: `{`, status: http.StatusBadRequest},
		{name: "bad amount", path: path, user: aliceID, body: `{"totalAmount":"-1","payerUserId":"` + aliceID + `"}`, status: http.StatusBadRequest},
		{name: "inactive payer", path: path, user: aliceID, body: `{"totalAmount":"1","payerUserId":"` + daveID + `"}`, status: http.StatusBadRequest},
		{name: "outsider", path: path, user: "0b6f2b2e-7f7e-4c2a-8f2c-5a1d9f3e8aff", body: `{"totalAmount":"1","payerUserId":"` + aliceID + `"}`, status: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(h, http.MethodPost, tt.path, tt.user, tt.body)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestHandler_ListAndGet(t *testing.T) {
	svc, _, _ := newTestService(nil)
	h := NewHandler(svc)
	path := "/rooms/" + roomID + "/purchases"

	rec := serve(h, http.MethodPost, path, aliceID, `{"totalAmount":"3","payerUserId":"`+aliceID+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		Data PurchaseWithSplits `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = serve(h, http.MethodGet, path+"?limit=10", bobID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Data []Purchase `json:"data"`
		Meta struct {
			Limit int `json:"limit"`
			Total int `json:"total"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list.Data, 1)
	assert.Equal(t, 10, list.Meta.Limit)
	assert.Equal(t, 1, list.Meta.Total)

	rec = serve(h, http.MethodGet, path+"/"+created.Data.Purchase.ID, carolID, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(h, http.MethodGet, path+"/0b6f2b2e-7f7e-4c2a-8f2c-5a1d9f3e8aff", carolID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
