package settlement

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
	r.Mount("/rooms/{roomId}/settlements", h.Routes())
	r.Mount("/rooms/{roomId}/balances", h.BalanceRoutes())

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if userID != "" {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandler_CreateAndBalances(t *testing.T) {
	svc, _, _ := newTestService()
	h := NewHandler(svc)
	base := "/rooms/" + roomID

	rec := serve(h, http.MethodPost, base+"/settlements", bobID,
		`{"payerUserId":"`+bobID+`","receiverUserId":"`+aliceID+`","amount":31.5}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = serve(h, http.MethodGet, base+"/balances", bobID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data struct {
			Currency string `json:"currency"`
			Members  []struct {
				UserID      string `json:"userId"`
				DisplayName string `json:"displayName"`
				NetCents    int64  `json:"netCents"`
			} `json:"members"`
			Settlements        []Settlement `json:"settlements"`
			SuggestedTransfers []struct {
				FromUserID  string `json:"fromUserId"`
				ToUserID    string `json:"toUserId"`
				AmountCents int64  `json:"amountCents"`
			} `json:"suggestedTransfers"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "USD", body.Data.Currency)
	assert.Equal(t, "Alice", body.Data.Members[0].DisplayName)
	assert.Equal(t, int64(2850), body.Data.Members[0].NetCents)
	assert.Len(t, body.Data.Settlements, 1)
	require.Len(t, body.Data.SuggestedTransfers, 2)
	assert.Equal(t, carolID, body.Data.SuggestedTransfers[0].FromUserID)
	assert.Equal(t, int64(2850), body.Data.SuggestedTransfers[0].AmountCents)
}

func TestHandler_Create_BadInput(t *testing.T) {
	svc, _, _ := newTestService()
	h := NewHandler(svc)
	path := "/rooms/" + roomID + "/settlements"

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{name: "self", body: `{"payerUserId":"` + bobID + `","receiverUserId":"` + bobID + `","amount":"1"}`, status: http.StatusBadRequest},
		{name: "negative", body: `{"payerUserId":"` + bobID + `","receiverUserId":"` + aliceID + `","amount":"-1"}`, status: http.StatusBadRequest},
		{name: "left receiver", body: `{"payerUserId":"` + bobID + `","receiverUserId":"` + eveID + `","amount":"1"}`, status: http.StatusBadRequest},
		{name: "missing amount", body: `{"payerUserId":"` + bobID + `","receiverUserId":"` + aliceID + `"}`, status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(h, http.MethodPost, path, aliceID, tt.body)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestHandler_List_Forbidden(t *testing.T) {
	svc, _, _ := newTestService()
	h := NewHandler(svc)

	rec := serve(h, http.MethodGet, "/rooms/"+roomID+"/settlements", eveID, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
