package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/repguardian/dashboard-api/internal/relay"
)

func sendRelay(h *RelayHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/send-message", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Send(rec, req)
	return rec
}

func TestRelayRejectsMissingBody(t *testing.T) {
	fwd := &stubForwarder{up: &relay.Upstream{Status: http.StatusOK}}
	h := NewRelayHandler(fwd)

	for _, body := range []string{"", "   ", "null", `""`, "false", "0", "0.0", "-0", "0e0"} {
		rec := sendRelay(h, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %q", body)
		assert.JSONEq(t, `{"error":"Missing body"}`, rec.Body.String(), "body %q", body)
	}
	assert.Nil(t, fwd.got, "nothing is forwarded")

	rec := sendRelay(h, `{"chatId":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRelayForwardsTruthyScalars(t *testing.T) {
	for _, body := range []string{"1", "-0.5", "true", `"hi"`, "[]", "{}"} {
		fwd := &stubForwarder{up: &relay.Upstream{Status: http.StatusOK, Body: []byte(`{}`)}}
		rec := sendRelay(NewRelayHandler(fwd), body)
		assert.Equal(t, http.StatusOK, rec.Code, "body %q", body)
		assert.Equal(t, body, string(fwd.got), "body %q", body)
	}
}

func TestRelayResponses(t *testing.T) {
	tests := []struct {
		name     string
		up       *relay.Upstream
		err      error
		wantCode int
		wantBody string
		wantType string
	}{
		{
			name:     "json reply",
			up:       &relay.Upstream{Status: http.StatusOK, Body: []byte(`{"reply":"thanks"}`)},
			wantCode: http.StatusOK,
			wantBody: `{"reply":"thanks"}`,
			wantType: "application/json",
		},
		{
			name:     "text reply",
			up:       &relay.Upstream{Status: http.StatusOK, Body: []byte("Workflow was started")},
			wantCode: http.StatusOK,
			wantBody: "Workflow was started",
			wantType: "text/plain; charset=utf-8",
		},
		{
			name:     "upstream failure",
			up:       &relay.Upstream{Status: http.StatusNotFound, Body: []byte("webhook not registered")},
			wantCode: http.StatusBadGateway,
			wantBody: `{"error":"n8n request failed","status":404,"body":"webhook not registered"}`,
			wantType: "application/json",
		},
		{
			name:     "not configured",
			err:      relay.ErrNotConfigured,
			wantCode: http.StatusInternalServerError,
			wantBody: `{"error":"N8N_WEBHOOK_URL not set"}`,
			wantType: "application/json",
		},
		{
			name:     "transport failure",
			err:      errors.New("dial tcp: connection refused"),
			wantCode: http.StatusInternalServerError,
			wantBody: `{"error":"Proxy error","message":"dial tcp: connection refused"}`,
			wantType: "application/json",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fwd := &stubForwarder{up: tt.up, err: tt.err}
			rec := sendRelay(NewRelayHandler(fwd), `{"chatId":"c1","text":"hello"}`)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantType, rec.Header().Get("Content-Type"))
			if strings.HasPrefix(tt.wantType, "application/json") {
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
			} else {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
			assert.JSONEq(t, `{"chatId":"c1","text":"hello"}`, string(fwd.got))
		})
	}
}

func TestRelayEndToEnd(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "s3cret", r.Header.Get(relay.SecretHeader))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer upstream.Close()

	h := NewRelayHandler(relay.New(relay.Config{URL: upstream.URL, Secret: "s3cret"}, upstream.Client()))
	rec := sendRelay(h, `{"text":"hi"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
}
