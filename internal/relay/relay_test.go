package relay

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForwardNotConfigured(t *testing.T) {
	f := New(Config{}, nil)

	_, err := f.Forward(context.Background(), json.RawMessage(`{"a":1}`))
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestForwardSendsPayloadAndSecret(t *testing.T) {
	var gotBody []byte
	var gotHeader http.Header
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Clone()
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer upstream.Close()

	f := New(Config{URL: upstream.URL, Secret: "s3cret"}, upstream.Client())
	up, err := f.Forward(context.Background(), json.RawMessage(`{"chatId":"c1","text":"hi"}`))
	require.NoError(t, err)

	assert.True(t, up.OK())
	assert.JSONEq(t, `{"chatId":"c1","text":"hi"}`, string(gotBody))
	assert.Equal(t, "application/json", gotHeader.Get("Content-Type"))
	assert.Equal(t, "s3cret", gotHeader.Get(SecretHeader))

	raw, ok := up.JSON()
	require.True(t, ok)
	assert.JSONEq(t, `{"ok":true}`, string(raw))
}

func TestForwardOmitsSecretWhenUnset(t *testing.T) {
	var hasSecret bool
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasSecret = r.Header[http.CanonicalHeaderKey(SecretHeader)]
		_, _ = w.Write([]byte("accepted"))
	}))
	defer upstream.Close()

	up, err := New(Config{URL: upstream.URL}, upstream.Client()).Forward(context.Background(), json.RawMessage(`{}`))
	require.NoError(t, err)
	assert.False(t, hasSecret)

	_, ok := up.JSON()
	assert.False(t, ok, "plain text is not JSON")
	assert.Equal(t, "accepted", string(up.Body))
}

func TestForwardReturnsUpstreamFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("workflow inactive"))
	}))
	defer upstream.Close()

	up, err := New(Config{URL: upstream.URL}, upstream.Client()).Forward(context.Background(), json.RawMessage(`{}`))
	require.NoError(t, err)
	assert.False(t, up.OK())
	assert.Equal(t, http.StatusServiceUnavailable, up.Status)
	assert.Equal(t, "workflow inactive", string(up.Body))
}

func TestForwardTransportError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := upstream.URL
	upstream.Close()

	_, err := New(Config{URL: url}, nil).Forward(context.Background(), json.RawMessage(`{}`))
	assert.Error(t, err)
}
