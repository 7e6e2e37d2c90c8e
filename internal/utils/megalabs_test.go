package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vernopromo/internal/logger"
)

func TestMain(m *testing.M) {
	logger.Init("error")
	os.Exit(m.Run())
}

func TestSMSClientSend(t *testing.T) {
	var got smsRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Basic test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewSMSClient("test-token", "ya_verny")
	c.APIURL = srv.URL

	ok, err := c.Send("79001234567", "Ваш проверочный код: 4821")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "ya_verny", got.From)
	assert.Equal(t, "79001234567", got.To)
	assert.Equal(t, "Ваш проверочный код: 4821", got.Message)
}

func TestSMSClientGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"result":{"status":{"code":13,"description":"billing error"}}}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewSMSClient("test-token", "ya_verny")
	c.APIURL = srv.URL

	ok, err := c.Send("79001234567", "test")
	require.NoError(t, err, "не-200 от шлюза — не ошибка транспорта")
	assert.False(t, ok)
}

func TestSMSClientTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // закрываем сразу, чтобы получить connection refused

	c := NewSMSClient("test-token", "ya_verny")
	c.APIURL = srv.URL

	ok, err := c.Send("79001234567", "test")
	assert.Error(t, err)
	assert.False(t, ok)
}
