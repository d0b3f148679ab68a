package quote

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomQuote(t *testing.T) {
	stub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": 42, "author": "Grace Hopper", "quote": "A ship in port is safe."}`))
	}))
	defer stub.Close()

	service := NewQuoteService(stub.URL)
	q, err := service.Random()
	require.NoError(t, err)
	assert.Equal(t, 42, q.ID)
	assert.Equal(t, "Grace Hopper", q.Author)
	assert.Equal(t, "A ship in port is safe.", q.Quote)
}

func TestRandomQuoteServerError(t *testing.T) {
	stub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer stub.Close()

	service := NewQuoteService(stub.URL)
	_, err := service.Random()
	assert.Error(t, err)
}

func TestRandomQuoteBadJSON(t *testing.T) {
	stub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer stub.Close()

	service := NewQuoteService(stub.URL)
	_, err := service.Random()
	assert.Error(t, err)
}

func TestRandomQuoteUnreachable(t *testing.T) {
	service := NewQuoteService("http://127.0.0.1:1/random.json")
	_, err := service.Random()
	assert.Error(t, err)
}
