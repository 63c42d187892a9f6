package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchSnapshot_Success(t *testing.T) {
	products := []Product{
		{ID: "P1", Name: "Vase", Price: 20, Variations: []Variation{
			{Color: "White", Size: "S", Quantity: 8},
		}},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/products", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(products)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	snapshot, err := client.FetchSnapshot(context.Background())
	require.NoError(t, err)

	ceiling, ok := snapshot.Ceiling("P1", "White", "S")
	assert.True(t, ok)
	assert.Equal(t, 8, ceiling)
	assert.Equal(t, 1, snapshot.Len())
}

func TestFetchSnapshot_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	_, err := client.FetchSnapshot(context.Background())
	assert.Error(t, err)
}

func TestFetchSnapshot_BadPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{not json"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	_, err := client.FetchSnapshot(context.Background())
	assert.Error(t, err)
}

func TestFetchSnapshot_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClient(srv.URL, time.Second)
	_, err := client.FetchSnapshot(context.Background())
	assert.Error(t, err)
}
