package model

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newModelRouter(store *Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	service := NewService(store, 0)
	RegisterRoutes(r.Group("/v1"), service)
	RegisterAdminRoutes(r.Group("/v1"), service)
	return r
}

func TestDownloadModelServesStoredBytes(t *testing.T) {
	store := newTestStore(t)
	mf, err := store.Save(context.Background(), SaveInput{
		Bytes:    []byte("solid bracket"),
		FileName: "bracket.stl",
		QuoteID:  "Q-1",
	})
	require.NoError(t, err)

	r := newModelRouter(store)
	req := httptest.NewRequest(http.MethodGet, "/v1/models/"+mf.QuoteID+"/bracket.stl", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "solid bracket", rr.Body.String())
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "attachment")
}

func TestDownloadModelNotFound(t *testing.T) {
	r := newModelRouter(newTestStore(t))
	req := httptest.NewRequest(http.MethodGet, "/v1/models/Q-404/ghost.stl", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDeleteModelEndpoint(t *testing.T) {
	store := newTestStore(t)
	mf, err := store.Save(context.Background(), SaveInput{
		Bytes:    []byte("solid"),
		FileName: "part.stl",
		QuoteID:  "Q-2",
		Metadata: map[string]string{},
	})
	require.NoError(t, err)

	r := newModelRouter(store)
	req := httptest.NewRequest(http.MethodDelete, "/v1/models/"+mf.StoredFileName, nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusNoContent, rr.Code)

	req = httptest.NewRequest(http.MethodDelete, "/v1/models/"+mf.StoredFileName, nil)
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestListOrderModelsEndpoint(t *testing.T) {
	store := newTestStore(t)
	for _, name := range []string{"a.stl", "b.stl"} {
		_, err := store.Save(context.Background(), SaveInput{
			Bytes:    []byte("solid"),
			FileName: name,
			QuoteID:  "Q-3",
			Metadata: map[string]string{},
		})
		require.NoError(t, err)
	}

	r := newModelRouter(store)
	req := httptest.NewRequest(http.MethodGet, "/v1/orders/Q-3/models", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Q-3-A_a.stl")
	assert.Contains(t, rr.Body.String(), "Q-3-B_b.stl")
}
