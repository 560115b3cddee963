package departments

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"chanitec_backend/platform/apperr"
	"chanitec_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	rows map[int64]string
}

func (m *memStore) List(context.Context) ([]Department, error) {
	out := make([]Department, 0, len(m.rows))
	for id, name := range m.rows {
		out = append(out, Department{ID: id, Name: name})
	}
	return out, nil
}

func (m *memStore) GetByID(_ context.Context, id int64) (Department, error) {
	name, ok := m.rows[id]
	if !ok {
		return Department{}, apperr.NotFound(msgNotFound)
	}
	return Department{ID: id, Name: name}, nil
}

func (m *memStore) Create(_ context.Context, name string) (Department, error) {
	id := int64(len(m.rows) + 1)
	m.rows[id] = name
	return Department{ID: id, Name: name}, nil
}

func (m *memStore) Rename(_ context.Context, id int64, name string) (Department, error) {
	if _, ok := m.rows[id]; !ok {
		return Department{}, apperr.NotFound(msgNotFound)
	}
	m.rows[id] = name
	return Department{ID: id, Name: name}, nil
}

func (m *memStore) Delete(_ context.Context, id int64) error {
	if _, ok := m.rows[id]; !ok {
		return apperr.NotFound(msgNotFound)
	}
	delete(m.rows, id)
	return nil
}

func TestDepartmentRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := &memStore{rows: map[int64]string{}}
	engine := gin.New()
	NewHandler(store, validator.New()).RegisterRoutes(engine.Group("/api/departments"))

	send := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)
		return rec
	}

	rec := send(http.MethodPost, "/api/departments", `{"name":"  "}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Name is required")

	rec = send(http.MethodPost, "/api/departments", `{"name":"Maintenance"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":1,"name":"Maintenance"}`, rec.Body.String())

	rec = send(http.MethodPut, "/api/departments/1", `{"name":"Installation"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Installation", store.rows[1])

	rec = send(http.MethodGet, "/api/departments/2", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = send(http.MethodDelete, "/api/departments/x", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = send(http.MethodDelete, "/api/departments/1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
