package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"chanitec_backend/internal/sites"
	"chanitec_backend/platform/apperr"
	"chanitec_backend/platform/phone"
	"chanitec_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	clients map[string]Client
}

func (m *memStore) List(context.Context) ([]Client, error) {
	out := make([]Client, 0, len(m.clients))
	for _, c := range m.clients {
		out = append(out, c)
	}
	return out, nil
}

func (m *memStore) GetByID(_ context.Context, id string) (Client, error) {
	c, ok := m.clients[id]
	if !ok {
		return Client{}, apperr.NotFound(msgNotFound)
	}
	return c, nil
}

func (m *memStore) Create(_ context.Context, c Client) (Client, error) {
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	m.clients[c.ID] = c
	return c, nil
}

func (m *memStore) Update(_ context.Context, c Client) (Client, error) {
	if _, ok := m.clients[c.ID]; !ok {
		return Client{}, apperr.NotFound(msgNotFound)
	}
	m.clients[c.ID] = c
	return c, nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	if _, ok := m.clients[id]; !ok {
		return apperr.NotFound(msgNotFound)
	}
	delete(m.clients, id)
	return nil
}

type stubSites map[string][]sites.Site

func (s stubSites) ListByClient(_ context.Context, clientID string) ([]sites.Site, error) {
	if list, ok := s[clientID]; ok {
		return list, nil
	}
	return []sites.Site{}, nil
}

func newEngine(store *memStore, siteLister SiteLister) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	NewHandler(store, siteLister, phone.NewNormalizer("FR"), validator.New()).RegisterRoutes(engine.Group("/api/clients"))
	return engine
}

func send(engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestCreateClientNormalizesPhone(t *testing.T) {
	store := &memStore{clients: map[string]Client{}}
	engine := newEngine(store, stubSites{})

	rec := send(engine, http.MethodPost, "/api/clients", `{"name":"  Acme  ","phone":"01 42 68 53 00","email":"ops@acme.test"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created Client
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Acme", created.Name)
	require.NotNil(t, created.Phone)
	assert.Equal(t, "+33142685300", *created.Phone)
	assert.Nil(t, created.Address)
}

func TestCreateClientValidation(t *testing.T) {
	engine := newEngine(&memStore{clients: map[string]Client{}}, stubSites{})

	rec := send(engine, http.MethodPost, "/api/clients", `{"name":"   "}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Name is required"}`, rec.Body.String())

	rec = send(engine, http.MethodPost, "/api/clients", `{"name":"Acme","email":"not-an-email"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid email"}`, rec.Body.String())
}

func TestUpdateAndDeleteUnknownClient(t *testing.T) {
	engine := newEngine(&memStore{clients: map[string]Client{}}, stubSites{})

	rec := send(engine, http.MethodPut, "/api/clients/missing", `{"name":"Acme"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Client not found"}`, rec.Body.String())

	rec = send(engine, http.MethodDelete, "/api/clients/missing", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListClientSites(t *testing.T) {
	store := &memStore{clients: map[string]Client{"c1": {ID: "c1", Name: "Acme"}}}
	engine := newEngine(store, stubSites{"c1": {{ID: "s1", Name: "Site1", ClientID: "c1"}}})

	rec := send(engine, http.MethodGet, "/api/clients/c1/sites", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []sites.Site
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "s1", list[0].ID)

	rec = send(engine, http.MethodGet, "/api/clients/c2/sites", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}
