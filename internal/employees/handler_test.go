package employees

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"chanitec_backend/platform/apperr"
	"chanitec_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

type memStore struct {
	nextID    int64
	employees map[int64]Employee
}

func newMemStore() *memStore {
	return &memStore{nextID: 1, employees: map[int64]Employee{}}
}

func (m *memStore) List(context.Context) ([]Employee, error) {
	out := make([]Employee, 0, len(m.employees))
	for _, e := range m.employees {
		out = append(out, e)
	}
	return out, nil
}

func (m *memStore) GetByID(_ context.Context, id int64) (Employee, error) {
	e, ok := m.employees[id]
	if !ok {
		return Employee{}, apperr.NotFound(msgNotFound)
	}
	return e, nil
}

func (m *memStore) Create(_ context.Context, e Employee) (Employee, error) {
	e.ID = m.nextID
	m.nextID++
	m.employees[e.ID] = e
	return e, nil
}

func (m *memStore) Update(_ context.Context, e Employee) (Employee, error) {
	if _, ok := m.employees[e.ID]; !ok {
		return Employee{}, apperr.NotFound(msgNotFound)
	}
	m.employees[e.ID] = e
	return e, nil
}

func (m *memStore) Delete(_ context.Context, id int64) error {
	if _, ok := m.employees[id]; !ok {
		return apperr.NotFound(msgNotFound)
	}
	delete(m.employees, id)
	return nil
}

const validEmployee = `{
	"full_name": " Jean Mukendi ",
	"civil_status": "m",
	"birth_date": "1985-04-12",
	"entry_date": "2015-09-01T00:00:00Z",
	"seniority": "10 ans",
	"contract_type": "CDI",
	"job_title": "Technicien",
	"fonction": "Frigoriste"
}`

func do(engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func setup(store Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	NewHandler(store, validator.New()).RegisterRoutes(engine.Group("/api/employees"))
	return engine
}

func TestCreateEmployeeNormalizesFields(t *testing.T) {
	engine := setup(newMemStore())

	rec := do(engine, http.MethodPost, "/api/employees", validEmployee)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var created Employee
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID != 1 {
		t.Fatalf("expected id 1, got %d", created.ID)
	}
	if created.FullName != "Jean Mukendi" || created.CivilStatus != "M" {
		t.Fatalf("expected trimmed name and upper-case status, got %q %q", created.FullName, created.CivilStatus)
	}
	if created.EntryDate != "2015-09-01" {
		t.Fatalf("expected entry date 2015-09-01, got %s", created.EntryDate)
	}
}

func TestCreateEmployeeRequiresFields(t *testing.T) {
	engine := setup(newMemStore())

	body := strings.Replace(validEmployee, `"fonction": "Frigoriste"`, `"fonction": ""`, 1)
	rec := do(engine, http.MethodPost, "/api/employees", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), msgRequiredFields) || !strings.Contains(rec.Body.String(), `"fonction"`) {
		t.Fatalf("expected required-fields error naming fonction, got %s", rec.Body.String())
	}

	body = strings.Replace(validEmployee, `"civil_status": "m"`, `"civil_status": "MC"`, 1)
	if rec := do(engine, http.MethodPost, "/api/employees", body); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for two-letter civil status, got %d", rec.Code)
	}
}

func TestEmployeeUpdateAndDelete(t *testing.T) {
	store := newMemStore()
	engine := setup(store)
	do(engine, http.MethodPost, "/api/employees", validEmployee)

	body := strings.Replace(validEmployee, "Technicien", "Chef d'équipe", 1)
	rec := do(engine, http.MethodPut, "/api/employees/1", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if store.employees[1].JobTitle != "Chef d'équipe" {
		t.Fatalf("expected job title to change, got %s", store.employees[1].JobTitle)
	}

	if rec := do(engine, http.MethodPut, "/api/employees/9", body); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown employee, got %d", rec.Code)
	}
	if rec := do(engine, http.MethodGet, "/api/employees/abc", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-numeric id, got %d", rec.Code)
	}
	if rec := do(engine, http.MethodDelete, "/api/employees/1", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if rec := do(engine, http.MethodGet, "/api/employees/1", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
}
