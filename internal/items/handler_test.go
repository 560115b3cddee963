package items

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"chanitec_backend/internal/events"
	"chanitec_backend/platform/apperr"
	"chanitec_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	items     map[string]Item
	batchErr  error
	batches   int
	lastBatch []Item
}

func newMemStore() *memStore {
	return &memStore{items: map[string]Item{}}
}

func (m *memStore) List(context.Context) ([]Item, error) {
	out := make([]Item, 0, len(m.items))
	for _, it := range m.items {
		out = append(out, it)
	}
	return out, nil
}

func (m *memStore) GetByID(_ context.Context, id string) (Item, error) {
	it, ok := m.items[id]
	if !ok {
		return Item{}, apperr.NotFound(msgNotFound)
	}
	return it, nil
}

func (m *memStore) Create(_ context.Context, item Item) (Item, error) {
	m.items[item.ID] = item
	return item, nil
}

func (m *memStore) Update(_ context.Context, item Item) (Item, error) {
	if _, ok := m.items[item.ID]; !ok {
		return Item{}, apperr.NotFound(msgNotFound)
	}
	m.items[item.ID] = item
	return item, nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	if _, ok := m.items[id]; !ok {
		return apperr.NotFound(msgNotFound)
	}
	delete(m.items, id)
	return nil
}

func (m *memStore) Clear(context.Context) (int64, error) {
	n := int64(len(m.items))
	m.items = map[string]Item{}
	return n, nil
}

func (m *memStore) InsertBatch(_ context.Context, items []Item) error {
	if m.batchErr != nil {
		return apperr.Storage(msgImportFailed, m.batchErr)
	}
	m.batches++
	m.lastBatch = items
	for _, it := range items {
		m.items[it.ID] = it
	}
	return nil
}

type recordingStorage struct {
	keys    []string
	err     error
	maxSize int64
}

func (s *recordingStorage) UploadFile(_ context.Context, bucket, folder, fileName, _ string, reader io.Reader, _ int64) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	_, _ = io.Copy(io.Discard, reader)
	key := bucket + "/" + folder + "/" + fileName
	s.keys = append(s.keys, key)
	return key, nil
}

func (s *recordingStorage) PutObject(context.Context, string, string, string, io.Reader, int64) error {
	return nil
}

func (s *recordingStorage) DownloadFile(context.Context, string, string) (io.ReadCloser, error) {
	return nil, errors.New("not implemented")
}

func (s *recordingStorage) EnsureBucketExists(context.Context, string) error { return nil }
func (s *recordingStorage) ValidateContentType(string) error                 { return nil }

func (s *recordingStorage) ValidateFileSize(size int64) error {
	if s.maxSize > 0 && size > s.maxSize {
		return fmt.Errorf("file size %d exceeds %d", size, s.maxSize)
	}
	return nil
}

type recordingBus struct {
	published []events.Event
}

func (b *recordingBus) Publish(_ context.Context, event events.Event) {
	b.published = append(b.published, event)
}

func (b *recordingBus) PublishSync(_ context.Context, event events.Event) error {
	b.published = append(b.published, event)
	return nil
}

func (b *recordingBus) Subscribe(string, events.Handler) {}

func newTestEngine(store *memStore, importer SheetImporter, maxSize int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	NewHandler(store, importer, validator.New(), maxSize).RegisterRoutes(engine.Group("/api/items"))
	return engine
}

func jsonRequest(engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func uploadRequest(t *testing.T, engine *gin.Engine, fileName string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/items/import", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestCreateItem(t *testing.T) {
	store := newMemStore()
	engine := newTestEngine(store, NewImporter(store, nil), 0)

	rec := jsonRequest(engine, http.MethodPost, "/api/items", `{"description":"Filtre","price":12.5}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), msgMissingFields)
	assert.Contains(t, rec.Body.String(), `"quantity"`)

	rec = jsonRequest(engine, http.MethodPost, "/api/items", `{"id":"ITM-7","description":"Filtre","price":12.5,"quantity":0}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, store.items, "ITM-7")

	rec = jsonRequest(engine, http.MethodPost, "/api/items", `{"description":"Vanne","price":40,"quantity":3}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created Item
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Len(t, created.ID, 36)
}

func TestClearIsNotShadowedByID(t *testing.T) {
	store := newMemStore()
	store.items["a"] = Item{ID: "a"}
	store.items["clear"] = Item{ID: "clear"}
	engine := newTestEngine(store, NewImporter(store, nil), 0)

	rec := jsonRequest(engine, http.MethodDelete, "/api/items/clear", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"All items cleared","deleted":2}`, rec.Body.String())
	assert.Empty(t, store.items)

	rec = jsonRequest(engine, http.MethodDelete, "/api/items/a", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestImportItems(t *testing.T) {
	store := newMemStore()
	archive := &recordingStorage{}
	bus := &recordingBus{}
	importer := NewImporter(store, nil)
	importer.SetArchive(archive, "item-imports")
	importer.SetEventBus(bus)
	engine := newTestEngine(store, importer, 0)

	csv := "description,price\nFiltre,12.5\n,8\nVanne,abc\nSupport,35\n"
	rec := uploadRequest(t, engine, "prix.csv", []byte(csv))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result ImportResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 4, result.TotalRows)
	assert.Equal(t, 2, result.ImportedCount)
	require.Len(t, result.InvalidItems, 2)
	assert.Equal(t, 3, result.InvalidItems[0].RowIndex)
	assert.Equal(t, "8", result.InvalidItems[0].RawData["price"])
	assert.Equal(t, 4, result.InvalidItems[1].RowIndex)

	assert.Equal(t, 1, store.batches)
	for _, it := range store.lastBatch {
		assert.NotEmpty(t, it.ID)
		assert.Nil(t, it.Quantity)
	}
	assert.Equal(t, []string{"item-imports/imports/prix.csv"}, archive.keys)

	require.Len(t, bus.published, 1)
	evt, ok := bus.published[0].(events.ItemsImported)
	require.True(t, ok)
	assert.Equal(t, 2, evt.Imported)
	assert.Equal(t, 2, evt.Invalid)
}

func TestImportFailureRollsBackEverything(t *testing.T) {
	store := newMemStore()
	store.batchErr = errors.New("deadlock detected")
	archive := &recordingStorage{}
	importer := NewImporter(store, nil)
	importer.SetArchive(archive, "item-imports")
	engine := newTestEngine(store, importer, 0)

	rec := uploadRequest(t, engine, "prix.csv", []byte("description,price\nFiltre,12.5\n"))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "deadlock detected")
	assert.Empty(t, store.items)
	assert.Empty(t, archive.keys)
}

func TestImportArchiveFailureIsNotFatal(t *testing.T) {
	store := newMemStore()
	importer := NewImporter(store, nil)
	importer.SetArchive(&recordingStorage{err: errors.New("bucket missing")}, "item-imports")

	result, err := importer.Import(context.Background(), "prix.csv", []byte("description,price\nFiltre,12.5\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, result.ImportedCount)
}

func TestImportSkipsArchiveOverStorageLimit(t *testing.T) {
	store := newMemStore()
	archive := &recordingStorage{maxSize: 8}
	importer := NewImporter(store, nil)
	importer.SetArchive(archive, "item-imports")

	result, err := importer.Import(context.Background(), "prix.csv", []byte("description,price\nFiltre,12.5\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, result.ImportedCount)
	assert.Empty(t, archive.keys)
}

func TestImportRejectsUploads(t *testing.T) {
	store := newMemStore()
	engine := newTestEngine(store, NewImporter(store, nil), 16)

	rec := jsonRequest(engine, http.MethodPost, "/api/items/import", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), msgNoFile)

	rec = uploadRequest(t, engine, "prix.pdf", []byte("%PDF"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), msgUnsupportedFile)

	rec = uploadRequest(t, engine, "prix.csv", []byte("description,price\nFiltre,12.5\n"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), msgFileTooLarge)
}
