package items

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"

	"chanitec_backend/internal/adapters/storage"
	"chanitec_backend/internal/events"
	"chanitec_backend/platform/logger"

	"github.com/google/uuid"
)

const importFolder = "imports"

var contentTypes = map[string]string{
	extXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	extCSV:  "text/csv",
}

// ImportResult is the body returned by POST /api/items/import.
type ImportResult struct {
	TotalRows     int          `json:"totalRows"`
	ImportedCount int          `json:"importedCount"`
	InvalidItems  []InvalidRow `json:"invalidItems"`
}

// Importer turns an uploaded price list into item rows.
type Importer struct {
	store   Store
	storage storage.StorageService
	bucket  string
	bus     events.Bus
	log     *logger.Logger
}

// NewImporter creates an importer. Archiving is skipped while no storage is set.
func NewImporter(store Store, log *logger.Logger) *Importer {
	return &Importer{store: store, log: log}
}

// SetArchive enables archiving of uploaded files to the given bucket.
func (i *Importer) SetArchive(svc storage.StorageService, bucket string) {
	i.storage = svc
	i.bucket = bucket
}

// SetEventBus sets the bus used to announce completed imports.
func (i *Importer) SetEventBus(bus events.Bus) {
	i.bus = bus
}

// Import validates every row and inserts the valid ones in one transaction.
// Invalid rows are reported back and never block the valid ones.
func (i *Importer) Import(ctx context.Context, fileName string, data []byte) (ImportResult, error) {
	sheet, err := ParseSheet(fileName, data)
	if err != nil {
		return ImportResult{}, err
	}

	for n := range sheet.Valid {
		sheet.Valid[n].ID = uuid.NewString()
	}
	if len(sheet.Valid) > 0 {
		if err := i.store.InsertBatch(ctx, sheet.Valid); err != nil {
			return ImportResult{}, err
		}
	}

	i.archive(ctx, fileName, data)
	if i.bus != nil {
		i.bus.Publish(ctx, events.ItemsImported{
			BaseEvent: events.NewBaseEvent(),
			FileName:  fileName,
			Imported:  len(sheet.Valid),
			Invalid:   len(sheet.Invalid),
		})
	}

	return ImportResult{
		TotalRows:     sheet.TotalRows,
		ImportedCount: len(sheet.Valid),
		InvalidItems:  sheet.Invalid,
	}, nil
}

func (i *Importer) archive(ctx context.Context, fileName string, data []byte) {
	if i.storage == nil {
		return
	}
	contentType := contentTypes[strings.ToLower(filepath.Ext(fileName))]
	if err := i.storage.ValidateContentType(contentType); err != nil {
		i.logArchiveSkipped(fileName, err)
		return
	}
	if err := i.storage.ValidateFileSize(int64(len(data))); err != nil {
		i.logArchiveSkipped(fileName, err)
		return
	}
	key, err := i.storage.UploadFile(ctx, i.bucket, importFolder, fileName, contentType, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		if i.log != nil {
			i.log.Error("failed to archive item import", "file", fileName, "error", err)
		}
		return
	}
	if i.log != nil {
		i.log.Info("item import archived", "file", fileName, "key", key)
	}
}

func (i *Importer) logArchiveSkipped(fileName string, err error) {
	if i.log != nil {
		i.log.Warn("item import not archived", "file", fileName, "error", err)
	}
}
