package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/bloodbank/lisreceiver/internal/core/domain"
	"github.com/bloodbank/lisreceiver/internal/port"
)

// FileStore persists the document as a single indented JSON file, the same
// shape as the legacy mockdb.json. Writes go to a temp file in the same
// directory followed by a rename, so a crash mid-write never leaves a
// half-written document behind.
//
// The revision counter lives in process memory, which is enough because a
// file-backed deployment has exactly one writer process.
type FileStore struct {
	path string

	mu  sync.Mutex
	rev port.Revision
}

func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path}
	if _, err := os.Stat(path); err == nil {
		s.rev = 1
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: stat %s: %v", port.ErrStoreUnavailable, path, err)
	}
	return s, nil
}

func (s *FileStore) Load(ctx context.Context) (domain.Document, port.Revision, error) {
	if err := ctx.Err(); err != nil {
		return domain.Document{}, 0, fmt.Errorf("%w: %v", port.ErrStoreUnavailable, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return emptyDocument(), 0, nil
	}
	if err != nil {
		return domain.Document{}, 0, fmt.Errorf("%w: read %s: %v", port.ErrStoreUnavailable, s.path, err)
	}

	doc, err := decodeDocument(data)
	if err != nil {
		return domain.Document{}, 0, fmt.Errorf("%w: decode %s: %v", port.ErrStoreUnavailable, s.path, err)
	}
	return doc, s.rev, nil
}

func (s *FileStore) Save(ctx context.Context, doc domain.Document, rev port.Revision) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", port.ErrStoreUnavailable, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if rev != s.rev {
		return port.ErrRevisionConflict
	}

	data, err := encodeDocument(doc)
	if err != nil {
		return fmt.Errorf("%w: encode: %v", port.ErrStoreUnavailable, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".document-*.json")
	if err != nil {
		return fmt.Errorf("%w: temp file: %v", port.ErrStoreUnavailable, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: write: %v", port.ErrStoreUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: close: %v", port.ErrStoreUnavailable, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: rename: %v", port.ErrStoreUnavailable, err)
	}

	s.rev++
	return nil
}

func emptyDocument() domain.Document {
	return domain.Document{
		Inventory:     []domain.InventoryRecord{},
		PatientOrders: []domain.PatientOrder{},
	}
}

// decodeDocument tolerates absent sections by defaulting them to empty
// slices, matching how the legacy reader treated missing JSON properties.
func decodeDocument(data []byte) (domain.Document, error) {
	var doc domain.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return domain.Document{}, err
	}
	if doc.Inventory == nil {
		doc.Inventory = []domain.InventoryRecord{}
	}
	if doc.PatientOrders == nil {
		doc.PatientOrders = []domain.PatientOrder{}
	}
	return doc, nil
}

func encodeDocument(doc domain.Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}
