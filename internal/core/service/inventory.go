package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bloodbank/lisreceiver/internal/core/domain"
)

// GetInventory returns the records matching the filter against a fresh
// snapshot. A zero-value filter returns the whole inventory.
func (s *Service) GetInventory(ctx context.Context, filter domain.FilterCriteria) ([]domain.InventoryRecord, error) {
	doc, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.FilterInventory(filter), nil
}

// GetAllData returns the whole document snapshot: inventory plus orders.
func (s *Service) GetAllData(ctx context.Context) (domain.Document, error) {
	return s.load(ctx)
}

// CreateInventoryRecord appends a record, assigning a stable RecordID when
// the caller did not supply one.
func (s *Service) CreateInventoryRecord(ctx context.Context, rec domain.InventoryRecord) (domain.InventoryRecord, error) {
	if rec.RecordID == "" {
		rec.RecordID = uuid.New().String()
	}
	err := s.mutate(ctx, func(doc *domain.Document) error {
		doc.Inventory = append(doc.Inventory, rec)
		return nil
	})
	if err != nil {
		return domain.InventoryRecord{}, err
	}
	s.logger.Info("inventory record created", zap.String("record_id", rec.RecordID), zap.String("element_id", rec.ElementID))
	return rec, nil
}

// UpdateInventoryRecord replaces the record at index, keeping its RecordID.
// An out-of-range index is ErrNotFound.
func (s *Service) UpdateInventoryRecord(ctx context.Context, index int, rec domain.InventoryRecord) error {
	return s.mutate(ctx, func(doc *domain.Document) error {
		if index < 0 || index >= len(doc.Inventory) {
			return ErrNotFound
		}
		rec.RecordID = doc.Inventory[index].RecordID
		doc.Inventory[index] = rec
		return nil
	})
}

// DeleteInventoryRecord removes the record at index. An out-of-range index
// is ErrNotFound.
func (s *Service) DeleteInventoryRecord(ctx context.Context, index int) error {
	return s.mutate(ctx, func(doc *domain.Document) error {
		if index < 0 || index >= len(doc.Inventory) {
			return ErrNotFound
		}
		doc.Inventory = append(doc.Inventory[:index], doc.Inventory[index+1:]...)
		return nil
	})
}
