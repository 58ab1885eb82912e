package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bloodbank/lisreceiver/internal/core/domain"
)

// ListOrders returns every accepted order from a fresh snapshot.
func (s *Service) ListOrders(ctx context.Context) ([]domain.PatientOrder, error) {
	doc, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.PatientOrders, nil
}

// CreateOrder appends an order without touching inventory. The order is
// structurally validated but no stock check or deduction happens; this is
// the maintenance path, not order acceptance.
func (s *Service) CreateOrder(ctx context.Context, order domain.PatientOrder) (domain.PatientOrder, error) {
	if err := validateStructure(order); err != nil {
		return domain.PatientOrder{}, err
	}
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	err := s.mutate(ctx, func(doc *domain.Document) error {
		doc.PatientOrders = append(doc.PatientOrders, order)
		return nil
	})
	if err != nil {
		return domain.PatientOrder{}, err
	}
	s.logger.Info("order created", zap.String("order_id", order.OrderID))
	return order, nil
}

// UpdateOrder replaces the order at index, keeping its stable ID.
// An out-of-range index is ErrNotFound.
func (s *Service) UpdateOrder(ctx context.Context, index int, order domain.PatientOrder) error {
	if err := validateStructure(order); err != nil {
		return err
	}
	return s.mutate(ctx, func(doc *domain.Document) error {
		if index < 0 || index >= len(doc.PatientOrders) {
			return ErrNotFound
		}
		order.ID = doc.PatientOrders[index].ID
		doc.PatientOrders[index] = order
		return nil
	})
}

// DeleteOrder removes the order at index. An out-of-range index is
// ErrNotFound.
func (s *Service) DeleteOrder(ctx context.Context, index int) error {
	return s.mutate(ctx, func(doc *domain.Document) error {
		if index < 0 || index >= len(doc.PatientOrders) {
			return ErrNotFound
		}
		doc.PatientOrders = append(doc.PatientOrders[:index], doc.PatientOrders[index+1:]...)
		return nil
	})
}
