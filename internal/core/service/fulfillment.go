package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bloodbank/lisreceiver/internal/audit"
	"github.com/bloodbank/lisreceiver/internal/core/domain"
	"github.com/bloodbank/lisreceiver/internal/port"
)

const (
	// maxSaveRetries bounds the Load-mutate-Save loop when concurrent
	// writers keep invalidating our snapshot.
	maxSaveRetries = 5

	// defaultStoreTimeout bounds each pass over the document store.
	defaultStoreTimeout = 5 * time.Second

	opSubmitOrder = "SavePatient"
)

// ErrNotFound reports a CRUD operation targeting an element that does not
// exist in the current document.
var ErrNotFound = errors.New("not found")

// Auditor receives one record per completed operation. Implementations must
// never fail the operation being audited.
type Auditor interface {
	Record(operation string, input, output any, status audit.Status, errMsg string)
}

// SubmitResult is the caller-facing outcome of an order submission, shaped
// like the upstream LIS contract.
type SubmitResult struct {
	IsSuccess    bool   `json:"IsSuccess"`
	ErrorMessage string `json:"ErrorMessage"`
}

// Service owns every operation over the shared document: order fulfillment,
// inventory queries, and list CRUD. All mutations run a bounded
// Load-mutate-Save cycle with optimistic retry, so two overlapping writers
// can never both commit against the same snapshot.
type Service struct {
	store        port.DocumentStore
	auditor      Auditor
	logger       *zap.Logger
	storeTimeout time.Duration
}

func NewService(store port.DocumentStore, auditor Auditor, logger *zap.Logger) *Service {
	return &Service{
		store:        store,
		auditor:      auditor,
		logger:       logger,
		storeTimeout: defaultStoreTimeout,
	}
}

// WithStoreTimeout overrides the per-pass store deadline.
func (s *Service) WithStoreTimeout(d time.Duration) *Service {
	if d > 0 {
		s.storeTimeout = d
	}
	return s
}

// SubmitOrder validates the order and, if satisfiable, deducts the matched
// stock and appends the order in one persisted revision. The returned error
// is a *ValidationError for rejections and a wrapped store error otherwise.
func (s *Service) SubmitOrder(ctx context.Context, order domain.PatientOrder) (domain.PatientOrder, error) {
	if err := validateStructure(order); err != nil {
		s.audit(opSubmitOrder, order, err)
		return domain.PatientOrder{}, err
	}

	if order.ID == "" {
		order.ID = uuid.New().String()
	}

	err := s.mutate(ctx, func(doc *domain.Document) error {
		// Stock sufficiency is re-checked against every fresh snapshot:
		// a retry after a revision conflict must not trust a stale check.
		if err := validateStock(order, doc); err != nil {
			return err
		}

		for i, item := range order.ListOrder {
			requested, _ := strconv.Atoi(item.Quantity)
			matched := doc.FindMatch(order.BloodGroup, order.Rh, item.ElementID, item.Volume)
			if matched == nil {
				return validationErrorf("ListOrder[%d]: no blood product '%s' with blood type %s%s, volume %dml in stock",
					i, item.ElementID, order.BloodGroup, order.Rh, item.Volume)
			}
			if matched.Quantity-requested < 0 {
				return validationErrorf("ListOrder[%d]: insufficient stock, requested %d units of '%s' (%s%s, %dml), %d available",
					i, requested, item.ElementID, order.BloodGroup, order.Rh, item.Volume, matched.Quantity)
			}
			matched.Quantity -= requested
			s.logger.Info("deducted stock",
				zap.String("element_id", item.ElementID),
				zap.String("blood_type", order.BloodGroup+order.Rh),
				zap.Int("volume", item.Volume),
				zap.Int("requested", requested),
				zap.Int("remaining", matched.Quantity),
			)
		}

		doc.PatientOrders = append(doc.PatientOrders, order)
		return nil
	})
	if err != nil {
		s.audit(opSubmitOrder, order, err)
		return domain.PatientOrder{}, err
	}

	s.logger.Info("order accepted",
		zap.String("order_id", order.OrderID),
		zap.String("patient", order.PatientName),
		zap.Int("line_items", len(order.ListOrder)),
	)
	s.auditor.Record(opSubmitOrder, order, SubmitResult{IsSuccess: true}, audit.StatusSuccess, "")
	return order, nil
}

func (s *Service) audit(operation string, input any, err error) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		out := SubmitResult{IsSuccess: false, ErrorMessage: verr.Message}
		s.auditor.Record(operation, input, out, audit.StatusFailed, verr.Message)
		return
	}
	s.logger.Error("operation failed", zap.String("operation", operation), zap.Error(err))
	out := SubmitResult{IsSuccess: false, ErrorMessage: "storage unavailable"}
	s.auditor.Record(operation, input, out, audit.StatusError, err.Error())
}

// mutate runs op against a deep copy of a fresh snapshot and saves it with
// the snapshot's revision, retrying the whole cycle on conflict. op returning
// an error aborts without touching the store.
func (s *Service) mutate(ctx context.Context, op func(doc *domain.Document) error) error {
	for attempt := 1; attempt <= maxSaveRetries; attempt++ {
		storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
		doc, rev, err := s.store.Load(storeCtx)
		if err != nil {
			cancel()
			return err
		}

		staged := doc.Clone()
		if err := op(&staged); err != nil {
			cancel()
			return err
		}

		err = s.store.Save(storeCtx, staged, rev)
		cancel()
		if err == nil {
			return nil
		}
		if !errors.Is(err, port.ErrRevisionConflict) {
			return err
		}
		s.logger.Debug("revision conflict, retrying", zap.Int("attempt", attempt))
	}
	return fmt.Errorf("%w: revision conflict retries exhausted", port.ErrStoreUnavailable)
}

// load returns a read-only snapshot of the document.
func (s *Service) load(ctx context.Context) (domain.Document, error) {
	storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	doc, _, err := s.store.Load(storeCtx)
	return doc, err
}
