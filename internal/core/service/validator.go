package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bloodbank/lisreceiver/internal/core/domain"
)

// ValidationError carries a user-facing rejection reason. It is returned
// verbatim to the caller and never logged as a system fault.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func validationErrorf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// orderDateLayouts are tried in order. The upstream LIS sends
// "yyyy-MM-dd HH:mm:ss" but older senders use date-only or RFC3339.
var orderDateLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseOrderDate(s string) bool {
	for _, layout := range orderDateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

// validateStructure checks the order's own fields, no I/O. Checks run in a
// fixed order and stop at the first failure so the same malformed order
// always reports the same field.
func validateStructure(order domain.PatientOrder) error {
	if strings.TrimSpace(order.PID) == "" {
		return validationErrorf("PID is required (patient identifier must not be empty)")
	}
	if strings.TrimSpace(order.OrderID) == "" {
		return validationErrorf("OrderID is required (order identifier must not be empty)")
	}
	if strings.TrimSpace(order.PatientName) == "" {
		return validationErrorf("PatientName is required (patient name must not be empty)")
	}
	if strings.TrimSpace(order.OrderDate) == "" {
		return validationErrorf("OrderDate is required (order time must not be empty)")
	}
	if !parseOrderDate(order.OrderDate) {
		return validationErrorf("OrderDate is invalid (expected 'yyyy-MM-dd HH:mm:ss', got: '%s')", order.OrderDate)
	}
	if strings.TrimSpace(order.Age) == "" {
		return validationErrorf("Age is required (age must not be empty)")
	}
	if age, err := strconv.Atoi(order.Age); err != nil || age < 0 || age > 150 {
		return validationErrorf("Age is invalid (must be a number from 0 to 150, got: '%s')", order.Age)
	}
	if strings.TrimSpace(order.Sex) == "" {
		return validationErrorf("Sex is required (sex must not be empty)")
	}
	if order.Sex != "M" && order.Sex != "F" {
		return validationErrorf("Sex is invalid (only 'M' or 'F' accepted, got: '%s')", order.Sex)
	}
	if strings.TrimSpace(order.BloodGroup) != "" && !domain.ValidBloodGroups[order.BloodGroup] {
		return validationErrorf("BloodGroup is invalid (only 'A', 'B', 'AB', 'O' accepted, got: '%s')", order.BloodGroup)
	}
	if strings.TrimSpace(order.Rh) != "" && !domain.ValidRhFactors[order.Rh] {
		return validationErrorf("Rh is invalid (only '+' or '-' accepted, got: '%s')", order.Rh)
	}

	for i, item := range order.ListOrder {
		if strings.TrimSpace(item.Quantity) == "" {
			return validationErrorf("ListOrder[%d].Quantity must not be empty", i)
		}
		if qty, err := strconv.Atoi(item.Quantity); err != nil || qty < 1 {
			return validationErrorf("ListOrder[%d].Quantity is invalid (must be a positive number, got: '%s')", i, item.Quantity)
		}
		if strings.TrimSpace(item.ElementID) == "" {
			return validationErrorf("ListOrder[%d].ElementID must not be empty", i)
		}
		if item.Volume <= 0 {
			return validationErrorf("ListOrder[%d].Volume is invalid (must be greater than 0, got: %d)", i, item.Volume)
		}
	}

	return nil
}

// validateStock checks every line item against an inventory snapshot: the
// matching record must exist and hold at least the requested quantity.
// Pure; assumes validateStructure already passed.
func validateStock(order domain.PatientOrder, doc *domain.Document) error {
	for i, item := range order.ListOrder {
		candidates := doc.FilterInventory(domain.FilterCriteria{
			ABO:       order.BloodGroup,
			Rh:        order.Rh,
			ElementID: item.ElementID,
		})

		var matched *domain.InventoryRecord
		for j := range candidates {
			if candidates[j].Volume == item.Volume {
				matched = &candidates[j]
				break
			}
		}
		if matched == nil {
			return validationErrorf("ListOrder[%d]: no blood product '%s' with blood type %s%s, volume %dml in stock",
				i, item.ElementID, order.BloodGroup, order.Rh, item.Volume)
		}

		requested, _ := strconv.Atoi(item.Quantity)
		if matched.Quantity < requested {
			return validationErrorf("ListOrder[%d]: insufficient stock, requested %d units of '%s' (%s%s, %dml), %d available",
				i, requested, item.ElementID, order.BloodGroup, order.Rh, item.Volume, matched.Quantity)
		}
	}
	return nil
}
