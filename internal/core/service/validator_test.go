package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloodbank/lisreceiver/internal/core/domain"
)

func validOrder() domain.PatientOrder {
	return domain.PatientOrder{
		PID:         "P001",
		OrderID:     "ORD-1",
		PatientName: "Nguyen Van A",
		OrderDate:   "2026-08-29 10:30:00",
		Age:         "42",
		Sex:         "M",
		BloodGroup:  "O",
		Rh:          "+",
		ListOrder: []domain.OrderLineItem{
			{ElementID: "RBC", Quantity: "2", Volume: 250},
		},
	}
}

func TestValidateStructure_ValidOrderPasses(t *testing.T) {
	assert.NoError(t, validateStructure(validOrder()))
}

func TestValidateStructure_FailFastFieldOrder(t *testing.T) {
	// Each case blanks one field while leaving every later check also
	// violated, proving the earliest failing field is always the one
	// reported.
	cases := []struct {
		name    string
		mutate  func(*domain.PatientOrder)
		wantSub string
	}{
		{"missing PID", func(o *domain.PatientOrder) { o.PID = ""; o.OrderID = ""; o.Sex = "X" }, "PID is required"},
		{"missing OrderID", func(o *domain.PatientOrder) { o.OrderID = " "; o.PatientName = "" }, "OrderID is required"},
		{"missing PatientName", func(o *domain.PatientOrder) { o.PatientName = ""; o.OrderDate = "" }, "PatientName is required"},
		{"missing OrderDate", func(o *domain.PatientOrder) { o.OrderDate = ""; o.Age = "bad" }, "OrderDate is required"},
		{"unparseable OrderDate", func(o *domain.PatientOrder) { o.OrderDate = "not-a-date"; o.Age = "bad" }, "OrderDate is invalid"},
		{"missing Age", func(o *domain.PatientOrder) { o.Age = ""; o.Sex = "X" }, "Age is required"},
		{"Age out of range", func(o *domain.PatientOrder) { o.Age = "151"; o.Sex = "X" }, "Age is invalid"},
		{"Age not a number", func(o *domain.PatientOrder) { o.Age = "forty"; o.Sex = "X" }, "Age is invalid"},
		{"missing Sex", func(o *domain.PatientOrder) { o.Sex = ""; o.BloodGroup = "Z" }, "Sex is required"},
		{"invalid Sex", func(o *domain.PatientOrder) { o.Sex = "X"; o.BloodGroup = "Z" }, "Sex is invalid"},
		{"invalid BloodGroup", func(o *domain.PatientOrder) { o.BloodGroup = "Z"; o.Rh = "?" }, "BloodGroup is invalid"},
		{"invalid Rh", func(o *domain.PatientOrder) { o.Rh = "?" }, "Rh is invalid"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			order := validOrder()
			tc.mutate(&order)

			err := validateStructure(order)
			require.Error(t, err)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Message, tc.wantSub)
		})
	}
}

func TestValidateStructure_Deterministic(t *testing.T) {
	order := validOrder()
	order.Sex = "X"
	order.BloodGroup = "Z"

	first := validateStructure(order)
	second := validateStructure(order)
	require.Error(t, first)
	require.Error(t, second)
	assert.Equal(t, first.Error(), second.Error())
	assert.Contains(t, first.Error(), "Sex is invalid")
}

func TestValidateStructure_OptionalBloodGroupAndRh(t *testing.T) {
	order := validOrder()
	order.BloodGroup = ""
	order.Rh = ""
	order.ListOrder = nil
	assert.NoError(t, validateStructure(order))
}

func TestValidateStructure_LineItems(t *testing.T) {
	cases := []struct {
		name    string
		item    domain.OrderLineItem
		wantSub string
	}{
		{"empty quantity", domain.OrderLineItem{ElementID: "RBC", Quantity: "", Volume: 250}, "ListOrder[1].Quantity must not be empty"},
		{"zero quantity", domain.OrderLineItem{ElementID: "RBC", Quantity: "0", Volume: 250}, "ListOrder[1].Quantity is invalid"},
		{"non-numeric quantity", domain.OrderLineItem{ElementID: "RBC", Quantity: "two", Volume: 250}, "ListOrder[1].Quantity is invalid"},
		{"empty element id", domain.OrderLineItem{ElementID: " ", Quantity: "1", Volume: 250}, "ListOrder[1].ElementID must not be empty"},
		{"zero volume", domain.OrderLineItem{ElementID: "RBC", Quantity: "1", Volume: 0}, "ListOrder[1].Volume is invalid"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			order := validOrder()
			order.ListOrder = append(order.ListOrder, tc.item)

			err := validateStructure(order)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantSub)
		})
	}
}

func TestValidateStructure_DateLayouts(t *testing.T) {
	for _, date := range []string{
		"2026-08-29 10:30:00",
		"2026-08-29T10:30:00Z",
		"2026-08-29T10:30:00",
		"2026-08-29",
	} {
		order := validOrder()
		order.OrderDate = date
		assert.NoError(t, validateStructure(order), "layout %s", date)
	}
}

func TestValidateStock_SufficientPasses(t *testing.T) {
	doc := storedDocument()
	assert.NoError(t, validateStock(validOrder(), &doc))
}

func TestValidateStock_NoMatchingProduct(t *testing.T) {
	doc := storedDocument()
	order := validOrder()
	order.ListOrder[0].Volume = 450

	err := validateStock(order, &doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ListOrder[0]: no blood product 'RBC' with blood type O+, volume 450ml in stock")
}

func TestValidateStock_InsufficientNamesRequestedAndAvailable(t *testing.T) {
	doc := storedDocument()
	order := validOrder()
	order.ListOrder[0].Quantity = "10"

	err := validateStock(order, &doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requested 10")
	assert.Contains(t, err.Error(), "5 available")
}

func TestValidateStock_ChecksEveryLineItem(t *testing.T) {
	doc := storedDocument()
	order := validOrder()
	order.ListOrder = append(order.ListOrder, domain.OrderLineItem{ElementID: "PLT", Quantity: "1", Volume: 250})

	err := validateStock(order, &doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ListOrder[1]")
}
