package domain

// OrderLineItem is one requested product line within a patient order.
// Quantity stays string-encoded on the wire, as the upstream LIS sends it.
type OrderLineItem struct {
	ElementID string `json:"ElementID"`
	Quantity  string `json:"Quantity"`
	Volume    int    `json:"Volume"`
}

// PatientOrder is a transfusion order as received from the LIS. Once accepted
// it is immutable history; there is no further lifecycle beyond acceptance.
// Field names mirror the upstream JSON contract, including the legacy
// TREATMENT_CODE casing.
type PatientOrder struct {
	ID            string          `json:"ID,omitempty"`
	PID           string          `json:"PID"`
	OrderID       string          `json:"OrderID"`
	PatientName   string          `json:"PatientName"`
	InsureNumber  string          `json:"InsureNumber"`
	TreatmentCode string          `json:"TREATMENT_CODE"`
	OrderDate     string          `json:"OrderDate"`
	Age           string          `json:"Age"`
	Sex           string          `json:"Sex"`
	BloodGroup    string          `json:"BloodGroup"`
	Rh            string          `json:"Rh"`
	Address       string          `json:"Address"`
	DoctorID      string          `json:"DoctorID"`
	DoctorName    string          `json:"DoctorName"`
	LocationID    string          `json:"LocationID"`
	LocationName  string          `json:"LocationName"`
	ListOrder     []OrderLineItem `json:"ListOrder"`
}

// Clone copies the order including its line items.
func (o PatientOrder) Clone() PatientOrder {
	out := o
	if o.ListOrder != nil {
		out.ListOrder = make([]OrderLineItem, len(o.ListOrder))
		copy(out.ListOrder, o.ListOrder)
	}
	return out
}
