package domain

// InventoryRecord is one stocked blood product. The tuple
// (ABO, Rh, ElementID, Volume) is the natural matching key; RecordID is a
// stable synthetic identity assigned at creation, so mutations never depend
// on list position alone.
type InventoryRecord struct {
	RecordID    string `json:"RecordID,omitempty"`
	ABO         string `json:"ABO"`
	Rh          string `json:"Rh"`
	ElementID   string `json:"ElementID"`
	ElementName string `json:"ElementName"`
	Volume      int    `json:"Volume"`
	Quantity    int    `json:"Quantity"`
}

// ValidBloodGroups lists the ABO groups accepted by validation.
var ValidBloodGroups = map[string]bool{"A": true, "B": true, "AB": true, "O": true}

// ValidRhFactors lists the Rh factors accepted by validation.
var ValidRhFactors = map[string]bool{"+": true, "-": true}
