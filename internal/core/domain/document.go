package domain

import "strings"

// Document is the single persisted aggregate: every load returns the whole
// thing and every save replaces the whole thing. The JSON shape matches the
// legacy mockdb.json file so existing data files keep working.
type Document struct {
	Inventory     []InventoryRecord `json:"Inventory"`
	PatientOrders []PatientOrder    `json:"PatientOrders"`
}

// FilterCriteria narrows an inventory listing. Empty string fields and a zero
// Volume impose no constraint, so the zero value means "everything".
type FilterCriteria struct {
	ABO       string
	Rh        string
	ElementID string
	Volume    int
}

// FilterInventory returns the records matching every supplied criterion by
// trimmed exact equality, in document order.
func (d *Document) FilterInventory(c FilterCriteria) []InventoryRecord {
	result := make([]InventoryRecord, 0, len(d.Inventory))
	for _, rec := range d.Inventory {
		if c.ABO != "" && strings.TrimSpace(rec.ABO) != strings.TrimSpace(c.ABO) {
			continue
		}
		if c.Rh != "" && strings.TrimSpace(rec.Rh) != strings.TrimSpace(c.Rh) {
			continue
		}
		if c.ElementID != "" && strings.TrimSpace(rec.ElementID) != strings.TrimSpace(c.ElementID) {
			continue
		}
		if c.Volume > 0 && rec.Volume != c.Volume {
			continue
		}
		result = append(result, rec)
	}
	return result
}

// FindMatch returns a pointer into d.Inventory for the first record matching
// all four key fields, or nil. Duplicate keys are possible; only the first
// record in document order is ever matched.
func (d *Document) FindMatch(abo, rh, elementID string, volume int) *InventoryRecord {
	for i := range d.Inventory {
		rec := &d.Inventory[i]
		if strings.TrimSpace(rec.ABO) == strings.TrimSpace(abo) &&
			strings.TrimSpace(rec.Rh) == strings.TrimSpace(rh) &&
			strings.TrimSpace(rec.ElementID) == strings.TrimSpace(elementID) &&
			rec.Volume == volume {
			return rec
		}
	}
	return nil
}

// Clone deep-copies the document so staged mutations never alias a snapshot
// shared with concurrent readers.
func (d *Document) Clone() Document {
	out := Document{
		Inventory:     make([]InventoryRecord, len(d.Inventory)),
		PatientOrders: make([]PatientOrder, len(d.PatientOrders)),
	}
	copy(out.Inventory, d.Inventory)
	for i, o := range d.PatientOrders {
		out.PatientOrders[i] = o.Clone()
	}
	return out
}
