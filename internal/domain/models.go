package domain

import "time"

// Party identifies one side of a purchase order (the vendor or the
// purchaser). Optional fields are pointers so that absent stays absent on
// the wire.
type Party struct {
	Name    string  `json:"name"`
	Address string  `json:"address"`
	Contact *string `json:"contact,omitempty"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
}

// LineItem is a single ordered line within a purchase order. Quantity and
// UnitPrice are always plain numbers by the time a LineItem exists; the
// schema validator coerces string representations on the way in.
type LineItem struct {
	Name        string   `json:"name"`
	Description *string  `json:"description,omitempty"`
	SKU         *string  `json:"sku,omitempty"`
	Quantity    float64  `json:"quantity"`
	UnitPrice   float64  `json:"unitPrice"`
	TotalPrice  *float64 `json:"totalPrice,omitempty"`
	Currency    *string  `json:"currency,omitempty"`
}

// PurchaseOrderCore is the canonical validated shape of a purchase order.
// Instances are only produced by schema.ParsePurchaseOrder.
type PurchaseOrderCore struct {
	PurchaseOrderNumber *string    `json:"purchaseOrderNumber,omitempty"`
	IssueDate           *string    `json:"issueDate,omitempty"`
	Vendor              Party      `json:"vendor"`
	Purchaser           Party      `json:"purchaser"`
	Items               []LineItem `json:"items"`
	Subtotal            *float64   `json:"subtotal,omitempty"`
	Tax                 *float64   `json:"tax,omitempty"`
	Total               float64    `json:"total"`
	Currency            *string    `json:"currency,omitempty"`
	Notes               *string    `json:"notes,omitempty"`
}

// PurchaseOrderRecord is a persisted purchase order: the validated core
// plus server-owned metadata. ID is assigned by the storage layer on
// insert and stable thereafter; CreatedAt is set exactly once.
type PurchaseOrderRecord struct {
	ID string `json:"id"`
	PurchaseOrderCore
	SourceFileName string     `json:"sourceFileName"`
	RawText        string     `json:"rawText"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      *time.Time `json:"updatedAt,omitempty"`
}

// OrderUpdate is the merge document applied by an atomic find-and-update.
// RawText and SourceFileName are only rewritten when the caller supplied
// them; nil leaves the stored value untouched.
type OrderUpdate struct {
	Core           PurchaseOrderCore
	UpdatedAt      time.Time
	RawText        *string
	SourceFileName *string
}
