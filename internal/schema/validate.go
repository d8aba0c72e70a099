package schema

import (
	"fmt"
	"net/mail"
	"strings"

	"poscan/internal/domain"
)

// ValidationError reports the first offending field of a candidate
// purchase order.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func newFieldError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

var (
	orderFields = []string{
		"purchaseOrderNumber", "issueDate", "vendor", "purchaser", "items",
		"subtotal", "tax", "total", "currency", "notes",
	}
	partyFields = []string{"name", "address", "contact", "email", "phone"}
	itemFields  = []string{"name", "description", "sku", "quantity", "unitPrice", "totalPrice", "currency"}
)

// ParsePurchaseOrder validates an arbitrary decoded JSON value against the
// canonical purchase-order shape and returns the strongly typed core, or a
// ValidationError naming the first offending field. The shape is strict:
// unknown keys are rejected to guard against hallucinated fields from the
// extraction model. Null values count as absent. Pure function, no side
// effects.
func ParsePurchaseOrder(value any) (*domain.PurchaseOrderCore, *ValidationError) {
	obj, ok := value.(map[string]any)
	if !ok || obj == nil {
		return nil, &ValidationError{Message: "Purchase order must be a JSON object."}
	}
	if err := rejectUnknownKeys("", obj, orderFields); err != nil {
		return nil, err
	}

	core := &domain.PurchaseOrderCore{}
	var err *ValidationError

	if core.PurchaseOrderNumber, err = optionalString(obj, "", "purchaseOrderNumber"); err != nil {
		return nil, err
	}
	if core.IssueDate, err = optionalString(obj, "", "issueDate"); err != nil {
		return nil, err
	}
	if core.Vendor, err = parseParty("vendor", obj["vendor"]); err != nil {
		return nil, err
	}
	if core.Purchaser, err = parseParty("purchaser", obj["purchaser"]); err != nil {
		return nil, err
	}
	if core.Items, err = parseItems(obj["items"]); err != nil {
		return nil, err
	}
	if core.Subtotal, err = optionalNumber(obj, "", "subtotal"); err != nil {
		return nil, err
	}
	if core.Tax, err = optionalNumber(obj, "", "tax"); err != nil {
		return nil, err
	}
	if core.Total, err = requiredNumber(obj, "", "total"); err != nil {
		return nil, err
	}
	if core.Currency, err = optionalString(obj, "", "currency"); err != nil {
		return nil, err
	}
	if core.Notes, err = optionalString(obj, "", "notes"); err != nil {
		return nil, err
	}

	return core, nil
}

func parseParty(field string, value any) (domain.Party, *ValidationError) {
	var party domain.Party
	obj, ok := value.(map[string]any)
	if !ok || obj == nil {
		return party, newFieldError(field, "Vendor or purchaser details are required.")
	}
	if err := rejectUnknownKeys(field, obj, partyFields); err != nil {
		return party, err
	}

	name, ok := obj["name"].(string)
	if !ok || strings.TrimSpace(name) == "" {
		return party, newFieldError(field+".name", "Vendor or purchaser name is required.")
	}
	address, ok := obj["address"].(string)
	if !ok || strings.TrimSpace(address) == "" {
		return party, newFieldError(field+".address", "Address is required.")
	}
	party.Name = name
	party.Address = address

	var err *ValidationError
	if party.Contact, err = optionalString(obj, field, "contact"); err != nil {
		return party, err
	}
	if party.Email, err = optionalString(obj, field, "email"); err != nil {
		return party, err
	}
	if party.Email != nil {
		if _, mailErr := mail.ParseAddress(*party.Email); mailErr != nil {
			return party, newFieldError(field+".email", "Invalid email address.")
		}
	}
	if party.Phone, err = optionalString(obj, field, "phone"); err != nil {
		return party, err
	}
	return party, nil
}

func parseItems(value any) ([]domain.LineItem, *ValidationError) {
	list, ok := value.([]any)
	if !ok || len(list) == 0 {
		return nil, newFieldError("items", "At least one item is required.")
	}

	items := make([]domain.LineItem, 0, len(list))
	for i, entry := range list {
		item, err := parseItem(fmt.Sprintf("items[%d]", i), entry)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func parseItem(field string, value any) (domain.LineItem, *ValidationError) {
	var item domain.LineItem
	obj, ok := value.(map[string]any)
	if !ok || obj == nil {
		return item, newFieldError(field, "Line item must be a JSON object.")
	}
	if err := rejectUnknownKeys(field, obj, itemFields); err != nil {
		return item, err
	}

	name, ok := obj["name"].(string)
	if !ok || strings.TrimSpace(name) == "" {
		return item, newFieldError(field+".name", "Item name is required.")
	}
	item.Name = name

	var err *ValidationError
	if item.Description, err = optionalString(obj, field, "description"); err != nil {
		return item, err
	}
	if item.SKU, err = optionalString(obj, field, "sku"); err != nil {
		return item, err
	}
	if item.Quantity, err = requiredNumber(obj, field, "quantity"); err != nil {
		return item, err
	}
	if item.Quantity < 0 {
		return item, newFieldError(field+".quantity", "Quantity must be non-negative.")
	}
	if item.UnitPrice, err = requiredNumber(obj, field, "unitPrice"); err != nil {
		return item, err
	}
	if item.UnitPrice < 0 {
		return item, newFieldError(field+".unitPrice", "Unit price must be non-negative.")
	}
	if item.TotalPrice, err = optionalNumber(obj, field, "totalPrice"); err != nil {
		return item, err
	}
	if item.Currency, err = optionalString(obj, field, "currency"); err != nil {
		return item, err
	}
	return item, nil
}

func rejectUnknownKeys(prefix string, obj map[string]any, allowed []string) *ValidationError {
	for key := range obj {
		known := false
		for _, k := range allowed {
			if key == k {
				known = true
				break
			}
		}
		if !known {
			return newFieldError(joinField(prefix, key), "Unexpected field.")
		}
	}
	return nil
}

func optionalString(obj map[string]any, prefix, key string) (*string, *ValidationError) {
	value, present := obj[key]
	if !present || value == nil {
		return nil, nil
	}
	s, ok := value.(string)
	if !ok {
		return nil, newFieldError(joinField(prefix, key), "Expected a string value.")
	}
	return &s, nil
}

func optionalNumber(obj map[string]any, prefix, key string) (*float64, *ValidationError) {
	value, present := obj[key]
	if !present || value == nil {
		return nil, nil
	}
	n, err := CoerceNumber(joinField(prefix, key), value)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func requiredNumber(obj map[string]any, prefix, key string) (float64, *ValidationError) {
	value, present := obj[key]
	if !present || value == nil {
		return 0, newFieldError(joinField(prefix, key), "Required numeric value is missing.")
	}
	return CoerceNumber(joinField(prefix, key), value)
}

func joinField(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
