package schema

// SchemaName is the name both gateways register the descriptor under.
const SchemaName = "PurchaseOrder"

// JSONSchema returns the draft-07 schema descriptor shared by the OCR
// annotation request and the chat-completion response format. It mirrors
// the shape ParsePurchaseOrder accepts; numeric fields also admit string
// representations because providers frequently return formatted amounts.
func JSONSchema() map[string]any {
	return map[string]any{
		"$schema":              "http://json-schema.org/draft-07/schema#",
		"title":                SchemaName,
		"type":                 "object",
		"description":          "Normalized purchase order structure extracted from the PDF document.",
		"required":             []string{"vendor", "purchaser", "items", "total"},
		"additionalProperties": false,
		"properties": map[string]any{
			"purchaseOrderNumber": map[string]any{
				"type":        []string{"string", "null"},
				"description": "Identifier assigned to the purchase order.",
			},
			"issueDate": map[string]any{
				"type":        []string{"string", "null"},
				"description": "Original date the purchase order was issued.",
			},
			"vendor":    partySchema("vendor"),
			"purchaser": partySchema("purchaser"),
			"currency": map[string]any{
				"type":        []string{"string", "null"},
				"description": "Currency code (ISO 4217 when available) that totals are denominated in.",
			},
			"notes": map[string]any{
				"type":        []string{"string", "null"},
				"description": "Additional instructions or free-form notes.",
			},
			"items": map[string]any{
				"type":        "array",
				"description": "Line items contained within the purchase order.",
				"minItems":    1,
				"items": map[string]any{
					"type":                 "object",
					"required":             []string{"name", "quantity", "unitPrice"},
					"additionalProperties": false,
					"properties": map[string]any{
						"name": map[string]any{
							"type":        "string",
							"description": "Item name or SKU description.",
						},
						"description": map[string]any{
							"type":        []string{"string", "null"},
							"description": "Detailed description of the item.",
						},
						"sku": map[string]any{
							"type":        []string{"string", "null"},
							"description": "SKU or part number if present.",
						},
						"quantity":   numericSchema("Number of units ordered for the line item.", false),
						"unitPrice":  numericSchema("Price per unit of the item.", false),
						"totalPrice": numericSchema("Extended line total (quantity x unit price).", true),
						"currency": map[string]any{
							"type":        []string{"string", "null"},
							"description": "Currency applicable to the line item.",
						},
					},
				},
			},
			"subtotal": numericSchema("Sum of line items before tax or adjustments.", true),
			"tax":      numericSchema("Total taxes applied to the purchase order.", true),
			"total":    numericSchema("Grand total expected to be paid.", false),
		},
	}
}

func partySchema(role string) map[string]any {
	name := "Legal or trading name of the vendor."
	address := "Mailing address for the vendor."
	contact := "Point of contact for the vendor (person or department)."
	if role == "purchaser" {
		name = "Organization or person placing the order."
		address = "Mailing address for the purchaser."
		contact = "Primary contact or department for the purchaser."
	}
	return map[string]any{
		"type":                 "object",
		"required":             []string{"name", "address"},
		"additionalProperties": false,
		"properties": map[string]any{
			"name":    map[string]any{"type": "string", "description": name},
			"address": map[string]any{"type": "string", "description": address},
			"contact": map[string]any{
				"type":        []string{"string", "null"},
				"description": contact,
			},
			"email": map[string]any{
				"type":        []string{"string", "null"},
				"description": "Email address supplied for the " + role + ".",
			},
			"phone": map[string]any{
				"type":        []string{"string", "null"},
				"description": "Phone number listed for the " + role + ".",
			},
		},
	}
}

func numericSchema(description string, allowNull bool) map[string]any {
	types := []string{"number", "string"}
	if allowNull {
		types = append(types, "null")
	}
	return map[string]any{
		"type":        types,
		"description": description,
	}
}
