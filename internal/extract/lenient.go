package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// DecodeLenient parses s as JSON. When the strict parse fails it attempts
// a repair pass (trailing commas, unquoted keys, single quotes and similar
// model output damage) before giving up. Repair is a recovery path only,
// never the primary parse.
func DecodeLenient(s string) (any, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil, errors.New("empty JSON payload")
	}

	var value any
	if err := json.Unmarshal([]byte(trimmed), &value); err == nil {
		return value, nil
	}

	repaired, err := jsonrepair.Repair(trimmed)
	if err != nil {
		return nil, fmt.Errorf("repairing JSON: %w", err)
	}
	if err := json.Unmarshal([]byte(repaired), &value); err != nil {
		return nil, fmt.Errorf("parsing repaired JSON: %w", err)
	}
	return value, nil
}
