package resource

import "github.com/foliospace/core/internal/pkg/apperrors"

// protected fields are server-assigned and silently dropped from payloads.
var protectedFields = map[string]bool{
	"id":       true,
	"created":  true,
	"modified": true,
}

// validateRequired checks that every required field is present and non-empty
// in the payload, returning a ValidationError naming all missing fields.
func validateRequired(payload map[string]interface{}, required []string) error {
	var missing []string
	for _, field := range required {
		if isEmptyValue(payload[field]) {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return apperrors.NewValidation(missing...)
	}
	return nil
}

func isEmptyValue(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case []interface{}:
		return len(val) == 0
	default:
		return false
	}
}

// applyDefaults fills absent or empty fields with the schema defaults.
func applyDefaults(payload map[string]interface{}, defaults map[string]interface{}) {
	for field, value := range defaults {
		if isEmptyValue(payload[field]) {
			payload[field] = value
		}
	}
}

// stripProtected removes server-assigned fields from the payload in place.
func stripProtected(payload map[string]interface{}) {
	for field := range protectedFields {
		delete(payload, field)
	}
}
