package shared

import (
	"encoding/json"
	"fmt"
)

// ScanJSON unmarshals a JSONB column into dest. A NULL column resets dest
// to an empty list so callers can append without a nil check; typeName only
// labels the error on an unsupported driver value.
func ScanJSON(value any, dest any, typeName string) error {
	if value == nil {
		return json.Unmarshal([]byte("[]"), dest)
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("cannot scan %T into %s", value, typeName)
	}
}
