package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"

	"filedrive/internal/config"
)

// ParseJSON decodes JSON from the request body into the given destination.
// The body is size-limited so a single request cannot exhaust memory.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxJSONBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	return nil
}
