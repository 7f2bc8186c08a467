package detect

import (
	"encoding/json"
	"errors"
)

// DecodeResponse unmarshals a provider response body into v. Values whose
// JSON type does not match their field, including a non-object top level,
// are skipped and leave the field unset so later score paths still apply.
// Bodies that are not valid JSON are still an error.
func DecodeResponse(body []byte, v any) error {
	err := json.Unmarshal(body, v)

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return nil
	}
	return err
}
