package detect

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Float is a leniently decoded optional JSON number. Numbers and numeric
// strings are accepted; null, absent fields and any other JSON type leave it
// unset instead of failing the whole decode.
type Float struct {
	Value float64
	Valid bool
}

func (f *Float) UnmarshalJSON(data []byte) error {
	*f = Float{}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		*f = Float{Value: v, Valid: true}
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	*f = Float{Value: v, Valid: true}
	return nil
}

// FirstValid returns the first set value, or 0 when none is set.
func FirstValid(vals ...Float) float64 {
	for _, v := range vals {
		if v.Valid {
			return v.Value
		}
	}
	return 0
}
