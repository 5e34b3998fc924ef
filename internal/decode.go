package internal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"mizan/internal/errs"
)

// UnmarshalJSON decodes one raw record. A record without a name, with a
// non-text name/brand/category, or with a nutrient value that is not a number
// fails with errs.ErrMalformedRecord. Unknown fields are kept in Fields.
func (p *Product) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return malformed("record is not an object")
	}

	nameRaw, ok := fields["name"]
	if !ok {
		return malformed("missing name")
	}
	name, present, err := decodeText(nameRaw)
	if err != nil || !present {
		return malformed("name is not a string")
	}

	out := Product{Name: name, Fields: fields}
	for key, dst := range map[string]*string{
		"brand":         &out.Brand,
		"category":      &out.Category,
		"category_slug": &out.CategorySlug,
	} {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		value, _, err := decodeText(raw)
		if err != nil {
			return malformed(key + " is not a string")
		}
		*dst = value
	}

	if raw, ok := fields["nutrients"]; ok {
		nutrients, err := decodeNutrients(raw)
		if err != nil {
			return err
		}
		out.Nutrients = nutrients
	}

	delete(out.Fields, "slug")
	*p = out
	return nil
}

func malformed(reason string) error {
	return fmt.Errorf("%w: %s", errs.ErrMalformedRecord, reason)
}

// decodeText accepts a JSON string or null.
func decodeText(raw json.RawMessage) (string, bool, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", false, err
	}
	switch t := v.(type) {
	case nil:
		return "", false, nil
	case string:
		return t, true, nil
	default:
		return "", false, fmt.Errorf("unexpected %T", v)
	}
}

func decodeNutrients(raw json.RawMessage) (Nutrients, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var values map[string]any
	if err := dec.Decode(&values); err != nil {
		return nil, malformed("nutrients is not an object")
	}
	if values == nil {
		return Nutrients{}, nil
	}

	out := make(Nutrients, len(values))
	for key, v := range values {
		f, err := toNutrientValue(v)
		if err != nil {
			return nil, malformed(fmt.Sprintf("nutrient %s: %v", key, err))
		}
		out[key] = f
	}
	return out, nil
}

// toNutrientValue coerces numbers and numeric strings. null and "" read as 0.
func toNutrientValue(v any) (float64, error) {
	var f float64
	switch t := v.(type) {
	case nil:
		return 0, nil
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return 0, err
		}
		f = parsed
	case float64:
		f = t
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, nil
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("not a number: %q", t)
		}
		f = parsed
	default:
		return 0, fmt.Errorf("not a number: %v", v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not a finite number: %v", v)
	}
	return f, nil
}
