// Package attrs implements the custom attribute model: a free form
// name/value map attached to games, consoles, peripherals and backlog
// entries, typed by the matching global attribute definition when one exists.
package attrs

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"game_inventory/internal/models"

	"gorm.io/datatypes"
)

// Schema maps attribute names to their global definitions.
type Schema map[string]models.Attribute

// NewSchema builds a schema from the global attribute list. Non-global
// definitions are ignored; they exist only as named templates.
func NewSchema(attributes []models.Attribute) Schema {
	s := make(Schema, len(attributes))
	for _, a := range attributes {
		if a.IsGlobal {
			s[a.Name] = a
		}
	}
	return s
}

// Coerce converts a raw value according to the declared type of the named
// attribute. Values for names without a global definition pass through
// unchanged. Select values are not checked against the option list.
func (s Schema) Coerce(name string, raw any) any {
	attr, ok := s[name]
	if !ok {
		return raw
	}

	switch attr.Type {
	case models.AttributeBoolean:
		return toBool(raw)
	case models.AttributeNumber:
		return toNumber(raw)
	default:
		return raw
	}
}

// Set stores a coerced value under name, allocating the map if needed.
func Set(m datatypes.JSONMap, s Schema, name string, raw any) datatypes.JSONMap {
	if m == nil {
		m = datatypes.JSONMap{}
	}
	m[name] = s.Coerce(name, raw)
	return m
}

// Remove deletes the named attribute; removing an absent name is a no-op.
func Remove(m datatypes.JSONMap, name string) {
	delete(m, name)
}

// CoerceAll returns a copy of in with every value coerced per the schema.
func CoerceAll(in map[string]any, s Schema) datatypes.JSONMap {
	out := make(datatypes.JSONMap, len(in))
	for name, raw := range in {
		out[name] = s.Coerce(name, raw)
	}
	return out
}

// Entry is one displayable attribute tag.
type Entry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// DisplayList flattens the map into display entries, sorted by key. The map
// carries no semantic order; sorting keeps the output deterministic.
func DisplayList(m datatypes.JSONMap) []Entry {
	entries := make([]Entry, 0, len(m))
	for k, v := range m {
		entries = append(entries, Entry{Key: k, Value: FormatValue(v)})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries
}

// FormatValue renders an attribute value for display: booleans as Yes/No,
// arrays joined with ", ", everything else via default conversion.
func FormatValue(v any) string {
	switch val := v.(type) {
	case bool:
		if val {
			return "Yes"
		}
		return "No"
	case []string:
		return strings.Join(val, ", ")
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = FormatValue(item)
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprintf("%v", v)
	}
}

func toBool(raw any) bool {
	switch val := raw.(type) {
	case bool:
		return val
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "1", "yes", "on":
			return true
		}
		return false
	case float64:
		return val != 0
	case int:
		return val != 0
	default:
		return false
	}
}

func toNumber(raw any) float64 {
	switch val := raw.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}
