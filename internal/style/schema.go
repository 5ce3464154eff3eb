// Package style turns raw CMS card style descriptors into canonical
// NormalizedStyle values and joins them against list presets.
//
// The CMS has delivered the same logical style object in two historical
// shapes: the current schema (top-level `name`, a `badgeStyle` array, a
// `borderStyle` object) and a legacy shape (`cardName`, singular `badge`,
// `border`/`border_style` aliases). Detection picks a schema once per
// descriptor; one shared normalization path handles both.
package style

import (
	"github.com/MurthyAvanithsa/railview/internal/coerce"
	"github.com/MurthyAvanithsa/railview/internal/model"
)

// schema identifies which historical descriptor shape is in play.
type schema int

const (
	schemaCurrent schema = iota
	schemaLegacy
)

// detect chooses a schema by the presence of distinguishing fields.
// Current wins when both could apply.
func detect(raw model.RawDescriptor) schema {
	if s, ok := raw["name"].(string); ok && s != "" {
		return schemaCurrent
	}
	if _, ok := raw["cardName"]; ok {
		return schemaLegacy
	}
	block := styleBlock(raw)
	if _, ok := block["border"]; ok {
		return schemaLegacy
	}
	if _, ok := block["border_style"]; ok {
		return schemaLegacy
	}
	return schemaCurrent
}

// styleBlock locates the nested style block: a `cardStyle` wrapper when
// present, otherwise the descriptor itself (flat top-level shape).
func styleBlock(raw model.RawDescriptor) map[string]any {
	if cs, ok := raw["cardStyle"].(map[string]any); ok {
		return cs
	}
	return map[string]any(raw)
}

// ─── Loose-map accessors ──────────────────────────────────────────────────────

// getMap returns a non-empty nested map, or nil.
func getMap(m map[string]any, key string) map[string]any {
	if m == nil {
		return nil
	}
	sub, ok := m[key].(map[string]any)
	if !ok || len(sub) == 0 {
		return nil
	}
	return sub
}

// getString returns the first non-empty string among the keys.
func getString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// getNumber coerces the first key that yields a finite number.
func getNumber(m map[string]any, keys ...string) *float64 {
	for _, k := range keys {
		v, present := m[k]
		if !present {
			continue
		}
		if f, ok := coerce.ToNumber(v); ok {
			return &f
		}
	}
	return nil
}

// truthy mirrors double-negation coercion: nil, false, 0, and "" are false;
// everything else is true, including empty collections.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	case int:
		return t != 0
	}
	return true
}

// box coerces a margin/padding sub-object. Missing offsets stay nil.
func box(m map[string]any) model.Box {
	if m == nil {
		return model.Box{}
	}
	return model.Box{
		Top:    getNumber(m, "top"),
		Right:  getNumber(m, "right"),
		Bottom: getNumber(m, "bottom"),
		Left:   getNumber(m, "left"),
	}
}
