package style

import (
	"github.com/MurthyAvanithsa/railview/internal/model"
)

// Normalize converts a raw descriptor of either schema into the canonical
// NormalizedStyle. It never fails: remote content is untrusted, so every
// missing or malformed field degrades to its zero/nil "no value" form and
// partial data still renders partially.
func Normalize(raw model.RawDescriptor) model.NormalizedStyle {
	sc := detect(raw)
	block := styleBlock(raw)

	out := model.NormalizedStyle{
		PresetName: presetName(raw, sc),
	}

	image := getMap(block, "image")
	out.MainImage = model.ImageBlock{
		SourceKey:   getString(image, "sourceKey"),
		AspectRatio: getString(image, "aspectRatio"),
		Width:       getNumber(image, "width"),
		Height:      getNumber(image, "height"),
		Margin:      box(getMap(image, "margin")),
		Padding:     box(getMap(image, "padding")),
	}

	secondary := getMap(block, "secondaryImage")
	out.SecondaryImage = model.SecondaryImageBlock{
		SourceKey: getString(secondary, "sourceKey"),
		Width:     getNumber(secondary, "width"),
		Height:    getNumber(secondary, "height"),
		Position:  getString(secondary, "imagePosition", "position"),
		Opacity:   getNumber(secondary, "opacity"),
		Margin:    box(getMap(secondary, "margin")),
		Padding:   box(getMap(secondary, "padding")),
	}

	// Container size: explicit descriptor width/height first, else the
	// primary image's; otherwise left unset and derived from the aspect
	// ratio at render time.
	out.Container = model.Dimensions{
		Width:  firstNumber(getNumber(block, "width"), out.MainImage.Width),
		Height: firstNumber(getNumber(block, "height"), out.MainImage.Height),
	}

	out.Border = normalizeBorder(block, sc)
	out.TitleStyle = normalizeTextStyle(getMap(block, "titleStyle"))
	out.DescriptionStyle = normalizeTextStyle(getMap(block, "descriptionStyle"))
	out.Badge = normalizeBadge(block)

	out.ShowTitle = truthy(block["showTitle"])
	out.ShowDescription = truthy(block["showDescription"])
	out.ShowBadges = truthy(block["showBadges"])
	// Neither schema carries "secondary as background"; legacy callers may
	// set it after normalization.
	out.UseSecondaryAsBackground = false

	out.TitleSourceKey = getString(block, "titleSourceKey")
	out.DescriptionSourceKey = getString(block, "descriptionSourceKey")

	return out
}

// NormalizeAll maps a descriptor collection, preserving source order.
func NormalizeAll(descriptors []model.RawDescriptor) []model.NormalizedStyle {
	out := make([]model.NormalizedStyle, len(descriptors))
	for i, d := range descriptors {
		out[i] = Normalize(d)
	}
	return out
}

// presetName resolves the join key with schema-specific precedence.
func presetName(raw model.RawDescriptor, sc schema) string {
	if sc == schemaLegacy {
		return getString(map[string]any(raw), "cardName", "name")
	}
	return getString(map[string]any(raw), "name", "cardName")
}

// normalizeBorder extracts the border block, honoring legacy key aliases.
// An all-null border collapses to nil: "no border configured" rather than
// "a border with explicit null appearance".
func normalizeBorder(block map[string]any, sc schema) *model.Border {
	var src map[string]any
	if sc == schemaLegacy {
		for _, key := range []string{"border", "borderStyle", "border_style"} {
			if src = getMap(block, key); src != nil {
				break
			}
		}
	} else {
		src = getMap(block, "borderStyle")
	}
	if src == nil {
		return nil
	}
	b := model.Border{
		Style:  getString(src, "borderStyle", "style"),
		Width:  getNumber(src, "borderWidth", "width"),
		Color:  getString(src, "borderColor", "color"),
		Radius: getNumber(src, "borderRadius", "radius"),
	}
	if b.Style == "" && b.Width == nil && b.Color == "" && b.Radius == nil {
		return nil
	}
	return &b
}

// normalizeTextStyle maps a title/description/label sub-object, nil when the
// source object is empty or absent.
func normalizeTextStyle(src map[string]any) *model.TextStyle {
	if src == nil {
		return nil
	}
	return &model.TextStyle{
		Color:  getString(src, "color"),
		Height: getNumber(src, "height"),
		Width:  getNumber(src, "width"),
		Align:  getString(src, "align"),
		Font:   normalizeFont(getMap(src, "fontStyle")),
	}
}

// normalizeFont decomposes a nested font block.
func normalizeFont(src map[string]any) *model.FontSpec {
	if src == nil {
		return nil
	}
	return &model.FontSpec{
		FontSize:       getNumber(src, "fontSize"),
		FontWeight:     getString(src, "fontWeight"),
		FontStyle:      getString(src, "fontStyle"),
		LineHeight:     getNumber(src, "lineHeight"),
		TextTransform:  getString(src, "textTransform"),
		TextDecoration: getString(src, "textDecoration"),
		Color:          getString(src, "color"),
	}
}

// normalizeBadge accepts the badge under any of its historical keys. A list
// keeps only its first element; an empty object resolves to nil.
func normalizeBadge(block map[string]any) *model.Badge {
	var v any
	for _, key := range []string{"badgeStyle", "badgestyle", "badge"} {
		if raw, present := block[key]; present && raw != nil {
			v = raw
			break
		}
	}
	if list, ok := v.([]any); ok {
		if len(list) == 0 {
			return nil
		}
		v = list[0]
	}
	src, ok := v.(map[string]any)
	if !ok || len(src) == 0 {
		return nil
	}
	b := model.Badge{
		Label:      getString(src, "label"),
		Position:   getString(src, "position"),
		Height:     getNumber(src, "height"),
		Width:      getNumber(src, "width"),
		LabelStyle: normalizeTextStyle(getMap(src, "labelStyle")),
	}
	if m := getMap(src, "margin"); m != nil {
		mb := box(m)
		b.Margin = &mb
	}
	return &b
}

// firstNumber returns the first non-nil pointer.
func firstNumber(candidates ...*float64) *float64 {
	for _, c := range candidates {
		if c != nil {
			return c
		}
	}
	return nil
}
