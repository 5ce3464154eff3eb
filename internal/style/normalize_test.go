package style_test

import (
	"testing"

	"github.com/MurthyAvanithsa/railview/internal/model"
	"github.com/MurthyAvanithsa/railview/internal/style"
)

// ─── Helpers ──────────────────────────────────────────────────────────────────

// descriptor builds a current-schema descriptor with the given name and
// style block, the way the CMS envelope decodes.
func descriptor(name string, block map[string]any) model.RawDescriptor {
	return model.RawDescriptor{
		"id":        1.0,
		"name":      name,
		"cardStyle": block,
	}
}

// ─── Preset name ──────────────────────────────────────────────────────────────

func TestNormalizePresetNameCurrentPrecedence(t *testing.T) {
	raw := model.RawDescriptor{"name": "hero", "cardName": "old-hero"}
	if got := style.Normalize(raw).PresetName; got != "hero" {
		t.Errorf("current schema should prefer name: got %q", got)
	}
}

func TestNormalizePresetNameLegacy(t *testing.T) {
	raw := model.RawDescriptor{"cardName": "old-hero"}
	if got := style.Normalize(raw).PresetName; got != "old-hero" {
		t.Errorf("legacy schema should use cardName: got %q", got)
	}
}

func TestNormalizePresetNameMissing(t *testing.T) {
	if got := style.Normalize(model.RawDescriptor{}).PresetName; got != "" {
		t.Errorf("missing name: got %q, want empty", got)
	}
}

// ─── Image blocks ─────────────────────────────────────────────────────────────

func TestNormalizeMainImage(t *testing.T) {
	s := style.Normalize(descriptor("hero", map[string]any{
		"image": map[string]any{
			"sourceKey":   "poster",
			"aspectRatio": "2:3",
			"width":       "120px",
			"height":      180.0,
			"margin":      map[string]any{"top": 4.0, "left": "2"},
		},
	}))
	img := s.MainImage
	if img.SourceKey != "poster" || img.AspectRatio != "2:3" {
		t.Errorf("source/aspect: got %+v", img)
	}
	if img.Width == nil || *img.Width != 120 {
		t.Errorf("width should coerce 120px: got %v", img.Width)
	}
	if img.Height == nil || *img.Height != 180 {
		t.Errorf("height: got %v", img.Height)
	}
	if img.Margin.Top == nil || *img.Margin.Top != 4 {
		t.Errorf("margin top: got %v", img.Margin.Top)
	}
	if img.Margin.Left == nil || *img.Margin.Left != 2 {
		t.Errorf("margin left should coerce string: got %v", img.Margin.Left)
	}
	if img.Margin.Right != nil || img.Margin.Bottom != nil {
		t.Errorf("missing offsets should stay nil: got %+v", img.Margin)
	}
}

func TestNormalizeSecondaryImage(t *testing.T) {
	s := style.Normalize(descriptor("hero", map[string]any{
		"secondaryImage": map[string]any{
			"sourceKey":     "logo",
			"imagePosition": "bottom right",
			"opacity":       "0.8",
		},
	}))
	sec := s.SecondaryImage
	if sec.SourceKey != "logo" {
		t.Errorf("sourceKey: got %q", sec.SourceKey)
	}
	// Position stays raw at this stage; axes are parsed by consumers.
	if sec.Position != "bottom right" {
		t.Errorf("position: got %q", sec.Position)
	}
	if sec.Opacity == nil || *sec.Opacity != 0.8 {
		t.Errorf("opacity: got %v", sec.Opacity)
	}
}

// ─── Container fallback ───────────────────────────────────────────────────────

func TestNormalizeContainerExplicit(t *testing.T) {
	s := style.Normalize(descriptor("hero", map[string]any{
		"width":  200.0,
		"height": 300.0,
		"image":  map[string]any{"width": 90.0},
	}))
	if s.Container.Width == nil || *s.Container.Width != 200 {
		t.Errorf("explicit width should win: got %v", s.Container.Width)
	}
}

func TestNormalizeContainerFallsBackToImage(t *testing.T) {
	s := style.Normalize(descriptor("hero", map[string]any{
		"image": map[string]any{"width": 90.0, "height": 135.0},
	}))
	if s.Container.Width == nil || *s.Container.Width != 90 {
		t.Errorf("container should fall back to image width: got %v", s.Container.Width)
	}
	if s.Container.Height == nil || *s.Container.Height != 135 {
		t.Errorf("container should fall back to image height: got %v", s.Container.Height)
	}
}

func TestNormalizeContainerUnset(t *testing.T) {
	s := style.Normalize(descriptor("hero", map[string]any{}))
	if s.Container.Width != nil || s.Container.Height != nil {
		t.Errorf("container should stay unset: got %+v", s.Container)
	}
}

// ─── Border ───────────────────────────────────────────────────────────────────

func TestNormalizeBorderAllNullCollapses(t *testing.T) {
	s := style.Normalize(descriptor("hero", map[string]any{
		"borderStyle": map[string]any{
			"borderStyle":  nil,
			"borderWidth":  nil,
			"borderColor":  nil,
			"borderRadius": nil,
		},
	}))
	if s.Border != nil {
		t.Errorf("all-null border should collapse to nil, got %+v", s.Border)
	}
}

func TestNormalizeBorderPartial(t *testing.T) {
	s := style.Normalize(descriptor("hero", map[string]any{
		"borderStyle": map[string]any{"borderRadius": "8px"},
	}))
	if s.Border == nil || s.Border.Radius == nil || *s.Border.Radius != 8 {
		t.Fatalf("border radius: got %+v", s.Border)
	}
}

func TestNormalizeBorderLegacyAliases(t *testing.T) {
	s := style.Normalize(model.RawDescriptor{
		"cardName": "old",
		"cardStyle": map[string]any{
			"border": map[string]any{"style": "solid", "width": 2.0, "color": "#fff"},
		},
	})
	if s.Border == nil {
		t.Fatal("legacy border missing")
	}
	if s.Border.Style != "solid" || s.Border.Width == nil || *s.Border.Width != 2 || s.Border.Color != "#fff" {
		t.Errorf("legacy aliases: got %+v", s.Border)
	}
}

// ─── Text styles ──────────────────────────────────────────────────────────────

func TestNormalizeTitleStyleEmptyObject(t *testing.T) {
	s := style.Normalize(descriptor("hero", map[string]any{
		"titleStyle": map[string]any{},
	}))
	if s.TitleStyle != nil {
		t.Errorf("empty titleStyle should be nil, got %+v", s.TitleStyle)
	}
}

func TestNormalizeTitleStyleFont(t *testing.T) {
	s := style.Normalize(descriptor("hero", map[string]any{
		"titleStyle": map[string]any{
			"color": "#eee",
			"align": "left",
			"fontStyle": map[string]any{
				"fontSize":      "14",
				"fontWeight":    "bold",
				"lineHeight":    18.0,
				"textTransform": "uppercase",
			},
		},
	}))
	ts := s.TitleStyle
	if ts == nil || ts.Color != "#eee" || ts.Align != "left" {
		t.Fatalf("titleStyle: got %+v", ts)
	}
	if ts.Font == nil || ts.Font.FontSize == nil || *ts.Font.FontSize != 14 {
		t.Fatalf("font size should coerce: got %+v", ts.Font)
	}
	if ts.Font.FontWeight != "bold" || *ts.Font.LineHeight != 18 || ts.Font.TextTransform != "uppercase" {
		t.Errorf("font block: got %+v", ts.Font)
	}
}

// ─── Badge ────────────────────────────────────────────────────────────────────

func TestNormalizeBadgeListFirstWins(t *testing.T) {
	s := style.Normalize(descriptor("hero", map[string]any{
		"badgeStyle": []any{
			map[string]any{"label": "NEW", "position": "top left"},
			map[string]any{"label": "LIVE"},
		},
	}))
	if s.Badge == nil || s.Badge.Label != "NEW" {
		t.Fatalf("first badge should win: got %+v", s.Badge)
	}
}

func TestNormalizeBadgeEmptyObject(t *testing.T) {
	s := style.Normalize(descriptor("hero", map[string]any{
		"badgeStyle": []any{map[string]any{}},
	}))
	if s.Badge != nil {
		t.Errorf("empty badge should be nil, got %+v", s.Badge)
	}
}

func TestNormalizeBadgeLabelStyle(t *testing.T) {
	s := style.Normalize(descriptor("hero", map[string]any{
		"badgeStyle": []any{map[string]any{
			"label":      "4K",
			"height":     18.0,
			"labelStyle": map[string]any{"color": "#000", "fontStyle": map[string]any{"fontSize": 10.0}},
			"margin":     map[string]any{"top": 6.0},
		}},
	}))
	b := s.Badge
	if b == nil || b.Label != "4K" || b.Height == nil || *b.Height != 18 {
		t.Fatalf("badge: got %+v", b)
	}
	if b.LabelStyle == nil || b.LabelStyle.Font == nil || *b.LabelStyle.Font.FontSize != 10 {
		t.Errorf("label style font: got %+v", b.LabelStyle)
	}
	if b.Margin == nil || b.Margin.Top == nil || *b.Margin.Top != 6 {
		t.Errorf("badge margin: got %+v", b.Margin)
	}
}

// ─── Flags and source keys ───────────────────────────────────────────────────

func TestNormalizeFlags(t *testing.T) {
	s := style.Normalize(descriptor("hero", map[string]any{
		"showTitle":       true,
		"showDescription": 0.0,
		"showBadges":      "yes",
	}))
	if !s.ShowTitle || s.ShowDescription || !s.ShowBadges {
		t.Errorf("flags: got %+v", s)
	}
	if s.UseSecondaryAsBackground {
		t.Error("useSecondaryAsBackground must default to false")
	}
}

// Double-negation coercion: empty collections count as present, so a CMS
// editor leaving showTitle as [] or {} still turns the element on.
func TestNormalizeFlagsEmptyCollectionsTruthy(t *testing.T) {
	s := style.Normalize(descriptor("hero", map[string]any{
		"showTitle":       []any{},
		"showDescription": map[string]any{},
		"showBadges":      nil,
	}))
	if !s.ShowTitle || !s.ShowDescription {
		t.Errorf("empty collections must coerce to true: got %+v", s)
	}
	if s.ShowBadges {
		t.Error("nil must coerce to false")
	}
}

func TestNormalizeSourceKeysVerbatim(t *testing.T) {
	s := style.Normalize(descriptor("hero", map[string]any{
		"titleSourceKey":       "headline",
		"descriptionSourceKey": "summary",
	}))
	if s.TitleSourceKey != "headline" || s.DescriptionSourceKey != "summary" {
		t.Errorf("source keys: got %+v", s)
	}
}

// The normalizer must absorb any garbage without panicking.
func TestNormalizeGarbageInput(t *testing.T) {
	garbage := model.RawDescriptor{
		"name": 42.0,
		"cardStyle": map[string]any{
			"image":       "not-a-map",
			"badgeStyle":  "not-a-list",
			"borderStyle": []any{1, 2},
			"width":       map[string]any{},
		},
	}
	s := style.Normalize(garbage)
	if s.PresetName != "" || s.Border != nil || s.Badge != nil || s.Container.Width != nil {
		t.Errorf("garbage should degrade to no value: got %+v", s)
	}
}
