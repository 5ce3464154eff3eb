// Package model defines the canonical data types used throughout railview.
// These types are the single source of truth for CMS entities (list presets,
// card style descriptors, content items), the normalized style produced by
// the style package, and the result envelope that every command returns.
package model

import (
	"strconv"
	"strings"
	"time"
)

// ─── Raw CMS Types ────────────────────────────────────────────────────────────

// RawDescriptor is a card style descriptor exactly as delivered by the CMS.
// The CMS has shipped at least two schema shapes for the same logical object,
// so the descriptor stays a loose map until the style package normalizes it.
type RawDescriptor map[string]any

// Name returns the descriptor's join key: the `name` field, falling back to
// the legacy `cardName` field. Empty string when neither is present.
func (d RawDescriptor) Name() string {
	if s, ok := d["name"].(string); ok && s != "" {
		return s
	}
	if s, ok := d["cardName"].(string); ok {
		return s
	}
	return ""
}

// ListPreset is a named rail configuration. Identity is PresetName; it is
// joined at render time against a normalized style by case-insensitive
// name match.
type ListPreset struct {
	ID          any    `json:"id,omitempty"`
	DocumentID  string `json:"documentId,omitempty"`
	PresetName  string `json:"presetName"`
	TitleKey    string `json:"titleKey,omitempty"`
	TilesToShow int    `json:"tilesToShow,omitempty"`
	ShowTitle   bool   `json:"showTitle,omitempty"`
	IsBanner    bool   `json:"isBanner,omitempty"`
	IsFeatured  bool   `json:"isFeatured,omitempty"`
}

// ContentItem is one playable or browsable entry. Beyond `id` the shape is
// arbitrary: items may carry images maps, extensions maps, media groups, or
// flat fields, and the content package searches them in a fixed order.
type ContentItem map[string]any

// ID returns the item identifier as a string, or "" if absent.
// Numeric IDs are rendered in plain decimal, never scientific notation:
// JSON decoding hands every number over as float64, and large catalog IDs
// must round-trip as stable list keys.
func (c ContentItem) ID() string {
	switch v := c["id"].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	}
	return ""
}

// Title returns the item's top-level title, or "".
func (c ContentItem) Title() string {
	s, _ := c["title"].(string)
	return s
}

// Desc returns the item's top-level description, or "".
func (c ContentItem) Desc() string {
	s, _ := c["desc"].(string)
	return s
}

// ─── Normalized Style ─────────────────────────────────────────────────────────

// Box is a four-sided offset block (margin or padding). Missing offsets stay
// nil through normalization; consumers default them to 0 via Offsets.
type Box struct {
	Top    *float64 `json:"top"`
	Right  *float64 `json:"right"`
	Bottom *float64 `json:"bottom"`
	Left   *float64 `json:"left"`
}

// Offsets returns all four offsets with nil treated as 0.
func (b Box) Offsets() (top, right, bottom, left float64) {
	return deref(b.Top), deref(b.Right), deref(b.Bottom), deref(b.Left)
}

// IsZero reports whether no offset is populated.
func (b Box) IsZero() bool {
	return b.Top == nil && b.Right == nil && b.Bottom == nil && b.Left == nil
}

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

// FontSpec is a decomposed font block shared by title, description, and
// badge label styles.
type FontSpec struct {
	FontSize       *float64 `json:"fontSize"`
	FontWeight     string   `json:"fontWeight,omitempty"`
	FontStyle      string   `json:"fontStyle,omitempty"`
	LineHeight     *float64 `json:"lineHeight"`
	TextTransform  string   `json:"textTransform,omitempty"`
	TextDecoration string   `json:"textDecoration,omitempty"`
	Color          string   `json:"color,omitempty"`
}

// TextStyle describes a title, description, or badge label block.
type TextStyle struct {
	Color  string    `json:"color,omitempty"`
	Height *float64  `json:"height"`
	Width  *float64  `json:"width"`
	Align  string    `json:"align,omitempty"`
	Font   *FontSpec `json:"font,omitempty"`
}

// Border describes the card border. A source border object whose fields are
// all null normalizes to a nil *Border, not a Border of zero values.
type Border struct {
	Style  string   `json:"style,omitempty"`
	Width  *float64 `json:"width"`
	Color  string   `json:"color,omitempty"`
	Radius *float64 `json:"radius"`
}

// ImageBlock describes the primary (poster) image placement.
type ImageBlock struct {
	SourceKey   string   `json:"sourceKey,omitempty"`
	AspectRatio string   `json:"aspectRatio,omitempty"` // raw "W:H" form; parsed at layout time
	Width       *float64 `json:"width"`
	Height      *float64 `json:"height"`
	Margin      Box      `json:"margin"`
	Padding     Box      `json:"padding"`
}

// SecondaryImageBlock describes the secondary (logo / numeral) image.
// Position stays a raw CSS-ish string here; coerce.ParsePosition splits it
// into axes when a consumer needs them.
type SecondaryImageBlock struct {
	SourceKey string   `json:"sourceKey,omitempty"`
	Width     *float64 `json:"width"`
	Height    *float64 `json:"height"`
	Position  string   `json:"position,omitempty"`
	Opacity   *float64 `json:"opacity"`
	Margin    Box      `json:"margin"`
	Padding   Box      `json:"padding"`
}

// Badge is a single normalized badge. The CMS may deliver a list; the
// normalizer keeps only the first element.
type Badge struct {
	Label      string     `json:"label,omitempty"`
	Position   string     `json:"position,omitempty"`
	Height     *float64   `json:"height"`
	Width      *float64   `json:"width"`
	LabelStyle *TextStyle `json:"labelStyle,omitempty"`
	Margin     *Box       `json:"margin,omitempty"`
}

// Dimensions is an optional explicit container size.
type Dimensions struct {
	Width  *float64 `json:"width"`
	Height *float64 `json:"height"`
}

// NormalizedStyle is the canonical, fully-typed visual specification derived
// from a RawDescriptor. Instances are stateless and recomputed from the
// latest descriptor; they are never mutated in place.
//
// Invariant: every numeric field is either nil or a finite number.
type NormalizedStyle struct {
	PresetName string `json:"presetName"`

	Container      Dimensions          `json:"container"`
	MainImage      ImageBlock          `json:"mainImage"`
	SecondaryImage SecondaryImageBlock `json:"secondaryImage"`

	Border           *Border    `json:"border,omitempty"`
	TitleStyle       *TextStyle `json:"titleStyle,omitempty"`
	DescriptionStyle *TextStyle `json:"descriptionStyle,omitempty"`
	Badge            *Badge     `json:"badge,omitempty"`

	ShowTitle                bool `json:"showTitle"`
	ShowDescription          bool `json:"showDescription"`
	ShowBadges               bool `json:"showBadges"`
	UseSecondaryAsBackground bool `json:"useSecondaryAsBackground"`

	TitleSourceKey       string `json:"titleSourceKey,omitempty"`
	DescriptionSourceKey string `json:"descriptionSourceKey,omitempty"`
}

// MatchesPreset reports whether the style serves the given preset name.
// Matching is case-insensitive exact.
func (s NormalizedStyle) MatchesPreset(name string) bool {
	return strings.EqualFold(s.PresetName, name)
}

// ─── Resolved Output ──────────────────────────────────────────────────────────

// ResolvedCard is the fully resolved per-item visual spec handed to a
// rendering layer: style decisions already joined against one content item.
type ResolvedCard struct {
	ItemID            string  `json:"item_id"`
	PresetName        string  `json:"preset_name"`
	ImageURL          string  `json:"image_url,omitempty"`
	SecondaryImageURL string  `json:"secondary_image_url,omitempty"`
	Title             string  `json:"title,omitempty"`
	Description       string  `json:"description,omitempty"`
	BadgeLabel        string  `json:"badge_label,omitempty"`
	AspectRatio       float64 `json:"aspect_ratio"`
}

// ─── Cached Settings ──────────────────────────────────────────────────────────

// CachedSettings is one complete settings payload: both remote collections
// plus the time the fetch completed. Staleness is always judged against
// FetchedAt, never against individual entries.
type CachedSettings struct {
	ListSettings []ListPreset    `json:"listSettings"`
	CardStyles   []RawDescriptor `json:"cardStyles"`
	FetchedAt    time.Time       `json:"fetchedAt"`
}

// Age returns how long ago the payload was fetched.
func (c CachedSettings) Age(now time.Time) time.Duration {
	return now.Sub(c.FetchedAt)
}

// ─── Result Envelope ─────────────────────────────────────────────────────────

// ResultStats carries cache and timing metadata for a command result.
type ResultStats struct {
	CacheHit   bool  `json:"cache_hit"`
	DurationMs int64 `json:"duration_ms"`
	Items      int   `json:"items"`
}

// Result is the uniform envelope returned by every command. The Data field
// holds the typed payload; Kind identifies what is in it. Renderers switch
// on Kind to format output appropriately.
type Result struct {
	Kind        string      `json:"kind"`
	GeneratedAt time.Time   `json:"generated_at"`
	Command     string      `json:"command"`
	Data        interface{} `json:"data"`
	Warnings    []string    `json:"warnings,omitempty"`
	Stats       ResultStats `json:"stats"`
}

// Kind constants for Result.Kind.
const (
	KindPresets   = "presets"
	KindStyles    = "styles"
	KindStyle     = "style"
	KindResolved  = "resolved"
	KindItems     = "items"
	KindLayout    = "layout"
	KindAudit     = "audit"
	KindSnapshots = "snapshots"
	KindReport    = "report"
)
