// Package coerce converts the loosely-typed scalar values delivered by the
// CMS (numeric strings, pixel-suffixed strings, percentage strings, aspect
// ratio strings, CSS-ish keywords) into strict typed values.
//
// Every function is pure and total: malformed input degrades to "no value"
// (ok == false or the documented default), never to an error or a NaN.
package coerce

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ─── Numbers ──────────────────────────────────────────────────────────────────

var pxRe = regexp.MustCompile(`^(\d+(?:\.\d+)?)px$`)

// ToNumber converts a number, a numeric string, or a pixel-suffixed string
// ("16px") into a finite float64. Anything else — nil, empty string, NaN,
// infinities — yields ok == false.
func ToNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return finite(n)
	case float32:
		return finite(float64(n))
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		if m := pxRe.FindStringSubmatch(strings.ToLower(s)); m != nil {
			s = m[1]
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return finite(f)
	}
	return 0, false
}

func finite(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

var pctRe = regexp.MustCompile(`^(\d+(?:\.\d+)?)%$`)

// ToFraction converts a number (clamped to [0,1]) or a percentage string
// ("81%") into a fraction in [0,1]. Non-matching input yields ok == false.
func ToFraction(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return clamp01(n), true
	case float32:
		return clamp01(float64(n)), true
	case int:
		return clamp01(float64(n)), true
	case string:
		m := pctRe.FindStringSubmatch(strings.TrimSpace(n))
		if m == nil {
			return 0, false
		}
		f, err := strconv.ParseFloat(m[1], 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return clamp01(f / 100), true
	}
	return 0, false
}

func clamp01(f float64) float64 {
	return math.Max(0, math.Min(1, f))
}

// ─── Aspect Ratio ─────────────────────────────────────────────────────────────

var aspectRe = regexp.MustCompile(`^(\d+)(?:[:xX/])(\d+)$`)

// ParseAspectRatio parses "W:H", "WxH", "W/H" (separator case-insensitive),
// or a bare positive numeric string into the ratio W/H. Unparsable input or
// a zero component yields ok == false.
func ParseAspectRatio(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if m := aspectRe.FindStringSubmatch(s); m != nil {
		w, _ := strconv.ParseFloat(m[1], 64)
		h, _ := strconv.ParseFloat(m[2], 64)
		if w == 0 || h == 0 {
			return 0, false
		}
		return w / h, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return 0, false
	}
	return f, true
}

// ─── Resize Mode ──────────────────────────────────────────────────────────────

// ResizeMode is the closed set of image scaling modes the rendering layer
// understands.
type ResizeMode string

const (
	ResizeCover   ResizeMode = "cover"
	ResizeContain ResizeMode = "contain"
	ResizeStretch ResizeMode = "stretch"
	ResizeRepeat  ResizeMode = "repeat"
	ResizeCenter  ResizeMode = "center"
)

// MapObjectFit maps a CSS-ish object-fit keyword to a ResizeMode.
// Unknown or missing input maps to cover.
func MapObjectFit(fit string) ResizeMode {
	switch strings.ToLower(strings.TrimSpace(fit)) {
	case "contain":
		return ResizeContain
	case "fill":
		return ResizeStretch // closest equivalent
	case "scale-down":
		return ResizeContain // closest equivalent
	case "none":
		return ResizeCover
	default:
		return ResizeCover
	}
}

// ─── Position ─────────────────────────────────────────────────────────────────

// HorizAlign and VertAlign are the two independent axes of an image position.
type (
	HorizAlign string
	VertAlign  string
)

const (
	HorizLeft   HorizAlign = "left"
	HorizCenter HorizAlign = "center"
	HorizRight  HorizAlign = "right"

	VertTop    VertAlign = "top"
	VertCenter VertAlign = "center"
	VertBottom VertAlign = "bottom"
)

// Position is a parsed free-text position string.
type Position struct {
	Horizontal HorizAlign
	Vertical   VertAlign
}

// ParsePosition splits a free-text position string ("bottom right",
// "left center") into independent axes. Each axis defaults to center and is
// matched by substring containment, not exact equality.
func ParsePosition(pos string) Position {
	s := strings.ToLower(pos)
	p := Position{Horizontal: HorizCenter, Vertical: VertCenter}
	switch {
	case strings.Contains(s, "right"):
		p.Horizontal = HorizRight
	case strings.Contains(s, "left"):
		p.Horizontal = HorizLeft
	}
	switch {
	case strings.Contains(s, "top"):
		p.Vertical = VertTop
	case strings.Contains(s, "bottom"):
		p.Vertical = VertBottom
	}
	return p
}
