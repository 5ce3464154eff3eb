// Package audit computes consistency checks over a cached settings payload.
// All functions are pure; no I/O.
package audit

import (
	"fmt"
	"sort"
	"strings"

	"github.com/MurthyAvanithsa/railview/internal/model"
	"github.com/MurthyAvanithsa/railview/internal/style"
)

// Finding is a single issue discovered in the settings payload.
type Finding struct {
	Check    string `json:"check"`
	Severity string `json:"severity"` // "warn" or "info"
	Subject  string `json:"subject"`  // preset or style name
	Detail   string `json:"detail"`
}

// Check name constants for Finding.Check.
const (
	CheckDuplicatePreset = "duplicate_preset"
	CheckDuplicateStyle  = "duplicate_style"
	CheckPresetNoStyle   = "preset_without_style"
	CheckStyleNoPreset   = "style_without_preset"
	CheckStyleNoImage    = "style_without_image_key"
	CheckUnnamedStyle    = "unnamed_style"
)

// Report is the output of a settings audit.
type Report struct {
	Presets  int       `json:"presets"`
	Styles   int       `json:"styles"`
	Findings []Finding `json:"findings"`
}

// Clean reports whether the audit produced no findings.
func (r Report) Clean() bool {
	return len(r.Findings) == 0
}

// Warnings returns only the "warn" severity findings.
func (r Report) Warnings() []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Severity == "warn" {
			out = append(out, f)
		}
	}
	return out
}

// Run audits a settings payload. All name comparisons are case-insensitive,
// matching how presets and styles are joined at resolve time. Findings come
// out grouped by check, stable within each check in payload order.
func Run(settings model.CachedSettings) Report {
	rep := Report{
		Presets: len(settings.ListSettings),
		Styles:  len(settings.CardStyles),
	}

	styles := style.NormalizeAll(settings.CardStyles)

	rep.Findings = append(rep.Findings, duplicatePresets(settings.ListSettings)...)
	rep.Findings = append(rep.Findings, duplicateStyles(styles)...)
	rep.Findings = append(rep.Findings, presetsWithoutStyle(settings.ListSettings, styles)...)
	rep.Findings = append(rep.Findings, stylesWithoutPreset(settings.ListSettings, styles)...)
	rep.Findings = append(rep.Findings, stylesWithoutImageKey(styles)...)

	return rep
}

// duplicatePresets flags every preset name that appears more than once.
// Only the copies beyond the first are flagged: the first occurrence is the
// one resolution will actually use.
func duplicatePresets(presets []model.ListPreset) []Finding {
	var out []Finding
	seen := make(map[string]int)
	for _, p := range presets {
		key := strings.ToLower(strings.TrimSpace(p.PresetName))
		if key == "" {
			continue
		}
		seen[key]++
		if seen[key] > 1 {
			out = append(out, Finding{
				Check:    CheckDuplicatePreset,
				Severity: "warn",
				Subject:  p.PresetName,
				Detail:   fmt.Sprintf("occurrence %d is shadowed by an earlier preset with the same name", seen[key]),
			})
		}
	}
	return out
}

func duplicateStyles(styles []model.NormalizedStyle) []Finding {
	var out []Finding
	seen := make(map[string]int)
	for _, s := range styles {
		key := strings.ToLower(strings.TrimSpace(s.PresetName))
		if key == "" {
			out = append(out, Finding{
				Check:    CheckUnnamedStyle,
				Severity: "warn",
				Detail:   "style descriptor has no name and can never match a preset",
			})
			continue
		}
		seen[key]++
		if seen[key] > 1 {
			out = append(out, Finding{
				Check:    CheckDuplicateStyle,
				Severity: "warn",
				Subject:  s.PresetName,
				Detail:   fmt.Sprintf("occurrence %d is shadowed by an earlier style with the same name", seen[key]),
			})
		}
	}
	return out
}

// presetsWithoutStyle flags presets that will render with the default style
// because no descriptor matches their name.
func presetsWithoutStyle(presets []model.ListPreset, styles []model.NormalizedStyle) []Finding {
	var out []Finding
	for _, p := range presets {
		if p.PresetName == "" {
			continue
		}
		if !hasStyle(p.PresetName, styles) {
			out = append(out, Finding{
				Check:    CheckPresetNoStyle,
				Severity: "warn",
				Subject:  p.PresetName,
				Detail:   "no card style matches this preset name",
			})
		}
	}
	return out
}

func hasStyle(name string, styles []model.NormalizedStyle) bool {
	for _, s := range styles {
		if s.MatchesPreset(name) {
			return true
		}
	}
	return false
}

// stylesWithoutPreset flags styles no rail references. Informational only:
// an orphaned style is wasted CMS payload, not a rendering defect.
func stylesWithoutPreset(presets []model.ListPreset, styles []model.NormalizedStyle) []Finding {
	referenced := make(map[string]bool, len(presets))
	for _, p := range presets {
		referenced[strings.ToLower(strings.TrimSpace(p.PresetName))] = true
	}

	var out []Finding
	for _, s := range styles {
		if s.PresetName == "" {
			continue
		}
		if !referenced[strings.ToLower(strings.TrimSpace(s.PresetName))] {
			out = append(out, Finding{
				Check:    CheckStyleNoPreset,
				Severity: "info",
				Subject:  s.PresetName,
				Detail:   "no list preset references this style",
			})
		}
	}
	return out
}

// stylesWithoutImageKey flags styles that name no image source key. Cards
// rendered with such a style fall back to flat-field probing for every item.
func stylesWithoutImageKey(styles []model.NormalizedStyle) []Finding {
	var out []Finding
	for _, s := range styles {
		if s.PresetName == "" {
			continue
		}
		if s.MainImage.SourceKey == "" {
			out = append(out, Finding{
				Check:    CheckStyleNoImage,
				Severity: "info",
				Subject:  s.PresetName,
				Detail:   "main image block has no source key",
			})
		}
	}
	return out
}

// SortFindings orders findings by severity (warn first), then check, then
// subject. Used by renderers that want a stable display order.
func SortFindings(findings []Finding) {
	rank := func(sev string) int {
		if sev == "warn" {
			return 0
		}
		return 1
	}
	sort.SliceStable(findings, func(i, j int) bool {
		if a, b := rank(findings[i].Severity), rank(findings[j].Severity); a != b {
			return a < b
		}
		if findings[i].Check != findings[j].Check {
			return findings[i].Check < findings[j].Check
		}
		return findings[i].Subject < findings[j].Subject
	})
}
