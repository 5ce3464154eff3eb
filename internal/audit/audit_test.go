package audit_test

import (
	"testing"

	"github.com/MurthyAvanithsa/railview/internal/audit"
	"github.com/MurthyAvanithsa/railview/internal/model"
)

// ─── Helpers ──────────────────────────────────────────────────────────────────

func preset(name string) model.ListPreset {
	return model.ListPreset{PresetName: name}
}

func styleDescriptor(name, imageKey string) model.RawDescriptor {
	block := map[string]any{}
	if imageKey != "" {
		block["image"] = map[string]any{"sourceKey": imageKey}
	}
	return model.RawDescriptor{"name": name, "cardStyle": block}
}

func settings(presets []model.ListPreset, styles []model.RawDescriptor) model.CachedSettings {
	return model.CachedSettings{ListSettings: presets, CardStyles: styles}
}

func findings(rep audit.Report, check string) []audit.Finding {
	var out []audit.Finding
	for _, f := range rep.Findings {
		if f.Check == check {
			out = append(out, f)
		}
	}
	return out
}

// ─── Clean payloads ───────────────────────────────────────────────────────────

func TestRunCleanPayload(t *testing.T) {
	rep := audit.Run(settings(
		[]model.ListPreset{preset("hero"), preset("rail")},
		[]model.RawDescriptor{
			styleDescriptor("hero", "posterH"),
			styleDescriptor("rail", "posterV"),
		},
	))

	if !rep.Clean() {
		t.Fatalf("expected no findings, got %+v", rep.Findings)
	}
	if rep.Presets != 2 || rep.Styles != 2 {
		t.Errorf("counts: presets=%d styles=%d, want 2/2", rep.Presets, rep.Styles)
	}
}

func TestRunEmptyPayload(t *testing.T) {
	rep := audit.Run(model.CachedSettings{})
	if !rep.Clean() {
		t.Fatalf("empty payload should audit clean, got %+v", rep.Findings)
	}
}

// ─── Duplicates ───────────────────────────────────────────────────────────────

func TestDuplicatePresetsFlagged(t *testing.T) {
	rep := audit.Run(settings(
		[]model.ListPreset{preset("hero"), preset("HERO"), preset("hero")},
		[]model.RawDescriptor{styleDescriptor("hero", "poster")},
	))

	dups := findings(rep, audit.CheckDuplicatePreset)
	if len(dups) != 2 {
		t.Fatalf("expected 2 duplicate findings (first occurrence is not a dup), got %d", len(dups))
	}
	for _, f := range dups {
		if f.Severity != "warn" {
			t.Errorf("duplicate preset severity = %q, want warn", f.Severity)
		}
	}
}

func TestDuplicateStylesFlaggedCaseInsensitively(t *testing.T) {
	rep := audit.Run(settings(
		[]model.ListPreset{preset("hero")},
		[]model.RawDescriptor{
			styleDescriptor("hero", "poster"),
			styleDescriptor("Hero", "poster"),
		},
	))

	if got := len(findings(rep, audit.CheckDuplicateStyle)); got != 1 {
		t.Fatalf("expected 1 duplicate style finding, got %d", got)
	}
}

func TestUnnamedStyleFlagged(t *testing.T) {
	rep := audit.Run(settings(
		nil,
		[]model.RawDescriptor{{"cardStyle": map[string]any{}}},
	))

	if got := len(findings(rep, audit.CheckUnnamedStyle)); got != 1 {
		t.Fatalf("expected 1 unnamed style finding, got %d", got)
	}
}

// ─── Cross-references ─────────────────────────────────────────────────────────

func TestPresetWithoutStyleFlagged(t *testing.T) {
	rep := audit.Run(settings(
		[]model.ListPreset{preset("hero"), preset("orphan")},
		[]model.RawDescriptor{styleDescriptor("hero", "poster")},
	))

	got := findings(rep, audit.CheckPresetNoStyle)
	if len(got) != 1 || got[0].Subject != "orphan" {
		t.Fatalf("expected orphan preset flagged, got %+v", got)
	}
}

func TestPresetMatchIsCaseInsensitive(t *testing.T) {
	rep := audit.Run(settings(
		[]model.ListPreset{preset("HERO")},
		[]model.RawDescriptor{styleDescriptor("hero", "poster")},
	))

	if got := findings(rep, audit.CheckPresetNoStyle); len(got) != 0 {
		t.Fatalf("case-insensitive match should satisfy the preset, got %+v", got)
	}
}

func TestStyleWithoutPresetIsInfo(t *testing.T) {
	rep := audit.Run(settings(
		[]model.ListPreset{preset("hero")},
		[]model.RawDescriptor{
			styleDescriptor("hero", "poster"),
			styleDescriptor("unused", "poster"),
		},
	))

	got := findings(rep, audit.CheckStyleNoPreset)
	if len(got) != 1 || got[0].Subject != "unused" {
		t.Fatalf("expected unused style flagged, got %+v", got)
	}
	if got[0].Severity != "info" {
		t.Errorf("orphan style severity = %q, want info", got[0].Severity)
	}
}

func TestStyleWithoutImageKeyFlagged(t *testing.T) {
	rep := audit.Run(settings(
		[]model.ListPreset{preset("hero")},
		[]model.RawDescriptor{styleDescriptor("hero", "")},
	))

	got := findings(rep, audit.CheckStyleNoImage)
	if len(got) != 1 || got[0].Subject != "hero" {
		t.Fatalf("expected missing image key flagged, got %+v", got)
	}
}

// ─── Report helpers ───────────────────────────────────────────────────────────

func TestWarningsFiltersSeverity(t *testing.T) {
	rep := audit.Run(settings(
		[]model.ListPreset{preset("hero")},
		[]model.RawDescriptor{
			styleDescriptor("hero", "poster"),
			styleDescriptor("unused", "poster"), // info
			styleDescriptor("hero", "poster"),   // warn (duplicate)
		},
	))

	warns := rep.Warnings()
	if len(warns) != 1 {
		t.Fatalf("expected 1 warning, got %d: %+v", len(warns), warns)
	}
	if warns[0].Check != audit.CheckDuplicateStyle {
		t.Errorf("warning check = %q, want %q", warns[0].Check, audit.CheckDuplicateStyle)
	}
}

func TestSortFindingsWarnFirst(t *testing.T) {
	fs := []audit.Finding{
		{Check: "b", Severity: "info", Subject: "x"},
		{Check: "a", Severity: "warn", Subject: "z"},
		{Check: "a", Severity: "warn", Subject: "y"},
	}
	audit.SortFindings(fs)

	if fs[0].Severity != "warn" || fs[1].Severity != "warn" {
		t.Fatalf("warnings should sort first: %+v", fs)
	}
	if fs[0].Subject != "y" || fs[1].Subject != "z" {
		t.Errorf("same check should sort by subject: %+v", fs)
	}
}
