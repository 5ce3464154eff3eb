// Package render converts Result values into human-readable or machine-parseable
// output. Each format is a separate function; the top-level Render dispatcher
// selects based on the format string.
package render

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/MurthyAvanithsa/railview/internal/audit"
	"github.com/MurthyAvanithsa/railview/internal/layout"
	"github.com/MurthyAvanithsa/railview/internal/model"
	"github.com/MurthyAvanithsa/railview/internal/store"
)

// Format constants matching --format flag values.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatJSONL = "jsonl"
	FormatCSV   = "csv"
	FormatTSV   = "tsv"
	FormatMD    = "md"
)

// Render writes result to w in the specified format.
func Render(w io.Writer, result *model.Result, format string) error {
	switch format {
	case FormatJSON:
		return renderJSON(w, result)
	case FormatJSONL:
		return renderJSONL(w, result)
	case FormatCSV:
		return renderDelimited(w, result, ',')
	case FormatTSV:
		return renderDelimited(w, result, '\t')
	case FormatMD:
		return renderMarkdown(w, result)
	default:
		return renderTable(w, result)
	}
}

// RenderTo writes to stdout by default; if path is non-empty, writes to file.
func RenderTo(path string, result *model.Result, format string) error {
	if path == "" {
		return Render(os.Stdout, result, format)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()
	return Render(f, result, format)
}

// ─── JSON ─────────────────────────────────────────────────────────────────────

func renderJSON(w io.Writer, result *model.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// ─── JSONL ────────────────────────────────────────────────────────────────────

// renderJSONL writes one JSON object per line: one per element for slice
// payloads, one object total for scalar payloads.
func renderJSONL(w io.Writer, result *model.Result) error {
	enc := json.NewEncoder(w)
	switch data := result.Data.(type) {
	case []model.ListPreset:
		for _, p := range data {
			if err := enc.Encode(p); err != nil {
				return err
			}
		}
	case []model.NormalizedStyle:
		for _, s := range data {
			if err := enc.Encode(s); err != nil {
				return err
			}
		}
	case []model.ResolvedCard:
		for _, c := range data {
			if err := enc.Encode(c); err != nil {
				return err
			}
		}
	case []model.ContentItem:
		for _, item := range data {
			if err := enc.Encode(item); err != nil {
				return err
			}
		}
	case []store.Snapshot:
		for _, s := range data {
			if err := enc.Encode(s); err != nil {
				return err
			}
		}
	case audit.Report:
		for _, f := range data.Findings {
			if err := enc.Encode(f); err != nil {
				return err
			}
		}
	default:
		return enc.Encode(result.Data)
	}
	return nil
}

// ─── Table ────────────────────────────────────────────────────────────────────

func renderTable(w io.Writer, result *model.Result) error {
	switch data := result.Data.(type) {
	case []model.ListPreset:
		return renderPresetsTable(w, data)
	case []model.NormalizedStyle:
		return renderStylesTable(w, data)
	case model.NormalizedStyle:
		return renderStyleDetail(w, data)
	case *model.NormalizedStyle:
		return renderStyleDetail(w, *data)
	case []model.ResolvedCard:
		return renderResolvedTable(w, data)
	case []model.ContentItem:
		return renderItemsTable(w, data)
	case layout.Projection:
		return renderLayoutTable(w, data)
	case audit.Report:
		return renderAuditTable(w, data)
	case []store.Snapshot:
		return renderSnapshotsTable(w, data)
	case []store.BucketStats:
		return renderBucketStatsTable(w, data)
	default:
		// Fallback: JSON
		return renderJSON(w, result)
	}
}

func newTable(w io.Writer, headers []string) *tablewriter.Table {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader(headers)
	tw.SetBorder(true)
	tw.SetRowLine(false)
	tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAutoWrapText(false)
	return tw
}

func renderPresetsTable(w io.Writer, presets []model.ListPreset) error {
	tw := newTable(w, []string{"PRESET", "TITLE KEY", "TILES", "TITLE", "BANNER", "FEATURED"})
	for _, p := range presets {
		tw.Append([]string{
			p.PresetName,
			p.TitleKey,
			strconv.Itoa(p.TilesToShow),
			yesNo(p.ShowTitle),
			yesNo(p.IsBanner),
			yesNo(p.IsFeatured),
		})
	}
	tw.Render()
	return nil
}

func renderStylesTable(w io.Writer, styles []model.NormalizedStyle) error {
	tw := newTable(w, []string{"STYLE", "IMAGE KEY", "ASPECT", "TITLE", "DESC", "BADGES", "BORDER"})
	for _, s := range styles {
		tw.Append([]string{
			s.PresetName,
			s.MainImage.SourceKey,
			s.MainImage.AspectRatio,
			yesNo(s.ShowTitle),
			yesNo(s.ShowDescription),
			yesNo(s.ShowBadges),
			yesNo(s.Border != nil),
		})
	}
	tw.Render()
	return nil
}

func renderStyleDetail(w io.Writer, s model.NormalizedStyle) error {
	tw := newTable(w, []string{"FIELD", "VALUE"})
	tw.SetColWidth(80)
	tw.SetAutoWrapText(true)

	rows := [][]string{
		{"Preset", s.PresetName},
		{"Image Source Key", s.MainImage.SourceKey},
		{"Image Aspect", s.MainImage.AspectRatio},
		{"Image Size", dimString(s.MainImage.Width, s.MainImage.Height)},
		{"Container Size", dimString(s.Container.Width, s.Container.Height)},
		{"Show Title", yesNo(s.ShowTitle)},
		{"Show Description", yesNo(s.ShowDescription)},
		{"Show Badges", yesNo(s.ShowBadges)},
	}
	if s.TitleSourceKey != "" {
		rows = append(rows, []string{"Title Source Key", s.TitleSourceKey})
	}
	if s.DescriptionSourceKey != "" {
		rows = append(rows, []string{"Description Source Key", s.DescriptionSourceKey})
	}
	if s.SecondaryImage.SourceKey != "" {
		rows = append(rows, []string{"Secondary Image Key", s.SecondaryImage.SourceKey})
		if s.SecondaryImage.Position != "" {
			rows = append(rows, []string{"Secondary Position", s.SecondaryImage.Position})
		}
	}
	if s.Border != nil {
		rows = append(rows, []string{"Border", borderString(s.Border)})
	}
	if s.Badge != nil && s.Badge.Label != "" {
		rows = append(rows, []string{"Badge Label", s.Badge.Label})
	}
	for _, r := range rows {
		tw.Append(r)
	}
	tw.Render()
	return nil
}

func renderResolvedTable(w io.Writer, cards []model.ResolvedCard) error {
	tw := newTable(w, []string{"ITEM", "TITLE", "IMAGE", "BADGE", "ASPECT"})
	tw.SetColWidth(50)
	for _, c := range cards {
		tw.Append([]string{
			c.ItemID,
			clip(c.Title, 40),
			clip(c.ImageURL, 50),
			c.BadgeLabel,
			formatFloat(c.AspectRatio),
		})
	}
	tw.Render()
	return nil
}

func renderItemsTable(w io.Writer, items []model.ContentItem) error {
	tw := newTable(w, []string{"ID", "TITLE", "DESCRIPTION"})
	tw.SetColWidth(60)
	for _, item := range items {
		tw.Append([]string{item.ID(), clip(item.Title(), 50), clip(item.Desc(), 60)})
	}
	tw.Render()
	return nil
}

func renderLayoutTable(w io.Writer, proj layout.Projection) error {
	tw := newTable(w, []string{"FIELD", "VALUE"})
	rows := [][]string{
		{"Preset", proj.PresetName},
		{"Aspect Ratio", formatFloat(proj.AspectRatio)},
		{"Columns", strconv.Itoa(proj.Columns)},
		{"Gap", strconv.Itoa(proj.Gap)},
		{"Item Width", strconv.Itoa(proj.ItemWidth)},
		{"Tile Height", strconv.Itoa(proj.TileHeight)},
		{"Text Height", strconv.Itoa(proj.TextHeight)},
		{"Row Height", strconv.Itoa(proj.RowHeight)},
	}
	for _, r := range rows {
		tw.Append(r)
	}
	tw.Render()
	return nil
}

func renderAuditTable(w io.Writer, rep audit.Report) error {
	fmt.Fprintf(w, "%d presets, %d styles audited\n\n", rep.Presets, rep.Styles)
	if rep.Clean() {
		fmt.Fprintln(w, "No findings.")
		return nil
	}

	findings := make([]audit.Finding, len(rep.Findings))
	copy(findings, rep.Findings)
	audit.SortFindings(findings)

	tw := newTable(w, []string{"SEVERITY", "CHECK", "SUBJECT", "DETAIL"})
	tw.SetColWidth(60)
	tw.SetAutoWrapText(true)
	for _, f := range findings {
		tw.Append([]string{f.Severity, f.Check, f.Subject, f.Detail})
	}
	tw.Render()
	return nil
}

func renderSnapshotsTable(w io.Writer, snaps []store.Snapshot) error {
	tw := newTable(w, []string{"ID", "NAME", "PRESET", "CREATED", "COMMAND"})
	tw.SetColWidth(60)
	for _, s := range snaps {
		tw.Append([]string{
			shortID(s.ID),
			s.Name,
			s.PresetName,
			s.CreatedAt.Format("2006-01-02 15:04"),
			clip(s.CommandLine, 50),
		})
	}
	tw.Render()
	return nil
}

func renderBucketStatsTable(w io.Writer, stats []store.BucketStats) error {
	tw := newTable(w, []string{"BUCKET", "ENTRIES", "BYTES"})
	tw.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
	})
	for _, s := range stats {
		tw.Append([]string{s.Name, strconv.Itoa(s.Count), strconv.FormatInt(s.Bytes, 10)})
	}
	tw.Render()
	return nil
}

// ─── CSV / TSV ────────────────────────────────────────────────────────────────

func renderDelimited(w io.Writer, result *model.Result, sep rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = sep

	switch data := result.Data.(type) {
	case []model.ListPreset:
		_ = cw.Write([]string{"preset_name", "title_key", "tiles_to_show", "show_title", "is_banner", "is_featured"})
		for _, p := range data {
			_ = cw.Write([]string{
				p.PresetName, p.TitleKey, strconv.Itoa(p.TilesToShow),
				yesNo(p.ShowTitle), yesNo(p.IsBanner), yesNo(p.IsFeatured),
			})
		}
	case []model.NormalizedStyle:
		_ = cw.Write([]string{"preset_name", "image_key", "aspect", "show_title", "show_description", "show_badges"})
		for _, s := range data {
			_ = cw.Write([]string{
				s.PresetName, s.MainImage.SourceKey, s.MainImage.AspectRatio,
				yesNo(s.ShowTitle), yesNo(s.ShowDescription), yesNo(s.ShowBadges),
			})
		}
	case []model.ResolvedCard:
		_ = cw.Write([]string{"item_id", "preset_name", "title", "description", "image_url", "secondary_image_url", "badge_label", "aspect_ratio"})
		for _, c := range data {
			_ = cw.Write([]string{
				c.ItemID, c.PresetName, c.Title, c.Description,
				c.ImageURL, c.SecondaryImageURL, c.BadgeLabel,
				formatFloat(c.AspectRatio),
			})
		}
	case audit.Report:
		_ = cw.Write([]string{"severity", "check", "subject", "detail"})
		for _, f := range data.Findings {
			_ = cw.Write([]string{f.Severity, f.Check, f.Subject, f.Detail})
		}
	case []store.Snapshot:
		_ = cw.Write([]string{"id", "name", "preset_name", "created_at", "command_line"})
		for _, s := range data {
			_ = cw.Write([]string{s.ID, s.Name, s.PresetName, s.CreatedAt.Format(time.RFC3339), s.CommandLine})
		}
	default:
		// Fallback: serialize as JSON on a single line
		b, _ := json.Marshal(result.Data)
		_ = cw.Write([]string{string(b)})
	}

	cw.Flush()
	return cw.Error()
}

// ─── Markdown ─────────────────────────────────────────────────────────────────

func renderMarkdown(w io.Writer, result *model.Result) error {
	switch data := result.Data.(type) {
	case []model.ListPreset:
		fmt.Fprintf(w, "| PRESET | TITLE KEY | TILES | TITLE | BANNER |\n|----|----|----|----|----|\n")
		for _, p := range data {
			fmt.Fprintf(w, "| %s | %s | %d | %s | %s |\n",
				mdEscape(p.PresetName), mdEscape(p.TitleKey), p.TilesToShow,
				yesNo(p.ShowTitle), yesNo(p.IsBanner))
		}
		return nil
	case []model.NormalizedStyle:
		fmt.Fprintf(w, "| STYLE | IMAGE KEY | ASPECT | TITLE | DESC | BADGES |\n|----|----|----|----|----|----|\n")
		for _, s := range data {
			fmt.Fprintf(w, "| %s | %s | %s | %s | %s | %s |\n",
				mdEscape(s.PresetName), s.MainImage.SourceKey, s.MainImage.AspectRatio,
				yesNo(s.ShowTitle), yesNo(s.ShowDescription), yesNo(s.ShowBadges))
		}
		return nil
	case []model.ResolvedCard:
		fmt.Fprintf(w, "| ITEM | TITLE | IMAGE | BADGE |\n|----|----|----|----|\n")
		for _, c := range data {
			fmt.Fprintf(w, "| %s | %s | %s | %s |\n",
				c.ItemID, mdEscape(clip(c.Title, 50)), mdEscape(clip(c.ImageURL, 60)), mdEscape(c.BadgeLabel))
		}
		return nil
	default:
		return renderJSON(w, result)
	}
}

// ─── Warnings / Stats Footer ─────────────────────────────────────────────────

// PrintFooter writes warnings and stats to w when verbose mode is on.
func PrintFooter(w io.Writer, result *model.Result, verbose bool) {
	for _, warn := range result.Warnings {
		fmt.Fprintf(w, "⚠  %s\n", warn)
	}
	if verbose {
		src := "live"
		if result.Stats.CacheHit {
			src = "cache"
		}
		fmt.Fprintf(w, "\n[%s • %d items • %dms • %s]\n",
			result.GeneratedAt.Format(time.RFC3339),
			result.Stats.Items,
			result.Stats.DurationMs,
			src,
		)
	}
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// formatFloat formats a derived ratio for display: two decimals with
// trailing zeros trimmed, keeping at least one digit after the point.
func formatFloat(v float64) string {
	s := strings.TrimRight(strconv.FormatFloat(v, 'f', 2, 64), "0")
	if strings.HasSuffix(s, ".") {
		s += "0"
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func dimString(width, height *float64) string {
	f := func(p *float64) string {
		if p == nil {
			return "-"
		}
		return formatFloat(*p)
	}
	if width == nil && height == nil {
		return "-"
	}
	return f(width) + " × " + f(height)
}

func borderString(b *model.Border) string {
	parts := []string{}
	if b.Style != "" {
		parts = append(parts, b.Style)
	}
	if b.Width != nil {
		parts = append(parts, formatFloat(*b.Width)+"px")
	}
	if b.Color != "" {
		parts = append(parts, b.Color)
	}
	if b.Radius != nil {
		parts = append(parts, "radius "+formatFloat(*b.Radius))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}

func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func mdEscape(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}
