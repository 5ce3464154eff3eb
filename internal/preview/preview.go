// Package preview renders ASCII previews of projected tile grids for
// terminal inspection. The renderer scales pixel geometry down to character
// cells, so a 390px phone viewport and a 1280px tablet viewport both fit in
// a normal terminal while keeping their proportions recognizable.
//
// No external dependencies beyond the Go standard library.
package preview

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/MurthyAvanithsa/railview/internal/layout"
)

// Options controls grid preview rendering.
type Options struct {
	// Width is the total character width available for the preview.
	// If 0, auto-detects from $COLUMNS, falls back to 80.
	Width int
	// Items is the number of tiles to draw. If 0, draws two full rows.
	Items int
	// Labels are optional per-tile captions (resolved titles, item IDs).
	// Tiles beyond len(Labels) are drawn unlabeled.
	Labels []string
}

// Grid renders an ASCII preview of proj tiled across vp to w.
//
// Output example:
//
//	hero  390px × 2 cols   tile 173×97   aspect 1.78
//	╭────────────────╮  ╭────────────────╮
//	│                │  │                │
//	│    173 × 97    │  │    173 × 97    │
//	│                │  │                │
//	╰────────────────╯  ╰────────────────╯
//	 Episode 1           Episode 2
func Grid(w io.Writer, proj layout.Projection, vp layout.Viewport, opts Options) error {
	if proj.Columns < 1 || proj.ItemWidth <= 0 {
		return fmt.Errorf("preview: projection has no drawable tiles (columns=%d, item width=%d)",
			proj.Columns, proj.ItemWidth)
	}

	totalWidth := opts.Width
	if totalWidth <= 0 {
		totalWidth = termWidth()
	}
	items := opts.Items
	if items <= 0 {
		items = proj.Columns * 2
	}

	// Scale px to character columns so one full row fits in totalWidth.
	// Terminal cells are roughly twice as tall as wide, so vertical scale
	// is halved to keep the drawn aspect close to the real one.
	rowPx := proj.Columns*proj.ItemWidth + (proj.Columns-1)*proj.Gap
	scale := float64(totalWidth-2) / float64(rowPx)
	if scale > 0.5 {
		scale = 0.5
	}

	tileCols := scaleDim(proj.ItemWidth, scale, 8)
	tileRows := scaleDim(proj.TileHeight, scale/2, 3)
	gapCols := scaleDim(proj.Gap, scale, 1)
	if proj.Gap == 0 {
		gapCols = 0
	}

	fmt.Fprintf(w, "%s  %dpx × %d cols   tile %d×%d   aspect %s\n",
		presetLabel(proj), vp.Width, proj.Columns,
		proj.ItemWidth, proj.TileHeight, formatAspect(proj.AspectRatio))

	rows := proj.Rows(items)
	for row := 0; row < rows; row++ {
		first := row * proj.Columns
		count := items - first
		if count > proj.Columns {
			count = proj.Columns
		}
		drawTileRow(w, tileCols, tileRows, gapCols, count, proj)
		drawCaptions(w, tileCols, gapCols, count, opts.Labels, first)
		if row < rows-1 && proj.Gap > 0 {
			fmt.Fprintln(w)
		}
	}

	return nil
}

// drawTileRow draws one horizontal run of tile boxes.
func drawTileRow(w io.Writer, tileCols, tileRows, gapCols, count int, proj layout.Projection) {
	gap := strings.Repeat(" ", gapCols)
	inner := tileCols - 2

	top := "╭" + strings.Repeat("─", inner) + "╮"
	bottom := "╰" + strings.Repeat("─", inner) + "╯"
	blank := "│" + strings.Repeat(" ", inner) + "│"
	dims := "│" + center(fmt.Sprintf("%d × %d", proj.ItemWidth, proj.TileHeight), inner) + "│"

	writeRun := func(cell string) {
		for i := 0; i < count; i++ {
			if i > 0 {
				io.WriteString(w, gap)
			}
			io.WriteString(w, cell)
		}
		fmt.Fprintln(w)
	}

	writeRun(top)
	for r := 0; r < tileRows; r++ {
		if r == tileRows/2 {
			writeRun(dims)
		} else {
			writeRun(blank)
		}
	}
	writeRun(bottom)
}

// drawCaptions draws one caption line under a tile row when any tile in the
// row has a label.
func drawCaptions(w io.Writer, tileCols, gapCols, count int, labels []string, first int) {
	any := false
	for i := 0; i < count; i++ {
		if first+i < len(labels) && labels[first+i] != "" {
			any = true
			break
		}
	}
	if !any {
		return
	}

	gap := strings.Repeat(" ", gapCols)
	for i := 0; i < count; i++ {
		if i > 0 {
			io.WriteString(w, gap)
		}
		label := ""
		if first+i < len(labels) {
			label = labels[first+i]
		}
		io.WriteString(w, " "+pad(truncate(label, tileCols-2), tileCols-1))
	}
	fmt.Fprintln(w)
}

// Summary writes the projection's derived numbers as aligned key/value
// lines, for the non-graphical variant of the layout command.
func Summary(w io.Writer, proj layout.Projection, vp layout.Viewport, count int) {
	fmt.Fprintf(w, "preset:         %s\n", presetLabel(proj))
	fmt.Fprintf(w, "viewport:       %dpx, %d columns, gap %d, padding %d\n",
		vp.Width, vp.Columns, vp.Gap, vp.Padding)
	fmt.Fprintf(w, "aspect ratio:   %s\n", formatAspect(proj.AspectRatio))
	fmt.Fprintf(w, "item width:     %dpx\n", proj.ItemWidth)
	fmt.Fprintf(w, "tile height:    %dpx\n", proj.TileHeight)
	fmt.Fprintf(w, "text height:    %dpx\n", proj.TextHeight)
	fmt.Fprintf(w, "row height:     %dpx\n", proj.RowHeight)
	if count > 0 {
		fmt.Fprintf(w, "rows:           %d (for %d items)\n", proj.Rows(count), count)
		fmt.Fprintf(w, "content height: %dpx\n", proj.ContentHeight(count))
	}
}

// ─── Utilities ────────────────────────────────────────────────────────────────

func presetLabel(proj layout.Projection) string {
	if proj.PresetName == "" {
		return "(unnamed)"
	}
	return proj.PresetName
}

// scaleDim converts a pixel dimension to character cells with a floor.
func scaleDim(px int, scale float64, min int) int {
	n := int(math.Round(float64(px) * scale))
	if n < min {
		return min
	}
	return n
}

func formatAspect(r float64) string {
	s := strconv.FormatFloat(r, 'f', 2, 64)
	return strings.TrimSuffix(s, ".00")
}

func center(s string, width int) string {
	if len(s) >= width {
		return truncate(s, width)
	}
	left := (width - len(s)) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-left-len(s))
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	if max <= 1 {
		return s[:max]
	}
	return s[:max-1] + "…"
}

// termWidth returns the terminal width from $COLUMNS, defaulting to 80.
func termWidth() int {
	if cols := os.Getenv("COLUMNS"); cols != "" {
		if n, err := strconv.Atoi(cols); err == nil && n > 20 {
			return n
		}
	}
	return 80
}
