// Package layout computes derived tile geometry for homogeneous grid and
// list layouts: item width from viewport and column count, aspect-derived
// tile height, and per-row offsets. Everything here is a pure function of
// style plus viewport, so virtualized renderers can re-derive identical
// values for any index without measuring.
package layout

import (
	"fmt"
	"math"

	"github.com/MurthyAvanithsa/railview/internal/model"
	"github.com/MurthyAvanithsa/railview/internal/style"
)

// Fixed text allowances. Text blocks are budgeted, not measured, so offsets
// stay computable without a layout pass.
const (
	TitleAllowance       = 24
	DescriptionAllowance = 36
	BlockSpacing         = 8
)

// Viewport describes the tiling target.
type Viewport struct {
	Width   int `json:"width"`   // full viewport width in px
	Columns int `json:"columns"` // tiles per row
	Gap     int `json:"gap"`     // spacing between tiles, both axes
	Padding int `json:"padding"` // outer horizontal padding, each side
}

// Validate rejects viewports that cannot tile.
func (v Viewport) Validate() error {
	if v.Columns < 1 {
		return fmt.Errorf("layout: columns must be >= 1, got %d", v.Columns)
	}
	if v.Width <= 0 {
		return fmt.Errorf("layout: viewport width must be positive, got %d", v.Width)
	}
	if v.Gap < 0 || v.Padding < 0 {
		return fmt.Errorf("layout: gap and padding must be non-negative")
	}
	return nil
}

// Projection is the derived geometry for one style on one viewport.
type Projection struct {
	PresetName  string  `json:"preset_name"`
	AspectRatio float64 `json:"aspect_ratio"`
	Columns     int     `json:"columns"`
	Gap         int     `json:"gap"`
	ItemWidth   int     `json:"item_width"`
	TileHeight  int     `json:"tile_height"` // image portion only
	TextHeight  int     `json:"text_height"` // fixed allowances for enabled text
	RowHeight   int     `json:"row_height"`
}

// Project derives tile geometry for the given style and viewport.
func Project(s model.NormalizedStyle, vp Viewport) (Projection, error) {
	if err := vp.Validate(); err != nil {
		return Projection{}, err
	}

	inner := vp.Width - 2*vp.Padding - vp.Gap*(vp.Columns-1)
	if inner < 0 {
		inner = 0
	}
	itemWidth := inner / vp.Columns

	aspect := style.Aspect(s)
	tileHeight := int(math.Round(float64(itemWidth) / aspect))

	textHeight := 0
	if s.ShowTitle {
		textHeight += TitleAllowance
	}
	if s.ShowDescription {
		textHeight += DescriptionAllowance
	}
	if textHeight > 0 {
		textHeight += BlockSpacing
	}

	return Projection{
		PresetName:  s.PresetName,
		AspectRatio: aspect,
		Columns:     vp.Columns,
		Gap:         vp.Gap,
		ItemWidth:   itemWidth,
		TileHeight:  tileHeight,
		TextHeight:  textHeight,
		RowHeight:   tileHeight + textHeight,
	}, nil
}

// RowOffset returns the vertical offset of row r: all previous full rows
// plus the gaps between them.
func (p Projection) RowOffset(row int) int {
	if row < 1 {
		return 0
	}
	return row*p.RowHeight + row*p.Gap
}

// ItemOffset returns the vertical offset and length for the item at index,
// matching the contract of "get item layout" virtualization hooks.
func (p Projection) ItemOffset(index int) (offset, length int) {
	row := index / p.Columns
	return p.RowOffset(row), p.RowHeight
}

// Rows returns the number of rows needed for count items.
func (p Projection) Rows(count int) int {
	if count <= 0 {
		return 0
	}
	return (count + p.Columns - 1) / p.Columns
}

// ContentHeight returns the total scrollable height for count items.
func (p Projection) ContentHeight(count int) int {
	rows := p.Rows(count)
	if rows == 0 {
		return 0
	}
	return rows*p.RowHeight + (rows-1)*p.Gap
}
