package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/lotas/salonreviews/internal/indicator"
	"github.com/lotas/salonreviews/internal/types"
)

// tabGap is the blank space between two tab labels.
const tabGap = 2

const allLabel = "ALL"

type placedTab struct {
	key   string
	label string
	rect  indicator.Rect
}

// tabRow lays out the "All" tab and one tab per artist. It implements
// tabbar.Layout: rows that fit are centered, wider rows scroll so the
// selected tab and its pill stay on screen.
type tabRow struct {
	artists  []types.Artist
	selected string
	pad      int
	scroll   int
	placed   []placedTab
}

func newTabRow(pad int) *tabRow {
	return &tabRow{pad: pad}
}

func tabLabel(a types.Artist) string {
	return strings.ToUpper(a.Name)
}

// Measure implements tabbar.Layout.
func (r *tabRow) Measure(width int) (indicator.Rect, []indicator.Placement) {
	type tab struct {
		key, label string
		x, w       int
	}
	tabs := make([]tab, 0, len(r.artists)+1)
	x := 0
	add := func(key, label string) {
		w := lipgloss.Width(label)
		if len(tabs) > 0 {
			x += tabGap
		}
		tabs = append(tabs, tab{key: key, label: label, x: x, w: w})
		x += w
	}
	add(indicator.AllKey, allLabel)
	for _, a := range r.artists {
		add(a.ID, tabLabel(a))
	}
	total := x

	var origin int
	if content := total + 2*r.pad; content <= width {
		r.scroll = 0
		origin = (width - total) / 2
	} else {
		sel := tabs[0]
		for _, t := range tabs {
			if t.key == indicator.Key(r.selected) {
				sel = t
				break
			}
		}
		// Content coordinates put the first tab at r.pad.
		lo, hi := sel.x, sel.x+sel.w+2*r.pad
		if lo < r.scroll {
			r.scroll = lo
		}
		if hi > r.scroll+width {
			r.scroll = hi - width
		}
		r.scroll = max(0, min(r.scroll, content-width))
		origin = r.pad - r.scroll
	}

	r.placed = r.placed[:0]
	out := make([]indicator.Placement, 0, len(tabs))
	for _, t := range tabs {
		rect := indicator.Rect{Left: origin + t.x, Width: t.w}
		r.placed = append(r.placed, placedTab{key: t.key, label: t.label, rect: rect})
		out = append(out, indicator.Placement{Key: t.key, Rect: rect})
	}
	return indicator.Rect{Left: 0, Width: width}, out
}

type cellKind uint8

const (
	cellBlank cellKind = iota
	cellLabel
	cellActive
	cellPill
	cellBorder
)

// canvas is one terminal line built cell by cell. A zero rune marks the
// second cell of a wide rune.
type canvas struct {
	runes []rune
	kinds []cellKind
}

func newCanvas(width int) *canvas {
	c := &canvas{runes: make([]rune, width), kinds: make([]cellKind, width)}
	for i := range c.runes {
		c.runes[i] = ' '
	}
	return c
}

func (c *canvas) put(x int, r rune, k cellKind) {
	if x < 0 || x >= len(c.runes) {
		return
	}
	c.runes[x] = r
	c.kinds[x] = k
}

// putIfBlank draws r only over an empty cell.
func (c *canvas) putIfBlank(x int, r rune, k cellKind) {
	if x < 0 || x >= len(c.runes) || c.kinds[x] != cellBlank {
		return
	}
	c.put(x, r, k)
}

func (c *canvas) text(x int, s string, k cellKind) {
	for _, r := range s {
		w := ansi.StringWidth(string(r))
		if w == 0 {
			continue
		}
		c.put(x, r, k)
		for i := 1; i < w; i++ {
			c.put(x+i, 0, k)
		}
		x += w
	}
}

func (c *canvas) render(styles map[cellKind]lipgloss.Style) string {
	var b strings.Builder
	var run strings.Builder
	kind := cellBlank
	flush := func() {
		if run.Len() == 0 {
			return
		}
		if st, ok := styles[kind]; ok {
			b.WriteString(st.Render(run.String()))
		} else {
			b.WriteString(run.String())
		}
		run.Reset()
	}
	for i, r := range c.runes {
		if c.kinds[i] != kind {
			flush()
			kind = c.kinds[i]
		}
		if r != 0 {
			run.WriteRune(r)
		}
	}
	flush()
	return b.String()
}

// pillGlyphs are the box pieces of the pill. The emphasized set is drawn
// while the emphasis window is open.
type pillGlyphs struct {
	topLeft, top, topRight rune
	side                   rune
	baseLeft, baseRight    rune
}

var (
	calmPill     = pillGlyphs{'╭', '─', '╮', '│', '┘', '└'}
	emphasisPill = pillGlyphs{'┏', '━', '┓', '┃', '┛', '┗'}
)

// rowStyles colors the tab row. While emphasizing, the pill, the box border
// and the active label all switch to the accent.
func rowStyles(emphasized bool) map[cellKind]lipgloss.Style {
	pill := lipgloss.NewStyle().Foreground(lipgloss.Color("180"))
	border := lipgloss.NewStyle().Foreground(cardBorder)
	active := lipgloss.NewStyle().Bold(true).Foreground(ink)
	if emphasized {
		pill = lipgloss.NewStyle().Foreground(accent).Bold(true)
		border = lipgloss.NewStyle().Foreground(accent)
		active = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(accent)
	}
	return map[cellKind]lipgloss.Style{
		cellLabel:  lipgloss.NewStyle().Foreground(muted),
		cellActive: active,
		cellPill:   pill,
		cellBorder: border,
	}
}

type pillView struct {
	left, right int // absolute columns of the pill edges
	visible     bool
	emphasized  bool
}

// renderTabRow draws the pill top, the tab labels and the top border of the
// reviews box, which opens under the pill.
func renderTabRow(row *tabRow, pill pillView, width int, styles map[cellKind]lipgloss.Style) string {
	if width <= 0 {
		return ""
	}
	g := calmPill
	if pill.emphasized {
		g = emphasisPill
	}

	top := newCanvas(width)
	labels := newCanvas(width)
	base := newCanvas(width)

	for _, t := range row.placed {
		kind := cellLabel
		if t.key == indicator.Key(row.selected) {
			kind = cellActive
		}
		labels.text(t.rect.Left, t.label, kind)
	}

	for x := 0; x < width; x++ {
		base.put(x, '─', cellBorder)
	}
	base.put(0, '╭', cellBorder)
	base.put(width-1, '╮', cellBorder)

	if pill.visible {
		l, r := pill.left, pill.right
		top.put(l, g.topLeft, cellPill)
		for x := l + 1; x < r; x++ {
			top.put(x, g.top, cellPill)
		}
		top.put(r, g.topRight, cellPill)

		labels.putIfBlank(l, g.side, cellPill)
		labels.putIfBlank(r, g.side, cellPill)

		for x := l + 1; x < r; x++ {
			base.put(x, ' ', cellBlank)
		}
		if l <= 0 {
			base.put(l, g.side, cellPill)
		} else {
			base.put(l, g.baseLeft, cellPill)
		}
		if r >= width-1 {
			base.put(r, g.side, cellPill)
		} else {
			base.put(r, g.baseRight, cellPill)
		}
	}

	return top.render(styles) + "\n" + labels.render(styles) + "\n" + base.render(styles)
}
