// Package terminal renders the backdrop with tcell. Each terminal cell covers
// a fixed block of field units, so the field keeps its proportions and link
// distances on a character grid.
package terminal

import (
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// Cell glyphs
const (
	dotRune  = '•'
	lineRune = '·'
)

// Surface implements backdrop.Surface on a tcell screen.
type Surface struct {
	screen       tcell.Screen
	cellW, cellH float64
	lineGain     float64
	bg           colorful.Color
	cols, rows   int
	dots         []bool
}

// NewSurface returns a surface with the given cell size in field units.
func NewSurface(screen tcell.Screen, cellW, cellH, lineGain float64, bg color.Color) *Surface {
	s := &Surface{
		screen:   screen,
		cellW:    cellW,
		cellH:    cellH,
		lineGain: lineGain,
	}
	s.bg, _ = colorful.MakeColor(bg)
	s.Sync()
	return s
}

// Sync picks up the screen size after a resize.
func (s *Surface) Sync() {
	s.cols, s.rows = s.screen.Size()
	if n := s.cols * s.rows; len(s.dots) != n {
		s.dots = make([]bool, n)
	}
}

// SetBackground changes the colour cells are blended over.
func (s *Surface) SetBackground(bg color.Color) {
	s.bg, _ = colorful.MakeColor(bg)
}

// Extent returns the field size covered by the screen.
func (s *Surface) Extent() (float64, float64) {
	return float64(s.cols) * s.cellW, float64(s.rows) * s.cellH
}

// Cell maps a field coordinate to its cell.
func (s *Surface) Cell(x, y float64) (int, int) {
	return int(math.Floor(x / s.cellW)), int(math.Floor(y / s.cellH))
}

func (s *Surface) Clear() {
	style := tcell.StyleDefault.Background(s.tcellColor(s.bg))
	for row := 0; row < s.rows; row++ {
		for col := 0; col < s.cols; col++ {
			s.screen.SetContent(col, row, ' ', nil, style)
		}
	}
	for i := range s.dots {
		s.dots[i] = false
	}
}

func (s *Surface) FillCircle(x, y, r float64, c color.Color) {
	col, row := s.Cell(x, y)
	if !s.inside(col, row) {
		return
	}
	s.dots[row*s.cols+col] = true
	s.screen.SetContent(col, row, dotRune, nil, s.style(c, 1))
}

// StrokeLine walks the cells between both ends with a DDA, leaving cells
// that already hold a dot untouched.
func (s *Surface) StrokeLine(x0, y0, x1, y1 float64, c color.Color) {
	c0, r0 := s.Cell(x0, y0)
	c1, r1 := s.Cell(x1, y1)
	steps := max(abs(c1-c0), abs(r1-r0))
	style := s.style(c, s.lineGain)
	for i := 0; i <= steps; i++ {
		t := 0.0
		if steps > 0 {
			t = float64(i) / float64(steps)
		}
		col := int(math.Round(float64(c0) + t*float64(c1-c0)))
		row := int(math.Round(float64(r0) + t*float64(r1-r0)))
		if !s.inside(col, row) || s.dots[row*s.cols+col] {
			continue
		}
		s.screen.SetContent(col, row, lineRune, nil, style)
	}
}

func (s *Surface) inside(col, row int) bool {
	return col >= 0 && col < s.cols && row >= 0 && row < s.rows
}

// style blends c over the background by its alpha times gain.
func (s *Surface) style(c color.Color, gain float64) tcell.Style {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	a := math.Min(1, float64(n.A)/255*gain)
	fg := s.bg.BlendRgb(colorful.Color{R: float64(n.R) / 255, G: float64(n.G) / 255, B: float64(n.B) / 255}, a)
	return tcell.StyleDefault.Foreground(s.tcellColor(fg)).Background(s.tcellColor(s.bg))
}

func (s *Surface) tcellColor(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
