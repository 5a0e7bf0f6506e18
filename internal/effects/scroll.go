package effects

// ScrollProgress returns how far the page is scrolled, in [0, 1]. A page that
// fits the viewport reports 0.
func ScrollProgress(scrollY, scrollHeight, viewportHeight float64) float64 {
	scrollable := scrollHeight - viewportHeight
	if scrollable <= 0 {
		return 0
	}
	p := scrollY / scrollable
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}

// Scroller is a virtual page offset moved by wheel input.
type Scroller struct {
	Y          float64
	PageHeight float64
	LineHeight float64 // Offset per wheel notch
}

// NewScroller returns a scroller for a page of the given height.
func NewScroller(pageHeight float64) *Scroller {
	return &Scroller{PageHeight: pageHeight, LineHeight: 40}
}

// Wheel applies a wheel delta; positive deltas scroll up as on the desktop.
func (s *Scroller) Wheel(dy, viewportHeight float64) {
	s.Y -= dy * s.LineHeight
	max := s.PageHeight - viewportHeight
	if max < 0 {
		max = 0
	}
	if s.Y < 0 {
		s.Y = 0
	} else if s.Y > max {
		s.Y = max
	}
}

// Progress returns the scroll fraction for the given viewport height.
func (s *Scroller) Progress(viewportHeight float64) float64 {
	return ScrollProgress(s.Y, s.PageHeight, viewportHeight)
}
