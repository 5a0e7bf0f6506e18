package effects

import "time"

// Typewriter timings
const (
	TypeDelay   = 80 * time.Millisecond
	DeleteDelay = 30 * time.Millisecond
	HoldDelay   = 2000 * time.Millisecond
	NextDelay   = 500 * time.Millisecond
)

// DefaultPhrases are the hero taglines.
var DefaultPhrases = []string{
	"Full-Stack Developer",
	"Building AI-powered apps",
	"Creating blazingly fast tools",
	"Exploring ML & Web Dev",
}

// Typewriter types a phrase one rune at a time, holds it, erases it, then
// moves on to the next phrase, wrapping around forever.
type Typewriter struct {
	phrases  [][]rune
	index    int
	shown    int
	deleting bool
	acc      time.Duration
}

// NewTypewriter returns a typewriter at the start of the first phrase.
func NewTypewriter(phrases []string) *Typewriter {
	t := &Typewriter{}
	t.SetPhrases(phrases)
	return t
}

// SetPhrases replaces the phrase list and restarts from an empty first phrase.
// An identical list leaves the animation where it is.
func (t *Typewriter) SetPhrases(phrases []string) {
	if t.samePhrases(phrases) {
		return
	}
	t.phrases = make([][]rune, len(phrases))
	for i, p := range phrases {
		t.phrases[i] = []rune(p)
	}
	t.index, t.shown, t.deleting, t.acc = 0, 0, false, 0
}

func (t *Typewriter) samePhrases(phrases []string) bool {
	if len(phrases) != len(t.phrases) {
		return false
	}
	for i, p := range phrases {
		if p != string(t.phrases[i]) {
			return false
		}
	}
	return true
}

// Advance feeds elapsed time in, applying every transition it covers.
func (t *Typewriter) Advance(dt time.Duration) {
	if len(t.phrases) == 0 {
		return
	}
	t.acc += dt
	for {
		wait := t.delay()
		if t.acc < wait {
			return
		}
		t.acc -= wait
		t.step()
	}
}

func (t *Typewriter) delay() time.Duration {
	cur := t.phrases[t.index]
	switch {
	case !t.deleting && t.shown == len(cur):
		return HoldDelay
	case t.deleting && t.shown == 0:
		return NextDelay
	case t.deleting:
		return DeleteDelay
	default:
		return TypeDelay
	}
}

func (t *Typewriter) step() {
	cur := t.phrases[t.index]
	switch {
	case !t.deleting && t.shown == len(cur):
		t.deleting = true
	case t.deleting && t.shown == 0:
		t.deleting = false
		t.index = (t.index + 1) % len(t.phrases)
	case t.deleting:
		t.shown--
	default:
		t.shown++
	}
}

// Text returns what is currently displayed.
func (t *Typewriter) Text() string {
	if len(t.phrases) == 0 {
		return ""
	}
	return string(t.phrases[t.index][:t.shown])
}

// Index returns the phrase being typed or erased.
func (t *Typewriter) Index() int {
	return t.index
}

// Deleting reports whether the current phrase is being erased.
func (t *Typewriter) Deleting() bool {
	return t.deleting
}
