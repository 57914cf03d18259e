package embeditor

import (
	"slices"
	"strings"
)

// search is the state of one incremental search session.
type search struct {
	lastMatch   int // row of the last match, or -1
	direction   int // 1 forward, -1 backward
	savedHLLine int
	savedHL     []Highlight
}

func newSearch() *search {
	return &search{lastMatch: -1, direction: 1}
}

// restore puts back the highlighting that the last match overlaid.
func (s *search) restore(b *Buffer) {
	if s.savedHL == nil {
		return
	}
	if s.savedHLLine < b.Len() {
		copy(b.rows[s.savedHLLine].hl, s.savedHL)
	}
	s.savedHL = nil
}

// overlay marks n rendered characters of row at, starting at off, as a
// match, saving what was there before.
func (s *search) overlay(b *Buffer, at, off, n int) {
	row := &b.rows[at]
	s.savedHLLine = at
	s.savedHL = slices.Clone(row.hl)
	end := min(off+n, len(row.hl))
	fill(row.hl[off:end], hlMatch)
}

// Find scans the rows for query, starting one step from `from` in
// direction dir and wrapping around, visiting each row at most once. It
// returns the row and the offset of the match in the rendered text, or
// -1, -1 when nothing matches.
func (b *Buffer) Find(query string, from, dir int) (at, off int) {
	current := from
	for range b.rows {
		current += dir
		if current < 0 {
			current = len(b.rows) - 1
		} else if current >= len(b.rows) {
			current = 0
		}
		if i := strings.Index(b.rows[current].render, query); i >= 0 {
			return current, i
		}
	}
	return -1, -1
}

// findStep runs after every keystroke of the search prompt.
func (e *Editor) findStep(s *search, query string, k Key) {
	s.restore(e.buf)

	switch k {
	case KeyEnter, KeyEscape:
		s.lastMatch = -1
		s.direction = 1
		return
	case KeyArrowRight, KeyArrowDown:
		s.direction = 1
	case KeyArrowLeft, KeyArrowUp:
		s.direction = -1
	default:
		s.lastMatch = -1
		s.direction = 1
	}

	if s.lastMatch == -1 {
		s.direction = 1
	}
	if query == "" {
		return
	}

	at, off := e.buf.Find(query, s.lastMatch, s.direction)
	if at < 0 {
		return
	}
	s.lastMatch = at
	e.cy = at
	e.cx = RxToCx(e.buf.rows[at].chars, off, e.buf.tabStop)
	// Scroll so that the match ends up on the top line.
	e.rowOffset = e.buf.Len()
	s.overlay(e.buf, at, off, len(query))
}

// find runs the incremental search prompt. Escape returns the cursor to
// where it was; Enter leaves it on the match.
func (e *Editor) find() error {
	savedCx, savedCy := e.cx, e.cy
	savedColOffset, savedRowOffset := e.colOffset, e.rowOffset

	s := newSearch()
	defer s.restore(e.buf)

	query, err := e.prompt("Search: %s (Use ESC/Arrows/Enter)", func(query string, k Key) {
		e.findStep(s, query, k)
	})
	if err != nil {
		return err
	}
	if query == "" {
		e.cx, e.cy = savedCx, savedCy
		e.colOffset, e.rowOffset = savedColOffset, savedRowOffset
	}
	return nil
}
