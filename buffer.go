package embeditor

import "slices"

// DefaultTabStop is the tab stop used when none is configured.
const DefaultTabStop = 8

// Row is a single line of the file being edited.
type Row struct {
	idx           int
	chars         string
	render        string
	hl            []Highlight
	hlOpenComment bool // inside a multi-line comment at end of row
}

// Buffer holds the rows of a file and every operation that edits them.
// Rows are addressed by index; each row's idx always equals its position.
type Buffer struct {
	rows    []Row
	dirty   int
	syntax  *Syntax
	tabStop int
}

// NewBuffer returns an empty buffer. A tabStop below 1 selects DefaultTabStop.
func NewBuffer(tabStop int) *Buffer {
	if tabStop < 1 {
		tabStop = DefaultTabStop
	}
	return &Buffer{tabStop: tabStop}
}

// Len returns the number of rows.
func (b *Buffer) Len() int { return len(b.rows) }

// TabStop returns the configured tab stop.
func (b *Buffer) TabStop() int { return b.tabStop }

// Dirty returns the number of edits made since the buffer was last marked
// clean. Zero means there are no unsaved changes.
func (b *Buffer) Dirty() int { return b.dirty }

// MarkClean resets the dirty counter, after a load or a successful save.
func (b *Buffer) MarkClean() { b.dirty = 0 }

// Reset removes every row and marks the buffer clean.
func (b *Buffer) Reset() {
	b.rows = nil
	b.dirty = 0
}

// Chars returns the raw text of row at, or "" when at is out of range.
func (b *Buffer) Chars(at int) string {
	if at < 0 || at >= len(b.rows) {
		return ""
	}
	return b.rows[at].chars
}

// Render returns the tab-expanded text of row at.
func (b *Buffer) Render(at int) string {
	if at < 0 || at >= len(b.rows) {
		return ""
	}
	return b.rows[at].render
}

// Lines returns the raw text of every row, in order.
func (b *Buffer) Lines() []string {
	lines := make([]string, len(b.rows))
	for i := range b.rows {
		lines[i] = b.rows[i].chars
	}
	return lines
}

// updateRow recomputes the rendered text and the highlighting of row at.
func (b *Buffer) updateRow(at int) {
	row := &b.rows[at]
	row.render = expandTabs(row.chars, b.tabStop)
	b.updateSyntax(at)
}

// InsertRow inserts a row holding s at position at, where 0 <= at <= Len.
// Other positions are ignored.
func (b *Buffer) InsertRow(at int, s string) {
	if at < 0 || at > len(b.rows) {
		return
	}
	row := Row{idx: at, chars: s}
	// Start from the state the following row currently inherits, so a
	// change caused by the new row reaches it.
	if at > 0 {
		row.hlOpenComment = b.rows[at-1].hlOpenComment
	}
	b.rows = slices.Insert(b.rows, at, row)
	for j := at + 1; j < len(b.rows); j++ {
		b.rows[j].idx = j
	}
	b.updateRow(at)
	b.dirty++
}

// DeleteRow removes the row at position at. Out of range positions are
// ignored.
func (b *Buffer) DeleteRow(at int) {
	if at < 0 || at >= len(b.rows) {
		return
	}
	b.rows = slices.Delete(b.rows, at, at+1)
	for j := at; j < len(b.rows); j++ {
		b.rows[j].idx = j
	}
	if at < len(b.rows) {
		b.updateSyntax(at)
	}
	b.dirty++
}

// InsertChar inserts c into row at before column col. A column past the
// end of the row appends.
func (b *Buffer) InsertChar(at, col int, c byte) {
	if at < 0 || at >= len(b.rows) {
		return
	}
	row := &b.rows[at]
	if col < 0 || col > len(row.chars) {
		col = len(row.chars)
	}
	row.chars = row.chars[:col] + string([]byte{c}) + row.chars[col:]
	b.updateRow(at)
	b.dirty++
}

// DeleteChar removes the character at column col of row at.
func (b *Buffer) DeleteChar(at, col int) {
	if at < 0 || at >= len(b.rows) {
		return
	}
	row := &b.rows[at]
	if col < 0 || col >= len(row.chars) {
		return
	}
	row.chars = row.chars[:col] + row.chars[col+1:]
	b.updateRow(at)
	b.dirty++
}

// AppendText appends s to the end of row at.
func (b *Buffer) AppendText(at int, s string) {
	if at < 0 || at >= len(b.rows) {
		return
	}
	b.rows[at].chars += s
	b.updateRow(at)
	b.dirty++
}

// SplitRow breaks row at in two before column col. At column 0 an empty
// row is inserted above instead, which also works on the row past the end.
func (b *Buffer) SplitRow(at, col int) {
	if col <= 0 || at >= len(b.rows) {
		b.InsertRow(at, "")
		return
	}
	if at < 0 {
		return
	}
	chars := b.rows[at].chars
	if col > len(chars) {
		col = len(chars)
	}
	b.InsertRow(at+1, chars[col:])
	b.rows[at].chars = chars[:col]
	b.updateRow(at)
}

// JoinWithPrevious appends row at to the row above it and removes it. It
// returns the former length of the row above, which is where the cursor
// belongs afterwards. ok is false when there is no row above.
func (b *Buffer) JoinWithPrevious(at int) (col int, ok bool) {
	if at <= 0 || at >= len(b.rows) {
		return 0, false
	}
	col = len(b.rows[at-1].chars)
	b.AppendText(at-1, b.rows[at].chars)
	b.DeleteRow(at)
	return col, true
}
