package embeditor

import (
	"bytes"
	"fmt"

	"github.com/mattn/go-runewidth"
)

// scroll computes rx and moves the view so that the cursor is visible.
func (e *Editor) scroll() {
	e.rx = 0
	if e.cy < e.buf.Len() {
		e.rx = CxToRx(e.buf.rows[e.cy].chars, e.cx, e.buf.tabStop)
	}

	if e.cy < e.rowOffset {
		e.rowOffset = e.cy
	}
	if e.cy >= e.rowOffset+e.screenRows {
		e.rowOffset = e.cy - e.screenRows + 1
	}
	if e.rx < e.colOffset {
		e.colOffset = e.rx
	}
	if e.rx >= e.colOffset+e.screenCols {
		e.colOffset = e.rx - e.screenCols + 1
	}
}

// frame composes the whole screen into one buffer of escape sequences.
func (e *Editor) frame() []byte {
	e.scroll()

	var ab bytes.Buffer
	ab.WriteString("\x1b[?25l") // Hide cursor
	ab.WriteString("\x1b[H")    // Go home

	e.drawRows(&ab)
	e.drawStatusBar(&ab)
	e.drawMessageBar(&ab)

	fmt.Fprintf(&ab, "\x1b[%d;%dH", e.cy-e.rowOffset+1, e.rx-e.colOffset+1)
	ab.WriteString("\x1b[?25h") // Show cursor
	return ab.Bytes()
}

func (e *Editor) refreshScreen() error {
	_, err := e.term.Write(e.frame())
	return err
}

func (e *Editor) drawRows(ab *bytes.Buffer) {
	numRows := e.buf.Len()
	for y := 0; y < e.screenRows; y++ {
		filerow := y + e.rowOffset
		if filerow >= numRows {
			if numRows == 0 && y == e.screenRows/3 {
				e.drawWelcome(ab)
			} else {
				ab.WriteByte('~')
			}
		} else {
			e.drawRow(ab, &e.buf.rows[filerow])
		}
		ab.WriteString("\x1b[K")
		ab.WriteString("\r\n")
	}
}

func (e *Editor) drawWelcome(ab *bytes.Buffer) {
	welcome := fmt.Sprintf("Embeditor -- version %s", Version)
	if len(welcome) > e.screenCols {
		welcome = welcome[:e.screenCols]
	}
	padding := (e.screenCols - len(welcome)) / 2
	if padding > 0 {
		ab.WriteByte('~')
		padding--
	}
	for ; padding > 0; padding-- {
		ab.WriteByte(' ')
	}
	ab.WriteString(welcome)
}

// drawRow writes the visible part of row, changing color only where the
// highlight changes.
func (e *Editor) drawRow(ab *bytes.Buffer, row *Row) {
	n := len(row.render) - e.colOffset
	if n < 0 {
		n = 0
	}
	if n > e.screenCols {
		n = e.screenCols
	}

	currentColor := -1
	for j := e.colOffset; j < e.colOffset+n; j++ {
		c := row.render[j]
		switch {
		case c < 32 || c == 127:
			sym := byte('?')
			if c <= 26 {
				sym = '@' + c
			}
			ab.WriteString("\x1b[7m")
			ab.WriteByte(sym)
			ab.WriteString("\x1b[m")
			if currentColor != -1 {
				fmt.Fprintf(ab, "\x1b[%dm", currentColor)
			}
		case row.hl[j] == hlNormal:
			if currentColor != -1 {
				ab.WriteString("\x1b[39m")
				currentColor = -1
			}
			ab.WriteByte(c)
		default:
			color := syntaxToColor(row.hl[j])
			if color != currentColor {
				currentColor = color
				fmt.Fprintf(ab, "\x1b[%dm", color)
			}
			ab.WriteByte(c)
		}
	}
	ab.WriteString("\x1b[39m")
}

func (e *Editor) drawStatusBar(ab *bytes.Buffer) {
	ab.WriteString("\x1b[7m")

	name := e.filename
	if name == "" {
		name = "[No Name]"
	}
	modified := ""
	if e.buf.Dirty() > 0 {
		modified = "(modified)"
	}
	filetype := "no ft"
	if s := e.buf.Syntax(); s != nil {
		filetype = s.Filetype
	}
	status := fmt.Sprintf("%.20s - %d lines %s", name, e.buf.Len(), modified)
	rstatus := fmt.Sprintf("%s | %d/%d", filetype, e.cy+1, e.buf.Len())

	status = runewidth.Truncate(status, e.screenCols, "")
	ab.WriteString(status)
	rlen := runewidth.StringWidth(rstatus)
	for n := runewidth.StringWidth(status); n < e.screenCols; n++ {
		if e.screenCols-n == rlen {
			ab.WriteString(rstatus)
			break
		}
		ab.WriteByte(' ')
	}

	ab.WriteString("\x1b[m")
	ab.WriteString("\r\n")
}

func (e *Editor) drawMessageBar(ab *bytes.Buffer) {
	ab.WriteString("\x1b[K")
	if e.statusmsg != "" && e.now().Sub(e.statustime) < statusMessageTimeout {
		ab.WriteString(runewidth.Truncate(e.statusmsg, e.screenCols, ""))
	}
}
