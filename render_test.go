package embeditor

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
)

func TestDrawRowsWelcome(t *testing.T) {
	e, _, _ := newTestEditor(t, nil)
	var ab bytes.Buffer
	e.drawRows(&ab)

	var want strings.Builder
	for y := range 10 {
		if y == 3 {
			want.WriteString("~      Embeditor -- version " + Version)
		} else {
			want.WriteString("~")
		}
		want.WriteString("\x1b[K\r\n")
	}
	if got := ab.String(); got != want.String() {
		t.Errorf("drawRows =\n%q\nwant\n%q", got, want.String())
	}
}

func TestDrawRowsNoWelcomeWithText(t *testing.T) {
	e, _, _ := newTestEditor(t, []string{"hello"})
	var ab bytes.Buffer
	e.drawRows(&ab)
	got := ab.String()
	if strings.Contains(got, "Embeditor") {
		t.Error("welcome shown for a non-empty buffer")
	}
	if want := "hello\x1b[39m\x1b[K\r\n~\x1b[K\r\n"; !strings.HasPrefix(got, want) {
		t.Errorf("drawRows = %q; want prefix %q", got, want)
	}
	if n := strings.Count(got, "\r\n"); n != 10 {
		t.Errorf("drew %d lines; want 10", n)
	}
}

func TestDrawRow(t *testing.T) {
	cSyntax := syntaxFor("x.c")
	testCases := []struct {
		name   string
		syntax *Syntax
		text   string
		want   string
	}{
		{"plain", nil, "hello", "hello\x1b[39m"},
		{"keyword2", cSyntax, "int x", "\x1b[32mint\x1b[39m x\x1b[39m"},
		{"keyword1", cSyntax, "return x", "\x1b[33mreturn\x1b[39m x\x1b[39m"},
		{"one escape per color run", cSyntax, "x = 12;", "x = \x1b[31m12\x1b[39m;\x1b[39m"},
		{"control char", nil, "a\x01b", "a\x1b[7mA\x1b[mb\x1b[39m"},
		{"delete char", nil, "a\x7fb", "a\x1b[7m?\x1b[mb\x1b[39m"},
		{"control char inside color", cSyntax, "\"a\x01\"", "\x1b[35m\"a\x1b[7mA\x1b[m\x1b[35m\"\x1b[39m"},
		{"comment", cSyntax, "x // y", "x \x1b[36m// y\x1b[39m"},
	}
	for _, tc := range testCases {
		e, _, _ := newTestEditor(t, nil)
		e.buf.SetSyntax(tc.syntax)
		e.buf.InsertRow(0, tc.text)
		var ab bytes.Buffer
		e.drawRow(&ab, &e.buf.rows[0])
		if got := ab.String(); got != tc.want {
			t.Errorf("%s: drawRow(%q) = %q; want %q", tc.name, tc.text, got, tc.want)
		}
	}
}

func TestDrawRowClipsHorizontally(t *testing.T) {
	e, _, _ := newTestEditor(t, []string{"abcdefghij"})
	e.screenCols = 4
	testCases := []struct {
		colOffset int
		want      string
	}{
		{0, "abcd"},
		{3, "defg"},
		{8, "ij"},
		{20, ""},
	}
	for _, tc := range testCases {
		e.colOffset = tc.colOffset
		var ab bytes.Buffer
		e.drawRow(&ab, &e.buf.rows[0])
		if got, want := ab.String(), tc.want+"\x1b[39m"; got != want {
			t.Errorf("colOffset %d: drawRow = %q; want %q", tc.colOffset, got, want)
		}
	}
}

func TestDrawStatusBar(t *testing.T) {
	e, _, store := newTestEditor(t, nil)
	store.files["test.c"] = []string{"a", "b"}
	if err := e.Open("test.c"); err != nil {
		t.Fatal(err)
	}
	press(t, e, 'x')

	var ab bytes.Buffer
	e.drawStatusBar(&ab)
	want := "\x1b[7mtest.c - 2 lines (modified)" + strings.Repeat(" ", 6) + "c | 1/2\x1b[m\r\n"
	if got := ab.String(); got != want {
		t.Errorf("drawStatusBar =\n%q\nwant\n%q", got, want)
	}
}

func TestDrawStatusBarNoName(t *testing.T) {
	e, _, _ := newTestEditor(t, nil)
	var ab bytes.Buffer
	e.drawStatusBar(&ab)
	want := "\x1b[7m[No Name] - 0 lines " + strings.Repeat(" ", 9) + "no ft | 1/0\x1b[m\r\n"
	if got := ab.String(); got != want {
		t.Errorf("drawStatusBar =\n%q\nwant\n%q", got, want)
	}
}

func TestDrawStatusBarNarrow(t *testing.T) {
	e, _, _ := newTestEditor(t, nil)
	e.screenCols = 10
	var ab bytes.Buffer
	e.drawStatusBar(&ab)
	if got, want := ab.String(), "\x1b[7m[No Name] \x1b[m\r\n"; got != want {
		t.Errorf("drawStatusBar = %q; want %q", got, want)
	}
}

func TestDrawStatusBarLongName(t *testing.T) {
	e, _, _ := newTestEditor(t, nil)
	e.filename = "abcdefghijklmnopqrstuvwxyz.txt"
	var ab bytes.Buffer
	e.drawStatusBar(&ab)
	if want := "\x1b[7mabcdefghijklmnopqrst - 0 lines "; !strings.HasPrefix(ab.String(), want) {
		t.Errorf("drawStatusBar = %q; want prefix %q", ab.String(), want)
	}
}

func TestFrameCursor(t *testing.T) {
	long := strings.Repeat("a", 50)
	many := make([]string, 30)
	for i := range many {
		many[i] = fmt.Sprintf("line %d", i)
	}
	testCases := []struct {
		name  string
		lines []string
		keys  []Key
		want  string
	}{
		{"origin", nil, nil, "\x1b[1;1H"},
		{"after tab", []string{"\tx"}, []Key{KeyArrowRight}, "\x1b[1;9H"},
		{"horizontal scroll", []string{long}, []Key{KeyEnd}, "\x1b[1;40H"},
		{"vertical scroll", many, []Key{KeyPageDown, KeyPageDown}, "\x1b[10;1H"},
	}
	for _, tc := range testCases {
		e, _, _ := newTestEditor(t, tc.lines)
		press(t, e, tc.keys...)
		frame := string(e.frame())
		if !strings.HasPrefix(frame, "\x1b[?25l\x1b[H") {
			t.Errorf("%s: frame does not start by hiding the cursor: %q", tc.name, frame[:min(len(frame), 12)])
		}
		if want := tc.want + "\x1b[?25h"; !strings.HasSuffix(frame, want) {
			t.Errorf("%s: frame ends with %q; want %q", tc.name, frame[max(len(frame)-len(want), 0):], want)
		}
	}
}

func TestScroll(t *testing.T) {
	many := make([]string, 30)
	for i := range many {
		many[i] = fmt.Sprintf("line %d", i)
	}
	e, _, _ := newTestEditor(t, many)
	e.cy = 25
	e.scroll()
	if e.rowOffset != 16 {
		t.Errorf("rowOffset = %d; want 16", e.rowOffset)
	}
	e.cy = 3
	e.scroll()
	if e.rowOffset != 3 {
		t.Errorf("rowOffset = %d; want 3", e.rowOffset)
	}

	var ab bytes.Buffer
	e.drawRows(&ab)
	if !strings.HasPrefix(ab.String(), "line 3\x1b[39m") {
		t.Errorf("first drawn row = %q", ab.String()[:min(ab.Len(), 20)])
	}
}

func TestRefreshScreenWritesFrame(t *testing.T) {
	e, term, _ := newTestEditor(t, []string{"hello"})
	e.SetStatusMessage("hi there")
	if err := e.refreshScreen(); err != nil {
		t.Fatal(err)
	}
	got := string(term.last)
	if !strings.Contains(got, "hello") || !strings.Contains(got, "\x1b[Khi there") {
		t.Errorf("frame = %q", got)
	}
}
