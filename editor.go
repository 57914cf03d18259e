// Package embeditor is a small terminal text editor in the spirit of
// antirez's kilo. It keeps the file as a list of rows, highlights them with
// a per-language state machine and redraws the screen by emitting VT100
// escape sequences directly.
package embeditor

import (
	"errors"
	"fmt"
	"io"
	"log"
	"time"
)

const Version = "0.0.1"

const (
	quitTimes            = 3
	statusMessageTimeout = 5 * time.Second
)

// ErrQuit is returned by processKeypress when the user asked to quit.
var ErrQuit = errors.New("quit editor")

// Editor holds the complete state of one editing session.
type Editor struct {
	cx, cy     int // cursor position in the file
	rx         int // cursor column in rendered text
	rowOffset  int
	colOffset  int
	screenRows int
	screenCols int
	buf        *Buffer
	filename   string
	statusmsg  string
	statustime time.Time
	quitTimes  int

	tabStop int
	term    Terminal
	store   Store
	log     *log.Logger
	now     func() time.Time
}

// Option configures an Editor.
type Option func(*Editor)

// WithTabStop sets the number of columns a tab advances to.
func WithTabStop(n int) Option {
	return func(e *Editor) { e.tabStop = n }
}

// WithStore sets where files are loaded from and saved to.
func WithStore(s Store) Option {
	return func(e *Editor) { e.store = s }
}

// WithLogger sets the debug logger. Logging is off by default.
func WithLogger(l *log.Logger) Option {
	return func(e *Editor) { e.log = l }
}

// WithClock replaces time.Now, which decides when status messages expire.
func WithClock(now func() time.Time) Option {
	return func(e *Editor) { e.now = now }
}

// New creates an editor drawing on t and reads the window size.
func New(t Terminal, opts ...Option) (*Editor, error) {
	e := &Editor{
		quitTimes: quitTimes,
		tabStop:   DefaultTabStop,
		term:      t,
		store:     FileStore{},
		log:       log.New(io.Discard, "", 0),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.buf = NewBuffer(e.tabStop)
	if err := e.updateWindowSize(); err != nil {
		return nil, fmt.Errorf("window size: %w", err)
	}
	return e, nil
}

// Buffer returns the rows being edited.
func (e *Editor) Buffer() *Buffer { return e.buf }

// Filename returns the name of the file being edited.
func (e *Editor) Filename() string { return e.filename }

// FileWasModified returns true if the file has unsaved changes.
func (e *Editor) FileWasModified() bool {
	return e.buf.Dirty() > 0
}

func (e *Editor) updateWindowSize() error {
	rows, cols, err := e.term.Size()
	if err != nil {
		return err
	}
	e.screenRows = max(rows-2, 1) // room for the status and message bars
	e.screenCols = max(cols, 1)
	return nil
}

func (e *Editor) handleResize() {
	if err := e.updateWindowSize(); err != nil {
		e.log.Printf("resize: %v", err)
		return
	}
	e.log.Printf("resized to %dx%d", e.screenCols, e.screenRows)
}

// SelectSyntaxHighlight picks the highlighting scheme for filename and
// highlights every row with it.
func (e *Editor) SelectSyntaxHighlight(filename string) {
	s := syntaxFor(filename)
	if s != nil {
		e.log.Printf("syntax %s for %s", s.Filetype, filename)
	}
	e.buf.SetSyntax(s)
}

// SetStatusMessage sets the message shown below the status bar.
func (e *Editor) SetStatusMessage(format string, a ...any) {
	e.statusmsg = fmt.Sprintf(format, a...)
	e.statustime = e.now()
}

// ---------- File I/O ----------

// Open loads filename into the editor. A file that does not exist yet
// gives an empty buffer that will be created on save. Other errors are
// also shown in the status bar.
func (e *Editor) Open(filename string) error {
	e.filename = filename
	e.cx, e.cy, e.rowOffset, e.colOffset = 0, 0, 0, 0
	e.buf.Reset()
	e.SelectSyntaxHighlight(filename)

	lines, err := e.store.Load(filename)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			e.log.Printf("open %s: new file", filename)
			return nil
		}
		e.log.Printf("open %s: %v", filename, err)
		e.SetStatusMessage("Can't open file: %v", err)
		return err
	}
	for _, line := range lines {
		e.buf.InsertRow(e.buf.Len(), line)
	}
	e.buf.MarkClean()
	e.log.Printf("open %s: %d lines", filename, len(lines))
	return nil
}

// save writes the buffer out, asking for a file name first if there is
// none. Write failures end up in the status bar; only terminal errors are
// returned.
func (e *Editor) save() error {
	if e.filename == "" {
		name, err := e.prompt("Save as: %s (ESC to cancel)", nil)
		if err != nil {
			return err
		}
		if name == "" {
			e.SetStatusMessage("Save aborted")
			return nil
		}
		e.filename = name
		e.SelectSyntaxHighlight(name)
	}

	n, err := e.store.Save(e.filename, e.buf.Lines())
	if err != nil {
		e.log.Printf("save %s: %v", e.filename, err)
		e.SetStatusMessage("Can't save! I/O error: %v [%d bytes saved]", err, n)
		return nil
	}
	e.buf.MarkClean()
	e.log.Printf("save %s: %d bytes", e.filename, n)
	e.SetStatusMessage("%d bytes written to disk", n)
	return nil
}

// ---------- Editor operations ----------

func (e *Editor) insertChar(c byte) {
	if e.cy == e.buf.Len() {
		e.buf.InsertRow(e.buf.Len(), "")
	}
	e.buf.InsertChar(e.cy, e.cx, c)
	e.cx++
}

func (e *Editor) insertNewline() {
	e.buf.SplitRow(e.cy, e.cx)
	e.cy++
	e.cx = 0
}

func (e *Editor) delChar() {
	if e.cy == e.buf.Len() {
		return
	}
	if e.cx == 0 && e.cy == 0 {
		return
	}
	if e.cx > 0 {
		e.buf.DeleteChar(e.cy, e.cx-1)
		e.cx--
		return
	}
	if col, ok := e.buf.JoinWithPrevious(e.cy); ok {
		e.cy--
		e.cx = col
	}
}

// ---------- Cursor movement ----------

func (e *Editor) rowLen(at int) int {
	return len(e.buf.Chars(at))
}

func (e *Editor) moveCursor(k Key) {
	numRows := e.buf.Len()
	validRow := e.cy < numRows

	switch k {
	case KeyArrowLeft:
		if e.cx != 0 {
			e.cx--
		} else if e.cy > 0 {
			e.cy--
			e.cx = e.rowLen(e.cy)
		}
	case KeyArrowRight:
		if validRow && e.cx < e.rowLen(e.cy) {
			e.cx++
		} else if validRow && e.cx == e.rowLen(e.cy) {
			e.cy++
			e.cx = 0
		}
	case KeyArrowUp:
		if e.cy != 0 {
			e.cy--
		}
	case KeyArrowDown:
		if e.cy < numRows {
			e.cy++
		}
	}

	// Fix cx if the new row is shorter
	if rowlen := e.rowLen(e.cy); e.cx > rowlen {
		e.cx = rowlen
	}
}

func (e *Editor) movePage(k Key) {
	dir := KeyArrowDown
	if k == KeyPageUp {
		e.cy = e.rowOffset
		dir = KeyArrowUp
	} else {
		e.cy = min(e.rowOffset+e.screenRows-1, e.buf.Len())
	}
	for range e.screenRows {
		e.moveCursor(dir)
	}
}

// ---------- Prompt ----------

// prompt shows format in the message bar, with %s replaced by the input
// typed so far, until Enter accepts a non-empty input or Escape cancels.
// callback, if not nil, runs after every key with the current input.
func (e *Editor) prompt(format string, callback func(input string, k Key)) (string, error) {
	var input []byte
	for {
		e.SetStatusMessage(format, input)
		if err := e.refreshScreen(); err != nil {
			return "", err
		}

		k, err := e.term.ReadKey()
		if err != nil {
			return "", err
		}
		switch {
		case k == KeyResize:
			e.handleResize()
			continue
		case k == KeyDelete || k == ctrlH || k == KeyBackspace:
			if len(input) > 0 {
				input = input[:len(input)-1]
			}
		case k == KeyEscape:
			e.SetStatusMessage("")
			if callback != nil {
				callback(string(input), k)
			}
			return "", nil
		case k == KeyEnter:
			if len(input) > 0 {
				e.SetStatusMessage("")
				if callback != nil {
					callback(string(input), k)
				}
				return string(input), nil
			}
		case k >= 32 && k < 127:
			input = append(input, byte(k))
		}
		if callback != nil {
			callback(string(input), k)
		}
	}
}

// ---------- Event processing ----------

// processKeypress applies one key. It returns ErrQuit when the editor
// should exit, or an error from the terminal.
func (e *Editor) processKeypress(k Key) error {
	if k == KeyResize {
		e.handleResize()
		return nil
	}

	switch k {
	case KeyEnter:
		e.insertNewline()
	case ctrlC, ctrlD, ctrlL, KeyEscape:
		// Nothing
	case ctrlQ:
		if e.buf.Dirty() > 0 && e.quitTimes > 0 {
			e.SetStatusMessage("WARNING!!! File has unsaved changes. Press Ctrl-Q %d more times to quit.", e.quitTimes)
			e.quitTimes--
			return nil
		}
		return ErrQuit
	case ctrlS:
		if err := e.save(); err != nil {
			return err
		}
	case ctrlF:
		if err := e.find(); err != nil {
			return err
		}
	case ctrlA, KeyHome:
		e.cx = 0
	case ctrlE, KeyEnd:
		if e.cy < e.buf.Len() {
			e.cx = e.rowLen(e.cy)
		}
	case KeyBackspace, ctrlH:
		e.delChar()
	case KeyDelete:
		e.moveCursor(KeyArrowRight)
		e.delChar()
	case KeyPageUp, KeyPageDown:
		e.movePage(k)
	case KeyArrowUp, KeyArrowDown, KeyArrowLeft, KeyArrowRight:
		e.moveCursor(k)
	default:
		if k >= 0 && k < 256 {
			e.insertChar(byte(k))
		}
	}
	e.quitTimes = quitTimes
	return nil
}

// Run draws the screen and processes keys until the user quits. The
// caller owns the terminal mode.
func (e *Editor) Run() error {
	if e.statusmsg == "" {
		e.SetStatusMessage("HELP: Ctrl-S = save | Ctrl-Q = quit | Ctrl-F = find")
	}
	for {
		if err := e.refreshScreen(); err != nil {
			return err
		}
		k, err := e.term.ReadKey()
		if err != nil {
			return fmt.Errorf("read key: %w", err)
		}
		if err := e.processKeypress(k); err != nil {
			if errors.Is(err, ErrQuit) {
				e.log.Printf("quit")
				_, err := e.term.Write([]byte("\x1b[2J\x1b[H"))
				return err
			}
			return err
		}
	}
}
