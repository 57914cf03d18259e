//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package embeditor

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// TTY is the process's controlling terminal in raw mode. Close restores
// the mode it was in before OpenTTY.
type TTY struct {
	in, out   *os.File
	fd        int
	orig      unix.Termios
	dec       *KeyDecoder
	winch     chan os.Signal
	sigs      chan os.Signal
	closeOnce sync.Once
}

// fdReader reads straight from a file descriptor. A read that times out
// in raw mode returns 0, nil rather than io.EOF.
type fdReader int

func (r fdReader) Read(p []byte) (int, error) {
	n, err := unix.Read(int(r), p)
	if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EINTR) {
		return 0, nil
	}
	if n < 0 {
		n = 0
	}
	return n, err
}

// OpenTTY switches standard input to raw mode and the screen to the
// alternate buffer. SIGINT and SIGTERM restore the terminal before the
// process exits.
func OpenTTY() (*TTY, error) {
	t := &TTY{in: os.Stdin, out: os.Stdout, fd: int(os.Stdin.Fd())}
	if !term.IsTerminal(t.fd) {
		return nil, ErrNotTerminal
	}
	orig, err := unix.IoctlGetTermios(t.fd, ioctlReadTermios)
	if err != nil {
		return nil, fmt.Errorf("get termios: %w", err)
	}
	t.orig = *orig

	raw := *orig
	// Input modes
	raw.Iflag &^= unix.BRKINT | unix.ICRNL | unix.INPCK | unix.ISTRIP | unix.IXON
	// Output modes
	raw.Oflag &^= unix.OPOST
	// Control modes
	raw.Cflag |= unix.CS8
	// Local modes
	raw.Lflag &^= unix.ECHO | unix.ICANON | unix.IEXTEN | unix.ISIG
	// Return from read after a tenth of a second even without input
	raw.Cc[unix.VMIN] = 0
	raw.Cc[unix.VTIME] = 1

	if err := unix.IoctlSetTermios(t.fd, ioctlWriteTermios, &raw); err != nil {
		return nil, fmt.Errorf("set termios: %w", err)
	}
	t.dec = NewKeyDecoder(fdReader(t.fd))

	// Switch to alternate screen buffer
	t.out.WriteString("\x1b[?1049h")

	t.winch = make(chan os.Signal, 1)
	signal.Notify(t.winch, unix.SIGWINCH)
	t.sigs = make(chan os.Signal, 1)
	signal.Notify(t.sigs, unix.SIGTERM, unix.SIGINT, unix.SIGHUP)
	go func() {
		if _, ok := <-t.sigs; ok {
			t.Close()
			os.Exit(1)
		}
	}()
	return t, nil
}

// Close leaves the alternate screen and restores the original terminal
// mode. It is safe to call more than once.
func (t *TTY) Close() error {
	var err error
	t.closeOnce.Do(func() {
		signal.Stop(t.winch)
		signal.Stop(t.sigs)
		close(t.sigs)
		t.out.WriteString("\x1b[?1049l")
		err = unix.IoctlSetTermios(t.fd, ioctlWriteTermios, &t.orig)
	})
	return err
}

// ReadKey blocks until a key is pressed. A window size change is reported
// as KeyResize.
func (t *TTY) ReadKey() (Key, error) {
	for {
		select {
		case <-t.winch:
			return KeyResize, nil
		default:
		}
		k, ok, err := t.dec.Next()
		if err != nil {
			return 0, err
		}
		if ok {
			return k, nil
		}
	}
}

// Write sends p to the terminal in one call.
func (t *TTY) Write(p []byte) (int, error) {
	return t.out.Write(p)
}

// Size returns the window size. When the ioctl is unavailable the cursor
// is moved to the bottom-right corner and its position is queried.
func (t *TTY) Size() (rows, cols int, err error) {
	ws, err := unix.IoctlGetWinsize(int(t.out.Fd()), unix.TIOCGWINSZ)
	if err == nil && ws.Col != 0 {
		return int(ws.Row), int(ws.Col), nil
	}
	if _, err := t.out.WriteString("\x1b[999C\x1b[999B"); err != nil {
		return 0, 0, err
	}
	return t.cursorPosition()
}

func (t *TTY) cursorPosition() (rows, cols int, err error) {
	if _, err := t.out.WriteString("\x1b[6n"); err != nil {
		return 0, 0, err
	}
	var buf [32]byte
	r := fdReader(t.fd)
	i := 0
	for i < len(buf)-1 {
		n, _ := r.Read(buf[i : i+1])
		if n != 1 || buf[i] == 'R' {
			break
		}
		i++
	}
	if i < 2 || buf[0] != byte(KeyEscape) || buf[1] != '[' {
		return 0, 0, errors.New("failed to parse cursor position")
	}
	if _, err := fmt.Sscanf(string(buf[2:i]), "%d;%d", &rows, &cols); err != nil {
		return 0, 0, fmt.Errorf("failed to parse cursor position: %w", err)
	}
	return rows, cols, nil
}
