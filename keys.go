package embeditor

import "io"

// Key is a normalized key event. Values below 256 are the byte that was
// read; the special keys live above that range.
type Key int

// Key constants
const (
	ctrlA        Key = 1
	ctrlC        Key = 3
	ctrlD        Key = 4
	ctrlE        Key = 5
	ctrlF        Key = 6
	ctrlH        Key = 8
	KeyTab       Key = 9
	ctrlL        Key = 12
	KeyEnter     Key = 13
	ctrlQ        Key = 17
	ctrlS        Key = 19
	KeyEscape    Key = 27
	KeyBackspace Key = 127
)

const (
	KeyArrowLeft Key = iota + 1000
	KeyArrowRight
	KeyArrowUp
	KeyArrowDown
	KeyDelete
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown

	// KeyResize is delivered when the terminal window changed size.
	KeyResize
)

// CtrlKey returns the key produced by holding Ctrl and pressing c.
func CtrlKey(c byte) Key {
	return Key(c & 0x1f)
}

// KeyDecoder reads the byte stream of a terminal in raw mode and turns
// escape sequences into keys. A Read that returns no data and no error is
// treated as a read timeout.
type KeyDecoder struct {
	r   io.Reader
	buf [1]byte
}

// NewKeyDecoder returns a decoder reading from r.
func NewKeyDecoder(r io.Reader) *KeyDecoder {
	return &KeyDecoder{r: r}
}

func (d *KeyDecoder) readByte() (byte, bool, error) {
	n, err := d.r.Read(d.buf[:])
	if n == 1 {
		return d.buf[0], true, nil
	}
	return 0, false, err
}

// Next decodes one key. ok is false when the read timed out before the
// first byte arrived.
func (d *KeyDecoder) Next() (k Key, ok bool, err error) {
	c, ok, err := d.readByte()
	if !ok {
		return 0, false, err
	}
	if c != byte(KeyEscape) {
		return Key(c), true, nil
	}

	var seq [3]byte
	if seq[0], ok, _ = d.readByte(); !ok {
		return KeyEscape, true, nil
	}
	if seq[1], ok, _ = d.readByte(); !ok {
		return KeyEscape, true, nil
	}

	switch seq[0] {
	case '[':
		if seq[1] >= '0' && seq[1] <= '9' {
			if seq[2], ok, _ = d.readByte(); !ok {
				return KeyEscape, true, nil
			}
			if seq[2] == '~' {
				switch seq[1] {
				case '1', '7':
					return KeyHome, true, nil
				case '3':
					return KeyDelete, true, nil
				case '4', '8':
					return KeyEnd, true, nil
				case '5':
					return KeyPageUp, true, nil
				case '6':
					return KeyPageDown, true, nil
				}
			}
		} else {
			switch seq[1] {
			case 'A':
				return KeyArrowUp, true, nil
			case 'B':
				return KeyArrowDown, true, nil
			case 'C':
				return KeyArrowRight, true, nil
			case 'D':
				return KeyArrowLeft, true, nil
			case 'H':
				return KeyHome, true, nil
			case 'F':
				return KeyEnd, true, nil
			}
		}
	case 'O':
		switch seq[1] {
		case 'H':
			return KeyHome, true, nil
		case 'F':
			return KeyEnd, true, nil
		}
	}
	return KeyEscape, true, nil
}

// ReadKey blocks until a key has been decoded or the reader fails.
func (d *KeyDecoder) ReadKey() (Key, error) {
	for {
		k, ok, err := d.Next()
		if ok {
			return k, nil
		}
		if err != nil {
			return 0, err
		}
	}
}
