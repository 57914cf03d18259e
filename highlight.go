package embeditor

import (
	"path/filepath"
	"strings"
)

// Highlight classifies one rendered character for coloring.
type Highlight uint8

// Syntax highlight types
const (
	hlNormal Highlight = iota
	hlComment
	hlMLComment
	hlKeyword1
	hlKeyword2
	hlString
	hlNumber
	hlMatch
)

var highlightNames = [...]string{
	hlNormal:    "normal",
	hlComment:   "comment",
	hlMLComment: "mlcomment",
	hlKeyword1:  "keyword1",
	hlKeyword2:  "keyword2",
	hlString:    "string",
	hlNumber:    "number",
	hlMatch:     "match",
}

func (h Highlight) String() string {
	if int(h) < len(highlightNames) {
		return highlightNames[h]
	}
	return "unknown"
}

// Syntax flags
const (
	HighlightNumbers = 1 << 0
	HighlightStrings = 1 << 1
)

// Syntax defines a syntax highlighting scheme.
type Syntax struct {
	Filetype string
	// FileMatch entries starting with a dot match the file extension,
	// others match the base name exactly.
	FileMatch []string
	// Keywords ending in "|" are highlighted as secondary keywords (types).
	Keywords               []string
	SingleLineCommentStart string
	MultiLineCommentStart  string
	MultiLineCommentEnd    string
	Flags                  int
}

// HLDB is the built-in syntax highlight database.
var HLDB = []Syntax{
	{
		Filetype:  "c",
		FileMatch: []string{".c", ".h", ".cpp", ".hpp", ".cc"},
		Keywords: []string{
			// C keywords
			"auto", "break", "case", "continue", "default", "do", "else", "enum",
			"extern", "for", "goto", "if", "register", "return", "sizeof", "static",
			"struct", "switch", "typedef", "union", "volatile", "while", "NULL",
			// C++ keywords
			"alignas", "alignof", "and", "and_eq", "asm", "bitand", "bitor", "class",
			"compl", "constexpr", "const_cast", "decltype", "delete", "dynamic_cast",
			"explicit", "export", "false", "friend", "inline", "mutable", "namespace",
			"new", "noexcept", "not", "not_eq", "nullptr", "operator", "or", "or_eq",
			"private", "protected", "public", "reinterpret_cast", "static_assert",
			"static_cast", "template", "this", "thread_local", "throw", "true", "try",
			"typeid", "typename", "virtual", "xor", "xor_eq",
			// C types
			"int|", "long|", "double|", "float|", "char|", "unsigned|", "signed|",
			"void|", "short|", "const|", "bool|",
		},
		SingleLineCommentStart: "//",
		MultiLineCommentStart:  "/*",
		MultiLineCommentEnd:    "*/",
		Flags:                  HighlightNumbers | HighlightStrings,
	},
	{
		Filetype:  "go",
		FileMatch: []string{".go"},
		Keywords: []string{
			"break", "case", "chan", "const", "continue", "default", "defer",
			"else", "fallthrough", "for", "func", "go", "goto", "if",
			"import", "interface", "map", "package", "range", "return",
			"select", "struct", "switch", "type", "var",
			// Types
			"bool|", "byte|", "complex64|", "complex128|", "error|",
			"float32|", "float64|", "int|", "int8|", "int16|", "int32|",
			"int64|", "rune|", "string|", "uint|", "uint8|", "uint16|",
			"uint32|", "uint64|", "uintptr|", "any|",
			// Constants
			"true|", "false|", "nil|", "iota|",
			// Built-in functions
			"append", "cap", "clear", "close", "copy", "delete", "len", "make",
			"max", "min", "new", "panic", "print", "println", "recover",
		},
		SingleLineCommentStart: "//",
		MultiLineCommentStart:  "/*",
		MultiLineCommentEnd:    "*/",
		Flags:                  HighlightNumbers | HighlightStrings,
	},
	{
		Filetype:  "python",
		FileMatch: []string{".py"},
		Keywords: []string{
			"and", "as", "assert", "async", "await", "break", "class",
			"continue", "def", "del", "elif", "else", "except", "finally",
			"for", "from", "global", "if", "import", "in", "is", "lambda",
			"nonlocal", "not", "or", "pass", "raise", "return", "try",
			"while", "with", "yield",
			// Types / built-ins
			"True|", "False|", "None|",
			"int|", "float|", "str|", "bool|", "list|", "dict|", "set|",
			"tuple|", "bytes|", "type|", "object|", "range|",
			// Built-in functions
			"print", "len", "input", "open", "super", "self",
			"isinstance", "issubclass", "hasattr", "getattr", "setattr",
		},
		SingleLineCommentStart: "#",
		Flags:                  HighlightNumbers | HighlightStrings,
	},
	{
		Filetype:  "make",
		FileMatch: []string{"Makefile", "makefile", "GNUmakefile", ".mk"},
		Keywords: []string{
			"ifeq", "ifneq", "ifdef", "ifndef", "else", "endif", "include",
			"define", "endef", "export", "unexport", "override", "vpath",
			".PHONY|", ".DEFAULT|", ".SUFFIXES|",
		},
		SingleLineCommentStart: "#",
		Flags:                  HighlightStrings,
	},
}

// syntaxFor returns the HLDB entry matching filename, or nil.
func syntaxFor(filename string) *Syntax {
	if filename == "" {
		return nil
	}
	ext := filepath.Ext(filename)
	base := filepath.Base(filename)
	for i := range HLDB {
		s := &HLDB[i]
		for _, pattern := range s.FileMatch {
			if strings.HasPrefix(pattern, ".") {
				if ext == pattern {
					return s
				}
			} else if base == pattern {
				return s
			}
		}
	}
	return nil
}

func isSeparator(c byte) bool {
	return c == 0 || c == ' ' || c == '\t' || c == '\n' || c == '\r' ||
		c == '\v' || c == '\f' || strings.IndexByte(",.()+-/*=~%<>[];", c) >= 0
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// Syntax returns the active highlighting scheme, or nil.
func (b *Buffer) Syntax() *Syntax { return b.syntax }

// SetSyntax switches to s (nil disables highlighting) and highlights every
// row again, top to bottom.
func (b *Buffer) SetSyntax(s *Syntax) {
	b.syntax = s
	for i := range b.rows {
		b.highlightRow(i)
	}
}

// updateSyntax highlights row at and keeps going down the buffer for as
// long as a row's multi-line comment state at its end changes.
func (b *Buffer) updateSyntax(at int) {
	for at < len(b.rows) && b.highlightRow(at) {
		at++
	}
}

// highlightRow recomputes the highlighting of row at from its rendered
// text and the comment state left open by the row above. It reports
// whether the row's own open comment state changed.
func (b *Buffer) highlightRow(at int) bool {
	row := &b.rows[at]
	n := len(row.render)
	if cap(row.hl) >= n {
		row.hl = row.hl[:n]
		clear(row.hl)
	} else {
		row.hl = make([]Highlight, n)
	}

	inComment := false
	s := b.syntax
	if s != nil {
		inComment = b.scanRow(row, at > 0 && b.rows[at-1].hlOpenComment)
	}

	changed := row.hlOpenComment != inComment
	row.hlOpenComment = inComment
	return changed
}

// scanRow tags row.hl and returns whether a multi-line comment is still
// open at the end of the row.
func (b *Buffer) scanRow(row *Row, inComment bool) bool {
	s := b.syntax
	r := row.render
	hl := row.hl
	scs := s.SingleLineCommentStart
	mcs := s.MultiLineCommentStart
	mce := s.MultiLineCommentEnd

	prevSep := true
	var inString byte

	i := 0
	for i < len(r) {
		c := r[i]
		prevHL := hlNormal
		if i > 0 {
			prevHL = hl[i-1]
		}

		if scs != "" && inString == 0 && !inComment && strings.HasPrefix(r[i:], scs) {
			fill(hl[i:], hlComment)
			break
		}

		if mcs != "" && mce != "" && inString == 0 {
			if inComment {
				hl[i] = hlMLComment
				if strings.HasPrefix(r[i:], mce) {
					fill(hl[i:i+len(mce)], hlMLComment)
					i += len(mce)
					inComment = false
					prevSep = true
					continue
				}
				i++
				continue
			}
			if strings.HasPrefix(r[i:], mcs) {
				fill(hl[i:i+len(mcs)], hlMLComment)
				i += len(mcs)
				inComment = true
				continue
			}
		}

		if s.Flags&HighlightStrings != 0 {
			if inString != 0 {
				hl[i] = hlString
				if c == '\\' && i+1 < len(r) {
					hl[i+1] = hlString
					i += 2
					continue
				}
				if c == inString {
					inString = 0
				}
				i++
				prevSep = true
				continue
			}
			if c == '"' || c == '\'' {
				inString = c
				hl[i] = hlString
				i++
				continue
			}
		}

		if s.Flags&HighlightNumbers != 0 {
			if (isDigit(c) && (prevSep || prevHL == hlNumber)) ||
				(c == '.' && prevHL == hlNumber) {
				hl[i] = hlNumber
				i++
				prevSep = false
				continue
			}
		}

		if prevSep {
			if klen, kind := matchKeyword(s.Keywords, r[i:]); klen > 0 {
				fill(hl[i:i+klen], kind)
				i += klen
				prevSep = false
				continue
			}
		}

		prevSep = isSeparator(c)
		i++
	}
	return inComment
}

// matchKeyword returns the length and kind of the first keyword, in list
// order, that starts text and is followed by a separator or the end of text.
func matchKeyword(keywords []string, text string) (int, Highlight) {
	for _, kw := range keywords {
		kind := hlKeyword1
		if strings.HasSuffix(kw, "|") {
			kw = kw[:len(kw)-1]
			kind = hlKeyword2
		}
		if kw == "" || !strings.HasPrefix(text, kw) {
			continue
		}
		var next byte
		if len(kw) < len(text) {
			next = text[len(kw)]
		}
		if isSeparator(next) {
			return len(kw), kind
		}
	}
	return 0, hlNormal
}

func fill(hl []Highlight, h Highlight) {
	for i := range hl {
		hl[i] = h
	}
}

func syntaxToColor(hl Highlight) int {
	switch hl {
	case hlComment, hlMLComment:
		return 36 // cyan
	case hlKeyword1:
		return 33 // yellow
	case hlKeyword2:
		return 32 // green
	case hlString:
		return 35 // magenta
	case hlNumber:
		return 31 // red
	case hlMatch:
		return 34 // blue
	default:
		return 37 // white
	}
}
