package embeditor

import "strings"

// CxToRx converts the raw column cx of chars into the column it is drawn
// at once tabs are expanded to tabStop.
func CxToRx(chars string, cx, tabStop int) int {
	rx := 0
	for j := 0; j < cx && j < len(chars); j++ {
		if chars[j] == '\t' {
			rx += (tabStop - 1) - (rx % tabStop)
		}
		rx++
	}
	return rx
}

// RxToCx is the inverse of CxToRx. A rendered column in the middle of an
// expanded tab maps to the tab itself. Columns past the end of the row map
// to len(chars).
func RxToCx(chars string, rx, tabStop int) int {
	curRx := 0
	for cx := 0; cx < len(chars); cx++ {
		if chars[cx] == '\t' {
			curRx += (tabStop - 1) - (curRx % tabStop)
		}
		curRx++
		if curRx > rx {
			return cx
		}
	}
	return len(chars)
}

// expandTabs replaces each tab with spaces up to the next multiple of tabStop.
func expandTabs(chars string, tabStop int) string {
	if strings.IndexByte(chars, '\t') < 0 {
		return chars
	}
	var b strings.Builder
	b.Grow(len(chars) + tabStop)
	for i := 0; i < len(chars); i++ {
		if chars[i] == '\t' {
			b.WriteByte(' ')
			for b.Len()%tabStop != 0 {
				b.WriteByte(' ')
			}
			continue
		}
		b.WriteByte(chars[i])
	}
	return b.String()
}
