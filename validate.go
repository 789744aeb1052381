package mdtree

import (
	"errors"
	"unicode/utf8"
)

var (
	// ErrInvalidUTF8 reports invalid UTF-8 input.
	ErrInvalidUTF8 = errors.New("invalid utf-8 input")
	// ErrBinaryInput reports input that appears to be binary.
	ErrBinaryInput = errors.New("binary input detected")
)

const (
	minBinarySample = 64
	maxControlPct   = 2
)

// ValidateInput returns an error if the input is not valid UTF-8 or appears
// binary: it contains NUL, or at least maxControlPct percent of a sample of
// minBinarySample or more bytes are control characters.
func ValidateInput(src []byte) error {
	if !utf8.Valid(src) {
		return ErrInvalidUTF8
	}
	control := 0
	for _, r := range string(src) {
		if r == 0 {
			return ErrBinaryInput
		}
		if isControlRune(r) {
			control++
		}
	}
	if len(src) >= minBinarySample && control*100 >= len(src)*maxControlPct {
		return ErrBinaryInput
	}
	return nil
}

func isControlRune(r rune) bool {
	if r == '\n' || r == '\r' || r == '\t' {
		return false
	}
	return r < 0x20 || r == 0x7F
}

// sanitize drops invalid UTF-8 and control characters other than tab, CR and
// LF.
func sanitize(src []byte) []byte {
	var dst []byte
	for i := 0; i < len(src); {
		r, size := utf8.DecodeRune(src[i:])
		if (r == utf8.RuneError && size == 1) || isControlRune(r) {
			if dst == nil {
				dst = append(make([]byte, 0, len(src)), src[:i]...)
			}
			i += size
			continue
		}
		if dst != nil {
			dst = append(dst, src[i:i+size]...)
		}
		i += size
	}
	if dst == nil {
		return src
	}
	return dst
}
