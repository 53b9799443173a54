// Package hexcolor converts between hex color strings and RGBA values.
//
// Accepted input forms are RGB (3 digits, each expanded x17), RRGGBB
// (opaque) and AARRGGBB (leading alpha). Anything else decodes to Fallback.
package hexcolor

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// RGBA is an 8-bit per channel color.
type RGBA struct {
	R, G, B, A uint8
}

// Fallback is returned for malformed input: near-white, near-opaque.
var Fallback = RGBA{R: 254, G: 254, B: 254, A: 250}

// White is the fully opaque white produced by "FFF" and "FFFFFF".
var White = RGBA{R: 255, G: 255, B: 255, A: 255}

// Parse decodes s. Non-alphanumeric characters (such as a leading '#') are
// stripped before the length is inspected.
func Parse(s string) RGBA {
	c, ok := decode(s)
	if !ok {
		return Fallback
	}
	return c
}

// Valid reports whether s is a well-formed 3, 6 or 8 digit hex color.
func Valid(s string) bool {
	_, ok := decode(s)
	return ok
}

func decode(s string) (RGBA, bool) {
	hex := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGBA{}, false
	}
	switch len(hex) {
	case 3:
		return RGBA{
			R: uint8(v>>8) * 17,
			G: uint8(v>>4&0xF) * 17,
			B: uint8(v&0xF) * 17,
			A: 255,
		}, true
	case 6:
		return RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, true
	case 8:
		return RGBA{A: uint8(v >> 24), R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, true
	default:
		return RGBA{}, false
	}
}

// Hex returns the 6-digit uppercase RGB form. Alpha is dropped.
func (c RGBA) Hex() string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

// HexAlpha returns the 8-digit AARRGGBB form.
func (c RGBA) HexAlpha() string {
	return fmt.Sprintf("%02X%02X%02X%02X", c.A, c.R, c.G, c.B)
}

// Normalize parses s and returns its canonical 6-digit form.
func Normalize(s string) string {
	return Parse(s).Hex()
}
