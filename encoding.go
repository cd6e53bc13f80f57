package thjson

import (
	"github.com/puppygames/thjson/internal/escape"

	"go4.org/mem"
)

// Quote encodes src as the body of a THJSON quoted string, escaping
// characters that require it. It does not add the surrounding quotes.
func Quote(src string) string { return escape.Quote(src) }

// Unquote decodes the body of a quoted or triple-quoted THJSON string
// (delimiters already stripped by the caller).
func Unquote(body []byte) ([]byte, error) { return escape.Unquote(mem.B(body)) }
