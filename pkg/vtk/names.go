package vtk

import (
	"fmt"
	"strconv"
	"strings"
)

// encodeName escapes the bytes a whitespace separated header cannot
// carry as %XX, the way VTK writes array names.
func encodeName(name string) string {
	if name == "" {
		return "%00"
	}
	var b strings.Builder
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c <= ' ' || c > '~' || c == '%' {
			fmt.Fprintf(&b, "%%%02X", c)
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// decodeName reverses encodeName. Malformed escapes are kept as they
// are.
func decodeName(tok string) string {
	if tok == "%00" {
		return ""
	}
	if !strings.Contains(tok, "%") {
		return tok
	}
	var b strings.Builder
	for i := 0; i < len(tok); i++ {
		if tok[i] == '%' && i+2 < len(tok) {
			if v, err := strconv.ParseUint(tok[i+1:i+3], 16, 8); err == nil {
				b.WriteByte(byte(v))
				i += 2
				continue
			}
		}
		b.WriteByte(tok[i])
	}
	return b.String()
}
