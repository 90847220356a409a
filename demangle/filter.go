package demangle

import (
	"bufio"
	"errors"
	"io"
	"regexp"
	"strings"

	"github.com/skdltmxn/symdemangle/zenc"
)

// tokenPattern matches candidate Z-encoded specs and Itanium names embedded
// in text. Both allow the '$' and '.' of Rust legacy names, which may also
// appear verbatim in an unescaped Z function segment, but never end on a
// '.', so sentence punctuation stays outside the token.
var tokenPattern = regexp.MustCompile(`\b(?:` + zenc.Prefix + `|` + itaniumPrefix + `)[A-Za-z0-9_$.]*[A-Za-z0-9_$]`)

// Filter replaces every mangled token in text with its demangled form, with
// all layers enabled. A reserved library prefix is returned as an error when
// the Demangler is fatal about it, and logged otherwise.
func (d *Demangler) Filter(text string) (string, error) {
	var firstErr error
	out := tokenPattern.ReplaceAllStringFunc(text, func(token string) string {
		if firstErr != nil {
			return token
		}
		if strings.HasPrefix(token, zenc.Prefix) && !zenc.IsZSpec(token) {
			return token
		}
		name, err := d.Resolve(true, true, token)
		if err != nil {
			if d.fatalReserved {
				firstErr = err
				return token
			}
			d.logReserved(token, err)
		}
		return name
	})
	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}

// FilterLines copies r to w line by line, demangling every token. Line
// endings are written back exactly as read.
func (d *Demangler) FilterLines(w io.Writer, r io.Reader) error {
	br := bufio.NewReader(r)
	for {
		line, readErr := br.ReadString('\n')
		if line != "" {
			filtered, err := d.Filter(line)
			if err != nil {
				return err
			}
			if _, err := io.WriteString(w, filtered); err != nil {
				return err
			}
		}
		if errors.Is(readErr, io.EOF) {
			return nil
		}
		if readErr != nil {
			return readErr
		}
	}
}
