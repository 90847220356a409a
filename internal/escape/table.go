// Package escape implements the single-character escape tables shared by the
// symbol decoders.
//
// A Table maps short codes to the punctuation byte they stand for. The Z
// encoding uses one-letter codes that follow a 'Z'; Rust legacy symbols use
// '$'-delimited tokens. Both have the same shape: every code decodes to
// exactly one byte, so decoding never grows a name.
package escape

import "strings"

// Entry is one code/byte pair.
type Entry struct {
	Code string
	Char byte
}

// Table is an immutable bidirectional escape table.
type Table struct {
	entries []Entry
	byCode  map[string]byte
	byChar  map[byte]string
}

// NewTable builds a table. Codes and chars must each be unique.
func NewTable(entries ...Entry) *Table {
	t := &Table{
		byCode: make(map[string]byte, len(entries)),
		byChar: make(map[byte]string, len(entries)),
	}
	for _, e := range entries {
		if e.Code == "" {
			panic("escape: empty code")
		}
		if _, dup := t.byCode[e.Code]; dup {
			panic("escape: duplicate code " + e.Code)
		}
		if _, dup := t.byChar[e.Char]; dup {
			panic("escape: duplicate char " + string(e.Char))
		}
		t.byCode[e.Code] = e.Char
		t.byChar[e.Char] = e.Code
		t.entries = append(t.entries, e)
	}
	return t
}

// Decode returns the byte for code.
func (t *Table) Decode(code string) (byte, bool) {
	c, ok := t.byCode[code]
	return c, ok
}

// Encode returns the code for ch.
func (t *Table) Encode(ch byte) (string, bool) {
	code, ok := t.byChar[ch]
	return code, ok
}

// Match finds the entry whose code is a prefix of s and returns its byte and
// the code length.
func (t *Table) Match(s string) (ch byte, n int, ok bool) {
	for _, e := range t.entries {
		if strings.HasPrefix(s, e.Code) {
			return e.Char, len(e.Code), true
		}
	}
	return 0, 0, false
}

// ZEscape is the byte that introduces a Z-encoding escape.
const ZEscape = 'Z'

// Z is the escape table of the Z encoding used in interception specs.
// Codes are the letter that follows ZEscape.
var Z = NewTable(
	Entry{"a", '*'},
	Entry{"c", ':'},
	Entry{"d", '.'},
	Entry{"h", '-'},
	Entry{"p", '+'},
	Entry{"s", ' '},
	Entry{"u", '_'},
	Entry{"A", '@'},
	Entry{"D", '$'},
	Entry{"L", '('},
	Entry{"P", '%'},
	Entry{"R", ')'},
	Entry{"S", '/'},
	Entry{"Z", 'Z'},
)

// Rust is the table of '$' tokens in Rust legacy symbol names.
var Rust = NewTable(
	Entry{"$C$", ','},
	Entry{"$SP$", '@'},
	Entry{"$BP$", '*'},
	Entry{"$RF$", '&'},
	Entry{"$LT$", '<'},
	Entry{"$GT$", '>'},
	Entry{"$LP$", '('},
	Entry{"$RP$", ')'},
	Entry{"$u20$", ' '},
	Entry{"$u22$", '"'},
	Entry{"$u27$", '\''},
	Entry{"$u2b$", '+'},
	Entry{"$u3b$", ';'},
	Entry{"$u5b$", '['},
	Entry{"$u5d$", ']'},
	Entry{"$u7b$", '{'},
	Entry{"$u7d$", '}'},
	Entry{"$u7e$", '~'},
)
