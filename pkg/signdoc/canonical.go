package signdoc

import (
	"bytes"
	"unicode/utf8"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

// canonicalJSON sorts object keys at every level and escapes & < > as \u0026 \u003c \u003e.
// Numbers are kept as written. The encoder also escapes U+2028 and U+2029; SortJSON writes
// those back as raw UTF-8 so the output matches a sorted JSON.stringify with the same
// HTML escaping.
var canonicalJSON = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	UseNumber:              true,
}.Froze()

// Canonical returns the bytes that get hashed and signed for doc
func Canonical(doc StdSignDoc) ([]byte, error) {
	if doc.Fee.Amount == nil {
		doc.Fee.Amount = []Coin{}
	}
	if doc.Msgs == nil {
		doc.Msgs = []Msg{}
	}
	for _, field := range doc.text() {
		if !utf8.ValidString(field) {
			return nil, errors.Errorf("sign document field %q is not valid UTF-8", field)
		}
	}

	raw, err := canonicalJSON.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(err, "marshal sign document")
	}
	return SortJSON(raw)
}

// SortJSON re-encodes arbitrary JSON with recursively sorted object keys and no
// insignificant whitespace. It is idempotent. Input that is not valid UTF-8 is rejected.
func SortJSON(raw []byte) ([]byte, error) {
	if !utf8.Valid(raw) {
		return nil, errors.New("json is not valid UTF-8")
	}

	var tree interface{}
	if err := canonicalJSON.Unmarshal(raw, &tree); err != nil {
		return nil, errors.Wrap(err, "decode json")
	}
	out, err := canonicalJSON.Marshal(tree)
	if err != nil {
		return nil, errors.Wrap(err, "encode json")
	}
	return rawLineSeparators(out), nil
}

// rawLineSeparators replaces the \u2028 and \u2029 escapes in encoded JSON with the
// characters themselves. Escaped backslashes are copied through untouched.
func rawLineSeparators(out []byte) []byte {
	if !bytes.Contains(out, []byte(`\u202`)) {
		return out
	}

	res := make([]byte, 0, len(out))
	for i := 0; i < len(out); i++ {
		c := out[i]
		if c != '\\' || i+1 == len(out) {
			res = append(res, c)
			continue
		}
		if i+5 < len(out) && out[i+1] == 'u' {
			switch string(out[i+2 : i+6]) {
			case "2028", "2029":
				res = utf8.AppendRune(res, 0x2028+rune(out[i+5]-'8'))
				i += 5
				continue
			}
		}
		res = append(res, c, out[i+1])
		i++
	}
	return res
}

// text lists every string of the document that ends up in the canonical form
func (d StdSignDoc) text() []string {
	fields := []string{d.ChainID, d.AccountNumber, d.Sequence, d.Fee.Gas, d.Memo}
	for _, c := range d.Fee.Amount {
		fields = append(fields, c.Denom, c.Amount)
	}
	for _, m := range d.Msgs {
		fields = append(fields, m.Type, m.Value.Signer, m.Value.Data)
	}
	return fields
}
