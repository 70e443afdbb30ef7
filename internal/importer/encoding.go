package importer

import (
	"bytes"
	"errors"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// ErrBadEncoding means the upload was neither UTF-8 nor Shift_JIS.
var ErrBadEncoding = errors.New("csv must be encoded as UTF-8 or Shift_JIS (CP932)")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DecodeText normalizes an uploaded file to UTF-8. Recruiting tools on
// Windows commonly export CP932, so that is tried when the bytes are
// not valid UTF-8.
func DecodeText(raw []byte) (string, error) {
	if bytes.HasPrefix(raw, utf8BOM) {
		return string(bytes.TrimPrefix(raw, utf8BOM)), nil
	}
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	decoded, _, err := transform.Bytes(japanese.ShiftJIS.NewDecoder(), raw)
	if err != nil {
		return "", ErrBadEncoding
	}
	return string(decoded), nil
}

// EncodeCP932 converts UTF-8 text for download by the same Windows
// tooling. Unmappable runes are replaced rather than failing the whole
// file.
func EncodeCP932(text string) []byte {
	enc := encoding.ReplaceUnsupported(japanese.ShiftJIS.NewEncoder())
	out, _, err := transform.Bytes(enc, []byte(text))
	if err != nil {
		return []byte(text)
	}
	return out
}
