package epubdoc

import (
	"bytes"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// contentSource is the representation a manifest item's bytes can be
// obtained from. Exactly one field is set; extractContent tries them
// in a fixed order.
type contentSource struct {
	data []byte
	read func() ([]byte, error)
}

// sourceFor returns the best available source for a manifest item:
// the preloaded spine cache when the item was in the spine, otherwise
// a lazy read from the archive.
func (r *Reader) sourceFor(item ManifestItem) contentSource {
	if data, ok := r.cache[item.ID]; ok {
		return contentSource{data: data}
	}
	name := r.resolveHref(item.Href)
	return contentSource{read: func() ([]byte, error) { return r.readFile(name) }}
}

// extractContent turns a content source into decoded markup text.
func extractContent(src contentSource, mediaType string) (string, error) {
	data := src.data
	if data == nil && src.read != nil {
		var err error
		data, err = src.read()
		if err != nil {
			return "", err
		}
	}
	if data == nil {
		return "", ErrNoContent
	}
	return decodeText(data, mediaType)
}

// decodeText converts a content document's bytes to UTF-8. UTF-16 is
// detected by BOM; everything else goes through charset detection,
// which honors XML/meta declarations and falls back to UTF-8.
func decodeText(data []byte, mediaType string) (string, error) {
	if len(data) >= 2 {
		var enc *encoding.Decoder
		switch {
		case data[0] == 0xFE && data[1] == 0xFF:
			enc = unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()
		case data[0] == 0xFF && data[1] == 0xFE:
			enc = unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
		}
		if enc != nil {
			decoded, _, err := transform.Bytes(enc, data)
			if err != nil {
				return "", err
			}
			return string(decoded), nil
		}
	}

	rd, err := charset.NewReader(bytes.NewReader(data), mediaType)
	if err != nil {
		// Undetectable charset: serve the bytes as-is rather than drop
		// the document.
		return string(data), nil
	}
	decoded, err := io.ReadAll(rd)
	if err != nil {
		return "", err
	}
	return strings.TrimPrefix(string(decoded), "\ufeff"), nil
}
