// Package format provides upload format detection. Uploads claim to
// be EPUBs; detection verifies that before the bytes reach the parser.
package format

import (
	"archive/zip"
	"bytes"
	"io"
	"path/filepath"
	"strings"
)

// Format represents a recognized upload format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// EPUB indicates an EPUB package.
	EPUB
	// ZIP indicates a ZIP archive that is not an EPUB.
	ZIP
	// PDF indicates a PDF document, accepted only to produce a clear
	// rejection message.
	PDF
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case EPUB:
		return "EPUB"
	case ZIP:
		return "ZIP"
	case PDF:
		return "PDF"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case EPUB:
		return ".epub"
	case ZIP:
		return ".zip"
	case PDF:
		return ".pdf"
	default:
		return ""
	}
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".epub":
		return EPUB
	case ".zip":
		return ZIP
	case ".pdf":
		return PDF
	default:
		return Unknown
	}
}

// DetectFromBytes inspects content to determine the format. More
// reliable than extension-based detection: an EPUB is a ZIP archive
// carrying either the EPUB mimetype entry or an OCF container
// descriptor.
func DetectFromBytes(data []byte) Format {
	if len(data) < 4 {
		return Unknown
	}

	// PDF magic: %PDF
	if bytes.HasPrefix(data, []byte("%PDF")) {
		return PDF
	}

	// ZIP magic: PK\x03\x04
	if !bytes.HasPrefix(data, []byte{0x50, 0x4B, 0x03, 0x04}) {
		return Unknown
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Unknown
	}
	return detectZIPFormat(zr)
}

// detectZIPFormat distinguishes an EPUB from a plain ZIP archive.
// A correct EPUB declares its media type in an uncompressed mimetype
// entry; packages that omit it are still accepted when the OCF
// container descriptor is present.
func detectZIPFormat(zr *zip.Reader) Format {
	for _, f := range zr.File {
		if f.Name == "mimetype" {
			rc, err := f.Open()
			if err != nil {
				continue
			}
			data, err := io.ReadAll(io.LimitReader(rc, 256))
			rc.Close()
			if err == nil && strings.TrimSpace(string(data)) == "application/epub+zip" {
				return EPUB
			}
		}
		if f.Name == "META-INF/container.xml" {
			return EPUB
		}
	}
	return ZIP
}
