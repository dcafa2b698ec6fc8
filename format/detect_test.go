package format

import (
	"archive/zip"
	"bytes"
	"testing"
)

func TestFormat_String(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{EPUB, "EPUB"},
		{ZIP, "ZIP"},
		{PDF, "PDF"},
		{Unknown, "Unknown"},
		{Format(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.format.String(); got != tt.want {
			t.Errorf("Format(%d).String() = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestFormat_Extension(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{EPUB, ".epub"},
		{ZIP, ".zip"},
		{PDF, ".pdf"},
		{Unknown, ""},
	}

	for _, tt := range tests {
		if got := tt.format.Extension(); got != tt.want {
			t.Errorf("Format(%d).Extension() = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		filename string
		want     Format
	}{
		{"book.epub", EPUB},
		{"book.EPUB", EPUB},
		{"book.Epub", EPUB},
		{"archive.zip", ZIP},
		{"document.pdf", PDF},
		{"notes.txt", Unknown},
		{"noextension", Unknown},
	}

	for _, tt := range tests {
		if got := Detect(tt.filename); got != tt.want {
			t.Errorf("Detect(%q) = %v, want %v", tt.filename, got, tt.want)
		}
	}
}

// zipWith builds a zip archive holding the given entries in order.
func zipWith(t *testing.T, entries map[string]string, mimetype string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	if mimetype != "" {
		mw, err := w.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
		if err != nil {
			t.Fatal(err)
		}
		mw.Write([]byte(mimetype))
	}
	for name, body := range entries {
		fw, err := w.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		fw.Write([]byte(body))
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDetectFromBytes(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Format
	}{
		{
			name: "epub by mimetype",
			data: zipWith(t, nil, "application/epub+zip"),
			want: EPUB,
		},
		{
			name: "epub by container descriptor",
			data: zipWith(t, map[string]string{"META-INF/container.xml": "<container/>"}, ""),
			want: EPUB,
		},
		{
			name: "plain zip",
			data: zipWith(t, map[string]string{"readme.txt": "hello"}, ""),
			want: ZIP,
		},
		{
			name: "zip with foreign mimetype",
			data: zipWith(t, nil, "application/vnd.oasis.opendocument.text"),
			want: ZIP,
		},
		{
			name: "pdf",
			data: []byte("%PDF-1.7 rest of file"),
			want: PDF,
		},
		{
			name: "plain text",
			data: []byte("just some text content here"),
			want: Unknown,
		},
		{
			name: "truncated",
			data: []byte{0x50, 0x4B},
			want: Unknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFromBytes(tt.data); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
