package extract

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectMIME(t *testing.T) {
	tests := []struct {
		name string
		file string
		data []byte
		want string
	}{
		{"csv by extension", "usage.csv", []byte("a,b\n1,2\n"), "text/csv"},
		{"pdf by extension", "doc.pdf", []byte("%PDF-1.4"), "application/pdf"},
		{"docx by extension", "notes.docx", []byte("PK"), docxMIME},
		{"markdown by extension", "README.md", []byte("# hi"), "text/markdown"},
		{"unknown extension sniffs text", "notes.xyz", []byte("hello world"), "text/plain"},
		{"unknown binary", "blob.xyz", []byte{0x00, 0x01, 0x02, 0xff}, "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectMIME(tt.file, tt.data))
		})
	}
}

func TestCSVExtractorAligns(t *testing.T) {
	text, err := CSVExtractor{}.Extract("usage.csv", []byte("feature,count\nexport,42\n"))
	require.NoError(t, err)
	assert.Equal(t, "feature  count\nexport   42\n", text)
}

func TestCSVExtractorRaggedRows(t *testing.T) {
	text, err := CSVExtractor{}.Extract("ragged.csv", []byte("a,b,c\n1,2\n"))
	require.NoError(t, err)
	assert.Contains(t, text, "a  b  c")
	assert.Contains(t, text, "1  2")
}

func TestRegistryCSV(t *testing.T) {
	r := DefaultRegistry()
	text := r.Text("usage.csv", "text/csv", []byte("feature,count\nexport,42\n"))
	assert.Contains(t, text, "feature  count")
}

func TestRegistryBadPDFInlineError(t *testing.T) {
	r := DefaultRegistry()
	text := r.Text("broken.pdf", "application/pdf", []byte("not a pdf at all"))
	assert.True(t, strings.HasPrefix(text, "[Error reading broken.pdf:"), "got %q", text)
}

func TestRegistryTextFallback(t *testing.T) {
	r := DefaultRegistry()

	t.Run("crlf normalized", func(t *testing.T) {
		text := r.Text("notes.txt", "text/plain", []byte("line one\r\nline two"))
		assert.Equal(t, "line one\nline two", text)
	})

	t.Run("invalid utf8 replaced", func(t *testing.T) {
		text := r.Text("weird.txt", "text/plain", []byte{'o', 'k', 0xff, 0xfe})
		assert.True(t, strings.HasPrefix(text, "ok"))
		assert.NotContains(t, text, string(rune(0xff)))
	})

	t.Run("xlsx falls through to text", func(t *testing.T) {
		// Spreadsheet binaries are accepted but not parsed; the decoded
		// bytes still reach the context rather than an error.
		text := r.Text("data.xlsx", "", []byte("plainish content"))
		assert.Equal(t, "plainish content", text)
	})
}

func docxBytes(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte(body))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestDocxExtractor(t *testing.T) {
	doc := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>User said exports are slow.</w:t></w:r></w:p>
    <w:p><w:r><w:t>Second </w:t></w:r><w:r><w:t>paragraph.</w:t></w:r></w:p>
  </w:body>
</w:document>`

	text, err := DocxExtractor{}.Extract("interview.docx", docxBytes(t, doc))
	require.NoError(t, err)
	assert.Equal(t, "User said exports are slow.\nSecond paragraph.", text)
}

func TestDocxExtractorMissingBody(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	_, err := zw.Create("other.xml")
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = DocxExtractor{}.Extract("empty.docx", buf.Bytes())
	assert.Error(t, err)
}

func TestBuildContext(t *testing.T) {
	got := BuildContext([]Document{
		{Name: "usage.csv", Text: "feature  count"},
		{Name: "notes.txt", Text: "exports are slow"},
	})
	want := "--- FILE: usage.csv ---\nfeature  count\n\n--- FILE: notes.txt ---\nexports are slow"
	assert.Equal(t, want, got)
}

func TestBuildContextEmpty(t *testing.T) {
	assert.Equal(t, "", BuildContext(nil))
}
