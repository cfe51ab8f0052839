package core

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
)

// UploadedFile is a document selected for analysis. The bytes are held in
// memory until submission; nothing is persisted.
type UploadedFile struct {
	Name        string // original filename, preserved on the wire
	ContentType string // declared MIME type, may be empty
	Data        []byte
}

// Size returns the file size in bytes.
func (f UploadedFile) Size() int64 {
	return int64(len(f.Data))
}

// LoadFile reads a file from disk into an UploadedFile. The content type is
// derived from the extension; unknown extensions get application/octet-stream.
func LoadFile(path string) (UploadedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return UploadedFile{}, fmt.Errorf("failed to read file: %w", err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return UploadedFile{
		Name:        filepath.Base(path),
		ContentType: contentType,
		Data:        data,
	}, nil
}

// FileSet is an ordered, mutable collection of uploaded files. Insertion
// order is preserved for display and submission. Duplicates are allowed;
// identity is position, not content.
type FileSet struct {
	files []UploadedFile
}

// NewFileSet creates a FileSet seeded with the given files.
func NewFileSet(files ...UploadedFile) *FileSet {
	s := &FileSet{}
	s.Add(files...)
	return s
}

// Add appends files, preserving their order.
func (s *FileSet) Add(files ...UploadedFile) {
	s.files = append(s.files, files...)
}

// Remove deletes the file at index i, shifting subsequent entries down.
// Returns false if i is out of range.
func (s *FileSet) Remove(i int) bool {
	if i < 0 || i >= len(s.files) {
		return false
	}
	s.files = append(s.files[:i], s.files[i+1:]...)
	return true
}

// Len returns the number of files.
func (s *FileSet) Len() int {
	return len(s.files)
}

// At returns the file at index i.
func (s *FileSet) At(i int) UploadedFile {
	return s.files[i]
}

// Files returns a copy of the ordered sequence. The copy keeps an in-flight
// submission isolated from later Add/Remove calls.
func (s *FileSet) Files() []UploadedFile {
	out := make([]UploadedFile, len(s.files))
	copy(out, s.files)
	return out
}

// TotalSize returns the combined size of all files in bytes.
func (s *FileSet) TotalSize() int64 {
	var total int64
	for _, f := range s.files {
		total += f.Size()
	}
	return total
}
