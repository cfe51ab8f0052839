package core

import (
	"os"
	"path/filepath"
	"testing"
)

func named(names ...string) []UploadedFile {
	files := make([]UploadedFile, len(names))
	for i, n := range names {
		files[i] = UploadedFile{Name: n, Data: []byte(n)}
	}
	return files
}

func names(files []UploadedFile) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Name
	}
	return out
}

func TestFileSetOrder(t *testing.T) {
	tests := []struct {
		name string
		edit func(s *FileSet)
		want []string
	}{
		{
			name: "add preserves order",
			edit: func(s *FileSet) {},
			want: []string{"a.csv", "b.pdf", "c.txt"},
		},
		{
			name: "remove middle shifts down",
			edit: func(s *FileSet) { s.Remove(1) },
			want: []string{"a.csv", "c.txt"},
		},
		{
			name: "remove first",
			edit: func(s *FileSet) { s.Remove(0) },
			want: []string{"b.pdf", "c.txt"},
		},
		{
			name: "re-add after remove appends at end",
			edit: func(s *FileSet) {
				s.Remove(0)
				s.Add(UploadedFile{Name: "a.csv"})
			},
			want: []string{"b.pdf", "c.txt", "a.csv"},
		},
		{
			name: "duplicates allowed",
			edit: func(s *FileSet) { s.Add(UploadedFile{Name: "a.csv"}) },
			want: []string{"a.csv", "b.pdf", "c.txt", "a.csv"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewFileSet(named("a.csv", "b.pdf", "c.txt")...)
			tt.edit(s)

			got := names(s.Files())
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("position %d: got %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestFileSetRemoveOutOfRange(t *testing.T) {
	s := NewFileSet(named("a.csv")...)
	if s.Remove(-1) {
		t.Error("Remove(-1) = true, want false")
	}
	if s.Remove(1) {
		t.Error("Remove(1) = true, want false")
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestFileSetFilesIsSnapshot(t *testing.T) {
	s := NewFileSet(named("a.csv", "b.pdf")...)
	snapshot := s.Files()

	s.Remove(0)
	s.Add(UploadedFile{Name: "d.docx"})

	if len(snapshot) != 2 || snapshot[0].Name != "a.csv" || snapshot[1].Name != "b.pdf" {
		t.Errorf("snapshot changed after edits: %v", names(snapshot))
	}
}

func TestFileSetTotalSize(t *testing.T) {
	s := NewFileSet(
		UploadedFile{Name: "a", Data: make([]byte, 100)},
		UploadedFile{Name: "b", Data: make([]byte, 28)},
	)
	if got := s.TotalSize(); got != 128 {
		t.Errorf("TotalSize() = %d, want 128", got)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "usage.csv")
	if err := os.WriteFile(path, []byte("feature,count\nexport,42\n"), 0644); err != nil {
		t.Fatal(err)
	}

	f, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if f.Name != "usage.csv" {
		t.Errorf("Name = %q, want %q", f.Name, "usage.csv")
	}
	if f.Size() != 25 {
		t.Errorf("Size() = %d, want 25", f.Size())
	}
	if f.ContentType == "" {
		t.Error("ContentType is empty")
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Error("expected error for missing file")
	}
}
