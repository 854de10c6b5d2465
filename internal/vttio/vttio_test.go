package vttio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mgpai22/vttkit/internal/subtitle"
)

func TestReadTextStripsBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bom.vtt")
	content := "\xef\xbb\xbfWEBVTT\n\n00:00:01.000 --> 00:00:02.000\nHi\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	text, err := ReadText(path)
	if err != nil {
		t.Fatalf("ReadText failed: %v", err)
	}
	if text[:6] != "WEBVTT" {
		t.Errorf("expected BOM to be removed, got %q", text[:8])
	}
}

func TestReadTextDecodesUTF16(t *testing.T) {
	path := filepath.Join(t.TempDir(), "utf16.vtt")
	// "WEBVTT\n" as UTF-16LE with BOM
	data := []byte{0xff, 0xfe}
	for _, r := range "WEBVTT\n" {
		data = append(data, byte(r), 0)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	text, err := ReadText(path)
	if err != nil {
		t.Fatalf("ReadText failed: %v", err)
	}
	if text != "WEBVTT\n" {
		t.Errorf("expected decoded text, got %q", text)
	}
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.vtt")
	content := "WEBVTT\r\n\r\n1\r\n00:00:01.000 --> 00:00:04.000\r\nHello, world!\r\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	doc, report, err := Open(path, subtitle.ParseOptions{})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if report.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", report.Err())
	}
	if len(doc.Cues) != 1 || doc.Cues[0].Lines[0] != "Hello, world!" {
		t.Errorf("unexpected cues: %+v", doc.Cues)
	}
}

func TestOpenMissingFile(t *testing.T) {
	if _, _, err := Open(filepath.Join(t.TempDir(), "missing.vtt"), subtitle.ParseOptions{}); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGlobOnlyMatchesFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"part_2_en.vtt", "part_1_en.vtt", "part_1_fr.vtt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("WEBVTT\n"), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub_en.vtt"), 0755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}

	files, err := Glob(dir, "*en.vtt")
	if err != nil {
		t.Fatalf("Glob failed: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %v", files)
	}
	if filepath.Base(files[0]) != "part_1_en.vtt" {
		t.Errorf("expected sorted result, got %v", files)
	}
}

func TestGlobInvalidPattern(t *testing.T) {
	if _, err := Glob(t.TempDir(), "["); err == nil {
		t.Error("expected error for malformed pattern")
	}
}

func TestWriteAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "parts")
	files := []File{
		{Path: filepath.Join(dir, "part_001_a.vtt"), Data: "WEBVTT\n"},
		{Path: filepath.Join(dir, "part_002_a.vtt"), Data: "WEBVTT\n\n00:00:01.000 --> 00:00:02.000\nx\n"},
	}

	if err := WriteAll(files); err != nil {
		t.Fatalf("WriteAll failed: %v", err)
	}

	for _, f := range files {
		got, err := os.ReadFile(f.Path)
		if err != nil {
			t.Fatalf("failed to read %s: %v", f.Path, err)
		}
		if string(got) != f.Data {
			t.Errorf("%s: expected %q, got %q", f.Path, f.Data, got)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to list output directory: %v", err)
	}
	if len(entries) != len(files) {
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name()
		}
		t.Errorf("expected only the outputs in %s, found %v", dir, names)
	}
}

func TestWriteAllLeavesNothingOnFailure(t *testing.T) {
	dir := t.TempDir()
	// a non-empty directory at the target path makes the rename fail
	blocked := filepath.Join(dir, "blocked.vtt")
	if err := os.Mkdir(blocked, 0755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(filepath.Join(blocked, "keep"), []byte("x"), 0644); err != nil {
		t.Fatalf("failed to populate directory: %v", err)
	}

	err := WriteAll([]File{
		{Path: filepath.Join(dir, "blocked.vtt"), Data: "WEBVTT\n"},
	})
	if err == nil {
		t.Fatal("expected WriteAll to fail")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to list directory: %v", err)
	}
	for _, e := range entries {
		if e.Name() != "blocked.vtt" {
			t.Errorf("unexpected leftover %s", e.Name())
		}
	}
}

func TestExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.vtt")
	if Exists(path) {
		t.Error("expected missing file")
	}
	if err := WriteFile(path, "WEBVTT\n"); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if !Exists(path) {
		t.Error("expected file to exist")
	}
}
