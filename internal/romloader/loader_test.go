package romloader

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"
)

func createTestGBFile(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.gb")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to create test .gb file: %v", err)
	}
	return path
}

func createTestZipFile(t *testing.T, romData []byte, romName string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.zip")

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create zip file: %v", err)
	}
	defer f.Close()

	w := zip.NewWriter(f)
	fw, err := w.Create(romName)
	if err != nil {
		t.Fatalf("failed to create file in zip: %v", err)
	}
	if _, err := fw.Write(romData); err != nil {
		t.Fatalf("failed to write to zip: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}
	return path
}

func createTestGzipFile(t *testing.T, romData []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.gb.gz")

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create gzip file: %v", err)
	}
	defer f.Close()

	w := gzip.NewWriter(f)
	if _, err := w.Write(romData); err != nil {
		t.Fatalf("failed to write to gzip: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close gzip: %v", err)
	}
	return path
}

func TestLoadROMRaw(t *testing.T) {
	testData := []byte{0x01, 0x02, 0x03, 0x04, 0x05}
	path := createTestGBFile(t, testData)

	data, name, err := LoadROM(path)
	if err != nil {
		t.Fatalf("LoadROM failed: %v", err)
	}
	if !bytes.Equal(data, testData) {
		t.Errorf("data mismatch: got %v, want %v", data, testData)
	}
	if name != "test.gb" {
		t.Errorf("name = %q, want test.gb", name)
	}
}

func TestLoadROMFromZip(t *testing.T) {
	testData := []byte{0xAA, 0xBB, 0xCC, 0xDD}
	path := createTestZipFile(t, testData, "game.gb")

	data, name, err := LoadROM(path)
	if err != nil {
		t.Fatalf("LoadROM failed: %v", err)
	}
	if !bytes.Equal(data, testData) {
		t.Errorf("data mismatch: got %v, want %v", data, testData)
	}
	if name != "game.gb" {
		t.Errorf("name = %q, want game.gb", name)
	}
}

func TestLoadROMFromZipSubdirectory(t *testing.T) {
	testData := []byte{0x12, 0x34, 0x56}
	path := filepath.Join(t.TempDir(), "nested.zip")

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create zip: %v", err)
	}
	w := zip.NewWriter(f)
	fw, _ := w.Create("roms/games/test.gbc")
	fw.Write(testData)
	w.Close()
	f.Close()

	data, name, err := LoadROM(path)
	if err != nil {
		t.Fatalf("LoadROM failed: %v", err)
	}
	if !bytes.Equal(data, testData) {
		t.Errorf("data mismatch: got %v, want %v", data, testData)
	}
	if name != "test.gbc" {
		t.Errorf("name should be just the filename, got %s", name)
	}
}

func TestLoadROMFromGzip(t *testing.T) {
	testData := []byte{0x11, 0x22, 0x33, 0x44, 0x55}
	path := createTestGzipFile(t, testData)

	data, _, err := LoadROM(path)
	if err != nil {
		t.Fatalf("LoadROM failed: %v", err)
	}
	if !bytes.Equal(data, testData) {
		t.Errorf("data mismatch: got %v, want %v", data, testData)
	}
}

func TestFormatDetectionByMagicBytes(t *testing.T) {
	cases := []struct {
		header   []byte
		path     string
		expected formatType
	}{
		{[]byte{0x50, 0x4B, 0x03, 0x04}, "file.dat", formatZIP},
		{[]byte{0x50, 0x4B, 0x05, 0x06}, "file.dat", formatZIP},
		{[]byte{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C}, "file.dat", format7z},
		{[]byte{0x1F, 0x8B}, "file.dat", formatGzip},
		{[]byte{0x52, 0x61, 0x72, 0x21}, "file.dat", formatRAR},
	}
	for _, c := range cases {
		if got := detectFormat(c.header, c.path); got != c.expected {
			t.Errorf("detectFormat(%v, %s) = %d, want %d", c.header, c.path, got, c.expected)
		}
	}
}

func TestFormatDetectionByExtension(t *testing.T) {
	cases := []struct {
		path     string
		expected formatType
	}{
		{"game.gb", formatRawROM},
		{"game.GBC", formatRawROM},
		{"game.zip", formatZIP},
		{"game.7z", format7z},
		{"game.gz", formatGzip},
		{"game.tgz", formatGzip},
		{"game.tar.gz", formatGzip},
		{"game.rar", formatRAR},
		{"game.unknown", formatUnknown},
	}
	for _, c := range cases {
		if got := detectFormat(nil, c.path); got != c.expected {
			t.Errorf("detectFormat(nil, %s) = %d, want %d", c.path, got, c.expected)
		}
	}
}

func TestLoadROMNoMatchInArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.zip")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create zip: %v", err)
	}
	w := zip.NewWriter(f)
	fw, _ := w.Create("readme.txt")
	fw.Write([]byte("hello"))
	w.Close()
	f.Close()

	_, _, err = LoadROM(path)
	if err != ErrNoROMFile {
		t.Errorf("err = %v, want ErrNoROMFile", err)
	}
}

func TestLoadROMFileTooLarge(t *testing.T) {
	largeData := make([]byte, maxROMSize+1)
	path := filepath.Join(t.TempDir(), "large.gb.gz")

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create gzip: %v", err)
	}
	w := gzip.NewWriter(f)
	w.Write(largeData)
	w.Close()
	f.Close()

	if _, _, err := LoadROM(path); err == nil {
		t.Error("expected an error for an oversized file")
	}
}

func TestLoadROMFileNotFound(t *testing.T) {
	if _, _, err := LoadROM("/nonexistent/path/game.gb"); err == nil {
		t.Error("expected an error for a nonexistent file")
	}
}

func TestIsROMFile(t *testing.T) {
	cases := []struct {
		name     string
		expected bool
	}{
		{"game.gb", true},
		{"game.GBC", true},
		{"game.txt", false},
		{"game.gb.bak", false},
		{"game", false},
	}
	for _, c := range cases {
		if got := isROMFile(c.name); got != c.expected {
			t.Errorf("isROMFile(%q) = %v, want %v", c.name, got, c.expected)
		}
	}
}
