// Package romloader loads a ROM image from a file path, transparently
// extracting it from a compressed archive when needed. The teacher's
// romloader package solves the same problem for .sms files with a
// switch over a hand-enumerated format; this package drives the same
// detection rules through a signature table and an extractor registry
// so that adding a container format is a data-table entry rather than
// a new switch arm, and retargets the raw extension pair to the Game
// Boy's .gb/.gbc.
package romloader

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// maxROMSize bounds extracted content; the largest real Game Boy
// cartridges (MBC5, 8MB) are exactly this size and still fit.
const maxROMSize = 8 * 1024 * 1024

var (
	ErrNoROMFile         = errors.New("no .gb/.gbc file found in archive")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrFileTooLarge      = errors.New("file exceeds maximum size limit")
)

type formatType int

const (
	formatUnknown formatType = iota
	formatRawROM
	formatZIP
	format7z
	formatGzip
	formatRAR
)

// signature pairs a container's magic bytes with the format it marks.
// Longer, more specific signatures are listed first so a prefix match
// against a shorter unrelated signature can't shadow them.
var signatures = []struct {
	magic  []byte
	format formatType
}{
	{[]byte{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C}, format7z},
	{[]byte{0x50, 0x4B, 0x03, 0x04}, formatZIP},
	{[]byte{0x50, 0x4B, 0x05, 0x06}, formatZIP}, // empty zip central directory
	{[]byte{0x52, 0x61, 0x72, 0x21}, formatRAR}, // "Rar!"
	{[]byte{0x1F, 0x8B}, formatGzip},
}

// extensionFormats is the fallback table consulted when no signature
// matched (a truncated header, or an extension the archive library
// itself will validate on open).
var extensionFormats = map[string]formatType{
	".gb":  formatRawROM,
	".gbc": formatRawROM,
	".zip": formatZIP,
	".7z":  format7z,
	".gz":  formatGzip,
	".tgz": formatGzip,
	".rar": formatRAR,
}

// extractors maps each archive format to the function that pulls a ROM
// out of it. formatRawROM has no entry: LoadROM reads it directly
// rather than reopening the file a second time.
var extractors = map[formatType]func(path string) ([]byte, string, error){
	formatZIP:  extractFromZIP,
	format7z:   extractFrom7z,
	formatGzip: extractFromGzip,
	formatRAR:  extractFromRAR,
}

// LoadROM loads a ROM from a file path, detecting and extracting from
// an archive if needed. Returns the ROM bytes and a display name.
func LoadROM(path string) ([]byte, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	header, err := br.Peek(16)
	if err != nil && err != io.EOF {
		return nil, "", fmt.Errorf("failed to read file header: %w", err)
	}

	switch format := detectFormat(header, path); format {
	case formatRawROM:
		data, err := limitedRead(br)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read ROM: %w", err)
		}
		return data, filepath.Base(path), nil
	case formatUnknown:
		return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	default:
		extract, ok := extractors[format]
		if !ok {
			return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
		}
		return extract(path)
	}
}

// detectFormat determines the file format by scanning header against
// every known magic prefix before falling back to the file extension.
func detectFormat(header []byte, path string) formatType {
	for _, sig := range signatures {
		if len(header) >= len(sig.magic) && bytes.HasPrefix(header, sig.magic) {
			return sig.format
		}
	}

	ext := strings.ToLower(filepath.Ext(path))
	if format, ok := extensionFormats[ext]; ok {
		return format
	}
	if strings.HasSuffix(strings.ToLower(path), ".tar.gz") {
		return formatGzip
	}
	return formatUnknown
}

// isROMFile reports whether name has a .gb or .gbc extension.
func isROMFile(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".gb") || strings.HasSuffix(lower, ".gbc")
}

// scanSequential walks an archive format whose entries are only visible
// one at a time through a cursor (RAR's reader, unlike zip/7z, has no
// upfront file list) looking for the first ROM entry. next advances the
// cursor and returns the current entry's name, directory flag, and a
// reader positioned at its content; isEOF recognizes that format's own
// end-of-archive error so it can be translated to ErrNoROMFile instead
// of propagating as a read failure.
func scanSequential(next func() (name string, isDir bool, r io.Reader, err error), isEOF func(error) bool) ([]byte, string, error) {
	for {
		name, isDir, r, err := next()
		if err != nil {
			if isEOF(err) {
				return nil, "", ErrNoROMFile
			}
			return nil, "", fmt.Errorf("failed to read archive entry: %w", err)
		}
		if isDir || !isROMFile(name) {
			continue
		}
		data, err := limitedRead(r)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read %s: %w", name, err)
		}
		return data, filepath.Base(name), nil
	}
}

// limitedRead reads up to maxROMSize+1 bytes, erroring if that limit is
// exceeded, so a hostile archive cannot exhaust memory.
func limitedRead(r io.Reader) ([]byte, error) {
	lr := io.LimitReader(r, maxROMSize+1)
	data, err := io.ReadAll(lr)
	if err != nil {
		return nil, err
	}
	if len(data) > maxROMSize {
		return nil, ErrFileTooLarge
	}
	return data, nil
}
