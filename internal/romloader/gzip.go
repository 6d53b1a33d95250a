package romloader

import (
	"compress/gzip"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// extractFromGzip decompresses a .gz/.tgz/.tar.gz ROM using the standard
// library's compress/gzip. Plain gzip (not tar) is assumed, matching the
// teacher's own single-member-stream handling.
func extractFromGzip(path string) ([]byte, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open gzip file: %w", err)
	}
	defer f.Close()

	gr, err := gzip.NewReader(f)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open gzip stream: %w", err)
	}
	defer gr.Close()

	data, err := limitedRead(gr)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read gzip data: %w", err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if gr.Name != "" {
		name = gr.Name
	}
	return data, name, nil
}
