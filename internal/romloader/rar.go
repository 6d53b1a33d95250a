package romloader

import (
	"fmt"
	"io"

	"github.com/nwaples/rardecode/v2"
)

// extractFromRAR extracts the first .gb/.gbc entry from a RAR archive.
// rardecode only exposes entries through a forward cursor, so this
// drives the shared scanSequential walk instead of hand-rolling the
// loop zip.go and sevenzip.go don't need.
func extractFromRAR(path string) ([]byte, string, error) {
	r, err := rardecode.OpenReader(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open rar: %w", err)
	}
	defer r.Close()

	return scanSequential(
		func() (string, bool, io.Reader, error) {
			header, err := r.Next()
			if err != nil {
				return "", false, nil, err
			}
			return header.Name, header.IsDir, r, nil
		},
		func(err error) bool { return err == io.EOF },
	)
}
