package source

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// ErrNoDocument is returned when the archive holds no member for the document type.
var ErrNoDocument = errors.New("no matching document in archive")

// ExtractDocument returns the text of the archive member whose name contains
// docType. When several match, the last one in archive order wins. Invalid
// UTF-8 is replaced rather than rejected.
func ExtractDocument(archive []byte, docType string) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return "", fmt.Errorf("open archive: %w", err)
	}

	var (
		text  string
		found bool
	)
	for _, f := range zr.File {
		if !strings.Contains(f.Name, docType) {
			continue
		}
		body, err := readMember(f)
		if err != nil {
			return "", err
		}
		text, found = strings.ToValidUTF8(string(body), "�"), true
		slog.Info("[Source] Document read", "name", f.Name, "bytes", len(body))
	}

	if !found {
		return "", fmt.Errorf("%w: %s", ErrNoDocument, docType)
	}
	return text, nil
}

func readMember(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer rc.Close()

	body, err := io.ReadAll(io.LimitReader(rc, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Name, err)
	}
	return body, nil
}
