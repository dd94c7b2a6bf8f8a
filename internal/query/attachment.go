package query

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/L1nMay/scanresults/internal/model"
)

type Attachment struct {
	Path        string
	ContentType string
	Data        []byte
}

// Attachment reads an artifact file below a job directory. parts is the
// path below the result root, its first element must be a version 4 uuid.
func (s *Service) Attachment(parts []string) (*Attachment, error) {
	if len(parts) < 2 || !isJobID(parts[0]) {
		return nil, fmt.Errorf("%w: %q", model.ErrInvalidAttachment, strings.Join(parts, "/"))
	}
	for _, p := range parts[1:] {
		if p == "" || p == "." || p == ".." || strings.ContainsAny(p, `/\`) {
			return nil, fmt.Errorf("%w: segment %q", model.ErrInvalidAttachment, p)
		}
	}

	path := filepath.Join(append([]string{s.root}, parts...)...)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &Attachment{
		Path:        path,
		ContentType: contentType(path),
		Data:        data,
	}, nil
}

// isJobID accepts the 36 character and the bare 32 character uuid forms.
func isJobID(s string) bool {
	if len(s) != 36 && len(s) != 32 {
		return false
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return false
	}
	return id.Version() == 4 && id.Variant() == uuid.RFC4122
}

func contentType(path string) string {
	switch {
	case strings.HasSuffix(path, ".png"):
		return "image/png"
	case strings.HasSuffix(path, ".jpg"):
		return "image/jpeg"
	default:
		return "text/plain"
	}
}
