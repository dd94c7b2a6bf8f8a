package query

import (
	"errors"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/L1nMay/scanresults/internal/model"
)

func TestAttachment(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, jobVulns, "shot.png"), "png")
	write(t, filepath.Join(root, jobVulns, "shot.jpg"), "jpg")
	write(t, filepath.Join(root, jobVulns, "smb.txt"), "smb")
	write(t, filepath.Join(root, "secret.txt"), "secret")
	svc := NewService(root, nil)

	tests := []struct {
		name        string
		parts       []string
		contentType string
		data        string
	}{
		{name: "Png", parts: []string{jobVulns, "shot.png"}, contentType: "image/png", data: "png"},
		{name: "Jpg", parts: []string{jobVulns, "shot.jpg"}, contentType: "image/jpeg", data: "jpg"},
		{name: "Text", parts: []string{jobVulns, "smb.txt"}, contentType: "text/plain", data: "smb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := svc.Attachment(tt.parts)
			require.NoError(t, err)
			assert.Equal(t, tt.contentType, a.ContentType)
			assert.Equal(t, tt.data, string(a.Data))
		})
	}

	_, err := svc.Attachment([]string{jobVulns, "gone.png"})
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestAttachmentRejected(t *testing.T) {
	svc := NewService(t.TempDir(), nil)

	tests := []struct {
		name  string
		parts []string
	}{
		{name: "Empty", parts: nil},
		{name: "Only job", parts: []string{jobVulns}},
		{name: "Not a uuid", parts: []string{"results", "smb.txt"}},
		{name: "Dot dot", parts: []string{"..", "secret.txt"}},
		{name: "Version 1", parts: []string{"6ba7b810-9dad-11d1-80b4-00c04fd430c8", "smb.txt"}},
		{name: "Braced", parts: []string{"{" + jobVulns + "}", "smb.txt"}},
		{name: "Urn", parts: []string{"urn:uuid:" + jobVulns, "smb.txt"}},
		{name: "Traversal after job", parts: []string{jobVulns, "..", "secret.txt"}},
		{name: "Separator in segment", parts: []string{jobVulns, "../secret.txt"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Attachment(tt.parts)
			assert.True(t, errors.Is(err, model.ErrInvalidAttachment), "err = %v", err)
		})
	}
}

func TestIsJobID(t *testing.T) {
	assert.True(t, isJobID(jobVulns))
	assert.True(t, isJobID("0F8FAD5B-D9CB-469F-A165-70867728950E"))
	assert.True(t, isJobID("0f8fad5bd9cb469fa16570867728950e"))
	assert.False(t, isJobID("0f8fad5b-d9cb-469f-c165-70867728950e"))
	assert.False(t, isJobID(""))
}
