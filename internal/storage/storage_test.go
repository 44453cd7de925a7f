package storage

import (
	"context"
	"io/ioutil"
	"strings"
	"testing"
	"time"

	"github.com/nextgig/job-board/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaths(t *testing.T) {
	at := time.UnixMilli(1729400000123)

	assert.Equal(t, "avatars/p1/1729400000123.png", AvatarPath("p1", "PNG", at))
	assert.Equal(t, "logos/p1/1729400000123.jpg", LogoPath("p1", ".jpg", at))
	assert.Equal(t, "resumes/c9_1729400000123.pdf", ResumePath("c9", "pdf", at))
	assert.Equal(t, "resumes/c9_1729400000123.bin", ResumePath("c9", "", at))
}

func TestExtFromFilename(t *testing.T) {
	assert.Equal(t, "pdf", ExtFromFilename("My Resume.PDF"))
	assert.Equal(t, "docx", ExtFromFilename("cv.final.docx"))
	assert.Equal(t, "bin", ExtFromFilename("README"))
}

func TestLocalStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(config.StorageConfig{BasePath: t.TempDir(), BaseURL: "http://localhost:9876/files/"})
	require.NoError(t, err)

	path := ResumePath("cand", "pdf", time.Now())
	require.NoError(t, s.Save(ctx, path, strings.NewReader("%PDF-1.4"), "application/pdf"))

	exists, err := s.Exists(ctx, path)
	require.NoError(t, err)
	assert.True(t, exists)

	rc, err := s.Get(ctx, path)
	require.NoError(t, err)
	body, err := ioutil.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(body))

	assert.Equal(t, "http://localhost:9876/files/"+path, s.URL(path))

	require.NoError(t, s.Delete(ctx, path))
	exists, err = s.Exists(ctx, path)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, s.Delete(ctx, path), "deleting a missing file is not an error")
}

func TestLocalStorageStaysInsideBasePath(t *testing.T) {
	base := t.TempDir()
	s, err := NewLocalStorage(config.StorageConfig{BasePath: base})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(s.resolve("../../etc/passwd"), base))
	assert.Equal(t, "/files/avatars/x.png", s.URL("avatars/x.png"))
}

func TestNewStorageUnknownType(t *testing.T) {
	_, err := NewStorage(config.StorageConfig{Type: "ftp"})
	assert.EqualError(t, err, "unsupported storage type: ftp")
}
