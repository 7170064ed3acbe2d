package storage

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDiskStore_SaveAndOpen(t *testing.T) {
	s, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	path, err := s.Save("urls.xlsx", strings.NewReader("spreadsheet bytes"))
	require.NoError(t, err)
	require.Contains(t, path, "urls.xlsx")

	rc, err := s.Open(path)
	require.NoError(t, err)
	defer rc.Close()

	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, "spreadsheet bytes", string(body))
}

func TestDiskStore_RejectsNonSpreadsheet(t *testing.T) {
	s, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	_, err = s.Save("malware.exe", strings.NewReader("nope"))
	require.ErrorIs(t, err, ErrUnsupportedType)
}

func TestDiskStore_UniqueNames(t *testing.T) {
	s, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	a, err := s.Save("urls.xlsx", strings.NewReader("a"))
	require.NoError(t, err)
	b, err := s.Save("urls.xlsx", strings.NewReader("b"))
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestDiskStore_OpenRejectsTraversal(t *testing.T) {
	s, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	_, err = s.Open("../etc/passwd")
	require.Error(t, err)
}
