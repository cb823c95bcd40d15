package filestorage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_Save(t *testing.T) {
	dir := t.TempDir()
	ls, err := NewLocalStorage(filepath.Join(dir, "certs"))
	require.NoError(t, err)

	path, err := ls.Save(t.Context(), "certificate_1_2_3.pdf", "application/pdf", []byte("%PDF-1.3"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "certs", "certificate_1_2_3.pdf"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.3", string(data))

	// saving again overwrites
	_, err = ls.Save(t.Context(), "certificate_1_2_3.pdf", "application/pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))
}

func TestLocalStorage_StripsDirectories(t *testing.T) {
	dir := t.TempDir()
	ls, err := NewLocalStorage(dir)
	require.NoError(t, err)

	path, err := ls.Save(t.Context(), "../../escape.pdf", "application/pdf", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "escape.pdf"), path)

	_, err = ls.Save(t.Context(), "..", "application/pdf", []byte("x"))
	assert.Error(t, err)
}

func TestNew_Drivers(t *testing.T) {
	s, err := New(t.Context(), Options{Driver: DriverNone})
	require.NoError(t, err)
	assert.Nil(t, s)

	s, err = New(t.Context(), Options{Driver: DriverLocal, LocalPath: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &LocalStorage{}, s)

	_, err = New(t.Context(), Options{Driver: DriverMinio})
	assert.Error(t, err)

	_, err = New(t.Context(), Options{Driver: "ftp"})
	assert.Error(t, err)
}
