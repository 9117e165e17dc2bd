package mgmt_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/mgmt-client/pkg/mgmt"
)

func TestFileFromFs(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/imports/batch-01.json", []byte(`[{"email":"a@example.com"}]`), 0o600))

	file := mgmt.FileFromFs(fsys, "/imports/batch-01.json")
	assert.Equal(t, "/imports/batch-01.json", file.Path())
	assert.Equal(t, "batch-01.json", file.Name())

	content, err := file.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, `[{"email":"a@example.com"}]`, string(content))

	_, err = mgmt.FileFromFs(fsys, "/imports/missing.json").ReadAll()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/imports/missing.json")
}

func TestLocalFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "users.json")
	require.NoError(t, os.WriteFile(path, []byte("[]"), 0o600))

	file := mgmt.LocalFile(path)
	assert.Equal(t, "users.json", file.Name())

	content, err := file.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), content)
}
