package vaxpatch

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/dsnet/compress/bzip2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackup(t *testing.T) {
	data := []byte{0x10, 0x20, 0x30, 0x40, 0x50}

	t.Run("named backup before writing", func(t *testing.T) {
		target := writeFile(t, t.TempDir(), "t.bin", data)

		err := run(t, []string{"^ " + target, "@ 0", "< FF"})
		require.NoError(t, err)
		assert.Equal(t, data, readFile(t, target+".bak"))
		assert.Equal(t, []byte{0xff, 0x20, 0x30, 0x40, 0x50}, readFile(t, target))
	})

	t.Run("command-line target", func(t *testing.T) {
		target := writeFile(t, t.TempDir(), "t.bin", data)

		require.NoError(t, run(t, []string{"^*"}, WithTarget(target)))
		assert.Equal(t, data, readFile(t, target+".bak"))
	})

	t.Run("copies from current position and rewinds", func(t *testing.T) {
		target := writeFile(t, t.TempDir(), "t.bin", data)

		// '^*' leaves the position at 0 but the cursor at 2
		err := run(t, []string{"@ 2", "^*", "> 10", "> 30"}, WithTarget(target))
		require.NoError(t, err)
		assert.Equal(t, data[2:], readFile(t, target+".bak"))
	})

	t.Run("star without command-line target", func(t *testing.T) {
		dir := t.TempDir()
		target := writeFile(t, dir, "t.bin", data)

		err := run(t, []string{"! " + target, "^*"})
		assert.ErrorIs(t, err, ErrNoCmdTarget)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("star needs an open target", func(t *testing.T) {
		target := writeFile(t, t.TempDir(), "t.bin", data)

		p, err := New(WithTarget(target))
		require.NoError(t, err)
		require.NoError(t, p.Close())
		assert.ErrorIs(t, p.Exec("^*"), ErrNoTarget)
	})

	t.Run("missing named target", func(t *testing.T) {
		dir := t.TempDir()
		missing := filepath.Join(dir, "missing.bin")

		err := run(t, []string{"^ " + missing})
		assert.Error(t, err)
		assert.NoFileExists(t, missing+".bak")
	})

	t.Run("backup cannot be created", func(t *testing.T) {
		dir := t.TempDir()
		target := writeFile(t, dir, "t.bin", data)
		require.NoError(t, os.Mkdir(target+".bak", 0o755))

		err := run(t, []string{"^*"}, WithTarget(target))
		assert.ErrorContains(t, err, "can't create backup '"+target+".bak'")
	})

	t.Run("custom suffix", func(t *testing.T) {
		target := writeFile(t, t.TempDir(), "t.bin", data)

		require.NoError(t, run(t, []string{"^*"}, WithTarget(target), WithBackupSuffix(".orig")))
		assert.Equal(t, data, readFile(t, target+".orig"))
		assert.NoFileExists(t, target+".bak")
	})

	t.Run("compressed", func(t *testing.T) {
		target := writeFile(t, t.TempDir(), "t.bin", bytes.Repeat(data, 100))

		require.NoError(t, run(t, []string{"^*", "@ 0", "< 00"}, WithTarget(target), WithCompressedBackup()))

		f, err := os.Open(target + ".bak.bz2")
		require.NoError(t, err)
		defer f.Close()

		zr, err := bzip2.NewReader(f, nil)
		require.NoError(t, err)
		restored, err := io.ReadAll(zr)
		require.NoError(t, err)
		assert.Equal(t, bytes.Repeat(data, 100), restored)
	})
}

func TestWriteBackup(t *testing.T) {
	var buf bytes.Buffer

	n, err := writeBackup(&buf, bytes.NewReader([]byte("hello")), false)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
	assert.Equal(t, "hello", buf.String())

	buf.Reset()
	n, err = writeBackup(&buf, bytes.NewReader(nil), true)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	zr, err := bzip2.NewReader(&buf, nil)
	require.NoError(t, err)
	out, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Empty(t, out)
}
