package vaxpatch

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/dsnet/compress/bzip2"
)

const compressedSuffix = ".bz2"

// backupName returns the file '^' writes for the target name.
func (p *Patcher) backupName(name string) string {
	n := name + p.cfg.backupSuffix
	if p.cfg.compress {
		n += compressedSuffix
	}
	return n
}

// createBackup copies src from its current position to EOF into the file name.
func createBackup(name string, src io.Reader, compress bool) (int64, error) {
	f, err := os.Create(name)
	if err != nil {
		return 0, fmt.Errorf("can't create backup '%s': %w", name, err)
	}

	n, err := writeBackup(f, src, compress)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = cerr
	}
	if err != nil {
		return n, fmt.Errorf("error writing backup '%s': %w", name, err)
	}

	return n, nil
}

func writeBackup(dst io.Writer, src io.Reader, compress bool) (int64, error) {
	bw := bufio.NewWriter(dst)

	var n int64
	var err error
	if compress {
		var zw *bzip2.Writer
		if zw, err = bzip2.NewWriter(bw, &bzip2.WriterConfig{Level: bzip2.BestCompression}); err != nil {
			return 0, err
		}
		if n, err = io.Copy(zw, src); err != nil {
			return n, err
		}
		if err = zw.Close(); err != nil {
			return n, err
		}
	} else if n, err = io.Copy(bw, src); err != nil {
		return n, err
	}

	return n, bw.Flush()
}
