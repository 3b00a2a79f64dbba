package vaxpatch

import (
	"io"
	"log/slog"
)

const DefaultBackupSuffix = ".bak"

type config struct {
	target       string
	backupSuffix string
	compress     bool
	echo         io.Writer
	logger       *slog.Logger
}

type FuncOption func(*config)

// WithTarget pre-opens path as the target. It is also the file named by '^*'.
func WithTarget(path string) FuncOption {
	return func(o *config) {
		o.target = path
	}
}

// WithBackupSuffix replaces the ".bak" suffix appended to backup file names.
func WithBackupSuffix(suffix string) FuncOption {
	return func(o *config) {
		o.backupSuffix = suffix
	}
}

// WithCompressedBackup makes '^' write bzip2-compressed backups.
func WithCompressedBackup() FuncOption {
	return func(o *config) {
		o.compress = true
	}
}

// WithEcho sets where ':' echoes script lines. Defaults to io.Discard.
func WithEcho(w io.Writer) FuncOption {
	return func(o *config) {
		o.echo = w
	}
}

func WithLogger(l *slog.Logger) FuncOption {
	return func(o *config) {
		o.logger = l
	}
}
