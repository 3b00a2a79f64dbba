package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/kalafut/vaxpatch"
)

type CLI struct {
	Script string `arg:"" optional:"" help:"Patch script (default patch.txt)."`
	Target string `arg:"" optional:"" help:"Target file to open before the script runs. Required by '^*'."`

	Config         string `name:"config" short:"c" type:"existingfile" help:"HCL configuration file."`
	LogLevel       string `name:"log-level" help:"Log level: debug, info, warn or error."`
	BackupSuffix   string `name:"backup-suffix" help:"Suffix for backup files (default .bak)."`
	CompressBackup bool   `name:"compress-backup" help:"Write bzip2-compressed backups."`
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error applying patch: %s\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("vaxpatch"),
		kong.Description("Apply a patch script to a binary file."),
		kong.Writers(stdout, stderr),
	)
	if err != nil {
		return err
	}
	if _, err := parser.Parse(args); err != nil {
		return fmt.Errorf("%w: %s", vaxpatch.ErrUsage, err)
	}

	cfg := &vaxpatch.Config{}
	if cli.Config != "" {
		if cfg, err = vaxpatch.LoadConfig(cli.Config); err != nil {
			return err
		}
	}

	logger, err := newLogger(stderr, firstOf(cli.LogLevel, cfg.LogLevel, "info"))
	if err != nil {
		return err
	}

	opts := append(cfg.Options(),
		vaxpatch.WithEcho(stdout),
		vaxpatch.WithLogger(logger),
	)
	if cli.BackupSuffix != "" {
		opts = append(opts, vaxpatch.WithBackupSuffix(cli.BackupSuffix))
	}
	if cli.CompressBackup {
		opts = append(opts, vaxpatch.WithCompressedBackup())
	}
	if cli.Target != "" {
		opts = append(opts, vaxpatch.WithTarget(cli.Target))
	}

	p, err := vaxpatch.New(opts...)
	if err != nil {
		return err
	}
	defer p.Close()

	script := firstOf(cli.Script, cfg.Script, vaxpatch.DefaultScript)
	f, err := os.Open(script)
	if err != nil {
		return fmt.Errorf("can't open input file '%s': %w", script, err)
	}
	defer f.Close()

	logger.Debug("Applying patch script.", "script", script, "target", cli.Target)
	return p.Run(f)
}

func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return nil, fmt.Errorf("%w: invalid log level %q", vaxpatch.ErrUsage, level)
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

func firstOf(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
