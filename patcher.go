// Package vaxpatch applies line-oriented patch scripts to binary files. A
// script opens a target, seeks to hex offsets, verifies the bytes it expects
// to find and overwrites them with new ones, optionally making a backup first.
//
// Directives, one per line, tagged by the first character:
//
//	: text     echo this and every following line
//	# text     comment (as is a line starting with a space)
//	! path     open path as the target
//	^ path     open path and copy it to path.bak
//	^*         copy the command-line target to <target>.bak
//	@ 1f0      set the cursor to offset 0x1f0
//	> 00 ff    verify bytes at the cursor
//	< 90 90    write bytes at the cursor
package vaxpatch

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Target is the file being patched.
type Target interface {
	io.ReadWriteSeeker
	io.Closer
}

// Patcher holds the interpreter state for one script run.
type Patcher struct {
	cfg config

	target     Target
	targetName string
	cursor     int64
	echo       bool
	line       int
}

// New returns a Patcher. If WithTarget was given the target is opened now.
func New(o ...FuncOption) (*Patcher, error) {
	cfg := config{
		backupSuffix: DefaultBackupSuffix,
		echo:         io.Discard,
	}

	for _, f := range o {
		f(&cfg)
	}

	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	p := &Patcher{cfg: cfg}
	if cfg.target != "" {
		if err := p.open(cfg.target); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Run executes every line of script in order, stopping at the first error.
// The target is closed before Run returns.
func (p *Patcher) Run(script io.Reader) (err error) {
	defer func() {
		if cerr := p.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	sr := NewScriptReader(script)
	for {
		line, ok, err := sr.NextLine()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		p.line++
		if err := p.Exec(line); err != nil {
			return &LineError{Line: p.line, Text: line, Err: err}
		}
	}
}

// Exec executes a single directive line. Trailing line endings must already
// be removed.
func (p *Patcher) Exec(line string) error {
	if p.echo {
		fmt.Fprintln(p.cfg.echo, line)
	}

	if len(line) == 0 {
		return nil
	}

	payload := line[1:]

	switch line[0] {
	case ':':
		fmt.Fprintln(p.cfg.echo, line)
		p.echo = true
		return nil
	case '#', ' ':
		return nil
	case '!':
		return p.open(strings.TrimSpace(payload))
	case '^':
		return p.backup(strings.TrimSpace(payload))
	case '@':
		return p.seek(payload)
	case '>':
		return p.verify(payload)
	case '<':
		return p.write(payload)
	default:
		return fmt.Errorf("%w '%s'", ErrUnknownDirective, line)
	}
}

// Cursor returns the offset set by the last '@'.
func (p *Patcher) Cursor() int64 {
	return p.cursor
}

// Close releases the target, if one is open.
func (p *Patcher) Close() error {
	if p.target == nil {
		return nil
	}

	err := p.target.Close()
	p.target = nil
	if err != nil {
		return fmt.Errorf("error closing target '%s': %w", p.targetName, err)
	}
	return nil
}

func (p *Patcher) open(name string) error {
	if err := p.Close(); err != nil {
		return err
	}

	f, err := os.OpenFile(name, os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("can't open target file '%s': %w", name, err)
	}

	p.target = f
	p.targetName = name
	p.cfg.logger.Debug("Opened target.", "path", name)

	return nil
}

func (p *Patcher) backup(name string) error {
	if name == "*" {
		if p.cfg.target == "" {
			return ErrNoCmdTarget
		}
		name = p.cfg.target
	} else if err := p.open(name); err != nil {
		return err
	}

	if p.target == nil {
		return ErrNoTarget
	}

	bak := p.backupName(name)
	n, err := createBackup(bak, p.target, p.cfg.compress)
	if err != nil {
		return err
	}

	if _, err := p.target.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("seek error: %w", err)
	}

	p.cfg.logger.Debug("Created backup.", "path", bak, "bytes", n)
	return nil
}

func (p *Patcher) seek(payload string) error {
	if p.target == nil {
		return ErrNoTarget
	}

	p.cursor = parseOffset(payload)
	p.cfg.logger.Debug("Seek.", "offset", p.cursor)

	return p.restore()
}

func (p *Patcher) verify(payload string) error {
	if p.target == nil {
		return ErrNoTarget
	}

	want, err := decodeHexPairs(payload)
	if err != nil {
		return err
	}

	start, err := p.target.Seek(0, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("seek error: %w", err)
	}

	got := make([]byte, len(want))
	n, err := io.ReadFull(p.target, got)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return fmt.Errorf("error reading target: %w", err)
	}

	for i, b := range want {
		actual := EOF
		if i < n {
			actual = int(got[i])
		}
		if actual != int(b) {
			return &MismatchError{
				Offset:   start + int64(i),
				Expected: b,
				Actual:   actual,
			}
		}
	}

	p.cfg.logger.Debug("Verified.", "offset", start, "bytes", len(want))
	return p.restore()
}

func (p *Patcher) write(payload string) error {
	if p.target == nil {
		return ErrNoTarget
	}

	data, err := decodeHexPairs(payload)
	if err != nil {
		return err
	}

	if _, err := p.target.Write(data); err != nil {
		return fmt.Errorf("error writing target: %w", err)
	}

	p.cfg.logger.Debug("Wrote.", "bytes", len(data))
	return p.restore()
}

// restore puts the target back at the cursor.
func (p *Patcher) restore() error {
	if _, err := p.target.Seek(p.cursor, io.SeekStart); err != nil {
		return fmt.Errorf("seek error: %w", err)
	}
	return nil
}
