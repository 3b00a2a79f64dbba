package vaxpatch

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ScriptReader yields patch script lines one at a time with line endings removed.
type ScriptReader struct {
	br   *bufio.Reader
	done bool
}

func NewScriptReader(r io.Reader) *ScriptReader {
	return &ScriptReader{
		br: bufio.NewReader(r),
	}
}

// NextLine returns the next line and true, or false once the input is
// exhausted. A final line with no terminating newline is still returned.
func (s *ScriptReader) NextLine() (string, bool, error) {
	if s.done {
		return "", false, nil
	}

	line, err := s.br.ReadString('\n')
	if err == io.EOF {
		s.done = true
		if line == "" {
			return "", false, nil
		}
	} else if err != nil {
		s.done = true
		return "", false, fmt.Errorf("read error: %w", err)
	}

	return strings.TrimRight(line, "\r\n"), true, nil
}
