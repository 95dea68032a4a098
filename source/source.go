// Package source implements loading of Neo source files per spec.md
// §3 "Source file" and §6 "Source input": a filename plus a UTF-8
// byte buffer with a synthetic trailing newline, either owned (loaded
// from disk) or borrowed (supplied in memory). The buffer is not
// NUL-terminated; its end is given by the slice length.
package source

import (
	"bytes"
	"fmt"
	"os"
	"unicode/utf8"

	"golang.org/x/sys/unix"
)

// File is an immutable source unit: its Bytes buffer is never mutated
// or reallocated after Load/Borrow returns, so Spans taken into it
// remain valid for the file's lifetime.
type File struct {
	Name  string
	Bytes []byte
	owned bool
}

const bom0, bom1, bom2 = 0xEF, 0xBB, 0xBF

// Load reads a file from disk, strips a UTF-8 BOM if present,
// collapses CRLF pairs to LF, appends a synthetic trailing LF if one
// isn't already there, validates the result as UTF-8, and returns an
// owned File.
func Load(path string) (*File, error) {
	// golang.org/x/sys/unix.Access probes readability before the
	// (potentially large) read, so a permission failure is reported
	// distinctly from a missing-file error.
	if err := unix.Access(path, unix.R_OK); err != nil {
		return nil, fmt.Errorf("source: cannot access %q: %w", path, err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("source: cannot read %q: %w", path, err)
	}
	buf := normalize(raw)
	if off, ok := firstInvalidUTF8(buf); !ok {
		return nil, fmt.Errorf("source: %q is not valid UTF-8 at byte offset %d", path, off)
	}
	return &File{Name: path, Bytes: buf, owned: true}, nil
}

// Borrow validates an in-memory buffer as UTF-8 without copying it. A
// copy is made only when normalization has to change the bytes: when
// CRLF pairs are collapsed or a missing trailing newline is appended.
func Borrow(name string, buf []byte) (*File, error) {
	normalized := normalize(buf)
	if off, ok := firstInvalidUTF8(normalized); !ok {
		return nil, fmt.Errorf("source: %q is not valid UTF-8 at byte offset %d", name, off)
	}
	return &File{Name: name, Bytes: normalized, owned: false}, nil
}

func normalize(raw []byte) []byte {
	buf := raw
	if len(buf) >= 3 && buf[0] == bom0 && buf[1] == bom1 && buf[2] == bom2 {
		buf = buf[3:]
	}
	if bytes.Contains(buf, []byte("\r\n")) {
		buf = bytes.ReplaceAll(buf, []byte("\r\n"), []byte("\n"))
	}
	if len(buf) == 0 || buf[len(buf)-1] != '\n' {
		out := make([]byte, len(buf)+1)
		copy(out, buf)
		out[len(buf)] = '\n'
		buf = out
	}
	return buf
}

// firstInvalidUTF8 returns the byte offset of the first invalid
// sequence and ok=false, or (0, true) if buf is entirely valid UTF-8.
func firstInvalidUTF8(buf []byte) (int, bool) {
	for i := 0; i < len(buf); {
		r, size := utf8.DecodeRune(buf[i:])
		if r == utf8.RuneError && size <= 1 {
			return i, false
		}
		i += size
	}
	return 0, true
}

// Owned reports whether the File's bytes were allocated by Load
// (true) or borrowed from caller memory via Borrow (false).
func (f *File) Owned() bool { return f.owned }
