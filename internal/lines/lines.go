// Package lines classifies the lines of a file as code, comment or blank.
//
// Detection is a line-based heuristic shared by all languages: a line whose
// first non-blank characters are a comment marker counts as a comment, and
// block comments are tracked across lines by a two-state machine. It is not
// a lexer, so markers inside strings or after code on the same line are not
// recognized as such.
package lines

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// NoExtension is the extension key for files without a suffix.
const NoExtension = "(no extension)"

// maxLineLength bounds a single line read by the scanner.
const maxLineLength = 16 * 1024 * 1024

// ErrRead is returned when a file cannot be read or decoded.
var ErrRead = errors.New("reading file")

// Count holds line counts. Total always equals Code + Comments + Blank for
// code files; non-code files only report Total.
type Count struct {
	Total    int `json:"total"`
	Code     int `json:"code"`
	Comments int `json:"comments"`
	Blank    int `json:"blank"`
}

// Add accumulates other into c.
func (c *Count) Add(other Count) {
	c.Total += other.Total
	c.Code += other.Code
	c.Comments += other.Comments
	c.Blank += other.Blank
}

// FileInfo is the classification result for one file.
type FileInfo struct {
	Extension  string `json:"extension"`
	Lines      Count  `json:"lines"`
	IsCodeFile bool   `json:"is_code_file"`
}

// Extension returns the lower-cased extension of path including the leading
// dot, or NoExtension.
func Extension(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" || ext == "." {
		return NoExtension
	}

	return ext
}

// Classify reads the file at path and counts its lines.
func Classify(path string) (FileInfo, error) {
	info := FileInfo{
		Extension:  Extension(path),
		IsCodeFile: IsCodeExtension(Extension(path)),
	}

	// Lstat first: opening a FIFO blocks and symlinks are not followed.
	stat, err := os.Lstat(path)
	if err != nil {
		return FileInfo{}, fmt.Errorf("%w %q: %w", ErrRead, path, err)
	}

	if !stat.Mode().IsRegular() {
		return FileInfo{}, fmt.Errorf("%w %q: not a regular file (%s)", ErrRead, path, stat.Mode().Type())
	}

	file, err := os.Open(path)
	if err != nil {
		return FileInfo{}, fmt.Errorf("%w %q: %w", ErrRead, path, err)
	}
	defer file.Close()

	if info.IsCodeFile {
		info.Lines, err = CountCode(file)
	} else {
		info.Lines, err = CountRaw(file)
	}

	if err != nil {
		return FileInfo{}, fmt.Errorf("%w %q: %w", ErrRead, path, err)
	}

	return info, nil
}

// CountRaw counts lines without classifying them. A trailing newline does not
// start a new line.
func CountRaw(r io.Reader) (Count, error) {
	var (
		total int
		last  byte = '\n'
		buf        = make([]byte, 32*1024)
	)

	for {
		n, err := r.Read(buf)
		if n > 0 {
			total += bytes.Count(buf[:n], []byte{'\n'})
			last = buf[n-1]
		}

		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return Count{}, err
		}
	}

	if last != '\n' {
		total++
	}

	return Count{Total: total}, nil
}

// CountCode classifies every line read from r.
func CountCode(r io.Reader) (Count, error) {
	var (
		count Count
		state = Normal
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)

	for scanner.Scan() {
		line := scanner.Bytes()
		if !utf8.Valid(line) {
			return Count{}, errors.New("content is not valid UTF-8")
		}

		var kind Kind

		kind, state = Step(state, string(line))

		count.Total++

		switch kind {
		case Blank:
			count.Blank++
		case Comment:
			count.Comments++
		case Code:
			count.Code++
		}
	}

	if err := scanner.Err(); err != nil {
		return Count{}, err
	}

	return count, nil
}
