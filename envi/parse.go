package envi

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const headerMarker = "ENVI"

// maximum length of a single header line
const maxLineLength = 16 * 1024 * 1024

var (
	ErrNotHeader       = errors.New("not a recognized header")
	ErrMalformedHeader = errors.New("malformed header")
)

// ReadHeaderFile opens and parses the header at path
func ReadHeaderFile(path string) (Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	h, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return h, nil
}

// Parse reads an ENVI header. The first line must contain the ENVI marker.
// Either a complete header is returned, or an error and no header.
func Parse(r io.Reader) (Header, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedHeader, err)
	}
	if len(lines) == 0 || !strings.Contains(lines[0], headerMarker) {
		return nil, ErrNotHeader
	}

	p := &lineParser{lines: lines[1:]}
	h, err := p.parse()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedHeader, err)
	}
	return h, nil
}

func readLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

type lineParser struct {
	lines []string
	pos   int
}

func (p *lineParser) next() (string, bool) {
	if p.pos >= len(p.lines) {
		return "", false
	}
	line := p.lines[p.pos]
	p.pos++
	return line, true
}

func (p *lineParser) parse() (Header, error) {
	h := make(Header)
	for {
		line, ok := p.next()
		if !ok {
			return h, nil
		}
		if isComment(line) || !strings.Contains(line, "=") {
			continue
		}

		key, val, _ := strings.Cut(line, "=")
		key = strings.ToLower(strings.TrimSpace(key))
		val = strings.TrimSpace(val)

		if !strings.HasPrefix(val, "{") {
			h[key] = ScalarValue(val)
			continue
		}

		txt, err := p.readBlock(key, val)
		if err != nil {
			return nil, err
		}
		if key == KeyDescription {
			h[key] = TextValue(strings.TrimSpace(strings.Trim(txt, "{}")))
			continue
		}
		items := strings.Split(txt[1:len(txt)-1], ",")
		for i := range items {
			items[i] = strings.TrimSpace(items[i])
		}
		h[key] = ListValue(items...)
	}
}

// readBlock accumulates continuation lines until the text ends with a closing brace
// comment lines inside the block are dropped, blank lines are kept
func (p *lineParser) readBlock(key, first string) (string, error) {
	txt := first
	for !strings.HasSuffix(txt, "}") {
		line, ok := p.next()
		if !ok {
			return "", fmt.Errorf("unterminated value for '%s'", key)
		}
		if isComment(line) {
			continue
		}
		txt += "\n" + strings.TrimSpace(line)
	}
	return txt, nil
}

func isComment(line string) bool {
	return strings.HasPrefix(line, ";")
}
