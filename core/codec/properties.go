package codec

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tfhego/tfhe/utils/buffer"
)

// maxLineLength bounds the length of a line of a property block.
const maxLineLength = 1 << 12

// Properties is a text property block: a type tag and an ordered list of
// named integer or floating point values. It is encoded as
//
//	-----BEGIN TAG-----
//	name = value
//	-----END TAG-----
//
// Integers are written in decimal and floating point values with the shortest
// representation that parses back to the same float64.
type Properties struct {
	Tag    string
	names  []string
	values map[string]string
}

// NewProperties creates an empty property block with the given type tag.
func NewProperties(tag string) *Properties {
	return &Properties{Tag: tag, values: map[string]string{}}
}

func (p *Properties) set(name, value string) {
	if _, ok := p.values[name]; !ok {
		p.names = append(p.names, name)
	}
	p.values[name] = value
}

// SetInt sets the integer property name.
func (p *Properties) SetInt(name string, v int64) {
	p.set(name, strconv.FormatInt(v, 10))
}

// SetFloat sets the floating point property name.
func (p *Properties) SetFloat(name string, v float64) {
	p.set(name, strconv.FormatFloat(v, 'g', -1, 64))
}

// Has returns true if the block has a property name.
func (p *Properties) Has(name string) bool {
	_, ok := p.values[name]
	return ok
}

// Names returns the names of the properties in their order of insertion.
func (p *Properties) Names() []string {
	return append([]string{}, p.names...)
}

// Int returns the integer property name.
func (p *Properties) Int(name string) (v int64, err error) {
	s, ok := p.values[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s block has no property %q", ErrMalformed, p.Tag, name)
	}
	if v, err = strconv.ParseInt(s, 10, 64); err != nil {
		return 0, fmt.Errorf("%w: %s.%s: %w", ErrMalformed, p.Tag, name, err)
	}
	return
}

// Float returns the floating point property name.
func (p *Properties) Float(name string) (v float64, err error) {
	s, ok := p.values[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s block has no property %q", ErrMalformed, p.Tag, name)
	}
	if v, err = strconv.ParseFloat(s, 64); err != nil {
		return 0, fmt.Errorf("%w: %s.%s: %w", ErrMalformed, p.Tag, name, err)
	}
	return
}

func beginLine(tag string) string {
	return "-----BEGIN " + tag + "-----"
}

func endLine(tag string) string {
	return "-----END " + tag + "-----"
}

// String returns the text encoding of the block.
func (p *Properties) String() string {
	var sb strings.Builder
	sb.WriteString(beginLine(p.Tag))
	sb.WriteByte('\n')
	for _, name := range p.names {
		sb.WriteString(name)
		sb.WriteString(" = ")
		sb.WriteString(p.values[name])
		sb.WriteByte('\n')
	}
	sb.WriteString(endLine(p.Tag))
	sb.WriteByte('\n')
	return sb.String()
}

// BinarySize returns the size in bytes of the text encoding of the block.
func (p *Properties) BinarySize() int {
	return len(p.String())
}

// WriteTo writes the text encoding of the block on w.
func (p *Properties) WriteTo(w io.Writer) (n int64, err error) {
	switch w := w.(type) {
	case buffer.Writer:
		if n, err = buffer.WriteString(w, p.String()); err != nil {
			return n, fmt.Errorf("buffer.WriteString: %w", err)
		}
		return n, w.Flush()
	default:
		return p.WriteTo(bufio.NewWriter(w))
	}
}

// ReadProperties reads a property block from r and checks that its type tag is tag.
// A block with another tag yields an error wrapping ErrTypeTag; a block that
// cannot be parsed yields an error wrapping ErrMalformed.
func ReadProperties(r buffer.Reader, tag string) (p *Properties, n int64, err error) {

	var line string
	var inc int64

	// Skips blank lines between blocks
	for line == "" {
		if line, inc, err = readLine(r); err != nil {
			return nil, n + inc, err
		}
		n += inc
	}

	have, hasPrefix := strings.CutPrefix(line, "-----BEGIN ")
	have, hasSuffix := strings.CutSuffix(have, "-----")
	if !hasPrefix || !hasSuffix {
		return nil, n, fmt.Errorf("%w: invalid header %q", ErrMalformed, line)
	}

	if have != tag {
		return nil, n, fmt.Errorf("%w: expected %s but read %s", ErrTypeTag, tag, have)
	}

	p = NewProperties(tag)

	for {

		if line, inc, err = readLine(r); err != nil {
			return nil, n + inc, err
		}

		n += inc

		if line == endLine(tag) {
			return p, n, nil
		}

		name, value, ok := strings.Cut(line, "=")
		name, value = strings.TrimSpace(name), strings.TrimSpace(value)

		if !ok || name == "" || value == "" {
			return nil, n, fmt.Errorf("%w: invalid property line %q in %s block", ErrMalformed, line, tag)
		}

		p.set(name, value)
	}
}

// readLine reads bytes up to and including the next '\n' and returns the line
// without its terminator.
func readLine(r buffer.Reader) (line string, n int64, err error) {

	var sb strings.Builder
	var c uint8
	var inc int64

	for {

		if inc, err = buffer.ReadUint8(r, &c); err != nil {
			if err == io.ErrUnexpectedEOF || err == io.EOF {
				err = fmt.Errorf("%w: unexpected end of stream", ErrMalformed)
			}
			return "", n + inc, err
		}

		n += inc

		if c == '\n' {
			return strings.TrimSuffix(sb.String(), "\r"), n, nil
		}

		if sb.Len() == maxLineLength {
			return "", n, fmt.Errorf("%w: line longer than %d bytes", ErrMalformed, maxLineLength)
		}

		sb.WriteByte(c)
	}
}
