package formats

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Terrain profile errors.
var (
	ErrMalformedProfile = errors.New("malformed terrain profile")
	ErrInvalidDimension = errors.New("invalid profile dimension")
)

// EmptyColumn marks a column that no directive filled.
const EmptyColumn = -1

// Profile is a parsed terrain profile: the solid height of every column.
// A column with height h is solid from row 0 up to and including row h.
//
// The text format is a whitespace separated list of directives, each
// consuming one or more columns left to right:
//
//	<y>               one column of height y
//	<y>,<count>       count columns of height y
//	<y>r<top>         a ramp from y toward top, one row per column
//	<y>r<top>,<step>  a ramp moving |step| rows per column
type Profile struct {
	Heights []int
}

// Columns returns the number of columns the profile describes.
func (p *Profile) Columns() int {
	return len(p.Heights)
}

// Filled returns the number of columns holding ground.
func (p *Profile) Filled() int {
	n := 0
	for _, h := range p.Heights {
		if h != EmptyColumn {
			n++
		}
	}
	return n
}

// String encodes the profile back into directive form, collapsing runs of
// equal height into <y>,<count>. Empty columns are written as height 0
// since the format has no way to express them.
func (p *Profile) String() string {
	var sb strings.Builder
	for i := 0; i < len(p.Heights); {
		h := max(p.Heights[i], 0)
		j := i + 1
		for j < len(p.Heights) && max(p.Heights[j], 0) == h {
			j++
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(strconv.Itoa(h))
		if run := j - i; run > 1 {
			sb.WriteByte(',')
			sb.WriteString(strconv.Itoa(run))
		}
		i = j
	}
	return sb.String()
}

// LoadProfile reads and parses a profile file.
func LoadProfile(path string, width, maxRow int) (*Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening profile: %w", err)
	}
	defer f.Close()

	return ParseProfile(f, width, maxRow)
}

// ParseProfile parses profile directives for a grid width columns wide.
// Heights are clamped to [0, maxRow]; directives past the last column are
// ignored.
func ParseProfile(r io.Reader, width, maxRow int) (*Profile, error) {
	if width <= 0 || maxRow < 0 {
		return nil, fmt.Errorf("%w: width %d, max row %d", ErrInvalidDimension, width, maxRow)
	}

	p := &Profile{Heights: make([]int, width)}
	for i := range p.Heights {
		p.Heights[i] = EmptyColumn
	}

	clampRow := func(y int) int {
		return min(max(y, 0), maxRow)
	}
	fill := func(from, to, y int) {
		for x := from; x < to && x < width; x++ {
			p.Heights[x] = clampRow(y)
		}
	}

	s := &profileScanner{r: bufio.NewReader(r)}
	x := 0
	for x < width {
		if err := s.skipSpace(); err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}

		y, err := s.readInt()
		if err != nil {
			return nil, err
		}
		y = clampRow(y)

		if err := s.skipSpace(); err != nil && err != io.EOF {
			return nil, err
		}

		switch s.accept(',', 'r') {
		case ',':
			count, err := s.readInt()
			if err != nil {
				return nil, err
			}
			if count > 0 {
				end := min(x+count, width)
				fill(x, end, y)
				x = end
			}

		case 'r':
			top, err := s.readInt()
			if err != nil {
				return nil, err
			}

			step := 1
			if err := s.skipSpace(); err != nil && err != io.EOF {
				return nil, err
			}
			if s.accept(',') == ',' {
				if step, err = s.readInt(); err != nil {
					return nil, err
				}
			}
			if step == 0 {
				step = 1
			}

			rise := top - y
			if (rise < 0 && step > 0) || (rise > 0 && step < 0) {
				step = -step
			}

			end := min(x+abs(rise)/abs(step), width)
			for ; x < end; x++ {
				// A ramp running below the bottom row leaves its columns empty.
				if y < 0 {
					p.Heights[x] = EmptyColumn
				} else {
					p.Heights[x] = clampRow(y)
				}
				y += step
			}

		default:
			fill(x, x+1, y)
			x++
		}
	}

	return p, nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// profileScanner is a byte-level tokenizer that tracks its offset for
// error messages.
type profileScanner struct {
	r   *bufio.Reader
	off int
}

func (s *profileScanner) next() (byte, error) {
	b, err := s.r.ReadByte()
	if err == nil {
		s.off++
	}
	return b, err
}

func (s *profileScanner) back() {
	_ = s.r.UnreadByte()
	s.off--
}

// skipSpace consumes whitespace and returns io.EOF if nothing follows.
func (s *profileScanner) skipSpace() error {
	for {
		b, err := s.next()
		if err != nil {
			return err
		}
		switch b {
		case ' ', '\t', '\n', '\r', '\v', '\f':
			continue
		}
		s.back()
		return nil
	}
}

// accept consumes the next byte if it is one of want and returns it,
// otherwise returns 0 and consumes nothing.
func (s *profileScanner) accept(want ...byte) byte {
	b, err := s.next()
	if err != nil {
		return 0
	}
	for _, w := range want {
		if b == w {
			return b
		}
	}
	s.back()
	return 0
}

// readInt reads an optionally signed decimal integer, skipping leading
// whitespace.
func (s *profileScanner) readInt() (int, error) {
	if err := s.skipSpace(); err != nil {
		if err == io.EOF {
			return 0, fmt.Errorf("%w: offset %d: unexpected end of input", ErrMalformedProfile, s.off)
		}
		return 0, err
	}

	start := s.off
	var digits []byte
	if b := s.accept('-', '+'); b != 0 {
		digits = append(digits, b)
	}
	for {
		b, err := s.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, err
		}
		if b < '0' || b > '9' {
			s.back()
			break
		}
		digits = append(digits, b)
	}

	v, err := strconv.Atoi(string(digits))
	if err != nil {
		found := "end of input"
		if b, perr := s.r.Peek(1); perr == nil {
			found = strconv.QuoteRune(rune(b[0]))
		}
		return 0, fmt.Errorf("%w: offset %d: expected integer, found %s", ErrMalformedProfile, start, found)
	}
	return v, nil
}
