package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/anordqvist/shopdesk/internal/domain"
)

// Prompter is a blocking prompt → read one line → validate exchange over
// plain text.
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), out: out}
}

func (p *Prompter) Printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}

func (p *Prompter) Line(prompt string) string {
	fmt.Fprint(p.out, prompt)
	if !p.in.Scan() {
		return ""
	}
	return strings.TrimSpace(p.in.Text())
}

func (p *Prompter) Int64(prompt string) (int64, error) {
	s := p.Line(prompt)
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", domain.ErrInvalidInput, s)
	}
	return n, nil
}

// Quantity reads a positive integer; non-numeric and non-positive input both
// report domain.ErrInvalidQuantity so the operator loop can re-prompt.
func (p *Prompter) Quantity(prompt string) (int, error) {
	s := p.Line(prompt)
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, domain.ErrInvalidQuantity
	}
	return n, nil
}

// parseID turns an already-read answer into a number, for optional fields
// where blank means "skip".
func (p *Prompter) parseID(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", domain.ErrInvalidInput, s)
	}
	return n, nil
}

func (p *Prompter) YesNo(prompt string) bool {
	return strings.EqualFold(p.Line(prompt), "y")
}

// money renders cents as a plain decimal amount.
func money(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
