// Package prompt implements the interactive console menus.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// ErrNoInput is returned when input ends before an answer was given.
var ErrNoInput = errors.New("no more input")

// Prompter reads answers from in and writes menus to out.
type Prompter struct {
	in     *bufio.Reader
	out    io.Writer
	secret func() (string, error)

	heading *color.Color
	warn    *color.Color
	muted   *color.Color
}

// Option configures a Prompter.
type Option func(*Prompter)

// WithColor forces colored output on or off.
func WithColor(enabled bool) Option {
	return func(p *Prompter) {
		for _, c := range []*color.Color{p.heading, p.warn, p.muted} {
			if enabled {
				c.EnableColor()
			} else {
				c.DisableColor()
			}
		}
	}
}

// WithSecretReader replaces how hidden input (passwords) is read.
func WithSecretReader(fn func() (string, error)) Option {
	return func(p *Prompter) {
		if fn != nil {
			p.secret = fn
		}
	}
}

// New builds a prompter over arbitrary streams. Color is off by default.
func New(in io.Reader, out io.Writer, opts ...Option) *Prompter {
	p := &Prompter{
		in:      bufio.NewReader(in),
		out:     out,
		heading: color.New(color.FgCyan, color.Bold),
		warn:    color.New(color.FgYellow),
		muted:   color.New(color.FgHiBlack),
	}
	p.secret = p.readLine
	WithColor(false)(p)
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// TerminalOptions enables color when out is a terminal and hidden password
// input when in is one.
func TerminalOptions(in io.Reader, out io.Writer) []Option {
	var opts []Option
	if f, ok := out.(*os.File); ok {
		opts = append(opts, WithColor(isatty.IsTerminal(f.Fd()) && os.Getenv("NO_COLOR") == ""))
	}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd := int(f.Fd())
		opts = append(opts, WithSecretReader(func() (string, error) {
			data, err := term.ReadPassword(fd)
			fmt.Fprintln(out)
			if err != nil {
				return "", err
			}
			return strings.TrimSpace(string(data)), nil
		}))
	}
	return opts
}

// Heading prints a highlighted line.
func (p *Prompter) Heading(format string, args ...any) {
	fmt.Fprintln(p.out, p.heading.Sprintf(format, args...))
}

// Println prints a plain line.
func (p *Prompter) Println(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Warn prints a highlighted warning line.
func (p *Prompter) Warn(format string, args ...any) {
	fmt.Fprintln(p.out, p.warn.Sprintf(format, args...))
}

// Rule prints a separator.
func (p *Prompter) Rule() {
	fmt.Fprintln(p.out, p.muted.Sprint(strings.Repeat("=", 40)))
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrNoInput
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Line asks msg and returns the trimmed answer.
func (p *Prompter) Line(msg string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", msg)
	return p.readLine()
}

// Required repeats the question until the answer is non-empty.
func (p *Prompter) Required(msg string) (string, error) {
	for {
		answer, err := p.Line(msg)
		if err != nil || answer != "" {
			return answer, err
		}
	}
}

// Secret asks for hidden input.
func (p *Prompter) Secret(msg string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", msg)
	return p.secret()
}

// YesNo repeats the question until the answer is y or n.
func (p *Prompter) YesNo(msg string) (bool, error) {
	for {
		answer, err := p.Line(msg + " (y/n)")
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "y":
			return true, nil
		case "n":
			return false, nil
		}
		p.Warn("Please enter y or n")
	}
}

// Confirm asks a yes/no question where an empty answer takes def.
func (p *Prompter) Confirm(msg string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	answer, err := p.Line(fmt.Sprintf("%s [%s]", msg, hint))
	if err != nil {
		return false, err
	}
	if answer == "" {
		return def, nil
	}
	return strings.HasPrefix(strings.ToLower(answer), "y"), nil
}

// Choice prints a numbered list and returns the zero-based index picked.
// An empty or unparsable answer takes def; numbers are clamped to the list.
func (p *Prompter) Choice(msg string, choices []string, def int) (int, error) {
	p.Println("%s", msg)
	for i, c := range choices {
		marker := ""
		if i == def {
			marker = " (default)"
		}
		p.Println("  %d. %s%s", i+1, c, marker)
	}
	answer, err := p.Line(fmt.Sprintf("Select (1-%d)", len(choices)))
	if err != nil {
		return def, err
	}
	n, convErr := strconv.Atoi(answer)
	if convErr != nil {
		return def, nil
	}
	return max(0, min(len(choices)-1, n-1)), nil
}
