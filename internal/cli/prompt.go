package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// prompter reads answers from the command's stdin. Labels go to stderr so
// JSON on stdout stays parseable.
type prompter struct {
	in     io.Reader
	errOut io.Writer
	reader *bufio.Reader
}

func newPrompter(in io.Reader, errOut io.Writer) *prompter {
	return &prompter{in: in, errOut: errOut, reader: bufio.NewReader(in)}
}

// Line prompts for visible input.
func (p *prompter) Line(label string) (string, error) {
	fmt.Fprintf(p.errOut, "%s: ", label)
	line, err := p.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimSpace(line), nil
}

// Secret prompts for hidden input when stdin is a terminal and falls back to
// reading a line otherwise, so passwords can be piped in.
func (p *prompter) Secret(label string) (string, error) {
	f, ok := p.in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return p.Line(label)
	}

	fmt.Fprintf(p.errOut, "%s: ", label)
	secret, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(p.errOut)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
	}
	return string(secret), nil
}

// valueOrPrompt returns v, prompting for it when empty.
func (p *prompter) valueOrPrompt(v, label string) (string, error) {
	if v != "" {
		return v, nil
	}
	v, err := p.Line(label)
	if err != nil {
		return "", err
	}
	if v == "" {
		return "", usageErrorf("%s is required", strings.ToLower(label))
	}
	return v, nil
}
