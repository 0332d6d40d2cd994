package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// prompt prints label and reads one trimmed line. EOF after partial input
// returns what was read.
func (a *App) prompt(label string) (string, error) {
	if _, err := fmt.Fprintf(a.out, "%s: ", label); err != nil {
		return "", err
	}
	line, err := a.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads a password without echo when stdin is a terminal,
// and as a plain line otherwise so input can be piped.
func (a *App) promptPassword() (string, error) {
	if a.stdin == nil || !term.IsTerminal(int(a.stdin.Fd())) {
		line, err := a.prompt("Password")
		if err != nil {
			return "", err
		}
		return line, nil
	}

	if _, err := fmt.Fprint(a.out, "Password: "); err != nil {
		return "", err
	}
	pw, err := term.ReadPassword(int(a.stdin.Fd()))
	fmt.Fprintln(a.out)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

// valueOr returns v, or prompts for it when empty.
func (a *App) valueOr(v, label string) (string, error) {
	if v != "" {
		return v, nil
	}
	return a.prompt(label)
}

func stdinFile(r io.Reader) *os.File {
	f, _ := r.(*os.File)
	return f
}
