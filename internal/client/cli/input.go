package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// PasswordEnvVar supplies the delete password when -p is not given.
const PasswordEnvVar = "JARVAULT_PASSWORD"

// readPassword is a test seam for term.ReadPassword.
// In tests you can replace it with a stub to avoid touching the terminal.
var readPassword = term.ReadPassword

// stdinIsTerminal is a test seam for term.IsTerminal on stdin.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

var errNoPassword = errors.New("password required: use -p, $" + PasswordEnvVar + " or run interactively")

// GetPassword prints a password prompt to w and reads a password
// from the user's terminal without echo. A newline is printed after
// the read to keep the UI tidy.
func GetPassword(w io.Writer) ([]byte, error) {
	if _, err := fmt.Fprint(w, "Enter delete password: "); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

// resolvePassword picks the flag value, then the environment, then prompts.
func (a *App) resolvePassword(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if v, ok := os.LookupEnv(PasswordEnvVar); ok && v != "" {
		return v, nil
	}
	if !stdinIsTerminal() {
		return "", errNoPassword
	}

	pw, err := GetPassword(a.errOut)
	if err != nil {
		return "", err
	}
	s := strings.TrimSpace(string(pw))
	if s == "" {
		return "", errNoPassword
	}
	return s, nil
}
