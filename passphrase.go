package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"runtime"
	"syscall"

	"golang.org/x/term"
)

// zeroBytes overwrites a byte slice with zeros
func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}

// errEmptyPassword is returned when a password is given as nothing
var errEmptyPassword = errors.New("password cannot be empty")

// getPassword returns envPass when set, otherwise prompts on the terminal
func getPassword(prompt, envPass string) ([]byte, error) {
	if envPass != "" {
		return []byte(envPass), nil
	}
	password, err := readPassword(prompt)
	if err != nil {
		return nil, err
	}
	return requirePassword(password)
}

// requirePassword rejects an empty password. A bundle sealed under an empty
// password opens for anyone, so no command accepts one.
func requirePassword(password []byte) ([]byte, error) {
	if len(password) == 0 {
		return nil, errEmptyPassword
	}
	return password, nil
}

func getPasswordWithConfirm(prompt, confirmPrompt, envPass string) ([]byte, error) {
	if envPass != "" {
		return []byte(envPass), nil
	}

	password, err := readPassword(prompt)
	if err != nil {
		return nil, err
	}
	if _, err := requirePassword(password); err != nil {
		return nil, err
	}

	confirm, err := readPassword(confirmPrompt)
	if err != nil {
		zeroBytes(password)
		return nil, err
	}

	if !bytes.Equal(password, confirm) {
		zeroBytes(password)
		zeroBytes(confirm)
		return nil, fmt.Errorf("passwords do not match")
	}

	zeroBytes(confirm)
	return password, nil
}

func readPassword(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)

	var password []byte
	var err error

	if term.IsTerminal(int(syscall.Stdin)) {
		password, err = term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(os.Stderr)
	} else {
		// STDIN carries data, so read the password from the controlling terminal
		tty, ttyErr := os.Open("/dev/tty")
		if ttyErr != nil {
			if runtime.GOOS == "windows" {
				return nil, fmt.Errorf("password must be set via %s environment variable when STDIN is piped", PasswordEnvVar)
			}
			return nil, fmt.Errorf("cannot read password: STDIN is piped and /dev/tty is not available. Set %s environment variable", PasswordEnvVar)
		}
		defer tty.Close()

		password, err = term.ReadPassword(int(tty.Fd()))
		fmt.Fprintln(os.Stderr)
	}

	if err != nil {
		return nil, err
	}
	return password, nil
}
