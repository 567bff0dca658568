package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Exit codes of the decode command
const (
	exitInvalidArguments = 255
	exitAuthFailure      = 2
)

// open reads a JSON bundle from STDIN and writes the plaintext to STDOUT
func (c *cli) open() error {
	data, err := io.ReadAll(c.stdin)
	if err != nil {
		return fmt.Errorf("failed to read bundle: %w", err)
	}

	var bundle Bundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return fmt.Errorf("failed to parse bundle (is it a valid sealed bundle?): %w", err)
	}

	password, err := getPassword("Enter password: ", c.cfg.Password)
	if err != nil {
		return fmt.Errorf("failed to get password: %w", err)
	}
	defer zeroBytes(password)

	plaintext, err := Open(&bundle, password)
	if err != nil {
		return fmt.Errorf("decryption failed (wrong password or corrupted data?): %w", err)
	}
	defer zeroBytes(plaintext)

	_, err = c.stdout.Write(plaintext)
	return err
}

// decode parses a flat record, prints its fields and then tries to open it
func (c *cli) decode(args []string) error {
	if len(args) < 2 || strings.TrimSpace(args[0]) == "" || args[1] == "" {
		fmt.Fprintln(c.stdout, "invalid parameters")
		fmt.Fprintln(c.stdout, "usage: trackerseal decode [options] <record> <password>")
		return &exitError{code: exitInvalidArguments}
	}

	rec, err := ParseRecord(args[0])
	if err != nil {
		return &exitError{code: exitInvalidArguments, err: fmt.Errorf("%w: %w", ErrInvalidArguments, err)}
	}

	fmt.Fprintf(c.stdout, "Salt: %s\n", rec.SaltHex)
	fmt.Fprintf(c.stdout, "Nonce: %s\n", rec.NonceHex)
	fmt.Fprintf(c.stdout, "Tag: %s\n", rec.TagHex)
	fmt.Fprintf(c.stdout, "Raw data:%s\n", rec.CiphertextHex)
	fmt.Fprintln(c.stdout)

	password := []byte(args[1])
	defer zeroBytes(password)

	mode := c.opts.passwordMode()
	plaintext, err := rec.Open(password, mode)
	if errors.Is(err, ErrAuthenticationFailure) {
		c.logger.Debug("record did not authenticate", "password_mode", mode)
		fmt.Fprintln(c.stdout, "Incorrect decryption")
		if c.cfg.StrictExit {
			return &exitError{code: exitAuthFailure}
		}
		return nil
	}
	if err != nil {
		return err
	}
	defer zeroBytes(plaintext)

	fmt.Fprintf(c.stdout, "Decrypted text: %s\n", plaintext)
	return nil
}
