package main

import (
	"encoding/json"
	"fmt"
	"io"
)

// seal reads plaintext from STDIN and writes a JSON bundle, or a flat
// record with --flat, to STDOUT.
func (c *cli) seal() error {
	password, err := getPasswordWithConfirm("Enter password: ", "Confirm password: ", c.cfg.Password)
	if err != nil {
		return fmt.Errorf("failed to get password: %w", err)
	}
	defer zeroBytes(password)

	plaintext, err := io.ReadAll(c.stdin)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	defer zeroBytes(plaintext)

	if !c.opts.Flat {
		bundle, err := Seal(plaintext, password)
		if err != nil {
			return err
		}
		out, err := json.Marshal(bundle)
		if err != nil {
			return fmt.Errorf("failed to marshal bundle: %w", err)
		}
		c.logger.Debug("sealed bundle", "format", "json", "plaintext_len", len(plaintext))
		_, err = fmt.Fprintf(c.stdout, "%s\n", out)
		return err
	}

	// Flat records are read by the decoder, which pads the password by default
	mode := c.opts.passwordMode()
	key := preparePassword(password, mode)
	defer zeroBytes(key)

	bundle, err := Seal(plaintext, key)
	if err != nil {
		return err
	}
	record, err := FormatRecord(bundle)
	if err != nil {
		return err
	}
	c.logger.Debug("sealed bundle", "format", "flat", "password_mode", mode, "plaintext_len", len(plaintext))
	_, err = fmt.Fprintln(c.stdout, record)
	return err
}
