package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
)

// padKey prints the PKCS#7-padded password as hex
func (c *cli) padKey(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("%w: usage: trackerseal padkey <password>", ErrInvalidArguments)
	}
	padded := pkcs7Pad([]byte(args[0]), PasswordBlockSize)
	defer zeroBytes(padded)
	_, err := fmt.Fprintln(c.stdout, hex.EncodeToString(padded))
	return err
}

func (c *cli) userKey(args []string) error {
	if len(args) < 4 {
		return fmt.Errorf("%w: usage: trackerseal userkey <uid> <username> <key> <salt>", ErrInvalidArguments)
	}
	_, err := fmt.Fprintln(c.stdout, UserKey(args[0], args[1], args[2], args[3]))
	return err
}

// provision creates a user in the sqlite directory and writes config_info
func (c *cli) provision(args []string) error {
	if len(args) < 2 {
		fmt.Fprintln(c.stdout, "Wrong command parameters. Correct format is: trackerseal provision <USER_EMAIL> <PASSWORD>")
		return &exitError{code: exitInvalidArguments}
	}
	if c.cfg.DatabaseURL == "" {
		return fmt.Errorf("%w: database URL not set (use --db-url or %s)", ErrInvalidArguments, DatabaseURLEnvVar)
	}

	password, err := requirePassword([]byte(args[1]))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArguments, err)
	}
	defer zeroBytes(password)

	ctx := context.Background()
	dir, err := openSQLiteDirectory(ctx, c.cfg.Directory)
	if err != nil {
		return err
	}
	defer dir.Close()

	result, err := provision(ctx, c.logger, dir, ProvisionRequest{
		Email:       args[0],
		Password:    password,
		DatabaseURL: c.cfg.DatabaseURL,
	})
	if err != nil {
		return err
	}

	if err := os.WriteFile(c.opts.OutPath, result.ConfigInfo, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", c.opts.OutPath, err)
	}

	fmt.Fprintf(c.stdout, "Successfully created new user: %s\n", result.UserID)
	return nil
}
