package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"
)

const Version = "1.0.0"

// cli is one invocation: its streams, configuration and logger
type cli struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	cfg    *Config
	opts   Options
	logger *slog.Logger
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		var exit *exitError
		if errors.As(err, &exit) {
			if exit.err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", exit.err)
			}
			os.Exit(exit.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func addCommonFlags(flagSet *pflag.FlagSet, opts *Options) {
	flagSet.StringVar(&opts.EnvFile, "env-file", "", "load environment variables from this file (default: ./"+defaultEnvFile+" when present)")
	flagSet.BoolVar(&opts.Verbose, "verbose", false, "enable debug logging")
}

// commandFlags returns the flag set of a command. Parsing stops at the
// first positional argument, so positionals such as passwords are taken
// verbatim even when they start with a dash.
func commandFlags(name string, opts *Options) (*pflag.FlagSet, bool) {
	flagSet := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flagSet.SetInterspersed(false)
	flagSet.SetOutput(io.Discard)

	switch name {
	case "seal":
		flagSet.BoolVar(&opts.Flat, "flat", false, "write a flat hex record instead of JSON")
		flagSet.BoolVar(&opts.RawPassword, "raw-password", false, "with --flat, use the password bytes without 32-byte padding")
	case "decode":
		flagSet.BoolVar(&opts.RawPassword, "raw-password", false, "use the password bytes without 32-byte padding")
		flagSet.BoolVar(&opts.StrictExit, "strict-exit", false, "exit with status 2 when the record does not authenticate")
	case "provision":
		flagSet.StringVarP(&opts.OutPath, "out", "o", defaultOutPath, "where to write the sealed config info")
		flagSet.StringVar(&opts.Directory, "directory", "", "sqlite user directory (default: "+defaultDirectory+")")
		flagSet.StringVar(&opts.DatabaseURL, "db-url", "", "tracker database URL (default: $"+DatabaseURLEnvVar+")")
	case "open", "padkey", "userkey":
	default:
		return nil, false
	}
	addCommonFlags(flagSet, opts)
	return flagSet, true
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	opts := Options{OutPath: defaultOutPath}
	var showHelp, showVersion bool

	flagSet := pflag.NewFlagSet("trackerseal", pflag.ContinueOnError)
	flagSet.SetInterspersed(false)
	flagSet.SetOutput(io.Discard)
	addCommonFlags(flagSet, &opts)
	flagSet.BoolVarP(&showHelp, "help", "h", false, "show help")
	flagSet.BoolVar(&showVersion, "version", false, "show version")

	if err := flagSet.Parse(args); err != nil {
		printUsage(stderr)
		return fmt.Errorf("%w: %w", ErrInvalidArguments, err)
	}

	if showVersion {
		fmt.Fprintf(stderr, "trackerseal version %s\n", Version)
		return nil
	}

	positional := flagSet.Args()
	if showHelp || (len(positional) > 0 && positional[0] == "help") {
		printUsage(stderr)
		return nil
	}
	if len(positional) == 0 {
		printUsage(stderr)
		return fmt.Errorf("%w: no command specified", ErrInvalidArguments)
	}

	command := positional[0]
	if command == "version" {
		fmt.Fprintf(stderr, "trackerseal version %s\n", Version)
		return nil
	}

	commandSet, ok := commandFlags(command, &opts)
	if !ok {
		printUsage(stderr)
		return fmt.Errorf("%w: unknown command: %s", ErrInvalidArguments, command)
	}
	if err := commandSet.Parse(positional[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printUsage(stderr)
			return nil
		}
		printUsage(stderr)
		return fmt.Errorf("%w: %s: %w", ErrInvalidArguments, command, err)
	}
	rest := commandSet.Args()

	cfg, err := loadConfig(opts.EnvFile)
	if err != nil {
		return err
	}
	cfg.apply(&opts)

	c := &cli{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		cfg:    cfg,
		opts:   opts,
		logger: newLogger(stderr, cfg.LogLevel),
	}

	switch command {
	case "seal":
		return c.seal()
	case "open":
		return c.open()
	case "decode":
		return c.decode(rest)
	case "padkey":
		return c.padKey(rest)
	case "userkey":
		return c.userKey(rest)
	default:
		return c.provision(rest)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, `trackerseal - GPS tracker config sealing and provisioning

USAGE:
    trackerseal [--env-file FILE] [--verbose] <command> [options] [arguments]

Command options go before the arguments. Everything after the first
argument is taken as-is, so passwords may start with a dash.

COMMANDS:
    seal [--flat] [--raw-password]
                                   Seal STDIN with a password, write the bundle to STDOUT
    open                           Open a JSON bundle from STDIN, write the plaintext to STDOUT
    decode [--raw-password] [--strict-exit] <record> <password>
                                   Decode and open a flat hex record
    padkey <password>              Print the 32-byte padded password as hex
    userkey <uid> <user> <key> <salt>
                                   Print the SHA-256 user key
    provision [-o FILE] [--directory DB] [--db-url URL] <email> <password>
                                   Create a tracker user and write its sealed config info
    help, version

OPTIONS:
    --flat              seal: write a flat hex record instead of JSON
    --raw-password      seal --flat, decode: skip the 32-byte password padding
    --strict-exit       decode: exit with status 2 when the record does not authenticate
    -o, --out FILE      provision: sealed config info destination (default: %s)
    --directory DB      provision: sqlite user directory (default: %s)
    --db-url URL        provision: tracker database URL (default: $%s)
    --env-file FILE     load environment variables (default: ./%s when present)
    --verbose           enable debug logging

PASSWORD:
    seal and open read %s, or prompt interactively.

EXAMPLES:
    # Seal a config as a JSON bundle
    cat config.json | trackerseal seal > config.sealed

    # Seal as a flat record and decode it again
    trackerseal seal --flat < config.json
    trackerseal decode 032a1b2...  hunter2

`, defaultOutPath, defaultDirectory, DatabaseURLEnvVar, defaultEnvFile, PasswordEnvVar)
}
