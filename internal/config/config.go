// Package config parses and validates the detmath command line. Values come
// from flags first, then DETMATH_ environment variables, then defaults.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net/netip"
	"slices"
	"strings"
	"time"

	"github.com/agbru/detmath/internal/abi"
	apperrors "github.com/agbru/detmath/internal/errors"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "DETMATH_"

// Default configuration values.
const (
	DefaultTimeout     = 30 * time.Second
	DefaultPort        = "8080"
	DefaultConcurrency = 4
	DefaultCacheSize   = 4096
	// DefaultMaxCalldata admits the widest call (selector plus 8 words) with
	// generous room for trailing bytes.
	DefaultMaxCalldata = 4096
	DefaultLogLevel    = "info"
)

// CompletionShells lists the shells accepted by -completion.
var CompletionShells = []string{"bash", "zsh", "fish", "powershell"}

var logLevels = []string{"trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled"}

// AppConfig holds every setting of a detmath run.
type AppConfig struct {
	// Op is the operation name for a single call, e.g. "modexp".
	Op string
	// Args holds the operation arguments: the -args value split on commas
	// and whitespace, followed by positional arguments.
	Args []string
	// Calldata is raw hex call data; mutually exclusive with Op.
	Calldata string

	// BatchFile is a JSON file of calls to run concurrently.
	BatchFile string
	// ServerMode starts the HTTP API on Port.
	ServerMode bool
	Port       string
	// TrustedProxies lists reverse proxy addresses or CIDR ranges whose
	// forwarding headers the server believes.
	TrustedProxies []string
	// Interactive starts the REPL.
	Interactive bool
	// Calibrate measures per-operation cost and saves a profile.
	Calibrate bool
	// CalibrationProfile overrides ~/.detmath_calibration.json.
	CalibrationProfile string

	JSONOutput bool
	HexOutput  bool
	Quiet      bool
	NoColor    bool
	OutputFile string
	// Completion is the shell to print a completion script for.
	Completion string

	Timeout     time.Duration
	Concurrency int
	CacheSize   int
	MaxCalldata int
	// Strict rejects argument words with non-zero padding bytes.
	Strict   bool
	LogLevel string
}

// Validate checks value ranges and cross-flag consistency.
//
// Parameters:
//   - knownOps: The operation names accepted by -op.
//
// Returns:
//   - error: A ConfigError describing the first problem, or nil.
func (c AppConfig) Validate(knownOps []string) error {
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("timeout value must be strictly positive")
	}
	if c.Concurrency < 1 {
		return apperrors.NewConfigError("concurrency must be at least 1: %d", c.Concurrency)
	}
	if c.CacheSize < 0 {
		return apperrors.NewConfigError("cache size cannot be negative: %d", c.CacheSize)
	}
	if c.MaxCalldata < abi.SelectorSize {
		return apperrors.NewConfigError("max-calldata must be at least %d bytes: %d", abi.SelectorSize, c.MaxCalldata)
	}
	if c.Op != "" && c.Calldata != "" {
		return apperrors.NewConfigError("-op and -calldata cannot be combined")
	}
	if c.Op != "" && !slices.Contains(knownOps, c.Op) {
		return apperrors.NewConfigError("unrecognized operation: '%s'. Valid operations are: [%s]", c.Op, strings.Join(knownOps, ", "))
	}
	if c.Calldata != "" {
		raw, err := abi.DecodeHex(c.Calldata)
		if err != nil {
			return apperrors.NewConfigError("invalid -calldata: %v", err)
		}
		if len(raw) > c.MaxCalldata {
			return apperrors.NewConfigError("-calldata is %d bytes, limit is %d", len(raw), c.MaxCalldata)
		}
	}
	if c.Completion != "" && !slices.Contains(CompletionShells, c.Completion) {
		return apperrors.NewConfigError("unsupported shell '%s' for completion (supported: %s)", c.Completion, strings.Join(CompletionShells, ", "))
	}
	for _, p := range c.TrustedProxies {
		if _, err := netip.ParsePrefix(p); err == nil {
			continue
		}
		if _, err := netip.ParseAddr(p); err != nil {
			return apperrors.NewConfigError("invalid trusted proxy '%s': want an address or CIDR range", p)
		}
	}
	if !slices.Contains(logLevels, c.LogLevel) {
		return apperrors.NewConfigError("unknown log level '%s'", c.LogLevel)
	}
	return nil
}

// HasCall reports whether a single call was requested.
func (c AppConfig) HasCall() bool { return c.Op != "" || c.Calldata != "" }

// splitArgs splits on commas and whitespace, dropping empty fields.
func splitArgs(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
}

// ParseConfig parses args into an AppConfig and validates it.
//
// Parameters:
//   - programName: The name shown in usage text.
//   - args: Command-line arguments, typically os.Args[1:].
//   - errorWriter: Destination for parse errors and usage.
//   - knownOps: Operation names accepted by -op.
//
// Returns:
//   - AppConfig: The populated configuration.
//   - error: flag.ErrHelp, a parse error, or a validation error.
func ParseConfig(programName string, args []string, errorWriter io.Writer, knownOps []string) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)

	config := AppConfig{}
	var argList, proxyList string
	fs.StringVar(&config.Op, "op", "", fmt.Sprintf("Operation to call, one of [%s].", strings.Join(knownOps, ", ")))
	fs.StringVar(&argList, "args", "", "Operation arguments, comma or space separated.")
	fs.StringVar(&config.Calldata, "calldata", "", "Raw hex call data (4-byte selector followed by 32-byte words).")

	fs.StringVar(&config.BatchFile, "batch", "", "Run the calls listed in a JSON file.")
	fs.BoolVar(&config.ServerMode, "server", false, "Start in HTTP server mode.")
	fs.StringVar(&config.Port, "port", DefaultPort, "Port to listen on in server mode.")
	fs.StringVar(&proxyList, "trusted-proxies", "", "Comma-separated proxy addresses or CIDR ranges whose X-Forwarded-For is honoured.")
	fs.BoolVar(&config.Interactive, "interactive", false, "Start in interactive REPL mode.")
	fs.BoolVar(&config.Calibrate, "calibrate", false, "Measure the cost of every operation and save a profile.")
	fs.StringVar(&config.CalibrationProfile, "calibration-profile", "", "Path to calibration profile file (default: ~/.detmath_calibration.json).")

	fs.BoolVar(&config.JSONOutput, "json", false, "Output results in JSON format.")
	fs.BoolVar(&config.HexOutput, "hex", false, "Print the raw output words in hex.")
	fs.BoolVar(&config.Quiet, "quiet", false, "Quiet mode - print only the result.")
	fs.BoolVar(&config.Quiet, "q", false, "Quiet mode (shorthand).")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output (also respects NO_COLOR env var).")
	fs.StringVar(&config.OutputFile, "output", "", "Write the result to a file.")
	fs.StringVar(&config.OutputFile, "o", "", "Output file path (shorthand).")
	fs.StringVar(&config.Completion, "completion", "", "Generate shell completion script (bash, zsh, fish, powershell).")

	fs.DurationVar(&config.Timeout, "timeout", DefaultTimeout, "Maximum execution time.")
	fs.IntVar(&config.Concurrency, "concurrency", DefaultConcurrency, "Parallel calls in batch mode.")
	fs.IntVar(&config.CacheSize, "cache-size", DefaultCacheSize, "Result cache entries (0 disables the cache).")
	fs.IntVar(&config.MaxCalldata, "max-calldata", DefaultMaxCalldata, "Largest accepted call data in bytes.")
	fs.BoolVar(&config.Strict, "strict", false, "Reject argument words with non-zero padding bytes.")
	fs.StringVar(&config.LogLevel, "log-level", DefaultLogLevel, "Log level: debug, info, warn, error.")

	setCustomUsage(fs)

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}

	applyEnvOverrides(&config, &argList, &proxyList, fs)

	config.Op = strings.ToLower(strings.TrimSpace(config.Op))
	config.LogLevel = strings.ToLower(config.LogLevel)
	config.Args = append(splitArgs(argList), fs.Args()...)
	config.TrustedProxies = splitArgs(proxyList)

	if err := config.Validate(knownOps); err != nil {
		fmt.Fprintln(errorWriter, "Configuration error:", err)
		fs.Usage()
		return AppConfig{}, errors.Join(errors.New("invalid configuration"), err)
	}
	return config, nil
}
