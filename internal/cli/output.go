// Package cli provides the terminal front end of detmath: result decoding and
// display, file export, shell completion, the spinner and the interactive
// REPL.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/agbru/detmath/internal/abi"
	"github.com/agbru/detmath/internal/dispatch"
	"github.com/agbru/detmath/pkg/models"
)

// OutputConfig holds configuration for result output.
type OutputConfig struct {
	// OutputFile is the path to save the result (empty for no file output).
	OutputFile string
	// HexOutput adds the raw result words to the display.
	HexOutput bool
	// Quiet prints only the decoded value.
	Quiet bool
	// JSON prints a models.CallResponse document instead of text.
	JSON bool
}

// Result is one completed invocation as seen by the front end.
type Result struct {
	Selector dispatch.Selector
	Calldata []byte
	Output   []byte
	Duration time.Duration
}

// NewResult builds a Result, reading the selector from calldata.
func NewResult(calldata, output []byte, duration time.Duration) Result {
	return Result{
		Selector: dispatch.Selector(abi.Calldata(calldata).Selector()),
		Calldata: calldata,
		Output:   output,
		Duration: duration,
	}
}

// Name returns the operation name, or the selector in hex when it is not
// part of the table.
func (r Result) Name() string { return r.Selector.String() }

// Value returns the decoded result. Unknown selectors have no result
// description; their output is shown as hex words.
func (r Result) Value() string {
	op, ok := dispatch.Lookup(r.Selector)
	if !ok {
		return FormatWords(r.Output)
	}
	v, err := FormatResult(op, r.Output)
	if err != nil {
		return FormatWords(r.Output)
	}
	return v
}

// Response converts r to its JSON document.
func (r Result) Response() models.CallResponse {
	return models.CallResponse{
		Op:       r.Name(),
		Selector: fmt.Sprintf("0x%02x", uint32(r.Selector)),
		Calldata: abi.EncodeHex(r.Calldata),
		Output:   abi.EncodeHex(r.Output),
		Words:    WordStrings(r.Output),
		Value:    r.Value(),
		Duration: r.Duration.String(),
	}
}

// WriteResultToFile writes a result and its provenance to config.OutputFile.
// It does nothing when no file is configured.
//
// Parameters:
//   - r: The completed invocation.
//   - config: Output configuration.
//
// Returns:
//   - error: An error if the file cannot be written.
func WriteResultToFile(r Result, config OutputConfig) error {
	if config.OutputFile == "" {
		return nil
	}

	dir := filepath.Dir(config.OutputFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(config.OutputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if config.JSON {
		enc := json.NewEncoder(file)
		enc.SetIndent("", "  ")
		return enc.Encode(r.Response())
	}

	fmt.Fprintf(file, "# detmath result\n")
	fmt.Fprintf(file, "# Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(file, "# Operation: %s (0x%02x)\n", r.Name(), uint32(r.Selector))
	fmt.Fprintf(file, "# Calldata: %s\n", abi.EncodeHex(r.Calldata))
	fmt.Fprintf(file, "# Duration: %s\n", r.Duration)
	fmt.Fprintf(file, "\n%s\n", r.Value())
	if config.HexOutput {
		fmt.Fprintf(file, "\n%s\n", FormatWords(r.Output))
	}
	return nil
}

// FormatQuietResult formats a result for quiet mode: the decoded value, or
// the concatenated output in hex when hexOutput is set.
func FormatQuietResult(r Result, hexOutput bool) string {
	if hexOutput {
		return abi.EncodeHex(r.Output)
	}
	return r.Value()
}

// DisplayResult prints a result in the standard layout.
func DisplayResult(out io.Writer, r Result, hexOutput bool) {
	fmt.Fprintf(out, "%s--- Result ---%s\n", ColorBold(), ColorReset())
	fmt.Fprintf(out, "Operation : %s%s%s (0x%02x)\n", ColorBlue(), r.Name(), ColorReset(), uint32(r.Selector))
	if op, ok := dispatch.Lookup(r.Selector); ok {
		fmt.Fprintf(out, "Encoding  : %s\n", describeResult(op.Result))
	}
	fmt.Fprintf(out, "Value     : %s%s%s\n", ColorMagenta(), r.Value(), ColorReset())
	fmt.Fprintf(out, "Time      : %s%s%s\n", ColorGreen(), FormatExecutionDuration(r.Duration), ColorReset())
	if hexOutput {
		fmt.Fprintf(out, "\n%sRaw words:%s\n%s\n", ColorBold(), ColorReset(), FormatWords(r.Output))
	}
}

func describeResult(res dispatch.Result) string {
	kind := res.Kind.String()
	if res.Fixed {
		kind = "fixed " + kind
	}
	return fmt.Sprintf("%s of %s, %d bytes", res.Shape, kind, res.Size())
}

// DisplayResultWithConfig displays a result with the given output
// configuration. This is the single entry point used by the single-call
// mode.
//
// Parameters:
//   - out: The output writer.
//   - r: The completed invocation.
//   - config: Output configuration.
//
// Returns:
//   - error: An error if encoding or file output fails.
func DisplayResultWithConfig(out io.Writer, r Result, config OutputConfig) error {
	switch {
	case config.JSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r.Response()); err != nil {
			return err
		}
	case config.Quiet:
		fmt.Fprintln(out, FormatQuietResult(r, config.HexOutput))
	default:
		DisplayResult(out, r, config.HexOutput)
	}

	if config.OutputFile != "" {
		if err := WriteResultToFile(r, config); err != nil {
			return err
		}
		if !config.Quiet && !config.JSON {
			fmt.Fprintf(out, "\n%s✓ Result saved to: %s%s%s\n",
				ColorGreen(), ColorBlue(), config.OutputFile, ColorReset())
		}
	}
	return nil
}
