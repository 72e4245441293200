package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/agbru/detmath/internal/abi"
	"github.com/agbru/detmath/internal/curve"
	"github.com/agbru/detmath/internal/dispatch"
	"github.com/agbru/detmath/internal/service"
)

// Executor runs raw call data. service.Service satisfies it.
type Executor interface {
	Execute(ctx context.Context, calldata []byte) ([]byte, error)
}

type statsReporter interface {
	Stats() service.Stats
}

// REPLConfig holds configuration for the REPL session.
type REPLConfig struct {
	// Timeout bounds each invocation.
	Timeout time.Duration
	// HexOutput adds raw result words to every answer.
	HexOutput bool
}

// REPL is an interactive session that encodes, runs and decodes calls.
type REPL struct {
	config REPLConfig
	exec   Executor
	in     io.Reader
	out    io.Writer
}

// NewREPL creates a REPL reading from stdin and writing to stdout.
func NewREPL(exec Executor, config REPLConfig) *REPL {
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	return &REPL{
		config: config,
		exec:   exec,
		in:     os.Stdin,
		out:    os.Stdout,
	}
}

// SetInput sets a custom input reader.
func (r *REPL) SetInput(in io.Reader) {
	r.in = in
}

// SetOutput sets a custom output writer.
func (r *REPL) SetOutput(out io.Writer) {
	r.out = out
}

// Start runs the session until exit or EOF.
func (r *REPL) Start() {
	r.printBanner()
	r.printHelp()
	fmt.Fprintln(r.out)

	reader := bufio.NewReader(r.in)
	for {
		fmt.Fprint(r.out, ColorGreen()+"detmath> "+ColorReset())

		input, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			fmt.Fprintf(r.out, "%sRead error: %v%s\n", ColorRed(), err, ColorReset())
			continue
		}
		eof := errors.Is(err, io.EOF)

		if input = strings.TrimSpace(input); input != "" {
			if !r.processCommand(input) {
				return
			}
		}
		if eof {
			fmt.Fprintln(r.out, "\nGoodbye!")
			return
		}
	}
}

func (r *REPL) printBanner() {
	fmt.Fprintf(r.out, "\n%s╔══════════════════════════════════════════════════════════╗%s\n", ColorCyan(), ColorReset())
	fmt.Fprintf(r.out, "%s║%s     %sdetmath - deterministic arithmetic, interactive%s     %s║%s\n",
		ColorCyan(), ColorReset(), ColorBold(), ColorReset(), ColorCyan(), ColorReset())
	fmt.Fprintf(r.out, "%s╚══════════════════════════════════════════════════════════╝%s\n\n", ColorCyan(), ColorReset())
}

func (r *REPL) printHelp() {
	fmt.Fprintf(r.out, "%sAvailable commands:%s\n", ColorBold(), ColorReset())
	lines := [][2]string{
		{"<op> <args...>", "Invoke an operation, e.g. modexp 4 13 497"},
		{"call <op> <args...>", "Same as above"},
		{"raw <hex>", "Invoke raw call data"},
		{"ops", "List operations"},
		{"describe <op>", "Show parameters and result encoding"},
		{"curve-check <x> <y> <a> <b> <m>", "Test whether a point lies on a curve"},
		{"hex", "Toggle raw word display"},
		{"status", "Display session settings and counters"},
		{"help", "Display this help"},
		{"exit / quit", "Exit interactive mode"},
	}
	for _, l := range lines {
		fmt.Fprintf(r.out, "  %s%-32s%s - %s\n", ColorYellow(), l[0], ColorReset(), l[1])
	}
}

// processCommand parses and executes one line. It returns false when the
// session should end.
func (r *REPL) processCommand(input string) bool {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return true
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "call", "c":
		if len(args) == 0 {
			fmt.Fprintf(r.out, "%sUsage: call <op> <args...>%s\n", ColorRed(), ColorReset())
			return true
		}
		r.cmdCall(args[0], args[1:])
	case "raw":
		r.cmdRaw(args)
	case "ops", "list", "ls":
		r.cmdOps()
	case "describe", "desc":
		r.cmdDescribe(args)
	case "curve-check":
		r.cmdCurveCheck(args)
	case "hex":
		r.cmdHex()
	case "status", "st":
		r.cmdStatus()
	case "help", "h", "?":
		r.printHelp()
	case "exit", "quit", "q":
		fmt.Fprintf(r.out, "%sGoodbye!%s\n", ColorGreen(), ColorReset())
		return false
	default:
		if _, ok := dispatch.ByName(cmd); ok {
			r.cmdCall(cmd, args)
		} else {
			fmt.Fprintf(r.out, "%sUnknown command: %s%s\n", ColorRed(), cmd, ColorReset())
			fmt.Fprintf(r.out, "Type %shelp%s to see available commands.\n", ColorYellow(), ColorReset())
		}
	}
	return true
}

func (r *REPL) cmdCall(name string, args []string) {
	cd, err := dispatch.EncodeCall(name, args)
	if err != nil {
		fmt.Fprintf(r.out, "%sError: %v%s\n", ColorRed(), err, ColorReset())
		if op, ok := dispatch.ByName(strings.ToLower(name)); ok {
			fmt.Fprintf(r.out, "Usage: %s\n", op.Usage())
		}
		return
	}
	r.run(cd)
}

func (r *REPL) cmdRaw(args []string) {
	if len(args) != 1 {
		fmt.Fprintf(r.out, "%sUsage: raw <hex>%s\n", ColorRed(), ColorReset())
		return
	}
	cd, err := abi.DecodeHex(args[0])
	if err != nil {
		fmt.Fprintf(r.out, "%sInvalid call data: %v%s\n", ColorRed(), err, ColorReset())
		return
	}
	r.run(cd)
}

func (r *REPL) run(cd []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), r.config.Timeout)
	defer cancel()

	start := time.Now()
	out, err := r.exec.Execute(ctx, cd)
	if err != nil {
		fmt.Fprintf(r.out, "%sError: %v%s\n", ColorRed(), err, ColorReset())
		return
	}
	res := NewResult(cd, out, time.Since(start))

	fmt.Fprintf(r.out, "  %s%s%s = %s%s%s  (%s)\n",
		ColorBlue(), res.Name(), ColorReset(),
		ColorMagenta(), res.Value(), ColorReset(),
		FormatExecutionDuration(res.Duration))
	if r.config.HexOutput {
		for _, w := range WordStrings(out) {
			fmt.Fprintf(r.out, "    %s\n", w)
		}
	}
}

func (r *REPL) cmdOps() {
	fmt.Fprintf(r.out, "\n%sOperations:%s\n", ColorBold(), ColorReset())
	for _, op := range dispatch.Operations() {
		fmt.Fprintf(r.out, "  0x%02x %s%-16s%s %s\n", uint32(op.Selector), ColorYellow(), op.Name, ColorReset(), op.Summary)
	}
	fmt.Fprintln(r.out)
}

func (r *REPL) cmdDescribe(args []string) {
	if len(args) != 1 {
		fmt.Fprintf(r.out, "%sUsage: describe <op>%s\n", ColorRed(), ColorReset())
		return
	}
	op, ok := dispatch.ByName(strings.ToLower(args[0]))
	if !ok {
		fmt.Fprintf(r.out, "%sUnknown operation: %s%s\n", ColorRed(), args[0], ColorReset())
		return
	}
	fmt.Fprintf(r.out, "%s (0x%02x): %s\n", op.Name, uint32(op.Selector), op.Summary)
	fmt.Fprintf(r.out, "  Usage:  %s\n", op.Usage())
	for _, p := range op.Params {
		kind := p.Kind.String()
		if p.Fixed {
			kind = "fixed-point " + kind
		}
		fmt.Fprintf(r.out, "  %-8s %s\n", p.Name, kind)
	}
	fmt.Fprintf(r.out, "  Result: %s\n", describeResult(op.Result))
}

func (r *REPL) cmdCurveCheck(args []string) {
	if len(args) != 5 {
		fmt.Fprintf(r.out, "%sUsage: curve-check <x> <y> <a> <b> <m>%s\n", ColorRed(), ColorReset())
		return
	}
	var v [5]uint64
	for i, s := range args {
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			fmt.Fprintf(r.out, "%sInvalid value: %s%s\n", ColorRed(), s, ColorReset())
			return
		}
		v[i] = n
	}
	p := curve.Affine(v[0], v[1])
	if p.OnCurve(v[2], v[3], v[4]) {
		fmt.Fprintf(r.out, "  %s%s is on y² = x³ + %dx + %d (mod %d)%s\n", ColorGreen(), p, v[2], v[3], v[4], ColorReset())
	} else {
		fmt.Fprintf(r.out, "  %s%s is not on y² = x³ + %dx + %d (mod %d)%s\n", ColorRed(), p, v[2], v[3], v[4], ColorReset())
	}
}

func (r *REPL) cmdHex() {
	r.config.HexOutput = !r.config.HexOutput
	status := "disabled"
	if r.config.HexOutput {
		status = "enabled"
	}
	fmt.Fprintf(r.out, "Raw word display: %s%s%s\n", ColorGreen(), status, ColorReset())
}

func (r *REPL) cmdStatus() {
	fmt.Fprintf(r.out, "\n%sCurrent configuration:%s\n", ColorBold(), ColorReset())
	fmt.Fprintf(r.out, "  Timeout:     %s%s%s\n", ColorCyan(), r.config.Timeout, ColorReset())
	hexStatus := "no"
	if r.config.HexOutput {
		hexStatus = "yes"
	}
	fmt.Fprintf(r.out, "  Raw words:   %s%s%s\n", ColorCyan(), hexStatus, ColorReset())
	if sr, ok := r.exec.(statsReporter); ok {
		st := sr.Stats()
		fmt.Fprintf(r.out, "  Calls:       %s%d%s\n", ColorCyan(), st.Calls, ColorReset())
		fmt.Fprintf(r.out, "  Cache hits:  %s%d%s\n", ColorCyan(), st.CacheHits, ColorReset())
		fmt.Fprintf(r.out, "  Faults:      %s%d%s\n", ColorCyan(), st.Faults, ColorReset())
		fmt.Fprintf(r.out, "  Rejected:    %s%d%s\n", ColorCyan(), st.Rejected, ColorReset())
	}
	fmt.Fprintln(r.out)
}
