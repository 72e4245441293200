package cli

import (
	"fmt"
	"io"
	"strings"
)

// completionFlag describes one command-line flag for the completion
// generators. Values lists suggested arguments; "@ops" expands to the
// operation names and "@files" requests file completion.
type completionFlag struct {
	name   string
	short  string
	desc   string
	values string
}

var completionFlags = []completionFlag{
	{name: "help", short: "h", desc: "Show help message"},
	{name: "version", short: "V", desc: "Show version information"},
	{name: "op", desc: "Operation to invoke", values: "@ops"},
	{name: "args", desc: "Comma-separated operation arguments"},
	{name: "calldata", desc: "Raw hex call data"},
	{name: "batch", desc: "JSON batch file", values: "@files"},
	{name: "server", desc: "Start HTTP server mode"},
	{name: "port", desc: "Server port", values: "8080 3000 5000 9000"},
	{name: "trusted-proxies", desc: "Proxies whose X-Forwarded-For is honoured"},
	{name: "interactive", desc: "Start interactive REPL mode"},
	{name: "calibrate", desc: "Measure per-operation cost"},
	{name: "calibration-profile", desc: "Calibration profile file", values: "@files"},
	{name: "json", desc: "Output in JSON format"},
	{name: "hex", desc: "Show raw result words"},
	{name: "quiet", short: "q", desc: "Quiet mode for scripts"},
	{name: "no-color", desc: "Disable colored output"},
	{name: "output", short: "o", desc: "Output file path", values: "@files"},
	{name: "completion", desc: "Generate completion script", values: "bash zsh fish powershell"},
	{name: "timeout", desc: "Maximum execution time", values: "1s 5s 30s 1m 5m"},
	{name: "concurrency", desc: "Parallel calls in batch mode", values: "1 2 4 8 16"},
	{name: "cache-size", desc: "Result cache entries (0 disables)", values: "0 1024 4096 65536"},
	{name: "max-calldata", desc: "Largest accepted call data in bytes", values: "4096 65536"},
	{name: "strict", desc: "Reject non-canonical argument words"},
	{name: "log-level", desc: "Log level", values: "debug info warn error"},
}

// GenerateCompletion generates a shell completion script for the specified
// shell.
//
// Parameters:
//   - out: The writer to output the completion script.
//   - shell: The shell type ("bash", "zsh", "fish", "powershell").
//   - ops: Operation names offered after --op.
//
// Returns:
//   - error: An error if the shell is not supported.
func GenerateCompletion(out io.Writer, shell string, ops []string) error {
	switch shell {
	case "bash":
		return generateBashCompletion(out, ops)
	case "zsh":
		return generateZshCompletion(out, ops)
	case "fish":
		return generateFishCompletion(out, ops)
	case "powershell", "ps":
		return generatePowerShellCompletion(out, ops)
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: bash, zsh, fish, powershell)", shell)
	}
}

func (f completionFlag) expand(ops []string) string {
	if f.values == "@ops" {
		return strings.Join(ops, " ")
	}
	return f.values
}

func generateBashCompletion(out io.Writer, ops []string) error {
	var opts []string
	var cases strings.Builder
	for _, f := range completionFlags {
		opts = append(opts, "--"+f.name)
		pattern := "--" + f.name
		if f.short != "" {
			opts = append(opts, "-"+f.short)
			pattern += "|-" + f.short
		}
		switch f.values {
		case "":
		case "@files":
			fmt.Fprintf(&cases, "        %s)\n            COMPREPLY=( $(compgen -f -- \"${cur}\") )\n            return 0\n            ;;\n", pattern)
		default:
			fmt.Fprintf(&cases, "        %s)\n            COMPREPLY=( $(compgen -W \"%s\" -- \"${cur}\") )\n            return 0\n            ;;\n", pattern, f.expand(ops))
		}
	}

	_, err := fmt.Fprintf(out, `# Bash completion script for detmath
# Add this to your ~/.bashrc or ~/.bash_completion

_detmath_completions() {
    local cur prev opts
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"
    opts="%s"

    case "${prev}" in
%s    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=( $(compgen -W "${opts}" -- "${cur}") )
        return 0
    fi
}

complete -F _detmath_completions detmath
`, strings.Join(opts, " "), cases.String())
	return err
}

func generateZshCompletion(out io.Writer, ops []string) error {
	specs := make([]string, 0, len(completionFlags))
	for _, f := range completionFlags {
		action := ""
		switch f.values {
		case "":
		case "@files":
			action = ":file:_files"
		default:
			action = fmt.Sprintf(":%s:(%s)", f.name, f.expand(ops))
		}
		if f.short != "" {
			specs = append(specs, fmt.Sprintf("'(-%s --%s)'{-%s,--%s}'[%s]%s'", f.short, f.name, f.short, f.name, f.desc, action))
		} else {
			specs = append(specs, fmt.Sprintf("'--%s[%s]%s'", f.name, f.desc, action))
		}
	}

	_, err := fmt.Fprintf(out, `#compdef detmath

# Zsh completion script for detmath
# Add this to your ~/.zshrc or place in $fpath

_detmath() {
    _arguments -s \
        %s
}

_detmath "$@"
`, strings.Join(specs, " \\\n        "))
	return err
}

func generateFishCompletion(out io.Writer, ops []string) error {
	var sb strings.Builder
	sb.WriteString("# Fish completion script for detmath\n")
	sb.WriteString("# Save to ~/.config/fish/completions/detmath.fish\n\n")
	sb.WriteString("complete -c detmath -f\n")
	for _, f := range completionFlags {
		line := "complete -c detmath -l " + f.name
		if f.short != "" {
			line += " -s " + f.short
		}
		line += fmt.Sprintf(" -d '%s'", f.desc)
		switch f.values {
		case "":
		case "@files":
			line += " -r -F"
		default:
			line += fmt.Sprintf(" -x -a '%s'", f.expand(ops))
		}
		sb.WriteString(line + "\n")
	}
	_, err := io.WriteString(out, sb.String())
	return err
}

func generatePowerShellCompletion(out io.Writer, ops []string) error {
	var names, values strings.Builder
	for i, f := range completionFlags {
		if i > 0 {
			names.WriteString(", ")
		}
		fmt.Fprintf(&names, "'--%s'", f.name)
		if f.short != "" {
			fmt.Fprintf(&names, ", '-%s'", f.short)
		}
		if f.values != "" && f.values != "@files" {
			quoted := strings.Fields(f.expand(ops))
			for j := range quoted {
				quoted[j] = "'" + quoted[j] + "'"
			}
			fmt.Fprintf(&values, "        '--%s' = @(%s)\n", f.name, strings.Join(quoted, ", "))
		}
	}

	_, err := fmt.Fprintf(out, `# PowerShell completion script for detmath
# Add this to your PowerShell profile

Register-ArgumentCompleter -Native -CommandName detmath -ScriptBlock {
    param($wordToComplete, $commandAst, $cursorPosition)

    $flags = @(%s)
    $values = @{
%s    }

    $elements = $commandAst.CommandElements
    if ($elements.Count -ge 2) {
        $prev = $elements[$elements.Count - 1].ToString()
        if ($wordToComplete -ne '') { $prev = $elements[$elements.Count - 2].ToString() }
        if ($values.ContainsKey($prev)) {
            $values[$prev] | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
                [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
            }
            return
        }
    }

    $flags | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
        [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterName', $_)
    }
}
`, names.String(), values.String())
	return err
}
