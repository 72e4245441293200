package config

import (
	"flag"
	"fmt"
	"os"

	"github.com/agbru/detmath/internal/ui"
)

// setCustomUsage installs a coloured usage printer on fs.
func setCustomUsage(fs *flag.FlagSet) {
	fs.Usage = func() {
		t := ui.GetCurrentTheme()
		if _, ok := os.LookupEnv("NO_COLOR"); ok {
			t = ui.NoColorTheme
		}
		out := fs.Output()

		fmt.Fprintf(out, "\n%sdetmath%s\n", t.Bold, t.Reset)
		fmt.Fprintf(out, "Deterministic integer math and crypto primitives behind a selector ABI.\n\n")
		fmt.Fprintf(out, "%sUsage:%s\n", t.Warning, t.Reset)
		fmt.Fprintf(out, "  %s -op <name> -args a,b,c\n", fs.Name())
		fmt.Fprintf(out, "  %s -calldata 0x<selector><words>\n", fs.Name())
		fmt.Fprintf(out, "  %s -batch calls.json | -server | -interactive | -calibrate\n\n", fs.Name())
		fmt.Fprintf(out, "%sFlags:%s\n", t.Warning, t.Reset)

		fs.VisitAll(func(f *flag.Flag) {
			name, usage := flag.UnquoteUsage(f)
			sig := "-" + f.Name
			if name != "" {
				sig += " " + name
			}
			fmt.Fprintf(out, "  %s%-25s%s %s", t.Primary, sig, t.Reset, usage)
			if f.DefValue != "" && f.DefValue != "0" && f.DefValue != "false" {
				fmt.Fprintf(out, " %s(default %s)%s", t.Secondary, f.DefValue, t.Reset)
			}
			fmt.Fprintln(out)
		})
		fmt.Fprintln(out)
	}
}
