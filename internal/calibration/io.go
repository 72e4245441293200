package calibration

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/agbru/detmath/internal/cli"
)

// printCalibrationResults formats the cost table.
func printCalibrationResults(out io.Writer, p *Profile) {
	fmt.Fprintf(out, "\n--- Calibration Summary ---\n")
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "%sSelector%s\t%sOperation%s\t%sns/op%s\t%sWeight%s\n",
		cli.ColorBold(), cli.ColorReset(), cli.ColorBold(), cli.ColorReset(),
		cli.ColorBold(), cli.ColorReset(), cli.ColorBold(), cli.ColorReset())
	for _, c := range p.Costs {
		fmt.Fprintf(tw, "0x%02x\t%s%s%s\t%s%.1f%s\t%d\n",
			c.Selector, cli.ColorBlue(), c.Name, cli.ColorReset(),
			cli.ColorYellow(), c.NsPerOp, cli.ColorReset(), c.Weight)
	}
	tw.Flush()
	fmt.Fprintf(out, "\nProfile: %s (took %s)\n", p, p.CalibrationTime)
}
