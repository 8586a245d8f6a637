package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/emsqi/spc/internal/analytics/spc"
	"github.com/emsqi/spc/internal/logging"
)

var chartTypeCmd = &cobra.Command{
	Use:   "chart-type [data-type]",
	Short: "Show the control chart used for a data type",
	Long: `Print the chart type chosen for a data type.

proportion maps to p-chart, rate to u-chart and anything else to i-mr.
With --list, print every registered chart type instead.

Example:
  spc chart-type proportion
  spc chart-type --list`,
	Args: cobra.MaximumNArgs(1),
	RunE: runChartType,
}

var chartTypeList bool

func init() {
	rootCmd.AddCommand(chartTypeCmd)

	chartTypeCmd.Flags().BoolVar(&chartTypeList, "list", false, "list registered chart types")
}

func runChartType(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if chartTypeList {
		for _, ct := range spc.ListCalculators() {
			_, _ = fmt.Fprintln(out, ct)
		}
		return nil
	}

	if len(args) == 0 {
		return fmt.Errorf("data type required (proportion|rate|continuous)")
	}

	dataType := spc.DataType(args[0])
	if !dataType.Valid() {
		logging.Warn("Unknown data type, charting as continuous", "data_type", args[0])
	}

	_, err := fmt.Fprintln(out, spc.ChartTypeForDataType(dataType))
	return err
}
