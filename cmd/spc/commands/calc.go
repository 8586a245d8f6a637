package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/emsqi/spc/internal/cache"
	"github.com/emsqi/spc/internal/logging"
	"github.com/emsqi/spc/internal/services"
)

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Compute a control chart",
	Long: `Compute a control chart from a JSON series and print it as JSON.

The input is either a JSON array or an object with a "points" or "entries"
array. Points already hold one value per period. Entries are raw division
submissions which are aggregated per period first (--entries).

Point:  {"period": "2024-01", "value": 12.5, "numerator": 5, "denominator": 40}
Entry:  {"division_id": "north", "period": "2024-01", "numerator": 5, "denominator": 40}

Example:
  spc calc --type proportion --input falls.json
  spc calc --type rate --baseline-start 2023-01 --baseline-end 2023-12 < infections.json
  spc calc --type continuous --entries --division north --summary --input entries.json`,
	RunE: runCalc,
}

var (
	// calc flags
	calcDataType      string
	calcInputPath     string
	calcEntries       bool
	calcDivision      string
	calcMetric        string
	calcSigma         float64
	calcBaselineStart string
	calcBaselineEnd   string
	calcSummary       bool
	calcPretty        bool
)

func init() {
	rootCmd.AddCommand(calcCmd)

	calcCmd.Flags().StringVarP(&calcDataType, "type", "t", "", "data type (proportion|rate|continuous)")
	calcCmd.Flags().StringVarP(&calcInputPath, "input", "i", "-", "input JSON file, - for stdin")
	calcCmd.Flags().BoolVar(&calcEntries, "entries", false, "input holds raw metric entries")
	calcCmd.Flags().StringVar(&calcDivision, "division", "", "only chart entries of this division")
	calcCmd.Flags().StringVar(&calcMetric, "metric", "", "metric id for logs")
	calcCmd.Flags().Float64Var(&calcSigma, "sigma", 0, "sigma level (default from config)")
	calcCmd.Flags().StringVar(&calcBaselineStart, "baseline-start", "", "first baseline period (inclusive)")
	calcCmd.Flags().StringVar(&calcBaselineEnd, "baseline-end", "", "last baseline period (inclusive)")
	calcCmd.Flags().BoolVar(&calcSummary, "summary", false, "print the full response with summary")
	calcCmd.Flags().BoolVar(&calcPretty, "pretty", false, "indent JSON output")
	_ = calcCmd.MarkFlagRequired("type")
}

func runCalc(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}

	data, err := readInput(cmd.InOrStdin(), calcInputPath)
	if err != nil {
		return err
	}
	input, err := decodeInput(data, calcEntries)
	if err != nil {
		return err
	}

	resultCache, err := cache.NewCache(cfg.Cache)
	if err != nil {
		logger.Warn("Result cache unavailable, computing without it", "type", cfg.Cache.Type, "error", err)
		resultCache = nil
	}
	if resultCache != nil {
		defer func() { _ = resultCache.Close() }()
	}

	service := services.NewSPCService(logger, cfg.SPC, resultCache, cfg.Cache)

	ctx := logging.WithLogger(cmd.Context(), logger)
	ctx = logging.WithRequestID(ctx, uuid.NewString())

	var resp *services.SPCResponse
	if input.Entries != nil {
		resp, err = service.ExecuteEntries(ctx, &services.EntriesRequest{
			MetricID:      calcMetric,
			DataType:      calcDataType,
			DivisionID:    calcDivision,
			Entries:       input.Entries,
			SigmaLevel:    calcSigma,
			BaselineStart: calcBaselineStart,
			BaselineEnd:   calcBaselineEnd,
		})
	} else {
		resp, err = service.Execute(ctx, &services.SPCRequest{
			MetricID:      calcMetric,
			DataType:      calcDataType,
			Points:        input.Points,
			SigmaLevel:    calcSigma,
			BaselineStart: calcBaselineStart,
			BaselineEnd:   calcBaselineEnd,
		})
	}
	if err != nil {
		var svcErr *services.ServiceError
		if errors.As(err, &svcErr) {
			logging.FromContext(ctx).Error("Chart request rejected", "code", svcErr.Code, "details", svcErr.Details)
			return fmt.Errorf("%s: %s", svcErr.Code, svcErr.Message)
		}
		return err
	}

	var out interface{} = resp.Result
	if calcSummary {
		out = resp
	}
	return writeJSON(cmd.OutOrStdout(), out, calcPretty)
}

// readInput reads path, or stdin when path is "-" or empty
func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return data, nil
}

func writeJSON(w io.Writer, v interface{}, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
