package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/tsereda/declarant/internal/dictionary"
	"github.com/tsereda/declarant/internal/model"
	"github.com/tsereda/declarant/internal/pipeline"
	"github.com/tsereda/declarant/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
	// dictPath and noFooter are defined in report.go and shared here
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Generate reports for every declarations CSV in a directory",
	Long: `Batch processes multiple declaration CSV files concurrently:
- Pick up every *.csv file in the input directory
- Share one PFAS dictionary across all files
- Process files in parallel with a configurable worker count
- Write one report pack per input file

Example:
  declarant batch ./declarations
  declarant batch ./declarations --pfas-dict pfas.txt --output-dir ./reports
  declarant batch ./declarations --concurrency 8`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./declarant-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().StringVar(&dictPath, "pfas-dict", "", "optional PFAS substance dictionary shared by all files")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
}

func runBatch(cmd *cobra.Command, args []string) error {
	dir := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	paths, err := collectCSVs(dir)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no CSV files found in %s", dir)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input dir:    %s\n", dir)
	fmt.Fprintf(os.Stderr, "  Files:        %d\n", len(paths))
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", concurrency)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	// Build configuration
	cfg := model.DefaultConfig()
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter
	cfg.Batch.Workers = concurrency

	var dict *dictionary.Dictionary
	if dictPath != "" {
		dict, err = dictionary.FromFile(dictPath)
		if err != nil {
			return fmt.Errorf("load dictionary: %w", err)
		}
		fmt.Fprintf(os.Stderr, "  Dictionary:   %s (%d entries)\n\n", dictPath, dict.Len())
	}

	// Create output directory
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p := pipeline.NewPipeline(cfg)
	processor := worker.NewBatchProcessor(p, concurrency)
	results := processor.ProcessFiles(ctx, paths, dict)

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)
	successCount := 0
	failureCount := 0

	for _, result := range results {
		if result.Err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Path, result.Err)
			continue
		}

		slug := strings.TrimSuffix(filepath.Base(result.Path), filepath.Ext(result.Path))
		jsonPath := filepath.Join(outputDir, slug+".json")
		if err := renderer.RenderJSON(result.Result.Report, jsonPath); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write JSON: %v\n", result.Path, err)
			continue
		}

		successCount++
		fmt.Fprintf(os.Stderr, "✓ %s (%d suppliers, %.0f%% responded)\n",
			slug, result.Result.Report.Summary.SupplierCount,
			result.Result.Report.Summary.ResponseRate*100)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d files\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	if failureCount > 0 {
		return fmt.Errorf("%d of %d files failed", failureCount, len(results))
	}
	return nil
}

// collectCSVs lists *.csv files directly in dir, sorted by name.
func collectCSVs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}
