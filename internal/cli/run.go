package cli

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"company-enrich-go/config"
	"company-enrich-go/internal/service"
	"company-enrich-go/internal/sheet"
)

var runCmd = &cobra.Command{
	Use:   "run [workbook.xlsx...]",
	Short: "Enrich every sheet of the given workbooks",
	Long: `Enriches every sheet of each workbook. Without arguments, all .xlsx files
in the configured input directory are processed. Sheets run concurrently;
rows within a sheet run in ascending order. Results are written to
<name>_formatted.xlsx in the output directory.`,
	RunE: runEnrich,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runEnrich(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	files := args
	if len(files) == 0 {
		var err error
		if files, err = listWorkbooks(cfg.InputDir); err != nil {
			return err
		}
	}
	if len(files) == 0 {
		cmd.Printf("No workbooks found in %s\n", cfg.InputDir)
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	runID := uuid.NewString()
	zap.L().Info("cli: run started", zap.String("run_id", runID), zap.Int("workbooks", len(files)))

	engine := buildEngine(cfg)
	for _, path := range files {
		start := time.Now()
		out, stats, err := enrichWorkbook(ctx, engine, cfg, path)
		if err != nil {
			return err
		}
		for _, s := range stats {
			cmd.Printf("%s [%s]: %d done, %d failed, %d skipped of %d\n",
				filepath.Base(path), s.Name, s.Succeeded, s.Failed, s.Skipped, s.Total)
		}
		cmd.Printf("Saved %s (%s)\n", out, time.Since(start).Round(time.Second))
	}
	return nil
}

// listWorkbooks 列出目录下的xlsx文件，跳过 ~$ 临时文件
func listWorkbooks(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, eris.Wrapf(err, "cli: read input dir %s", dir)
	}
	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, "~$") || !strings.EqualFold(filepath.Ext(name), ".xlsx") {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	return files, nil
}

// enrichWorkbook 处理一个工作簿的所有sheet并保存
func enrichWorkbook(ctx context.Context, engine *service.Engine, c *config.Config, path string) (string, []service.BatchStats, error) {
	wb, err := sheet.Open(path)
	if err != nil {
		return "", nil, err
	}

	var batches []service.Batch
	for _, s := range wb.Sheets {
		column, ok := s.CompanyColumn(c.CompanyColumns)
		if !ok {
			zap.L().Warn("cli: no company column, sheet skipped", zap.String("sheet", s.Name), zap.Strings("header", s.Header()))
			continue
		}

		rng := sheet.Range{}
		if start, end, ok := c.RangeFor(s.Name); ok {
			rng = sheet.Range{Start: start, End: end}
		}
		batches = append(batches, service.Batch{
			Name: s.Name,
			Rows: s.CompanyRows(column, rng),
			Sink: service.CellSink(s),
		})
	}

	stats := engine.ProcessBatches(ctx, batches)

	if err := os.MkdirAll(c.OutputDir, 0755); err != nil {
		return "", stats, eris.Wrapf(err, "cli: create output dir %s", c.OutputDir)
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	out := filepath.Join(c.OutputDir, base+"_formatted.xlsx")
	if err := wb.Save(out); err != nil {
		return "", stats, err
	}
	return out, stats, nil
}
