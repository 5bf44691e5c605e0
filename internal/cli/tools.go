package cli

import (
	"time"

	"github.com/spf13/cobra"

	"company-enrich-go/internal/fetcher"
	"company-enrich-go/internal/sheet"
)

var refsCmd = &cobra.Command{
	Use:   "refs <reference.xlsx> <output.json>",
	Short: "Convert a reference workbook into a sorted JSON name list",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := sheet.ConvertReferenceList(args[0], args[1])
		if err != nil {
			return err
		}
		cmd.Printf("Wrote %d names to %s\n", n, args[1])
		return nil
	},
}

var checkCmd = &cobra.Command{
	Use:   "check <workbook.xlsx>",
	Short: "Report the last enriched row and the rows still pending per sheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		wb, err := sheet.Open(args[0])
		if err != nil {
			return err
		}
		for _, s := range wb.Sheets {
			column, ok := s.CompanyColumn(cfg.CompanyColumns)
			if !ok {
				cmd.Printf("%s: no company column\n", s.Name)
				continue
			}
			report := sheet.CheckProgress(s, column)
			cmd.Printf("%s: %d rows, last enriched row %d, %d pending\n",
				s.Name, report.TotalRows, report.LastProcessed, len(report.Pending))
			for i, r := range report.Pending {
				if i == 5 {
					cmd.Printf("  ...\n")
					break
				}
				cmd.Printf("  row %d: %s\n", r.Index, r.CompanyName)
			}
		}
		return nil
	},
}

var reformDateCmd = &cobra.Command{
	Use:   "reform-date <company>",
	Short: "Find the joint-stock reform date from registry change history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.ValidateRegistry(); err != nil {
			return err
		}
		client := registryFactory(cfg.QichachaAppKey, cfg.QichachaSecretKey, cfg.QichachaBaseURL, cfg.CallTimeout.Duration)

		changes, err := client.GetAllChanges(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		date, ok := fetcher.FindStockReformDate(changes)
		if !ok {
			cmd.Printf("%s: no joint-stock reform found in %d changes\n", args[0], len(changes))
			return nil
		}
		cmd.Printf("%s: %s\n", args[0], date)
		return nil
	},
}

// registryFactory 构造工商变更数据源，测试中可替换
var registryFactory = func(appKey, secretKey, baseURL string, timeout time.Duration) fetcher.RegistrySource {
	return fetcher.NewQichachaClient(appKey, secretKey, baseURL, timeout)
}

func init() {
	rootCmd.AddCommand(refsCmd, checkCmd, reformDateCmd)
}
