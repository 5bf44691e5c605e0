package cli

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"company-enrich-go/config"
)

var (
	configPath string
	verbose    bool

	// cfg 在 PersistentPreRunE 中加载
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Enrich company lists with profile, funding and ownership data",
	Long: `enrich reads spreadsheets of company names, queries the company profile
source and the search-inference source for each company, and writes an
enriched workbook with a fixed set of columns.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// 加载 .env 文件（如果存在）
		_ = godotenv.Load()

		if err := setupLogger(verbose); err != nil {
			return err
		}

		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.toml", "path to the TOML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func setupLogger(debug bool) error {
	var logger *zap.Logger
	var err error
	if debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(logger)
	return nil
}

// Execute 执行根命令
func Execute() error {
	defer zap.L().Sync()
	return rootCmd.Execute()
}
