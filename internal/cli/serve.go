package cli

import (
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"company-enrich-go/internal/handler"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve single-company enrichment over SSE",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}

		h := handler.NewEnrichHandler(buildEngine(cfg))
		zap.L().Info("cli: server starting", zap.String("port", cfg.Port))
		return http.ListenAndServe(":"+cfg.Port, handler.NewServeMux(h))
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
