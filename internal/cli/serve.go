package cli

import (
	"fmt"

	"github.com/futig/ai-compass/internal/builder"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the funnel HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := builder.Build(environment)
		if err != nil {
			return fmt.Errorf("failed to build application: %w", err)
		}

		return app.Run(cmd.Context())
	},
}
