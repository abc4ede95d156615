package cmd

import (
	"github.com/spf13/cobra"

	"github.com/nikogura/ats-match/pkg/mcptools"
)

//nolint:gochecknoglobals // Cobra boilerplate
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the analysis tools over MCP on stdio",
	Long: `Runs a Model Context Protocol server on stdin/stdout exposing:

  ats_match_score   score a CV against a job description
  list_industries   list the supported industries

Logs go to stderr. Use 'ats-match serve' for the HTTP transport.`,
	RunE: runMCP,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) (err error) {
	rt, err := setup()
	if err != nil {
		return err
	}

	rt.logger.Info("starting mcp stdio server")
	err = mcptools.RunStdio(cmd.Context(), mcptools.NewServer(rt.svc, version))
	return err
}
