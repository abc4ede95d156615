package cmd

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/nikogura/ats-match/pkg/mcptools"
	"github.com/nikogura/ats-match/pkg/server"
)

//nolint:gochecknoglobals // Cobra boilerplate
var serveAddr string

//nolint:gochecknoglobals // Cobra boilerplate
var serveMCP bool

//nolint:gochecknoglobals // Cobra boilerplate
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analysis HTTP API",
	Long: `Serves the analysis HTTP API used by the web client:

  POST /api/analysis             multipart form: jobDescription, cvContent, cvFile
  GET  /api/analysis/test        liveness check
  GET  /api/analysis/industries  supported industries
  GET  /metrics                  operational counters
  POST /mcp                      MCP streamable HTTP endpoint (unless --mcp=false)

Example:
  ats-match serve --addr :9090`,
	RunE: runServe,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config)")
	serveCmd.Flags().BoolVar(&serveMCP, "mcp", true, "Mount the MCP endpoint at /mcp")
}

func runServe(cmd *cobra.Command, args []string) (err error) {
	rt, err := setup()
	if err != nil {
		return err
	}

	if !getVerbose() {
		gin.SetMode(gin.ReleaseMode)
	}

	addr := serveAddr
	if addr == "" {
		addr = rt.cfg.Server.Addr
	}

	var mcpHandler http.Handler
	if serveMCP {
		mcpHandler = mcptools.HTTPHandler(mcptools.NewServer(rt.svc, version))
	}

	srv := server.New(rt.svc, server.Options{
		Addr:           addr,
		AllowedOrigins: rt.cfg.Server.AllowedOrigins,
		RateLimit:      rt.cfg.Server.RateLimit,
		RateBurst:      rt.cfg.Server.RateBurst,
		RequestTimeout: rt.cfg.Server.Timeout(),
		MCPHandler:     mcpHandler,
	})

	rt.logger.Info("starting ats-match",
		slog.String("version", version),
		slog.String("addr", addr),
		slog.Bool("mcp", serveMCP),
	)

	err = srv.Run(cmd.Context())
	return err
}
