package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Karim-Chrif/simple-http-server/pkg/auth"
	"github.com/Karim-Chrif/simple-http-server/pkg/config"
	"github.com/Karim-Chrif/simple-http-server/pkg/logging"
	"github.com/Karim-Chrif/simple-http-server/pkg/response"
	"github.com/Karim-Chrif/simple-http-server/pkg/route"
	"github.com/Karim-Chrif/simple-http-server/pkg/server"
	"github.com/Karim-Chrif/simple-http-server/pkg/version"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	configPath  string
	host        string
	port        int
	debug       bool
	showVersion bool
	noColor     bool
	cfg         *config.Config
)

// NewRootCmd creates the root command for simple-http-server
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   version.AppName,
		Short: version.Description,
		Long: fmt.Sprintf(`%s - %s

A tiny HTTP/1.1 server that speaks the protocol directly over TCP:
one synchronous accept loop, a static route table, an optional
header-based authorization gate, JSON responses.
`, version.AppName, version.Description),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load configuration before anything logs
			if configPath != "" {
				cfg = config.LoadOrDefault(configPath)
			} else {
				cfg = config.LoadDefault()
			}

			// Command-line flags win over file and environment values
			if host != "" {
				cfg.Server.Host = host
			}
			if port != 0 {
				cfg.Server.Port = port
			}

			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			logging.InitGlobalLogger(debug, cfg)
			if debug {
				logging.Debug("Debug logging enabled")
			}

			if noColor {
				color.NoColor = true
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Fprintln(cmd.OutOrStdout(), version.GetVersionInfo())
				return nil
			}

			table := route.NewTable(demoRoutes())
			authorizer, err := authorizerFromConfig(cfg)
			if err != nil {
				return err
			}

			printBanner(cmd, cfg, table)

			srv := server.New(cfg, table, authorizer)

			// SIGINT/SIGTERM cancel the context, which closes the listener
			// and lets Start return
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := srv.Start(ctx); err != nil {
				return fmt.Errorf("server failed: %w", err)
			}
			return nil
		},
	}

	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file")
	rootCmd.Flags().StringVar(&host, "host", "", "Bind address (overrides config, default 0.0.0.0)")
	rootCmd.Flags().IntVarP(&port, "port", "p", 0, "Listen port (overrides config, default 65432)")
	rootCmd.Flags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging")
	rootCmd.Flags().BoolVarP(&showVersion, "version", "v", false, "Show version information")
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	return rootCmd
}

// demoRoutes is the static route set served by the standalone binary
func demoRoutes() []route.Route {
	return []route.Route{
		{
			Method: "GET",
			Path:   "/",
			Handler: func() *response.Response {
				return response.New(response.StatusOK, map[string]string{
					"message": "Hello, world!",
				})
			},
		},
		{
			Method: "GET",
			Path:   "/about",
			Handler: func() *response.Response {
				return response.New(response.StatusOK, map[string]string{
					"message": "This is the about page",
				})
			},
		},
	}
}

// authorizerFromConfig maps the auth section of the configuration to an
// Authorizer. Mode "none" returns nil: the server admits everything.
func authorizerFromConfig(cfg *config.Config) (auth.Authorizer, error) {
	switch cfg.Auth.Mode {
	case config.AuthModeNone:
		return nil, nil
	case config.AuthModeHeader:
		return auth.RequireHeader(cfg.Auth.Header), nil
	case config.AuthModeToken:
		return auth.StaticToken(cfg.Auth.Header, cfg.Auth.Token), nil
	default:
		return nil, fmt.Errorf("unknown auth mode: %q", cfg.Auth.Mode)
	}
}

// printBanner writes the startup summary to stdout
func printBanner(cmd *cobra.Command, cfg *config.Config, table *route.Table) {
	out := cmd.OutOrStdout()
	title := color.New(color.FgCyan, color.Bold)
	dim := color.New(color.FgWhite)

	title.Fprintf(out, "%s %s\n", version.AppName, version.Version)
	dim.Fprintf(out, "Listening on %s (auth: %s)\n", cfg.Address(), cfg.Auth.Mode)
	for _, r := range table.Routes() {
		dim.Fprintf(out, "  %s %s\n", r.Method, r.Path)
	}
}

// Execute runs the root command, exiting non-zero on error
func Execute() {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
