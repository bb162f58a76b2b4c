package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xvierd/breakr/internal/adapters/lock"
	"github.com/xvierd/breakr/internal/adapters/mcp"
	"github.com/xvierd/breakr/internal/domain"
	"github.com/xvierd/breakr/internal/logger"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol (MCP) server for integration with AI assistants.
The server runs its own headless timer and communicates via stdio. It
provides tools to read and drive the timer and to query the focus journal.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.paths.EnsureFolders(); err != nil {
			return err
		}
		pid := lock.New(app.paths.PIDFile())
		if err := pid.Acquire(); err != nil {
			return err
		}
		defer func() {
			if err := pid.Release(); err != nil {
				logger.Warn("failed to release lock", "error", err)
			}
		}()

		ctx, cancel := setupSignalHandler(commandContext(cmd))
		defer cancel()

		engine, runner := newTimer(app.config)
		defer runner.Close()
		go func() {
			if err := engine.Run(ctx); err != nil {
				logger.Error("timer engine stopped", "error", err)
			}
		}()
		watchConfig(engine, runner)

		// stdout carries the protocol: nothing else may print there.
		logger.Info("starting MCP server", "version", Version)
		server := mcp.NewServer(engine, app.history, Version)
		err := server.Start(ctx)

		engine.Post(domain.Quit{})
		<-engine.Done()
		if err != nil {
			return fmt.Errorf("MCP server error: %w", err)
		}
		return nil
	},
}
