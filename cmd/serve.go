package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/abhisek/octolearn/internal/llm"
	"github.com/abhisek/octolearn/internal/logging"
	"github.com/abhisek/octolearn/internal/server"
	"github.com/abhisek/octolearn/internal/tutor"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the generation backend the client talks to",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = cfg.Server.Addr
		}
		debug, _ := cmd.Flags().GetBool("debug")

		log, err := logging.New(logging.Options{Level: cfg.LogLevel, Development: debug})
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer log.Sync()

		llmCfg := llm.ConfigFromEnv()
		if p, _ := cmd.Flags().GetString("provider"); p != "" {
			llmCfg.Provider = p
		}
		if err := llmCfg.Validate(); err != nil {
			return fmt.Errorf("LLM provider not configured: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		provider, err := llm.NewProvider(ctx, llmCfg, log)
		if err != nil {
			return err
		}

		if debug {
			gin.SetMode(gin.DebugMode)
		} else {
			gin.SetMode(gin.ReleaseMode)
		}

		srv := server.New(tutor.NewService(provider, tutor.DefaultConfig()), log, server.Options{
			Timeout: llmCfg.Timeout,
		})
		log.Info("serving", "addr", addr, "provider", llmCfg.Provider, "model", provider.ModelID())
		return srv.Run(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default from config, :8000)")
	serveCmd.Flags().String("provider", "", "LLM provider: openai, anthropic, gemini, openrouter or mock")
	serveCmd.Flags().Bool("debug", false, "Console logs and gin debug mode")
}
