package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/autopm-ai/autopm/internal/agents"
	"github.com/autopm-ai/autopm/internal/extract"
	"github.com/autopm-ai/autopm/internal/llm"
	"github.com/autopm-ai/autopm/internal/server"
)

var (
	serveAddr      string
	llmProvider    string
	analystModel   string
	criticModel    string
	reviserModel   string
	noReview       bool
	allowedOrigins []string
)

// ServeCmd represents the serve command
var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the recommendation API server",
	Long: `Run the HTTP API that powers the ask command and the web client.

The server accepts multipart uploads on POST /api/recommendations,
extracts text from each file, and runs the analyst/critic/reviser
pipeline against the configured LLM provider.`,
	RunE: runServe,
}

func init() {
	ServeCmd.Flags().StringVar(&serveAddr, "addr", ":8787", "Listen address")
	ServeCmd.Flags().StringVarP(&llmProvider, "llm", "l", "auto", "LLM provider (auto/groq/anthropic)")
	ServeCmd.Flags().StringVarP(&analystModel, "model", "m", "", "Model for the analyst role")
	ServeCmd.Flags().StringVar(&criticModel, "critic-model", "", "Model for the critic role (defaults to the analyst model)")
	ServeCmd.Flags().StringVar(&reviserModel, "reviser-model", "", "Model for the reviser role (defaults to the analyst model)")
	ServeCmd.Flags().BoolVar(&noReview, "no-review", false, "Skip the critic and reviser passes (faster, cheaper)")
	ServeCmd.Flags().StringSliceVar(&allowedOrigins, "allowed-origins", []string{"*"}, "CORS origin allowlist")
	ServeCmd.Flags().StringVar(&configFile, "config", "", "Config file (default: .autopm.yaml)")
}

func runServe(cmd *cobra.Command, args []string) error {
	// Config file supplies role models unless flags override them.
	cfg, err := loadConfigFile()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg != nil {
		if !cmd.Flags().Changed("llm") && cfg.LLM != "" {
			llmProvider = cfg.LLM
		}
		if !cmd.Flags().Changed("model") && cfg.AnalystModel != "" {
			analystModel = cfg.AnalystModel
		}
		if !cmd.Flags().Changed("critic-model") && cfg.CriticModel != "" {
			criticModel = cfg.CriticModel
		}
		if !cmd.Flags().Changed("reviser-model") && cfg.ReviserModel != "" {
			reviserModel = cfg.ReviserModel
		}
	}

	config := llm.DefaultConfig()
	config.AnalystModel = analystModel
	config.CriticModel = criticModel
	config.ReviserModel = reviserModel

	adapter, err := llm.NewAdapter(llmProvider, config)
	if err != nil {
		return err
	}
	fmt.Printf("Using LLM: %s\n", adapter.Name())
	if available := llm.ListAvailableAdapters(config); len(available) > 1 {
		fmt.Printf("Available providers: %s\n", strings.Join(available, ", "))
	}

	pipeline := agents.NewPipeline(adapter, config)
	pipeline.SkipReview = noReview

	srv := server.New(
		pipelineRecommender{pipeline},
		extract.DefaultRegistry(),
		server.WithAllowedOrigins(allowedOrigins),
	)
	return srv.ListenAndServe(serveAddr)
}

// pipelineRecommender adapts the agent pipeline to the server interface,
// dropping the critique from the wire response.
type pipelineRecommender struct {
	pipeline *agents.Pipeline
}

func (r pipelineRecommender) Recommend(ctx context.Context, dataContext, query string) (string, error) {
	outcome, err := r.pipeline.Recommend(ctx, dataContext, query)
	if err != nil {
		return "", err
	}
	return outcome.Final, nil
}
