package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/autopm-ai/autopm/internal/client"
	"github.com/autopm-ai/autopm/internal/core"
	"github.com/autopm-ai/autopm/internal/output"
	"github.com/autopm-ai/autopm/internal/tui"
)

var (
	askQuery   string
	apiBase    string
	askTimeout time.Duration
	noTUI      bool
	specOut    string
	configFile string // Config file path
)

// AskCmd represents the ask command
var AskCmd = &cobra.Command{
	Use:   "ask [files...]",
	Short: "Get product recommendations from your data",
	Long: `Upload product data files and get prioritized recommendations.

The assistant analyzes usage exports, customer interviews, and support
tickets, then recommends what to build next. Supported formats:
CSV, PDF, Word documents, and any plain-text file.

Phrase the query with "write a spec" (or similar) to get a full
product specification instead of a recommendation list.`,
	Args: cobra.ArbitraryArgs,
	RunE: runAsk,
}

func init() {
	AskCmd.Flags().StringVarP(&askQuery, "query", "q", "", "Question to ask about your data")
	AskCmd.Flags().StringVar(&apiBase, "api-base", "", "Recommendation API base URL (default: AUTOPM_API_BASE or "+client.DefaultBaseURL+")")
	AskCmd.Flags().DurationVar(&askTimeout, "timeout", core.DefaultTimeout, "Request timeout")
	AskCmd.Flags().BoolVar(&noTUI, "no-tui", false, "Print the result instead of opening the interactive view")
	AskCmd.Flags().StringVar(&specOut, "spec-out", "", "Where to save an extracted product spec (.md or .json)")
	AskCmd.Flags().StringVar(&configFile, "config", "", "Config file (default: .autopm.yaml)")
}

func runAsk(cmd *cobra.Command, args []string) error {
	// Load config file (flags override config file values)
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if apiBase == "" {
		apiBase = os.Getenv("AUTOPM_API_BASE")
	}

	files := make([]core.UploadedFile, 0, len(args))
	for _, path := range args {
		f, err := core.LoadFile(path)
		if err != nil {
			return err
		}
		files = append(files, f)
	}

	if noTUI {
		return runAskPlain(cmd, client.New(apiBase, askTimeout), files)
	}

	// Ping the service before the terminal switches to the alternate
	// screen, so a missing server is reported where the user can see it.
	if err := client.New(apiBase, 5*time.Second).Health(cmd.Context()); err != nil {
		base := apiBase
		if base == "" {
			base = client.DefaultBaseURL
		}
		fmt.Fprintf(os.Stderr, "warning: recommendation API not reachable at %s (start it with 'autopm serve')\n", base)
	}

	// The orchestrator owns the deadline via request contexts, so the
	// client-level timeout stays off.
	orch := core.NewOrchestrator(client.New(apiBase, 0), askTimeout)
	defer orch.Close()

	costModel := ""
	if cfg != nil {
		costModel = cfg.AnalystModel
	}

	model := tui.NewAskModel(tui.AskOptions{
		Orchestrator: orch,
		InitialQuery: askQuery,
		Files:        files,
		SpecOut:      specOut,
		Model:        costModel,
	})
	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}

// runAskPlain runs one request and prints the rendered result, for piping
// and scripting.
func runAskPlain(cmd *cobra.Command, svc *client.Client, files []core.UploadedFile) error {
	if len(files) == 0 {
		return fmt.Errorf("at least one file is required")
	}

	markdown, err := svc.Recommendations(cmd.Context(), askQuery, files)
	if err != nil {
		return err
	}

	fmt.Print(tui.RenderMarkdown(markdown, 100))

	if specOut != "" {
		spec := core.ExtractSpec(markdown)
		adapter := output.AdapterForPath(specOut)
		if err := adapter.Write(specOut, spec, markdown); err != nil {
			return err
		}
		fmt.Printf("Spec written to %s\n", specOut)
	}
	return nil
}

// Config file structure, shared by ask and serve.
type configFileData struct {
	APIBase      string `yaml:"api_base"`
	Timeout      string `yaml:"timeout"`
	SpecOut      string `yaml:"spec_out"`
	LLM          string `yaml:"llm"`
	AnalystModel string `yaml:"analyst_model"`
	CriticModel  string `yaml:"critic_model"`
	ReviserModel string `yaml:"reviser_model"`
}

// loadConfigFile locates and parses the config file. Returns nil when no
// config file exists.
func loadConfigFile() (*configFileData, error) {
	// Find config file
	configPath := configFile
	if configPath == "" {
		// Check .autopm.yaml in current dir
		if _, err := os.Stat(".autopm.yaml"); err == nil {
			configPath = ".autopm.yaml"
		} else if home, err := os.UserHomeDir(); err == nil {
			// Check ~/.autopm.yaml
			homePath := filepath.Join(home, ".autopm.yaml")
			if _, err := os.Stat(homePath); err == nil {
				configPath = homePath
			}
		}
	}

	if configPath == "" {
		return nil, nil // No config file, use defaults
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg configFileData
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &cfg, nil
}

func loadConfig(cmd *cobra.Command) (*configFileData, error) {
	cfg, err := loadConfigFile()
	if err != nil || cfg == nil {
		return nil, err
	}

	// Apply config values only if flags weren't explicitly set
	if !cmd.Flags().Changed("api-base") && cfg.APIBase != "" {
		apiBase = cfg.APIBase
	}
	if !cmd.Flags().Changed("timeout") && cfg.Timeout != "" {
		d, err := time.ParseDuration(cfg.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout in config file: %w", err)
		}
		askTimeout = d
	}
	if !cmd.Flags().Changed("spec-out") && cfg.SpecOut != "" {
		specOut = cfg.SpecOut
	}

	return cfg, nil
}
