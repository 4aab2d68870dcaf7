package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	listenAddr        string
	apiKey            string
	analystPromptPath string
	minerPromptPath   string
	editorPromptPath  string
	templatePath      string
	saveSummary       bool
	debugMode         bool
)

var rootCmd = &cobra.Command{
	Use:   "tubebrief",
	Short: "YouTube video summarizer driven by a three-stage agent pipeline",
	Long: `tubebrief turns a YouTube URL into a structured Markdown summary.
A transcript analyst, an insight miner with web search and a lead editor
run in sequence over the video's captions.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Missing .env is fine; credentials may come from the environment.
		godotenv.Load()

		if debugMode {
			SetDebugMode(true)
		}
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Run: func(cmd *cobra.Command, args []string) {
		config, pipeline, transcripts := buildApp()

		addr := listenAddr
		if addr == "" {
			addr = config.Settings.Server.Addr
		}

		server := NewServer(transcripts, pipeline)
		log.Printf("→ Listening on %s", addr)
		if err := server.Router().Run(addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	},
}

var summarizeCmd = &cobra.Command{
	Use:   "summarize <url>",
	Short: "Summarize a single video from the command line",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config, pipeline, transcripts := buildApp()
		videoURL := args[0]

		videoID, err := extractVideoID(videoURL)
		if err != nil {
			log.Fatalf("Invalid YouTube URL: %v", err)
		}

		log.Printf("→ Summarizing %s", videoID)
		transcript, err := transcripts.Fetch(cmd.Context(), videoID)
		if err != nil {
			log.Fatalf("Transcript unavailable: %v", err)
		}

		summary, err := pipeline.Summarize(cmd.Context(), transcript)
		if err != nil {
			log.Fatalf("AI Generation Error: %v", err)
		}

		if saveSummary {
			filename, err := writeSummaryFile(config, SavedSummary{
				VideoID:   videoID,
				SourceURL: videoURL,
				Summary:   summary,
				Model:     config.Settings.Agents.Editor.Model,
				CreatedAt: time.Now(),
			})
			if err != nil {
				log.Fatalf("Failed to save summary: %v", err)
			}
			log.Printf("✓ Saved: %s", filename)
			return
		}

		fmt.Println(summary)
	},
}

// buildApp loads configuration and constructs the summarization chain.
func buildApp() (*Config, *Pipeline, *TranscriptClient) {
	if err := ensureConfigExists(); err != nil {
		log.Fatalf("Failed to initialize config: %v", err)
	}

	overrides := &ConfigOverrides{}
	if analystPromptPath != "" {
		overrides.AnalystPromptPath = &analystPromptPath
	}
	if minerPromptPath != "" {
		overrides.MinerPromptPath = &minerPromptPath
	}
	if editorPromptPath != "" {
		overrides.EditorPromptPath = &editorPromptPath
	}
	if templatePath != "" {
		overrides.TemplatePath = &templatePath
	}

	config, err := NewConfig(overrides)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := config.CheckOverrides(); err != nil {
		log.Fatalf("Critical error: %v", err)
	}

	if apiKey == "" {
		apiKey = os.Getenv("GROQ_API_KEY")
	}
	if apiKey == "" {
		log.Fatal("API key required: use --api-key flag or GROQ_API_KEY environment variable")
	}

	groq, err := NewGroqClient(apiKey, config.Settings.Provider.BaseURL, config.Settings.Provider.Timeout())
	if err != nil {
		log.Fatalf("Failed to create chat client: %v", err)
	}

	transcripts, err := NewTranscriptClient(os.Getenv("PROXY_USERNAME"), os.Getenv("PROXY_PASSWORD"), config.Settings.Transcript)
	if err != nil {
		log.Fatalf("Failed to create transcript client: %v", err)
	}

	search := NewSearchClient(config.Settings.Search)
	pipeline := NewPipeline(groq, config, search.Tools())

	return config, pipeline, transcripts
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "Groq API key")
	rootCmd.PersistentFlags().StringVar(&analystPromptPath, "analyst-prompt", "", "Path to custom analyst system prompt file")
	rootCmd.PersistentFlags().StringVar(&minerPromptPath, "miner-prompt", "", "Path to custom miner system prompt file")
	rootCmd.PersistentFlags().StringVar(&editorPromptPath, "editor-prompt", "", "Path to custom editor system prompt file")
	rootCmd.PersistentFlags().StringVar(&templatePath, "template", "", "Path to custom summary template file")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	serveCmd.Flags().StringVar(&listenAddr, "addr", "", "Listen address (overrides settings)")
	summarizeCmd.Flags().BoolVar(&saveSummary, "save", false, "Write the summary to the output directory instead of stdout")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(summarizeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
