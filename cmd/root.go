package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"cpxfetch/downloader"
	"cpxfetch/internal"
	"cpxfetch/utils"
)

var (
	gatewayURL string
	proxyURL   string
	quiet      bool
	debug      bool
	logLevel   string
	logFile    string
	language   string
	noExtract  bool
	config     *internal.Config
)

// pipelineError marks a failure inside the resolve/download/extract
// pipeline, as opposed to a usage error.
type pipelineError struct {
	err error
}

func (e *pipelineError) Error() string { return e.err.Error() }
func (e *pipelineError) Unwrap() error { return e.err }

// ExitCode maps an Execute error to the process exit code: 2 for
// pipeline failures, 1 for usage and configuration errors.
func ExitCode(err error) int {
	var pe *pipelineError
	if errors.As(err, &pe) {
		return 2
	}
	return 1
}

var rootCmd = &cobra.Command{
	Use:     "cpxfetch [OPTIONS] <TARGET_URL> <DEST_DIR>",
	Short:   "Download any file through a web-proxy gateway and unzip it",
	Version: "v1.0.0",
	Long: `cpxfetch obtains a direct download link for an arbitrary target URL by
driving a web-proxy gateway, streams the file to the destination
directory and extracts it if it is a zip archive.

Examples:
  cpxfetch https://releases.ubuntu.com/24.04/ubuntu-24.04-desktop-amd64.iso downloads/
  cpxfetch --lang zh --proxy socks5://proxy:1080 https://example.com/file.iso downloads/

Environment Variables:
  CPXFETCH_GATEWAY    Gateway base URL
  CPXFETCH_PROXY      Proxy URL
  CPXFETCH_TIMEOUT    Gateway request timeout in seconds
  CPXFETCH_LANG       Message language (en, zh)
  CPXFETCH_LOG_LEVEL  Log level (debug, info, warn, error)`,
	Args:          cobra.ExactArgs(2),
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfiguration(); err != nil {
			return fmt.Errorf("configuration error: %v", err)
		}

		if err := internal.InitLogger(config); err != nil {
			return fmt.Errorf("failed to initialize logger: %v", err)
		}

		internal.LogDebug("Configuration loaded: gateway=%s, debug=%v, quiet=%v",
			config.GatewayURL, config.EnableDebug, config.QuietMode)

		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Failures past argument parsing are runtime errors, not usage
		// errors.
		cmd.SilenceUsage = true

		targetURL, destDir := args[0], args[1]

		internal.LogInfo("Processing download request for URL: %s", targetURL)

		if err := utils.ValidateTargetURL(targetURL); err != nil {
			return fmt.Errorf("invalid target URL: %v", err)
		}

		if destDir == "" {
			return fmt.Errorf("destination directory cannot be empty")
		}

		if err := runPipeline(targetURL, destDir); err != nil {
			return &pipelineError{err: err}
		}
		return nil
	},
}

// loadConfiguration loads configuration from environment variables and
// merges it with CLI flags; flags win.
func loadConfiguration() error {
	config = internal.DefaultConfig()
	config.LoadFromEnv()

	if gatewayURL != "" {
		config.GatewayURL = gatewayURL
	}

	if proxyURL != "" {
		config.ProxyURL = proxyURL
	}

	if language != "" {
		config.Language = language
	}

	if debug {
		config.EnableDebug = true
		config.LogLevel = "debug"
	}

	if quiet {
		config.QuietMode = true
	}

	if logLevel != "" {
		config.LogLevel = logLevel
	}

	if logFile != "" {
		config.LogFile = logFile
	}

	return config.ValidateConfig()
}

func init() {
	rootCmd.Flags().StringVar(&gatewayURL, "gateway", "", "Override the gateway base URL (env: CPXFETCH_GATEWAY)")
	rootCmd.Flags().StringVar(&proxyURL, "proxy", "", "HTTP/SOCKS proxy URL (env: CPXFETCH_PROXY)")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Suppress progress bar output")
	rootCmd.Flags().StringVar(&language, "lang", "", "Message language: en or zh (env: CPXFETCH_LANG)")
	rootCmd.Flags().BoolVar(&noExtract, "no-extract", false, "Keep the downloaded archive without extracting it")

	rootCmd.Flags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging with file and line information (env: CPXFETCH_DEBUG)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "Set log level (debug, info, warn, error) (env: CPXFETCH_LOG_LEVEL)")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "Write logs to file instead of stderr (env: CPXFETCH_LOG_FILE)")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// runPipeline executes the complete resolve → download → extract flow
// on one shared HTTP session.
func runPipeline(targetURL, destDir string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	msgs := internal.NewMessages(config.Language)

	httpClient := utils.NewSessionClientWithConfig(&utils.SessionConfig{
		UserAgent: config.UserAgent,
		ProxyURL:  config.ProxyURL,
		RetryConfig: &utils.RetryConfig{
			MaxAttempts:   config.MaxRetries,
			BaseDelay:     utils.DefaultRetryConfig().BaseDelay,
			MaxDelay:      utils.DefaultRetryConfig().MaxDelay,
			Multiplier:    utils.DefaultRetryConfig().Multiplier,
			JitterPercent: utils.DefaultRetryConfig().JitterPercent,
		},
	})

	resolver := downloader.NewGatewayResolverWithClient(httpClient, config)
	engine := downloader.NewStreamEngineWithClient(httpClient)
	extractor := downloader.NewZipExtractor()

	if !config.QuietMode {
		fmt.Println(msgs.Get(internal.MsgResolving))
	}

	result, err := resolver.Resolve(ctx, targetURL)
	if err != nil {
		logFailure(msgs, err)
		return err
	}

	internal.LogInfo("Resolved direct link via rule %q", result.Rule)
	if !config.QuietMode {
		fmt.Printf(msgs.Get(internal.MsgFinalLink)+"\n", result.DirectURL)
	}

	if !config.QuietMode {
		fmt.Printf(msgs.Get(internal.MsgDownloadingTo)+"\n", destDir)
	}

	downloadConfig := &internal.DownloadConfig{
		DestDir:    destDir,
		OutputName: config.OutputName,
		ChunkSize:  config.ChunkSize,
		Quiet:      config.QuietMode,
	}

	archivePath, err := engine.Download(ctx, result.DirectURL, downloadConfig)
	if err != nil {
		logFailure(msgs, err)
		return err
	}

	if !config.QuietMode {
		fmt.Printf(msgs.Get(internal.MsgCompleted)+"\n", destDir)
	}

	if noExtract {
		if !config.QuietMode {
			fmt.Printf(msgs.Get(internal.MsgExtractSkip)+"\n", archivePath)
		}
		return nil
	}

	if err := extractor.Extract(archivePath, destDir); err != nil {
		logFailure(msgs, err)
		return err
	}

	if !config.QuietMode {
		fmt.Printf(msgs.Get(internal.MsgUnzipped)+"\n", destDir)
	}

	return nil
}

// logFailure prints the localized failure line and routes the error
// through the structured logger.
func logFailure(msgs *internal.Messages, err error) {
	fmt.Fprintf(os.Stderr, msgs.Get(internal.MsgFailed)+"\n", err)

	var gatewayErr *internal.GatewayError
	if errors.As(err, &gatewayErr) {
		internal.LogGatewayError(gatewayErr)
		return
	}
	internal.LogError("%v", err)
}
