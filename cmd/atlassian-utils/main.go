package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ternarybob/arbor"

	"atlassian-utils/internal/common"
	"atlassian-utils/internal/interfaces"
	"atlassian-utils/internal/services"
	"atlassian-utils/pkg/confluence"
	"atlassian-utils/pkg/jira"
)

const serviceName = "atlassian-utils"

func main() {
	var (
		configPath     = flag.String("config", "", "Path to configuration file")
		mode           = flag.String("mode", "dev", "Environment mode: 'dev', 'development', 'prod', or 'production'")
		quiet          = flag.Bool("quiet", false, "Suppress banner output")
		version        = flag.Bool("version", false, "Show version information")
		help           = flag.Bool("help", false, "Show help message")
		validateConfig = flag.Bool("validate", false, "Validate configuration file and exit")
		once           = flag.Bool("once", false, "Run a single sync and exit")
	)
	flag.Parse()

	if *version {
		fmt.Printf("%s v%s (build: %s)\n", serviceName, common.GetVersion(), common.GetBuild())
		os.Exit(0)
	}

	if *help {
		showHelp()
		os.Exit(0)
	}

	environment := parseMode(*mode)

	cfg, err := common.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	cfg.Service.Environment = environment

	if *validateConfig {
		fmt.Println("Configuration is valid")
		os.Exit(0)
	}

	if err := common.InitLogger(&cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger := common.GetLogger()

	logger.Info().
		Str("version", common.GetVersion()).
		Str("build", common.GetBuild()).
		Str("environment", environment).
		Msg("Starting Atlassian Utils service")

	if !*quiet {
		common.PrintBanner(serviceName, environment, runMode(*once), common.GetLogFilePath())
	}

	store, err := services.NewStorage(&cfg.Storage)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize storage")
		os.Exit(1)
	}
	defer store.Close()

	jiraClient := services.NewJiraClient(cfg, logger)
	confluenceClient := services.NewConfluenceClient(cfg, logger)
	if jiraClient == nil {
		logger.Warn().Msg("Jira credentials not configured, Jira collection disabled")
	}
	if confluenceClient == nil {
		logger.Warn().Msg("Confluence credentials not configured, Confluence collection disabled")
	}

	if *once {
		collector := services.NewCollector(cfg, store, jiraClient, confluenceClient, logger, nil)
		report, err := collector.RunOnce(context.Background())
		if err != nil {
			logger.Error().Err(err).Msg("Sync failed")
			os.Exit(1)
		}
		logReport(logger, report)
		if len(report.Errors) > 0 {
			os.Exit(1)
		}
		return
	}

	runServerMode(cfg, store, jiraClient, confluenceClient, logger)
	if !*quiet {
		common.PrintShutdownBanner(serviceName)
	}
	logger.Info().Msg("Atlassian Utils shutdown complete")
}

func runServerMode(cfg *common.Config, store interfaces.Storage,
	jiraClient *jira.Client, confluenceClient *confluence.Client, logger arbor.ILogger) {
	logger.Info().Msg("Starting in server mode")

	webServer, api, wsHub := services.NewWebServer(cfg, store, logger)
	collector := services.NewCollector(cfg, store, jiraClient, confluenceClient, logger, wsHub)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := webServer.Start(ctx); err != nil {
		logger.Error().Err(err).Msg("Failed to start web server")
		return
	}
	logger.Info().Int("port", cfg.Service.Port).Msg("Web server started")

	runSync := func() {
		report, err := collector.RunOnce(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("Sync failed")
			return
		}
		api.SetLastReport(report)
		logReport(logger, report)
	}

	go func() {
		runSync()

		if cfg.Service.SyncIntervalMinutes <= 0 {
			return
		}
		ticker := time.NewTicker(time.Duration(cfg.Service.SyncIntervalMinutes) * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				runSync()
			}
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info().Msg("Server running - press Ctrl+C to stop")
	<-sigChan
	logger.Info().Msg("Shutdown signal received")

	cancel()
	if err := webServer.Stop(); err != nil {
		logger.Error().Err(err).Msg("Error stopping web server")
	}
}

func parseMode(mode string) string {
	mode = strings.ToLower(mode)
	switch mode {
	case "prod", "production":
		return "production"
	case "dev", "development":
		return "development"
	default:
		return "development"
	}
}

func runMode(once bool) string {
	if once {
		return "Once"
	}
	return "Server"
}

func logReport(logger arbor.ILogger, report *interfaces.SyncReport) {
	for project, count := range report.Projects {
		logger.Info().Str("project", project).Int("issues", count).Msg("Project collected")
	}
	for space, count := range report.Spaces {
		logger.Info().Str("space", space).Int("pages", count).Msg("Space collected")
	}
	for _, path := range report.Exported {
		logger.Info().Str("path", path).Msg("Exported")
	}
	for _, errMsg := range report.Errors {
		logger.Warn().Str("error", errMsg).Msg("Collection error")
	}
	logger.Info().
		Dur("duration", report.FinishedAt.Sub(report.StartedAt)).
		Msg("Sync complete")
}

func showHelp() {
	fmt.Printf("%s v%s - Jira & Confluence productivity service\n\n", serviceName, common.GetVersion())
	fmt.Println("Usage:")
	fmt.Printf("  %s [flags]\n\n", os.Args[0])
	fmt.Println("Flags:")
	fmt.Println("  -mode string        Environment mode: 'dev', 'development', 'prod', or 'production' (default \"dev\")")
	fmt.Println("  -config string      Configuration file path")
	fmt.Println("  -once               Run a single sync and exit")
	fmt.Println("  -quiet              Suppress banner output")
	fmt.Println("  -version            Show version information")
	fmt.Println("  -help               Show help message")
	fmt.Println("  -validate           Validate configuration file and exit")
	fmt.Println("\nExamples:")
	fmt.Printf("  %s                                  # Run in server mode\n", os.Args[0])
	fmt.Printf("  %s -once                            # Sync once and exit\n", os.Args[0])
	fmt.Printf("  %s -config /path/to/config.toml     # Use custom config file\n", os.Args[0])
}
