package main

import (
	"bufio"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"shelf/internal/cache"
	"shelf/internal/config"
	"shelf/internal/fileservice"
	"shelf/internal/library"
	"shelf/internal/log"
	"shelf/internal/tui"
	"shelf/internal/upload"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	var showVersion bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.Parse()

	if showVersion {
		fmt.Printf("shelf %s\n", Version)
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting shelf", "version", Version)

	if !cfg.IsConfigured() {
		return runSetupFlow(cfg)
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("shelf must run on a terminal")
	}

	client := fileservice.NewClient(cfg.Server.URL, cfg.Library.Owner, logger)

	snapshot, err := cache.NewSnapshot(cfg.Library.CacheDir, cfg.Server.URL)
	if err != nil {
		logger.Warn("cache unavailable, running without persistence", "error", err)
		snapshot, _ = cache.NewSnapshot("", "")
	}
	defer snapshot.Close()

	store := library.NewStore(client, snapshot, logger)
	store.LoadCached()

	uploader := upload.NewCoordinator(client, store, cfg.Library.Collection, logger)

	model := tui.NewModel(store, uploader)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

// runSetupFlow handles the initial setup when not configured
func runSetupFlow(cfg *config.Config) error {
	fmt.Println()
	fmt.Println("Welcome to Shelf!")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("Enter your file service URL (e.g., http://192.168.1.100:5000): ")
		input, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		serverURL := strings.TrimSpace(input)

		if serverURL == "" {
			fmt.Println("Server URL cannot be empty. Please try again.")
			continue
		}

		cfg.Server.URL = strings.TrimRight(serverURL, "/")
		break
	}

	if err := config.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("✓ Configuration saved!")
	fmt.Println()
	fmt.Println("Run shelf again to start the application.")

	return nil
}
