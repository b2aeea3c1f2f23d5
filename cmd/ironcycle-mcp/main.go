package main

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/claude/ironcycle/internal/mcp"
	"github.com/claude/ironcycle/internal/planner"
	"github.com/claude/ironcycle/internal/storage/local"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	apiURL := flag.String("api", "", "base URL of a remote IronCycle server (e.g. http://ironcycle:80); empty runs against the local data directory")
	apiKey := flag.String("api-key", "", "API key for remote write operations")
	dataDir := flag.String("data-dir", "", "local data directory (default ~/.ironcycle)")
	flag.Parse()

	// stdout is the MCP transport; all logging goes to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var ds mcp.DataSource
	if *apiURL != "" {
		ds = mcp.NewHTTPClient(*apiURL, *apiKey)
		log.Info("IronCycle MCP starting", "version", Version, "mode", "remote", "api", *apiURL)
	} else {
		dir := *dataDir
		if dir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				log.Error("cannot resolve home directory", "error", err)
				os.Exit(1)
			}
			dir = filepath.Join(home, ".ironcycle")
		}

		st, err := local.Open(dir)
		if err != nil {
			log.Error("failed to open local store", "dir", dir, "error", err)
			os.Exit(1)
		}
		defer st.Close()

		ds = planner.New(st, st, log)
		log.Info("IronCycle MCP starting", "version", Version, "mode", "local", "dir", dir)
	}

	s := mcp.New(ds, Version, log)
	if err := mcpserver.ServeStdio(s); err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
