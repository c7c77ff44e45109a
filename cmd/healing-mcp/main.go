// Command healing-mcp provides an MCP server for medication management.
//
// Adds go through the same controller as the CLI, so they clamp inputs
// and enqueue durable reminders identically.
//
// Usage:
//
//	./healing-mcp          # Start MCP server (stdio)
//	./healing-mcp --help   # Show help
//
// Environment:
//
//	HEALING_DATA_DIR  Data directory (default: ~/.healing)
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/server"

	"github.com/healing-app/healing/internal/medication"
	"github.com/healing-app/healing/internal/schedule"
	"github.com/healing-app/healing/internal/storage"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--help", "-h":
			printHelp()
			return
		}
	}

	dataDir := os.Getenv("HEALING_DATA_DIR")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to get home directory: %v\n", err)
			os.Exit(1)
		}
		dataDir = filepath.Join(home, ".healing")
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create data directory: %v\n", err)
		os.Exit(1)
	}

	db, err := storage.Open(filepath.Join(dataDir, "healing.db"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	store, err := medication.NewStore(db)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init medication store: %v\n", err)
		os.Exit(1)
	}

	queue, err := schedule.NewQueue(db)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init reminder queue: %v\n", err)
		os.Exit(1)
	}

	controller := medication.NewController(store, schedule.NewScheduler(queue))
	s := medication.NewServer(controller)

	if err := server.ServeStdio(s.MCPServer()); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println(`MCP Healing Server - medication management via MCP protocol

USAGE:
    healing-mcp          Start MCP server (communicates via stdio)
    healing-mcp --help   Show this help

ENVIRONMENT:
    HEALING_DATA_DIR  Data directory holding healing.db
                      Default: ~/.healing

TOOLS:
    add_medication     Add a medication and schedule its reminder
    list_day           List one day's medications
    list_range         List medications in a day range
    get_medication     Get a single medication by id
    mark_taken         Mark a medication taken or not taken
    delete_medication  Delete a medication`)
}
