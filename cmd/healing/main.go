// Command healing is the local health companion: medication tracking
// with durable reminders, notes, a weekly meal plan, habits, and a chat
// assistant. All state lives on-device, no backend.
//
// Usage:
//
//	healing run                                  # reminder daemon
//	healing add <name> <dose> <date> <HH:MM>     # add a medication
//	healing list [date]                          # one day's medications
//	healing week [date]                          # seven days from date
//	healing taken <id> [true|false]              # flip the taken flag
//	healing delete <id>                          # delete a medication
//	healing note|meal|habit ...                  # notes, meal plan, habits
//	healing chat                                 # interactive assistant
//	healing register | login | logout            # local account
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/healing-app/healing/internal/config"
	"github.com/healing-app/healing/internal/medication"
	"github.com/healing-app/healing/internal/prefs"
	"github.com/healing-app/healing/internal/schedule"
	"github.com/healing-app/healing/internal/storage"
)

func main() {
	configPath := flag.String("config", config.GetDefaultConfigPath(), "Path to configuration file")
	dataDir := flag.String("data-dir", "", "Data directory (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.EnsureDataDir(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cmd := flag.Arg(0)
	if cmd == "" || cmd == "help" {
		printHelp()
		if cmd == "" {
			os.Exit(1)
		}
		return
	}

	if err := dispatch(cfg, cmd, flag.Args()[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func dispatch(cfg *config.Config, cmd string, args []string) error {
	switch cmd {
	case "run":
		return runDaemon(cfg)
	case "add", "list", "week", "taken", "delete":
		return runMedCommand(cfg, cmd, args)
	case "note":
		return runNoteCommand(cfg, args)
	case "meal":
		return runMealCommand(cfg, args)
	case "habit":
		return runHabitCommand(cfg, args)
	case "chat":
		return runChat(cfg)
	case "register", "login", "logout":
		return runAccountCommand(cfg, cmd)
	default:
		printHelp()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// openCore builds the shared persistence handle and the medication
// pipeline on top of it. The caller owns closing the returned db.
func openCore(cfg *config.Config) (*coreDeps, error) {
	db, err := storage.Open(cfg.DatabasePath())
	if err != nil {
		return nil, err
	}

	store, err := medication.NewStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	queue, err := schedule.NewQueue(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &coreDeps{
		db:         db,
		store:      store,
		queue:      queue,
		controller: medication.NewController(store, schedule.NewScheduler(queue)),
	}, nil
}

type coreDeps struct {
	db         interface{ Close() error }
	store      *medication.Store
	queue      *schedule.Queue
	controller *medication.Controller
}

func openPrefs(cfg *config.Config) (*prefs.Prefs, error) {
	return prefs.Open(cfg.PrefsPath())
}

func printHelp() {
	fmt.Println(`healing - local health companion

USAGE:
    healing [flags] <command> [args]

COMMANDS:
    run                               Start the reminder daemon
    add <name> <dose> <date> <HH:MM>  Add a medication and schedule its reminder
    list [date]                       List one day's medications (default: today)
    week [date]                       List seven days starting at date
    taken <id> [true|false]           Mark a medication taken (default: true)
    delete <id>                       Delete a medication
    note [add|list|edit|delete]       Free-form notes
    meal [set|list|clear|image]       Weekly meal plan
    habit [list|toggle]               Daily habit checklist
    chat                              Talk to the Healing assistant
    register                          Create the local account
    login                             Log in against the stored account
    logout                            Log out

FLAGS:
    -config PATH     Configuration file (default: ~/.healing/config.yaml)
    -data-dir PATH   Data directory (default: ~/.healing)

Dates are YYYY-MM-DD or the literal "today".`)
}
