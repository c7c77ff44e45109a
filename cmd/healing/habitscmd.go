package main

import (
	"fmt"

	"github.com/healing-app/healing/internal/config"
	"github.com/healing-app/healing/internal/habits"
)

func runHabitCommand(cfg *config.Config, args []string) error {
	p, err := openPrefs(cfg)
	if err != nil {
		return err
	}
	tracker := habits.NewTracker(p)

	if len(args) > 0 {
		switch args[0] {
		case "toggle":
			if len(args) < 2 {
				return fmt.Errorf("usage: healing habit toggle <id>")
			}
			if !knownHabit(args[1]) {
				return fmt.Errorf("unknown habit %q", args[1])
			}
			if err := tracker.Toggle(args[1]); err != nil {
				return err
			}
		case "list":
		default:
			return fmt.Errorf("unknown habit subcommand %q (want list, toggle)", args[0])
		}
	}

	fmt.Println(headerStyle.Render("Hábitos diarios"))
	for _, h := range habits.Catalog() {
		if tracker.IsSelected(h.ID) {
			fmt.Println(takenStyle.Render(fmt.Sprintf("  [x] %-12s %s", h.ID, h.Label)))
		} else {
			fmt.Println(pendingStyle.Render(fmt.Sprintf("  [ ] %-12s %s", h.ID, h.Label)))
		}
	}
	fmt.Println(dimStyle.Render(fmt.Sprintf("  progreso: %d%%", tracker.Percent())))
	return nil
}

func knownHabit(id string) bool {
	for _, h := range habits.Catalog() {
		if h.ID == id {
			return true
		}
	}
	return false
}
