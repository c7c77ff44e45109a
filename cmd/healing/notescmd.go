package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/healing-app/healing/internal/config"
	"github.com/healing-app/healing/internal/notes"
	"github.com/healing-app/healing/internal/storage"
)

func runNoteCommand(cfg *config.Config, args []string) error {
	db, err := storage.Open(cfg.DatabasePath())
	if err != nil {
		return err
	}
	defer db.Close()

	store, err := notes.NewStore(db)
	if err != nil {
		return err
	}

	sub := "list"
	if len(args) > 0 {
		sub = args[0]
		args = args[1:]
	}

	switch sub {
	case "add":
		if len(args) < 1 {
			return fmt.Errorf("usage: healing note add <texto>")
		}
		id, err := store.Add(strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Printf("Nota %d guardada\n", id)
		return nil

	case "edit":
		if len(args) < 2 {
			return fmt.Errorf("usage: healing note edit <id> <texto>")
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id %q: %w", args[0], err)
		}
		return store.UpdateContent(id, strings.Join(args[1:], " "))

	case "delete":
		if len(args) < 1 {
			return fmt.Errorf("usage: healing note delete <id>")
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id %q: %w", args[0], err)
		}
		return store.Delete(id)

	case "list":
		all, err := store.All()
		if err != nil {
			return err
		}
		if len(all) == 0 {
			fmt.Println(dimStyle.Render("  (sin notas)"))
			return nil
		}
		for _, n := range all {
			fmt.Println(headerStyle.Render(fmt.Sprintf("[%d] %s", n.ID, n.CreatedAt.Local().Format("2006-01-02 15:04"))))
			fmt.Printf("  %s\n", n.Content)
		}
		return nil

	default:
		return fmt.Errorf("unknown note subcommand %q (want add, list, edit, delete)", sub)
	}
}
