package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/chzyer/readline"

	"github.com/healing-app/healing/internal/chat"
	"github.com/healing-app/healing/internal/config"
)

// runChat is the interactive assistant loop.
func runChat(cfg *config.Config) error {
	client, err := chat.NewClient(cfg.Chat)
	if err != nil {
		return err
	}
	session := chat.NewSession(client)

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            "Tú: ",
		InterruptPrompt:   "^C",
		EOFPrompt:         "salir",
		HistorySearchFold: true,
	})
	if err != nil {
		return fmt.Errorf("failed to set up input: %w", err)
	}
	defer rl.Close()

	fmt.Println(headerStyle.Render("Healing") + dimStyle.Render(" · asistente de salud. Escribe /salir para terminar."))

	ctx := context.Background()
	for {
		line, err := rl.Readline()
		if err != nil {
			if err == io.EOF || err == readline.ErrInterrupt {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "/salir" || line == "/exit" {
			return nil
		}

		reply, err := session.Send(ctx, line)
		if err != nil {
			fmt.Println(pendingStyle.Render("Error: " + err.Error()))
			continue
		}

		rendered, err := renderer.Render(reply)
		if err != nil {
			// Renderer failure is cosmetic; fall back to plain text.
			rendered = reply + "\n"
		}
		fmt.Print(rendered)
	}
}
