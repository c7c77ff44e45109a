package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/healing-app/healing/internal/config"
	"github.com/healing-app/healing/internal/medication"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")).
			Bold(true)

	takenStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("114"))

	pendingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("222"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

func runMedCommand(cfg *config.Config, cmd string, args []string) error {
	core, err := openCore(cfg)
	if err != nil {
		return err
	}
	defer core.db.Close()

	switch cmd {
	case "add":
		return medAdd(core, args)
	case "list":
		return medList(core, args)
	case "week":
		return medWeek(core, args)
	case "taken":
		return medTaken(core, args)
	case "delete":
		return medDelete(core, args)
	}
	return nil
}

func medAdd(core *coreDeps, args []string) error {
	if len(args) < 4 {
		return fmt.Errorf("usage: healing add <name> <dose> <date> <HH:MM>")
	}

	dose, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid dose %q: %w", args[1], err)
	}

	day, err := parseDay(args[2])
	if err != nil {
		return err
	}

	hour, minute, err := parseClock(args[3])
	if err != nil {
		return err
	}

	id, err := core.controller.Add(args[0], dose, day, hour, minute)
	if err != nil {
		return err
	}

	m, err := core.controller.GetByID(id)
	if err != nil {
		return err
	}

	fmt.Printf("Added medication %d: %s, dosis %d, %s %02d:%02d\n",
		m.ID, m.Name, m.DoseCount, formatDay(m.DateEpochDay), m.Hour, m.Minute)
	return nil
}

func medList(core *coreDeps, args []string) error {
	day := medication.Today()
	if len(args) > 0 {
		var err error
		if day, err = parseDay(args[0]); err != nil {
			return err
		}
	}

	meds, err := core.store.ByDay(day)
	if err != nil {
		return err
	}

	fmt.Println(headerStyle.Render(formatDay(day)))
	printMeds(meds)
	return nil
}

func medWeek(core *coreDeps, args []string) error {
	start := medication.Today()
	if len(args) > 0 {
		var err error
		if start, err = parseDay(args[0]); err != nil {
			return err
		}
	}

	meds, err := core.store.ByRange(start, start+6)
	if err != nil {
		return err
	}

	var currentDay int64 = -1
	for _, m := range meds {
		if m.DateEpochDay != currentDay {
			currentDay = m.DateEpochDay
			fmt.Println(headerStyle.Render(formatDay(currentDay)))
		}
		printMed(m)
	}
	if len(meds) == 0 {
		fmt.Println(dimStyle.Render("  (sin medicamentos)"))
	}
	return nil
}

func medTaken(core *coreDeps, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: healing taken <id> [true|false]")
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q: %w", args[0], err)
	}

	taken := true
	if len(args) > 1 {
		if taken, err = strconv.ParseBool(args[1]); err != nil {
			return fmt.Errorf("invalid taken value %q: %w", args[1], err)
		}
	}

	return core.controller.MarkTaken(id, taken)
}

func medDelete(core *coreDeps, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: healing delete <id>")
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q: %w", args[0], err)
	}

	return core.controller.Delete(medication.Medication{ID: id})
}

func printMeds(meds []medication.Medication) {
	if len(meds) == 0 {
		fmt.Println(dimStyle.Render("  (sin medicamentos)"))
		return
	}
	for _, m := range meds {
		printMed(m)
	}
}

func printMed(m medication.Medication) {
	line := fmt.Sprintf("  %02d:%02d  %s · dosis %d  [%d]", m.Hour, m.Minute, m.Name, m.DoseCount, m.ID)
	if m.Taken {
		fmt.Println(takenStyle.Render(line + "  ✓"))
	} else {
		fmt.Println(pendingStyle.Render(line))
	}
}

// parseDay accepts YYYY-MM-DD or the literal "today".
func parseDay(s string) (int64, error) {
	if s == "today" {
		return medication.Today(), nil
	}

	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return 0, fmt.Errorf("invalid date %q (want YYYY-MM-DD or \"today\"): %w", s, err)
	}
	return medication.EpochDay(t), nil
}

func parseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time %q (want HH:MM): %w", s, err)
	}
	return t.Hour(), t.Minute(), nil
}

func formatDay(day int64) string {
	year, month, dom := medication.DateOfEpochDay(day)
	return fmt.Sprintf("%04d-%02d-%02d", year, month, dom)
}
