package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/healing-app/healing/internal/config"
	"github.com/healing-app/healing/internal/mealplan"
	"github.com/healing-app/healing/internal/storage"
)

var weekdayNames = []string{"Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado", "Domingo"}

func runMealCommand(cfg *config.Config, args []string) error {
	db, err := storage.Open(cfg.DatabasePath())
	if err != nil {
		return err
	}
	defer db.Close()

	store, err := mealplan.NewStore(db)
	if err != nil {
		return err
	}

	sub := "list"
	if len(args) > 0 {
		sub = args[0]
		args = args[1:]
	}

	switch sub {
	case "set":
		if len(args) < 3 {
			return fmt.Errorf("usage: healing meal set <dia 1-7> <tipo> <descripción>")
		}
		day, mealType, err := parseMealKey(args[0], args[1])
		if err != nil {
			return err
		}
		return store.Set(day, mealType, strings.Join(args[2:], " "))

	case "clear":
		if len(args) < 2 {
			return fmt.Errorf("usage: healing meal clear <dia 1-7> <tipo>")
		}
		day, mealType, err := parseMealKey(args[0], args[1])
		if err != nil {
			return err
		}
		return store.DeleteByKey(day, mealType)

	case "image":
		if len(args) < 3 {
			return fmt.Errorf("usage: healing meal image <dia 1-7> <tipo> <uri>")
		}
		day, mealType, err := parseMealKey(args[0], args[1])
		if err != nil {
			return err
		}
		return store.SaveImage(day, mealType, args[2])

	case "list":
		all, err := store.All()
		if err != nil {
			return err
		}
		if len(all) == 0 {
			fmt.Println(dimStyle.Render("  (plan semanal vacío)"))
			return nil
		}

		byDay := make(map[int][]mealplan.Entry)
		for _, e := range all {
			byDay[e.DayOfWeek] = append(byDay[e.DayOfWeek], e)
		}
		for day := 1; day <= 7; day++ {
			entries := byDay[day]
			if len(entries) == 0 {
				continue
			}
			fmt.Println(headerStyle.Render(weekdayNames[day-1]))
			for _, mealType := range mealplan.MealTypes() {
				for _, e := range entries {
					if e.MealType != mealType {
						continue
					}
					line := fmt.Sprintf("  %-9s %s", e.MealType, e.Description)
					if uri, ok, _ := store.ImageFor(e.DayOfWeek, e.MealType); ok {
						line += dimStyle.Render("  (" + uri + ")")
					}
					fmt.Println(line)
				}
			}
		}
		return nil

	default:
		return fmt.Errorf("unknown meal subcommand %q (want set, list, clear, image)", sub)
	}
}

func parseMealKey(dayArg, typeArg string) (int, string, error) {
	day, err := strconv.Atoi(dayArg)
	if err != nil {
		return 0, "", fmt.Errorf("invalid day %q (want 1..7): %w", dayArg, err)
	}

	for _, mt := range mealplan.MealTypes() {
		if strings.EqualFold(mt, typeArg) {
			return day, mt, nil
		}
	}
	return 0, "", fmt.Errorf("invalid meal type %q (want %s)", typeArg, strings.Join(mealplan.MealTypes(), ", "))
}
