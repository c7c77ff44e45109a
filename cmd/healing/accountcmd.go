package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/healing-app/healing/internal/account"
	"github.com/healing-app/healing/internal/config"
)

func runAccountCommand(cfg *config.Config, cmd string) error {
	p, err := openPrefs(cfg)
	if err != nil {
		return err
	}
	svc := account.NewService(p)

	switch cmd {
	case "register":
		return accountRegister(svc)
	case "login":
		return accountLogin(svc)
	case "logout":
		if err := svc.Logout(); err != nil {
			return err
		}
		fmt.Println("Sesión cerrada.")
		return nil
	}
	return nil
}

func accountRegister(svc *account.Service) error {
	name, err := prompt("nombre: ")
	if err != nil {
		return err
	}
	email, err := prompt("correo: ")
	if err != nil {
		return err
	}
	password, err := prompt("contraseña: ")
	if err != nil {
		return err
	}

	errs, err := svc.Register(name, email, password)
	if err != nil {
		return err
	}
	if !errs.OK() {
		printFieldErrors(errs.Name, errs.Email, errs.Password)
		return fmt.Errorf("datos inválidos")
	}

	fmt.Println("Cuenta creada. Sesión iniciada.")
	return nil
}

func accountLogin(svc *account.Service) error {
	email, err := prompt("correo: ")
	if err != nil {
		return err
	}
	password, err := prompt("contraseña: ")
	if err != nil {
		return err
	}

	errs, err := svc.Login(email, password)
	if err != nil {
		return err
	}
	if !errs.OK() {
		printFieldErrors("", errs.Email, errs.Password)
		return fmt.Errorf("datos inválidos")
	}

	fmt.Println("Sesión iniciada.")
	return nil
}

func prompt(label string) (string, error) {
	fmt.Print(label)
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return "", fmt.Errorf("no input")
	}
	return strings.TrimSpace(scanner.Text()), nil
}

func printFieldErrors(msgs ...string) {
	for _, msg := range msgs {
		if msg != "" {
			fmt.Println(pendingStyle.Render("  " + msg))
		}
	}
}
