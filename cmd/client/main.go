package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hawk-journal/hawk/internal/api"
	"github.com/hawk-journal/hawk/internal/config"
	"github.com/hawk-journal/hawk/internal/i18n"
	"github.com/hawk-journal/hawk/internal/ui"
	"golang.org/x/term"
)

func main() {
	printLogo()

	configPath := config.DefaultConfigPath()

	if !config.ConfigExists(configPath) {
		if err := firstTimeSetup(configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Setup error: %v\n", err)
			os.Exit(1)
		}
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if cfg.Language != "" {
		i18n.SetLanguage(i18n.Language(cfg.Language))
	}

	if cfg.Server.URL == "" {
		fmt.Fprintln(os.Stderr, "No server configured. Set server.url in "+configPath)
		os.Exit(1)
	}

	client := api.NewClient(cfg.Server.URL)
	if err := login(client, cfg, configPath); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", i18n.T().Error, err)
		os.Exit(1)
	}

	m := ui.NewModel(client, cfg)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", i18n.T().Error, err)
		os.Exit(1)
	}
}

func printLogo() {
	fmt.Println()
	fmt.Println("  ██╗  ██╗ █████╗ ██╗    ██╗██╗  ██╗")
	fmt.Println("  ██║  ██║██╔══██╗██║ █╗ ██║██║ ██╔╝")
	fmt.Println("  ███████║███████║██║███╗██║█████╔╝ ")
	fmt.Println("  ██╔══██║██╔══██║██║╚███╔███╔╝██╔═██╗ ")
	fmt.Println("  ██║  ██║██║  ██║╚███╔╝╚██╔╝ ██║  ██╗")
	fmt.Println("  ╚═╝  ╚═╝╚═╝  ╚═╝ ╚══╝  ╚═╝  ╚═╝  ╚═╝")
	fmt.Println()
}

func firstTimeSetup(configPath string) error {
	fmt.Println("  Welcome to Hawk!")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)

	fmt.Print("  Server URL (e.g. http://localhost:5690): ")
	url, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	cfg := &config.Config{
		Language: "en",
		Theme:    "dark",
	}
	cfg.Server.URL = strings.TrimSpace(url)

	if err := cfg.Save(configPath); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("  Configuration created!")
	fmt.Println("  Edit hawk.yml to customize.")
	fmt.Println()

	return nil
}

func login(client *api.Client, cfg *config.Config, configPath string) error {
	if err := client.Ping(); err != nil {
		return fmt.Errorf("server unreachable")
	}

	// A stored token is assumed valid; the first API call rejects it
	// otherwise and the user can log in again.
	if cfg.Server.Token != "" {
		client.SetToken(cfg.Server.Token)
		return nil
	}

	password, err := promptPassword()
	if err != nil {
		return err
	}

	resp, err := client.Login(password)
	if err != nil {
		return fmt.Errorf("login failed")
	}

	cfg.Server.Token = resp.Token
	if err := cfg.Save(configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not save token, you will be asked to log in again: %v\n", err)
	}
	return nil
}

func promptPassword() (string, error) {
	fmt.Print(i18n.T().Password)

	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(password)), nil
	}

	reader := bufio.NewReader(os.Stdin)
	password, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(password), nil
}
