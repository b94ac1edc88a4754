package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/CodeInLemonDD/LemonVRCT/internal/config"
	"github.com/CodeInLemonDD/LemonVRCT/internal/logger"
	"github.com/CodeInLemonDD/LemonVRCT/internal/tui"
)

func main() {
	store := config.NewStore(config.DefaultPath)
	if err := store.EnsureExists(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create settings file: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(config.DefaultPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{Level: cfg.LogLevel(), File: cfg.Log.File})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		os.Exit(1)
	}

	app := NewApp(cfg, log)
	defer app.Stop()

	fmt.Println(strings.Repeat("=", 50))
	fmt.Println("VRChat Voice Translation Software")
	fmt.Println(strings.Repeat("=", 50))

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Println()
		fmt.Println("Control Menu")
		fmt.Println("1. Start Main Program")
		fmt.Println("2. Open Configuration Interface")
		fmt.Println("3. Exit")
		fmt.Print("\nPlease enter your choice (1-3): ")

		if !scanner.Scan() {
			fmt.Println("\nExiting program...")
			return
		}

		switch strings.TrimSpace(scanner.Text()) {
		case "1":
			if app.Running() {
				fmt.Println("Main program is already running.")
				continue
			}
			if err := app.Start(); err != nil {
				log.Error("failed to start main program", "error", err)
				continue
			}
			fmt.Println("Main program started and running in background.")
		case "2":
			if err := tui.Run(store); err != nil {
				log.Error("configuration interface failed", "error", err)
			} else {
				fmt.Println("Configuration saved. Restart the main program to apply changes.")
			}
		case "3":
			fmt.Println("Exiting program...")
			return
		default:
			fmt.Println("Invalid choice, please enter 1, 2 or 3")
		}
	}
}
