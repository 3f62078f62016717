package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/Caven15/demo-flask-cicd-docker/internal/auth"
	"github.com/Caven15/demo-flask-cicd-docker/internal/config"
	"github.com/Caven15/demo-flask-cicd-docker/internal/monitor"
	"github.com/Caven15/demo-flask-cicd-docker/internal/store"
	"github.com/Caven15/demo-flask-cicd-docker/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	for _, dir := range []string{cfg.CacheDir, filepath.Dir(cfg.DBPath), filepath.Dir(cfg.LogPath)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatalf("creating %s: %v", dir, err)
		}
	}

	// The terminal belongs to the UI, so logs go to a file.
	logFile, err := os.OpenFile(cfg.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		log.Fatalf("opening log: %v", err)
	}
	defer logFile.Close()
	log.SetOutput(logFile)

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Printf("opening session store: %v", err)
		fmt.Fprintf(os.Stderr, "Error: opening session store: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	tokens := auth.NewTokenHolder(db, cfg.TokenKey)
	client := auth.NewClient(tokens, auth.NewSessionStore(), auth.Options{
		BaseURL:       cfg.BaseURL,
		Timeout:       cfg.RequestTimeout,
		LoginInterval: cfg.LoginInterval,
	})
	log.Printf("starting against %s", cfg.BaseURL)

	app := ui.NewApp(cfg, client)
	defer app.Close()
	p := tea.NewProgram(app, tea.WithAltScreen())

	mon := monitor.New(cfg.ExpiryCheck, client)
	mon.Start(p)
	defer mon.Stop()

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
