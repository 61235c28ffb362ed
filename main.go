package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/timetable/internal/config"
	"github.com/sadopc/timetable/internal/export"
	"github.com/sadopc/timetable/internal/logging"
	"github.com/sadopc/timetable/internal/store"
	"github.com/sadopc/timetable/internal/timetable"
	"github.com/sadopc/timetable/internal/tui"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml (default: $TIMETABLE_CONFIG or ~/.config/timetable/config.yaml)")
	importPath := flag.String("import", "", "JSON backup to load entries from")
	flag.Parse()

	cfg, cfgPath, err := config.Resolve(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading config %s: %v\n", cfgPath, err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Env, cfg.LogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	s, err := store.New(cfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening database: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	entries := timetable.NewEntryStore()
	if *importPath != "" {
		if err := importEntries(entries, *importPath, logger); err != nil {
			fmt.Fprintf(os.Stderr, "error importing %s: %v\n", *importPath, err)
			os.Exit(1)
		}
	}

	logger.Info("starting",
		zap.String("config", cfgPath),
		zap.String("db", cfg.DBPath),
		zap.String("export_dir", cfg.ExportDir),
		zap.Int("entries", entries.Len()),
	)

	app := tui.NewApp(s, entries, cfg, logger)
	p := tea.NewProgram(app, tea.WithAltScreen())

	s.Subscribe(timetable.SettingsObserverFunc(func(ts timetable.Settings) {
		p.Send(tui.SettingsChangedMsg{Settings: ts})
	}))

	if _, err := p.Run(); err != nil {
		logger.Error("program exited", zap.Error(err))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func importEntries(es *timetable.EntryStore, path string, logger *zap.Logger) error {
	list, err := export.FromJSON(path)
	if err != nil {
		return err
	}
	skipped := 0
	for _, e := range list {
		if _, err := es.Add(e); err != nil {
			logger.Warn("skipping invalid entry", zap.String("id", e.ID), zap.Error(err))
			skipped++
		}
	}
	logger.Info("entries imported",
		zap.String("path", path),
		zap.Int("loaded", len(list)-skipped),
		zap.Int("skipped", skipped),
	)
	return nil
}
