// Package cli implements the command-line front end: it parses flags,
// opens the expense store described by the configuration and renders
// results for the terminal.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"

	"expensetracker/internal/backend"
	"expensetracker/internal/config"
	"expensetracker/internal/core"
	"expensetracker/internal/log"
	"expensetracker/internal/services"
	"expensetracker/internal/storage"
)

// session bundles what every command needs once flags are parsed.
type session struct {
	cfg      *config.Config
	logger   *log.Logger
	store    *services.ExpenseService
	backend  backend.BackendType
	location string
}

// LoadConfig reads the environment and applies global flag overrides.
func LoadConfig(globals *Globals) (*config.Config, error) {
	cfg := config.Load()
	if globals.File != "" {
		cfg.DataFile = globals.File
	}
	if globals.Backend != "" {
		cfg.DataBackend = globals.Backend
	}
	if globals.Currency != "" {
		cfg.CurrencySymbol = globals.Currency
	}
	if globals.Verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SetupLogger builds the process logger from configuration and installs it
// as the slog default.
func SetupLogger(cfg *config.Config, w io.Writer) *log.Logger {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = slog.LevelWarn
	}
	logger := log.New(log.Config{
		Level:     level,
		Format:    cfg.LogFormat,
		Component: log.ComponentCLI,
		Writer:    w,
	})
	log.SetDefault(logger)
	return logger
}

// openSession loads configuration, selects the backend and loads the store.
func openSession(ctx context.Context, command string, globals *Globals, stderr io.Writer) (*session, error) {
	cfg, err := LoadConfig(globals)
	if err != nil {
		return nil, err
	}
	logger := SetupLogger(cfg, stderr)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		return nil, err
	}

	store, err := services.NewExpenseService(ctx, res.Repository, logger)
	if err != nil {
		if cerr := res.Close(); cerr != nil {
			logger.Warn("Failed to close backend", log.FieldError, cerr)
		}
		return nil, err
	}

	logger.Debug("Store opened",
		log.FieldCommand, command,
		log.FieldBackend, backendCfg.Type.String(),
		log.FieldPath, res.Location,
		log.FieldCount, store.Len())

	return &session{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		backend:  backendCfg.Type,
		location: res.Location,
	}, nil
}

func (s *session) Close() error {
	return s.store.Close()
}

// categories returns the suggestions for the add form: the configured
// categories file, or the built-in list, followed by categories in use.
func (s *session) categories() []string {
	suggested := core.DefaultCategories
	if s.cfg.CategoriesFile != "" {
		if lines := readLines(s.cfg.CategoriesFile); len(lines) > 0 {
			suggested = lines
		}
	}
	return s.store.Categories(suggested)
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// describe turns an error surfaced by the store into a message for the user.
func describe(err error) string {
	msg := err.Error()
	switch {
	case errors.Is(err, core.ErrInvalidAmount):
		return "Please enter valid amount: " + trimPrefix(msg)
	case errors.Is(err, core.ErrInvalidDate):
		return "Please enter valid date: " + trimPrefix(msg)
	case errors.Is(err, core.ErrInvalidMonth):
		return "Please enter valid year and month: " + trimPrefix(msg)
	case errors.Is(err, storage.ErrMalformedData):
		return "Expense data could not be read: " + msg
	case errors.Is(err, storage.ErrIO):
		return "Expense data could not be accessed: " + msg
	}
	return msg
}

// trimPrefix drops the sentinel text that precedes the detail in wrapped
// core errors ("invalid amount: \"x\" is not a number").
func trimPrefix(msg string) string {
	if i := strings.Index(msg, ": "); i >= 0 {
		return msg[i+2:]
	}
	return msg
}

func fail(w io.Writer, err error) error {
	printError(w, describe(err))
	return NewCommandError(1)
}

func failf(w io.Writer, format string, args ...any) error {
	printError(w, fmt.Sprintf(format, args...))
	return NewCommandError(1)
}
