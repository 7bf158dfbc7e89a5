// Package commands implements the mappedtypes subcommands.
package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/goliatone/go-mappedtypes/internal/cli/config"
	"github.com/goliatone/go-mappedtypes/pkg/mapped"
	"github.com/goliatone/go-mappedtypes/pkg/metadata"
	"github.com/goliatone/go-mappedtypes/pkg/typedef"
)

// ErrNoDefinitions is returned when a command needs type definitions and none
// are configured.
var ErrNoDefinitions = errors.New("no definitions configured (use --definitions or set definitions in mappedtypes.yaml)")

// Session holds the registry built from the configured definitions.
type Session struct {
	Config    *config.Config
	Logger    *slog.Logger
	Registry  *metadata.Registry
	Generator *mapped.Generator
	Catalog   *typedef.Catalog
}

// NewSession loads the configured definitions into a fresh registry.
func NewSession(ctx context.Context) (*Session, error) {
	cfg := config.FromContext(ctx)
	logger := config.GetLogger(ctx)

	doc, err := loadDocument(cfg.Definitions)
	if err != nil {
		return nil, err
	}

	reg := metadata.NewRegistry()
	gen := mapped.New(reg,
		mapped.WithLogger(logger),
		mapped.WithOptionalFiltering(cfg.FilterOptional),
	)
	catalog, err := doc.Apply(ctx, reg, gen)
	if err != nil {
		return nil, err
	}
	logger.Debug("definitions loaded",
		slog.String("path", cfg.Definitions),
		slog.Int("types", len(doc.Types)),
		slog.Int("derived", len(doc.Derive)),
	)

	return &Session{
		Config:    cfg,
		Logger:    logger,
		Registry:  reg,
		Generator: gen,
		Catalog:   catalog,
	}, nil
}

// Resolve returns the token for a declared type name.
func (s *Session) Resolve(name string) (metadata.Token, error) {
	if token, ok := s.Catalog.Token(name); ok {
		return token, nil
	}
	if token, ok := s.Registry.Lookup(name); ok {
		return token, nil
	}
	return "", fmt.Errorf("type %q: %w", name, metadata.ErrTypeNotFound)
}

func loadDocument(path string) (*typedef.Document, error) {
	if path == "" {
		return nil, ErrNoDefinitions
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("definitions: %w", err)
	}
	if info.IsDir() {
		return typedef.LoadFS(os.DirFS(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("definitions: %w", err)
	}
	doc, err := typedef.Parse(data, path)
	if err != nil {
		return nil, err
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}
