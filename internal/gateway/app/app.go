package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"refactorengine/internal/artifact"
	"refactorengine/internal/config"
	"refactorengine/internal/gateway/handler"
	"refactorengine/internal/gateway/server"
	"refactorengine/internal/llm"
	"refactorengine/internal/packaging"
	"refactorengine/internal/refactor/generation"
	"refactorengine/internal/refactor/run"
	"refactorengine/internal/sourcefs"
	"refactorengine/internal/types"
	"refactorengine/internal/workspace"
)

// Engine is the wired refactor pipeline shared by the server and the CLI.
type Engine struct {
	LLM        llm.LLMClient
	Controller *run.Controller
	Workspace  *workspace.Workspace
}

// NewEngine wires the LLM client, run controller and workspace from cfg. A
// missing credential is not fatal: runs fail with a configuration error until
// the environment is fixed.
func NewEngine(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (*Engine, error) {
	cli, err := llm.NewFromConfig(ctx, llm.Options{
		Provider:   cfg.LLM.Provider,
		Model:      cfg.LLM.Model,
		APIKey:     cfg.LLM.LLMKey(),
		BaseURL:    cfg.LLM.BaseURL,
		OllamaHost: cfg.LLM.OllamaHost,
		RPS:        cfg.LLM.RPS,
		Burst:      cfg.LLM.Burst,
		Logger:     log,
	})
	switch {
	case errors.Is(err, llm.ErrMissingCredential):
		log.WithField("provider", cfg.LLM.Provider).Warn("no LLM credential configured; runs will fail until one is set")
		cli = nil
	case err != nil:
		return nil, fmt.Errorf("failed to init llm client: %w", err)
	}

	gen := generation.New(cli,
		generation.WithTimeout(cfg.LLM.Timeout),
		generation.WithDefaults(generation.Defaults{
			Summary: cfg.Fallback.Summary,
			Log:     cfg.Fallback.Log,
		}),
	)
	ctrl := run.NewController(gen, log)

	var inputs []types.FileRecord
	if dir := cfg.Source.Dir; dir != "" {
		if inputs, err = sourcefs.Read(dir, sourcefs.Options{}); err != nil {
			return nil, fmt.Errorf("failed to read source dir: %w", err)
		}
		log.WithFields(logrus.Fields{"dir": dir, "files": len(inputs)}).Info("loaded source files")
	}

	packager, err := packaging.NewCachedPackager(packaging.Packager{Root: cfg.Archive.Root}, cfg.Archive.CacheEntries)
	if err != nil {
		return nil, err
	}
	ws, err := workspace.New(ctrl, workspace.Options{
		Inputs:        inputs,
		ArchivePrefix: cfg.Archive.Prefix,
		Packager:      packager,
		Logger:        log,
	})
	if err != nil {
		return nil, err
	}
	return &Engine{LLM: cli, Controller: ctrl, Workspace: ws}, nil
}

// Close releases the LLM client.
func (e *Engine) Close() error {
	if e.LLM == nil {
		return nil
	}
	return e.LLM.Close()
}

type App struct {
	engine *Engine
	store  artifact.Store
	server *server.Server
}

func New(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (*App, error) {
	engine, err := NewEngine(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	store, err := initArtifactStore(cfg, log)
	if err != nil {
		_ = engine.Close()
		return nil, err
	}

	api := handler.New(engine.Workspace, store, log)
	runs := handler.NewRunEventsHandler(engine.Controller, log)

	// Routing & Server
	mux := server.NewMux(api, runs, log)
	srv := server.New(cfg.Port, mux, log)

	return &App{engine: engine, store: store, server: srv}, nil
}

func (a *App) Start() error {
	return a.server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	err := a.server.Shutdown(ctx)
	return errors.Join(err, a.engine.Close())
}
