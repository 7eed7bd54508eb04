package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-sitegen/internal/config"
	"github.com/goliatone/go-sitegen/internal/logging"
	"github.com/goliatone/go-sitegen/pkg/editor"
	"github.com/goliatone/go-sitegen/pkg/model"
	"github.com/goliatone/go-sitegen/pkg/orchestrator"
	"github.com/goliatone/go-sitegen/pkg/persistence"
	"github.com/goliatone/go-sitegen/pkg/persistence/memory"
	"github.com/goliatone/go-sitegen/pkg/persistence/rest"
	"github.com/goliatone/go-sitegen/pkg/persistence/sqlite"
	"github.com/goliatone/go-sitegen/pkg/render"
	"github.com/goliatone/go-sitegen/pkg/renderers/html"
	"github.com/goliatone/go-sitegen/pkg/renderers/jsonplan"
	"github.com/goliatone/go-sitegen/pkg/store"
)

// app carries the state shared by every subcommand of one invocation.
type app struct {
	configPath string
	verbose    bool

	cfg    config.Config
	logger *zap.Logger
	db     persistence.Store
	closer io.Closer
	store  *store.ConfigStore

	out    io.Writer
	driver editor.PromptDriver
}

func newApp() *app {
	return &app{out: os.Stdout}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "sitegen",
		Short:         "Build and preview affiliate site templates",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd.Context())
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			a.close()
		},
	}
	root.SetOut(a.out)
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default is ./"+config.DefaultFile+")")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newProjectsCmd(a),
		newImportCmd(a),
		newExportCmd(a),
		newPlanCmd(a),
		newPreviewCmd(a),
		newArticleCmd(a),
		newCTACmd(a),
		newSectionCmd(a),
		newPlacementCmd(a),
		newPageCmd(a),
		newNavbarCmd(a),
	)
	return root
}

func (a *app) init(ctx context.Context) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if a.logger == nil {
		logger, err := logging.New(cfg.Log, a.verbose)
		if err != nil {
			return err
		}
		a.logger = logger
	}

	if a.db == nil {
		db, closer, err := openPersistence(ctx, cfg.Persistence)
		if err != nil {
			return err
		}
		a.db, a.closer = db, closer
	}
	a.store = store.New(a.db, store.WithLogger(a.logger))
	a.logger.Debug("initialised",
		zap.String("driver", cfg.Persistence.Driver),
		zap.String("config", a.configPath),
	)
	return nil
}

func (a *app) close() {
	if a.closer != nil {
		if err := a.closer.Close(); err != nil && a.logger != nil {
			a.logger.Warn("close persistence", zap.Error(err))
		}
		a.closer = nil
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func openPersistence(_ context.Context, cfg config.Persistence) (persistence.Store, io.Closer, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return memory.New(), nil, nil
	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		return db, db, nil
	case config.DriverREST:
		client, err := rest.New(cfg.REST.BaseURL,
			rest.WithAPIKey(cfg.REST.APIKey),
			rest.WithTimeout(cfg.REST.Timeout),
		)
		if err != nil {
			return nil, nil, err
		}
		return client, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown persistence driver %q", cfg.Driver)
	}
}

func (a *app) orchestrator() (*orchestrator.Orchestrator, error) {
	var options []html.Option
	if a.cfg.Templates.Dir != "" {
		options = append(options, html.WithTemplatesDir(a.cfg.Templates.Dir))
	}
	preview, err := html.New(options...)
	if err != nil {
		return nil, err
	}
	registry := render.NewRegistry()
	registry.MustRegister(preview)
	registry.MustRegister(jsonplan.New())

	return orchestrator.New(
		orchestrator.WithStore(a.store),
		orchestrator.WithRegistry(registry),
		orchestrator.WithLogger(a.logger),
	), nil
}

func (a *app) editor() *editor.Editor {
	return editor.New(editor.WithPromptDriver(a.driver))
}

// target is the document a command reads or edits: a persisted project or a
// config file on disk.
type target struct {
	file  string
	store *store.ConfigStore
}

type targetFlags struct {
	project string
	file    string
}

func (f *targetFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.project, "project", "p", "", "project id (default is the most recently updated project)")
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "edit a JSON or YAML config file instead of a stored project")
	cmd.MarkFlagsMutuallyExclusive("project", "file")
}

func (a *app) openTarget(ctx context.Context, flags targetFlags) (*target, error) {
	if flags.file != "" {
		cfg, err := readConfigFile(flags.file)
		if err != nil {
			return nil, err
		}
		s := store.New(memory.New(), store.WithInitial(cfg), store.WithLogger(a.logger))
		return &target{file: flags.file, store: s}, nil
	}

	if flags.project != "" {
		if _, err := a.store.Load(ctx, flags.project); err != nil {
			return nil, err
		}
		return &target{store: a.store}, nil
	}

	_, found, err := a.store.LoadMostRecent(ctx)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, store.ErrNoProjects
	}
	return &target{store: a.store}, nil
}

// commit writes the edited document back to wherever it came from.
func (a *app) commit(ctx context.Context, t *target) error {
	if t.file != "" {
		return writeConfigFile(t.file, t.store.Snapshot())
	}
	id, err := t.store.SaveCurrent(ctx, t.store.ProjectName())
	if err != nil {
		return err
	}
	a.logger.Info("saved project", zap.String("id", id))
	return nil
}

func (t *target) snapshot() model.TemplateConfig {
	return t.store.Snapshot()
}

func (t *target) label() string {
	if t.file != "" {
		return t.file
	}
	return t.store.ProjectID()
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
