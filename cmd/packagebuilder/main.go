package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jask/packagebuilder/internal/config"
	"github.com/jask/packagebuilder/internal/database"
	"github.com/jask/packagebuilder/internal/database/repository"
	"github.com/jask/packagebuilder/internal/logging"
	"github.com/jask/packagebuilder/internal/render"
	"github.com/jask/packagebuilder/internal/service"
	"github.com/jask/packagebuilder/internal/storage"
	"github.com/jask/packagebuilder/internal/templates"
	"github.com/jask/packagebuilder/internal/tui"
)

// runtime is everything a command needs once config, logging and the store are open.
type runtime struct {
	cfg         config.Config
	loc         *time.Location
	log         *logging.Logger
	db          *sql.DB
	registry    *templates.Registry
	packages    *service.PackageService
	export      *service.ExportService
	maintenance *service.MaintenanceService
}

func (r *runtime) Close() {
	if r.db != nil {
		_ = r.db.Close()
	}
	_ = r.log.Close()
}

func setup() (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logger, err := logging.New(cfg.Log.Path, cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		logger.Warn("using local timezone", "err", err)
		loc = time.Local
	}

	db, err := database.OpenMigrated(cfg.Database.Path)
	if err != nil {
		_ = logger.Close()
		return nil, fmt.Errorf("open db: %w", err)
	}

	registry, err := templates.LoadRegistry(cfg.Templates.Dir)
	if err != nil {
		_ = db.Close()
		_ = logger.Close()
		return nil, fmt.Errorf("templates: %w", err)
	}

	store := storage.New(repository.NewEntryRepo(db),
		storage.WithPrefix(cfg.Storage.Prefix),
		storage.WithLogger(logger.Logger),
	)
	builder := render.Builder{Registry: registry, Now: func() time.Time { return time.Now().In(loc) }}

	return &runtime{
		cfg:         cfg,
		loc:         loc,
		log:         logger,
		db:          db,
		registry:    registry,
		packages:    &service.PackageService{Store: store, Registry: registry, Log: logger.Logger},
		export:      &service.ExportService{Builder: builder, Dir: cfg.Export.Dir, Log: logger.Logger},
		maintenance: &service.MaintenanceService{DB: db, Store: store, Log: logger.Logger},
	}, nil
}

func main() {
	root := &cobra.Command{
		Use:           "packagebuilder",
		Short:         "Build and track USMC screening packages",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := setup()
			if err != nil {
				return err
			}
			defer rt.Close()
			return runTUI(cmd.Context(), rt)
		},
	}
	root.AddCommand(
		listCmd(),
		templatesCmd(),
		newCmd(),
		exportCmd(),
		backupCmd(),
		restoreCmd(),
		resetCmd(),
		configCmd(),
	)

	if err := root.ExecuteContext(context.Background()); err != nil {
		log.Fatalf("error: %v", err)
	}
}

func runTUI(ctx context.Context, rt *runtime) error {
	p := tea.NewProgram(tui.New(ctx, rt.cfg,
		tui.Services{Packages: rt.packages, Export: rt.export, Maintenance: rt.maintenance},
		rt.loc,
	), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return err
	}
	return nil
}
