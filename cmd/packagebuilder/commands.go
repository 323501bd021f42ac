package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jask/packagebuilder/internal/config"
	"github.com/jask/packagebuilder/internal/dateutil"
	"github.com/jask/packagebuilder/internal/render"
	"github.com/jask/packagebuilder/internal/service"
	"github.com/jask/packagebuilder/internal/storage"
	"github.com/jask/packagebuilder/internal/templates"
	"github.com/jask/packagebuilder/internal/tracker"
)

// withRuntime opens the store for the life of one command.
func withRuntime(fn func(ctx context.Context, rt *runtime, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		rt, err := setup()
		if err != nil {
			return err
		}
		defer rt.Close()
		return fn(cmd.Context(), rt, args)
	}
}

// resolvePackage accepts a full id, the id without its key prefix, or any unique prefix of either.
func resolvePackage(ctx context.Context, rt *runtime, ref string) (*tracker.Package, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, errors.New("package id is required")
	}
	list, err := rt.packages.List(ctx)
	if err != nil {
		return nil, err
	}
	var match *tracker.Package
	for _, s := range list {
		id := s.Package.ID
		if id == ref {
			return s.Package, nil
		}
		if strings.HasPrefix(id, ref) || strings.HasPrefix(strings.TrimPrefix(id, storage.PackageKeyPrefix), ref) {
			if match != nil {
				return nil, fmt.Errorf("package id %q is ambiguous", ref)
			}
			match = s.Package
		}
	}
	if match == nil {
		return nil, service.ErrPackageNotFound
	}
	return match, nil
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved packages, most recently updated first",
		Args:  cobra.NoArgs,
		RunE: withRuntime(func(ctx context.Context, rt *runtime, _ []string) error {
			list, err := rt.packages.List(ctx)
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Println("no saved packages")
				return nil
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTYPE\tAPPLICANT\tSTATUS\tPROGRESS\tUPDATED")
			for _, s := range list {
				p := s.Package
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d%%\t%s\n",
					p.ID, p.Type, p.Applicant.DisplayName(), p.Status,
					s.Progress.Percentage, dateutil.FormatMilitary(p.LastUpdated.In(rt.loc)))
			}
			return w.Flush()
		}),
	}
}

func templatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List package types",
		Args:  cobra.NoArgs,
		RunE: withRuntime(func(_ context.Context, rt *runtime, _ []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tDOCS\tREFERENCE")
			for _, t := range rt.registry.Available() {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", t.ID, t.Name, len(t.Documents), t.Reference)
			}
			for _, c := range rt.registry.ComingSoon() {
				fmt.Fprintf(w, "%s\t%s\t-\tcoming soon\n", c.ID, c.Name)
			}
			return w.Flush()
		}),
	}
}

func newCmd() *cobra.Command {
	var (
		info     templates.ApplicantInfo
		deadline string
		details  []string
	)
	cmd := &cobra.Command{
		Use:   "new TYPE",
		Short: "Create a package for an applicant",
		Args:  cobra.ExactArgs(1),
		RunE: withRuntime(func(ctx context.Context, rt *runtime, args []string) error {
			d, err := dateutil.ParseDate(deadline, rt.loc)
			if err != nil {
				return fmt.Errorf("deadline: %w", err)
			}
			info.Deadline = d
			info.Details = map[string]string{}
			for _, kv := range details {
				k, v, ok := strings.Cut(kv, "=")
				if !ok {
					return fmt.Errorf("detail %q: want key=value", kv)
				}
				info.Details[strings.TrimSpace(k)] = strings.TrimSpace(v)
			}
			p, err := rt.packages.Create(ctx, args[0], info)
			if err != nil {
				return err
			}
			fmt.Println(p.ID)
			return nil
		}),
	}
	f := cmd.Flags()
	f.StringVar(&info.Name, "name", "", "applicant name (required)")
	f.StringVar(&info.Rank, "rank", "", "applicant rank")
	f.StringVar(&info.EDIPI, "edipi", "", "applicant EDIPI")
	f.StringVar(&info.MOS, "mos", "", "applicant MOS")
	f.StringVar(&info.Unit, "unit", "", "applicant unit")
	f.StringVar(&info.Sex, "sex", "", "male or female")
	f.StringVar(&deadline, "deadline", "", "submission deadline, YYYY-MM-DD")
	f.StringArrayVar(&details, "detail", nil, "type-specific field as key=value, repeatable")
	return cmd
}

func exportCmd() *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "export ID",
		Short: "Write a package's sheets as PDF",
		Args:  cobra.ExactArgs(1),
		RunE: withRuntime(func(ctx context.Context, rt *runtime, args []string) error {
			p, err := resolvePackage(ctx, rt, args[0])
			if err != nil {
				return err
			}
			var paths []string
			if kind == "" || kind == "all" {
				paths, err = rt.export.Summary(ctx, p)
			} else {
				var path string
				k := render.Kind(kind)
				if !isKind(k) {
					return fmt.Errorf("unknown sheet %q", kind)
				}
				path, err = rt.export.Export(ctx, p, k)
				paths = []string{path}
			}
			if err != nil {
				return err
			}
			for _, path := range paths {
				fmt.Println(path)
			}
			return nil
		}),
	}
	cmd.Flags().StringVar(&kind, "sheet", "all", "coversheet, checklist, routing, or all")
	return cmd
}

func isKind(k render.Kind) bool {
	for _, known := range render.Kinds {
		if k == known {
			return true
		}
	}
	return false
}

func backupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup FILE",
		Short: "Write every saved package to a JSON snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: withRuntime(func(ctx context.Context, rt *runtime, args []string) error {
			n, err := rt.packages.Backup(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("backed up %d packages to %s\n", n, args[0])
			return nil
		}),
	}
}

func restoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore FILE",
		Short: "Load packages from a JSON snapshot, replacing any with the same id",
		Args:  cobra.ExactArgs(1),
		RunE: withRuntime(func(ctx context.Context, rt *runtime, args []string) error {
			n, err := rt.packages.Restore(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("restored %d packages\n", n)
			return nil
		}),
	}
}

func resetCmd() *cobra.Command {
	var all, yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete saved packages, or everything with --all",
		Args:  cobra.NoArgs,
		RunE: withRuntime(func(ctx context.Context, rt *runtime, _ []string) error {
			if !yes {
				return errors.New("refusing to delete without --yes")
			}
			var (
				n   int64
				err error
			)
			if all {
				n, err = rt.maintenance.Reset(ctx)
			} else {
				n, err = rt.maintenance.ClearPackages(ctx)
			}
			if err != nil {
				return err
			}
			fmt.Printf("removed %d entries\n", n)
			return nil
		}),
	}
	cmd.Flags().BoolVar(&all, "all", false, "also clear theme and preview preferences")
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")
	return cmd
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or initialize the config file",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "database.path\t%s\n", cfg.Database.Path)
			fmt.Fprintf(w, "storage.prefix\t%s\n", cfg.Storage.Prefix)
			fmt.Fprintf(w, "export.dir\t%s\n", cfg.Export.Dir)
			fmt.Fprintf(w, "templates.dir\t%s\n", cfg.Templates.Dir)
			fmt.Fprintf(w, "ui.theme\t%s\n", cfg.UI.Theme)
			fmt.Fprintf(w, "ui.timezone\t%s\n", cfg.UI.Timezone)
			fmt.Fprintf(w, "log.path\t%s\n", cfg.Log.Path)
			fmt.Fprintf(w, "log.level\t%s\n", cfg.Log.Level)
			return w.Flush()
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration to the config file",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := config.Save(cfg); err != nil {
				return err
			}
			fmt.Println("config written")
			return nil
		},
	})
	return cmd
}
