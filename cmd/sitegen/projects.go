package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-sitegen/pkg/model"
	"github.com/goliatone/go-sitegen/pkg/persistence"
)

// deployer is implemented by collaborators that track deployment state.
type deployer interface {
	SetDeployment(ctx context.Context, id, status, deployedURL string) error
}

func newProjectsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List and manage saved projects",
	}

	var filter string
	list := &cobra.Command{
		Use:   "list",
		Short: "List saved projects, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			summaries, err := a.store.List(cmd.Context())
			if err != nil {
				return err
			}
			summaries = filterSummaries(summaries, filter)
			if len(summaries) == 0 {
				a.printf("no projects\n")
				return nil
			}
			w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tSTATUS\tUPDATED")
			for _, s := range summaries {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.ID, s.Name, s.Status, s.UpdatedAt.Local().Format(time.DateTime))
			}
			return w.Flush()
		},
	}
	list.Flags().StringVar(&filter, "filter", "", "fuzzy match against project name, id and status")

	publish := &cobra.Command{
		Use:   "publish <id> <url>",
		Short: "Mark a project as published at url",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, ok := a.db.(deployer)
			if !ok {
				return fmt.Errorf("persistence driver %q does not track deployments", a.cfg.Persistence.Driver)
			}
			if err := d.SetDeployment(cmd.Context(), args[0], persistence.StatusPublished, args[1]); err != nil {
				return err
			}
			a.printf("published %s at %s\n", args[0], args[1])
			return nil
		},
	}

	cmd.AddCommand(list, publish)
	return cmd
}

// filterSummaries keeps the summaries matching query, best match first. An
// empty query keeps everything in the original order.
func filterSummaries(summaries []persistence.Summary, query string) []persistence.Summary {
	query = strings.TrimSpace(query)
	if query == "" {
		return summaries
	}
	haystack := make([]string, len(summaries))
	for i, s := range summaries {
		haystack[i] = fmt.Sprintf("%s %s %s", s.Name, s.ID, s.Status)
	}
	matches := fuzzy.Find(query, haystack)
	out := make([]persistence.Summary, 0, len(matches))
	for _, match := range matches {
		out = append(out, summaries[match.Index])
	}
	return out
}

func newImportCmd(a *app) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Save a JSON or YAML config file as a new project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := readConfigFile(args[0])
			if err != nil {
				return err
			}
			if name == "" {
				name = defaultProjectName(cfg.Navbar, args[0])
			}
			a.store.Reset()
			id, err := a.store.Save(cmd.Context(), name, cfg)
			if err != nil {
				return err
			}
			a.printf("imported %q as %s\n", name, id)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "project name (default is the navbar site name)")
	return cmd
}

func defaultProjectName(nav *model.NavbarConfig, path string) string {
	if nav != nil && strings.TrimSpace(nav.SiteName) != "" {
		return nav.SiteName
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func newExportCmd(a *app) *cobra.Command {
	var (
		flags  targetFlags
		output string
		format string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a project's config as JSON or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := a.openTarget(cmd.Context(), flags)
			if err != nil {
				return err
			}
			if format == "" {
				format = formatFor(output)
			}
			data, err := encodeConfig(t.snapshot(), format)
			if err != nil {
				return err
			}
			return writeOutput(a, output, data)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&format, "format", "", "json or yaml (default from the output extension)")
	return cmd
}
