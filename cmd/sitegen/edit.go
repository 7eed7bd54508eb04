package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-sitegen/pkg/model"
	"github.com/goliatone/go-sitegen/pkg/store"
)

// editCommand opens the target, applies edit and commits the result.
func (a *app) editCommand(ctx context.Context, flags targetFlags, edit func(*target) error) error {
	t, err := a.openTarget(ctx, flags)
	if err != nil {
		return err
	}
	if err := edit(t); err != nil {
		return err
	}
	if err := a.commit(ctx, t); err != nil {
		return err
	}
	a.printf("updated %s\n", t.label())
	return nil
}

func newCTACmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cta",
		Short: "Manage the CTA library",
	}

	var listFlags targetFlags
	list := &cobra.Command{
		Use:   "list",
		Short: "List the CTA library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := a.openTarget(cmd.Context(), listFlags)
			if err != nil {
				return err
			}
			cfg := t.snapshot()
			if len(cfg.CTALibrary) == 0 {
				a.printf("no ctas\n")
				return nil
			}
			w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tBUTTON\tLINK")
			for _, cta := range cfg.CTALibrary {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", cta.ID, cta.Name, cta.Text, cta.Href())
			}
			return w.Flush()
		},
	}
	listFlags.register(list)

	var newFlags targetFlags
	create := &cobra.Command{
		Use:   "new",
		Short: "Create a CTA interactively and optionally place it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.editCommand(cmd.Context(), newFlags, func(t *target) error {
				p, def, err := a.editor().NewCTA(cmd.Context(), t.snapshot())
				if err != nil {
					return err
				}
				if _, err := t.store.Merge(p); err != nil {
					return err
				}
				a.printf("created cta %s\n", def.ID)
				return nil
			})
		},
	}
	newFlags.register(create)

	var removeFlags targetFlags
	remove := &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a CTA and every placement referencing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.editCommand(cmd.Context(), removeFlags, func(t *target) error {
				_, err := t.store.RemoveCTA(args[0])
				return err
			})
		},
	}
	removeFlags.register(remove)

	cmd.AddCommand(list, create, remove)
	return cmd
}

func newSectionCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "section",
		Short: "Reorder and toggle page sections",
	}

	var moveFlags targetFlags
	move := &cobra.Command{
		Use:       "move <type> <up|down>",
		Short:     "Move a section one step in the render order",
		Args:      cobra.ExactArgs(2),
		ValidArgs: model.SectionTypes(),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := model.ParseDirection(args[1])
			if err != nil {
				return err
			}
			return a.editCommand(cmd.Context(), moveFlags, func(t *target) error {
				_, err := t.store.MoveSection(args[0], dir)
				return err
			})
		},
	}
	moveFlags.register(move)

	var (
		enableFlags targetFlags
		disable     bool
	)
	enable := &cobra.Command{
		Use:   "enable <type>",
		Short: "Enable or disable a section",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.editCommand(cmd.Context(), enableFlags, func(t *target) error {
				_, err := t.store.Edit(func(cfg model.TemplateConfig) (model.Partial, error) {
					return model.SetSectionEnabled(cfg, args[0], !disable)
				})
				return err
			})
		},
	}
	enableFlags.register(enable)
	enable.Flags().BoolVar(&disable, "disable", false, "disable the section instead")

	cmd.AddCommand(move, enable)
	return cmd
}

func newPlacementCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "placement",
		Short: "Reorder and remove CTA placements",
	}

	var moveFlags targetFlags
	move := &cobra.Command{
		Use:   "move <home|landing> <id> <up|down>",
		Short: "Swap a placement with its neighbour",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			where, err := model.ParsePlacementTarget(args[0])
			if err != nil {
				return err
			}
			dir, err := model.ParseDirection(args[2])
			if err != nil {
				return err
			}
			return a.editCommand(cmd.Context(), moveFlags, func(t *target) error {
				_, err := t.store.MovePlacement(where, args[1], dir)
				return err
			})
		},
	}
	moveFlags.register(move)

	var removeFlags targetFlags
	remove := &cobra.Command{
		Use:   "remove <home|landing|blog> <id>",
		Short: "Remove a placement",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			where, err := model.ParsePlacementTarget(args[0])
			if err != nil {
				return err
			}
			return a.editCommand(cmd.Context(), removeFlags, func(t *target) error {
				_, err := t.store.Edit(func(cfg model.TemplateConfig) (model.Partial, error) {
					return model.RemovePlacement(cfg, where, args[1])
				})
				return err
			})
		},
	}
	removeFlags.register(remove)

	cmd.AddCommand(move, remove)
	return cmd
}

func newPageCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "page",
		Short: "Enable optional pages and choose which appear in the navbar",
	}

	var (
		enableFlags targetFlags
		disable     bool
		nav         bool
	)
	enable := &cobra.Command{
		Use:   "enable <page>",
		Short: "Enable or disable an optional page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			page := model.PageID(strings.ToLower(strings.TrimSpace(args[0])))
			return a.editCommand(cmd.Context(), enableFlags, func(t *target) error {
				if _, err := t.store.SetPageEnabled(page, !disable); err != nil {
					return err
				}
				if !cmd.Flags().Changed("nav") {
					return nil
				}
				_, err := t.store.SetPageShowInNav(page, nav)
				return err
			})
		},
	}
	enableFlags.register(enable)
	enable.Flags().BoolVar(&disable, "disable", false, "disable the page instead")
	enable.Flags().BoolVar(&nav, "nav", false, "show the page in the navbar (--nav=false hides it)")

	var editFlags targetFlags
	edit := &cobra.Command{
		Use:   "edit",
		Short: "Choose enabled pages interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.editCommand(cmd.Context(), editFlags, func(t *target) error {
				return a.mergeFlow(cmd.Context(), t.store, a.editor().EditPages)
			})
		},
	}
	editFlags.register(edit)

	cmd.AddCommand(enable, edit)
	return cmd
}

func newNavbarCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "navbar",
		Short: "Edit the navigation bar",
	}

	var editFlags targetFlags
	edit := &cobra.Command{
		Use:   "edit",
		Short: "Edit the navbar interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.editCommand(cmd.Context(), editFlags, func(t *target) error {
				return a.mergeFlow(cmd.Context(), t.store, a.editor().EditNavbar)
			})
		},
	}
	editFlags.register(edit)

	cmd.AddCommand(edit)
	return cmd
}

type flow func(context.Context, model.TemplateConfig) (model.Partial, error)

func (a *app) mergeFlow(ctx context.Context, s *store.ConfigStore, run flow) error {
	p, err := run(ctx, s.Snapshot())
	if err != nil {
		return err
	}
	_, err = s.Merge(p)
	return err
}
