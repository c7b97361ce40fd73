package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/battlefield-terrain/internal/render"
)

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a stored battlefield",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			field, err := a.service.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), render.Terminal(field, a.width))
			return nil
		},
	}
}

func newResolveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <id> [path]",
		Short: "Resolve a mysterious feature, or all of them when no path is given",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				field, err := a.service.ResolveAll(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprint(out, render.Terminal(field, a.width))
				return nil
			}

			result, err := a.service.Resolve(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s resolved to %s\n\n", result.Path, render.Title(result.Feature))
			fmt.Fprint(out, render.Terminal(result.Battlefield, a.width))
			return nil
		},
	}
}

func newLogCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "log <id>",
		Short: "Print the roll log of a battlefield",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := a.service.ReadLog(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), render.TerminalLog(log))
			return nil
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	var owner string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored battlefields, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := a.service.ListByOwner(cmd.Context(), owner)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, field := range fields {
				fmt.Fprintf(out, "%s\tseed %d\t%d pieces\t%d unresolved\n",
					field.ID, field.Seed, field.PieceCount(), len(field.Pending()))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&owner, "owner", defaultOwner(), "Owner to list battlefields for")
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a stored battlefield",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.service.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}
