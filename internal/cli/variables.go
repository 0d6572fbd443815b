package cli

import (
	"context"
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"

	"resonance-vars/internal/shared"
	"resonance-vars/internal/types"
)

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the variables of a collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd.Context(), cmd)
		},
	}
}

func runList(ctx context.Context, cmd *cobra.Command) error {
	id, err := collectionID()
	if err != nil {
		return err
	}
	vars, err := newAppService().GetVariablesForCollection(ctx, id)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, name := range vars.Names() {
		fmt.Fprintf(out, "%s=%s\n", name, vars[name])
	}
	return nil
}

func newSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set NAME VALUE",
		Short: "Create or overwrite one variable",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := collectionID()
			if err != nil {
				return err
			}
			return newAppService().SetVariable(cmd.Context(), id, args[0], args[1])
		},
	}
}

func newUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "unset NAME",
		Aliases: []string{"delete"},
		Short:   "Remove one variable",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := collectionID()
			if err != nil {
				return err
			}
			return newAppService().DeleteVariable(cmd.Context(), id, args[0])
		},
	}
}

type setManyOptions struct {
	Vars []string
}

func newSetManyCommand() *cobra.Command {
	opts := setManyOptions{}
	cmd := &cobra.Command{
		Use:   "set-many",
		Short: "Replace the variables of a collection with the given set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSetMany(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringArrayVar(&opts.Vars, "var", nil, "Variable assignment name=value (repeatable)")
	return cmd
}

func runSetMany(ctx context.Context, opts setManyOptions) error {
	id, err := collectionID()
	if err != nil {
		return err
	}
	vars, err := parseAssignments(opts.Vars)
	if err != nil {
		return err
	}
	return newAppService().SetMultipleVariables(ctx, id, vars)
}

func parseAssignments(values []string) (types.VariableSet, error) {
	vars := types.VariableSet{}
	for _, value := range values {
		name, val, ok := shared.SplitAssignment(value)
		if !ok {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("invalid assignment %q: expected name=value", value))
		}
		vars[name] = val
	}
	return vars, nil
}
