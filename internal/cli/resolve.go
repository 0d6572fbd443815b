package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"resonance-vars/internal/app"
)

func newPreviewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "preview TEMPLATE",
		Short: "Show a template with variables substituted and the names found or missing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := collectionID()
			if err != nil {
				return err
			}
			preview := newAppService().GetTemplatePreview(cmd.Context(), args[0], id)
			data, err := json.MarshalIndent(preview, "", "  ")
			if err != nil {
				return errbuilder.New().
					WithCode(errbuilder.CodeInternal).
					WithMsg("failed to encode preview").
					WithCause(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}

func newRenderCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "render TEMPLATE",
		Short: "Substitute collection variables into a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := collectionID()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), newAppService().ProcessTemplate(cmd.Context(), args[0], id))
			return nil
		},
	}
}

type requestOptions struct {
	Request string
}

func newResolveCommand() *cobra.Command {
	opts := requestOptions{}
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve variables in a request file and print it as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runResolve(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Request, "request", "", "Request file (YAML, JSON or JSONC)")
	return cmd
}

func runResolve(ctx context.Context, cmd *cobra.Command, opts requestOptions) error {
	id, err := collectionID()
	if err != nil {
		return err
	}
	result, err := newAppService().ResolveRequestFile(ctx, app.ResolveRequestFileRequest{
		CollectionID: id,
		Path:         opts.Request,
	})
	if err != nil {
		return err
	}
	if len(result.Unresolved) > 0 {
		log.Ctx(ctx).Warn().
			Str("collection", id).
			Str("variables", strings.Join(result.Unresolved, ", ")).
			Msg("request still references undefined variables")
	}
	_, err = cmd.OutOrStdout().Write(result.Data)
	return err
}

func newUsedCommand() *cobra.Command {
	opts := requestOptions{}
	cmd := &cobra.Command{
		Use:   "used",
		Short: "List the variable names referenced by a request file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			names, err := newAppService().UsedVariablesFile(opts.Request)
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.Request, "request", "", "Request file (YAML, JSON or JSONC)")
	return cmd
}

func newCleanupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Remove every variable of a collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := collectionID()
			if err != nil {
				return err
			}
			newAppService().CleanupCollectionVariables(cmd.Context(), id)
			return nil
		},
	}
}
