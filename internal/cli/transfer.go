package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"resonance-vars/internal/adapters"
	"resonance-vars/internal/app"
	"resonance-vars/internal/types"
)

type importOptions struct {
	File  string
	Merge bool
}

func newImportCommand() *cobra.Command {
	opts := importOptions{}
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import variables from a YAML, JSON, JSONC or Postman environment file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runImport(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.File, "file", "", "Variables file")
	cmd.Flags().BoolVar(&opts.Merge, "merge", false, "Merge into existing variables instead of replacing them")
	_ = viper.BindPFlag("import_merge", cmd.Flags().Lookup("merge"))
	return cmd
}

func runImport(ctx context.Context, cmd *cobra.Command, opts importOptions) error {
	id, err := collectionID()
	if err != nil {
		return err
	}
	result, err := newAppService().ImportVariablesFile(ctx, app.ImportFileRequest{
		CollectionID: id,
		Path:         opts.File,
		Merge:        resolveBool(cmd, opts.Merge, "import_merge", "merge"),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "variables: %d\n", len(result.Variables))
	return nil
}

type exportOptions struct {
	File   string
	Format string
}

func newExportCommand() *cobra.Command {
	opts := exportOptions{}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the variables of a collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExport(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.File, "file", "", "Output file (stdout when empty)")
	cmd.Flags().StringVar(&opts.Format, "format", "", "Output format: yaml, json, jsonc, postman")
	return cmd
}

func runExport(ctx context.Context, cmd *cobra.Command, opts exportOptions) error {
	id, err := collectionID()
	if err != nil {
		return err
	}
	var format types.VariableFileFormat
	if opts.Format != "" {
		format, err = adapters.ParseVariableFileFormat(opts.Format)
		if err != nil {
			return err
		}
	}
	result, err := newAppService().ExportVariablesFile(ctx, app.ExportFileRequest{
		CollectionID: id,
		Path:         opts.File,
		Format:       format,
	})
	if err != nil {
		return err
	}
	if result.Path == "" {
		_, err = cmd.OutOrStdout().Write(result.Data)
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "exported %d variables: %s\n", result.Count, result.Path)
	return nil
}
