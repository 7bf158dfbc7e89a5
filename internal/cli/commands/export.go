package commands

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-mappedtypes/pkg/metadata"
	"github.com/goliatone/go-mappedtypes/pkg/openapi"
)

// NewExportCommand creates the export command.
func NewExportCommand(version string) *cobra.Command {
	var (
		title string
		names []string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export types as an OpenAPI document",
		Long: `Build a validated OpenAPI 3 document whose components hold the named
types, or every registered type when --types is omitted.`,
		Example: `  mappedtypes export --title Users -o yaml
  mappedtypes export --types CreateUserDto,UpdateUserDto`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExport(cmd, title, version, names)
		},
	}
	cmd.Flags().StringVar(&title, "title", "mappedtypes", "Document title")
	cmd.Flags().StringSliceVar(&names, "types", nil, "Type names to export")
	return cmd
}

func runExport(cmd *cobra.Command, title, version string, names []string) error {
	s, err := NewSession(cmd.Context())
	if err != nil {
		return err
	}
	if len(names) == 0 {
		names = s.Registry.List()
	}
	tokens := make([]metadata.Token, 0, len(names))
	for _, name := range names {
		token, err := s.Resolve(name)
		if err != nil {
			return err
		}
		tokens = append(tokens, token)
	}

	doc, err := openapi.Document(cmd.Context(), s.Registry, openapi.DocumentInfo{Title: title, Version: version}, tokens...)
	if err != nil {
		return err
	}
	return writeOutput(cmd.OutOrStdout(), s.Config.Output, doc)
}
