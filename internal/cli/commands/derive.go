package commands

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-mappedtypes/pkg/mapped"
	"github.com/goliatone/go-mappedtypes/pkg/metadata"
	"github.com/goliatone/go-mappedtypes/pkg/openapi"
	"github.com/goliatone/go-mappedtypes/pkg/typedef"
)

// NewDeriveCommand creates the derive command.
func NewDeriveCommand() *cobra.Command {
	var (
		source  string
		mapping string
		fields  []string
	)
	cmd := &cobra.Command{
		Use:   "derive",
		Short: "Derive a mapped type and print its schema",
		Long: `Derive a new type from a declared one and print the derived type as an
OpenAPI component schema.

Mappings:
  required  every field required, optional markers removed
  partial   every field optional
  pick      only the listed fields
  omit      every field except the listed ones`,
		Example: `  # Required variant of CreateUserDto
  mappedtypes derive --source CreateUserDto

  # Keep optional markers (fail-open)
  mappedtypes derive --source CreateUserDto --filter-optional=false

  # Pick two fields as YAML
  mappedtypes derive -s CreateUserDto -m pick --fields login,password -o yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDerive(cmd, source, mapping, fields)
		},
	}
	cmd.Flags().StringVarP(&source, "source", "s", "", "Source type name")
	cmd.Flags().StringVarP(&mapping, "mapping", "m", typedef.MappingRequired, "Mapping (required|partial|pick|omit)")
	cmd.Flags().StringSliceVar(&fields, "fields", nil, "Fields for pick/omit")
	_ = cmd.MarkFlagRequired("source")
	_ = cmd.RegisterFlagCompletionFunc("mapping", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{typedef.MappingRequired, typedef.MappingPartial, typedef.MappingPick, typedef.MappingOmit}, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func runDerive(cmd *cobra.Command, source, mapping string, fields []string) error {
	s, err := NewSession(cmd.Context())
	if err != nil {
		return err
	}
	token, err := s.Resolve(source)
	if err != nil {
		return err
	}
	derived, err := deriveWith(s.Generator, strings.ToLower(mapping), token, fields)
	if err != nil {
		return err
	}
	s.Logger.Debug("derived type",
		slog.String("source", source),
		slog.String("mapping", mapping),
		slog.String("name", s.Registry.Name(derived)),
	)

	schema, err := openapi.SchemaFor(s.Registry, derived)
	if err != nil {
		return err
	}
	return writeOutput(cmd.OutOrStdout(), s.Config.Output, schema)
}

func deriveWith(gen *mapped.Generator, mapping string, source metadata.Token, fields []string) (metadata.Token, error) {
	switch mapping {
	case typedef.MappingRequired:
		return gen.Required(source)
	case typedef.MappingPartial:
		return gen.Partial(source)
	case typedef.MappingPick, typedef.MappingOmit:
		if len(fields) == 0 {
			return "", fmt.Errorf("mapping %q needs --fields", mapping)
		}
		if mapping == typedef.MappingPick {
			return gen.Pick(source, fields...)
		}
		return gen.Omit(source, fields...)
	default:
		return "", fmt.Errorf("unknown mapping %q", mapping)
	}
}
