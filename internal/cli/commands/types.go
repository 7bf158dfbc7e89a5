package commands

import (
	"github.com/spf13/cobra"
)

type typeSummary struct {
	Name     string   `json:"name"`
	Token    string   `json:"token"`
	Abstract bool     `json:"abstract,omitempty"`
	Parents  []string `json:"parents,omitempty"`
	Fields   []string `json:"fields"`
}

// NewTypesCommand creates the types command.
func NewTypesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List registered types",
		Long: `List every type registered from the configured definitions, including
the abstract types produced by derive entries.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTypes(cmd)
		},
	}
}

func runTypes(cmd *cobra.Command) error {
	s, err := NewSession(cmd.Context())
	if err != nil {
		return err
	}

	var out []typeSummary
	for _, name := range s.Registry.List() {
		token, _ := s.Registry.Lookup(name)
		def, err := s.Registry.Type(token)
		if err != nil {
			return err
		}
		fields, err := s.Registry.Fields(token)
		if err != nil {
			return err
		}
		summary := typeSummary{
			Name:     name,
			Token:    token.String(),
			Abstract: def.Abstract,
			Fields:   fields,
		}
		for _, parent := range def.Parents {
			summary.Parents = append(summary.Parents, s.Registry.Name(parent))
		}
		out = append(out, summary)
	}
	return writeOutput(cmd.OutOrStdout(), s.Config.Output, out)
}
