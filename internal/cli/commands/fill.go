package commands

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-mappedtypes/pkg/prompt"
	"github.com/goliatone/go-mappedtypes/pkg/transform"
	"github.com/goliatone/go-mappedtypes/pkg/validation"
)

// NewFillCommand creates the fill command. A nil driver prompts on the
// terminal.
func NewFillCommand(driver prompt.PromptDriver) *cobra.Command {
	var typeName string
	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Interactively fill an instance of a type",
		Long: `Prompt for every field of the named type, checking each answer against
the field's validation rules, then print the instance as plain JSON with
outbound transforms applied.`,
		Example: `  mappedtypes fill --type UpdateUserDto`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d := driver
			if d == nil {
				d = prompt.NewSurveyDriver()
			}
			return runFill(cmd, typeName, d)
		},
	}
	cmd.Flags().StringVarP(&typeName, "type", "t", "", "Type name")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func runFill(cmd *cobra.Command, typeName string, driver prompt.PromptDriver) error {
	s, err := NewSession(cmd.Context())
	if err != nil {
		return err
	}
	token, err := s.Resolve(typeName)
	if err != nil {
		return err
	}

	inst, err := prompt.Fill(cmd.Context(), s.Registry, token, driver)
	if err != nil {
		return err
	}
	failures, err := validation.Validate(cmd.Context(), s.Registry, inst)
	if err != nil {
		return err
	}
	if err := validation.AsError(failures); err != nil {
		return err
	}

	plain, err := transform.InstanceToPlain(cmd.Context(), s.Registry, inst)
	if err != nil {
		return err
	}
	return writeOutput(cmd.OutOrStdout(), s.Config.Output, plain)
}
