package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-mappedtypes/pkg/transform"
	"github.com/goliatone/go-mappedtypes/pkg/validation"
)

// ErrValidationFailed is returned after reporting a payload that does not
// satisfy its type's rules.
var ErrValidationFailed = errors.New("validation failed")

type validationReport struct {
	Type   string                       `json:"type"`
	Valid  bool                         `json:"valid"`
	Errors []validation.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	var typeName, input string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a JSON payload against a type",
		Long: `Convert a JSON object into an instance of the named type, applying
inbound transforms, and check it against every validation rule the type
carries. Exits non-zero when the payload is invalid.`,
		Example: `  mappedtypes validate --type UpdateUserDto --input payload.json
  echo '{"login":"bob"}' | mappedtypes validate -t UpdateUserDto`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidate(cmd, typeName, input)
		},
	}
	cmd.Flags().StringVarP(&typeName, "type", "t", "", "Type name")
	cmd.Flags().StringVarP(&input, "input", "i", "-", "JSON payload file (- for stdin)")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func runValidate(cmd *cobra.Command, typeName, input string) error {
	s, err := NewSession(cmd.Context())
	if err != nil {
		return err
	}
	token, err := s.Resolve(typeName)
	if err != nil {
		return err
	}

	plain, err := readPayload(cmd.InOrStdin(), input)
	if err != nil {
		return err
	}
	inst, err := transform.PlainToInstance(cmd.Context(), s.Registry, token, plain)
	if err != nil {
		return err
	}
	failures, err := validation.Validate(cmd.Context(), s.Registry, inst)
	if err != nil {
		return err
	}

	report := validationReport{Type: typeName, Valid: len(failures) == 0, Errors: failures}
	if err := writeOutput(cmd.OutOrStdout(), s.Config.Output, report); err != nil {
		return err
	}
	if !report.Valid {
		return ErrValidationFailed
	}
	return nil
}

func readPayload(stdin io.Reader, input string) (map[string]any, error) {
	var (
		data []byte
		err  error
	)
	if input == "" || input == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(input)
	}
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}

	var plain map[string]any
	if err := json.Unmarshal(data, &plain); err != nil {
		return nil, fmt.Errorf("payload must be a JSON object: %w", err)
	}
	if plain == nil {
		plain = map[string]any{}
	}
	return plain, nil
}
