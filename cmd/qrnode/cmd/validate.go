package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/MeKo-Tech/qrnode/internal/validation"
	"github.com/spf13/cobra"
)

// validateReport is printed by validate and check.
type validateReport struct {
	File        string `json:"file,omitempty" yaml:"file,omitempty"`
	Code        int    `json:"validation_code" yaml:"validation_code"`
	Status      string `json:"status" yaml:"status"`
	Expected    string `json:"expected" yaml:"expected"`
	Extracted   string `json:"extracted" yaml:"extracted"`
	Passthrough bool   `json:"passthrough" yaml:"passthrough"`
}

func (r validateReport) writeText(w io.Writer) error {
	if r.File != "" {
		if _, err := fmt.Fprintf(w, "file: %s\n", r.File); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "VALIDATION_CODE: %d (%s)\nexpected: %s\nextracted: %s\n",
		r.Code, r.Status, r.Expected, r.Extracted)
	return err
}

func newValidateCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate extracted text against an expected address",
		Long: `Build the expected address from --protocol and --text and compare it with
--extracted. Prints the validation code: 0 match, 1 empty, 2 mismatch.

Without --passthrough any non-match fails with exit status 2.

Examples:
  qrnode validate --extracted https://example.com --text example.com
  qrnode validate --extracted "" --protocol None --text abc --passthrough`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			extracted, _ := cmd.Flags().GetString("extracted")
			text, _ := cmd.Flags().GetString("text")
			return a.runValidation(cmd, "", extracted, text)
		},
	}
	cmd.Flags().String("extracted", "", "text extracted from the code")
	validatorFlags(a, cmd)
	outputFlags(a, cmd)
	return cmd
}

// runValidation validates and prints the report. Strict failures are printed
// before the error is returned.
func (a *app) runValidation(cmd *cobra.Command, file, extracted, text string) error {
	in, err := a.validationInput(extracted, text)
	if err != nil {
		return err
	}
	res, err := validation.Validate(in)
	if err != nil && !errors.Is(err, validation.ErrValidationFailed) {
		return err
	}
	report := validateReport{
		File:        file,
		Code:        int(res.Code),
		Status:      res.Code.String(),
		Expected:    res.Expected,
		Extracted:   res.Actual,
		Passthrough: in.Mode == validation.Passthrough,
	}
	if werr := writeOutput(cmd, a.cfg.Output, report, report.writeText); werr != nil {
		return werr
	}
	return err
}

func (a *app) validationInput(extracted, text string) (validation.Input, error) {
	protocol, err := validation.ParseProtocol(a.cfg.Validator.Protocol)
	if err != nil {
		return validation.Input{}, err
	}
	mode := validation.Strict
	if a.cfg.Validator.Passthrough {
		mode = validation.Passthrough
	}
	return validation.Input{Protocol: protocol, Text: text, Extracted: extracted, Mode: mode}, nil
}
