package cmd

import (
	"errors"
	"fmt"

	"github.com/MeKo-Tech/qrnode/internal/node"
	"github.com/MeKo-Tech/qrnode/internal/validation"
	"github.com/spf13/cobra"
)

func newCheckCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Read a QR code and validate it in one step",
		Long: `Run the read node on an image or PDF and feed its EXTRACTED_TEXT into the
validate node, the way a pipeline host wires the two nodes together.

Examples:
  qrnode check label.png --text example.com
  qrnode check label.png --protocol Http --text example.com --passthrough
  qrnode check document.pdf --pages 2 --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, _ := cmd.Flags().GetString("text")
			return a.check(cmd, args[0], text)
		},
	}
	decoderFlags(a, cmd)
	validatorFlags(a, cmd)
	outputFlags(a, cmd)
	return cmd
}

func (a *app) check(cmd *cobra.Command, path, text string) error {
	read, err := a.readFile(cmd.Context(), path)
	if err != nil {
		return err
	}

	passthrough := "False"
	if a.cfg.Validator.Passthrough {
		passthrough = "True"
	}
	out, runErr := a.registry.Run(cmd.Context(), node.ValidateNodeID, node.Values{
		"image":          read.image,
		"extracted_text": read.Text,
		"protocol":       a.cfg.Validator.Protocol,
		"text":           text,
		"passthrough":    passthrough,
	})

	report := validateReport{File: path, Extracted: read.Text, Passthrough: a.cfg.Validator.Passthrough}
	var failure *validation.Failure
	switch {
	case errors.As(runErr, &failure):
		report.Code = int(failure.Code)
		report.Expected = failure.Expected
	case runErr != nil:
		return runErr
	default:
		code, err := out.Int(node.OutputValidationCode)
		if err != nil {
			return err
		}
		protocol, err := validation.ParseProtocol(a.cfg.Validator.Protocol)
		if err != nil {
			return err
		}
		report.Code = code
		if report.Expected, err = validation.ExpectedAddress(protocol, text); err != nil {
			return err
		}
	}
	report.Status = validation.Code(report.Code).String()

	if err := writeOutput(cmd, a.cfg.Output, report, report.writeText); err != nil {
		return err
	}
	if runErr != nil {
		return fmt.Errorf("%s: %w", path, runErr)
	}
	return nil
}
