package node

import (
	"context"
	"errors"
	"image"
	"log/slog"

	"github.com/MeKo-Tech/qrnode/internal/validation"
)

const (
	// ValidateNodeID is the stable identifier of the validate node.
	ValidateNodeID = "comfy-qr-validate"

	inputExtractedText = "extracted_text"
	inputProtocol      = "protocol"
	inputText          = "text"
	inputPassthrough   = "passthrough"

	OutputImage          = "IMAGE"
	OutputValidationCode = "VALIDATION_CODE"
)

// ValidateNode checks extracted text against protocol+text and passes the
// image through unchanged.
type ValidateNode struct{}

// NewValidateNode returns a validate node.
func NewValidateNode() *ValidateNode { return &ValidateNode{} }

// Descriptor implements Node.
func (n *ValidateNode) Descriptor() Descriptor {
	protocols := make([]string, 0, len(validation.Protocols))
	for _, p := range validation.Protocols {
		protocols = append(protocols, p.String())
	}
	return Descriptor{
		ID:          ValidateNodeID,
		DisplayName: "Validate QR Code",
		Category:    Category,
		Function:    "validate_qr",
		Inputs: []Input{
			{Name: inputImage, Type: TypeImage},
			{Name: inputExtractedText, Type: TypeString, Multiline: true, ForceInput: true},
			{Name: inputProtocol, Type: TypeCombo, Options: protocols, Default: validation.ProtocolHTTPS.String()},
			{Name: inputText, Type: TypeString, Multiline: true},
			{Name: inputPassthrough, Type: TypeCombo, Options: []string{"False", "True"}, Default: "False"},
		},
		Outputs: []Output{
			{Name: OutputImage, Type: TypeImage},
			{Name: OutputValidationCode, Type: TypeInt},
		},
	}
}

// Run implements Node. In strict mode a non-match returns the
// *validation.Failure as the error and no outputs.
func (n *ValidateNode) Run(_ context.Context, in Values) (Values, error) {
	img, err := in.Image(inputImage)
	if err != nil {
		return nil, err
	}
	extracted, err := in.String(inputExtractedText)
	if err != nil {
		return nil, err
	}
	protocolName, err := in.String(inputProtocol)
	if err != nil {
		return nil, err
	}
	text, err := in.String(inputText)
	if err != nil {
		return nil, err
	}
	passthrough, err := in.String(inputPassthrough)
	if err != nil {
		return nil, err
	}

	protocol, err := validation.ParseProtocol(protocolName)
	if err != nil {
		return nil, err
	}
	mode, err := validation.ParsePassthrough(passthrough)
	if err != nil {
		return nil, err
	}

	out, _, err := n.Validate(img, validation.Input{Protocol: protocol, Text: text, Extracted: extracted, Mode: mode})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Validate is the typed form of Run. It returns the node outputs together
// with the full validation result.
func (n *ValidateNode) Validate(img image.Image, in validation.Input) (Values, validation.Result, error) {
	res, err := validation.Validate(in)
	if err != nil {
		if errors.Is(err, validation.ErrValidationFailed) {
			slog.Debug("QR validation failed", "code", res.Code.String(), "expected", res.Expected, "actual", res.Actual)
		}
		return nil, res, err
	}
	if res.Code != validation.CodeMatch {
		slog.Warn("QR validation did not match, passing through",
			"code", res.Code.String(), "expected", res.Expected, "actual", res.Actual)
	}
	return Values{OutputImage: img, OutputValidationCode: int(res.Code)}, res, nil
}
