package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/MeKo-Tech/qrnode/internal/node"
	"github.com/spf13/cobra"
)

// nodeListing mirrors the host's class and display-name mappings.
type nodeListing struct {
	Nodes        []node.Descriptor `json:"nodes" yaml:"nodes"`
	DisplayNames map[string]string `json:"display_names" yaml:"display_names"`
}

func newNodesCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nodes",
		Short: "List the registered pipeline nodes",
		Long: `Print the node registry: identifiers, display names, inputs and outputs.

Examples:
  qrnode nodes
  qrnode nodes --format yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			listing := nodeListing{Nodes: a.registry.Descriptors(), DisplayNames: a.registry.DisplayNameMappings()}
			return writeOutput(cmd, a.cfg.Output, listing, func(w io.Writer) error {
				for _, d := range listing.Nodes {
					inputs := make([]string, 0, len(d.Inputs))
					for _, in := range d.Inputs {
						inputs = append(inputs, in.Name)
					}
					outputs := make([]string, 0, len(d.Outputs))
					for _, out := range d.Outputs {
						outputs = append(outputs, out.Name)
					}
					if _, err := fmt.Fprintf(w, "%s\t%s\t(%s) -> (%s)\n", d.ID, d.DisplayName,
						strings.Join(inputs, ", "), strings.Join(outputs, ", ")); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
	outputFlags(a, cmd)
	return cmd
}
