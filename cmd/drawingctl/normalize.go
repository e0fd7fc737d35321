package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"drawing-service/internal/normalizer"
)

func newNormalizeCmd() *cobra.Command {
	var discipline string
	cmd := &cobra.Command{
		Use:   "normalize",
		Short: "Print the discipline index and drawing entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, processed, err := loadDocument(cmd)
			if err != nil {
				return err
			}
			if discipline != "" {
				if !processed.HasDiscipline(discipline) {
					return fmt.Errorf("unknown discipline %q", discipline)
				}
				processed.Drawings = normalizer.FilterByDiscipline(processed.Drawings, discipline)
			}
			return printJSON(cmd.OutOrStdout(), processed)
		},
	}
	cmd.Flags().StringVarP(&discipline, "discipline", "d", "", "only list drawings of this discipline")
	return cmd
}
