package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"drawing-service/internal/revisions"
)

func newRevisionsCmd() *cobra.Command {
	var drawingID string
	cmd := &cobra.Command{
		Use:   "revisions",
		Short: "Print the revision history behind a drawing entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, processed, err := loadDocument(cmd)
			if err != nil {
				return err
			}
			drawing := processed.FindDrawing(drawingID)
			if drawing == nil {
				return fmt.Errorf("drawing %q not found", drawingID)
			}
			return printJSON(cmd.OutOrStdout(), revisions.Resolve(drawing, meta))
		},
	}
	cmd.Flags().StringVar(&drawingID, "drawing", "", "drawing entry id, e.g. 01-건축-REV1")
	_ = cmd.MarkFlagRequired("drawing")
	return cmd
}
