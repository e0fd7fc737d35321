package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"drawing-service/internal/models"
	"drawing-service/internal/normalizer"
	"drawing-service/internal/selection"
)

func newSelectCmd() *cobra.Command {
	var (
		discipline string
		compare    bool
		clicks     []string
	)
	cmd := &cobra.Command{
		Use:   "select",
		Short: "Replay viewer events and print the resulting selection",
		Long: "Starts from an empty selection on the 전체 discipline, then applies the\n" +
			"discipline change, the compare toggle and the clicks in that order.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, processed, err := loadDocument(cmd)
			if err != nil {
				return err
			}
			if !processed.HasDiscipline(discipline) {
				return fmt.Errorf("unknown discipline %q", discipline)
			}

			filtered := normalizer.FilterByDiscipline(processed.Drawings, discipline)
			state := selection.State{SelectedIDs: []string{}}
			if discipline != models.AllDisciplines {
				state = selection.Reconcile(state, selection.DisciplineChanged{Filtered: normalizer.DrawingIDs(filtered)})
			}
			if compare {
				state = selection.Reconcile(state, selection.CompareModeToggled{})
			}
			for _, id := range clicks {
				if !containsID(filtered, id) {
					return fmt.Errorf("drawing %q is not listed under %q", id, discipline)
				}
				state = selection.Reconcile(state, selection.DrawingClicked{ID: id})
			}
			return printJSON(cmd.OutOrStdout(), state)
		},
	}
	cmd.Flags().StringVarP(&discipline, "discipline", "d", models.AllDisciplines, "discipline to switch to")
	cmd.Flags().BoolVar(&compare, "compare", false, "enable compare mode before clicking")
	cmd.Flags().StringArrayVar(&clicks, "click", []string{}, "drawing entry id to click, repeatable")
	return cmd
}

func containsID(drawings []models.AppDrawing, id string) bool {
	for _, d := range drawings {
		if d.ID == id {
			return true
		}
	}
	return false
}
