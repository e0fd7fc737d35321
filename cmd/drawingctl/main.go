// Command drawingctl inspects a metadata document offline: it prints the
// normalized drawing list, resolves revision histories and replays viewer
// selection events.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"drawing-service/internal/models"
	"drawing-service/internal/normalizer"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "drawingctl",
		Short:        "Inspect drawing metadata documents",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringP("file", "f", "metadata.json", "metadata document to read")
	rootCmd.PersistentFlags().String("locale", "ko", "collation locale for the discipline index")
	rootCmd.AddCommand(newNormalizeCmd(), newRevisionsCmd(), newSelectCmd())
	return rootCmd
}

// loadDocument reads and normalizes the document named by the --file flag.
func loadDocument(cmd *cobra.Command) (*models.Metadata, *models.ProcessedData, error) {
	path, _ := cmd.Flags().GetString("file")
	locale, _ := cmd.Flags().GetString("locale")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	meta, err := models.DecodeMetadata(data)
	if err != nil {
		return nil, nil, err
	}
	return meta, normalizer.New(locale).Normalize(meta), nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
