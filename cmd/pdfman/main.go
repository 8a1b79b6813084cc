// pdfman is a small command-line front end for the classroom PDF
// manager API, mostly useful for bulk imports and scripting.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var serverURL string

	root := &cobra.Command{
		Use:   "pdfman",
		Short: "Manage classroom PDFs from the command line",
		Long: `Upload, organize and tag classroom PDFs against a running server.

Examples:
  pdfman list --unfiled
  pdfman upload worksheet.pdf --tags "worksheet,math" --folder 3
  pdfman move 12 15 --folder 2
  pdfman autotag 12`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&serverURL, "server", envOr("PDFMAN_SERVER", "http://localhost:8000"), "server base URL")

	root.AddCommand(newListCmd(&serverURL))
	root.AddCommand(newFoldersCmd(&serverURL))
	root.AddCommand(newTagsCmd(&serverURL))
	root.AddCommand(newUploadCmd(&serverURL))
	root.AddCommand(newMoveCmd(&serverURL))
	root.AddCommand(newDeleteCmd(&serverURL))
	root.AddCommand(newRenameCmd(&serverURL))
	root.AddCommand(newRetagCmd(&serverURL))
	root.AddCommand(newAutotagCmd(&serverURL))

	return root
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
