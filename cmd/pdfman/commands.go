package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/matthewyanek/pdf-classroom-manager/client"
)

func newClient(serverURL *string) *client.Client {
	return client.NewClient(*serverURL)
}

func newListCmd(serverURL *string) *cobra.Command {
	var folderID int64
	var unfiled bool
	var tag string
	var search string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List PDFs",
		RunE: func(cmd *cobra.Command, args []string) error {
			folder := client.AllFolders()
			if unfiled {
				folder = client.UnfiledOnly()
			} else if cmd.Flags().Changed("folder") {
				folder = client.InFolder(folderID)
			}

			pdfs, err := newClient(serverURL).ListPDFs(context.Background(), &client.ListPDFsOptions{
				Folder: folder,
				Tag:    tag,
				Search: search,
			})
			if err != nil {
				return err
			}

			if len(pdfs) == 0 {
				fmt.Println("No PDFs found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tFILENAME\tFOLDER\tTAGS\tADDED")
			for _, p := range pdfs {
				folderName := p.FolderName
				if p.FolderID == nil {
					folderName = "(unfiled)"
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
					p.ID, p.Filename, folderName,
					strings.Join(p.Tags, ","), p.DateAdded.Format("2006-01-02"))
			}
			return w.Flush()
		},
	}

	cmd.Flags().Int64Var(&folderID, "folder", 0, "only PDFs in this folder")
	cmd.Flags().BoolVar(&unfiled, "unfiled", false, "only PDFs without a folder")
	cmd.Flags().StringVar(&tag, "tag", "", "only PDFs carrying this tag")
	cmd.Flags().StringVar(&search, "search", "", "substring match on filename or tags")

	return cmd
}

func newFoldersCmd(serverURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "folders",
		Short: "List folders",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := newClient(serverURL).ListFolders(context.Background())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCOLOR\tPDFS")
			for _, f := range list.Folders {
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", f.ID, f.Name, f.Color, f.PDFCount)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Printf("\nUnfiled: %d\n", list.UnfiledCount)
			return nil
		},
	}
}

func newTagsCmd(serverURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List tags",
		RunE: func(cmd *cobra.Command, args []string) error {
			tags, err := newClient(serverURL).ListTags(context.Background())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tCOUNT")
			for _, t := range tags {
				fmt.Fprintf(w, "%s\t%d\n", t.Name, t.Count)
			}
			return w.Flush()
		},
	}
}

func newUploadCmd(serverURL *string) *cobra.Command {
	var tags string
	var folderID int64

	cmd := &cobra.Command{
		Use:   "upload <file>...",
		Short: "Upload one or more PDFs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient(serverURL)

			var folder *int64
			if cmd.Flags().Changed("folder") {
				folder = &folderID
			}
			var tagList []string
			if tags != "" {
				tagList = strings.Split(tags, ",")
			}

			for _, path := range args {
				f, err := os.Open(path)
				if err != nil {
					return err
				}
				pdf, err := c.UploadPDF(context.Background(), &client.UploadPDFRequest{
					Filename: filepath.Base(path),
					Content:  f,
					Tags:     tagList,
					FolderID: folder,
				})
				f.Close()
				if err != nil {
					return fmt.Errorf("upload %s: %w", path, err)
				}
				fmt.Printf("Uploaded %s (ID: %d)\n", pdf.Filename, pdf.ID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&tags, "tags", "", "comma-separated tags")
	cmd.Flags().Int64Var(&folderID, "folder", 0, "destination folder id")

	return cmd
}

func newMoveCmd(serverURL *string) *cobra.Command {
	var folderID int64
	var unfiled bool

	cmd := &cobra.Command{
		Use:   "move <id>...",
		Short: "Move PDFs into a folder (or to unfiled)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}

			var folder *int64
			switch {
			case unfiled:
				// nil folder id moves to unfiled
			case cmd.Flags().Changed("folder"):
				folder = &folderID
			default:
				return fmt.Errorf("either --folder or --unfiled is required")
			}

			if err := newClient(serverURL).MovePDFs(context.Background(), ids, folder); err != nil {
				return err
			}
			fmt.Printf("Moved %d PDF(s)\n", len(ids))
			return nil
		},
	}

	cmd.Flags().Int64Var(&folderID, "folder", 0, "destination folder id")
	cmd.Flags().BoolVar(&unfiled, "unfiled", false, "move to unfiled")

	return cmd
}

func newDeleteCmd(serverURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete PDFs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			c := newClient(serverURL)
			if len(ids) == 1 {
				if err := c.DeletePDF(context.Background(), ids[0]); err != nil {
					return err
				}
			} else {
				if err := c.BatchUpdate(context.Background(), client.BatchDelete, ids, nil); err != nil {
					return err
				}
			}
			fmt.Printf("Deleted %d PDF(s)\n", len(ids))
			return nil
		},
	}
}

func newRenameCmd(serverURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <filename>",
		Short: "Rename a PDF",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}
			pdf, err := newClient(serverURL).RenamePDF(context.Background(), id, args[1])
			if err != nil {
				return err
			}
			fmt.Printf("Renamed to %s\n", pdf.Filename)
			return nil
		},
	}
}

func newRetagCmd(serverURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "retag <id> <tags>",
		Short: "Replace a PDF's tags (comma-separated)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}
			tags := strings.Split(args[1], ",")
			pdf, err := newClient(serverURL).UpdateTags(context.Background(), id, tags)
			if err != nil {
				return err
			}
			fmt.Printf("Tags: %s\n", strings.Join(pdf.Tags, ", "))
			return nil
		},
	}
}

func newAutotagCmd(serverURL *string) *cobra.Command {
	var apply bool

	cmd := &cobra.Command{
		Use:   "autotag <id>",
		Short: "Suggest tags for a PDF using the server's AI tagger",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("exactly one id required")
			}
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}

			c := newClient(serverURL)
			tags, err := c.GenerateTags(context.Background(), &id, "")
			if err != nil {
				return err
			}
			if len(tags) == 0 {
				fmt.Println("No tags suggested.")
				return nil
			}
			fmt.Printf("Suggested: %s\n", strings.Join(tags, ", "))

			if apply {
				if _, err := c.UpdateTags(context.Background(), id, tags); err != nil {
					return err
				}
				fmt.Println("Applied.")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&apply, "apply", false, "apply the suggested tags")

	return cmd
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", arg)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
