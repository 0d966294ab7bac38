package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dt-pm-tools/jsm-panel/internal/adf"
	"github.com/dt-pm-tools/jsm-panel/internal/markdown"
)

var (
	commentFile     string
	commentMarkdown bool
	commentDryRun   bool
)

var commentCmd = &cobra.Command{
	Use:   "comment <issue-key> [text]",
	Short: "Add a comment to an issue",
	Long: `Posts a comment. The text comes from the argument, from --file, or from
stdin. With --markdown the text is converted to rich ADF; otherwise it is sent
as a single plain paragraph. Use --dry-run to print the ADF without posting.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := strings.ToUpper(args[0])

		text, err := commentText(args)
		if err != nil {
			return err
		}

		doc := adf.Paragraph(text)
		if commentMarkdown {
			doc = markdown.ToADF(text)
		}

		if commentDryRun {
			fmt.Fprintf(os.Stderr, "Dry run: would comment on %s\n\n", key)
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(doc); err != nil {
				return fmt.Errorf("encoding ADF: %w", err)
			}
			return nil
		}

		svc, err := newServices()
		if err != nil {
			return err
		}
		if _, err := svc.gateway.AddDocument(cmd.Context(), key, doc); err != nil {
			return fmt.Errorf("commenting on %s: %w", key, err)
		}

		fmt.Fprintf(os.Stderr, "Comment added to %s\n", key)
		return nil
	},
}

func commentText(args []string) (string, error) {
	switch {
	case len(args) == 2:
		return args[1], nil
	case commentFile != "":
		data, err := os.ReadFile(commentFile)
		if err != nil {
			return "", fmt.Errorf("reading file: %w", err)
		}
		return string(data), nil
	default:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
}

func init() {
	commentCmd.Flags().StringVarP(&commentFile, "file", "f", "", "read the comment from a file")
	commentCmd.Flags().BoolVarP(&commentMarkdown, "markdown", "m", false, "treat the text as markdown")
	commentCmd.Flags().BoolVar(&commentDryRun, "dry-run", false, "print the ADF body without posting")
	rootCmd.AddCommand(commentCmd)
}
