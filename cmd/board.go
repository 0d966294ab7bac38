package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dt-pm-tools/jsm-panel/internal/board"
	"github.com/dt-pm-tools/jsm-panel/internal/handlers"
	"github.com/dt-pm-tools/jsm-panel/internal/markdown"
)

var (
	boardOutput    string
	boardOutputDir string
	boardDetails   bool
	boardStrategy  string
)

var boardCmd = &cobra.Command{
	Use:   "board <issue-key>",
	Short: "Show the subtask board of a request",
	Long: `Collects the subtasks of a request and prints them grouped by status.
Output formats: text (default), md (markdown with YAML frontmatter) and json
(the getSubTasksData handler result).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if boardStrategy != "" {
			appConfig.Panel.Strategy = boardStrategy
		}
		svc, err := newServices()
		if err != nil {
			return err
		}

		issueKey := strings.ToUpper(args[0])
		model := board.NewModel(svc.strategy, issueKey)
		if err := model.Load(cmd.Context()); err != nil {
			return fmt.Errorf("loading board for %s: %w", issueKey, err)
		}
		return writeBoard(model, issueKey)
	},
}

func writeBoard(model *board.Model, issueKey string) error {
	b, err := model.Board()
	if err != nil {
		return err
	}

	switch boardOutput {
	case "text", "":
		return board.Render(os.Stdout, model, board.RenderOptions{Panel: appConfig.Panel, Details: boardDetails})

	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(handlers.NewSubTasksResult(b)); err != nil {
			return fmt.Errorf("encoding board: %w", err)
		}
		return nil

	case "md":
		md, err := markdown.Report(b, markdown.ReportOptions{BaseURL: appConfig.URL, Panel: appConfig.Panel})
		if err != nil {
			return fmt.Errorf("converting to markdown: %w", err)
		}
		if boardOutputDir == "" {
			fmt.Print(md)
			return nil
		}
		if err := os.MkdirAll(boardOutputDir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
		filename := filepath.Join(boardOutputDir, issueKey+".md")
		if err := os.WriteFile(filename, []byte(md), 0644); err != nil {
			return fmt.Errorf("writing file: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Written to %s\n", filename)
		return nil
	}
	return fmt.Errorf("unknown output format %q (want text, md or json)", boardOutput)
}

func init() {
	boardCmd.Flags().StringVarP(&boardOutput, "output", "o", "text", "output format: text, md or json")
	boardCmd.Flags().StringVar(&boardOutputDir, "output-dir", "", "with -o md, write <dir>/<KEY>.md instead of stdout")
	boardCmd.Flags().BoolVarP(&boardDetails, "details", "d", false, "include descriptions, attachments and comments")
	boardCmd.Flags().StringVar(&boardStrategy, "strategy", "", "override panel.strategy (link or subtasks)")
	rootCmd.AddCommand(boardCmd)
}
