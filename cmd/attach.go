package cmd

import (
	"encoding/base64"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/dt-pm-tools/jsm-panel/internal/board"
)

var (
	attachName        string
	attachContentType string
)

var attachCmd = &cobra.Command{
	Use:   "attach <issue-key> <file>",
	Short: "Upload a file as an attachment",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := strings.ToUpper(args[0])
		path := args[1]

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}

		name := attachName
		if name == "" {
			name = filepath.Base(path)
		}
		contentType := attachContentType
		if contentType == "" {
			contentType = detectContentType(name, content)
		}

		svc, err := newServices()
		if err != nil {
			return err
		}
		created, err := svc.gateway.UploadAttachment(cmd.Context(), key, name, base64.StdEncoding.EncodeToString(content), contentType)
		if err != nil {
			return fmt.Errorf("uploading to %s: %w", key, err)
		}

		for _, a := range gjson.ParseBytes(created).Array() {
			fmt.Fprintf(os.Stderr, "Attached %s (%s) to %s\n",
				a.Get("filename").String(),
				board.FormatFileSize(a.Get("size").Int()),
				key,
			)
		}
		return nil
	},
}

func detectContentType(name string, content []byte) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return http.DetectContentType(content)
}

func init() {
	attachCmd.Flags().StringVar(&attachName, "name", "", "file name shown in JIRA (default: base name of <file>)")
	attachCmd.Flags().StringVar(&attachContentType, "content-type", "", "MIME type (default: detected)")
	rootCmd.AddCommand(attachCmd)
}
