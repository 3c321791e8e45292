package main

import (
	"fmt"
	"os"
	"path/filepath"

	"quiz-gen/internal/domain"
	"quiz-gen/internal/extractor"
	"quiz-gen/internal/logger"

	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Print the normalized text of a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, _ := cmd.Flags().GetBool("stats")

		result, err := extractFile(args[0])
		if err != nil {
			return err
		}

		if stats {
			fmt.Printf("File:   %s\n", filepath.Base(args[0]))
			fmt.Printf("Words:  %d\n", result.WordCount)
			fmt.Printf("Chars:  %d\n", len([]rune(result.Text)))
			return nil
		}
		fmt.Println(result.Text)
		return nil
	},
}

func init() {
	extractCmd.Flags().Bool("stats", false, "Print word and character counts instead of the text")
}

func extractFile(path string) (*extractor.Result, error) {
	if _, ok := domain.FileTypeFromName(path); !ok {
		return nil, fmt.Errorf("unsupported file type %q: expected pdf, docx or txt", filepath.Ext(path))
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(content) == 0 {
		return nil, fmt.Errorf("%s is empty", path)
	}
	result, err := extractor.New(logger.Get()).Extract(filepath.Base(path), content)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", path, err)
	}
	return result, nil
}
