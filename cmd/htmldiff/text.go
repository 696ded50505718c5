package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	htmltreediff "github.com/christian-oudard/htmltreediff"
)

func init() {
	cmd := &cobra.Command{
		Use:     "text <old file path> <new file path>",
		Short:   "Diff two plain-text files word by word",
		Example: `  htmldiff text old.txt new.txt`,
		Args:    cobra.ExactArgs(2),
		RunE:    runText,
	}
	rootCmd.AddCommand(cmd)
}

func runText(cmd *cobra.Command, args []string) error {
	old, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("cannot read %v: %w", args[0], err)
	}
	new, err := os.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("cannot read %v: %w", args[1], err)
	}

	out := htmltreediff.TextDiff(string(old), string(new), htmltreediff.DefaultTextCutoff)
	fmt.Fprintln(os.Stdout, out)
	return nil
}
