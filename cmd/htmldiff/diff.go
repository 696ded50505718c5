package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	htmltreediff "github.com/christian-oudard/htmltreediff"
)

func init() {
	cmd := &cobra.Command{
		Use:     "diff <old file path> <new file path>",
		Short:   "Diff two HTML documents",
		Example: `  htmldiff diff old.html new.html`,
		Args:    cobra.ExactArgs(2),
		RunE:    runDiff,
	}
	rootCmd.AddCommand(cmd)
}

func runDiff(cmd *cobra.Command, args []string) error {
	old, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("cannot read %v: %w", args[0], err)
	}
	new, err := os.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("cannot read %v: %w", args[1], err)
	}

	out, err := htmltreediff.Diff(string(old), string(new), htmltreediff.WithCutoff(0.0), htmltreediff.WithPretty(true))
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, out)
	return nil
}
