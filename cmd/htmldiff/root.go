package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "htmldiff",
	Short: "Compute a structural diff between two HTML or XML documents",
	Long: `htmldiff provides three features:
- Diffs two HTML (or XML) documents and prints <ins>/<del> change markup.
- Diffs two plain-text files word by word, without any markup parsing.
- Runs a directory of fixture cases against the diff and reports mismatches.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}
