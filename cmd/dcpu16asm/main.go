// Command dcpu16asm assembles a single DCPU-16 source file into a
// big-endian binary program image.
package main

import (
	"fmt"
	"os"

	"github.com/0x10c/dcpu16/asm"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func main() {
	var output string

	rootCmd := &cobra.Command{
		Use:   "dcpu16asm <source-file>",
		Short: "Assemble a DCPU-16 source file into a binary program image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], output)
		},
	}
	rootCmd.Flags().StringVarP(&output, "output", "o", "a.out", "output file for the assembled program image")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(sourcePath, outputPath string) error {
	src, err := os.ReadFile(sourcePath)
	if err != nil {
		return errors.Wrapf(err, "reading %s", sourcePath)
	}

	words, err := asm.AssembleSource(sourcePath, string(src))
	if err != nil {
		return err
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return errors.Wrapf(err, "creating %s", outputPath)
	}
	defer f.Close()

	if err := asm.WriteBinary(f, words); err != nil {
		return err
	}

	fmt.Printf("%s: %d words (%d bytes)\n", outputPath, len(words), len(words)*2)
	return nil
}
