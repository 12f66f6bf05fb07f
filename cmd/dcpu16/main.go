// Command dcpu16 loads an assembled DCPU-16 program image and runs,
// single-steps, or disassembles it.
package main

import (
	"fmt"
	"os"

	"github.com/0x10c/dcpu16/asm"
	"github.com/0x10c/dcpu16/cpu"
	"github.com/0x10c/dcpu16/disasm"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "dcpu16",
		Short: "Run, step, or disassemble an assembled DCPU-16 program image",
	}

	var maxSteps int
	runCmd := &cobra.Command{
		Use:   "run <image-file>",
		Short: "Run a program image until it halts or a step budget is exhausted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImage(args[0], maxSteps)
		},
	}
	runCmd.Flags().IntVar(&maxSteps, "max-steps", 1_000_000, "stop after this many instructions even if not halted")

	var stepCount int
	stepCmd := &cobra.Command{
		Use:   "step <image-file>",
		Short: "Execute a fixed number of instructions and print the resulting registers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return stepImage(args[0], stepCount)
		},
	}
	stepCmd.Flags().IntVar(&stepCount, "count", 1, "number of instructions to execute")

	disasmCmd := &cobra.Command{
		Use:   "disasm <image-file>",
		Short: "Disassemble a program image to assembly text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return disasmImage(args[0])
		},
	}

	rootCmd.AddCommand(runCmd, stepCmd, disasmCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadImage(path string) (*cpu.Engine, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	words, err := asm.ReadBinary(f)
	if err != nil {
		return nil, err
	}

	e := cpu.NewEngine()
	e.LoadProgram(words)
	return e, nil
}

func runImage(path string, maxSteps int) error {
	e, err := loadImage(path)
	if err != nil {
		return err
	}

	n, err := e.Run(maxSteps)
	if err != nil {
		return errors.Wrapf(err, "after %d instructions", n)
	}
	printSnapshot(e.Mem.Snapshot())
	fmt.Printf("stopped after %d instructions\n", n)
	return nil
}

func stepImage(path string, count int) error {
	e, err := loadImage(path)
	if err != nil {
		return err
	}

	for i := 0; i < count; i++ {
		if err := e.Step(); err != nil {
			return errors.Wrapf(err, "after %d of %d steps", i, count)
		}
		printSnapshot(e.Mem.Snapshot())
	}
	return nil
}

func disasmImage(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	words, err := asm.ReadBinary(f)
	if err != nil {
		return err
	}

	return disasm.Disassemble(0, disasm.NewWordReader(words), os.Stdout)
}

func printSnapshot(s cpu.RegisterSnapshot) {
	names := [...]string{"A", "B", "C", "X", "Y", "Z", "I", "J"}
	for i, v := range s.Registers {
		fmt.Printf("%s=0x%04x ", names[i], v)
	}
	fmt.Printf("PC=0x%04x SP=0x%04x O=0x%04x\n", s.PC, s.SP, s.O)
}
