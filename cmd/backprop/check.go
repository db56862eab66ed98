package main

import (
	"flag"
	"fmt"
	"io"
	"math/rand"

	"github.com/born-ml/backprop/internal/gradcheck"
)

func runCheck(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	in := fs.Int("in", 20, "input dimension of each module")
	out := fs.Int("out", 5, "output dimension of Linear and RBF")
	delta := fs.Float64("delta", gradcheck.DefaultConfig().Delta, "finite-difference step")
	tol := fs.Float64("tol", gradcheck.DefaultConfig().Tolerance, "maximum normalized L1 distance")
	seed := fs.Int64("seed", 1, "random seed for weights and inputs")
	verbose := fs.Bool("v", false, "print every report")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *in <= 0 || *out <= 0 {
		fmt.Fprintln(stderr, "check: -in and -out must be positive")
		return 2
	}

	cases, err := gradcheck.Suite(*in, *out, rand.New(rand.NewSource(*seed)))
	if err != nil {
		fmt.Fprintf(stderr, "check: %v\n", err)
		return 1
	}
	outcomes := gradcheck.Run(cases, gradcheck.Config{Delta: *delta, Tolerance: *tol})

	for _, o := range outcomes {
		status := "ok"
		if !o.Passed() {
			status = "FAIL"
		}
		fmt.Fprintf(stdout, "%-4s %-22s %s\n", status, o.Case, o.Chain)
		if *verbose || !o.Passed() {
			for _, r := range o.Reports {
				fmt.Fprintf(stdout, "     %s\n", r)
			}
		}
	}

	mismatches, err := gradcheck.Failed(outcomes)
	if err != nil {
		fmt.Fprintf(stderr, "check: %v\n", err)
		return 1
	}
	if mismatches > 0 {
		fmt.Fprintf(stdout, "\n%d of %d cases failed\n", mismatches, len(outcomes))
		return 1
	}
	fmt.Fprintf(stdout, "\nall %d cases passed\n", len(outcomes))
	return 0
}
