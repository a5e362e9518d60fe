// Package main is guardctl, the operator CLI for the validation rules.
// Every command only reads; exit status 1 means a rule was violated.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"inventra/internal/core/apperror"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errViolations) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "guardctl",
		Short: "Check document rules without writing anything",
		Long: `guardctl runs the document validation rules from the command line.

Example Usage:
  guardctl transition --from PENDING --to COMPLETED
  guardctl sku AB-12 A--
  guardctl voucher-format RV-000123
  guardctl import-cheques cheques.xlsx --config config.yaml
  guardctl cache invalidate 0192f7a4-6c1e-7b3a-9d2f-5e8c1a4b7d90
  guardctl token --user u1 --branches b1,b2`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newTransitionCmd(),
		newSKUCmd(),
		newVoucherFormatCmd(),
		newImportChequesCmd(),
		newCacheCmd(),
		newTokenCmd(),
	)
	return root
}

// errViolations is returned after violations were printed.
var errViolations = errors.New("validation failed")

// printViolations writes one line per violation and reports whether there were any.
func printViolations(w io.Writer, subject string, err error) bool {
	violations := apperror.Flatten(err)
	if len(violations) == 0 {
		fmt.Fprintf(w, "%s: ok\n", subject)
		return false
	}
	for _, v := range violations {
		fmt.Fprintf(w, "%s: %s %s\n", subject, v.Code, v.Message)
	}
	return true
}
