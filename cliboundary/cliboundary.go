// Package cliboundary converts Results into process exit codes.  A command
// builds its outcome as a Result and hands it to Run, which performs the
// single match that ends the command: print the value or the error, return
// the exit code.  The caller passes the code to os.Exit.
package cliboundary

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/abevier/outcome/apperrors"
	"github.com/abevier/outcome/results"
)

// ExitCodeOf maps an error kind to a process exit code.  Every kind maps to
// 1: a failure is fatal to the current operation, not to the process, so no
// kind earns a distinct code.
func ExitCodeOf(apperrors.Kind) int {
	return 1
}

// Run writes the outcome of r and returns the exit code: a success prints
// its value to out and returns 0, a failure prints its flattened JSON form
// to errOut and returns ExitCodeOf.  A failure whose context cannot be
// serialized falls back to the plain error text.
func Run[T any](r results.Result[T, *apperrors.AppError], out, errOut io.Writer) int {
	return results.Match(r,
		func(v T) int {
			fmt.Fprintln(out, v)
			return 0
		},
		func(e *apperrors.AppError) int {
			b, err := json.Marshal(e)
			if err != nil {
				fmt.Fprintln(errOut, e.Error())
			} else {
				fmt.Fprintln(errOut, string(b))
			}
			return ExitCodeOf(e.Kind())
		},
	)
}
