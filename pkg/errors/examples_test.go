package errors_test

import (
	"errors"
	"fmt"

	pkgerrors "github.com/agentstation/apexvault/pkg/errors"
)

// Example_notFoundError demonstrates handling a missing record.
func Example_notFoundError() {
	err := pkgerrors.NewNotFoundError("record", "0190b5a4")

	if pkgerrors.IsNotFound(err) {
		fmt.Println(err)
	}

	// Output: record with ID 0190b5a4 not found
}

// Example_formatError shows how import failures are detected.
func Example_formatError() {
	err := fmt.Errorf("import: %w",
		pkgerrors.NewFormatError("expected an array or an object with entries", nil))

	if pkgerrors.IsInvalidFormat(err) {
		fmt.Println("Import failed.")
	}

	var formatErr *pkgerrors.FormatError
	if errors.As(err, &formatErr) {
		fmt.Println(formatErr.Reason)
	}

	// Output:
	// Import failed.
	// expected an array or an object with entries
}

// Example_validationError shows input validation errors.
func Example_validationError() {
	workspace := ""
	if workspace == "" {
		err := &pkgerrors.ValidationError{
			Field:   "workspace",
			Value:   workspace,
			Message: "is required",
		}
		fmt.Println(err.Error())
	}

	// Output: validation failed for field workspace: is required
}

// Example_errorChaining shows chained error handling.
func Example_errorChaining() {
	ioErr := pkgerrors.WrapIO("read", "vault.json", errors.New("permission denied"))
	resErr := pkgerrors.WrapResource("load", "vault", "", ioErr)

	var target *pkgerrors.IOError
	if errors.As(resErr, &target) {
		fmt.Printf("%s failed on %s\n", target.Operation, target.Path)
	}

	// Output: read failed on vault.json
}
