package server

import (
	"fmt"

	"github.com/pgshim/pgshim/codes"
	psqlerr "github.com/pgshim/pgshim/errors"
)

// safeDispatch runs fn and converts any panic into a regular ERROR-severity
// protocol error with SQLSTATE "0" and the panic value as its message, so a
// bug in command dispatch or in a hook's unrecovered arithmetic ends the
// current command rather than the connection.
func safeDispatch(fn func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = panicError(rec)
		}
	}()

	return fn()
}

func panicError(rec any) error {
	err := fmt.Errorf("%v", rec)
	return psqlerr.WithSeverity(psqlerr.WithCode(err, codes.Uncategorized), psqlerr.LevelError)
}
