package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/deeporigin/deeporigin/pkg/auth"
	"github.com/deeporigin/deeporigin/pkg/errors"
)

var (
	// globals used to patch over calls to os.Exit() during test

	logFatalln = log.Fatalln
	logFatalf  = log.Fatalf
	osExit     = os.Exit

	// used to patch over calls to Authable.Principal() during test
	authorizer auth.Authable = auth.JWTPrincipal{}

	// infoLogger wraps informative messages to os.Stdout without cluttering expected output in tests.
	// To be used instead on fmt.Printf(os.Stdout, ...)
	infoLogger = log.New(os.Stdout, "", 0)
)

// wrapFatalln reports a fatal error.
//
// Known conditions are reported with their message only. Unexpected errors are prefixed with the program name.
func wrapFatalln(msg string, err error) {
	if err == nil {
		logFatalln(msg)
		return
	}
	var known *errors.Error
	if errors.As(err, &known) {
		logFatalf("%v", fmt.Errorf(msg+": %w", err))
		return
	}
	logFatalf("deep-origin: %v", fmt.Errorf(msg+": %w", err))
}

func wrapFatalWithCodef(code int, format string, args ...interface{}) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	osExit(code)
}
