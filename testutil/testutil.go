// Package testutil provides the small assertion helpers the rest of the
// module's table-driven tests are written against.
package testutil

import (
	"reflect"
	"runtime"
	"testing"
)

// Assert fails the test with the given message (formatted per fmt.Sprintf)
// if the condition is false.
func Assert(tb testing.TB, condition bool, msg string, v ...interface{}) {
	tb.Helper()
	if !condition {
		tb.Fatalf(msg, v...)
	}
}

// Ok fails the test if an err is not nil.
func Ok(tb testing.TB, err error) {
	tb.Helper()
	if err != nil {
		_, file, line, _ := runtime.Caller(1)
		tb.Fatalf("%s:%d: unexpected error: %s", file, line, err.Error())
	}
}

// Equals fails the test if exp is not equal to act.
func Equals(tb testing.TB, exp, act interface{}) {
	tb.Helper()
	if !reflect.DeepEqual(exp, act) {
		_, file, line, _ := runtime.Caller(1)
		tb.Fatalf("%s:%d:\n\n\texp: %#v\n\n\tgot: %#v\n\n", file, line, exp, act)
	}
}
