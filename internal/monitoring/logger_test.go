package monitoring

import (
	"fmt"
	"testing"
)

func TestSetLogger(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	called := false
	SetLogger(func(format string, v ...interface{}) {
		called = true
	})
	Logf("test message")
	if !called {
		t.Error("Custom logger was not called")
	}

	// nil installs a no-op logger
	called = false
	SetLogger(nil)
	Logf("test message")
	if called {
		t.Error("No-op logger should not have triggered callback")
	}
}

func TestTagged(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	var got []string
	SetLogger(func(format string, v ...interface{}) {
		got = append(got, fmt.Sprintf(format, v...))
	})

	logf := Tagged("bench")
	logf("ran %d variants", 3)

	// Logf is resolved at call time, so swapping it redirects the tagged logger.
	var later []string
	SetLogger(func(format string, v ...interface{}) {
		later = append(later, fmt.Sprintf(format, v...))
	})
	logf("done")

	if len(got) != 1 || got[0] != "[bench] ran 3 variants" {
		t.Errorf("first logger got %q", got)
	}
	if len(later) != 1 || later[0] != "[bench] done" {
		t.Errorf("second logger got %q", later)
	}
}
