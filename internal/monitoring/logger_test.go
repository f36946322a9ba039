package monitoring

import "testing"

func TestSetLogger(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	var got string
	SetLogger(func(format string, v ...interface{}) { got = format })
	Logf("constructed %d locations", 5)
	if got != "constructed %d locations" {
		t.Errorf("custom logger saw %q", got)
	}

	// nil installs a no-op, not a nil func.
	got = ""
	SetLogger(nil)
	Logf("dropped")
	if got != "" {
		t.Error("no-op logger must not forward")
	}
}

func TestLogfDefault(t *testing.T) {
	if Logf == nil {
		t.Fatal("Logf must be callable by default")
	}
}
