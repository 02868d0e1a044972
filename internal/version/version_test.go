package version

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	old := Commit
	t.Cleanup(func() { Commit = old })

	Commit = "0123456789abcdef"
	got := String()
	if !strings.HasPrefix(got, "resi dev") {
		t.Errorf("unexpected prefix in %q", got)
	}
	if !strings.Contains(got, "commit: 0123456") || strings.Contains(got, "0123456789") {
		t.Errorf("expected short commit in %q", got)
	}
}
