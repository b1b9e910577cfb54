package gender

import (
	"errors"
	"testing"
)

func TestFormatAcceptsCanonicalAndAliases(t *testing.T) {
	set := Default()
	for _, input := range []string{"masculine", "Masculine", "der", "DER", "m"} {
		g, err := set.Format(input)
		if err != nil {
			t.Fatalf("Format(%q) returned error: %v", input, err)
		}
		if g != "masculine" {
			t.Fatalf("Format(%q) = %s, want masculine", input, g)
		}
	}
}

func TestFormatUnknown(t *testing.T) {
	set := Default()
	if _, err := set.Format("dem"); !errors.Is(err, ErrUnknownGender) {
		t.Fatalf("expected ErrUnknownGender, got %v", err)
	}
}

func TestNewSetRejectsAliasCollision(t *testing.T) {
	_, err := NewSet([]Entry{
		{Canonical: "masculine", Display: "der", Aliases: []string{"x"}},
		{Canonical: "feminine", Display: "die", Aliases: []string{"x"}},
	})
	if err == nil {
		t.Fatalf("expected alias collision error")
	}
}

func TestNewSetRejectsSingleEntry(t *testing.T) {
	_, err := NewSet([]Entry{{Canonical: "masculine", Display: "der"}})
	if err == nil {
		t.Fatalf("expected error for single-entry set")
	}
}

func TestDefaultSet(t *testing.T) {
	set := Default()
	if set.Count() != 3 {
		t.Fatalf("expected 3 genders, got %d", set.Count())
	}
	if display := set.Display("neuter"); display != "das" {
		t.Fatalf("Display(neuter) = %q, want das", display)
	}
	if !set.Contains("feminine") {
		t.Fatalf("expected set to contain feminine")
	}
	if set.Contains("plural") {
		t.Fatalf("did not expect set to contain plural")
	}
}
