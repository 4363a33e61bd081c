// Copyright (c) 2026 Keymaster Team
// Keymaster - SSH key management system
// This source code is licensed under the MIT license found in the LICENSE file.
package i18n

import "testing"

func TestInitAndAvailableLocales(t *testing.T) {
	Init("en")
	if GetLang() != "en" {
		t.Fatalf("expected lang 'en', got %q", GetLang())
	}

	av := GetAvailableLocales()
	for _, k := range []string{"en", "de"} {
		if _, ok := av[k]; !ok {
			t.Fatalf("expected available locale %q to be present", k)
		}
	}
	if av["de"] != "Deutsch" {
		t.Fatalf("unexpected display name for de: %q", av["de"])
	}
}

func TestT_BasicAndFormatting(t *testing.T) {
	Init("en")

	if got := T("sshkey.invalid"); got != "This key is not valid." {
		t.Fatalf("unexpected translation: %q", got)
	}
	if got := T("keyfield.name_too_long", 128); got != "The key name may not be longer than 128 characters." {
		t.Fatalf("unexpected formatted translation: %q", got)
	}
	if got := T("keyfield.summary_prefix", map[string]any{"Prefix": ">"}); got != "Prefix: >" {
		t.Fatalf("unexpected template translation: %q", got)
	}

	SetLang("de")
	defer SetLang("en")
	if GetLang() != "de" {
		t.Fatalf("expected lang 'de', got %q", GetLang())
	}
	if got := T("sshkey.invalid"); got != "Dieser Schlüssel ist ungültig." {
		t.Fatalf("expected German message, got %q", got)
	}
}

func TestT_UnknownIDFallsBackToID(t *testing.T) {
	Init("en")
	if got := T("does.not.exist"); got != "does.not.exist" {
		t.Fatalf("expected message ID fallback, got %q", got)
	}
}

func TestT_UnknownLanguageFallsBackToEnglish(t *testing.T) {
	Init("xx")
	defer Init("en")
	if got := T("keyfield.placeholder"); got != "No key" {
		t.Fatalf("expected English fallback, got %q", got)
	}
}
