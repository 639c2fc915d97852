package catalog

import (
	"errors"
	"fmt"
	"testing"
	"testing/fstest"

	apperrors "github.com/louisbranch/wodcombat/internal/platform/errors"
)

func loadRegistered(t *testing.T) *Bundle {
	t.Helper()
	bundle, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("load embedded catalogs: %v", err)
	}
	if err := bundle.Register(); err != nil {
		t.Fatalf("register catalogs: %v", err)
	}
	return bundle
}

func TestLoadEmbeddedHasExpectedLocales(t *testing.T) {
	bundle := loadRegistered(t)
	if !bundle.HasLocale(BaseLocale) || !bundle.HasLocale("pt-BR") {
		t.Fatalf("locales = %v", bundle.Locales())
	}
	if got, ok := bundle.Message("pt-BR", "weapon.mode.spray"); !ok || got != "Varredura" {
		t.Fatalf("Message() = %q, %v", got, ok)
	}
}

func TestEveryErrorCodeHasBaseMessage(t *testing.T) {
	bundle := loadRegistered(t)
	codes := []apperrors.Code{
		apperrors.CodeUnknown,
		apperrors.CodeProfileUnknownCategory,
		apperrors.CodeProfileModeUnavailable,
		apperrors.CodeProfileTraitLookup,
		apperrors.CodeRollMissingDifficulty,
		apperrors.CodeRollRandomizer,
		apperrors.CodeDiceMissing,
		apperrors.CodeDiceInvalidSpec,
		apperrors.CodeNotFound,
	}
	for _, code := range codes {
		if _, ok := bundle.Message(BaseLocale, code.MessageKey()); !ok {
			t.Fatalf("missing message for %s", code)
		}
	}
}

func TestLocalizerText(t *testing.T) {
	bundle := loadRegistered(t)

	en := bundle.Localizer(BaseLocale)
	if got := en.Text("weapon.spray_result", 5, 2); got != "Aimed at 5 targets, hit 2." {
		t.Fatalf("Text() = %q", got)
	}
	pt := bundle.Localizer("pt-BR")
	if got := pt.Text("weapon.spray_result", 3, 3); got != "Mirou em 3 alvos, acertou 3." {
		t.Fatalf("Text() = %q", got)
	}
	if got := pt.Text("roll.botch"); got != "Botch!" {
		t.Fatalf("fallback Text() = %q", got)
	}
	if got := en.Text("missing.key"); got != "missing.key" {
		t.Fatalf("unknown Text() = %q", got)
	}
	if got := bundle.Localizer("fr-FR").Locale(); got != BaseLocale {
		t.Fatalf("Locale() = %q, want %q", got, BaseLocale)
	}
}

func TestLocalizerError(t *testing.T) {
	bundle := loadRegistered(t)
	err := fmt.Errorf("invoke: %w", apperrors.New(apperrors.CodeRollMissingDifficulty, "roll difficulty is missing"))

	if got := bundle.Localizer(BaseLocale).Error(err); got != "Choose a difficulty before rolling." {
		t.Fatalf("Error() = %q", got)
	}
	if got := bundle.Localizer("pt-BR").Error(err); got != "Escolha uma dificuldade antes de rolar." {
		t.Fatalf("Error() = %q", got)
	}
	plain := errors.New("disk full")
	if got := bundle.Localizer(BaseLocale).Error(plain); got != "disk full" {
		t.Fatalf("Error() = %q", got)
	}
}

func TestLoadFromFSRejectsKeyOutsideNamespace(t *testing.T) {
	catalogs := fstest.MapFS{
		"locales/en-US/weapon.yaml": &fstest.MapFile{Data: []byte(`locale: en-US
namespace: weapon
messages:
  roll.bad: "nope"
`)},
	}
	if _, err := LoadFromFS(catalogs); err == nil {
		t.Fatal("expected namespace prefix error")
	}
}

func TestLoadFromFSRejectsLocaleMismatch(t *testing.T) {
	catalogs := fstest.MapFS{
		"locales/en-US/weapon.yaml": &fstest.MapFile{Data: []byte(`locale: pt-BR
namespace: weapon
messages:
  weapon.ok: "ok"
`)},
	}
	if _, err := LoadFromFS(catalogs); err == nil {
		t.Fatal("expected locale mismatch error")
	}
}

func TestLoadFromFSRequiresBaseLocale(t *testing.T) {
	catalogs := fstest.MapFS{
		"locales/pt-BR/weapon.yaml": &fstest.MapFile{Data: []byte(`locale: pt-BR
namespace: weapon
messages:
  weapon.ok: "ok"
`)},
	}
	if _, err := LoadFromFS(catalogs); err == nil {
		t.Fatal("expected missing base locale error")
	}
}
