// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package settings

import (
	"path/filepath"
	"testing"

	"github.com/pdiddy/manuscript-press/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(types.SettingsConfig{Path: filepath.Join(t.TempDir(), "settings.db")})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSetGet(t *testing.T) {
	s := testStore(t)

	if err := s.Set(KeyJournalName, "Journal of Agronomy Letters"); err != nil {
		t.Fatal(err)
	}
	got, err := s.Get(KeyJournalName)
	if err != nil {
		t.Fatal(err)
	}
	if got != "Journal of Agronomy Letters" {
		t.Errorf("Get = %q", got)
	}
}

func TestSetUpserts(t *testing.T) {
	s := testStore(t)

	if err := s.Set(KeyModel, "gemini-2.5-flash"); err != nil {
		t.Fatal(err)
	}
	if err := s.Set(KeyModel, "gemini-2.5-pro"); err != nil {
		t.Fatal(err)
	}

	got, err := s.Get(KeyModel)
	if err != nil {
		t.Fatal(err)
	}
	if got != "gemini-2.5-pro" {
		t.Errorf("Get = %q, second Set must replace the first", got)
	}
}

func TestGetUnsetKey(t *testing.T) {
	s := testStore(t)

	got, err := s.Get("never-set")
	if err != nil {
		t.Fatal(err)
	}
	if got != "" {
		t.Errorf("Get = %q, want empty for unset key", got)
	}
}

func TestDelete(t *testing.T) {
	s := testStore(t)

	if err := s.Set(KeyAPIKey, "gk_secret"); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(KeyAPIKey); err != nil {
		t.Fatal(err)
	}

	got, err := s.Get(KeyAPIKey)
	if err != nil {
		t.Fatal(err)
	}
	if got != "" {
		t.Errorf("Get = %q after delete", got)
	}

	// Deleting again is not an error.
	if err := s.Delete(KeyAPIKey); err != nil {
		t.Errorf("second delete: %v", err)
	}
}

func TestAll(t *testing.T) {
	s := testStore(t)

	if err := s.Set(KeySMTPHost, "smtp.example.com"); err != nil {
		t.Fatal(err)
	}
	if err := s.Set(KeySMTPPort, "587"); err != nil {
		t.Fatal(err)
	}

	all, err := s.All()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 || all[KeySMTPHost] != "smtp.example.com" || all[KeySMTPPort] != "587" {
		t.Errorf("All = %v", all)
	}
}

func TestApplyOverrides(t *testing.T) {
	s := testStore(t)
	if err := s.Set(KeyAPIKey, "gk_saved"); err != nil {
		t.Fatal(err)
	}
	if err := s.Set(KeyModel, "gemini-2.5-pro"); err != nil {
		t.Fatal(err)
	}

	cfg := types.ExtractionConfig{
		APIKey: "gk_config",
		Models: []types.ModelCandidate{
			{Provider: "gemini", Name: "gemini-2.5-flash"},
			{Provider: "gemini", Name: "gemini-2.5-pro"},
		},
	}
	if err := s.ApplyOverrides(&cfg); err != nil {
		t.Fatal(err)
	}

	if cfg.APIKey != "gk_saved" {
		t.Errorf("APIKey = %q, saved key must win", cfg.APIKey)
	}
	if len(cfg.Models) != 2 {
		t.Fatalf("Models = %+v, preferred model must move to the front without duplicating", cfg.Models)
	}
	if cfg.Models[0].Name != "gemini-2.5-pro" || cfg.Models[1].Name != "gemini-2.5-flash" {
		t.Errorf("Models = %+v", cfg.Models)
	}
}

func TestApplyOverridesNoSettings(t *testing.T) {
	s := testStore(t)

	cfg := types.ExtractionConfig{
		APIKey: "gk_config",
		Models: []types.ModelCandidate{{Provider: "gemini", Name: "gemini-2.5-flash"}},
	}
	if err := s.ApplyOverrides(&cfg); err != nil {
		t.Fatal(err)
	}

	if cfg.APIKey != "gk_config" {
		t.Errorf("APIKey = %q, config value must survive", cfg.APIKey)
	}
	if len(cfg.Models) != 1 || cfg.Models[0].Name != "gemini-2.5-flash" {
		t.Errorf("Models = %+v", cfg.Models)
	}
}
