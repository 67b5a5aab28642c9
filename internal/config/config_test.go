package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestParse_DefaultsAndOverrides(t *testing.T) {
	cfg, err := Parse([]byte(`
port: 8080
env: Production
base_url: https://forms.example.com/
admin_password: secret
allowed_origins: [" https://a.example.com/ ", ""]
database:
  driver: memory
policy:
  option_cap: 8
  default_option_count: 2
  rating_cap: 7
  enforce_required: true
drafts:
  ttl: 30s
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Port != 8080 || cfg.Env != "production" || cfg.IsDev() {
		t.Fatalf("unexpected server settings %+v", cfg)
	}
	if cfg.BaseURL != "https://forms.example.com" {
		t.Fatalf("base url not normalised: %q", cfg.BaseURL)
	}
	if diff := cmp.Diff([]string{"https://a.example.com"}, cfg.AllowedOrigins); diff != "" {
		t.Fatalf("origins mismatch (-want +got):\n%s", diff)
	}
	if cfg.Drafts.TTL != 30*time.Second || cfg.RateLimit.SubmitPerMinute != defaultSubmitPerMinute {
		t.Fatalf("unexpected drafts/rate settings %+v %+v", cfg.Drafts, cfg.RateLimit)
	}
	if got := cfg.ComponentPolicy(); got.OptionCap != 8 || got.DefaultOptionCount != 2 || got.RatingCap != 7 {
		t.Fatalf("unexpected component policy %+v", got)
	}
	if got := cfg.ValidationPolicy(); !got.EnforceRequired || got.EnforceOptions {
		t.Fatalf("unexpected validation policy %+v", got)
	}
}

func TestParse_Rejects(t *testing.T) {
	cases := map[string]string{
		"unknown key":    "colour: blue\n",
		"bad port":       "port: 70000\n",
		"bad driver":     "database:\n  driver: sqlite\n",
		"option cap":     "policy:\n  option_cap: 0\n",
		"starting count": "policy:\n  option_cap: 2\n  default_option_count: 3\n",
		"rating cap":     "policy:\n  rating_cap: 1000\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(doc)); err == nil {
				t.Fatalf("expected error for %q", doc)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	env := map[string]string{
		EnvAdminPassword: " hunter2 ",
		EnvDSN:           "u:p@tcp(db:3306)/forms",
		EnvRedisURL:      "redis://cache:6379/1",
	}
	applyEnv(&cfg, func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	})
	if cfg.AdminPassword != "hunter2" || cfg.Database.DSNValue() != env[EnvDSN] || cfg.Redis.URL != env[EnvRedisURL] {
		t.Fatalf("environment not applied: %+v", cfg)
	}
}

func TestDSNValue_FromFields(t *testing.T) {
	db := DatabaseConfig{
		Host:      "db.internal",
		Port:      3307,
		User:      "forms",
		Password:  "pw",
		Name:      "builder",
		ParseTime: true,
		Loc:       "UTC",
	}
	dsn := db.DSNValue()
	for _, want := range []string{"forms:pw@tcp(db.internal:3307)/builder?", "charset=utf8mb4", "parseTime=true"} {
		if !strings.Contains(dsn, want) {
			t.Fatalf("expected %q in %q", want, dsn)
		}
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("port: 4000\ndatabase:\n  driver: memory\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != 4000 || cfg.Database.Driver != "memory" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Fatalf("expected missing file error")
	}
}
