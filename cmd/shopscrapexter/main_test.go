// cmd/shopscrapexter/main_test.go
package main

import (
	"os"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/valpere/ShopScrapexter/internal/config"
)

func TestGenerateTemplate(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"default", nil},
		{"basic", []string{"--type", "basic"}},
		{"marketplace", []string{"--type", "marketplace"}},
		{"shopify", []string{"--type", "shopify"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			template, err := generateTemplate(tt.args)
			if err != nil {
				t.Fatalf("generateTemplate failed: %v", err)
			}

			var cfg config.Config
			if err := yaml.Unmarshal([]byte(template), &cfg); err != nil {
				t.Fatalf("template is not valid YAML: %v", err)
			}
			if cfg.Name == "" {
				t.Error("template has no name")
			}
		})
	}
}

func TestGenerateTemplate_ShopifyEnablesBrowser(t *testing.T) {
	template, err := generateTemplate([]string{"--type", "shopify"})
	if err != nil {
		t.Fatalf("generateTemplate failed: %v", err)
	}
	if !strings.Contains(template, "browser:") {
		t.Error("shopify template should configure the headless browser")
	}
}

func TestPositionalArgs(t *testing.T) {
	args := []string{"-c", "shop.yaml", "https://a.example/p", "-v", "https://b.example/p"}
	got := positionalArgs(args)

	want := []string{"https://a.example/p", "https://b.example/p"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("arg %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFlagHelpers(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"shopscrapexter", "extract", "--config", "shop.yaml", "-v", "https://a.example/p"}

	if !hasFlag("-v") {
		t.Error("hasFlag(-v) = false")
	}
	if hasFlag("--quiet") {
		t.Error("hasFlag(--quiet) = true for an absent flag")
	}
	if got := flagValue("-c", "--config"); got != "shop.yaml" {
		t.Errorf("flagValue = %q, want shop.yaml", got)
	}
	if got := flagValue("--output"); got != "" {
		t.Errorf("flagValue for absent flag = %q, want empty", got)
	}
}

func TestNewLogger(t *testing.T) {
	if level := newLogger("warn", false).GetLevel(); level != logrus.WarnLevel {
		t.Errorf("level = %v, want warn", level)
	}
	if level := newLogger("warn", true).GetLevel(); level != logrus.DebugLevel {
		t.Errorf("verbose level = %v, want debug", level)
	}
	if level := newLogger("nonsense", false).GetLevel(); level != logrus.InfoLevel {
		t.Errorf("fallback level = %v, want info", level)
	}
}
