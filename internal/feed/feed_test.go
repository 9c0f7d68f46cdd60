package feed

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"refreshlist/internal/model"
)

func TestSeed(t *testing.T) {
	entries := Seed(10)
	if len(entries) != 10 {
		t.Fatalf("len = %d, want 10", len(entries))
	}
	ids := make(map[string]bool)
	for _, e := range entries {
		if e.Name != "Default entry" {
			t.Errorf("name = %q, want %q", e.Name, "Default entry")
		}
		if ids[e.ID] {
			t.Errorf("duplicate id %q", e.ID)
		}
		ids[e.ID] = true
	}
	if got := Seed(0); len(got) != 0 {
		t.Errorf("Seed(0) len = %d, want 0", len(got))
	}
}

func TestPrepend(t *testing.T) {
	existing := []model.Entry{{Name: "b"}, {Name: "c"}}
	fresh := []model.Entry{{Name: "a"}}

	got := Prepend(existing, fresh)
	var names []string
	for _, e := range got {
		names = append(names, e.Name)
	}
	if strings.Join(names, ",") != "a,b,c" {
		t.Errorf("order = %v, want a,b,c", names)
	}
	if len(existing) != 2 || existing[0].Name != "b" {
		t.Errorf("existing slice modified: %v", existing)
	}
}

func TestGeneratorFetch(t *testing.T) {
	g := NewGenerator(0, 3)

	first, err := g.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(first) != 3 {
		t.Fatalf("len = %d, want 3", len(first))
	}
	if first[0].Name != "Fresh entry 3" || first[2].Name != "Fresh entry 1" {
		t.Errorf("names = %q..%q, want newest first", first[0].Name, first[2].Name)
	}

	second, err := g.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if second[0].Name != "Fresh entry 6" {
		t.Errorf("second batch top = %q, want %q", second[0].Name, "Fresh entry 6")
	}
}

func TestGeneratorMinimumBatch(t *testing.T) {
	g := NewGenerator(0, 0)
	got, err := g.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("len = %d, want 1", len(got))
	}
}

func TestGeneratorHonoursCancel(t *testing.T) {
	g := NewGenerator(time.Hour, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := g.Fetch(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline exceeded", err)
	}
}

func TestLoadSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	data := `entries:
  - name: Gopher
    description: Burrowing rodent
    info: 12 stars
    url: https://go.dev
  - id: fixed
    name: Tea
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	entries, err := LoadSeedFile(path)
	if err != nil {
		t.Fatalf("LoadSeedFile: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len = %d, want 2", len(entries))
	}
	if entries[0].ID == "" {
		t.Error("missing id should be generated")
	}
	if entries[0].URL != "https://go.dev" || entries[0].Info != "12 stars" {
		t.Errorf("entry = %+v", entries[0])
	}
	if entries[1].ID != "fixed" {
		t.Errorf("id = %q, want fixed", entries[1].ID)
	}
}

func TestLoadSeedFileErrors(t *testing.T) {
	if _, err := LoadSeedFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := parseSeed([]byte("entries:\n  - description: nameless\n")); err == nil {
		t.Error("expected error for entry without name")
	}
	if _, err := parseSeed([]byte("entries: [")); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestParseOutput(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name  string
		out   string
		names []string
		desc  string
	}{
		{"empty", "  \n", nil, ""},
		{"lines", "alpha\tfirst\t1\n\nbeta\n", []string{"alpha", "beta"}, "first"},
		{"json", `[{"name":"gamma","description":"third"}]`, []string{"gamma"}, "third"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseOutput([]byte(tt.out), now)
			if err != nil {
				t.Fatalf("parseOutput: %v", err)
			}
			if len(got) != len(tt.names) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.names))
			}
			for i, e := range got {
				if e.Name != tt.names[i] {
					t.Errorf("name[%d] = %q, want %q", i, e.Name, tt.names[i])
				}
				if e.ID == "" || !e.Added.Equal(now) {
					t.Errorf("entry %d missing id or timestamp: %+v", i, e)
				}
			}
			if len(got) > 0 && got[0].Description != tt.desc {
				t.Errorf("description = %q, want %q", got[0].Description, tt.desc)
			}
		})
	}

	if _, err := parseOutput([]byte("[{"), now); err == nil {
		t.Error("expected error for malformed json")
	}
}

func TestCommandFetch(t *testing.T) {
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("no /bin/sh")
	}

	c := NewCommand(`printf 'one\tdesc\tinfo\ntwo\n'`, time.Second)
	got, err := c.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(got) != 2 || got[0].Name != "one" || got[0].Info != "info" {
		t.Errorf("entries = %+v", got)
	}

	fail := NewCommand("echo boom >&2; exit 3", time.Second)
	_, err = fail.Fetch(context.Background())
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Errorf("err = %v, want stderr in message", err)
	}
}

func TestTrimOutput(t *testing.T) {
	exit := errors.New("exit status 1")

	if got := trimOutput([]byte("  \n"), exit); got != "exit status 1" {
		t.Errorf("empty output = %q, want the exit error", got)
	}
	if got := trimOutput([]byte(" boom \n"), exit); got != "boom" {
		t.Errorf("short output = %q, want %q", got, "boom")
	}

	long := strings.Repeat("é", 300)
	got := trimOutput([]byte(long), exit)
	if !utf8.ValidString(got) {
		t.Errorf("truncated output is not valid UTF-8: %q", got)
	}
	if n := utf8.RuneCountInString(got); n != maxOutputRunes+1 {
		t.Errorf("truncated output has %d runes, want %d", n, maxOutputRunes+1)
	}
	if !strings.HasSuffix(got, "é…") {
		t.Error("truncated output should end with the ellipsis after a whole rune")
	}
}
