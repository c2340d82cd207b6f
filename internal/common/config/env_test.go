package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNumericFromEnv(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		read    func() (any, error)
		want    any
		wantErr bool
	}{
		{"int default", "", func() (any, error) { return IntFromEnv("ANSWERCHECK_TEST_NUM", 42) }, 42, false},
		{"int value", " 100 ", func() (any, error) { return IntFromEnv("ANSWERCHECK_TEST_NUM", 42) }, 100, false},
		{"int invalid", "ten", func() (any, error) { return IntFromEnv("ANSWERCHECK_TEST_NUM", 42) }, nil, true},
		{"int64 value", "9000000000", func() (any, error) { return Int64FromEnv("ANSWERCHECK_TEST_NUM", 1) }, int64(9000000000), false},
		{"float value", "0.25", func() (any, error) { return Float64FromEnv("ANSWERCHECK_TEST_NUM", 1) }, 0.25, false},
		{"float invalid", "fast", func() (any, error) { return Float64FromEnv("ANSWERCHECK_TEST_NUM", 1) }, nil, true},
		{"seconds", "10", func() (any, error) { return DurationSecondsFromEnv("ANSWERCHECK_TEST_NUM", 0) }, 10 * time.Second, false},
		{"millis", "10", func() (any, error) { return DurationMillisFromEnv("ANSWERCHECK_TEST_NUM", 0) }, 10 * time.Millisecond, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ANSWERCHECK_TEST_NUM", tt.raw)
			got, err := tt.read()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestBoolFromEnv(t *testing.T) {
	for raw, want := range map[string]bool{"true": true, "1": true, "YES": true, "false": false, "0": false, "n": false} {
		t.Run(raw, func(t *testing.T) {
			t.Setenv("ANSWERCHECK_TEST_BOOL", raw)
			got, err := BoolFromEnv("ANSWERCHECK_TEST_BOOL", !want)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != want {
				t.Errorf("expected %v, got %v", want, got)
			}
		})
	}

	t.Setenv("ANSWERCHECK_TEST_BOOL", "maybe")
	if _, err := BoolFromEnv("ANSWERCHECK_TEST_BOOL", false); err == nil {
		t.Fatal("expected error for invalid bool")
	}
}

func TestFirstNonEmpty(t *testing.T) {
	keys := []string{"CACHE_HOST_TEST", "REDIS_HOST_TEST"}

	if got := StringFromEnvFirstNonEmpty(keys, "localhost"); got != "localhost" {
		t.Errorf("expected default, got %q", got)
	}

	t.Setenv("CACHE_HOST_TEST", "  ")
	t.Setenv("REDIS_HOST_TEST", "valkey")
	if got := StringFromEnvFirstNonEmpty(keys, "localhost"); got != "valkey" {
		t.Errorf("blank value should be skipped, got %q", got)
	}

	t.Setenv("CACHE_PORT_TEST", "")
	t.Setenv("REDIS_PORT_TEST", "6380")
	port, err := IntFromEnvFirstNonEmpty([]string{"CACHE_PORT_TEST", "REDIS_PORT_TEST"}, 6379)
	if err != nil || port != 6380 {
		t.Errorf("expected 6380, got %d (%v)", port, err)
	}

	t.Setenv("CACHE_PORT_TEST", "oops")
	if _, err := Int64FromEnvFirstNonEmpty([]string{"CACHE_PORT_TEST", "REDIS_PORT_TEST"}, 1); err == nil {
		t.Fatal("first non-empty value is invalid, expected error")
	}

	enabled, err := BoolFromEnvFirstNonEmpty([]string{"MISSING_A_TEST", "MISSING_B_TEST"}, true)
	if err != nil || !enabled {
		t.Errorf("expected default true, got %v (%v)", enabled, err)
	}
}

func TestLoadDotenvIfPresent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "answercheck.env")
	if err := os.WriteFile(path, []byte("ANSWERCHECK_DOTENV_TEST=from-file\nANSWERCHECK_DOTENV_KEEP=from-file\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("ANSWERCHECK_DOTENV_KEEP", "from-env")
	t.Setenv("ANSWERCHECK_DOTENV_TEST", "")
	os.Unsetenv("ANSWERCHECK_DOTENV_TEST")

	if err := LoadDotenvIfPresent(filepath.Join(dir, "missing.env"), path); err != nil {
		t.Fatalf("LoadDotenvIfPresent failed: %v", err)
	}
	if got := os.Getenv("ANSWERCHECK_DOTENV_TEST"); got != "from-file" {
		t.Errorf("expected value from file, got %q", got)
	}
	if got := os.Getenv("ANSWERCHECK_DOTENV_KEEP"); got != "from-env" {
		t.Errorf("existing env must win, got %q", got)
	}
}

func TestDotenvPaths(t *testing.T) {
	t.Setenv("DOTENV_PATH", "")
	if got := dotenvPaths(nil); len(got) != 1 || got[0] != ".env" {
		t.Errorf("unexpected default paths: %v", got)
	}
	t.Setenv("DOTENV_PATH", "a.env, b.env")
	if got := dotenvPaths(nil); len(got) != 2 || got[1] != "b.env" {
		t.Errorf("unexpected paths from env: %v", got)
	}
	if got := dotenvPaths([]string{"x.env"}); len(got) != 1 || got[0] != "x.env" {
		t.Errorf("explicit paths should win: %v", got)
	}
}
