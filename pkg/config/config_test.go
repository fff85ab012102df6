package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}
	if Default().S3.Enabled() {
		t.Error("S3 should be disabled without a bucket")
	}
}

func TestLoadEnv(t *testing.T) {
	t.Run("MissingFileIsNotAnError", func(t *testing.T) {
		if err := LoadEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
			t.Errorf("Expected no error for missing file, got %v", err)
		}
	})

	t.Run("LoadsValues", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		if err := os.WriteFile(path, []byte("RAYTRACER_TEST_SCENE_VALUE=random\n"), 0644); err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { os.Unsetenv("RAYTRACER_TEST_SCENE_VALUE") })

		if err := LoadEnv(path); err != nil {
			t.Fatalf("LoadEnv failed: %v", err)
		}
		if got := os.Getenv("RAYTRACER_TEST_SCENE_VALUE"); got != "random" {
			t.Errorf("Expected value from .env, got %q", got)
		}
	})

	t.Run("ExistingEnvironmentWins", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		if err := os.WriteFile(path, []byte("RAYTRACER_TEST_KEEP=file\n"), 0644); err != nil {
			t.Fatal(err)
		}
		t.Setenv("RAYTRACER_TEST_KEEP", "process")

		if err := LoadEnv(path); err != nil {
			t.Fatalf("LoadEnv failed: %v", err)
		}
		if got := os.Getenv("RAYTRACER_TEST_KEEP"); got != "process" {
			t.Errorf("Expected process value to win, got %q", got)
		}
	})
}

func TestFromEnv(t *testing.T) {
	t.Setenv("RAYTRACER_SCENE", "mirror-cluster")
	t.Setenv("RAYTRACER_WIDTH", "320")
	t.Setenv("RAYTRACER_SAMPLES", "16")
	t.Setenv("RAYTRACER_MODE", "progressive")
	t.Setenv("S3_BUCKET", "renders")
	t.Setenv("S3_UPLOAD_TIMEOUT", "5s")
	t.Setenv("S3_FORCE_PATH_STYLE", "false")

	c, err := FromEnv(Default())
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}

	if c.Scene != "mirror-cluster" || c.Width != 320 || c.SamplesPerPixel != 16 || c.Mode != "progressive" {
		t.Errorf("Environment not applied: %+v", c)
	}
	if !c.S3.Enabled() || c.S3.Bucket != "renders" {
		t.Errorf("Expected S3 enabled for bucket 'renders', got %+v", c.S3)
	}
	if c.S3.UploadTimeout != 5*time.Second || c.S3.ForcePathStyle {
		t.Errorf("Unexpected S3 settings %+v", c.S3)
	}
	// Unset variables keep the base value
	if c.Port != 8080 {
		t.Errorf("Expected default port, got %d", c.Port)
	}
}

func TestFromEnvErrors(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"RAYTRACER_WIDTH", "wide"},
		{"RAYTRACER_PORT", "80.5"},
		{"S3_UPLOAD_TIMEOUT", "soon"},
		{"S3_FORCE_PATH_STYLE", "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := FromEnv(Default()); err == nil {
				t.Errorf("Expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}

func TestRegisterFlags(t *testing.T) {
	c := Default()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	RegisterFlags(fs, &c)

	err := fs.Parse([]string{"-scene", "random", "-width", "100", "-thumb", "64", "-s3-bucket", "b"})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if c.Scene != "random" || c.Width != 100 || c.ThumbnailWidth != 64 || c.S3.Bucket != "b" {
		t.Errorf("Flags not applied: %+v", c)
	}
	if c.Output != "output/render.png" {
		t.Errorf("Unset flags should keep defaults, got output %q", c.Output)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"negative width", func(c *Config) { c.Width = -1 }},
		{"negative samples", func(c *Config) { c.SamplesPerPixel = -4 }},
		{"negative depth", func(c *Config) { c.MaxDepth = -1 }},
		{"unknown mode", func(c *Config) { c.Mode = "fast" }},
		{"progressive without passes", func(c *Config) { c.Mode = "progressive"; c.MaxPasses = 0 }},
		{"empty output", func(c *Config) { c.Output = "" }},
		{"bad port", func(c *Config) { c.Port = 70000 }},
		{"s3 without region", func(c *Config) { c.S3.Bucket = "b"; c.S3.Region = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.modify(&c)
			if err := c.Validate(); err == nil {
				t.Errorf("Expected validation error")
			}
		})
	}

	c := Default()
	c.Port = 9000
	if err := c.Validate(); err != nil {
		t.Errorf("Port %d should be valid: %v", c.Port, err)
	}
}
