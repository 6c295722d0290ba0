package qconf

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/quatton/qjob/pkg/qerr"
	"github.com/quatton/qjob/pkg/qexec"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	tempDir := t.TempDir()
	oldWd, _ := os.Getwd()
	if err := os.Chdir(tempDir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(oldWd) })
	return tempDir
}

func TestLoadConfig_Defaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Scheduler != "slurm" {
		t.Errorf("Expected default scheduler slurm, got %s", cfg.Scheduler)
	}
	if cfg.Threads != 1 {
		t.Errorf("Expected default threads 1, got %d", cfg.Threads)
	}
	if cfg.Timeout != 10*time.Minute {
		t.Errorf("Expected default timeout 10m, got %s", cfg.Timeout)
	}
	if cfg.Executor.Kind != qexec.KindLocal {
		t.Errorf("Expected local executor, got %s", cfg.Executor.Kind)
	}
	if cfg.Cache.TTL != 24*time.Hour {
		t.Errorf("Expected cache ttl 24h, got %s", cfg.Cache.TTL)
	}
	if cfg.Export.Port != 5432 || cfg.Archive.Bucket != "qjob-reports" {
		t.Errorf("Unexpected sink defaults: %+v %+v", cfg.Export, cfg.Archive)
	}
	if cfg.ConfigFileUsed() != "" {
		t.Errorf("Expected no config file, got %s", cfg.ConfigFileUsed())
	}
}

func TestLoadConfig_ProjectConfig(t *testing.T) {
	chdirTemp(t)

	projectConfig := `
threads: 4
timeout: 90s
backends:
  slurm: [sacct]
executor:
  kind: docker
  container: slurmctld
archive:
  enabled: true
  bucket: reports
  useSSL: true
`
	os.WriteFile("qjob.yaml", []byte(projectConfig), 0644)

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Threads != 4 {
		t.Errorf("Expected threads 4, got %d", cfg.Threads)
	}
	if cfg.Timeout != 90*time.Second {
		t.Errorf("Expected timeout 90s, got %s", cfg.Timeout)
	}
	if got := cfg.Backends["slurm"]; len(got) != 1 || got[0] != "sacct" {
		t.Errorf("Expected backends.slurm [sacct], got %v", got)
	}
	if cfg.Executor.Kind != qexec.KindDocker || cfg.Executor.Container != "slurmctld" {
		t.Errorf("Unexpected executor %+v", cfg.Executor)
	}
	if !cfg.Archive.Enabled || cfg.Archive.Bucket != "reports" || !cfg.Archive.UseSSL {
		t.Errorf("Unexpected archive %+v", cfg.Archive)
	}
}

func TestLoadConfig_LocalOverride(t *testing.T) {
	chdirTemp(t)

	os.WriteFile("qjob.yaml", []byte("threads: 2\ntmpdir: /scratch\n"), 0644)
	os.MkdirAll(ConfigRoot, 0755)
	os.WriteFile(filepath.Join(ConfigRoot, "config.yaml"), []byte("threads: 8\n"), 0644)

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	// Local override should win
	if cfg.Threads != 8 {
		t.Errorf("Expected threads 8 (from local override), got %d", cfg.Threads)
	}
	if cfg.TmpDir != "/scratch" {
		t.Errorf("Expected tmpdir /scratch (from project), got %s", cfg.TmpDir)
	}
}

func TestLoadConfig_ExplicitFile(t *testing.T) {
	dir := chdirTemp(t)
	os.WriteFile("qjob.yaml", []byte("threads: 2\n"), 0644)

	path := filepath.Join(dir, "custom.yaml")
	os.WriteFile(path, []byte("threads: 3\n"), 0644)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Threads != 3 {
		t.Errorf("Expected threads 3 from explicit file, got %d", cfg.Threads)
	}

	if _, err := LoadConfig(filepath.Join(dir, "missing.yaml")); !qerr.IsCode(err, qerr.CodeConfig) {
		t.Errorf("Expected config error for missing file, got %v", err)
	}
}

func TestLoadConfig_Env(t *testing.T) {
	chdirTemp(t)
	t.Setenv("QJOB_THREADS", "6")
	t.Setenv("QJOB_CACHE_KIND", "memory")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Threads != 6 {
		t.Errorf("Expected threads 6 from env, got %d", cfg.Threads)
	}
	if cfg.Cache.Kind != CacheMemory {
		t.Errorf("Expected memory cache from env, got %q", cfg.Cache.Kind)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		config string
	}{
		{"zero threads", "threads: 0\n"},
		{"negative timeout", "timeout: -1s\n"},
		{"unknown cache", "cache:\n  kind: memcached\n"},
		{"unknown executor", "executor:\n  kind: ssh\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdirTemp(t)
			os.WriteFile("qjob.yaml", []byte(tt.config), 0644)

			_, err := LoadConfig("")
			if !qerr.IsCode(err, qerr.CodeConfig) {
				t.Errorf("Expected config error, got %v", err)
			}
		})
	}
}

func TestReload_PicksUpOverrides(t *testing.T) {
	chdirTemp(t)

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	cfg.Viper().Set(ThreadsKey, 5)
	if err := cfg.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if cfg.Threads != 5 {
		t.Errorf("Expected threads 5 after reload, got %d", cfg.Threads)
	}
}
