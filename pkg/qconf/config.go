// Package qconf loads qjob settings from project files, local overrides and QJOB_* variables.
package qconf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/quatton/qjob/pkg/db"
	"github.com/quatton/qjob/pkg/qart"
	"github.com/quatton/qjob/pkg/qerr"
	"github.com/quatton/qjob/pkg/qexec"
)

type Config struct {
	Scheduler string              `mapstructure:"scheduler"`
	Threads   int                 `mapstructure:"threads"`
	TmpDir    string              `mapstructure:"tmpdir"`
	Timeout   time.Duration       `mapstructure:"timeout"`
	Backends  map[string][]string `mapstructure:"backends"`

	Executor qexec.Config  `mapstructure:"executor"`
	Cache    CacheConfig   `mapstructure:"cache"`
	Archive  ArchiveConfig `mapstructure:"archive"`
	Export   ExportConfig  `mapstructure:"export"`
	Log      LogConfig     `mapstructure:"log"`

	v *viper.Viper // instance-specific viper
}

// CacheConfig selects the record cache. Kind is "", "memory" or "valkey".
type CacheConfig struct {
	Kind     string        `mapstructure:"kind"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type ArchiveConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	qart.S3Config `mapstructure:",squash"`
}

type ExportConfig struct {
	Enabled   bool `mapstructure:"enabled"`
	db.Config `mapstructure:",squash"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

const (
	EnvPrefix  = "QJOB"
	ConfigRoot = ".qjob"

	SchedulerKey = "scheduler"
	ThreadsKey   = "threads"
	TmpDirKey    = "tmpdir"
	TimeoutKey   = "timeout"
	LogLevelKey  = "log.level"
)

const (
	CacheNone   = ""
	CacheMemory = "memory"
	CacheValkey = "valkey"
)

// LoadConfig creates a new Config instance with its own viper.
// An explicit cfgFile replaces the project/local lookup.
func LoadConfig(cfgFile string) (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, qerr.Errorf(qerr.CodeConfig, "reading config file %s: %w", cfgFile, err)
		}
	} else {
		// Project config (tracked)
		for _, name := range []string{"qjob.yaml", "qjob.yml", ".qjob.yaml"} {
			if _, err := os.Stat(name); err == nil {
				v.SetConfigFile(name)
				if err := v.ReadInConfig(); err != nil {
					return nil, qerr.Errorf(qerr.CodeConfig, "reading %s: %w", name, err)
				}
				break
			}
		}

		// Local overrides (untracked)
		localConfigPath := filepath.Join(ConfigRoot, "config.yaml")
		if _, err := os.Stat(localConfigPath); err == nil {
			v.SetConfigFile(localConfigPath)
			if err := v.MergeInConfig(); err != nil {
				return nil, qerr.Errorf(qerr.CodeConfig, "merging local config: %w", err)
			}
		}
	}

	setDefaults(v)

	cfg := &Config{v: v}
	if err := cfg.reload(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Viper returns the underlying viper instance, for flag binding.
func (c *Config) Viper() *viper.Viper {
	return c.v
}

// Reload re-reads the settings after flags have been bound.
func (c *Config) Reload() error {
	return c.reload()
}

func (c *Config) reload() error {
	v := c.v
	*c = Config{v: v}
	if err := v.Unmarshal(c); err != nil {
		return qerr.Errorf(qerr.CodeConfig, "unmarshaling config: %w", err)
	}
	return c.validate()
}

func (c *Config) validate() error {
	if c.Threads < 1 {
		return qerr.Errorf(qerr.CodeConfig, "threads must be at least 1, got %d", c.Threads)
	}
	if c.Timeout < 0 {
		return qerr.Errorf(qerr.CodeConfig, "timeout must not be negative, got %s", c.Timeout)
	}
	switch c.Cache.Kind {
	case CacheNone, CacheMemory, CacheValkey:
	default:
		return qerr.Errorf(qerr.CodeConfig, "unknown cache kind %q", c.Cache.Kind)
	}
	switch c.Executor.Kind {
	case qexec.KindLocal, qexec.KindDocker, qexec.KindKubernetes:
	default:
		return qerr.Errorf(qerr.CodeConfig, "unknown executor kind %q", c.Executor.Kind)
	}
	return nil
}

// ConfigFileUsed returns the config file that was used (if any)
func (c *Config) ConfigFileUsed() string {
	if c.v == nil {
		return ""
	}
	return c.v.ConfigFileUsed()
}

// Every key gets a default so that QJOB_* variables reach Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault(SchedulerKey, "slurm")
	v.SetDefault(ThreadsKey, 1)
	v.SetDefault(TmpDirKey, os.TempDir())
	v.SetDefault(TimeoutKey, 10*time.Minute)
	v.SetDefault(LogLevelKey, "info")
	v.SetDefault("backends", map[string][]string{})

	v.SetDefault("executor.kind", string(qexec.KindLocal))
	v.SetDefault("executor.container", "")
	v.SetDefault("executor.namespace", "default")
	v.SetDefault("executor.pod", "")
	v.SetDefault("executor.podContainer", "")
	v.SetDefault("executor.kubeconfig", "")

	v.SetDefault("cache.kind", CacheNone)
	v.SetDefault("cache.addr", "localhost:6379")
	v.SetDefault("cache.password", "")
	v.SetDefault("cache.db", 0)
	v.SetDefault("cache.ttl", 24*time.Hour)

	v.SetDefault("archive.enabled", false)
	v.SetDefault("archive.endpoint", "localhost:9000")
	v.SetDefault("archive.accessKey", "")
	v.SetDefault("archive.secretKey", "")
	v.SetDefault("archive.bucket", "qjob-reports")
	v.SetDefault("archive.region", "")
	v.SetDefault("archive.useSSL", false)

	v.SetDefault("export.enabled", false)
	v.SetDefault("export.host", "localhost")
	v.SetDefault("export.port", 5432)
	v.SetDefault("export.user", "qjob")
	v.SetDefault("export.password", "")
	v.SetDefault("export.database", "qjob")
	v.SetDefault("export.sslmode", "disable")
}

func (c *Config) String() string {
	return fmt.Sprintf("scheduler=%s threads=%d timeout=%s executor=%s cache=%q",
		c.Scheduler, c.Threads, c.Timeout, c.Executor.Kind, c.Cache.Kind)
}
