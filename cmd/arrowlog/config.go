package main

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/ajitpratap0/arrowlog/pkg/config"
)

// overrides lists the settings that environment variables and flags may
// change on top of the config file.
var overrides = map[string]func(*config.Config, *viper.Viper, string){
	"recording.application_id": func(c *config.Config, v *viper.Viper, k string) {
		c.Recording.ApplicationID = v.GetString(k)
	},
	"recording.recording_id": func(c *config.Config, v *viper.Viper, k string) {
		c.Recording.RecordingID = v.GetString(k)
	},
	"recording.log_time": func(c *config.Config, v *viper.Viper, k string) {
		c.Recording.LogTime = v.GetBool(k)
	},
	"recording.log_tick": func(c *config.Config, v *viper.Viper, k string) {
		c.Recording.LogTick = v.GetBool(k)
	},
	"sink.kind": func(c *config.Config, v *viper.Viper, k string) {
		c.Sink.Kind = v.GetString(k)
	},
	"sink.path": func(c *config.Config, v *viper.Viper, k string) {
		c.Sink.Path = v.GetString(k)
	},
	"sink.compression": func(c *config.Config, v *viper.Viper, k string) {
		c.Sink.Compression = v.GetString(k)
	},
	"sink.compression_level": func(c *config.Config, v *viper.Viper, k string) {
		c.Sink.CompressionLevel = v.GetInt(k)
	},
	"sink.ipc_compression": func(c *config.Config, v *viper.Viper, k string) {
		c.Sink.IPCCompression = v.GetString(k)
	},
	"sink.batch_size": func(c *config.Config, v *viper.Viper, k string) {
		c.Sink.BatchSize = v.GetInt(k)
	},
	"memory.enable_builder_pool": func(c *config.Config, v *viper.Viper, k string) {
		c.Memory.EnableBuilderPool = v.GetBool(k)
	},
	"memory.builders_per_type": func(c *config.Config, v *viper.Viper, k string) {
		c.Memory.BuildersPerType = v.GetInt(k)
	},
	"memory.checked_allocator": func(c *config.Config, v *viper.Viper, k string) {
		c.Memory.CheckedAllocator = v.GetBool(k)
	},
	"observability.log_level": func(c *config.Config, v *viper.Viper, k string) {
		c.Observability.LogLevel = v.GetString(k)
	},
	"observability.log_format": func(c *config.Config, v *viper.Viper, k string) {
		c.Observability.LogFormat = v.GetString(k)
	},
	"observability.enable_metrics": func(c *config.Config, v *viper.Viper, k string) {
		c.Observability.EnableMetrics = v.GetBool(k)
	},
	"observability.tracing_exporter": func(c *config.Config, v *viper.Viper, k string) {
		c.Observability.TracingExporter = v.GetString(k)
	},
	"observability.tracing_sample_rate": func(c *config.Config, v *viper.Viper, k string) {
		c.Observability.TracingSampleRate = v.GetFloat64(k)
	},
}

// loadConfig reads the config file named by the --config flag, or the
// defaults, and applies environment and flag overrides.
func loadConfig(v *viper.Viper) (*config.Config, error) {
	v.SetEnvPrefix("ARROWLOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for key := range overrides {
		_ = v.BindEnv(key)
	}

	cfg := config.Default()
	if path := v.GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	for key, apply := range overrides {
		if v.IsSet(key) {
			apply(cfg, v, key)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
