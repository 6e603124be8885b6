// Package config loads the service configuration from YAML with T2E_
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/unalkalkan/txt2epub/internal/convert"
	"github.com/unalkalkan/txt2epub/internal/logging"
	"github.com/unalkalkan/txt2epub/internal/parser"
	"github.com/unalkalkan/txt2epub/internal/segmentation"
	"github.com/unalkalkan/txt2epub/pkg/types"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "T2E_"

// Load reads the configuration file on top of the defaults, applies
// environment overrides and validates the result. An empty configPath
// yields the defaults with overrides applied.
func Load(configPath string) (*types.Config, error) {
	cfg := GetDefault()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := applyEnvOverrides(cfg, os.LookupEnv); err != nil {
		return nil, fmt.Errorf("invalid environment override: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid and fills zero values that
// have a safe default
func Validate(cfg *types.Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", cfg.Server.Port)
	}

	switch cfg.Storage.Adapter {
	case "local":
		if cfg.Storage.Local.BasePath == "" {
			return fmt.Errorf("local storage base_path is required")
		}
		if !filepath.IsAbs(cfg.Storage.Local.BasePath) {
			return fmt.Errorf("local storage base_path must be absolute: %s", cfg.Storage.Local.BasePath)
		}
	case "s3":
		if cfg.Storage.S3.Bucket == "" {
			return fmt.Errorf("s3 bucket is required")
		}
		if cfg.Storage.S3.Region == "" {
			return fmt.Errorf("s3 region is required")
		}
	default:
		return fmt.Errorf("invalid storage adapter: %s (must be 'local' or 's3')", cfg.Storage.Adapter)
	}

	conv := &cfg.Conversion
	if _, err := parser.CompilePattern(conv.ChapterPattern); err != nil {
		return err
	}
	if conv.ParagraphMode == "" {
		conv.ParagraphMode = types.ModeSmart
	}
	mode, err := segmentation.ParseParagraphMode(string(conv.ParagraphMode))
	if err != nil {
		return err
	}
	conv.ParagraphMode = mode
	if conv.MaxUploadBytes <= 0 {
		conv.MaxUploadBytes = defaultMaxUploadBytes
	}

	if _, err := logging.ParseLevel(cfg.Logging.Level); err != nil {
		return fmt.Errorf("invalid logging level: %w", err)
	}
	switch strings.ToLower(cfg.Logging.Format) {
	case "", "json", "text":
	default:
		return fmt.Errorf("invalid logging format: %s (must be 'json' or 'text')", cfg.Logging.Format)
	}

	return nil
}

// applyEnvOverrides applies T2E_-prefixed environment variables. Malformed
// numeric or boolean values are reported together.
func applyEnvOverrides(cfg *types.Config, lookup func(string) (string, bool)) error {
	var errs []error

	str := func(name string, dst *string) {
		if val, ok := lookup(EnvPrefix + name); ok && val != "" {
			*dst = val
		}
	}
	integer := func(name string, dst *int) {
		if val, ok := lookup(EnvPrefix + name); ok && val != "" {
			n, err := strconv.Atoi(val)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = n
		}
	}

	// Server
	str("SERVER_HOST", &cfg.Server.Host)
	integer("SERVER_PORT", &cfg.Server.Port)
	integer("SERVER_READ_TIMEOUT", &cfg.Server.ReadTimeout)
	integer("SERVER_WRITE_TIMEOUT", &cfg.Server.WriteTimeout)

	// Storage
	str("STORAGE_ADAPTER", &cfg.Storage.Adapter)
	str("STORAGE_LOCAL_BASE_PATH", &cfg.Storage.Local.BasePath)
	str("STORAGE_S3_BUCKET", &cfg.Storage.S3.Bucket)
	str("STORAGE_S3_REGION", &cfg.Storage.S3.Region)
	str("STORAGE_S3_ENDPOINT", &cfg.Storage.S3.Endpoint)
	str("STORAGE_S3_ACCESS_KEY_ID", &cfg.Storage.S3.AccessKeyID)
	str("STORAGE_S3_SECRET_ACCESS_KEY", &cfg.Storage.S3.SecretAccessKey)

	// Conversion
	str("CONVERSION_AUTHOR", &cfg.Conversion.Author)
	str("CONVERSION_LANGUAGE", &cfg.Conversion.Language)
	str("CONVERSION_CHAPTER_PATTERN", &cfg.Conversion.ChapterPattern)
	if val, ok := lookup(EnvPrefix + "CONVERSION_PARAGRAPH_MODE"); ok && val != "" {
		cfg.Conversion.ParagraphMode = types.ParagraphMode(val)
	}
	if val, ok := lookup(EnvPrefix + "CONVERSION_FORCE_INDENT"); ok && val != "" {
		b, err := strconv.ParseBool(val)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sCONVERSION_FORCE_INDENT: %w", EnvPrefix, err))
		} else {
			cfg.Conversion.ForceIndent = b
		}
	}
	if val, ok := lookup(EnvPrefix + "CONVERSION_MAX_UPLOAD_BYTES"); ok && val != "" {
		n, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sCONVERSION_MAX_UPLOAD_BYTES: %w", EnvPrefix, err))
		} else {
			cfg.Conversion.MaxUploadBytes = n
		}
	}

	// Logging
	str("LOG_LEVEL", &cfg.Logging.Level)
	str("LOG_FORMAT", &cfg.Logging.Format)

	return errors.Join(errs...)
}

const defaultMaxUploadBytes = 32 << 20

// GetDefault returns a default configuration
func GetDefault() *types.Config {
	return &types.Config{
		Server: types.ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  30,
			WriteTimeout: 60,
		},
		Storage: types.StorageConfig{
			Adapter: "local",
			Local: types.LocalStorageOpts{
				BasePath: "/var/lib/txt2epub/storage",
			},
		},
		Conversion: types.ConversionConfig{
			Author:         convert.DefaultAuthor,
			Language:       convert.DefaultLanguage,
			ChapterPattern: parser.DefaultChapterPattern,
			ParagraphMode:  types.ModeSmart,
			ForceIndent:    true,
			MaxUploadBytes: defaultMaxUploadBytes,
		},
		Logging: types.LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
