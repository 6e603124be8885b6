package types

// Config represents the overall application configuration
type Config struct {
	Server     ServerConfig     `yaml:"server" json:"server"`
	Storage    StorageConfig    `yaml:"storage" json:"storage"`
	Conversion ConversionConfig `yaml:"conversion" json:"conversion"`
	Logging    LoggingConfig    `yaml:"logging" json:"logging"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host         string `yaml:"host" json:"host"`
	Port         int    `yaml:"port" json:"port"`
	ReadTimeout  int    `yaml:"read_timeout" json:"read_timeout"`   // seconds
	WriteTimeout int    `yaml:"write_timeout" json:"write_timeout"` // seconds
}

// StorageConfig defines storage adapter settings
type StorageConfig struct {
	Adapter string           `yaml:"adapter" json:"adapter"` // "local" or "s3"
	Local   LocalStorageOpts `yaml:"local" json:"local"`
	S3      S3StorageOpts    `yaml:"s3" json:"s3"`
}

// LocalStorageOpts configures the local filesystem adapter
type LocalStorageOpts struct {
	BasePath string `yaml:"base_path" json:"base_path"`
}

// S3StorageOpts configures the S3-compatible adapter
type S3StorageOpts struct {
	Endpoint        string `yaml:"endpoint" json:"endpoint"`
	Region          string `yaml:"region" json:"region"`
	Bucket          string `yaml:"bucket" json:"bucket"`
	AccessKeyID     string `yaml:"access_key_id" json:"-"`
	SecretAccessKey string `yaml:"secret_access_key" json:"-"`
}

// ConversionConfig holds the defaults applied to every conversion
type ConversionConfig struct {
	Author         string        `yaml:"author" json:"author"`
	Language       string        `yaml:"language" json:"language"`
	ChapterPattern string        `yaml:"chapter_pattern" json:"chapter_pattern"`
	ParagraphMode  ParagraphMode `yaml:"paragraph_mode" json:"paragraph_mode"`
	ForceIndent    bool          `yaml:"force_indent" json:"force_indent"`
	MaxUploadBytes int64         `yaml:"max_upload_bytes" json:"max_upload_bytes"`
}

// LoggingConfig configures the slog handler
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`   // "debug", "info", "warn", "error"
	Format string `yaml:"format" json:"format"` // "json" or "text"
}
