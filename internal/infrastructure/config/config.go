package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for our application
type Config struct {
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Log      LogConfig      `mapstructure:"log"`
}

// AnalysisConfig holds pipeline configuration. The view sizes default
// to the fixed design constants; they are exposed for tuning but are
// not part of the documented contract.
type AnalysisConfig struct {
	Input     string `mapstructure:"input"`
	OutputDir string `mapstructure:"output_dir"`
	Charts    bool   `mapstructure:"charts"`
	SQLite    bool   `mapstructure:"sqlite"`

	KeywordDepth   int `mapstructure:"keyword_depth"`
	ReportKeywords int `mapstructure:"report_keywords"`
	ChartKeywords  int `mapstructure:"chart_keywords"`
	CloudWords     int `mapstructure:"cloud_words"`
	CloudPartition int `mapstructure:"cloud_partition_words"`
	TopMovies      int `mapstructure:"top_movies"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Set default values
	setDefaults()

	// Enable reading from environment variables
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read configuration file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Analysis defaults
	viper.SetDefault("analysis.output_dir", "analysis_results")
	viper.SetDefault("analysis.charts", true)
	viper.SetDefault("analysis.sqlite", true)
	viper.SetDefault("analysis.keyword_depth", 50)
	viper.SetDefault("analysis.report_keywords", 20)
	viper.SetDefault("analysis.chart_keywords", 30)
	viper.SetDefault("analysis.cloud_words", 200)
	viper.SetDefault("analysis.cloud_partition_words", 150)
	viper.SetDefault("analysis.top_movies", 10)

	// Log defaults
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")
}
