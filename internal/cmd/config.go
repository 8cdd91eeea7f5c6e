package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dendrascience/dendra-splitfs/splitfs"
	"github.com/dendrascience/dendra-splitfs/util"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Environment variables read by loadConfig.
const (
	envConfigPath = "SPLITFS_CONFIG"
	envChunkSize  = "SPLITFS_CHUNK_SIZE"
	envWholeName  = "SPLITFS_WHOLE_NAME"
	envLogLevel   = "SPLITFS_LOG_LEVEL"
)

// Config holds the settings shared by every command. Values come from
// defaults, then the config file, then the environment, then flags.
type Config struct {
	ChunkSize     ByteSize `yaml:"chunk_size"`
	WholeFileName string   `yaml:"whole_file_name"`
	FSName        string   `yaml:"fsname"`
	AllowOther    bool     `yaml:"allow_other"`
	LogLevel      string   `yaml:"log_level"`
}

func defaultConfig() Config {
	return Config{
		ChunkSize:     ByteSize(util.DefaultChunkSize),
		WholeFileName: util.DefaultWholeFileName,
		FSName:        splitfs.DefaultFSName,
		LogLevel:      "info",
	}
}

// loadConfig reads path (or $SPLITFS_CONFIG when path is empty) over the
// defaults and applies environment overrides. No file at all is fine.
func loadConfig(path string) (Config, error) {
	c := defaultConfig()

	if path == "" {
		path = os.Getenv(envConfigPath)
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, err
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	// ENV override
	if v := os.Getenv(envChunkSize); v != "" {
		if err := c.ChunkSize.Set(v); err != nil {
			return Config{}, fmt.Errorf("%s: %w", envChunkSize, err)
		}
	}
	if v := os.Getenv(envWholeName); v != "" {
		c.WholeFileName = v
	}
	if v := os.Getenv(envLogLevel); v != "" {
		c.LogLevel = v
	}

	return c, nil
}

// resolveConfig loads the configuration for cmd and lets every flag the
// user actually set win over it.
func resolveConfig(cmd *cobra.Command) (Config, error) {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")
	c, err := loadConfig(path)
	if err != nil {
		return Config{}, err
	}

	if flags.Changed("chunk-size") {
		c.ChunkSize = *flags.Lookup("chunk-size").Value.(*ByteSize)
	}
	if flags.Changed("name") {
		c.WholeFileName, _ = flags.GetString("name")
	}
	if flags.Changed("log-level") {
		c.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("fsname") {
		c.FSName, _ = flags.GetString("fsname")
	}
	if flags.Changed("allow-other") {
		c.AllowOther, _ = flags.GetBool("allow-other")
	}
	return c, nil
}

// configureLogging routes library logging to stderr at the given level.
func configureLogging(level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q", level)
	}
	l := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	util.SetLogger(l)
	splitfs.SetLogger(l)
	return nil
}
