package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fbz-tec/sqlitexport/core/db"
	"github.com/fbz-tec/sqlitexport/core/dialect"
	"github.com/fbz-tec/sqlitexport/core/exporters"
	"github.com/fbz-tec/sqlitexport/core/output"
	"github.com/fbz-tec/sqlitexport/core/validation"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultFormat         = exporters.FormatCSV
	DefaultDelimiter      = ","
	DefaultQuote          = `"`
	DefaultLineTerminator = "crlf"
	DefaultEncoding       = output.DefaultEncoding
	DefaultCompression    = output.None
	DefaultDriver         = db.DefaultDriver

	// DefaultTimeFormat is empty: stored values are written unchanged.
	DefaultTimeFormat = ""

	envPrefix = "SQLITEXPORT_"
)

// Config holds the export settings that are not positional arguments.
type Config struct {
	Format         string `yaml:"format"`
	Delimiter      string `yaml:"delimiter"`
	Quote          string `yaml:"quote"`
	LineTerminator string `yaml:"line_terminator"`
	Encoding       string `yaml:"encoding"`
	Compression    string `yaml:"compression"`
	Driver         string `yaml:"driver"`
	NoHeader       bool   `yaml:"no_header"`
	TimeFormat     string `yaml:"time_format"`
	TimeZone       string `yaml:"time_zone"`
	Manifest       string `yaml:"manifest"`
}

// Default returns the configuration matching common CSV conventions.
func Default() Config {
	return Config{
		Format:         DefaultFormat,
		Delimiter:      DefaultDelimiter,
		Quote:          DefaultQuote,
		LineTerminator: DefaultLineTerminator,
		Encoding:       DefaultEncoding,
		Compression:    DefaultCompression,
		Driver:         DefaultDriver,
		TimeFormat:     DefaultTimeFormat,
	}
}

// LoadConfig builds the configuration from defaults, an optional YAML file,
// then environment variables (after loading .env if present).
// Fields left empty in the file keep their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("unable to read config file: %w", err)
		}
		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return cfg, fmt.Errorf("invalid config file %s: %w", path, err)
		}
		cfg.merge(fileCfg)
	}

	_ = godotenv.Load()
	cfg.merge(fromEnv())

	return cfg, nil
}

func fromEnv() Config {
	return Config{
		Format:         os.Getenv(envPrefix + "FORMAT"),
		Delimiter:      os.Getenv(envPrefix + "DELIMITER"),
		Quote:          os.Getenv(envPrefix + "QUOTE"),
		LineTerminator: os.Getenv(envPrefix + "LINE_TERMINATOR"),
		Encoding:       os.Getenv(envPrefix + "ENCODING"),
		Compression:    os.Getenv(envPrefix + "COMPRESSION"),
		Driver:         os.Getenv(envPrefix + "DRIVER"),
		NoHeader:       getEnvBool(envPrefix + "NO_HEADER"),
		TimeFormat:     os.Getenv(envPrefix + "TIME_FORMAT"),
		TimeZone:       os.Getenv(envPrefix + "TIME_ZONE"),
		Manifest:       os.Getenv(envPrefix + "MANIFEST"),
	}
}

// merge copies every non-empty field of o into c.
func (c *Config) merge(o Config) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&c.Format, o.Format)
	set(&c.Delimiter, o.Delimiter)
	set(&c.Quote, o.Quote)
	set(&c.LineTerminator, o.LineTerminator)
	set(&c.Encoding, o.Encoding)
	set(&c.Compression, o.Compression)
	set(&c.Driver, o.Driver)
	set(&c.TimeFormat, o.TimeFormat)
	set(&c.TimeZone, o.TimeZone)
	set(&c.Manifest, o.Manifest)
	if o.NoHeader {
		c.NoHeader = true
	}
}

// Validate checks every field and normalizes case where it is insignificant.
func (c *Config) Validate() error {
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	if _, err := exporters.Get(c.Format); err != nil {
		return err
	}

	d, err := c.Dialect()
	if err != nil {
		return err
	}
	if err := d.Validate(); err != nil {
		return err
	}

	if _, _, err := output.LookupEncoding(c.Encoding); err != nil {
		return err
	}

	c.Compression = strings.ToLower(strings.TrimSpace(c.Compression))
	if err := output.ValidateCompression(c.Compression); err != nil {
		return err
	}

	validDriver := false
	for _, name := range db.Drivers() {
		if c.Driver == name {
			validDriver = true
			break
		}
	}
	if !validDriver {
		return fmt.Errorf("invalid driver %q (valid: %s)", c.Driver, strings.Join(db.Drivers(), ", "))
	}

	if c.TimeFormat == "" {
		if c.TimeZone != "" {
			return fmt.Errorf("time zone %q requires a time format", c.TimeZone)
		}
		return nil
	}
	if err := validation.ValidateTimeFormat(c.TimeFormat); err != nil {
		return err
	}
	return validation.ValidateTimeZone(c.TimeZone)
}

// Dialect parses the delimiter, quote and line terminator settings.
func (c Config) Dialect() (dialect.Dialect, error) {
	delim, err := validation.ParseSeparator("delimiter", c.Delimiter)
	if err != nil {
		return dialect.Dialect{}, err
	}
	quote, err := validation.ParseSeparator("quote", c.Quote)
	if err != nil {
		return dialect.Dialect{}, err
	}
	term, err := dialect.ParseLineTerminator(c.LineTerminator)
	if err != nil {
		return dialect.Dialect{}, err
	}
	return dialect.Dialect{Delimiter: delim, Quote: quote, LineTerminator: term}, nil
}

func getEnvBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}
