package driver

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"lox/interpreter-go/pkg/interpreter"
)

// ConfigFileName is the file FindConfig looks for.
const ConfigFileName = "lox.yml"

// ConfigEnvVar names a config file explicitly, overriding discovery.
const ConfigEnvVar = "LOX_CONFIG"

// ErrConfigNotFound is returned by FindConfig when no lox.yml exists in the
// start directory or any of its parents.
var ErrConfigNotFound = errors.New("config: no lox.yml found")

// Config is the parsed contents of lox.yml.
type Config struct {
	Path    string
	Natives []string // nil means every registered native
	Color   bool
	REPL    REPLConfig
	Server  ServerConfig
}

type REPLConfig struct {
	Prompt  string
	History string
}

type ServerConfig struct {
	Addr         string
	Timeout      time.Duration
	MaxBodyBytes   int64
	MaxOutputBytes int64
}

// DefaultConfig is used when no config file is found.
func DefaultConfig() *Config {
	return &Config{
		Color: true,
		REPL: REPLConfig{
			Prompt:  "> ",
			History: defaultHistoryPath(),
		},
		Server: ServerConfig{
			Addr:         ":8080",
			Timeout:      5 * time.Second,
			MaxBodyBytes:   64 << 10,
			MaxOutputBytes: 1 << 20,
		},
	}
}

// ValidationError aggregates config validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "config: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("config validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

type configFile struct {
	Natives *stringList `yaml:"natives"`
	Color   *bool       `yaml:"color"`
	REPL    struct {
		Prompt  *string `yaml:"prompt"`
		History string  `yaml:"history"`
	} `yaml:"repl"`
	Server struct {
		Addr         string `yaml:"addr"`
		Timeout      string `yaml:"timeout"`
		MaxBodyBytes   *int64 `yaml:"max_body_bytes"`
		MaxOutputBytes *int64 `yaml:"max_output_bytes"`
	} `yaml:"server"`
}

// LoadConfig parses and validates a config file. Missing keys keep their
// DefaultConfig values; unknown keys are rejected.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "config: resolve %s", path)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, errors.Wrapf(err, "config: open %s", absPath)
	}
	defer file.Close()
	return decodeConfig(file, absPath)
}

func decodeConfig(r io.Reader, path string) (*Config, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var raw configFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			cfg := DefaultConfig()
			cfg.Path = path
			return cfg, nil
		}
		return nil, errors.Wrapf(err, "config: parse %s", path)
	}
	return raw.toConfig(path)
}

func (cf configFile) toConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.Path = path
	var errs ValidationError

	if cf.Natives != nil {
		cfg.Natives = make([]string, 0, len(*cf.Natives))
		for _, name := range *cf.Natives {
			if !interpreter.IsNative(name) {
				errs.Issues = append(errs.Issues, fmt.Sprintf("natives: unknown native %q (known: %s)", name, strings.Join(interpreter.NativeNames(), ", ")))
				continue
			}
			cfg.Natives = append(cfg.Natives, name)
		}
	}
	if cf.Color != nil {
		cfg.Color = *cf.Color
	}
	if cf.REPL.Prompt != nil {
		cfg.REPL.Prompt = *cf.REPL.Prompt
	}
	if h := strings.TrimSpace(cf.REPL.History); h != "" {
		cfg.REPL.History = expandHome(h)
	}
	if addr := strings.TrimSpace(cf.Server.Addr); addr != "" {
		cfg.Server.Addr = addr
	}
	if t := strings.TrimSpace(cf.Server.Timeout); t != "" {
		d, err := time.ParseDuration(t)
		switch {
		case err != nil:
			errs.Issues = append(errs.Issues, fmt.Sprintf("server.timeout: %v", err))
		case d <= 0:
			errs.Issues = append(errs.Issues, "server.timeout must be positive")
		default:
			cfg.Server.Timeout = d
		}
	}
	if cf.Server.MaxBodyBytes != nil {
		if *cf.Server.MaxBodyBytes <= 0 {
			errs.Issues = append(errs.Issues, "server.max_body_bytes must be positive")
		} else {
			cfg.Server.MaxBodyBytes = *cf.Server.MaxBodyBytes
		}
	}
	if cf.Server.MaxOutputBytes != nil {
		if *cf.Server.MaxOutputBytes <= 0 {
			errs.Issues = append(errs.Issues, "server.max_output_bytes must be positive")
		} else {
			cfg.Server.MaxOutputBytes = *cf.Server.MaxOutputBytes
		}
	}

	if len(errs.Issues) > 0 {
		return nil, &errs
	}
	return cfg, nil
}

// FindConfig walks from start up to the filesystem root looking for lox.yml.
func FindConfig(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", errors.Wrapf(err, "resolve start directory %q", start)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrConfigNotFound
		}
		dir = parent
	}
}

// ResolveConfig loads explicit if set, then $LOX_CONFIG, then the nearest
// lox.yml above start. With none of those it returns DefaultConfig.
func ResolveConfig(explicit, start string) (*Config, error) {
	if explicit != "" {
		return LoadConfig(explicit)
	}
	if env := strings.TrimSpace(os.Getenv(ConfigEnvVar)); env != "" {
		return LoadConfig(env)
	}
	path, err := FindConfig(start)
	if errors.Is(err, ErrConfigNotFound) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, err
	}
	return LoadConfig(path)
}

type stringList []string

func (l *stringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" || strings.TrimSpace(value.Value) == "" {
			*l = stringList{}
			return nil
		}
		*l = stringList{strings.TrimSpace(value.Value)}
		return nil
	case yaml.SequenceNode:
		items := make([]string, 0, len(value.Content))
		for _, node := range value.Content {
			var str string
			if err := node.Decode(&str); err != nil {
				return err
			}
			str = strings.TrimSpace(str)
			if str == "" {
				continue
			}
			items = append(items, str)
		}
		*l = stringList(items)
		return nil
	case yaml.AliasNode:
		return l.UnmarshalYAML(value.Alias)
	default:
		return fmt.Errorf("config: expected string or sequence for list but found %s", value.ShortTag())
	}
}

func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".lox_history")
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
