package reshape

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// TableFormat is the encoding of an alias table file.
type TableFormat string

const (
	// TableYAML is a YAML document.
	TableYAML TableFormat = "yaml"

	// TableJSON is JSON, optionally with comments and trailing commas.
	TableJSON TableFormat = "json"
)

// tableFile is the on-disk shape of an alias table:
//
//	aliases:
//	  BASE64: base64
//	  Envelope: soap
type tableFile struct {
	Aliases map[string]string `yaml:"aliases" json:"aliases"`
}

// LoadTable reads an alias table from path. The format follows the file
// extension: .yaml/.yml for YAML, .json/.jsonc for JSON with comments.
func LoadTable(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read alias table: %w", err)
	}

	var format TableFormat
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = TableYAML
	case ".json", ".jsonc":
		format = TableJSON
	default:
		return nil, fmt.Errorf("%w: alias table %s: unsupported extension", ErrConfig, path)
	}

	table, err := ParseTable(data, format)
	if err != nil {
		return nil, fmt.Errorf("alias table %s: %w", path, err)
	}
	return table, nil
}

// ParseTable decodes an alias table document.
func ParseTable(data []byte, format TableFormat) (Table, error) {
	var file tableFile
	switch format {
	case TableYAML:
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("%w: parse yaml: %w", ErrConfig, err)
		}
	case TableJSON:
		if err := json.Unmarshal(jsonc.ToJSON(data), &file); err != nil {
			return nil, fmt.Errorf("%w: parse json: %w", ErrConfig, err)
		}
	default:
		return nil, fmt.Errorf("%w: unknown table format %q", ErrConfig, format)
	}

	table := make(Table, len(file.Aliases))
	for alias, id := range file.Aliases {
		table[strings.TrimSpace(alias)] = strings.TrimSpace(id)
	}
	return table, nil
}

// Settings are the process-wide knobs read from the environment.
type Settings struct {
	// SpillThreshold is the in-memory limit of deferred-size buffers, in
	// bytes. Zero selects DefaultSpillThreshold.
	SpillThreshold int64 `env:"RESHAPE_SPILL_THRESHOLD" envDefault:"4194304"`

	// SpillDir is where spill files are created. Empty means os.TempDir().
	SpillDir string `env:"RESHAPE_SPILL_DIR"`

	// TablePath is an alias table file replacing the built-in table.
	TablePath string `env:"RESHAPE_TABLE"`
}

// LoadSettings reads Settings from the environment.
func LoadSettings() (Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return Settings{}, fmt.Errorf("%w: parse env: %w", ErrConfig, err)
	}
	if s.SpillThreshold < 0 {
		return Settings{}, errors.Join(ErrConfig, fmt.Errorf("RESHAPE_SPILL_THRESHOLD must not be negative, got %d", s.SpillThreshold))
	}
	return s, nil
}

// SpillOptions returns the spill buffer options the settings describe.
func (s Settings) SpillOptions() []SpillOption {
	var opts []SpillOption
	if s.SpillThreshold > 0 {
		opts = append(opts, WithSpillThreshold(s.SpillThreshold))
	}
	if s.SpillDir != "" {
		opts = append(opts, WithSpillDir(s.SpillDir))
	}
	return opts
}
