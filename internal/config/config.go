// Package config loads generation settings from an optional CUE file,
// validated against an embedded schema that supplies every default.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

//go:embed schema.cue
var schemaCUE string

// Error codes for configuration failures.
const (
	ErrCodeNotFound    = "E005" // Config file not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeInvalid     = "E201" // Value violates the schema
)

// Config is a complete set of generation settings.
type Config struct {
	Count             int      `json:"count"`
	QuestionsPerGraph int      `json:"questions_per_graph"`
	OmitGraph         bool     `json:"omit_graph"`
	IntNames          bool     `json:"int_names"`
	TypePrefixes      []string `json:"type_prefixes"`
	Preset            string   `json:"preset"`
	Interchange       float64  `json:"interchange"`
	Cypher            bool     `json:"cypher"`
	Seed              int64    `json:"seed"` // 0 seeds from the clock
	PathLimit         int      `json:"path_limit"`
	Out               string   `json:"out"`
	DB                string   `json:"db"`
	MetricsOut        string   `json:"metrics_out"`
	Name              string   `json:"name"` // prefix of the default output file name
}

// LoadError is a configuration failure, positioned when CUE knows where.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Defaults returns the schema defaults.
func Defaults() Config {
	cfg, err := decode(nil, "")
	if err != nil {
		panic("config: embedded schema: " + err.Error())
	}
	return cfg
}

// Load reads path and fills unset fields from the schema defaults.
// An empty path yields Defaults().
func Load(path string) (Config, error) {
	if path == "" {
		return Defaults(), nil
	}
	src, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Config{}, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("config file not found: %s", path)}
	}
	if err != nil {
		return Config{}, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("reading config file: %v", err)}
	}
	return decode(src, path)
}

// Parse is Load for in-memory source.
func Parse(src []byte, filename string) (Config, error) {
	return decode(src, filename)
}

func decode(src []byte, filename string) (Config, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return Config{}, loadError(ErrCodeBuildFailed, err)
	}
	value := schema.LookupPath(cue.ParsePath("#Config"))

	if src != nil {
		user := ctx.CompileBytes(src, cue.Filename(filename))
		if err := user.Err(); err != nil {
			return Config{}, loadError(ErrCodeBuildFailed, err)
		}
		value = value.Unify(user)
	}

	if err := value.Validate(cue.Concrete(true)); err != nil {
		return Config{}, loadError(ErrCodeInvalid, err)
	}

	var cfg Config
	if err := value.Decode(&cfg); err != nil {
		return Config{}, loadError(ErrCodeInvalid, err)
	}
	return cfg, nil
}

func loadError(code string, err error) *LoadError {
	le := &LoadError{Code: code, Message: err.Error()}
	if errs := cueerrors.Errors(err); len(errs) > 0 {
		le.Message = errs[0].Error()
		le.Pos = errs[0].Position()
	}
	return le
}
