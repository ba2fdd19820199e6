// Package export renders normalized records in the supported output formats.
// JSON is always the canonical encoding from package output; YAML and TOML
// carry the same fields under the same keys.
package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"carnorm/internal/car"
	"carnorm/internal/errors"
	"carnorm/internal/output"
)

// Format is an output format name.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Formats lists the supported formats.
var Formats = []Format{FormatJSON, FormatYAML, FormatTOML}

// ParseFormat resolves a format name, case-insensitively. "yml" is accepted
// as an alias for yaml and the empty string selects JSON.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	}
	return "", errors.NewCarError(errors.UnsupportedFormat, fmt.Sprintf("unsupported format %q", s), nil).
		WithDetails(map[string]interface{}{"supported": Formats})
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatYAML:
		return "application/yaml"
	case FormatTOML:
		return "application/toml"
	default:
		return "application/json"
	}
}

// Options controls rendering.
type Options struct {
	Format Format
	// Indent pretty-prints JSON output; YAML and TOML are always indented.
	Indent bool
}

// Encode renders records in the requested format.
func Encode(records []car.Record, opts Options) ([]byte, error) {
	switch opts.Format {
	case FormatJSON, "":
		if opts.Indent {
			return output.EncodeRecordsIndented(records, "  ")
		}
		return output.EncodeRecords(records)
	case FormatYAML:
		return encodeYAML(records)
	case FormatTOML:
		return encodeTOML(records)
	}
	return nil, errors.NewCarError(errors.UnsupportedFormat, fmt.Sprintf("unsupported format %q", opts.Format), nil)
}

// recordView is the flat, tagged shape used by the YAML and TOML encoders.
type recordView struct {
	Name          string  `yaml:"name" toml:"name"`
	Efficiency    float64 `yaml:"efficiency" toml:"efficiency"`
	Displacement  *string `yaml:"displacement" toml:"displacement,omitempty"`
	Horsepower    uint8   `yaml:"horsepower" toml:"horsepower"`
	Weight        uint16  `yaml:"weight" toml:"weight"`
	CylinderCount int32   `yaml:"cylinder_count" toml:"cylinder_count"`
	ModelYear     *string `yaml:"model_year" toml:"model_year,omitempty"`
	Acceleration  int64   `yaml:"acceleration" toml:"acceleration"`
}

func viewOf(r car.Record) recordView {
	v := recordView{
		Name:          r.Name,
		Efficiency:    r.Efficiency,
		Displacement:  r.Displacement,
		Horsepower:    r.Horsepower,
		Weight:        r.Weight,
		CylinderCount: r.CylinderCount,
		Acceleration:  r.Acceleration,
	}
	if r.ModelYear.Present() {
		y := r.ModelYear.String()
		v.ModelYear = &y
	}
	return v
}

func views(records []car.Record) []recordView {
	out := make([]recordView, len(records))
	for i, r := range records {
		out[i] = viewOf(r)
	}
	return out
}

func encodeYAML(records []car.Record) ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(views(records)); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	return buf.Bytes(), nil
}

// tomlDocument wraps the records because a TOML document must be a table.
type tomlDocument struct {
	Cars []recordView `toml:"cars"`
}

func encodeTOML(records []car.Record) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(tomlDocument{Cars: views(records)}); err != nil {
		return nil, fmt.Errorf("failed to encode TOML: %w", err)
	}
	return buf.Bytes(), nil
}
