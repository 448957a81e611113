package cliutil

import (
	"fmt"
	"io"
	"text/template"

	"github.com/wandb/simplejsonext"
	"gopkg.in/yaml.v3"

	"github.com/tbviz/histograms/internal/histogram"
	"github.com/tbviz/histograms/internal/settings"
	"github.com/tbviz/histograms/internal/tbwire"
)

// Output selects how results are written.
type Output struct {
	// Format is settings.FormatJSON or settings.FormatYAML.
	Format string

	// Template, if set, is a Go template executed on the result instead
	// of encoding it.
	Template string
}

// OutputFrom returns the output options in s.
func OutputFrom(s *settings.Settings) Output {
	return Output{Format: s.Format, Template: s.Template}
}

// WriteHistograms writes a normalized series.
//
// JSON output may contain NaN and Infinity literals.
func (o Output) WriteHistograms(w io.Writer, histograms []histogram.Histogram) error {
	if o.Template != "" {
		return o.execute(w, histograms)
	}

	var output []byte
	var err error

	switch o.Format {
	case settings.FormatYAML:
		output, err = yaml.Marshal(histograms)
		if err != nil {
			return fmt.Errorf("failed to marshal to YAML: %w", err)
		}
	default:
		output, err = tbwire.Encode(histograms)
		if err != nil {
			return fmt.Errorf("failed to marshal to JSON: %w", err)
		}
	}

	_, err = fmt.Fprintln(w, string(output))
	return err
}

// WriteValue writes a generic JSON-like value, such as a map of strings.
func (o Output) WriteValue(w io.Writer, value map[string]any) error {
	if o.Template != "" {
		return o.execute(w, value)
	}

	var output []byte
	var err error

	switch o.Format {
	case settings.FormatYAML:
		output, err = yaml.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to marshal to YAML: %w", err)
		}
	default:
		output, err = simplejsonext.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to marshal to JSON: %w", err)
		}
	}

	_, err = fmt.Fprintln(w, string(output))
	return err
}

func (o Output) execute(w io.Writer, data any) error {
	tmpl, err := template.New("output").Parse(o.Template)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	_, err = fmt.Fprintln(w)
	return err
}
