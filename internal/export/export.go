package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"mm1calc/internal/analysis"
)

// Format selects the encoding of a full report.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", s)
}

// WriteTableCSV writes the probability table.
// Schema: n,p,cumulative
func WriteTableCSV(w io.Writer, r *analysis.Report) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"n", "p", "cumulative"}); err != nil {
		return err
	}
	for _, e := range r.Table {
		record := []string{
			strconv.Itoa(e.N),
			strconv.FormatFloat(e.P, 'f', 10, 64),
			strconv.FormatFloat(e.Cumulative, 'f', 10, 64),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func WriteJSON(w io.Writer, r *analysis.Report) error {
	return EncodeJSON(w, r)
}

func WriteYAML(w io.Writer, r *analysis.Report) error {
	return EncodeYAML(w, r)
}

// EncodeJSON writes v as indented JSON.
func EncodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func EncodeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// ExportCSV writes the probability table to filename.
func ExportCSV(r *analysis.Report, filename string) error {
	return writeFile(filename, func(w io.Writer) error { return WriteTableCSV(w, r) })
}

// ExportJSON writes the full report to filename.
func ExportJSON(r *analysis.Report, filename string) error {
	return writeFile(filename, func(w io.Writer) error { return WriteJSON(w, r) })
}

func ExportYAML(r *analysis.Report, filename string) error {
	return writeFile(filename, func(w io.Writer) error { return WriteYAML(w, r) })
}

// ExportAll writes prefix.csv, prefix.json and prefix.yaml.
func ExportAll(r *analysis.Report, prefix string) error {
	if err := ExportCSV(r, prefix+".csv"); err != nil {
		return err
	}
	if err := ExportJSON(r, prefix+".json"); err != nil {
		return err
	}
	return ExportYAML(r, prefix+".yaml")
}

func writeFile(filename string, write func(io.Writer) error) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return f.Close()
}
