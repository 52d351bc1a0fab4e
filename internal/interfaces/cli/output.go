package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	documentapp "github.com/lenses/backend/internal/application/document"
	"github.com/lenses/backend/internal/domain/document"
	"gopkg.in/yaml.v3"
)

type encoder func(io.Writer, *documentapp.AssembleResponse) error

var encoders = map[string]encoder{
	"json": writeJSON,
	"yaml": writeYAML,
	"yml":  writeYAML,
	"text": writeText,
}

func writeJSON(w io.Writer, doc *documentapp.AssembleResponse) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// writeYAML emits the same shape as the JSON wire form
func writeYAML(w io.Writer, doc *documentapp.AssembleResponse) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return err
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return err
	}
	return enc.Close()
}

// writeText prints the document for a terminal
func writeText(w io.Writer, doc *documentapp.AssembleResponse) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n", doc.Title, strings.Repeat("=", len([]rune(doc.Title))))

	for _, s := range doc.Sections {
		b.WriteByte('\n')
		switch s.Type {
		case document.SectionHeading:
			fmt.Fprintf(&b, "%s\n%s\n", s.Text, strings.Repeat("-", len([]rune(s.Text))))
		case document.SectionText:
			b.WriteString(s.Text + "\n")
		case document.SectionList:
			for _, item := range s.Items {
				fmt.Fprintf(&b, "  - %s\n", item)
			}
		case document.SectionMeta:
			tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
			for _, f := range s.Fields {
				fmt.Fprintf(tw, "%s:\t%s\n", f.Label, f.Value)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
		case document.SectionTable:
			tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, strings.Join(s.Headers, "\t"))
			for _, row := range s.Rows {
				fmt.Fprintln(tw, strings.Join(row, "\t"))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
