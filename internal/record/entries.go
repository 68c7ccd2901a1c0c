package record

import (
	"strings"

	"github.com/youruser/casecard/internal/layout"
)

// Entry is one visible field row.
type Entry struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value string `json:"value"`
	// Placeholder is set when Value is the field's placeholder text.
	Placeholder bool `json:"placeholder,omitempty"`
}

// Entries returns the visible rows for fields in order. Absent values are
// skipped unless the field has a placeholder; extras are appended only when
// their own value is present.
func Entries(fields []layout.Field, values map[string]string) []Entry {
	var out []Entry
	for _, f := range fields {
		v := strings.TrimSpace(values[f.Key])
		if v == "" {
			if f.Placeholder == "" {
				continue
			}
			out = append(out, Entry{Key: f.Key, Label: f.Label, Value: f.Placeholder, Placeholder: true})
			continue
		}
		v = FormatValue(f.Format, v)
		for _, e := range f.Extras {
			if ev := strings.TrimSpace(values[e.Key]); ev != "" {
				v += strings.ReplaceAll(e.Template, "{value}", ev)
			}
		}
		out = append(out, Entry{Key: f.Key, Label: f.Label, Value: v})
	}
	return out
}
