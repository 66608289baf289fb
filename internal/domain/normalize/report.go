package normalize

import "fmt"

// Report is the ordered list of advisory data-quality messages produced
// alongside a canonical table. Entries are informational: they never block
// output production, and callers decide whether any of them is fatal.
type Report struct {
	Errors []string `json:"validation_errors"`
}

func newReport() Report {
	return Report{Errors: []string{}}
}

// add appends a message tagged with the table name.
func (r *Report) add(table, message string) {
	r.Errors = append(r.Errors, fmt.Sprintf("[%s] %s", table, message))
}

// HasErrors reports whether the report carries any messages.
func (r *Report) HasErrors() bool {
	return len(r.Errors) > 0
}

// ColumnRule declares whether a canonical field must be present in the
// aliased table.
type ColumnRule struct {
	Name     string
	Required bool
}

// requireColumns appends one error per required rule whose field is absent
// from cols. Pipelines run this after missing required fields were already
// synthesized as null columns, so it can only fire for a field absent from
// both the input and the synthesis step; the check is kept in the pipeline
// order the contract documents rather than moved ahead of synthesis.
func requireColumns(r *Report, cols map[string]struct{}, rules []ColumnRule, table string) {
	for _, rule := range rules {
		if !rule.Required {
			continue
		}
		if _, ok := cols[rule.Name]; !ok {
			r.add(table, "Missing required column: "+rule.Name)
		}
	}
}
