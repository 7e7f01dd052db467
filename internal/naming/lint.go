package naming

// Severity ranks a lint finding.
type Severity int

const (
	// SeverityError marks a name that would be rejected by callers.
	SeverityError Severity = iota

	// SeverityWarning marks a valid name that breaks a style limit.
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Finding is a problem with one declared name.
type Finding struct {
	Name     string
	Subject  Subject
	Severity Severity
	Message  string
}

// Report lists the names declared in one source and their findings.
type Report struct {
	Operations []string
	Fields     []string
	Findings   []Finding
}

// Errors counts findings of SeverityError.
func (r Report) Errors() int {
	n := 0
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			n++
		}
	}
	return n
}

// Lint extracts the operation and field names declared in src and checks
// each against the name grammar.
func (e *Extractor) Lint(src string) Report {
	r := Report{
		Operations: e.OperationNames(src),
		Fields:     e.FieldNames(src),
	}

	for _, name := range r.Operations {
		if err := ValidateOperationName(name); err != nil {
			r.Findings = append(r.Findings, errorFinding(name, SubjectOperation, err))
		}
	}

	for _, name := range r.Fields {
		if err := ValidateFieldName(name); err != nil {
			r.Findings = append(r.Findings, errorFinding(name, SubjectField, err))
			continue
		}
		if msg, long := FieldNameWarning(name); long {
			r.Findings = append(r.Findings, Finding{
				Name:     name,
				Subject:  SubjectField,
				Severity: SeverityWarning,
				Message:  msg,
			})
		}
	}

	return r
}

func errorFinding(name string, subject Subject, err error) Finding {
	return Finding{Name: name, Subject: subject, Severity: SeverityError, Message: err.Error()}
}
