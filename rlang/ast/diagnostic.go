package ast

type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	}
	return "unknown"
}

// Diagnostic is a parse problem keyed by the range it was found at.
// Parse failures never surface as Go errors; they ride on the tree.
type Diagnostic struct {
	Range    TextRange
	Severity Severity
	Message  string
}
