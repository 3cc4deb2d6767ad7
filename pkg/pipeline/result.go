package pipeline

// Severity classifies an Issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue codes. Structural errors abort the whole compilation; the rest are
// either fatal at a later stage (compile, serialize, internal) or advisory.
const (
	CodeStructural = "structural"
	CodeCompile    = "compile"
	CodeSerialize  = "serialize"
	CodeInternal   = "internal"
	CodeLanguage   = "language"
)

// Issue is one structured finding from a compilation run. Field names the
// offending field or sheet location when one can be identified.
type Issue struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Field    string   `json:"field,omitempty"`
	Message  string   `json:"message"`
}

// Metadata identifies the compiled form.
type Metadata struct {
	FormID          string `json:"form_id"`
	Title           string `json:"title"`
	Version         string `json:"version"`
	DefaultLanguage string `json:"default_language,omitempty"`
}

// Result is the single value a compilation returns. On success XFormXML holds
// the serialized artifact and Warnings any advisory findings; on failure
// Errors holds at least one fatal issue and no XML is produced.
type Result struct {
	Success  bool     `json:"success"`
	Metadata Metadata `json:"form_metadata"`
	XFormXML string   `json:"xform_xml,omitempty"`
	Errors   []Issue  `json:"errors,omitempty"`
	Warnings []Issue  `json:"warnings,omitempty"`
}

func failure(issues ...Issue) Result {
	return Result{Success: false, Errors: issues}
}

func failureAll(issues []Issue) Result {
	var errs, warns []Issue
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			errs = append(errs, issue)
		} else {
			warns = append(warns, issue)
		}
	}
	return Result{Success: false, Errors: errs, Warnings: warns}
}

func hasErrors(issues []Issue) bool {
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}
