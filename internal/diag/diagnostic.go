package diag

// Note attaches secondary context to a diagnostic, e.g. the other record of
// an interval overlap.
type Note struct {
	Span Span
	Msg  string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	// Subject names the token the finding is about, e.g. "token 0xBB31".
	// Empty for sheet-level findings.
	Subject string
	// Span locates the subject in the sheet document when known.
	Span  Span
	Notes []Note
}

func New(sev Severity, code Code, subject string, span Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Subject:  subject,
		Span:     span,
		Message:  msg,
	}
}

func NewError(code Code, subject string, span Span, msg string) Diagnostic {
	return New(SevError, code, subject, span, msg)
}

func (d Diagnostic) WithNote(sp Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}
