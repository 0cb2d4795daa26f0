package install

// OutcomeKind says how a response should be produced.
type OutcomeKind int

const (
	// Redirect sends the visitor to Location with a 303.
	Redirect OutcomeKind = iota + 1
	// Render renders Template with Fields.
	Render
	// ErrorPage renders Message and Details on the error template.
	ErrorPage
)

// Template names.
const (
	TemplateInstall = "install"
	TemplateError   = "error"
)

// Outcome is the response to an install request.
type Outcome struct {
	Kind     OutcomeKind
	Location string
	Template string
	Fields   map[string]any
	Message  string
	Details  []string
}

// RedirectTo returns a redirect outcome.
func RedirectTo(location string) Outcome {
	return Outcome{Kind: Redirect, Location: location}
}

// RenderTemplate returns a render outcome.
func RenderTemplate(name string, fields map[string]any) Outcome {
	return Outcome{Kind: Render, Template: name, Fields: fields}
}

// ErrorOutcome turns an install error into an error page.
func ErrorOutcome(err *Error) Outcome {
	return Outcome{
		Kind:     ErrorPage,
		Template: TemplateError,
		Message:  err.Message,
		Details:  err.Details,
	}
}
