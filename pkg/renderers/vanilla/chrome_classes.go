package vanilla

// ChromeClass is a typed identifier for semantic chrome CSS classes.
type ChromeClass string

const (
	ClassForm    ChromeClass = "formkit-form"
	ClassHeader  ChromeClass = "formkit-header"
	ClassField   ChromeClass = "formkit-field"
	ClassHelp    ChromeClass = "formkit-help"
	ClassError   ChromeClass = "formkit-error"
	ClassActions ChromeClass = "formkit-actions"
	ClassBusy    ChromeClass = "formkit-busy"
)

func chromeClasses() map[string]any {
	return map[string]any{
		"form":    string(ClassForm),
		"header":  string(ClassHeader),
		"field":   string(ClassField),
		"help":    string(ClassHelp),
		"error":   string(ClassError),
		"actions": string(ClassActions),
		"busy":    string(ClassBusy),
	}
}
