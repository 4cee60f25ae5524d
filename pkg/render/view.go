package render

import (
	"strings"

	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/model"
)

// View is everything a presenter needs to draw the form at one point in
// time.
type View struct {
	Form          model.FormModel
	Values        model.Values
	Errors        model.FormErrors
	VisibleErrors model.FormErrors
	Status        form.Status
	Busy          bool
	SubmitCount   int
	Action        string
	Method        string
	Hidden        []HiddenField
}

// ViewFromSnapshot assembles a View from a store snapshot.
func ViewFromSnapshot(def model.FormModel, snap form.Snapshot, opts RenderOptions) View {
	visible := snap.VisibleErrors
	if opts.ShowAllErrors {
		visible = snap.Errors
	}
	method := strings.ToUpper(strings.TrimSpace(opts.Method))
	if method == "" {
		method = "POST"
	}
	return View{
		Form:          def,
		Values:        snap.Values,
		Errors:        snap.Errors.Clone(),
		VisibleErrors: visible.Clone(),
		Status:        snap.Status,
		Busy:          snap.Status == form.StatusInFlight,
		SubmitCount:   snap.SubmitCount,
		Action:        strings.TrimSpace(opts.Action),
		Method:        method,
		Hidden:        SortedHiddenFields(opts.Hidden),
	}
}

// ViewFromStore snapshots store and builds its View.
func ViewFromStore(store *form.Store, opts RenderOptions) View {
	return ViewFromSnapshot(store.Form(), store.Snapshot(), opts)
}

// FieldError returns the visible error for a field, if any.
func (v View) FieldError(name string) string {
	return v.VisibleErrors[name]
}

// SubmitDisabled reports whether the submit control should be inert.
func (v View) SubmitDisabled() bool {
	return v.Busy
}

// SubmitLabel falls back to "Submit".
func (v View) SubmitLabel() string {
	if label := strings.TrimSpace(v.Form.SubmitLabel); label != "" {
		return label
	}
	return "Submit"
}
