package definition

import (
	"embed"
	"io/fs"

	"github.com/goliatone/go-formkit/pkg/model"
)

//go:embed forms/*.yaml
var embeddedForms embed.FS

// DemoID is the id of the bundled demo form.
const DemoID = "demo"

// EmbeddedFS returns the bundled form definitions. Callers may pass it to
// LoadFS.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embeddedForms, "forms")
	if err != nil {
		panic(err)
	}
	return sub
}

// Demo loads the bundled demo form: email with an uppercase adapter and email
// rule, password, a range select, a tags multiselect and a remember-me toggle.
func Demo(opts ...Option) (model.FormModel, error) {
	data, err := fs.ReadFile(EmbeddedFS(), "demo.yaml")
	if err != nil {
		return model.FormModel{}, err
	}
	return Load(data, "demo.yaml", opts...)
}
