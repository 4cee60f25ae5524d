package main

import (
	"fmt"
	"os"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/render"
	"github.com/goliatone/go-formkit/pkg/renderers/tui"
	"github.com/goliatone/go-formkit/pkg/renderers/vanilla"
)

func renderCmd(a *app) *cobra.Command {
	var (
		format     string
		valuesPath string
		action     string
		method     string
		showErrors bool
		styles     bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the form as HTML or text",
		Long: `Render the form once and write it to stdout.

Formats:
  html    HTML fragment (default)
  json    values as JSON
  form    values as application/x-www-form-urlencoded
  pretty  values, visible errors and status as text

Examples:
  formkit render
  formkit render --format pretty --values values.json --show-errors`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, stop, err := a.newStore()
			if err != nil {
				return err
			}
			defer stop()

			if valuesPath != "" {
				if err := applyValuesFile(store, valuesPath); err != nil {
					return err
				}
			}

			var vanillaOpts []vanilla.Option
			if styles {
				vanillaOpts = append(vanillaOpts, vanilla.WithDefaultStyles())
			}
			html, err := vanilla.New(vanillaOpts...)
			if err != nil {
				return err
			}

			name := html.Name()
			tuiOpts := []tui.Option{tui.WithLogger(a.logger)}
			if format != "html" {
				outputFormat, ok := tui.ParseOutputFormat(format)
				if !ok {
					return fmt.Errorf("unknown format %q", format)
				}
				tuiOpts = append(tuiOpts, tui.WithOutputFormat(outputFormat))
				name = "tui"
			}
			registry := render.NewRegistry(html, tui.New(tuiOpts...))

			view := render.ViewFromStore(store, render.RenderOptions{
				Action:        action,
				Method:        method,
				ShowAllErrors: showErrors,
				Hidden:        render.MergeHiddenFields(nil, render.SubmissionField(store.Form().ID)),
			})
			out, err := registry.Render(cmd.Context(), name, view)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "html", "Output format (html, json, form, pretty)")
	cmd.Flags().StringVar(&valuesPath, "values", "", "JSON file with values to prefill")
	cmd.Flags().StringVar(&action, "action", "", "Form action URL")
	cmd.Flags().StringVar(&method, "method", "POST", "Form method")
	cmd.Flags().BoolVar(&showErrors, "show-errors", false, "Show errors for untouched fields")
	cmd.Flags().BoolVar(&styles, "styles", false, "Inline the default stylesheet")

	return cmd
}

// applyValuesFile sets every value in a JSON object file; all of them or none
// are applied.
func applyValuesFile(store *form.Store, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read values: %w", err)
	}
	values := map[string]any{}
	if err := sonic.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("parse values %s: %w", path, err)
	}
	if err := store.SetValues(values); err != nil {
		return err
	}
	for name := range values {
		if err := store.Touch(name); err != nil {
			return err
		}
	}
	return nil
}
