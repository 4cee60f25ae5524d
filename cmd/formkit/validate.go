package main

import (
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
)

func validateCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "validate <values.json>",
		Short: "Validate a set of values against the form",
		Long: `Apply the values in a JSON object file to the form and report every
validation error. Exits with status 1 when any field is invalid.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, stop, err := a.newStore()
			if err != nil {
				return err
			}
			defer stop()

			if err := applyValuesFile(store, args[0]); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			errs := store.Errors()
			if asJSON {
				encoded, err := sonic.ConfigStd.Marshal(errs)
				if err != nil {
					return fmt.Errorf("encode errors: %w", err)
				}
				fmt.Fprintln(out, string(encoded))
			} else if errs.Empty() {
				success(out, "%s is valid", args[0])
			} else {
				for _, name := range errs.Fields() {
					fmt.Fprintf(out, "%s: %s\n", name, errs[name])
				}
			}

			if !errs.Empty() {
				return errInvalid
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print errors as a JSON object")

	return cmd
}
