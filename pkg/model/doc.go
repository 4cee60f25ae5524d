// Package model defines the typed form model shared by the store, the
// validation engine and the renderers. A FormModel is an explicit mapping from
// field name to control kind, adapter chain and validation rules; renderers
// iterate it in declaration order instead of relying on implicit bindings.
// Validation rules keep canonical identifiers (required, email, pattern,
// minLength/maxLength, oneOf) with string parameters so definitions stay
// deterministic when serialised. The curated UIHints map carries
// renderer-facing directives such as `control`, `inputType`, `autocomplete`
// or `class`.
//
// Values is the immutable snapshot type handed to observers and submit
// actions. Each value is a string, a bool or a []string depending on the
// field's control kind.
package model
