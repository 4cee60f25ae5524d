package tui

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/render"
)

const (
	// MessageSubmitting is printed when a submission goes in flight.
	MessageSubmitting = "Submitting..."
	// MessageSubmitted is printed when the submission completes.
	MessageSubmitted = "Submitted."
)

// Renderer drives a form from a terminal. Render serializes a view without
// prompting; Run walks the fields interactively and submits through a
// controller.
type Renderer struct {
	driver       PromptDriver
	outputFormat OutputFormat
	theme        Theme
	logger       *zap.SugaredLogger

	mu         sync.Mutex
	lastStatus form.Status
}

var (
	_ render.Renderer  = (*Renderer)(nil)
	_ render.Presenter = (*Renderer)(nil)
)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) *Renderer {
	r := &Renderer{
		driver:       NewSurveyDriver(),
		outputFormat: OutputFormatJSON,
		theme:        DefaultTheme,
		logger:       zap.NewNop().Sugar(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Render serializes the view's values in the configured format. The pretty
// format also lists visible errors and the busy indicator.
func (r *Renderer) Render(ctx context.Context, view render.View) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(flattenForm(view.Form, view.Values)), nil
	case OutputFormatPrettyText:
		return []byte(r.prettyPrint(view)), nil
	default:
		out, err := view.Values.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("tui: encode values: %w", err)
		}
		return out, nil
	}
}

// Present prints a line whenever the submission status changes to in flight
// or completed.
func (r *Renderer) Present(ctx context.Context, view render.View) error {
	r.mu.Lock()
	changed := view.Status != r.lastStatus
	r.lastStatus = view.Status
	r.mu.Unlock()
	if !changed {
		return nil
	}

	switch view.Status {
	case form.StatusInFlight:
		return r.driver.Info(ctx, r.theme.InfoPrefix+MessageSubmitting)
	case form.StatusCompleted:
		return r.driver.Info(ctx, r.theme.InfoPrefix+MessageSubmitted)
	default:
		return nil
	}
}

// Run prompts for every field, asks for confirmation and submits. Rejected
// submissions show their errors and prompt again for the failing fields. Run
// returns once the accepted submission has an outcome.
func (r *Renderer) Run(ctx context.Context, ctrl *form.Controller) (form.Outcome, error) {
	store := ctrl.Store()
	def := store.Form()

	unbind := render.Bind(ctx, store, r,
		render.WithoutInitialPresent(),
		render.WithErrorHandler(func(err error) {
			r.logger.Warnw("tui present failed", "form", def.ID, "error", err)
		}),
	)
	defer unbind()

	if title := strings.TrimSpace(def.Title); title != "" {
		if err := r.driver.Info(ctx, r.theme.PromptPrefix+title); err != nil {
			return form.Outcome{}, err
		}
	}

	fields := def.Fields
	for {
		for _, field := range fields {
			if err := r.promptField(ctx, store, field); err != nil {
				return form.Outcome{}, err
			}
		}

		view := render.ViewFromStore(store, render.RenderOptions{})
		ok, err := r.driver.Confirm(ctx, ConfirmConfig{Message: view.SubmitLabel() + "?", Default: true})
		if err != nil {
			return form.Outcome{}, err
		}
		if !ok {
			return form.Outcome{}, ErrDeclined
		}

		result := ctrl.Submit(ctx)
		switch result.Status {
		case form.SubmitAccepted:
			select {
			case outcome := <-result.Done:
				return outcome, nil
			case <-ctx.Done():
				return form.Outcome{}, ctx.Err()
			}
		case form.SubmitRejected:
			fields = fields[:0:0]
			for _, field := range def.Fields {
				msg, bad := result.Errors[field.Name]
				if !bad {
					continue
				}
				r.info(ctx, r.theme.ErrorPrefix+fmt.Sprintf("Invalid %s: %s", field.DisplayLabel(), msg))
				fields = append(fields, field)
			}
		default:
			return form.Outcome{}, errors.New("tui: a submission is already in flight")
		}
	}
}

func (r *Renderer) promptField(ctx context.Context, store *form.Store, field model.Field) error {
	label := field.DisplayLabel()
	for {
		current, _ := store.Values().Get(field.Name)
		raw, err := r.ask(ctx, field, current)
		if err != nil {
			return err
		}
		if err := store.SetValue(field.Name, raw); err != nil {
			r.info(ctx, r.theme.ErrorPrefix+fmt.Sprintf("Invalid %s: %v", label, err))
			continue
		}
		if err := store.Touch(field.Name); err != nil {
			return err
		}
		if msg, bad := store.Errors()[field.Name]; bad {
			r.info(ctx, r.theme.ErrorPrefix+fmt.Sprintf("Invalid %s: %s", label, msg))
			continue
		}
		return nil
	}
}

func (r *Renderer) ask(ctx context.Context, field model.Field, current any) (any, error) {
	message := r.theme.PromptPrefix + field.DisplayLabel()
	help := strings.TrimSpace(field.HelpText)

	switch field.Control {
	case model.ControlPassword:
		s, _ := current.(string)
		return r.driver.Password(ctx, InputConfig{Message: message, Default: s, Help: help})
	case model.ControlToggle:
		b, _ := current.(bool)
		return r.driver.Confirm(ctx, ConfirmConfig{Message: message, Default: b, Help: help})
	case model.ControlSelect:
		s, _ := current.(string)
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      message,
			Options:      optionLabels(field.Options),
			DefaultIndex: optionIndex(field.Options, s),
			Help:         help,
		})
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= len(field.Options) {
			return "", nil
		}
		return field.Options[idx].Value, nil
	case model.ControlMultiSelect:
		set, _ := current.([]string)
		indices, err := r.driver.MultiSelect(ctx, SelectConfig{
			Message:  message,
			Options:  optionLabels(field.Options),
			Defaults: optionIndices(field.Options, set),
			Help:     help,
		})
		if err != nil {
			return nil, err
		}
		out := make([]string, 0, len(indices))
		for _, idx := range indices {
			if idx >= 0 && idx < len(field.Options) {
				out = append(out, field.Options[idx].Value)
			}
		}
		return out, nil
	default:
		s, _ := current.(string)
		return r.driver.Input(ctx, InputConfig{Message: message, Default: s, Help: help})
	}
}

func (r *Renderer) info(ctx context.Context, msg string) {
	if err := r.driver.Info(ctx, msg); err != nil {
		r.logger.Debugw("tui info failed", "error", err)
	}
}

func (r *Renderer) prettyPrint(view render.View) string {
	var b strings.Builder
	for _, field := range view.Form.Fields {
		value, ok := view.Values.Get(field.Name)
		if !ok {
			continue
		}
		switch v := value.(type) {
		case []string:
			for idx, item := range v {
				fmt.Fprintf(&b, "%s[%d]=%s\n", field.Name, idx, item)
			}
		default:
			fmt.Fprintf(&b, "%s=%v\n", field.Name, v)
		}
	}
	for _, name := range view.VisibleErrors.Fields() {
		fmt.Fprintf(&b, "%s%s: %s\n", r.theme.ErrorPrefix, name, view.VisibleErrors[name])
	}
	if view.Busy {
		b.WriteString(r.theme.InfoPrefix + MessageSubmitting + "\n")
	}
	return b.String()
}

// flattenForm encodes values as form fields; sets repeat under "name[]".
func flattenForm(def model.FormModel, values model.Values) string {
	out := url.Values{}
	for _, field := range def.Fields {
		value, ok := values.Get(field.Name)
		if !ok {
			continue
		}
		switch v := value.(type) {
		case []string:
			for _, item := range v {
				out.Add(field.Name+"[]", item)
			}
		case bool:
			out.Set(field.Name, strconv.FormatBool(v))
		default:
			out.Set(field.Name, fmt.Sprint(v))
		}
	}
	return out.Encode()
}

func optionLabels(options []model.Option) []string {
	out := make([]string, 0, len(options))
	for _, opt := range options {
		out = append(out, opt.DisplayLabel())
	}
	return out
}

func optionIndex(options []model.Option, value string) int {
	for idx, opt := range options {
		if opt.Value == value {
			return idx
		}
	}
	return -1
}

func optionIndices(options []model.Option, values []string) []int {
	var out []int
	for _, value := range values {
		if idx := optionIndex(options, value); idx >= 0 {
			out = append(out, idx)
		}
	}
	return out
}
