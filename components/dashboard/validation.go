package dashboard

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ConfigValidator validates widget configuration payloads against their schema.
type ConfigValidator interface {
	Validate(def WidgetDefinition, config map[string]any) error
}

// ConfigError reports a configuration rejected by a widget schema. Fields
// maps instance locations such as "/limit" to the failing rule.
type ConfigError struct {
	Widget WidgetType
	Fields map[string]string
	Err    error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%v: %s: %v", ErrInvalidConfiguration, e.Widget, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

func (e *ConfigError) Is(target error) bool { return target == ErrInvalidConfiguration }

// JSONSchemaValidator compiles widget schemas once per schema revision and
// validates configuration maps against them.
type JSONSchemaValidator struct {
	mu       sync.RWMutex
	compiled map[string]*jsonschema.Schema
}

// NewJSONSchemaValidator builds a validator backed by jsonschema v5.
func NewJSONSchemaValidator() *JSONSchemaValidator {
	return &JSONSchemaValidator{
		compiled: make(map[string]*jsonschema.Schema),
	}
}

// Validate ensures the configuration satisfies the widget schema. Failures
// wrap ErrInvalidConfiguration.
func (v *JSONSchemaValidator) Validate(def WidgetDefinition, config map[string]any) error {
	if len(def.Schema) == 0 {
		return nil
	}
	schema, err := v.schemaFor(def)
	if err != nil {
		return err
	}
	payload := map[string]any{}
	if config != nil {
		// round-trip so ints and typed slices match the JSON data model
		data, err := json.Marshal(config)
		if err != nil {
			return fmt.Errorf("%w: marshal %s: %v", ErrInvalidConfiguration, def.Code, err)
		}
		if err := json.Unmarshal(data, &payload); err != nil {
			return fmt.Errorf("%w: normalize %s: %v", ErrInvalidConfiguration, def.Code, err)
		}
	}
	if err := schema.Validate(payload); err != nil {
		cfgErr := &ConfigError{Widget: def.Code, Fields: map[string]string{}, Err: err}
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			collectLeaves(verr, cfgErr.Fields)
		}
		return cfgErr
	}
	return nil
}

func collectLeaves(verr *jsonschema.ValidationError, out map[string]string) {
	if len(verr.Causes) == 0 {
		loc := verr.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		out[loc] = verr.Message
		return
	}
	for _, cause := range verr.Causes {
		collectLeaves(cause, out)
	}
}

func (v *JSONSchemaValidator) schemaFor(def WidgetDefinition) (*jsonschema.Schema, error) {
	key := string(def.Code) + ":" + configHash(def.Schema)
	v.mu.RLock()
	schema, ok := v.compiled[key]
	v.mu.RUnlock()
	if ok {
		return schema, nil
	}
	data, err := json.Marshal(def.Schema)
	if err != nil {
		return nil, fmt.Errorf("dashboard: marshal schema %s: %w", def.Code, err)
	}
	compiler := jsonschema.NewCompiler()
	name := string(def.Code) + ".json"
	if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("dashboard: load schema %s: %w", def.Code, err)
	}
	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("dashboard: compile schema %s: %w", def.Code, err)
	}
	v.mu.Lock()
	v.compiled[key] = compiled
	v.mu.Unlock()
	return compiled, nil
}
