// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package validator checks parsed modules against the JSON contract that
// downstream tools read.
package validator

import (
	"embed"
	"encoding/json"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"github.com/mdhender/hdlir"
)

//go:embed schema.cue
var schemaFS embed.FS

// Validator validates modules against the embedded CUE schema.
type Validator struct {
	ctx    *cue.Context
	schema cue.Value
	module cue.Value
}

// New creates a new Validator with the embedded CUE schema
func New() (*Validator, error) {
	ctx := cuecontext.New()

	schemaBytes, err := schemaFS.ReadFile("schema.cue")
	if err != nil {
		return nil, fmt.Errorf("loading embedded schema: %w", err)
	}

	schema := ctx.CompileBytes(schemaBytes)
	if schema.Err() != nil {
		return nil, fmt.Errorf("compiling schema: %w", schema.Err())
	}

	module := schema.LookupPath(cue.ParsePath("#Module"))
	if module.Err() != nil {
		return nil, fmt.Errorf("looking up #Module definition: %w", module.Err())
	}

	return &Validator{
		ctx:    ctx,
		schema: schema,
		module: module,
	}, nil
}

// Validate checks that m, as JSON, conforms to #Module.
func (v *Validator) Validate(m *hdlir.Module) error {
	jsonBytes, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling module to JSON: %w", err)
	}
	return v.ValidateJSON(jsonBytes)
}

// ValidateJSON validates JSON bytes directly against #Module.
func (v *Validator) ValidateJSON(jsonBytes []byte) error {
	unified, err := v.unify(jsonBytes)
	if err != nil {
		return err
	}
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

// ValidationErrors returns one message per schema violation, or nil if m is valid.
func (v *Validator) ValidationErrors(m *hdlir.Module) []string {
	jsonBytes, err := json.Marshal(m)
	if err != nil {
		return []string{fmt.Sprintf("marshal error: %v", err)}
	}
	unified, err := v.unify(jsonBytes)
	if err != nil {
		return []string{err.Error()}
	}
	err = unified.Validate(cue.Concrete(true))
	if err == nil {
		return nil
	}
	var errs []string
	for _, e := range errors.Errors(err) {
		errs = append(errs, e.Error())
	}
	return errs
}

func (v *Validator) unify(jsonBytes []byte) (cue.Value, error) {
	dataValue := v.ctx.CompileBytes(jsonBytes)
	if dataValue.Err() != nil {
		return cue.Value{}, fmt.Errorf("compiling JSON as CUE: %w", dataValue.Err())
	}
	return v.module.Unify(dataValue), nil
}
