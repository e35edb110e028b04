package parse

import (
	"fmt"
	"log/slog"
	"reflect"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/turbot/go-kit/helpers"
	"github.com/turbot/pipe-fittings/error_helpers"
	"github.com/turbot/pipe-fittings/utils"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"

	"github.com/turbot/tailpipe-plugin-envi/config_data"
)

// ParseConfig parses the HCL config and returns the struct
// T must be a pointer to a struct implementing Config
func ParseConfig[T Config](configData config_data.ConfigData) (T, error) {
	// Create a new instance of the target struct
	target := utils.InstanceOf[T]()
	// verify this config is of correct type
	// this ensures that the ConfigData type (the Identifier) matches the target type (the Identifier of the target)
	id := target.Identifier()
	if id != configData.Identifier() {
		return target, fmt.Errorf("invalid %s type '%s': expected '%s'", configData.GetConfigType(), configData.Identifier(), id)
	}

	// Parse the config
	declRange := configData.GetRange()
	hclBytes := configData.GetHcl()
	file, diags := hclsyntax.ParseConfig(hclBytes, declRange.Filename, startPos(declRange))
	if diags != nil && diags.HasErrors() {
		slog.Warn("failed to parse config", "config type", configData.GetConfigType(), "hcl", string(hclBytes))
		return target, error_helpers.HclDiagsToError(fmt.Sprintf("Failed to parse %s config", configData.GetConfigType()), diags)
	}

	decodeDiags := DecodeBody(file.Body, target)
	diags = append(diags, decodeDiags...)
	if diags.HasErrors() {
		return target, error_helpers.HclDiagsToError(fmt.Sprintf("Failed to decode %s config", configData.GetConfigType()), diags)
	}

	if err := target.Validate(); err != nil {
		return target, fmt.Errorf("invalid %s config '%s': %w", configData.GetConfigType(), id, err)
	}

	return target, nil
}

// NewEvalContext returns the (empty) evaluation context used to decode config
func NewEvalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: make(map[string]cty.Value),
		Functions: make(map[string]function.Function),
	}
}

// DecodeBody decodes the hcl body into the target resource, also decoding into any embedded structs
// Attributes which are not declared by the target or any embedded struct are reported as unsupported
func DecodeBody(body hcl.Body, resource any) (diags hcl.Diagnostics) {
	defer func() {
		if r := recover(); r != nil {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "unexpected error in DecodeBody",
				Detail:   helpers.ToError(r).Error()})
		}
	}()

	evalCtx := NewEvalContext()
	targets := append([]any{resource}, embeddedStructs(resource)...)

	declared := map[string]struct{}{}
	for _, target := range targets {
		moreDiags := gohcl.DecodeBody(body, evalCtx, target)
		diags = append(diags, moreDiags...)

		schema, _ := gohcl.ImpliedBodySchema(target)
		for _, a := range schema.Attributes {
			declared[a.Name] = struct{}{}
		}
		for _, b := range schema.Blocks {
			declared[b.Type] = struct{}{}
		}
	}

	syntaxBody, ok := body.(*hclsyntax.Body)
	if !ok {
		return diags
	}
	for name, attr := range syntaxBody.Attributes {
		if _, ok := declared[name]; !ok {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Unsupported argument",
				Detail:   fmt.Sprintf("An argument named %q is not expected here.", name),
				Subject:  attr.NameRange.Ptr(),
			})
		}
	}
	for _, block := range syntaxBody.Blocks {
		if _, ok := declared[block.Type]; !ok {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Unsupported block type",
				Detail:   fmt.Sprintf("Blocks of type %q are not expected here.", block.Type),
				Subject:  block.TypeRange.Ptr(),
			})
		}
	}
	return diags
}

// embeddedStructs returns pointers to all (recursively) embedded structs of the resource,
// allocating nil embedded pointers
func embeddedStructs(resource any) []any {
	v := reflect.ValueOf(resource)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return nil
	}
	v = v.Elem()

	var res []any
	for i := 0; i < v.NumField(); i++ {
		field := v.Type().Field(i)
		if !field.Anonymous || !field.IsExported() {
			continue
		}
		fv := v.Field(i)
		switch {
		case fv.Kind() == reflect.Struct:
			ptr := fv.Addr().Interface()
			res = append(res, ptr)
			res = append(res, embeddedStructs(ptr)...)
		case fv.Kind() == reflect.Ptr && fv.Type().Elem().Kind() == reflect.Struct:
			if fv.IsNil() {
				fv.Set(reflect.New(fv.Type().Elem()))
			}
			ptr := fv.Interface()
			res = append(res, ptr)
			res = append(res, embeddedStructs(ptr)...)
		}
	}
	return res
}

// the HCL for a block body starts after the opening brace
func startPos(r hcl.Range) hcl.Pos {
	if r.Start.Line == 0 {
		return hcl.Pos{Line: 1, Column: 1}
	}
	return r.Start
}
