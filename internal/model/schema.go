package model

import "github.com/google/jsonschema-go/jsonschema"

// FieldDefSchema, ConditionDefSchema, ParameterDefSchema, MethodDefSchema,
// ParcelableDefSchema, and BinderDefSchema describe the §6 "JSON schema"
// wire shapes so external tooling can validate a precompiled `.json` unit
// before handing it to the Loader's JSON path. Hand-assembled as
// *jsonschema.Schema literals, the same way internal/mcp/server.go builds
// its MCP tool input schemas, rather than via a reflection-based generator.

func FieldDefSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"name": {Type: "string"},
			"call": {Type: "string", Description: "verb or verb:QName, e.g. readInt, readParcelable:android.os.Bundle"},
		},
		Required: []string{"name", "call"},
	}
}

func ConditionDefSchema() *jsonschema.Schema {
	branch := &jsonschema.Schema{Type: "array", Items: FieldOrConditionSchema()}
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"call":        {Type: "string"},
			"check":       {Type: "string"},
			"op":          {Type: "string", Description: "comparison operator, one of == != < <= > >="},
			"consequence": branch,
			"alternative": branch,
		},
		Required: []string{"call", "check", "op"},
	}
}

// FieldOrConditionSchema describes the FieldDef | ConditionDef | Stop union
// by key presence: Stop is `{}`.
func FieldOrConditionSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "object",
		Description: "FieldDef, ConditionDef, or Stop ({})",
	}
}

func ParameterDefSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"name":      {Type: "string"},
			"call":      {Type: "string"},
			"direction": {Type: "integer", Description: "0=in 1=out 2=inout"},
		},
		Required: []string{"name", "call", "direction"},
	}
}

func MethodDefSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"name":          {Type: "string"},
			"tc":            {Type: "integer"},
			"code_override": {Type: "integer"},
			"oneway":        {Type: "boolean"},
			"retval": {
				Description: "null, or a list of ReturnDef ({call}) and ParameterDef entries",
			},
			"arguments": {Type: "array", Items: ParameterDefSchema()},
		},
		Required: []string{"name", "tc", "oneway", "arguments"},
	}
}

func BinderDefSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"qname":   {Type: "string"},
			"type":    {Type: "string", Description: "BINDER"},
			"methods": {Type: "array", Items: MethodDefSchema()},
		},
		Required: []string{"qname", "type", "methods"},
	}
}

func ParcelableDefSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"qname":  {Type: "string"},
			"type":   {Type: "string", Description: "PARCELABLE or PARCELABLE_JAVA"},
			"fields": {Type: "array", Items: FieldOrConditionSchema()},
		},
		Required: []string{"qname", "type", "fields"},
	}
}
