package catalog

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/viant/mcp-protocol/schema"
)

// Kind is the compiled parameter kind. A tool schema compiles once at
// discovery time into an explicit tagged model; validation is ordinary
// branching over these kinds, no runtime type synthesis.
type Kind string

const (
	KindString      Kind = "string"
	KindInteger     Kind = "integer"
	KindBoolean     Kind = "boolean"
	KindStringArray Kind = "stringArray"
)

// Parameter describes one accepted argument of a tool.
type Parameter struct {
	Name        string
	Kind        Kind
	Required    bool
	Default     interface{}
	Description string
}

// ParameterModel is the compiled form of a tool input schema: an ordered set
// of parameters, sorted by name for deterministic iteration.
type ParameterModel struct {
	parameters []Parameter
	index      map[string]int
}

// Parameters returns the compiled parameters in order.
func (m *ParameterModel) Parameters() []Parameter {
	return slices.Clone(m.parameters)
}

// Compile maps a JSON-Schema object into a ParameterModel. Properties absent
// from the required list become optional with the schema default, or a type
// appropriate zero value when none is given.
func Compile(inputSchema schema.ToolInputSchema) (*ParameterModel, error) {
	names := make([]string, 0, len(inputSchema.Properties))
	for name := range inputSchema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	model := &ParameterModel{index: map[string]int{}}
	for _, name := range names {
		property := inputSchema.Properties[name]
		kind := kindOf(property)
		parameter := Parameter{
			Name:     name,
			Kind:     kind,
			Required: slices.Contains(inputSchema.Required, name),
		}
		if description, ok := property["description"].(string); ok {
			parameter.Description = description
		}
		if !parameter.Required {
			if value, ok := property["default"]; ok {
				coerced, err := coerce(name, kind, value)
				if err != nil {
					return nil, fmt.Errorf("invalid default for %q: %w", name, err)
				}
				parameter.Default = coerced
			} else {
				parameter.Default = zeroValue(kind)
			}
		}
		model.index[name] = len(model.parameters)
		model.parameters = append(model.parameters, parameter)
	}
	return model, nil
}

// Apply validates arguments against the model and returns a normalized copy:
// optional parameters are filled in with their defaults, array values are
// normalized to []string. A missing required parameter, an unknown parameter
// or a kind mismatch is a *ValidationError.
func (m *ParameterModel) Apply(toolName string, arguments map[string]interface{}) (map[string]interface{}, error) {
	normalized := make(map[string]interface{}, len(m.parameters))
	for name := range arguments {
		if _, ok := m.index[name]; !ok {
			return nil, &ValidationError{Tool: toolName, Parameter: name, Reason: "unknown parameter"}
		}
	}
	for _, parameter := range m.parameters {
		value, present := arguments[parameter.Name]
		if !present {
			if parameter.Required {
				return nil, &ValidationError{Tool: toolName, Parameter: parameter.Name, Reason: "required parameter is missing"}
			}
			normalized[parameter.Name] = parameter.Default
			continue
		}
		coerced, err := coerce(parameter.Name, parameter.Kind, value)
		if err != nil {
			var validation *ValidationError
			if errors.As(err, &validation) {
				validation.Tool = toolName
				return nil, validation
			}
			return nil, err
		}
		normalized[parameter.Name] = coerced
	}
	return normalized, nil
}

func kindOf(property map[string]interface{}) Kind {
	switch property["type"] {
	case "integer":
		return KindInteger
	case "boolean":
		return KindBoolean
	case "array":
		return KindStringArray
	default:
		// Matches the source schema generator, which falls back to string
		// for anything it does not recognize.
		return KindString
	}
}

func zeroValue(kind Kind) interface{} {
	switch kind {
	case KindInteger:
		return 0
	case KindBoolean:
		return false
	case KindStringArray:
		return []string{}
	default:
		return ""
	}
}

// coerce checks a value against a kind and normalizes the representations
// JSON decoding produces (float64 numbers, []interface{} arrays).
func coerce(name string, kind Kind, value interface{}) (interface{}, error) {
	switch kind {
	case KindString:
		if actual, ok := value.(string); ok {
			return actual, nil
		}
	case KindInteger:
		switch actual := value.(type) {
		case int:
			return actual, nil
		case int64:
			return int(actual), nil
		case float64:
			if actual == float64(int(actual)) {
				return int(actual), nil
			}
		}
	case KindBoolean:
		if actual, ok := value.(bool); ok {
			return actual, nil
		}
	case KindStringArray:
		switch actual := value.(type) {
		case []string:
			return actual, nil
		case []interface{}:
			items := make([]string, 0, len(actual))
			for _, item := range actual {
				text, ok := item.(string)
				if !ok {
					return nil, &ValidationError{Parameter: name, Reason: fmt.Sprintf("array item %v is not a string", item)}
				}
				items = append(items, text)
			}
			return items, nil
		}
	}
	return nil, &ValidationError{Parameter: name, Reason: fmt.Sprintf("expected %s, got %T", kind, value)}
}
