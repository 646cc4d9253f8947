package validation

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// RequiredFieldsSchema builds the JSON Schema a dynamic payload must satisfy for the
// given required field names.
func RequiredFieldsSchema(required []string) map[string]any {
	properties := make(map[string]any, len(required))
	names := make([]any, 0, len(required))

	for _, name := range required {
		if _, dup := properties[name]; dup {
			continue
		}

		properties[name] = map[string]any{
			"type":      "string",
			"minLength": 1,
		}
		names = append(names, name)
	}

	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}

	if len(names) > 0 {
		schema["required"] = names
	}

	return schema
}

func dynamicFieldErrors(payload map[string]string, required []string) []string {
	if len(required) == 0 {
		return nil
	}

	document := make(map[string]any, len(payload))
	for k, v := range payload {
		document[k] = v
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(RequiredFieldsSchema(required)),
		gojsonschema.NewGoLoader(document),
	)
	if err != nil {
		return []string{fmt.Sprintf("Dynamic fields could not be validated: %v", err)}
	}

	if result.Valid() {
		return nil
	}

	missing := make(map[string]bool)

	for _, resultErr := range result.Errors() {
		switch resultErr.Type() {
		case "required":
			if property, ok := resultErr.Details()["property"].(string); ok {
				missing[property] = true
			}
		default:
			missing[resultErr.Field()] = true
		}
	}

	var errs []string

	for _, name := range required {
		if missing[name] {
			errs = append(errs, fmt.Sprintf("Field %q is required", name))
			delete(missing, name)
		}
	}

	return errs
}
