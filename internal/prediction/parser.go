package prediction

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/tidwall/gjson"

	"sharpline/internal/pkg/jsonutil"
)

var errNoObject = errors.New("no JSON object found")

// ParseResult recovers a Result from raw model text: fences are stripped and the
// whole text is tried first, then the first balanced object inside it.
func ParseResult(raw string) (Result, error) {
	trimmed := strings.TrimSpace(raw)
	candidate := jsonutil.StripCodeFence(trimmed)
	if !isJSONObject(candidate) {
		obj, ok := jsonutil.ExtractObject(trimmed)
		if !ok || !isJSONObject(obj) {
			return Result{}, newMalformed(trimmed, errNoObject)
		}
		candidate = obj
	}
	res, err := decodeResult(candidate)
	if err != nil {
		return Result{}, newMalformed(trimmed, err)
	}
	return res, nil
}

func isJSONObject(s string) bool {
	return s != "" && gjson.Valid(s) && gjson.Parse(s).IsObject()
}

// decodeResult checks probability against the schema and decodes everything
// else leniently: a value that cannot be converted is zeroed or stringified
// instead of failing the answer.
func decodeResult(candidate string) (Result, error) {
	var doc map[string]any
	if err := json.Unmarshal([]byte(candidate), &doc); err != nil {
		return Result{}, err
	}
	schema, err := compiledResultSchema()
	if err != nil {
		return Result{}, err
	}
	if err := schema.Validate(doc); err != nil {
		return Result{}, fmt.Errorf("schema: %w", err)
	}
	var res Result
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &res,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		DecodeHook:       lenientHook,
	})
	if err != nil {
		return Result{}, err
	}
	if err := dec.Decode(doc); err != nil {
		return Result{}, fmt.Errorf("decode: %w", err)
	}
	return res, nil
}

func lenientHook(from, to reflect.Type, data any) (any, error) {
	switch to.Kind() {
	case reflect.Float64:
		return looseFloat(data), nil
	case reflect.String:
		return looseString(data), nil
	case reflect.Slice:
		if to.Elem().Kind() != reflect.String {
			return data, nil
		}
		return looseStrings(data), nil
	}
	return data, nil
}

func looseFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0
		}
		return f
	case bool:
		if val {
			return 1
		}
	}
	return 0
}

func looseString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s := strings.TrimSpace(looseString(item)); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	default:
		raw, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(raw)
	}
}

func looseStrings(v any) []string {
	switch val := v.(type) {
	case nil:
		return []string{}
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s := looseString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return val
	case string:
		if strings.TrimSpace(val) == "" {
			return []string{}
		}
		return []string{val}
	default:
		return []string{looseString(val)}
	}
}
