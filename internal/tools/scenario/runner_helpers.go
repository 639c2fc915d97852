package scenario

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "github.com/louisbranch/wodcombat/internal/platform/errors"
)

// decodeArgs maps a Lua options table onto a snapshot struct through its yaml
// tags. Fields missing from args keep the values already in out.
func decodeArgs(args map[string]any, out any) error {
	data, err := yaml.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode args: %w", err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode args: %w", err)
	}
	return nil
}

// rulesVars turns rules{speciality_level = 3} into the variables rules.FromMap
// reads. Keys may also be given in their WODCOMBAT_ form.
func rulesVars(args map[string]any) map[string]string {
	vars := make(map[string]string, len(args))
	for key, value := range args {
		name := strings.ToUpper(strings.TrimSpace(key))
		if !strings.HasPrefix(name, "WODCOMBAT_") {
			name = "WODCOMBAT_" + name
		}
		vars[name] = formatValue(value)
	}
	return vars
}

func formatValue(value any) string {
	switch v := value.(type) {
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, formatValue(item))
		}
		return strings.Join(parts, ",")
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func readString(args map[string]any, key string) string {
	value, ok := args[key]
	if !ok || value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s)
	}
	return fmt.Sprint(value)
}

func readBool(args map[string]any, key string) (bool, bool) {
	value, ok := args[key].(bool)
	return value, ok
}

func readInt(args map[string]any, key string) (int, bool, error) {
	value, ok := args[key]
	if !ok || value == nil {
		return 0, false, nil
	}
	n, err := toInt(value)
	if err != nil {
		return 0, false, fmt.Errorf("%s: %w", key, err)
	}
	return n, true, nil
}

func toInt(value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case float64:
		if math.Mod(v, 1) != 0 {
			return 0, fmt.Errorf("%v is not a whole number", v)
		}
		return int(v), nil
	default:
		return 0, fmt.Errorf("expected a number, got %T", value)
	}
}

// readIntList accepts a single number or a sequence of numbers.
func readIntList(args map[string]any, key string) ([]int, bool, error) {
	value, ok := args[key]
	if !ok || value == nil {
		return nil, false, nil
	}
	items, isList := value.([]any)
	if !isList {
		n, err := toInt(value)
		if err != nil {
			return nil, false, fmt.Errorf("%s: %w", key, err)
		}
		return []int{n}, true, nil
	}
	out := make([]int, 0, len(items))
	for _, item := range items {
		n, err := toInt(item)
		if err != nil {
			return nil, false, fmt.Errorf("%s: %w", key, err)
		}
		out = append(out, n)
	}
	return out, true, nil
}

func readStringList(args map[string]any, key string) ([]string, bool) {
	items, ok := args[key].([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, fmt.Sprint(item))
	}
	return out, true
}

func readExpect(args map[string]any) map[string]any {
	expect, _ := args["expect"].(map[string]any)
	if expect == nil {
		return map[string]any{}
	}
	return expect
}

// expectError reconciles a step error with an expect.error code. Unexpected
// errors are returned unchanged; they are failures, not assertions.
func (r *Runner) expectError(args map[string]any, err error) error {
	want := readString(readExpect(args), "error")
	if want == "" {
		return err
	}
	if got := apperrors.CodeOf(err); got != apperrors.Code(want) {
		return r.assertions.Failf("error code = %s, want %s (%v)", got, want, err)
	}
	return nil
}

func (r *Runner) expectNoErrorCode(args map[string]any) error {
	if want := readString(readExpect(args), "error"); want != "" {
		return r.assertions.Failf("expected error %s, got none", want)
	}
	return nil
}

func (r *Runner) expectInt(expect map[string]any, key string, got int) error {
	want, ok, err := readInt(expect, key)
	if err != nil {
		return err
	}
	if ok && got != want {
		return r.assertions.Failf("%s = %d, want %d", key, got, want)
	}
	return nil
}

func (r *Runner) expectBool(expect map[string]any, key string, got bool) error {
	if want, ok := readBool(expect, key); ok && got != want {
		return r.assertions.Failf("%s = %t, want %t", key, got, want)
	}
	return nil
}

func (r *Runner) expectInts(expect map[string]any, key string, got []int) error {
	want, ok, err := readIntList(expect, key)
	if err != nil {
		return err
	}
	if ok && !slices.Equal(got, want) {
		return r.assertions.Failf("%s = %v, want %v", key, got, want)
	}
	return nil
}

func (r *Runner) expectStrings(expect map[string]any, key string, got []string) error {
	if want, ok := readStringList(expect, key); ok && !slices.Equal(got, want) {
		return r.assertions.Failf("%s = %v, want %v", key, got, want)
	}
	return nil
}
