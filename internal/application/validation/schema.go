// Package validation 在任何 flow 执行前校验不可信输入。
//
// Schema[T] 的 Parse 是获得 Validated[T] 的唯一途径：拿到 Validated[T] 即意味着
// T 的每个字段都满足其 validate 标签声明的约束。
package validation

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// engine 返回进程内共享的校验器；validator.Validate 并发安全
func engine() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonFieldName)
		validate = v
	})
	return validate
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	default:
		return name
	}
}

// Validated 已通过校验的请求
type Validated[T any] struct {
	value T
}

// Value 返回校验后的值
func (v Validated[T]) Value() T {
	return v.value
}

// Schema 声明式输入结构，约束来自 T 上的 validate 标签
type Schema[T any] struct {
	name string
}

// NewSchema 创建 Schema
func NewSchema[T any](name string) *Schema[T] {
	return &Schema[T]{name: name}
}

// Name 返回 schema 名称
func (s *Schema[T]) Name() string {
	return s.name
}

// Parse 将原始输入转换为 Validated[T]，失败时返回逐字段的违规列表。
//
// 支持的原始输入：T、*T、map[string]any、JSON 字节（[]byte / json.RawMessage / string）、nil（视为空对象）。
// Parse 无副作用，同一输入总是得到同一结论。
func (s *Schema[T]) Parse(raw any) (Validated[T], *Failure) {
	value, err := s.decode(raw)
	if err != nil {
		return Validated[T]{}, &Failure{
			Schema: s.name,
			Violations: []Violation{{
				Field:      "",
				Constraint: ConstraintType,
				Message:    err.Error(),
			}},
		}
	}

	if err := engine().Struct(value); err != nil {
		return Validated[T]{}, s.failureFrom(err)
	}
	return Validated[T]{value: value}, nil
}

func (s *Schema[T]) decode(raw any) (T, error) {
	var out T

	switch v := raw.(type) {
	case nil:
		return out, nil
	case T:
		return v, nil
	case *T:
		if v == nil {
			return out, nil
		}
		return *v, nil
	case map[string]any:
		return out, decodeMap(v, &out)
	case json.RawMessage:
		return decodeJSON[T](v)
	case []byte:
		return decodeJSON[T](v)
	case string:
		return decodeJSON[T]([]byte(v))
	default:
		return out, fmt.Errorf("unsupported input type %T", raw)
	}
}

func decodeJSON[T any](data []byte) (T, error) {
	var out T
	if len(strings.TrimSpace(string(data))) == 0 {
		return out, nil
	}

	var fields map[string]any
	if err := sonic.Unmarshal(data, &fields); err != nil {
		return out, fmt.Errorf("input must be a JSON object: %w", err)
	}
	return out, decodeMap(fields, &out)
}

func decodeMap(in map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           out,
		WeaklyTypedInput: false,
		ZeroFields:       true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}

func (s *Schema[T]) failureFrom(err error) *Failure {
	var verrs validator.ValidationErrors
	if !asValidationErrors(err, &verrs) {
		return &Failure{
			Schema:     s.name,
			Violations: []Violation{{Constraint: ConstraintType, Message: err.Error()}},
		}
	}

	violations := make([]Violation, 0, len(verrs))
	for _, fe := range verrs {
		field := fieldPath(fe.Namespace())
		violations = append(violations, Violation{
			Field:      field,
			Constraint: fe.Tag(),
			Param:      fe.Param(),
			Message:    describe(field, fe.Tag(), fe.Param()),
		})
	}
	return &Failure{Schema: s.name, Violations: violations}
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	verrs, ok := err.(validator.ValidationErrors)
	if ok {
		*target = verrs
	}
	return ok
}

// fieldPath 去掉命名空间首段的结构体名，例如 ChatInput.chatHistory[1].role -> chatHistory[1].role
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}
