package validation

import (
	"fmt"
	"strings"
)

// ConstraintType 输入无法解码为目标结构时使用的约束名
const ConstraintType = "type"

// Violation 单个字段的约束违规
type Violation struct {
	Field      string `json:"field"`
	Constraint string `json:"constraint"`
	Param      string `json:"param,omitempty"`
	Message    string `json:"message"`
}

// Failure 结构化校验失败
type Failure struct {
	Schema     string      `json:"schema"`
	Violations []Violation `json:"violations"`
}

// Error 实现 error 接口
func (f *Failure) Error() string {
	if f == nil || len(f.Violations) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(f.Violations))
	for _, v := range f.Violations {
		parts = append(parts, v.Message)
	}
	return fmt.Sprintf("%s: %s", f.Schema, strings.Join(parts, "; "))
}

// Fields 返回违规字段名（按出现顺序，去重）
func (f *Failure) Fields() []string {
	if f == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(f.Violations))
	out := make([]string, 0, len(f.Violations))
	for _, v := range f.Violations {
		if _, ok := seen[v.Field]; ok {
			continue
		}
		seen[v.Field] = struct{}{}
		out = append(out, v.Field)
	}
	return out
}

func describe(field, tag, param string) string {
	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, param)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, param)
	default:
		if param != "" {
			return fmt.Sprintf("%s failed %s=%s", field, tag, param)
		}
		return fmt.Sprintf("%s failed %s", field, tag)
	}
}
