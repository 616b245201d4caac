package internal

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Rules is the declarative alternative to a validation callback. Each set
// rule is checked in order and contributes its own message on violation,
// so one value can fail several rules at once.
//
// Rules are compiled once at mount time; a malformed pattern or expression
// is a configuration error and fails the mount.
type Rules struct {
	// Presence rejects empty strings, nil and false.
	Presence bool

	// MinLength is the minimum string length in runes. Zero means no
	// minimum. Skipped for empty values so Presence stays the only rule
	// complaining about blanks.
	MinLength int

	// MaxLength is the maximum string length in runes. Zero means no
	// maximum.
	MaxLength int

	// Pattern is a regular expression the string value must match.
	// Skipped for empty values.
	Pattern string

	// PatternMessage overrides the message reported on a pattern
	// mismatch.
	PatternMessage string

	// Expr is an expr-lang expression evaluated with the variables
	// "value" (the coerced field value), "record" (the in-progress
	// payload) and "creating" (bool). It must evaluate to a boolean;
	// true means the value is valid.
	Expr string

	// ExprMessage overrides the message reported when Expr yields false.
	ExprMessage string

	pattern  *regexp.Regexp
	exprProg *vm.Program
}

func (r *Rules) compile() error {
	if r.Pattern != "" && r.pattern == nil {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return fmt.Errorf("compile pattern: %w", err)
		}
		r.pattern = re
	}
	if r.Expr != "" && r.exprProg == nil {
		prog, err := expr.Compile(r.Expr, expr.AsBool())
		if err != nil {
			return fmt.Errorf("compile expression: %w", err)
		}
		r.exprProg = prog
	}
	return nil
}

func (r *Rules) evaluate(ctx *Context, value any, record Record) []string {
	var messages []string

	str, isStr := value.(string)
	empty := value == nil || (isStr && str == "") || value == false

	if r.Presence && empty {
		messages = append(messages, "can't be blank")
	}
	if isStr && str != "" {
		n := utf8.RuneCountInString(str)
		if r.MinLength > 0 && n < r.MinLength {
			messages = append(messages, fmt.Sprintf("is too short (minimum is %d characters)", r.MinLength))
		}
		if r.MaxLength > 0 && n > r.MaxLength {
			messages = append(messages, fmt.Sprintf("is too long (maximum is %d characters)", r.MaxLength))
		}
		if r.pattern != nil && !r.pattern.MatchString(str) {
			msg := r.PatternMessage
			if msg == "" {
				msg = "is invalid"
			}
			messages = append(messages, msg)
		}
	}
	if r.exprProg != nil {
		env := map[string]any{
			"value":    value,
			"record":   map[string]any(record),
			"creating": ctx.Creating(),
		}
		result, err := expr.Run(r.exprProg, env)
		if err != nil {
			messages = append(messages, "could not be checked")
			ctx.Logger().Error("rule expression failed",
				"expression", r.Expr,
				"error", err,
			)
		} else if valid, ok := result.(bool); !ok || !valid {
			msg := r.ExprMessage
			if msg == "" {
				msg = "is invalid"
			}
			messages = append(messages, msg)
		}
	}
	return messages
}
