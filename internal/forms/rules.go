// Package forms implements a declarative, domain-independent field and
// form validation engine. Rules are tagged variants evaluated in a fixed
// dispatch order, short-circuiting on the first failure.
package forms

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Rule is one declarative validation rule bound to a field. Rules are
// evaluated in a fixed order regardless of declaration order: required,
// format (email/date), range (min/max), length, pattern, cross-field
// match, custom predicate, async predicate.
type Rule interface {
	// rank orders rules for dispatch; lower runs first.
	rank() int

	// message returns the failure text for this rule.
	message(fieldName string) string
}

// SyncRule is a rule evaluated without suspension.
type SyncRule interface {
	Rule

	// check reports whether value passes. resolve supplies other fields'
	// values for cross-field rules.
	check(value string, resolve func(name string) (string, bool)) bool
}

// AsyncRule is a rule whose predicate may suspend (server lookups). The
// bound field is marked pending while it runs.
type AsyncRule interface {
	Rule

	// checkAsync reports whether value passes.
	checkAsync(ctx context.Context, value string) (bool, error)
}

const (
	rankRequired = iota
	rankFormat
	rankRange
	rankLength
	rankPattern
	rankMatch
	rankCustom
	rankAsync
)

// Required fails on an empty (or all-whitespace) value. All other rules
// skip empty values, so an optional field is only checked once it has
// content.
type Required struct {
	Message string
}

func (r Required) rank() int { return rankRequired }

func (r Required) message(fieldName string) string {
	if r.Message != "" {
		return r.Message
	}
	return fmt.Sprintf("%s is required", fieldName)
}

func (r Required) check(value string, _ func(string) (string, bool)) bool {
	return strings.TrimSpace(value) != ""
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Email fails on a value that is not a plausible email address.
type Email struct {
	Message string
}

func (r Email) rank() int { return rankFormat }

func (r Email) message(fieldName string) string {
	if r.Message != "" {
		return r.Message
	}
	return fmt.Sprintf("%s must be a valid email address", fieldName)
}

func (r Email) check(value string, _ func(string) (string, bool)) bool {
	if value == "" {
		return true
	}
	return emailPattern.MatchString(value)
}

// Date fails on a value that does not parse with the given layout
// (defaults to 2006-01-02).
type Date struct {
	Layout  string
	Message string
}

func (r Date) rank() int { return rankFormat }

func (r Date) message(fieldName string) string {
	if r.Message != "" {
		return r.Message
	}
	return fmt.Sprintf("%s must be a valid date", fieldName)
}

func (r Date) check(value string, _ func(string) (string, bool)) bool {
	if value == "" {
		return true
	}
	layout := r.Layout
	if layout == "" {
		layout = "2006-01-02"
	}
	_, err := time.Parse(layout, value)
	return err == nil
}

// Min fails on a numeric value below the bound. Non-numeric content fails
// too: a range rule implies a numeric field.
type Min struct {
	Value   float64
	Message string
}

func (r Min) rank() int { return rankRange }

func (r Min) message(fieldName string) string {
	if r.Message != "" {
		return r.Message
	}
	return fmt.Sprintf("%s must be at least %v", fieldName, r.Value)
}

func (r Min) check(value string, _ func(string) (string, bool)) bool {
	if value == "" {
		return true
	}
	n, err := strconv.ParseFloat(value, 64)
	return err == nil && n >= r.Value
}

// Max fails on a numeric value above the bound.
type Max struct {
	Value   float64
	Message string
}

func (r Max) rank() int { return rankRange }

func (r Max) message(fieldName string) string {
	if r.Message != "" {
		return r.Message
	}
	return fmt.Sprintf("%s must be at most %v", fieldName, r.Value)
}

func (r Max) check(value string, _ func(string) (string, bool)) bool {
	if value == "" {
		return true
	}
	n, err := strconv.ParseFloat(value, 64)
	return err == nil && n <= r.Value
}

// MinLength fails on a value shorter than the bound (in runes).
type MinLength struct {
	Value   int
	Message string
}

func (r MinLength) rank() int { return rankLength }

func (r MinLength) message(fieldName string) string {
	if r.Message != "" {
		return r.Message
	}
	return fmt.Sprintf("%s must be at least %d characters", fieldName, r.Value)
}

func (r MinLength) check(value string, _ func(string) (string, bool)) bool {
	if value == "" {
		return true
	}
	return len([]rune(value)) >= r.Value
}

// MaxLength fails on a value longer than the bound (in runes).
type MaxLength struct {
	Value   int
	Message string
}

func (r MaxLength) rank() int { return rankLength }

func (r MaxLength) message(fieldName string) string {
	if r.Message != "" {
		return r.Message
	}
	return fmt.Sprintf("%s must be at most %d characters", fieldName, r.Value)
}

func (r MaxLength) check(value string, _ func(string) (string, bool)) bool {
	if value == "" {
		return true
	}
	return len([]rune(value)) <= r.Value
}

// Pattern fails on a value not matching the expression.
type Pattern struct {
	Expr    *regexp.Regexp
	Message string
}

func (r Pattern) rank() int { return rankPattern }

func (r Pattern) message(fieldName string) string {
	if r.Message != "" {
		return r.Message
	}
	return fmt.Sprintf("%s has an invalid format", fieldName)
}

func (r Pattern) check(value string, _ func(string) (string, bool)) bool {
	if value == "" {
		return true
	}
	return r.Expr.MatchString(value)
}

// Matches fails when the value differs from another field's value
// (password confirmation and the like).
type Matches struct {
	Field   string
	Message string
}

func (r Matches) rank() int { return rankMatch }

func (r Matches) message(fieldName string) string {
	if r.Message != "" {
		return r.Message
	}
	return fmt.Sprintf("%s must match %s", fieldName, r.Field)
}

func (r Matches) check(value string, resolve func(string) (string, bool)) bool {
	if value == "" {
		return true
	}
	other, ok := resolve(r.Field)
	return ok && value == other
}

// Custom fails when the synchronous predicate rejects the value.
type Custom struct {
	Fn      func(value string) bool
	Message string
}

func (r Custom) rank() int { return rankCustom }

func (r Custom) message(fieldName string) string {
	if r.Message != "" {
		return r.Message
	}
	return fmt.Sprintf("%s is invalid", fieldName)
}

func (r Custom) check(value string, _ func(string) (string, bool)) bool {
	if value == "" {
		return true
	}
	return r.Fn(value)
}

// Async fails when the asynchronous predicate rejects the value. The field
// is marked pending while the predicate runs.
type Async struct {
	Fn      func(ctx context.Context, value string) (bool, error)
	Message string
}

func (r Async) rank() int { return rankAsync }

func (r Async) message(fieldName string) string {
	if r.Message != "" {
		return r.Message
	}
	return fmt.Sprintf("%s failed validation", fieldName)
}

func (r Async) checkAsync(ctx context.Context, value string) (bool, error) {
	if value == "" {
		return true, nil
	}
	return r.Fn(ctx, value)
}

// sortRules orders rules by dispatch rank, preserving declaration order
// within a rank.
func sortRules(rules []Rule) []Rule {
	sorted := make([]Rule, len(rules))
	copy(sorted, rules)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].rank() < sorted[j].rank()
	})
	return sorted
}
