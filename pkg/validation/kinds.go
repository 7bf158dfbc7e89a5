package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"
)

// Rule kinds understood by the validator. KindIsOptional is the marker mapped
// type generators compare against when stripping optionality.
const (
	KindIsOptional = "isOptional"
	KindIsDefined  = "isDefined"
	KindIsString   = "isString"
	KindIsInt      = "isInt"
	KindIsNumber   = "isNumber"
	KindIsBoolean  = "isBoolean"
	KindIsNotEmpty = "isNotEmpty"
	KindMinLength  = "minLength"
	KindMaxLength  = "maxLength"
	KindMatches    = "matches"
	KindIsIn       = "isIn"
)

// Checker evaluates a single constraint.
type Checker struct {
	// Check reports whether value satisfies the constraint.
	Check func(value any, params map[string]string) bool
	// Message is the default template. $property, $value and $constraint1 are
	// substituted.
	Message string
	// Param names the rule parameter exposed as $constraint1.
	Param string
}

var (
	kindsMu sync.RWMutex
	kinds   = map[string]Checker{
		KindIsDefined: {
			Check:   func(v any, _ map[string]string) bool { return v != nil },
			Message: "$property should not be null or undefined",
		},
		KindIsString: {
			Check: func(v any, _ map[string]string) bool {
				_, ok := v.(string)
				return ok
			},
			Message: "$property must be a string",
		},
		KindIsInt: {
			Check:   isInt,
			Message: "$property must be an integer number",
		},
		KindIsNumber: {
			Check: func(v any, _ map[string]string) bool {
				_, ok := toFloat(v)
				return ok
			},
			Message: "$property must be a number conforming to the specified constraints",
		},
		KindIsBoolean: {
			Check: func(v any, _ map[string]string) bool {
				_, ok := v.(bool)
				return ok
			},
			Message: "$property must be a boolean value",
		},
		KindIsNotEmpty: {
			Check: func(v any, _ map[string]string) bool {
				if v == nil {
					return false
				}
				if s, ok := v.(string); ok {
					return s != ""
				}
				return true
			},
			Message: "$property should not be empty",
		},
		KindMinLength: {
			Check: func(v any, p map[string]string) bool {
				s, ok := v.(string)
				n, err := strconv.Atoi(p["min"])
				return ok && err == nil && utf8.RuneCountInString(s) >= n
			},
			Message: "$property must be longer than or equal to $constraint1 characters",
			Param:   "min",
		},
		KindMaxLength: {
			Check: func(v any, p map[string]string) bool {
				s, ok := v.(string)
				n, err := strconv.Atoi(p["max"])
				return ok && err == nil && utf8.RuneCountInString(s) <= n
			},
			Message: "$property must be shorter than or equal to $constraint1 characters",
			Param:   "max",
		},
		KindMatches: {
			Check: func(v any, p map[string]string) bool {
				s, ok := v.(string)
				if !ok {
					return false
				}
				re, err := compilePattern(p["pattern"])
				return err == nil && re.MatchString(s)
			},
			Message: "$property must match $constraint1 regular expression",
			Param:   "pattern",
		},
		KindIsIn: {
			Check: func(v any, p map[string]string) bool {
				s := fmt.Sprint(v)
				for _, allowed := range strings.Split(p["values"], ",") {
					if strings.TrimSpace(allowed) == s {
						return true
					}
				}
				return false
			},
			Message: "$property must be one of the following values: $constraint1",
			Param:   "values",
		},
	}
)

// RegisterKind adds or replaces a rule kind. Intended for init-time wiring.
func RegisterKind(kind string, checker Checker) error {
	if strings.TrimSpace(kind) == "" {
		return fmt.Errorf("validation: kind is required")
	}
	if kind == KindIsOptional {
		return fmt.Errorf("validation: kind %q is reserved", kind)
	}
	if checker.Check == nil {
		return fmt.Errorf("validation: kind %q requires a check function", kind)
	}
	kindsMu.Lock()
	defer kindsMu.Unlock()
	kinds[kind] = checker
	return nil
}

func lookupKind(kind string) (Checker, bool) {
	kindsMu.RLock()
	defer kindsMu.RUnlock()
	c, ok := kinds[kind]
	return c, ok
}

var (
	patternsMu sync.Mutex
	patterns   = map[string]*regexp.Regexp{}
)

func compilePattern(expr string) (*regexp.Regexp, error) {
	patternsMu.Lock()
	defer patternsMu.Unlock()
	if re, ok := patterns[expr]; ok {
		return re, nil
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	patterns[expr] = re
	return re, nil
}

func isInt(v any, _ map[string]string) bool {
	switch n := v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	case float64:
		return n == float64(int64(n))
	case float32:
		return n == float32(int64(n))
	default:
		return false
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
