package validation

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-mappedtypes/pkg/metadata"
)

// Rule builders return templates; Attach binds them to a type and field.

func IsOptional() metadata.ValidationRule { return metadata.ValidationRule{Kind: KindIsOptional} }
func IsDefined() metadata.ValidationRule  { return metadata.ValidationRule{Kind: KindIsDefined} }
func IsString() metadata.ValidationRule   { return metadata.ValidationRule{Kind: KindIsString} }
func IsInt() metadata.ValidationRule      { return metadata.ValidationRule{Kind: KindIsInt} }
func IsNumber() metadata.ValidationRule   { return metadata.ValidationRule{Kind: KindIsNumber} }
func IsBoolean() metadata.ValidationRule  { return metadata.ValidationRule{Kind: KindIsBoolean} }
func IsNotEmpty() metadata.ValidationRule { return metadata.ValidationRule{Kind: KindIsNotEmpty} }

func MinLength(n int) metadata.ValidationRule {
	return metadata.ValidationRule{Kind: KindMinLength, Params: map[string]string{"min": strconv.Itoa(n)}}
}

func MaxLength(n int) metadata.ValidationRule {
	return metadata.ValidationRule{Kind: KindMaxLength, Params: map[string]string{"max": strconv.Itoa(n)}}
}

func Matches(pattern string) metadata.ValidationRule {
	return metadata.ValidationRule{Kind: KindMatches, Params: map[string]string{"pattern": pattern}}
}

func IsIn(values ...string) metadata.ValidationRule {
	return metadata.ValidationRule{Kind: KindIsIn, Params: map[string]string{"values": strings.Join(values, ",")}}
}

// Attach registers rules on token's field in the order given.
func Attach(reg *metadata.Registry, token metadata.Token, field string, rules ...metadata.ValidationRule) error {
	for _, rule := range rules {
		rule.Type = token
		rule.Field = field
		if err := reg.AddValidation(rule); err != nil {
			return err
		}
	}
	return nil
}

// MustAttach panics when Attach fails.
func MustAttach(reg *metadata.Registry, token metadata.Token, field string, rules ...metadata.ValidationRule) {
	if err := Attach(reg, token, field, rules...); err != nil {
		panic(err)
	}
}

// IsOptionalField reports whether rules mark field as optional.
func IsOptionalField(rules []metadata.ValidationRule, field string) bool {
	for _, rule := range rules {
		if rule.Field == field && rule.Kind == KindIsOptional {
			return true
		}
	}
	return false
}
