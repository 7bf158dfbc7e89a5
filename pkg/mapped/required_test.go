package mapped_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-mappedtypes/internal/testutil"
	"github.com/goliatone/go-mappedtypes/pkg/mapped"
	"github.com/goliatone/go-mappedtypes/pkg/metadata"
	"github.com/goliatone/go-mappedtypes/pkg/transform"
	"github.com/goliatone/go-mappedtypes/pkg/validation"
)

type userFixture struct {
	reg    *metadata.Registry
	base   metadata.Token
	create metadata.Token
}

func appendTransformed(p metadata.TransformParams) any {
	s, _ := p.Value.(string)
	return s + "_transformed"
}

func newUserFixture(t *testing.T) userFixture {
	t.Helper()

	reg := metadata.NewRegistry()
	base := reg.MustRegister(metadata.TypeDef{
		Name:   "BaseUserDto",
		Fields: []metadata.FieldDef{{Name: "parentProperty"}},
	})
	validation.MustAttach(reg, base, "parentProperty", validation.IsOptional(), validation.IsString())
	transform.MustAttach(reg, base, "parentProperty", appendTransformed)

	create := reg.MustRegister(metadata.TypeDef{
		Name:    "CreateUserDto",
		Parents: []metadata.Token{base},
		Fields: []metadata.FieldDef{
			{Name: "login", Default: metadata.Static("defaultLogin")},
			{Name: "password"},
		},
	})
	transform.MustAttach(reg, create, "password", appendTransformed)
	validation.MustAttach(reg, create, "password", validation.IsString(), validation.IsOptional())

	return userFixture{reg: reg, base: base, create: create}
}

func (f userFixture) updateType(t *testing.T, options ...mapped.Option) metadata.Token {
	t.Helper()

	options = append([]mapped.Option{mapped.WithLogger(testutil.NewTestLogger(t))}, options...)
	derived, err := mapped.New(f.reg, options...).Required(f.create)
	if err != nil {
		t.Fatalf("required: %v", err)
	}
	return f.reg.MustRegister(metadata.TypeDef{
		Name:    "UpdateUserDto",
		Parents: []metadata.Token{derived},
	})
}

func TestRequired_InheritsValidationMetadata(t *testing.T) {
	f := newUserFixture(t)
	update := f.updateType(t)

	rules, err := f.reg.Validations(update)
	if err != nil {
		t.Fatalf("validations: %v", err)
	}
	var got []string
	for _, rule := range rules {
		if rule.Kind == validation.KindIsOptional {
			t.Fatalf("optional marker copied onto %q", rule.Field)
		}
		got = append(got, rule.Field)
	}
	if diff := cmp.Diff([]string{"password", "parentProperty"}, got); diff != "" {
		t.Fatalf("validation keys mismatch (-want +got):\n%s", diff)
	}
}

func TestRequired_SourceStillOptional(t *testing.T) {
	f := newUserFixture(t)
	f.updateType(t)

	errs, err := validation.Validate(context.Background(), f.reg, f.reg.MustNew(f.create))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(errs) != 0 {
		t.Fatalf("expected source type to ignore missing optional fields, got %#v", errs)
	}
	if own := f.reg.OwnValidations(f.create); len(own) != 2 {
		t.Fatalf("source rules must not change, got %d", len(own))
	}
}

func TestRequired_ValidationErrors(t *testing.T) {
	f := newUserFixture(t)
	update := f.updateType(t)

	errs, err := validation.Validate(context.Background(), f.reg, f.reg.MustNew(update))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	want := []validation.ValidationError{
		{Property: "password", Constraints: map[string]string{"isString": "password must be a string"}},
		{Property: "parentProperty", Constraints: map[string]string{"isString": "parentProperty must be a string"}},
	}
	if diff := cmp.Diff(want, errs); diff != "" {
		t.Fatalf("validation errors mismatch (-want +got):\n%s", diff)
	}
}

func TestRequired_ValidInstance(t *testing.T) {
	f := newUserFixture(t)
	update := f.updateType(t)

	inst := f.reg.MustNew(update)
	inst.Set("password", "1234567891011")
	inst.Set("parentProperty", "test")

	errs, err := validation.Validate(context.Background(), f.reg, inst)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %#v", errs)
	}
}

func TestRequired_InheritsTransformMetadata(t *testing.T) {
	f := newUserFixture(t)
	update := f.updateType(t)

	inst := f.reg.MustNew(update)
	inst.Set("password", "1234567891011")
	inst.Set("parentProperty", "test")

	out, err := transform.InstanceToInstance(context.Background(), f.reg, inst)
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	if got := out.String("password"); got != "1234567891011_transformed" {
		t.Fatalf("password: got %q", got)
	}
	if got := out.String("parentProperty"); got != "test_transformed" {
		t.Fatalf("parentProperty: got %q", got)
	}
}

func TestRequired_InheritsPropertyInitializers(t *testing.T) {
	f := newUserFixture(t)
	update := f.updateType(t)

	inst := f.reg.MustNew(update)
	if got := inst.String("login"); got != "defaultLogin" {
		t.Fatalf("expected defaultLogin, got %q", got)
	}
	if inst.Has("password") {
		t.Fatalf("fields without defaults must stay unset")
	}
}

func TestRequired_DynamicInitializersRerun(t *testing.T) {
	reg := metadata.NewRegistry()
	seq := 0
	source := reg.MustRegister(metadata.TypeDef{
		Name: "Ticket",
		Fields: []metadata.FieldDef{{Name: "serial", Default: func(*metadata.Instance) any {
			seq++
			return seq
		}}},
		Initializers: []metadata.Initializer{func(inst *metadata.Instance) {
			if n, _ := inst.Get("serial"); n.(int)%2 == 0 {
				inst.Set("even", true)
			}
		}},
	})
	derived, err := mapped.Required(reg, source)
	if err != nil {
		t.Fatalf("required: %v", err)
	}
	concrete := reg.MustRegister(metadata.TypeDef{Name: "RequiredTicketImpl", Parents: []metadata.Token{derived}})

	first := reg.MustNew(concrete)
	second := reg.MustNew(concrete)
	if got, _ := first.Get("serial"); got != 1 {
		t.Fatalf("first serial: got %v", got)
	}
	if got, _ := second.Get("serial"); got != 2 {
		t.Fatalf("second serial: got %v", got)
	}
	if first.Has("even") || !second.Has("even") {
		t.Fatalf("conditional initializer not reproduced: %v / %v", first.Map(), second.Map())
	}
}

func TestRequired_Naming(t *testing.T) {
	f := newUserFixture(t)

	derived, err := mapped.Required(f.reg, f.create)
	if err != nil {
		t.Fatalf("required: %v", err)
	}
	if got := f.reg.Name(derived); got != "RequiredCreateUserDto" {
		t.Fatalf("expected RequiredCreateUserDto, got %q", got)
	}
	def, err := f.reg.Type(derived)
	if err != nil {
		t.Fatalf("type: %v", err)
	}
	if !def.Abstract || len(def.Parents) != 0 {
		t.Fatalf("derived type should be abstract without parents: %#v", def)
	}
	if _, err := f.reg.New(derived); !errors.Is(err, metadata.ErrAbstractType) {
		t.Fatalf("expected derived type to require a concrete subtype, got %v", err)
	}
}

func TestRequired_FreshIdentityPerCall(t *testing.T) {
	f := newUserFixture(t)

	first, err := mapped.Required(f.reg, f.create)
	if err != nil {
		t.Fatalf("required: %v", err)
	}
	second, err := mapped.Required(f.reg, f.create)
	if err != nil {
		t.Fatalf("required: %v", err)
	}
	if first == second {
		t.Fatalf("expected distinct tokens")
	}
	if len(f.reg.OwnValidations(first)) != 2 || len(f.reg.OwnValidations(second)) != 2 {
		t.Fatalf("each derivation should own its own rule copies")
	}
}

func TestRequired_FallbackCopiesEverything(t *testing.T) {
	cases := []struct {
		name    string
		options []mapped.Option
		logged  string
	}{
		{"marker unavailable", []mapped.Option{mapped.WithOptionalKind("")}, "optional marker kind unavailable"},
		{"filtering disabled", []mapped.Option{mapped.WithOptionalFiltering(false)}, "optional-field filtering disabled"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newUserFixture(t)
			logger, buf := testutil.NewBufferLogger()
			gen := mapped.New(f.reg, append(tc.options, mapped.WithLogger(logger))...)
			if gen.OptionalFilteringActive() {
				t.Fatalf("expected degraded mode")
			}

			derived, err := gen.Required(f.create)
			if err != nil {
				t.Fatalf("required: %v", err)
			}
			source, _ := f.reg.Validations(f.create)
			got := f.reg.OwnValidations(derived)
			if len(got) != len(source) {
				t.Fatalf("expected %d rules, got %d", len(source), len(got))
			}
			for i := range source {
				if source[i].Field != got[i].Field || source[i].Kind != got[i].Kind {
					t.Fatalf("rule %d: want %s/%s, got %s/%s", i, source[i].Field, source[i].Kind, got[i].Field, got[i].Kind)
				}
				if got[i].Type != derived {
					t.Fatalf("rule %d not re-keyed to derived type", i)
				}
			}
			if !strings.Contains(buf.String(), tc.logged) {
				t.Fatalf("expected log %q, got %q", tc.logged, buf.String())
			}
		})
	}
}

func TestRequired_CustomMarkerKind(t *testing.T) {
	reg := metadata.NewRegistry()
	source := reg.MustRegister(metadata.TypeDef{Name: "Legacy"})
	validation.MustAttach(reg, source, "x",
		metadata.ValidationRule{Kind: "legacyOptional"},
		validation.IsOptional(),
		validation.IsString(),
	)

	derived, err := mapped.New(reg, mapped.WithOptionalKind("legacyOptional")).Required(source)
	if err != nil {
		t.Fatalf("required: %v", err)
	}
	var kinds []string
	for _, rule := range reg.OwnValidations(derived) {
		kinds = append(kinds, rule.Kind)
	}
	if diff := cmp.Diff([]string{validation.KindIsOptional, validation.KindIsString}, kinds); diff != "" {
		t.Fatalf("only the configured marker should be filtered (-want +got):\n%s", diff)
	}
}

func TestRequired_UnknownSource(t *testing.T) {
	_, err := mapped.Required(metadata.NewRegistry(), "missing")
	if !errors.Is(err, metadata.ErrTypeNotFound) {
		t.Fatalf("expected ErrTypeNotFound, got %v", err)
	}
}

func TestRequired_DefaultRegistry(t *testing.T) {
	reg := metadata.Default()
	source := reg.MustRegister(metadata.TypeDef{Name: "DefaultRegistryProbe"})
	validation.MustAttach(reg, source, "x", validation.IsOptional(), validation.IsInt())

	derived, err := mapped.New(nil).Required(source)
	if err != nil {
		t.Fatalf("required: %v", err)
	}
	if !reg.Has(derived) {
		t.Fatalf("derived type should be registered in the default registry")
	}
}
