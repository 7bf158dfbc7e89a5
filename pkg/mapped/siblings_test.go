package mapped_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-mappedtypes/pkg/mapped"
	"github.com/goliatone/go-mappedtypes/pkg/metadata"
	"github.com/goliatone/go-mappedtypes/pkg/transform"
	"github.com/goliatone/go-mappedtypes/pkg/validation"
)

func concrete(t *testing.T, reg *metadata.Registry, name string, parent metadata.Token) metadata.Token {
	t.Helper()
	return reg.MustRegister(metadata.TypeDef{Name: name, Parents: []metadata.Token{parent}})
}

func TestPartial_MakesEveryValidatedFieldOptional(t *testing.T) {
	f := newUserFixture(t)
	derived, err := mapped.New(f.reg).Partial(f.create)
	if err != nil {
		t.Fatalf("partial: %v", err)
	}
	if got := f.reg.Name(derived); got != "PartialCreateUserDto" {
		t.Fatalf("unexpected name %q", got)
	}

	strict := f.reg.MustRegister(metadata.TypeDef{Name: "Strict"})
	validation.MustAttach(f.reg, strict, "code", validation.IsString(), validation.MinLength(2))
	partialStrict, err := mapped.New(f.reg).Partial(strict)
	if err != nil {
		t.Fatalf("partial: %v", err)
	}
	rules := f.reg.OwnValidations(partialStrict)
	if !validation.IsOptionalField(rules, "code") {
		t.Fatalf("expected code to be marked optional: %#v", rules)
	}

	inst := f.reg.MustNew(concrete(t, f.reg, "PatchStrict", partialStrict))
	errs, err := validation.Validate(context.Background(), f.reg, inst)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(errs) != 0 {
		t.Fatalf("expected absent fields to pass, got %#v", errs)
	}
	inst.Set("code", "x")
	errs, err = validation.Validate(context.Background(), f.reg, inst)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(errs) != 1 || errs[0].Property != "code" {
		t.Fatalf("present values must still be checked, got %#v", errs)
	}
}

func TestPartial_FailOpenAddsNoMarkers(t *testing.T) {
	reg := metadata.NewRegistry()
	strict := reg.MustRegister(metadata.TypeDef{Name: "Strict"})
	validation.MustAttach(reg, strict, "code", validation.IsString())

	derived, err := mapped.New(reg, mapped.WithOptionalKind("")).Partial(strict)
	if err != nil {
		t.Fatalf("partial: %v", err)
	}
	if validation.IsOptionalField(reg.OwnValidations(derived), "code") {
		t.Fatalf("no marker should be added when the marker kind is unavailable")
	}
}

func TestPickAndOmit(t *testing.T) {
	f := newUserFixture(t)
	gen := mapped.New(f.reg)

	picked, err := gen.Pick(f.create, "login", "parentProperty")
	if err != nil {
		t.Fatalf("pick: %v", err)
	}
	omitted, err := gen.Omit(f.create, "login", "parentProperty")
	if err != nil {
		t.Fatalf("omit: %v", err)
	}

	pickedFields, _ := f.reg.Fields(picked)
	omittedFields, _ := f.reg.Fields(omitted)
	if diff := cmp.Diff([]string{"login", "parentProperty"}, pickedFields); diff != "" {
		t.Fatalf("picked fields mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"password"}, omittedFields); diff != "" {
		t.Fatalf("omitted fields mismatch (-want +got):\n%s", diff)
	}

	pickInst := f.reg.MustNew(concrete(t, f.reg, "LoginOnly", picked))
	if pickInst.String("login") != "defaultLogin" {
		t.Fatalf("picked initializer missing: %v", pickInst.Map())
	}
	omitInst := f.reg.MustNew(concrete(t, f.reg, "PasswordOnly", omitted))
	if omitInst.Has("login") {
		t.Fatalf("omitted initializer leaked: %v", omitInst.Map())
	}

	omitInst.Set("password", "p")
	omitInst.Set("parentProperty", "untouched")
	out, err := transform.InstanceToInstance(context.Background(), f.reg, omitInst)
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	if out.String("password") != "p_transformed" || out.String("parentProperty") != "untouched" {
		t.Fatalf("omit should only keep transforms of remaining fields: %v", out.Map())
	}

	if got := f.reg.Name(picked); got != "PickCreateUserDto" {
		t.Fatalf("unexpected name %q", got)
	}
	if got := f.reg.Name(omitted); got != "OmitCreateUserDto" {
		t.Fatalf("unexpected name %q", got)
	}
}
