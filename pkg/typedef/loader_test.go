package typedef_test

import (
	"context"
	"os"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-mappedtypes/pkg/mapped"
	"github.com/goliatone/go-mappedtypes/pkg/metadata"
	"github.com/goliatone/go-mappedtypes/pkg/transform"
	"github.com/goliatone/go-mappedtypes/pkg/typedef"
	"github.com/goliatone/go-mappedtypes/pkg/validation"
)

func loadTestdata(t *testing.T) (*metadata.Registry, *typedef.Catalog) {
	t.Helper()

	doc, err := typedef.LoadFS(os.DirFS("testdata"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	reg := metadata.NewRegistry()
	catalog, err := doc.Apply(context.Background(), reg, mapped.New(reg))
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	return reg, catalog
}

func TestLoadFS_MergesFilesInPathOrder(t *testing.T) {
	doc, err := typedef.LoadFS(os.DirFS("testdata"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	var names []string
	for _, spec := range doc.Types {
		names = append(names, spec.Name)
	}
	if diff := cmp.Diff([]string{"ProfileDto", "BaseUserDto", "CreateUserDto"}, names); diff != "" {
		t.Fatalf("type order mismatch (-want +got):\n%s", diff)
	}
	if len(doc.Derive) != 4 {
		t.Fatalf("expected 4 derive entries, got %d", len(doc.Derive))
	}
}

func TestApply_RequiredScenario(t *testing.T) {
	reg, catalog := loadTestdata(t)
	update, ok := catalog.Token("UpdateUserDto")
	if !ok {
		t.Fatalf("UpdateUserDto not registered")
	}
	derived, _ := catalog.Derived("UpdateUserDto")
	if got := reg.Name(derived); got != "RequiredCreateUserDto" {
		t.Fatalf("unexpected derived name %q", got)
	}

	inst := reg.MustNew(update)
	if inst.String("login") != "defaultLogin" {
		t.Fatalf("login default missing: %v", inst.Map())
	}
	errs, err := validation.Validate(context.Background(), reg, inst)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	var props []string
	for _, e := range errs {
		props = append(props, e.Property)
	}
	if diff := cmp.Diff([]string{"password", "parentProperty"}, props); diff != "" {
		t.Fatalf("failures mismatch (-want +got):\n%s", diff)
	}

	inst.Set("password", "1234567891011")
	inst.Set("parentProperty", "test")
	out, err := transform.InstanceToInstance(context.Background(), reg, inst)
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	if out.String("password") != "1234567891011_transformed" || out.String("parentProperty") != "test_transformed" {
		t.Fatalf("unexpected transform output: %v", out.Map())
	}
}

func TestApply_DefaultsAreCopiedPerInstance(t *testing.T) {
	reg, catalog := loadTestdata(t)
	create, _ := catalog.Token("CreateUserDto")

	first := reg.MustNew(create)
	tags, _ := first.Get("tags")
	tags.([]any)[0] = "mutated"

	second := reg.MustNew(create)
	got, _ := second.Get("tags")
	if diff := cmp.Diff([]any{"user"}, got); diff != "" {
		t.Fatalf("default shared between instances (-want +got):\n%s", diff)
	}
}

func TestApply_JSONDerivations(t *testing.T) {
	reg, catalog := loadTestdata(t)

	patch, _ := catalog.Token("PatchProfileDto")
	errs, err := validation.Validate(context.Background(), reg, reg.MustNew(patch))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(errs) != 0 {
		t.Fatalf("partial profile should accept an empty instance, got %#v", errs)
	}

	handleOnly, _ := catalog.Token("HandleOnlyDto")
	inst, err := transform.PlainToInstance(context.Background(), reg, handleOnly, map[string]any{"handle": "Nope"})
	if err != nil {
		t.Fatalf("plainToInstance: %v", err)
	}
	errs, err = validation.Validate(context.Background(), reg, inst)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(errs) != 1 || errs[0].Constraints["matches"] != "handle must be lowercase letters" {
		t.Fatalf("unexpected errors %#v", errs)
	}

	bioOnly, _ := catalog.Token("BioOnlyDto")
	inst, err = transform.PlainToInstance(context.Background(), reg, bioOnly, map[string]any{"bio": "<em>hello</em>"})
	if err != nil {
		t.Fatalf("plainToInstance: %v", err)
	}
	if got := inst.String("bio"); got != "hello" {
		t.Fatalf("expected sanitized bio, got %q", got)
	}
	fields, _ := reg.Fields(bioOnly)
	if diff := cmp.Diff([]string{"bio"}, fields); diff != "" {
		t.Fatalf("omit fields mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFS_Errors(t *testing.T) {
	cases := []struct {
		name  string
		files fstest.MapFS
		want  string
	}{
		{"empty file", fstest.MapFS{"a.yaml": {Data: []byte("  ")}}, "is empty"},
		{"invalid", fstest.MapFS{"a.yaml": {Data: []byte("types: [")}}, "invalid JSON or YAML"},
		{"duplicate", fstest.MapFS{
			"a.yaml": {Data: []byte("types:\n  - name: A\n")},
			"b.yaml": {Data: []byte("types:\n  - name: A\n")},
		}, `duplicate type "A"`},
		{"unknown mapping", fstest.MapFS{"a.yaml": {Data: []byte("derive:\n  - {name: B, mapping: merge, source: A}\n")}}, "unknown mapping"},
		{"pick without fields", fstest.MapFS{"a.yaml": {Data: []byte("derive:\n  - {name: B, mapping: pick, source: A}\n")}}, "requires fields"},
		{"missing kind", fstest.MapFS{"a.yaml": {Data: []byte("types:\n  - name: A\n    fields:\n      - name: x\n        validate: [{message: hi}]\n")}}, "kind is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := typedef.LoadFS(tc.files)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestApply_UnresolvedReferences(t *testing.T) {
	cases := map[string]string{
		"parent":    "types:\n  - {name: A, extends: [Missing]}\n",
		"source":    "derive:\n  - {name: B, mapping: required, source: Missing}\n",
		"transform": "types:\n  - name: A\n    fields:\n      - name: x\n        transform: [{name: rot13}]\n",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			doc, err := typedef.Parse([]byte(raw), name+".yaml")
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			reg := metadata.NewRegistry()
			if _, err := doc.Apply(context.Background(), reg, nil); err == nil {
				t.Fatalf("expected apply error")
			}
		})
	}
}

func TestApply_ResolvesPreRegisteredTypes(t *testing.T) {
	reg := metadata.NewRegistry()
	existing := reg.MustRegister(metadata.TypeDef{Name: "Existing"})
	validation.MustAttach(reg, existing, "id", validation.IsOptional(), validation.IsInt())

	doc, err := typedef.Parse([]byte("derive:\n  - {name: StrictExisting, mapping: required, source: Existing}\n"), "inline.yaml")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	catalog, err := doc.Apply(context.Background(), reg, mapped.New(reg))
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	strict, _ := catalog.Token("StrictExisting")
	errs, err := validation.Validate(context.Background(), reg, reg.MustNew(strict))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(errs) != 1 || errs[0].Property != "id" {
		t.Fatalf("expected id to be required, got %#v", errs)
	}

	if _, err := doc.Apply(context.Background(), metadata.NewRegistry(), mapped.New(reg)); err == nil {
		t.Fatalf("expected registry mismatch error")
	}
}
