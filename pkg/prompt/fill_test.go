package prompt

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-mappedtypes/pkg/mapped"
	"github.com/goliatone/go-mappedtypes/pkg/metadata"
	"github.com/goliatone/go-mappedtypes/pkg/validation"
)

type stubDriver struct {
	inputs    map[string]string
	passwords map[string]string
	confirm   map[string]bool
	selects   map[string]int
	infos     []string
	defaults  map[string]string
	err       error
}

func (s *stubDriver) record(cfg InputConfig) {
	if s.defaults == nil {
		s.defaults = make(map[string]string)
	}
	s.defaults[cfg.Message] = cfg.Default
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.record(cfg)
	val, ok := s.inputs[cfg.Message]
	if !ok {
		return "", errors.New("no input scripted for " + cfg.Message)
	}
	return val, nil
}

func (s *stubDriver) Password(_ context.Context, cfg InputConfig) (string, error) {
	s.record(cfg)
	val, ok := s.passwords[cfg.Message]
	if !ok {
		return "", errors.New("no password scripted for " + cfg.Message)
	}
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	val, ok := s.confirm[cfg.Message]
	if !ok {
		return false, errors.New("no confirm scripted for " + cfg.Message)
	}
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	val, ok := s.selects[cfg.Message]
	if !ok {
		return -1, errors.New("no select scripted for " + cfg.Message)
	}
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infos = append(s.infos, msg)
	return nil
}

func newProfileType(t *testing.T) (*metadata.Registry, metadata.Token) {
	t.Helper()
	reg := metadata.NewRegistry()
	token := reg.MustRegister(metadata.TypeDef{
		Name: "ProfileDto",
		Fields: []metadata.FieldDef{
			{Name: "handle", Default: metadata.Static("guest")},
			{Name: "age"},
			{Name: "role"},
			{Name: "active"},
			{Name: "nickname"},
			{Name: "password"},
		},
	})
	validation.MustAttach(reg, token, "handle", validation.IsString(), validation.MinLength(3))
	validation.MustAttach(reg, token, "age", validation.IsOptional(), validation.IsInt())
	validation.MustAttach(reg, token, "role", validation.IsIn("admin", "member"))
	validation.MustAttach(reg, token, "active", validation.IsBoolean())
	validation.MustAttach(reg, token, "nickname", validation.IsOptional(), validation.IsString())
	validation.MustAttach(reg, token, "password", validation.IsString(), validation.MinLength(8))
	return reg, token
}

func TestFill_PopulatesInstance(t *testing.T) {
	reg, token := newProfileType(t)
	driver := &stubDriver{
		inputs:    map[string]string{"handle": "bob", "age": "42", "nickname": ""},
		passwords: map[string]string{"password": "s3cretpass"},
		confirm:   map[string]bool{"active": true},
		selects:   map[string]int{"role": 1},
	}

	inst, err := Fill(context.Background(), reg, token, driver)
	if err != nil {
		t.Fatalf("fill: %v", err)
	}

	want := map[string]any{
		"handle":   "bob",
		"age":      42,
		"role":     "member",
		"active":   true,
		"password": "s3cretpass",
	}
	if diff := cmp.Diff(want, inst.Map()); diff != "" {
		t.Fatalf("instance mismatch (-want +got):\n%s", diff)
	}
	if driver.defaults["handle"] != "guest" {
		t.Fatalf("expected construction default to seed prompt, got %q", driver.defaults["handle"])
	}
	if diff := cmp.Diff([]string{"ProfileDto"}, driver.infos); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}
}

func TestFill_RejectsInvalidAnswer(t *testing.T) {
	reg, token := newProfileType(t)
	driver := &stubDriver{inputs: map[string]string{"handle": "bo"}}

	_, err := Fill(context.Background(), reg, token, driver)
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected validation errors, got %v", err)
	}
	if verrs[0].Property != "handle" {
		t.Fatalf("unexpected property %q", verrs[0].Property)
	}
}

func TestFill_RequiredVariantRejectsEmptyOptional(t *testing.T) {
	reg, token := newProfileType(t)
	derived, err := mapped.Required(reg, token)
	if err != nil {
		t.Fatalf("required: %v", err)
	}
	driver := &stubDriver{inputs: map[string]string{"handle": "bob", "age": ""}}

	if _, err := Fill(context.Background(), reg, derived, driver); err == nil {
		t.Fatalf("expected empty age to be rejected on required variant")
	}
}

func TestFill_Errors(t *testing.T) {
	reg, token := newProfileType(t)

	if _, err := Fill(context.Background(), reg, token, nil); !errors.Is(err, ErrNoDriver) {
		t.Fatalf("expected ErrNoDriver, got %v", err)
	}
	if _, err := Fill(context.Background(), reg, token, &stubDriver{err: ErrAborted}); !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
	if _, err := Fill(context.Background(), reg, metadata.NewToken(), &stubDriver{}); !errors.Is(err, metadata.ErrTypeNotFound) {
		t.Fatalf("expected ErrTypeNotFound, got %v", err)
	}
}

func TestField_Parse(t *testing.T) {
	tests := []struct {
		name   string
		field  field
		answer string
		want   any
		set    bool
	}{
		{name: "optional empty", field: field{name: "a", optional: true}, answer: " ", set: false},
		{name: "int", field: field{name: "a", kind: kindInt}, answer: "7", want: 7, set: true},
		{name: "number", field: field{name: "a", kind: kindNumber}, answer: "1.5", want: 1.5, set: true},
		{name: "each", field: field{name: "a", each: true}, answer: "x, y,", want: []any{"x", "y"}, set: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, set, err := tt.field.parse(tt.answer)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if set != tt.set {
				t.Fatalf("set = %v, want %v", set, tt.set)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("value mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
