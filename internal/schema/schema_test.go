package schema

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"hiringapi/internal/apperror"
)

func TestLookup_KnownEntities(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		wantCols []string
	}{
		{"jobs", []string{"id", "job"}},
		{"departments", []string{"id", "department"}},
		{"hired_employees", []string{"id", "name", "datetime", "department_id", "job_id"}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			c, err := Lookup(tc.name)
			if err != nil {
				t.Fatalf("Lookup(%q): %v", tc.name, err)
			}
			if got := c.Columns(); !reflect.DeepEqual(got, tc.wantCols) {
				t.Errorf("Columns() = %v, want %v", got, tc.wantCols)
			}
			if c.Table() != tc.name {
				t.Errorf("Table() = %q, want %q", c.Table(), tc.name)
			}
		})
	}
}

func TestLookup_Unknown(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"", "unknown_type", "JOBS", "jobs "} {
		_, err := Lookup(name)
		if err == nil {
			t.Fatalf("Lookup(%q) succeeded, want error", name)
		}
		if apperror.GetCode(err) != apperror.CodeNotFound {
			t.Errorf("Lookup(%q) code = %v, want not_found", name, apperror.GetCode(err))
		}
		if !strings.Contains(err.Error(), "not found") {
			t.Errorf("Lookup(%q) message = %q, want mention of not found", name, err)
		}
		var appErr *apperror.Error
		if !errors.As(err, &appErr) {
			t.Errorf("Lookup(%q) error is not *apperror.Error", name)
		}
	}
}

func TestContracts_IdentifierRules(t *testing.T) {
	t.Parallel()

	// Every entity keys on a required positive-integer id, and the
	// hired-employee foreign keys are required identifiers as well.
	for _, c := range All() {
		if c.Fields[0].Name != "id" || c.Fields[0].Kind != KindID || !c.Fields[0].Required {
			t.Errorf("%s: first field = %+v, want required id", c.Name, c.Fields[0])
		}
	}

	he, err := Lookup("hired_employees")
	if err != nil {
		t.Fatal(err)
	}
	required := map[string]bool{}
	for _, f := range he.Fields {
		if f.Kind == KindID {
			required[f.Name] = f.Required
		}
	}
	for _, col := range []string{"id", "department_id", "job_id"} {
		if !required[col] {
			t.Errorf("hired_employees.%s should be a required identifier", col)
		}
	}
}

func TestNames(t *testing.T) {
	t.Parallel()

	want := []string{"jobs", "departments", "hired_employees"}
	if got := Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}
