package builtin

import (
	"testing"

	"hiringapi/pkg/records"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   any
		want any
	}{
		{"plain text untouched", "Engineering", "Engineering"},
		{"zero width space removed", "Engin\u200beering", "Engineering"},
		{"zero width joiner removed", "Sales\u200d", "Sales"},
		{"embedded bom removed", "\ufeffSupport", "Support"},
		{"nfc composition", "Zoe\u0301", "Zo\u00e9"},
		{"only format runes becomes nil", "\u200d\ufeff", nil},
		{"non-string untouched", int64(5), int64(5)},
		{"nil untouched", nil, nil},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rec := records.Record{"department": tc.in}
			Normalize{}.Apply([]records.Record{rec})
			if rec["department"] != tc.want {
				t.Errorf("got %#v, want %#v", rec["department"], tc.want)
			}
		})
	}
}

func TestNormalize_FeedsValidationAsMissing(t *testing.T) {
	t.Parallel()

	// Normalize runs before validation, so a cell holding only format runes
	// is seen as a missing cell rather than non-empty text.
	rec := records.Record{"id": "1", "job": "\u200d"}
	out := Normalize{}.Apply([]records.Record{rec})
	if out[0]["job"] != nil {
		t.Fatalf("job = %#v, want nil", out[0]["job"])
	}
}
