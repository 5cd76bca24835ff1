package parse

import (
	"testing"
)

func TestCodeLastThreeRunsWin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		mid   string
		cid   string
		fmi   string
	}{
		{"28 168 04", "28", "168", "04"},
		{"28-168-04", "28", "168", "04"},
		{"28.168.04", "28", "168", "04"},
		{"7 28 168 04", "28", "168", "04"},
		{"1 2 3 4 5", "3", "4", "5"},
	}

	for _, tt := range tests {
		q := Code(tt.input)
		if q.MID != tt.mid || q.CID != tt.cid || q.FMI != tt.fmi {
			t.Errorf("Code(%q) = (%q, %q, %q), expected (%q, %q, %q)",
				tt.input, q.MID, q.CID, q.FMI, tt.mid, tt.cid, tt.fmi)
		}
	}
}

func TestCodeTwoRuns(t *testing.T) {
	t.Parallel()

	tests := []string{"168-04", "168 04", "168.04", "cid 168 fmi 04"}
	for _, input := range tests {
		q := Code(input)
		if q.MID != "" {
			t.Errorf("Code(%q) MID = %q, expected empty", input, q.MID)
		}
		if q.CID != "168" || q.FMI != "04" {
			t.Errorf("Code(%q) = (%q, %q), expected (168, 04)", input, q.CID, q.FMI)
		}
	}
}

func TestCodeUnparsable(t *testing.T) {
	t.Parallel()

	// Zero or one digit runs yield all-absent fields.
	for _, input := range []string{"", "no digits here", "168", "E"} {
		q := Code(input)
		if q.MID != "" || q.CID != "" || q.FMI != "" {
			t.Errorf("Code(%q) = %+v, expected all fields absent", input, q)
		}
	}
}

func TestCodeNoLengthValidation(t *testing.T) {
	t.Parallel()

	// A 1-digit cid is accepted as-is.
	q := Code("1 4")
	if q.CID != "1" || q.FMI != "4" {
		t.Errorf("Code(\"1 4\") = (%q, %q), expected (1, 4)", q.CID, q.FMI)
	}
}
