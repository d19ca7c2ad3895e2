package validator

import (
	"testing"
	"time"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsNumeric(t *testing.T) {
	valid := []string{"123", "0", "9876543210"}
	invalid := []string{"abc", "123a", "", "-123", "12 3"}
	for _, s := range valid {
		if !IsNumeric(s) {
			t.Errorf("IsNumeric(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsNumeric(s) {
			t.Errorf("IsNumeric(%q) = true, want false", s)
		}
	}
}

func TestIsValidBadge(t *testing.T) {
	valid := []string{"1", "100", "0042", "9999999999"}
	invalid := []string{"", "12345678901", "abc", "12a", "-1", "1.5"}
	for _, b := range valid {
		if !IsValidBadge(b) {
			t.Errorf("IsValidBadge(%q) = false, want true", b)
		}
	}
	for _, b := range invalid {
		if IsValidBadge(b) {
			t.Errorf("IsValidBadge(%q) = true, want false", b)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	date, ok := IsValidDate("2024-05-20")
	if !ok {
		t.Fatal("IsValidDate(2024-05-20) = false, want true")
	}
	if date.Year() != 2024 || date.Month() != time.May || date.Day() != 20 {
		t.Errorf("IsValidDate(2024-05-20) parsed as %s", date)
	}

	invalid := []string{"20/05/2024", "2024-13-01", "2024-05-32", "yesterday", ""}
	for _, s := range invalid {
		if _, ok := IsValidDate(s); ok {
			t.Errorf("IsValidDate(%q) = true, want false", s)
		}
	}
}

func TestIsValidClockTime(t *testing.T) {
	valid := []string{"00:00", "08:05", "12:30", "23:59"}
	invalid := []string{"24:00", "8:05", "08:60", "08:5", "8h05", "08:05:30", ""}
	for _, s := range valid {
		if !IsValidClockTime(s) {
			t.Errorf("IsValidClockTime(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsValidClockTime(s) {
			t.Errorf("IsValidClockTime(%q) = true, want false", s)
		}
	}
}

func TestIsInSlice(t *testing.T) {
	slice := []string{"IN", "OUT"}
	if !IsInSlice("IN", slice) {
		t.Error("IsInSlice(IN) = false, want true")
	}
	if IsInSlice("in", slice) {
		t.Error("IsInSlice(in) = true, want false")
	}
	if IsInSlice("IN", nil) {
		t.Error("IsInSlice on nil slice = true, want false")
	}
}

func TestIsValidDateTime(t *testing.T) {
	valid := []string{
		"2024-05-20T08:00:00Z",
		"2024-05-20T08:00:00+03:00",
		"2024-05-20T08:00:00.123Z",
	}
	invalid := []string{"2024-05-20 08:00:00", "2024-05-20", "", "now"}
	for _, s := range valid {
		if _, ok := IsValidDateTime(s); !ok {
			t.Errorf("IsValidDateTime(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if _, ok := IsValidDateTime(s); ok {
			t.Errorf("IsValidDateTime(%q) = true, want false", s)
		}
	}
}

func TestValidationErrors(t *testing.T) {
	errs := ValidationErrors{
		{Field: "attendance_id", Message: "must be numeric"},
		{Field: "date", Message: "must be YYYY-MM-DD"},
	}

	want := "attendance_id: must be numeric; date: must be YYYY-MM-DD"
	if errs.Error() != want {
		t.Errorf("Error() = %q, want %q", errs.Error(), want)
	}

	m := errs.ToMap()
	if len(m) != 2 || m["attendance_id"] != "must be numeric" {
		t.Errorf("ToMap() = %v", m)
	}
}
