package normalize

import "testing"

func TestShift(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"Shift 1", Shift1, true},
		{"shift 2", Shift2, true},
		{"SHIFT-1", Shift1, true},
		{"shift1", Shift1, true},
		{"S1", Shift1, true},
		{"s2", Shift2, true},
		{"S-2", Shift2, true},
		{"1", Shift1, true},
		{"2", Shift2, true},
		{"first", Shift1, true},
		{"second", Shift2, true},
		{"morning", Shift1, true},
		{"  Shift 2  ", Shift2, true},
		{"", "", false},
		{"3", "", false},
		{"Shift 3", "", false},
		{"night", "", false},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := Shift(tc.in)
			if ok != tc.ok || got != tc.want {
				t.Errorf("Shift(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestExamDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2025-01-22", "2025-01-22", true},
		{"22/01/2025", "2025-01-22", true},
		{"22-01-2025", "2025-01-22", true},
		{"22 January 2025", "2025-01-22", true},
		{"Jan 22, 2025", "2025-01-22", true},
		{"2025/01/22", "2025-01-22", true},
		{"", "", false},
		{"not a date", "", false},
		{"2025-02-30", "", false},
		{"32/01/2025", "", false},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := ExamDate(tc.in)
			if ok != tc.ok || got != tc.want {
				t.Errorf("ExamDate(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestTestIdentifier(t *testing.T) {
	k, err := TestIdentifier("22/01/2025", "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if k.ExamDate != "2025-01-22" || k.Shift != Shift1 {
		t.Errorf("got %+v", k)
	}
	if k.String() != "2025-01-22|Shift 1" {
		t.Errorf("String() = %q", k.String())
	}

	if _, err := TestIdentifier("junk", "Shift 1"); err == nil {
		t.Error("expected error for bad date")
	}
	if _, err := TestIdentifier("2025-01-22", "junk"); err == nil {
		t.Error("expected error for bad shift")
	}
	if _, err := TestIdentifier("junk", "junk"); err == nil {
		t.Error("expected error for both invalid")
	}
}
