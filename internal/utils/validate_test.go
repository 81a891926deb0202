package utils

import "testing"

func TestIsInstitutionalEmail(t *testing.T) {
	cases := []struct {
		email string
		want  bool
	}{
		{"1234567@ub.edu.ph", true},
		{"0000000@ub.edu.ph", true},
		{"123456@ub.edu.ph", false},   // six digits
		{"12345678@ub.edu.ph", false}, // eight digits
		{"abcdefg@ub.edu.ph", false},
		{"1234567@gmail.com", false},
		{"1234567@ub.edu.phx", false},
		{"x1234567@ub.edu.ph", false},
		{"", false},
	}

	for _, c := range cases {
		if got := IsInstitutionalEmail(c.email); got != c.want {
			t.Errorf("IsInstitutionalEmail(%q) = %v, want %v", c.email, got, c.want)
		}
	}
}
