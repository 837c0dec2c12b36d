package auth

import (
	"testing"
	"time"
)

func TestParseExpirationDuration_Never(t *testing.T) {
	for _, in := range []string{"", "never"} {
		got, err := ParseExpirationDuration(in)
		if err != nil {
			t.Fatalf("%q: unexpected error %v", in, err)
		}
		if got != nil {
			t.Errorf("%q: expected nil expiration, got %v", in, got)
		}
	}
}

func TestParseExpirationDuration_GoDuration(t *testing.T) {
	got, err := ParseExpirationDuration("2h30m")
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	want := time.Now().Add(2*time.Hour + 30*time.Minute)
	if got == nil || got.Sub(want) > time.Minute || want.Sub(*got) > time.Minute {
		t.Errorf("expected ~2h30m from now, got %v", got)
	}
}

func TestParseExpirationDuration_Shorthand(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
	}{
		{"30d", 30 * 24 * time.Hour},
		{"2w", 2 * 7 * 24 * time.Hour},
	}
	for _, tc := range cases {
		got, err := ParseExpirationDuration(tc.in)
		if err != nil {
			t.Fatalf("%q: unexpected error %v", tc.in, err)
		}
		want := time.Now().Add(tc.want)
		if got == nil || got.Sub(want) > time.Minute || want.Sub(*got) > time.Minute {
			t.Errorf("%q: expected %v from now, got %v", tc.in, tc.want, got)
		}
	}
}

func TestParseExpirationDuration_AbsoluteDate(t *testing.T) {
	future := time.Now().AddDate(1, 0, 0).Format("01/02/2006")
	got, err := ParseExpirationDuration(future)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if got == nil || got.Format("01/02/2006") != future {
		t.Errorf("expected %s, got %v", future, got)
	}
}

func TestParseExpirationDuration_PastDate(t *testing.T) {
	if _, err := ParseExpirationDuration("01/02/2020"); err == nil {
		t.Fatal("expected error for past date")
	}
}

func TestParseExpirationDuration_Invalid(t *testing.T) {
	for _, in := range []string{"soon", "10y", "d30"} {
		if _, err := ParseExpirationDuration(in); err == nil {
			t.Errorf("%q: expected error", in)
		}
	}
}
