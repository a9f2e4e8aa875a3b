package otp

import (
	"testing"
	"time"
)

// 6-digit codes for the RFC 6238 SHA1 test secret.
func TestVerifyRFCVectors(t *testing.T) {
	g, err := NewGenerator("12345678901234567890", 6, 30, 0)
	if err != nil {
		t.Fatalf("NewGenerator failed: %v", err)
	}

	cases := []struct {
		ts   int64
		code string
	}{
		{59, "287082"},
		{1111111109, "081804"},
		{1111111111, "050471"},
		{1234567890, "005924"},
		{2000000000, "279037"},
		{20000000000, "353130"},
	}

	for _, tc := range cases {
		now := time.Unix(tc.ts, 0)
		if got := g.Generate(now); got != tc.code {
			t.Fatalf("Generate at t=%d: got %s, want %s", tc.ts, got, tc.code)
		}
		if !g.Verify(tc.code, now) {
			t.Fatalf("Verify rejected valid code at t=%d", tc.ts)
		}
	}
}

func TestVerifyWindow(t *testing.T) {
	g, err := NewGenerator("12345678901234567890", 6, 30, 2)
	if err != nil {
		t.Fatalf("NewGenerator failed: %v", err)
	}

	issued := time.Unix(1111111109, 0)
	code := g.Generate(issued)

	cases := []struct {
		name  string
		at    time.Time
		valid bool
	}{
		{"same step", issued, true},
		{"one step later", issued.Add(30 * time.Second), true},
		{"two steps later", issued.Add(60 * time.Second), true},
		{"three steps later", issued.Add(90 * time.Second), false},
		{"two steps earlier", issued.Add(-60 * time.Second), true},
		{"three steps earlier", issued.Add(-90 * time.Second), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := g.Verify(code, tc.at); got != tc.valid {
				t.Fatalf("Verify at %s: got %v, want %v", tc.name, got, tc.valid)
			}
		})
	}
}

func TestVerifyRejectsMalformedCodes(t *testing.T) {
	g, err := NewGenerator("12345678901234567890", 6, 30, 2)
	if err != nil {
		t.Fatalf("NewGenerator failed: %v", err)
	}
	now := time.Unix(59, 0)

	for _, code := range []string{"", "28708", "2870822", "28708a", "abcdef", " 287082 longer"} {
		if g.Verify(code, now) {
			t.Fatalf("Verify accepted malformed code %q", code)
		}
	}

	// whitespace around an otherwise valid code is tolerated
	if !g.Verify(" 287082 ", now) {
		t.Fatal("Verify rejected code with surrounding whitespace")
	}
}

func TestGenerateForBindsPrincipal(t *testing.T) {
	g, err := NewGenerator("12345678901234567890", 6, 30, 2)
	if err != nil {
		t.Fatalf("NewGenerator failed: %v", err)
	}
	now := time.Unix(1111111109, 0)

	ids := []string{"driver-a", "driver-b", "driver-c", "driver-d", "driver-e"}
	distinct := make(map[string]bool)
	for _, id := range ids {
		code := g.GenerateFor(id, now)
		distinct[code] = true
		if !g.VerifyFor(id, code, now) {
			t.Fatalf("VerifyFor rejected %s's own code", id)
		}
	}
	if len(distinct) == 1 {
		t.Fatal("all principals share one code in the same time step")
	}
}

func TestNewGeneratorRejectsBadConfig(t *testing.T) {
	if _, err := NewGenerator("", 6, 30, 2); err == nil {
		t.Fatal("empty secret accepted")
	}
	if _, err := NewGenerator("secret", 0, 30, 2); err == nil {
		t.Fatal("zero digits accepted")
	}
	if _, err := NewGenerator("secret", 9, 30, 2); err == nil {
		t.Fatal("nine digits accepted")
	}
	if _, err := NewGenerator("secret", 6, 0, 2); err == nil {
		t.Fatal("zero period accepted")
	}
}
