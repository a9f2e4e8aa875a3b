package otp

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Generator produces and verifies RFC 6238 time-based one-time codes from a
// process-wide shared secret. It is a pure function of secret and clock;
// single-use semantics are enforced by the caller deleting the pending login.
type Generator struct {
	secret []byte
	digits int
	period int
	window int
}

func NewGenerator(secret string, digits, periodSeconds, window int) (*Generator, error) {
	if secret == "" {
		return nil, errors.New("empty otp secret")
	}
	if digits <= 0 || digits > 8 {
		return nil, fmt.Errorf("unsupported otp digit count %d", digits)
	}
	if periodSeconds <= 0 {
		return nil, fmt.Errorf("invalid otp period %d", periodSeconds)
	}
	return &Generator{
		secret: []byte(secret),
		digits: digits,
		period: periodSeconds,
		window: window,
	}, nil
}

// Generate returns the code for the time step containing now.
func (g *Generator) Generate(now time.Time) string {
	return hotpCode(g.secret, now.Unix()/int64(g.period), g.digits)
}

// GenerateFor returns the code for a specific principal. The key is derived
// from the shared secret and the principal id, so two principals in the same
// time step never share a code.
func (g *Generator) GenerateFor(id string, now time.Time) string {
	return hotpCode(g.keyFor(id), now.Unix()/int64(g.period), g.digits)
}

// VerifyFor is Verify against a principal-derived key.
func (g *Generator) VerifyFor(id, code string, now time.Time) bool {
	return g.verify(g.keyFor(id), code, now)
}

// Verify accepts codes from the current step and up to window steps either
// side, to tolerate clock drift between issue and entry.
func (g *Generator) Verify(code string, now time.Time) bool {
	return g.verify(g.secret, code, now)
}

func (g *Generator) keyFor(id string) []byte {
	mac := hmac.New(sha1.New, g.secret)
	_, _ = mac.Write([]byte(id))
	return mac.Sum(nil)
}

func (g *Generator) verify(key []byte, code string, now time.Time) bool {
	trimmed := strings.TrimSpace(code)
	if len(trimmed) != g.digits || !isNumeric(trimmed) {
		return false
	}

	baseCounter := now.Unix() / int64(g.period)
	for step := -g.window; step <= g.window; step++ {
		counter := baseCounter + int64(step)
		if counter < 0 {
			continue
		}
		generated := hotpCode(key, counter, g.digits)
		if subtle.ConstantTimeCompare([]byte(generated), []byte(trimmed)) == 1 {
			return true
		}
	}
	return false
}

func hotpCode(secret []byte, counter int64, digits int) string {
	var msg [8]byte
	binary.BigEndian.PutUint64(msg[:], uint64(counter))

	mac := hmac.New(sha1.New, secret)
	_, _ = mac.Write(msg[:])
	sum := mac.Sum(nil)

	offset := sum[len(sum)-1] & 0x0f
	bin := (int(sum[offset])&0x7f)<<24 |
		(int(sum[offset+1])&0xff)<<16 |
		(int(sum[offset+2])&0xff)<<8 |
		(int(sum[offset+3]) & 0xff)

	mod := 1
	for i := 0; i < digits; i++ {
		mod *= 10
	}

	return fmt.Sprintf("%0*d", digits, bin%mod)
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
