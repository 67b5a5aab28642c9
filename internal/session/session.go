// Package session derives the anonymous session id that scopes a creator's
// forms: the first 16 hex characters of sha256("<ip>-<hours since epoch>").
package session

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"time"
)

const fallbackIP = "127.0.0.1"

var idPattern = regexp.MustCompile(`^[a-f0-9]{16}$`)

// Provider issues session ids for a client address.
type Provider interface {
	SessionID(clientIP string) string
}

// Hourly derives ids from the client IP and the current hour, so the same
// client keeps one id for up to an hour.
type Hourly struct {
	Now func() time.Time
}

// SessionID implements Provider.
func (h Hourly) SessionID(clientIP string) string {
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	return Derive(clientIP, now())
}

// Derive computes the id for ip at t.
func Derive(ip string, t time.Time) string {
	ip = strings.TrimSpace(ip)
	if ip == "" {
		ip = fallbackIP
	}
	hour := t.Unix() / 3600
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s-%d", ip, hour)))
	return hex.EncodeToString(sum[:])[:16]
}

// Valid reports whether id has the issued format.
func Valid(id string) bool {
	return idPattern.MatchString(id)
}
