// Package otp generates time-based one-time codes from otpauth:// URIs,
// covering RFC 6238 TOTP and the 5-character Steam Guard variant.
package otp

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base32"
	"encoding/binary"
	"errors"
	"fmt"
	"hash"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var (
	ErrMalformedURI = errors.New("malformed otpauth uri")
	ErrSecretDecode = errors.New("otp secret decode failed")
)

// steamURIPrefix marks entries whose issuer is Steam; those use the Steam
// Guard derivation instead of decimal truncation.
const steamURIPrefix = "otpauth://totp/Steam:"

// steamAlphabet is the fixed 26-symbol alphabet Steam Guard codes are
// drawn from.
const steamAlphabet = "23456789BCDFGHJKMNPQRTVWXY"

const steamCodeLen = 5

const (
	defaultDigits = 6
	defaultPeriod = 30
)

// Code is one generated one-time code together with how long it stays
// valid, rendered in whole seconds (e.g. "17s").
type Code struct {
	Code     string
	ValidFor string
}

type params struct {
	secret  []byte
	digits  int
	period  int64
	newHash func() hash.Hash
	steam   bool
}

// IsSteamURI reports whether rawURI uses the Steam Guard variant.
func IsSteamURI(rawURI string) bool {
	return strings.HasPrefix(rawURI, steamURIPrefix)
}

// Generate parses rawURI and returns the code valid at the given time.
// Standard URIs honor the digits, period and algorithm query parameters
// (defaults 6, 30, SHA1); Steam URIs always yield a 5-character code over
// the Steam alphabet.
func Generate(rawURI string, now time.Time) (Code, error) {
	p, err := parseURI(rawURI)
	if err != nil {
		return Code{}, err
	}

	counter := uint64(now.Unix() / p.period)
	full := hotp(p.newHash, p.secret, counter)

	var code string
	if p.steam {
		code = steamCode(full)
	} else {
		code = fmt.Sprintf("%0*d", p.digits, full%pow10(p.digits))
	}

	remaining := p.period - now.Unix()%p.period

	return Code{
		Code:     code,
		ValidFor: fmt.Sprintf("%ds", remaining),
	}, nil
}

func parseURI(rawURI string) (params, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return params{}, fmt.Errorf("%w: %w", ErrMalformedURI, err)
	}
	if u.Scheme != "otpauth" || u.Host != "totp" {
		return params{}, fmt.Errorf("%w: not a totp uri", ErrMalformedURI)
	}

	q := u.Query()

	rawSecret := q.Get("secret")
	if rawSecret == "" {
		return params{}, fmt.Errorf("%w: missing secret", ErrMalformedURI)
	}
	secret, err := decodeSecret(rawSecret)
	if err != nil {
		return params{}, err
	}

	p := params{
		secret:  secret,
		digits:  defaultDigits,
		period:  defaultPeriod,
		newHash: sha1.New,
		steam:   IsSteamURI(rawURI),
	}

	if v := q.Get("digits"); v != "" {
		d, err := strconv.Atoi(v)
		if err != nil || d < 1 || d > 9 {
			return params{}, fmt.Errorf("%w: bad digits %q", ErrMalformedURI, v)
		}
		p.digits = d
	}
	if v := q.Get("period"); v != "" {
		s, err := strconv.ParseInt(v, 10, 64)
		if err != nil || s < 1 {
			return params{}, fmt.Errorf("%w: bad period %q", ErrMalformedURI, v)
		}
		p.period = s
	}
	switch strings.ToUpper(q.Get("algorithm")) {
	case "", "SHA1":
	case "SHA256":
		p.newHash = sha256.New
	case "SHA512":
		p.newHash = sha512.New
	default:
		return params{}, fmt.Errorf("%w: unsupported algorithm %q", ErrMalformedURI, q.Get("algorithm"))
	}

	return p, nil
}

func decodeSecret(raw string) ([]byte, error) {
	normalized := strings.ToUpper(strings.TrimRight(strings.ReplaceAll(raw, " ", ""), "="))
	secret, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(normalized)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSecretDecode, err)
	}
	return secret, nil
}

// hotp runs the RFC 4226 dynamic truncation and returns the full 31-bit
// value, before any digit reduction.
func hotp(newHash func() hash.Hash, secret []byte, counter uint64) uint32 {
	var msg [8]byte
	binary.BigEndian.PutUint64(msg[:], counter)

	mac := hmac.New(newHash, secret)
	mac.Write(msg[:])
	sum := mac.Sum(nil)

	offset := sum[len(sum)-1] & 0x0f
	return binary.BigEndian.Uint32(sum[offset:offset+4]) & 0x7fffffff
}

// steamCode maps the truncated value onto five symbols of the Steam
// alphabet, peeling off the least significant base-26 digit each round.
func steamCode(full uint32) string {
	var b strings.Builder
	v := full
	for i := 0; i < steamCodeLen; i++ {
		b.WriteByte(steamAlphabet[v%uint32(len(steamAlphabet))])
		v /= uint32(len(steamAlphabet))
	}
	return b.String()
}

func pow10(n int) uint32 {
	r := uint32(1)
	for i := 0; i < n; i++ {
		r *= 10
	}
	return r
}
