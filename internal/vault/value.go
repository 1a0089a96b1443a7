package vault

import (
	"github.com/keepvault/keepvault/internal/common"
	"github.com/keepvault/keepvault/internal/otp"
	"github.com/keepvault/keepvault/internal/secret"
)

// ValueKind discriminates the Value variants.
type ValueKind int

const (
	// ValueProtected is an encrypted envelope; plaintext exists only
	// inside an expose window.
	ValueProtected ValueKind = iota
	// ValueSensitive is a cleartext buffer that still gets wiped on Close.
	ValueSensitive
	// ValuePlain is an ordinary string with no wipe obligations.
	ValuePlain
	// ValueDerived is a value computed on demand, like a one-time code.
	ValueDerived
)

// Value is one field's contents in exactly one of four representations.
type Value struct {
	kind      ValueKind
	envelope  *secret.Envelope
	sensitive []byte
	plain     string
	derived   otp.Code
}

func ProtectedValue(env *secret.Envelope) *Value {
	return &Value{kind: ValueProtected, envelope: env}
}

func SensitiveValue(buf []byte) *Value {
	return &Value{kind: ValueSensitive, sensitive: buf}
}

func PlainValue(s string) *Value {
	return &Value{kind: ValuePlain, plain: s}
}

func DerivedValue(code otp.Code) *Value {
	return &Value{kind: ValueDerived, derived: code}
}

func (v *Value) Kind() ValueKind { return v.kind }

// Wipe destroys any secret material the value holds.
func (v *Value) Wipe() {
	switch v.kind {
	case ValueProtected:
		v.envelope.Wipe()
	case ValueSensitive:
		common.WipeBytes(v.sensitive)
		v.sensitive = nil
	}
}

// ValueRef binds a Value to the store its envelope is keyed through, which
// is what callers need to actually read it.
type ValueRef struct {
	value *Value
	store *secret.Store
}

func newValueRef(value *Value, store *secret.Store) ValueRef {
	return ValueRef{value: value, store: store}
}

// Reveal returns the field's string form. For protected values this runs a
// full expose cycle: the envelope is decrypted and immediately re-encrypted
// under a fresh nonce before the plaintext copy is returned.
func (r ValueRef) Reveal() (string, error) {
	switch r.value.kind {
	case ValueProtected:
		guard, err := r.value.envelope.Expose(r.store)
		if err != nil {
			return "", err
		}
		defer guard.Close()
		return guard.String(), nil
	case ValueSensitive:
		return string(r.value.sensitive), nil
	case ValueDerived:
		return r.value.derived.Code, nil
	default:
		return r.value.plain, nil
	}
}

// HiddenByDefault reports whether a UI should mask this field until the
// user explicitly asks for it.
func (r ValueRef) HiddenByDefault() bool {
	return r.value.kind == ValueProtected
}

// Kind returns the underlying value kind.
func (r ValueRef) Kind() ValueKind {
	return r.value.kind
}
