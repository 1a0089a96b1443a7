package vault

import (
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/keepvault/keepvault/internal/otp"
	"github.com/keepvault/keepvault/internal/secret"
)

// templateFieldName is the custom field KeePassDX writes on templated
// entries (credit card, wifi password, etc). Its value is the uuid of the
// template's defining entry.
const templateFieldName = "_etm_template_uuid"

// hiddenFields are written by other KeePass programs and are not shown as
// custom fields.
var hiddenFields = []string{
	// KeePassXC browser integration (list of URLs)
	"KeePassXC-Browser Settings",
	// last modified date
	"_LAST_MODIFIED",
	templateFieldName,
}

// hiddenFieldPrefixes hide whole families of vendor fields by prefix.
var hiddenFieldPrefixes = []string{"AndroidApp", "KP2A_URL", "KPEX_PASSKEY_"}

func shouldHideField(name string) bool {
	for _, f := range hiddenFields {
		if name == f {
			return true
		}
	}
	for _, p := range hiddenFieldPrefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// FieldName selects one of an entry's addressable fields.
type FieldName struct {
	kind   fieldKind
	custom string
}

type fieldKind int

const (
	fieldTitle fieldKind = iota
	fieldUsername
	fieldPassword
	fieldURL
	fieldNotes
	fieldCurrentTOTP
	fieldCustom
)

var (
	FieldTitle       = FieldName{kind: fieldTitle}
	FieldUsername    = FieldName{kind: fieldUsername}
	FieldPassword    = FieldName{kind: fieldPassword}
	FieldURL         = FieldName{kind: fieldURL}
	FieldNotes       = FieldName{kind: fieldNotes}
	FieldCurrentTOTP = FieldName{kind: fieldCurrentTOTP}
)

// CustomField addresses a custom field by name.
func CustomField(name string) FieldName {
	return FieldName{kind: fieldCustom, custom: name}
}

// Entry is one credential record. Entries are immutable after load apart
// from envelope re-keying, which never changes an observable value.
type Entry struct {
	uuid         uuid.UUID
	parentGroup  uuid.UUID
	templateUUID *uuid.UUID

	store *secret.Store

	title    *Value
	username *Value
	password *Value
	url      *Value
	notes    *Value
	rawOTP   *Value

	customFields *ordMap[string, *Value]
	tags         []string
	icon         Icon
}

func (e *Entry) UUID() uuid.UUID { return e.uuid }

// ParentGroup returns the uuid of the containing group. Every entry has
// exactly one.
func (e *Entry) ParentGroup() uuid.UUID { return e.parentGroup }

// TemplateUUID returns the template this entry belongs to, if any.
func (e *Entry) TemplateUUID() *uuid.UUID { return e.templateUUID }

func (e *Entry) Icon() Icon { return e.icon }

func (e *Entry) Tags() []string { return e.tags }

func (e *Entry) HasTags() bool { return len(e.tags) > 0 }

func (e *Entry) Title() (ValueRef, bool)    { return e.fieldRef(e.title) }
func (e *Entry) Username() (ValueRef, bool) { return e.fieldRef(e.username) }
func (e *Entry) Password() (ValueRef, bool) { return e.fieldRef(e.password) }
func (e *Entry) URL() (ValueRef, bool)      { return e.fieldRef(e.url) }
func (e *Entry) Notes() (ValueRef, bool)    { return e.fieldRef(e.notes) }

// RawOTP returns the entry's raw otpauth URI field.
func (e *Entry) RawOTP() (ValueRef, bool) { return e.fieldRef(e.rawOTP) }

func (e *Entry) HasOTP() bool { return e.rawOTP != nil }

// CustomFields iterates the visible custom fields in source order.
func (e *Entry) CustomFields() iter.Seq2[string, ValueRef] {
	return func(yield func(string, ValueRef) bool) {
		for name, v := range e.customFields.All() {
			if !yield(name, newValueRef(v, e.store)) {
				return
			}
		}
	}
}

// CustomField looks up one custom field by name.
func (e *Entry) CustomField(name string) (ValueRef, bool) {
	v, ok := e.customFields.Get(name)
	if !ok {
		return ValueRef{}, false
	}
	return newValueRef(v, e.store), true
}

// GetField resolves a FieldName to its value. FieldCurrentTOTP yields a
// freshly derived code.
func (e *Entry) GetField(name FieldName) (ValueRef, bool) {
	switch name.kind {
	case fieldTitle:
		return e.fieldRef(e.title)
	case fieldUsername:
		return e.fieldRef(e.username)
	case fieldPassword:
		return e.fieldRef(e.password)
	case fieldURL:
		return e.fieldRef(e.url)
	case fieldNotes:
		return e.fieldRef(e.notes)
	case fieldCurrentTOTP:
		code, err := e.TOTP(time.Now())
		if err != nil {
			return ValueRef{}, false
		}
		return newValueRef(DerivedValue(code), e.store), true
	case fieldCustom:
		return e.CustomField(name.custom)
	default:
		return ValueRef{}, false
	}
}

// HasSteamOTP reports whether the entry's otp URI uses the Steam variant.
func (e *Entry) HasSteamOTP() bool {
	ref, ok := e.RawOTP()
	if !ok {
		return false
	}
	raw, err := ref.Reveal()
	if err != nil {
		return false
	}
	return otp.IsSteamURI(raw)
}

// TOTP derives the entry's current one-time code. Exposing the raw URI
// re-keys its envelope as usual.
func (e *Entry) TOTP(now time.Time) (otp.Code, error) {
	ref, ok := e.RawOTP()
	if !ok {
		return otp.Code{}, ErrNoOTPConfigured
	}
	raw, err := ref.Reveal()
	if err != nil {
		return otp.Code{}, fmt.Errorf("revealing otp field: %w", err)
	}
	return otp.Generate(raw, now)
}

// protectedEnvelopes collects the envelopes of every protected field, for
// bulk re-keying.
func (e *Entry) protectedEnvelopes() []*secret.Envelope {
	var envs []*secret.Envelope
	for _, v := range []*Value{e.title, e.username, e.password, e.url, e.notes, e.rawOTP} {
		if v != nil && v.kind == ValueProtected {
			envs = append(envs, v.envelope)
		}
	}
	for _, v := range e.customFields.All() {
		if v.kind == ValueProtected {
			envs = append(envs, v.envelope)
		}
	}
	return envs
}

// wipe destroys all secret material the entry holds.
func (e *Entry) wipe() {
	for _, v := range []*Value{e.title, e.username, e.password, e.url, e.notes, e.rawOTP} {
		if v != nil {
			v.Wipe()
		}
	}
	for _, v := range e.customFields.All() {
		v.Wipe()
	}
}

func (e *Entry) fieldRef(v *Value) (ValueRef, bool) {
	if v == nil {
		return ValueRef{}, false
	}
	return newValueRef(v, e.store), true
}
