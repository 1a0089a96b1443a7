package vault

import "errors"

// ErrNoOTPConfigured means the entry has no otp field at all.
var ErrNoOTPConfigured = errors.New("entry has no otp configured")
