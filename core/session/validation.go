package session

// Score penalties per continuity violation. Deductions only stack
// downward: more violations can never raise a score.
const (
	scoreStart          = 100
	penaltyExpired      = 50
	penaltyInactive     = 30
	penaltyFingerprint  = 40
	penaltyEnvSignature = 20
	validScoreThreshold = 50
)

// Validation is the verdict of one security check on a session.
type Validation struct {
	// Valid is true while the score stays above the threshold and the
	// session has not expired.
	Valid bool
	// Expired reports the session outlived MaxAge.
	Expired bool
	// Inactive reports the session idled past InactivityTimeout.
	Inactive bool
	// Score is the 0-100 trust score for this validation pass.
	Score int
	// Warnings lists each detected continuity violation in human-readable
	// form, suitable for forwarding to a notification sink.
	Warnings []string
}

// Err converts a failing verdict into an error for error-shaped call
// paths: ErrExpired for expired sessions, ErrInvalid for a score at or
// below the threshold. Returns nil for a valid verdict, so it can be
// returned unconditionally.
func (v Validation) Err() error {
	switch {
	case v.Valid:
		return nil
	case v.Expired:
		return ErrExpired
	default:
		return ErrInvalid
	}
}

// Warning messages kept stable so callers and tests can match on them.
const (
	WarnExpired             = "session expired"
	WarnInactive            = "session inactive beyond timeout"
	WarnFingerprintMismatch = "fingerprint mismatch"
	WarnEnvSignatureDrift   = "environment signature changed"
)
