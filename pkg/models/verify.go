package models

// VerificationStatus is the Planner's judgement of a completed run.
type VerificationStatus string

const (
	// VerifySuccess means the results satisfy the original request.
	VerifySuccess VerificationStatus = "success"
	// VerifyPartial means some steps succeeded but the goal is incomplete.
	VerifyPartial VerificationStatus = "partial"
	// VerifyFailed means the request was not satisfied.
	VerifyFailed VerificationStatus = "failed"
)

// Valid returns true if the status is a known value.
func (s VerificationStatus) Valid() bool {
	switch s {
	case VerifySuccess, VerifyPartial, VerifyFailed:
		return true
	default:
		return false
	}
}

// VerificationReport is the parsed result of the terminal verification stage.
type VerificationReport struct {
	Status VerificationStatus `json:"verification_status"`
	// UserMessage is the friendly message surfaced to the user.
	UserMessage string `json:"user_response"`
	// Issues lists any problems the verifier found.
	Issues []string `json:"issues,omitempty"`
	// Suggestions are optional improvement hints.
	Suggestions []string `json:"suggestions,omitempty"`
}
