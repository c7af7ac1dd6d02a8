package attestation

import "strings"

// ParsedResponse is a human's free-text reply to an attestation gate,
// normalized into a Decision plus whatever clarification text came with it.
type ParsedResponse struct {
	Decision         Decision
	Response         string
	HasClarification bool
}

// ParseDecision normalizes a human response to a gate into a Decision.
// Ported from the teacher's (disabled) ask_user.go ParseUserResponse, with
// its confirmed/rejected boolean widened to the three-way gate vocabulary:
// an explicit yes maps to approve, an explicit no to reject, an empty
// response to defaultDecision, and anything else is treated as
// request_changes carrying the raw text as clarification — there is no
// bare "no" equivalent for request_changes, since a gate asks for a
// decision, not a confirmation.
func ParseDecision(response string, defaultDecision Decision) ParsedResponse {
	trimmed := strings.TrimSpace(response)
	lower := strings.ToLower(trimmed)

	switch lower {
	case "yes", "y", "yeah", "yep", "correct", "confirmed", "ok", "okay", "approve", "approved":
		return ParsedResponse{Decision: DecisionApprove, Response: trimmed}
	case "no", "n", "nope", "wrong", "incorrect", "reject", "rejected":
		return ParsedResponse{Decision: DecisionReject, Response: trimmed}
	case "":
		return ParsedResponse{Decision: defaultDecision, Response: trimmed}
	}

	return ParsedResponse{Decision: DecisionRequestChanges, Response: trimmed, HasClarification: true}
}
