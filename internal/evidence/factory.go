package evidence

import (
	"time"

	"github.com/google/uuid"
)

// NewPin is the Evidence Pin Factory: a pure function mapping a ToolResult,
// a TriggeredBy origin, and a RouterContext to an EvidencePin. It never
// performs I/O and never mutates its arguments.
func NewPin(result ToolResult, triggeredBy TriggeredBy, ctx RouterContext, claim string, now time.Time) EvidencePin {
	source := SourceAuto
	if triggeredBy == TriggeredByUserChat || triggeredBy == TriggeredByQuickAction {
		source = SourceManual
	}

	confidence := 0.0
	if result.Success {
		if len(result.EvidenceSnippets) > 0 {
			confidence = 1.0
		} else {
			confidence = 0.5
		}
	}

	return EvidencePin{
		ID:                 uuid.NewString(),
		Claim:              claim,
		SourceAgent:        ctx.SourceAgent,
		SourceTool:         ctx.SourceTool,
		Confidence:         confidence,
		Timestamp:          now,
		EvidenceType:       result.EvidenceType,
		Source:             source,
		TriggeredBy:        triggeredBy,
		Domain:             result.Domain,
		ValidationStatus:   ValidationPendingCritic,
		Severity:           result.Severity,
		CausalRole:         "",
		Namespace:          ctx.Namespace,
		Service:            ctx.Service,
		ResourceName:       ctx.ResourceName,
		RawOutput:          TruncateCodePoints(result.RawOutput, MaxRawOutputCodePoints),
		TimeWindow:         ctx.TimeWindow,
		SupportingEvidence: append([]string(nil), result.EvidenceSnippets...),
	}
}
