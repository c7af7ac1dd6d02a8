package critic

import (
	"context"
	"testing"
	"time"

	"github.com/inder1991/cluster-incident-agent/internal/llm"
	"github.com/stretchr/testify/assert"
)

// blockingProvider waits for its context to be cancelled before returning,
// simulating an LLM call that overruns the Critic's hard timeout.
type blockingProvider struct{}

func (blockingProvider) Chat(ctx context.Context, _ string, _ []llm.Message, _ []llm.ToolDefinition) (*llm.Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}
func (blockingProvider) Name() string  { return "blocking" }
func (blockingProvider) Model() string { return "blocking-model" }

func TestValidate_StaticRule_DatabaseUnreachableWithoutMetrics(t *testing.T) {
	finding := Finding{FindingID: "f1", AgentName: "log_agent", Category: "database", Summary: "database is unreachable"}
	verdict := Validate(context.Background(), nil, finding, DomainAvailability{MetricsAvailable: false})

	assert.Equal(t, VerdictInsufficientData, verdict.Verdict)
	assert.NotEmpty(t, verdict.Reasoning)
}

func TestValidate_StaticRule_OOMWithoutK8sData(t *testing.T) {
	finding := Finding{FindingID: "f2", AgentName: "log_agent", Category: "oom_kill", Summary: "pod killed"}
	verdict := Validate(context.Background(), nil, finding, DomainAvailability{K8sAvailable: false})

	assert.Equal(t, VerdictChallenged, verdict.Verdict)
}

func TestValidate_StaticRule_DoesNotApply_FallsThroughToLLM(t *testing.T) {
	finding := Finding{FindingID: "f3", AgentName: "log_agent", Category: "network", Summary: "dns resolution failing"}
	provider := llm.NewMockProvider(&llm.Response{Content: `{"verdict": "validated", "reasoning": "confirmed by metrics", "confidence_in_verdict": 90}`})

	verdict := Validate(context.Background(), provider, finding, DomainAvailability{MetricsAvailable: true})

	assert.Equal(t, VerdictValidated, verdict.Verdict)
	assert.Equal(t, 90, verdict.ConfidenceInVerdict)
}

func TestValidate_Timeout_YieldsLiteralFallback(t *testing.T) {
	finding := Finding{FindingID: "f4", AgentName: "log_agent", Category: "network", Summary: "dns resolution failing"}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	verdict := Validate(ctx, blockingProvider{}, finding, DomainAvailability{MetricsAvailable: true})

	assert.Equal(t, VerdictInsufficientData, verdict.Verdict)
	assert.Equal(t, 0, verdict.ConfidenceInVerdict)
	assert.Equal(t, "validation timed out", verdict.Reasoning)
}

func TestValidate_ParseFailure_YieldsLiteralFallback(t *testing.T) {
	finding := Finding{FindingID: "f5", AgentName: "log_agent", Category: "network", Summary: "dns resolution failing"}
	provider := llm.NewMockProvider(&llm.Response{Content: "not json at all"})

	verdict := Validate(context.Background(), provider, finding, DomainAvailability{MetricsAvailable: true})

	assert.Equal(t, VerdictInsufficientData, verdict.Verdict)
	assert.Equal(t, 0, verdict.ConfidenceInVerdict)
	assert.Equal(t, "parse error", verdict.Reasoning)
}

func TestValidate_UnrecognizedVerdict_FallsBackToInsufficientData(t *testing.T) {
	finding := Finding{FindingID: "f6", AgentName: "log_agent", Category: "network", Summary: "dns resolution failing"}
	provider := llm.NewMockProvider(&llm.Response{Content: `{"verdict": "maybe", "reasoning": "unclear", "confidence_in_verdict": 50}`})

	verdict := Validate(context.Background(), provider, finding, DomainAvailability{MetricsAvailable: true})
	assert.Equal(t, VerdictInsufficientData, verdict.Verdict)
}

func TestValidate_ConfidenceClampedToRange(t *testing.T) {
	finding := Finding{FindingID: "f7", AgentName: "log_agent", Category: "network", Summary: "dns resolution failing"}
	provider := llm.NewMockProvider(&llm.Response{Content: `{"verdict": "validated", "reasoning": "x", "confidence_in_verdict": 500}`})

	verdict := Validate(context.Background(), provider, finding, DomainAvailability{MetricsAvailable: true})
	assert.Equal(t, 100, verdict.ConfidenceInVerdict)
}
