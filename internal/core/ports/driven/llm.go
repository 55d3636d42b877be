package driven

import "context"

// GroundedAnswer is the structured output of a grounded generation
// call, parsed from the provider's JSON response.
type GroundedAnswer struct {
	// Answer is the model's answer text.
	Answer string

	// Citations holds the raw citation values exactly as the model
	// returned them. They are untrusted: entries may be duplicated,
	// out of range, or not integers at all. The answer service
	// normalises them against the candidate set; this port never
	// guesses.
	Citations []any
}

// LLMService produces grounded answers from a prompt.
//
// Implementations request structured (JSON) output from the provider
// and parse it into a GroundedAnswer. A response that cannot be parsed
// is a hard error (domain.ErrMalformedAnswer), surfaced to the caller
// rather than silently repaired.
type LLMService interface {
	// GenerateGrounded sends the grounding prompt and returns the
	// parsed structured answer.
	GenerateGrounded(ctx context.Context, prompt string) (*GroundedAnswer, error)

	// ModelName returns the name of the chat model being used.
	ModelName() string
}
