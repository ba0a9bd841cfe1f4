package entity

// DistributionInput is what every distributor receives after a post is published locally.
type DistributionInput struct {
	Post PostDraft

	// Social is the repurposed bundle. It is nil unless a social distributor is composed.
	Social SocialBundle

	// CanonicalURL points at the post on the blog. Empty when no site URL is configured.
	CanonicalURL string
}

// DistributionOutcome records the result of one distributor invocation.
type DistributionOutcome struct {
	Target string `json:"target"`
	ID     string `json:"id,omitempty"`
	URL    string `json:"url,omitempty"`
	Err    error  `json:"-"`
}

// OK reports whether the distribution succeeded.
func (o DistributionOutcome) OK() bool {
	return o.Err == nil
}

// DistributionReport lists distributor outcomes in invocation order.
type DistributionReport struct {
	Outcomes []DistributionOutcome `json:"outcomes"`
}

// Add appends an outcome.
func (r *DistributionReport) Add(o DistributionOutcome) {
	r.Outcomes = append(r.Outcomes, o)
}

// Succeeded returns the outcomes without an error.
func (r *DistributionReport) Succeeded() []DistributionOutcome {
	var out []DistributionOutcome
	for _, o := range r.Outcomes {
		if o.OK() {
			out = append(out, o)
		}
	}
	return out
}

// Failed returns the outcomes that carry an error.
func (r *DistributionReport) Failed() []DistributionOutcome {
	var out []DistributionOutcome
	for _, o := range r.Outcomes {
		if !o.OK() {
			out = append(out, o)
		}
	}
	return out
}
