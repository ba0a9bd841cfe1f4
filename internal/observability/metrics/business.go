package metrics

import (
	"time"
)

// Pipeline run outcomes.
const (
	OutcomeSuccess          = "success"
	OutcomeGenerationFailed = "generation_failed"
	OutcomePublishFailed    = "publish_failed"
)

// RecordPipelineRun records the outcome of one pipeline run.
func RecordPipelineRun(outcome string) {
	PipelineRunsTotal.WithLabelValues(outcome).Inc()
}

// RecordStepDuration records the duration of a pipeline step (generate, publish, repurpose, distribute).
func RecordStepDuration(step string, duration time.Duration) {
	PipelineStepDuration.WithLabelValues(step).Observe(duration.Seconds())
}

// RecordPostPublished records a post written to the local site.
func RecordPostPublished(niche string) {
	PostsPublishedTotal.WithLabelValues(niche).Inc()
}

// RecordDistribution records one distributor invocation.
// Status should be either "success" or "failure".
func RecordDistribution(target string, success bool) {
	status := "success"
	if !success {
		status = "failure"
	}
	DistributionsTotal.WithLabelValues(target, status).Inc()
}

// RecordCalendarEntry records an emitted calendar entry.
func RecordCalendarEntry(niche string) {
	CalendarEntriesGenerated.WithLabelValues(niche).Inc()
}

// RecordKeywordResearch records how many suggestions were returned and how many survived filtering.
func RecordKeywordResearch(suggested, kept int) {
	KeywordsResearched.WithLabelValues("suggested").Add(float64(suggested))
	KeywordsResearched.WithLabelValues("kept").Add(float64(kept))
}

// RecordDBQuery records the duration of a database query operation.
// Operation should describe the query type (e.g., "save_calendar_entries", "next_due").
func RecordDBQuery(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
