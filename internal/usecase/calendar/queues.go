package calendar

import "leadgen/internal/domain/entity"

// KeywordQueues holds, per niche, the keywords still available for the
// calendar, best first.
//
// Generate takes ownership of the queues it is given and consumes them:
// every emitted entry pops the front keyword of its niche. Callers that
// need the keywords afterwards must pass Clone().
type KeywordQueues map[string][]entity.KeywordRecord

// Clone returns a copy that shares no backing arrays with q.
func (q KeywordQueues) Clone() KeywordQueues {
	out := make(KeywordQueues, len(q))
	for niche, ks := range q {
		out[niche] = append([]entity.KeywordRecord(nil), ks...)
	}
	return out
}

// Len returns the number of keywords queued for a niche.
func (q KeywordQueues) Len(niche string) int {
	return len(q[niche])
}

// pop removes and returns the front keyword of a niche.
func (q KeywordQueues) pop(niche string) (entity.KeywordRecord, bool) {
	ks := q[niche]
	if len(ks) == 0 {
		return entity.KeywordRecord{}, false
	}
	q[niche] = ks[1:]
	return ks[0], true
}
