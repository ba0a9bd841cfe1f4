package calendar

import (
	"time"

	"leadgen/internal/domain/entity"
)

// Generator builds calendars from a fixed Rotation.
type Generator struct {
	rotation Rotation
}

// NewGenerator validates the rotation and returns a Generator holding its own copy.
func NewGenerator(r Rotation) (*Generator, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &Generator{rotation: r.Clone()}, nil
}

// Rotation returns a copy of the generator's rotation.
func (g *Generator) Rotation() Rotation {
	return g.rotation.Clone()
}

// Generate plans postsPerWeek slots per week for the rotation's weeks,
// starting on start's calendar day.
//
// Each slot takes the next niche round-robin. When that niche still has a
// keyword, the front one is popped and an entry is emitted with the next
// archetype; otherwise the slot stays empty and nothing is backfilled. The
// cursor moves SlotSpacingDays per slot. Only between weeks is it pushed
// past Saturday and Sunday, so a slot inside a week can fall on a weekend.
//
// queues is consumed (see KeywordQueues). postsPerWeek <= 0 yields no
// entries. At most postsPerWeek*Weeks entries are returned.
func (g *Generator) Generate(queues KeywordQueues, start time.Time, postsPerWeek int) []entity.CalendarEntry {
	if postsPerWeek <= 0 {
		return []entity.CalendarEntry{}
	}

	r := g.rotation
	entries := make([]entity.CalendarEntry, 0, postsPerWeek*r.Weeks)
	day := truncateToDay(start)
	nicheIndex, typeIndex := 0, 0

	for week := 0; week < r.Weeks; week++ {
		for slot := 0; slot < postsPerWeek; slot++ {
			niche := r.Niches[nicheIndex%len(r.Niches)]
			if kw, ok := queues.pop(niche); ok {
				entries = append(entries, entity.CalendarEntry{
					PublishDate:  day,
					Niche:        niche,
					Keyword:      kw.Keyword,
					SearchVolume: kw.SearchVolume,
					PostType:     r.PostTypes[typeIndex%len(r.PostTypes)],
				})
				typeIndex++
			}
			nicheIndex++
			day = day.AddDate(0, 0, r.SlotSpacingDays)
		}

		for isWeekend(day) {
			day = day.AddDate(0, 0, 1)
		}
	}

	return entries
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// truncateToDay drops the clock part of t, keeping its location.
func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
