package service

import (
	"math"
	"sort"

	"meetpoll-api/modules/meeting/entity"
)

// AggregateAvailability computes, for every slot selected by at least one
// participant, how many participants are free, who they are, and the share
// of the whole group. The result is independent of participant order and
// sorted by count descending, then percentage descending. With zero
// participants the result is empty and no percentage is ever divided by
// zero.
func AggregateAvailability(participants []entity.Participant) []entity.AggregatedSlot {
	total := len(participants)
	if total == 0 {
		return []entity.AggregatedSlot{}
	}

	type tally struct {
		count int
		names []string
	}
	counts := make(map[string]*tally)

	// Sort a copy by name so the output does not depend on input order.
	sorted := make([]entity.Participant, len(participants))
	copy(sorted, participants)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	for _, p := range sorted {
		for _, slot := range p.AvailableSlots {
			t, ok := counts[slot]
			if !ok {
				t = &tally{}
				counts[slot] = t
			}
			t.count++
			t.names = append(t.names, p.Name)
		}
	}

	results := make([]entity.AggregatedSlot, 0, len(counts))
	for slotID, t := range counts {
		results = append(results, entity.AggregatedSlot{
			SlotID:       slotID,
			Count:        t.count,
			Participants: t.names,
			Percentage:   int(math.Round(float64(t.count) / float64(total) * 100)),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Count != results[j].Count {
			return results[i].Count > results[j].Count
		}
		if results[i].Percentage != results[j].Percentage {
			return results[i].Percentage > results[j].Percentage
		}
		return results[i].SlotID < results[j].SlotID
	})

	return results
}
