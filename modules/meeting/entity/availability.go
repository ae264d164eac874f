package entity

// TimeMarker is one row of the day grid: a time-of-day at 30-minute
// granularity. The catalog of 48 markers is constant and independent of
// the meeting's dates.
type TimeMarker struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// AggregatedSlot holds the per-slot availability stats across all
// participants. Derived on every results load, never persisted.
type AggregatedSlot struct {
	SlotID       string   `json:"slotId"`
	Count        int      `json:"count"`
	Participants []string `json:"participants"`
	Percentage   int      `json:"percentage"`
}

// ResultWindow is a maximal run of temporally contiguous aggregated slots
// sharing the same participant set and percentage, rendered in the viewer's
// timezone.
type ResultWindow struct {
	StartSlot       string   `json:"startSlot"`
	EndSlot         string   `json:"endSlot"`
	Date            string   `json:"date"`
	StartTime       string   `json:"startTime"`
	EndTime         string   `json:"endTime"`
	Participants    []string `json:"participants"`
	Count           int      `json:"count"`
	Percentage      int      `json:"percentage"`
	DurationMinutes int      `json:"durationMinutes"`
}

// GroupedResults is the final ranked display list plus majority-filter
// metadata.
type GroupedResults struct {
	Windows     []ResultWindow `json:"windows"`
	HiddenCount int            `json:"hiddenCount"`
	NoMajority  bool           `json:"noMajority"`
}
