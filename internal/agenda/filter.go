package agenda

import "citadel/internal/model"

// StatusFilter selects reminders by completion.
type StatusFilter string

const (
	FilterAll       StatusFilter = "all"
	FilterPending   StatusFilter = "pending"
	FilterCompleted StatusFilter = "completed"
)

// ParseStatusFilter maps unknown values to FilterAll.
func ParseStatusFilter(s string) StatusFilter {
	switch StatusFilter(s) {
	case FilterPending, FilterCompleted:
		return StatusFilter(s)
	default:
		return FilterAll
	}
}

func Filter(reminders []model.Reminder, f StatusFilter) []model.Reminder {
	out := make([]model.Reminder, 0, len(reminders))
	for _, r := range reminders {
		switch f {
		case FilterCompleted:
			if !r.IsCompleted {
				continue
			}
		case FilterPending:
			if r.IsCompleted {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

// CategoryCounts counts entries per known category. Every category is
// present in the result, with zero when the user has none.
func CategoryCounts(entries []model.ContentEntry) map[string]int {
	counts := make(map[string]int, len(model.Categories))
	for _, c := range model.Categories {
		counts[c] = 0
	}
	for _, e := range entries {
		if _, ok := counts[e.Category]; ok {
			counts[e.Category]++
		}
	}
	return counts
}
