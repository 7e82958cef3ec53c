package agenda

import (
	"testing"
	"time"

	"citadel/internal/model"

	"github.com/stretchr/testify/assert"
)

var now = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func TestClassify(t *testing.T) {
	cases := []struct {
		name      string
		due       time.Time
		completed bool
		want      Urgency
	}{
		{"one hour away", time.Date(2024, 1, 1, 13, 0, 0, 0, time.UTC), false, UrgencyCritical},
		{"overdue", now.Add(-48 * time.Hour), false, UrgencyCritical},
		{"exactly two hours", now.Add(2 * time.Hour), false, UrgencyWarning},
		{"eighteen hours away", time.Date(2024, 1, 2, 6, 0, 0, 0, time.UTC), false, UrgencyWarning},
		{"exactly a day", now.Add(24 * time.Hour), false, UrgencyNormal},
		{"days away", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), false, UrgencyNormal},
		{"completed overdue", now.Add(-time.Hour), true, UrgencyNone},
		{"completed far", now.Add(100 * time.Hour), true, UrgencyNone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.due, tc.completed, now))
		})
	}
}

func reminderDue(id int64, offset time.Duration, completed bool) model.Reminder {
	return model.Reminder{ID: id, DueDate: now.Add(offset), IsCompleted: completed}
}

func ids(rs []model.Reminder) []int64 {
	out := make([]int64, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.ID)
	}
	return out
}

func TestUpcomingSelectsSoonestThree(t *testing.T) {
	rs := []model.Reminder{
		reminderDue(1, time.Hour, false),
		reminderDue(2, 5*time.Hour, false),
		reminderDue(3, 30*time.Hour, false),
		reminderDue(4, 2*time.Hour, false),
	}
	assert.Equal(t, []int64{1, 4, 2}, ids(Upcoming(rs, UpcomingLimit)))
}

func TestUpcomingSkipsCompletedAndKeepsTieOrder(t *testing.T) {
	rs := []model.Reminder{
		reminderDue(1, 3*time.Hour, false),
		reminderDue(2, time.Hour, true),
		reminderDue(3, 3*time.Hour, false),
		reminderDue(4, 3*time.Hour, false),
		reminderDue(5, 3*time.Hour, false),
	}
	assert.Equal(t, []int64{1, 3, 4}, ids(Upcoming(rs, 3)))
	assert.Empty(t, Upcoming(nil, 3))
}

func TestSortByUrgency(t *testing.T) {
	items := ClassifyAll([]model.Reminder{
		reminderDue(1, 50*time.Hour, false),
		reminderDue(2, time.Hour, true),
		reminderDue(3, 10*time.Hour, false),
		reminderDue(4, 30*time.Minute, false),
	}, now)
	SortByUrgency(items)

	got := make([]int64, 0, len(items))
	for _, it := range items {
		got = append(got, it.ID)
	}
	assert.Equal(t, []int64{4, 3, 1, 2}, got)
}

func TestFilter(t *testing.T) {
	rs := []model.Reminder{
		reminderDue(1, time.Hour, false),
		reminderDue(2, time.Hour, true),
	}
	assert.Equal(t, []int64{1, 2}, ids(Filter(rs, FilterAll)))
	assert.Equal(t, []int64{1}, ids(Filter(rs, ParseStatusFilter("pending"))))
	assert.Equal(t, []int64{2}, ids(Filter(rs, ParseStatusFilter("completed"))))
	assert.Equal(t, FilterAll, ParseStatusFilter("bogus"))
}

func TestCategoryCounts(t *testing.T) {
	counts := CategoryCounts([]model.ContentEntry{
		{Category: model.CategoryMusic},
		{Category: model.CategoryMusic},
		{Category: model.CategoryLiterature},
		{Category: "poetry"},
	})
	assert.Equal(t, map[string]int{
		model.CategoryLiterature: 1,
		model.CategoryRituals:    0,
		model.CategoryAesthetics: 0,
		model.CategoryMusic:      2,
	}, counts)
}
