package query

import (
	"slices"
	"testing"
	"time"

	"github.com/nhle/todo-manager/internal/model"
)

var t0 = time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)

func at(d time.Duration) *time.Time {
	v := t0.Add(d)
	return &v
}

func prio(p model.Priority) *model.Priority { return &p }

func ids(tasks []model.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func fixture() []model.Task {
	return []model.Task{
		{ID: "milk", Title: "Buy milk", Priority: model.PriorityLow, Category: model.CategoryShopping, CreatedAt: t0},
		{ID: "rent", Title: "Pay rent", Priority: model.PriorityHigh, DueDate: at(72 * time.Hour), CreatedAt: t0.Add(time.Minute)},
		{ID: "cafe", Title: "Café with Ana", Priority: model.PriorityMedium, DueDate: at(24 * time.Hour), CreatedAt: t0.Add(2 * time.Minute)},
		{ID: "taxes", Title: "File taxes", Priority: model.PriorityHigh, DueDate: at(-24 * time.Hour), CreatedAt: t0.Add(3 * time.Minute)},
		{ID: "eggs", Title: "buy EGGS and milk", Priority: model.PriorityLow, DueDate: at(24 * time.Hour), CreatedAt: t0.Add(-time.Minute)},
	}
}

func TestApplyPriorityFilter(t *testing.T) {
	tests := []struct {
		name   string
		filter *model.Priority
		want   []string
	}{
		{name: "all", filter: nil, want: []string{"taxes", "eggs", "cafe", "rent", "milk"}},
		{name: "low", filter: prio(model.PriorityLow), want: []string{"eggs", "milk"}},
		{name: "medium", filter: prio(model.PriorityMedium), want: []string{"cafe"}},
		{name: "high", filter: prio(model.PriorityHigh), want: []string{"taxes", "rent"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Apply(fixture(), Filter{Priority: tt.filter}))
			if !slices.Equal(got, tt.want) {
				t.Errorf("Apply() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApplySearch(t *testing.T) {
	tests := []struct {
		search string
		want   []string
	}{
		{search: "", want: []string{"taxes", "eggs", "cafe", "rent", "milk"}},
		{search: "milk", want: []string{"eggs", "milk"}},
		{search: "MILK", want: []string{"eggs", "milk"}},
		{search: "eggs", want: []string{"eggs"}},
		{search: "cafe", want: []string{"cafe"}},
		{search: "with", want: []string{"cafe"}},
		{search: " milk", want: []string{"eggs", "milk"}},
		{search: "milk ", want: nil},
		{search: "bread", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.search, func(t *testing.T) {
			got := ids(Apply(fixture(), Filter{Search: tt.search}))
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Apply(search=%q) = %v, want %v", tt.search, got, tt.want)
			}
		})
	}
}

func TestApplyScenarioBuyMilk(t *testing.T) {
	t1 := model.Task{ID: "t1", Title: "Buy milk", Priority: model.PriorityLow, Category: model.CategoryShopping, CreatedAt: t0}
	tasks := []model.Task{t1}

	cases := []struct {
		f    Filter
		keep bool
	}{
		{Filter{Priority: prio(model.PriorityLow)}, true},
		{Filter{Priority: prio(model.PriorityHigh)}, false},
		{Filter{}, true},
		{Filter{Search: "milk"}, true},
		{Filter{Search: "eggs"}, false},
	}
	for _, c := range cases {
		got := Apply(tasks, c.f)
		if (len(got) == 1) != c.keep {
			t.Errorf("filter %+v kept=%v, want %v", c.f, len(got) == 1, c.keep)
		}
	}
}

func TestApplyIsIdempotentAndCommutative(t *testing.T) {
	tasks := fixture()
	both := Filter{Priority: prio(model.PriorityLow), Search: "milk"}

	once := Apply(tasks, both)
	twice := Apply(once, both)
	if !slices.Equal(ids(once), ids(twice)) {
		t.Errorf("not idempotent: %v then %v", ids(once), ids(twice))
	}

	priorityFirst := Apply(Apply(tasks, Filter{Priority: both.Priority}), Filter{Search: both.Search})
	searchFirst := Apply(Apply(tasks, Filter{Search: both.Search}), Filter{Priority: both.Priority})
	if !slices.Equal(ids(priorityFirst), ids(searchFirst)) {
		t.Errorf("not commutative: %v vs %v", ids(priorityFirst), ids(searchFirst))
	}
	if !slices.Equal(ids(once), ids(priorityFirst)) {
		t.Errorf("combined %v differs from sequential %v", ids(once), ids(priorityFirst))
	}
}

func TestApplyOrdersUndatedLast(t *testing.T) {
	tasks := []model.Task{
		{ID: "b-undated", Title: "b", CreatedAt: t0},
		{ID: "late", Title: "late", DueDate: at(48 * time.Hour), CreatedAt: t0},
		{ID: "a-undated", Title: "a", CreatedAt: t0},
		{ID: "old-undated", Title: "old", CreatedAt: t0.Add(-time.Hour)},
		{ID: "early", Title: "early", DueDate: at(time.Hour), CreatedAt: t0},
	}

	got := ids(Apply(tasks, Filter{}))
	want := []string{"early", "late", "old-undated", "a-undated", "b-undated"}
	if !slices.Equal(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestApplySameDueDateBreaksTieOnCreation(t *testing.T) {
	tasks := []model.Task{
		{ID: "second", DueDate: at(time.Hour), CreatedAt: t0.Add(time.Second)},
		{ID: "first", DueDate: at(time.Hour), CreatedAt: t0},
	}
	got := ids(Apply(tasks, Filter{}))
	if !slices.Equal(got, []string{"first", "second"}) {
		t.Errorf("order = %v", got)
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	tasks := fixture()
	before := ids(tasks)

	_ = Apply(tasks, Filter{Priority: prio(model.PriorityHigh), Search: "a"})
	_ = Apply(tasks, Filter{})

	if !slices.Equal(ids(tasks), before) {
		t.Errorf("input reordered: %v, was %v", ids(tasks), before)
	}

	first := ids(Apply(tasks, Filter{}))
	second := ids(Apply(tasks, Filter{}))
	if !slices.Equal(first, second) {
		t.Errorf("repeated calls differ: %v vs %v", first, second)
	}
}

func TestParsePriorityFilter(t *testing.T) {
	for _, s := range []string{"", "all", "All"} {
		p, err := ParsePriorityFilter(s)
		if err != nil || p != nil {
			t.Errorf("ParsePriorityFilter(%q) = %v, %v; want nil", s, p, err)
		}
	}

	p, err := ParsePriorityFilter("High")
	if err != nil || p == nil || *p != model.PriorityHigh {
		t.Errorf("ParsePriorityFilter(High) = %v, %v", p, err)
	}

	if _, err := ParsePriorityFilter("urgent"); err == nil {
		t.Error("expected error for unknown filter")
	}
}
