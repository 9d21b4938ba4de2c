package syncer

import (
	"testing"

	"lms/authoring/client"
	"lms/authoring/draft"
	"lms/authoring/lesson"
)

func TestBuildLessonPlan(t *testing.T) {
	a := &lesson.Lesson{ID: 1, Title: "A", Kind: lesson.KindHTML, Content: "x"}
	b := &lesson.Lesson{Title: "B", Kind: lesson.KindHTML, Content: "x"}
	c := &lesson.Lesson{ID: 3, Title: "C", Kind: lesson.KindHTML, Content: "x"}
	remote := []lesson.Lesson{
		{ID: 1, Title: "A"},
		{ID: 3, Title: "C"},
		{ID: 4, Title: "D"},
	}

	plan := BuildLessonPlan([]*lesson.Lesson{a, b, c}, remote)

	if len(plan.DeleteIDs) != 1 || plan.DeleteIDs[0] != 4 {
		t.Errorf("DeleteIDs = %v, want [4]", plan.DeleteIDs)
	}
	if len(plan.Creates) != 1 || plan.Creates[0].Lesson != b {
		t.Errorf("Creates = %+v, want just B", plan.Creates)
	}
	if len(plan.Updates) != 2 {
		t.Fatalf("Updates = %d, want 2", len(plan.Updates))
	}
	// Order always comes from list position.
	if plan.Updates[0].Order != 1 || plan.Creates[0].Order != 2 || plan.Updates[1].Order != 3 {
		t.Errorf("orders = %d/%d/%d, want 1/2/3",
			plan.Updates[0].Order, plan.Creates[0].Order, plan.Updates[1].Order)
	}
}

func TestBuildModulePlanEmpty(t *testing.T) {
	m := &draft.Module{ID: 10, Title: "1. Week"}
	remote := []client.Module{{ID: 10, Title: "1. Week", Order: 1}}

	plan := BuildModulePlan([]*draft.Module{m}, remote)
	if !plan.Empty() {
		t.Errorf("plan = %+v, want no creates or deletes", plan)
	}
	if len(plan.Updates) != 1 {
		t.Errorf("Updates = %d, modules are always resubmitted", len(plan.Updates))
	}
}

func TestBuildModulePlanAgainstEmptyRemote(t *testing.T) {
	mods := []*draft.Module{{Title: "1. Week"}, {Title: "2. Week"}}
	plan := BuildModulePlan(mods, nil)
	if len(plan.DeleteIDs) != 0 || len(plan.Updates) != 0 || len(plan.Creates) != 2 {
		t.Errorf("plan = %+v, want two creates only", plan)
	}
}
