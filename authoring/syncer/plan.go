package syncer

import (
	"lms/authoring/client"
	"lms/authoring/draft"
	"lms/authoring/lesson"
)

// ModuleChange pairs a draft module with the order it must carry, derived
// from its position in the draft list.
type ModuleChange struct {
	Module *draft.Module
	Order  int
}

// ModulePlan is the minimal operation set that makes the remote module list
// match the draft: deletes first, then updates, then creates.
type ModulePlan struct {
	DeleteIDs []uint
	Updates   []ModuleChange
	Creates   []ModuleChange
}

// Empty reports whether the plan contains no create or delete operations.
// Updates are always resubmitted, so they do not count against emptiness.
func (p ModulePlan) Empty() bool {
	return len(p.DeleteIDs) == 0 && len(p.Creates) == 0
}

// BuildModulePlan partitions the draft module list against the remote one.
// Draft entries with a remote identity become updates, entries without one
// become creates, and remote identities absent from the draft become deletes.
func BuildModulePlan(draftMods []*draft.Module, remote []client.Module) ModulePlan {
	var plan ModulePlan

	draftIDs := make(map[uint]bool, len(draftMods))
	for _, m := range draftMods {
		if m.HasRemoteID() {
			draftIDs[m.ID] = true
		}
	}
	for _, r := range remote {
		if !draftIDs[r.ID] {
			plan.DeleteIDs = append(plan.DeleteIDs, r.ID)
		}
	}
	for i, m := range draftMods {
		change := ModuleChange{Module: m, Order: i + 1}
		if m.HasRemoteID() {
			plan.Updates = append(plan.Updates, change)
		} else {
			plan.Creates = append(plan.Creates, change)
		}
	}
	return plan
}

// LessonChange pairs a draft lesson with its derived order.
type LessonChange struct {
	Lesson *lesson.Lesson
	Order  int
}

// LessonPlan is the lesson-level counterpart of ModulePlan.
type LessonPlan struct {
	DeleteIDs []uint
	Updates   []LessonChange
	Creates   []LessonChange
}

// Empty reports whether the plan contains no create or delete operations.
func (p LessonPlan) Empty() bool {
	return len(p.DeleteIDs) == 0 && len(p.Creates) == 0
}

// BuildLessonPlan partitions a module's draft lessons against the remote
// ones, with the same rules as BuildModulePlan.
func BuildLessonPlan(draftLessons []*lesson.Lesson, remote []lesson.Lesson) LessonPlan {
	var plan LessonPlan

	draftIDs := make(map[uint]bool, len(draftLessons))
	for _, l := range draftLessons {
		if l.HasRemoteID() {
			draftIDs[l.ID] = true
		}
	}
	for _, r := range remote {
		if !draftIDs[r.ID] {
			plan.DeleteIDs = append(plan.DeleteIDs, r.ID)
		}
	}
	for i, l := range draftLessons {
		change := LessonChange{Lesson: l, Order: i + 1}
		if l.HasRemoteID() {
			plan.Updates = append(plan.Updates, change)
		} else {
			plan.Creates = append(plan.Creates, change)
		}
	}
	return plan
}
