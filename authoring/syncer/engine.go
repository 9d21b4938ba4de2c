// Package syncer reconciles a local draft course tree against the remote
// content service with the fewest operations that make both sides match.
package syncer

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"lms/authoring/client"
	"lms/authoring/draft"
	"lms/authoring/lesson"
)

// ErrDraftClosed is returned when the draft is discarded while a save is in
// flight. Requests already issued are allowed to finish; their results are
// dropped instead of being folded into the dead draft.
var ErrDraftClosed = errors.New("syncer: draft was discarded during save")

// RemoteAPI is the slice of the content service the engine needs. client.Client
// implements it.
type RemoteAPI interface {
	CreateCourse(ctx context.Context, data client.CourseData) (*client.Course, error)
	UpdateCourse(ctx context.Context, id uint, data client.CourseData) (*client.Course, error)
	GetCourse(ctx context.Context, id uint) (*client.Course, error)
	CreateModule(ctx context.Context, courseID uint, data client.ModuleData) (*client.Module, error)
	UpdateModule(ctx context.Context, id uint, data client.ModuleData) (*client.Module, error)
	DeleteModule(ctx context.Context, id uint) error
	CreateLesson(ctx context.Context, moduleID uint, l *lesson.Lesson) (*lesson.Lesson, error)
	UpdateLesson(ctx context.Context, id uint, l *lesson.Lesson) (*lesson.Lesson, error)
	DeleteLesson(ctx context.Context, id uint) error
}

// OpError wraps a failed remote operation with enough context for the UI to
// report it and offer a retry. Operations already applied before the failure
// keep their backfilled identities, so retrying the save never re-creates
// entities that succeeded.
type OpError struct {
	Op     string // "create", "update" or "delete"
	Entity string // "course", "module" or "lesson"
	ID     uint   // remote identity, zero for creates
	Err    error
}

func (e *OpError) Error() string {
	if e.ID != 0 {
		return fmt.Sprintf("syncer: %s %s %d: %v", e.Op, e.Entity, e.ID, e.Err)
	}
	return fmt.Sprintf("syncer: %s %s: %v", e.Op, e.Entity, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

// Engine executes synchronization passes. It is the sole writer of remote
// identities into a draft.
type Engine struct {
	api RemoteAPI
}

// New returns an engine backed by api.
func New(api RemoteAPI) *Engine {
	return &Engine{api: api}
}

// LoadDraft fetches a persisted course and seeds an editing draft from it.
func (e *Engine) LoadDraft(ctx context.Context, courseID uint) (*draft.Draft, error) {
	course, err := e.api.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	d := &draft.Draft{}
	fold(d, course)
	return d, nil
}

// SaveCourse makes the remote tree match d and folds the canonical result
// back into the draft. Within each list level operations run strictly in
// sequence (deletes, then updates, then creates); lesson batches of distinct
// modules run concurrently since they cannot collide. On the first failed
// operation the remaining batch is abandoned and the failure is returned;
// identities already backfilled stay in place, so the save can simply be
// retried.
func (e *Engine) SaveCourse(ctx context.Context, d *draft.Draft) error {
	if err := d.ValidateCourse(); err != nil {
		return err
	}

	courseID, err := e.saveCourseFields(ctx, d)
	if err != nil {
		return err
	}

	remote, err := e.api.GetCourse(ctx, courseID)
	if err != nil {
		return &OpError{Op: "fetch", Entity: "course", ID: courseID, Err: err}
	}

	if err := e.syncModules(ctx, d, courseID, remote.Modules); err != nil {
		return err
	}

	remoteLessons := make(map[uint][]lesson.Lesson, len(remote.Modules))
	for _, m := range remote.Modules {
		remoteLessons[m.ID] = m.Lessons
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, m := range d.Modules {
		m := m
		g.Go(func() error {
			return e.syncLessons(gctx, d, m, remoteLessons[m.ID])
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	// Server is the source of truth after a successful save: refetch the
	// canonical tree and replace the draft in one step.
	final, err := e.api.GetCourse(ctx, courseID)
	if err != nil {
		return &OpError{Op: "fetch", Entity: "course", ID: courseID, Err: err}
	}
	if d.Closed() {
		return ErrDraftClosed
	}
	fold(d, final)
	return nil
}

func (e *Engine) saveCourseFields(ctx context.Context, d *draft.Draft) (uint, error) {
	data := client.CourseData{
		Title:       d.Course.Title,
		CategoryID:  d.Course.CategoryID,
		Description: d.Course.Description,
		ImagePath:   d.Course.ImagePath,
		IsPublished: d.Course.IsPublished,
	}

	if d.CourseID == 0 {
		course, err := e.api.CreateCourse(ctx, data)
		if err != nil {
			return 0, &OpError{Op: "create", Entity: "course", Err: err}
		}
		if d.Closed() {
			return 0, ErrDraftClosed
		}
		d.CourseID = course.ID
		return course.ID, nil
	}

	if _, err := e.api.UpdateCourse(ctx, d.CourseID, data); err != nil {
		return 0, &OpError{Op: "update", Entity: "course", ID: d.CourseID, Err: err}
	}
	return d.CourseID, nil
}

func (e *Engine) syncModules(ctx context.Context, d *draft.Draft, courseID uint, remote []client.Module) error {
	plan := BuildModulePlan(d.Modules, remote)

	// Deletes go first so a rename-and-reorder in the same save cannot
	// trip over the leaving module.
	for _, id := range plan.DeleteIDs {
		if err := e.api.DeleteModule(ctx, id); err != nil {
			return &OpError{Op: "delete", Entity: "module", ID: id, Err: err}
		}
	}
	for _, ch := range plan.Updates {
		data := client.ModuleData{Title: ch.Module.Title, Description: ch.Module.Description, Order: ch.Order}
		if _, err := e.api.UpdateModule(ctx, ch.Module.ID, data); err != nil {
			return &OpError{Op: "update", Entity: "module", ID: ch.Module.ID, Err: err}
		}
	}
	for _, ch := range plan.Creates {
		data := client.ModuleData{Title: ch.Module.Title, Description: ch.Module.Description, Order: ch.Order}
		saved, err := e.api.CreateModule(ctx, courseID, data)
		if err != nil {
			return &OpError{Op: "create", Entity: "module", Err: err}
		}
		if d.Closed() {
			return ErrDraftClosed
		}
		// Backfill in place: the next pass must classify this module as
		// an update, never a second create.
		ch.Module.ID = saved.ID
	}
	return nil
}

func (e *Engine) syncLessons(ctx context.Context, d *draft.Draft, m *draft.Module, remote []lesson.Lesson) error {
	plan := BuildLessonPlan(m.Lessons, remote)

	for _, id := range plan.DeleteIDs {
		if err := e.api.DeleteLesson(ctx, id); err != nil {
			return &OpError{Op: "delete", Entity: "lesson", ID: id, Err: err}
		}
	}
	for _, ch := range plan.Updates {
		ch.Lesson.Order = ch.Order
		ch.Lesson.ModuleID = m.ID
		if _, err := e.api.UpdateLesson(ctx, ch.Lesson.ID, ch.Lesson); err != nil {
			return &OpError{Op: "update", Entity: "lesson", ID: ch.Lesson.ID, Err: err}
		}
	}
	for _, ch := range plan.Creates {
		ch.Lesson.Order = ch.Order
		saved, err := e.api.CreateLesson(ctx, m.ID, ch.Lesson)
		if err != nil {
			return &OpError{Op: "create", Entity: "lesson", Err: err}
		}
		if d.Closed() {
			return ErrDraftClosed
		}
		ch.Lesson.ID = saved.ID
	}
	return nil
}

// fold replaces the draft tree with the canonical server copy.
func fold(d *draft.Draft, course *client.Course) {
	mods := make([]*draft.Module, 0, len(course.Modules))
	for _, rm := range course.Modules {
		m := &draft.Module{
			ID:          rm.ID,
			Title:       rm.Title,
			Description: rm.Description,
		}
		for i := range rm.Lessons {
			l := rm.Lessons[i]
			m.Lessons = append(m.Lessons, &l)
		}
		mods = append(mods, m)
	}

	d.CourseID = course.ID
	d.Course = draft.CourseFields{
		Title:       course.Title,
		CategoryID:  course.CategoryID,
		Description: course.Description,
		ImageURL:    course.ImageURL,
		IsPublished: course.IsPublished,
	}
	d.Modules = mods
}
