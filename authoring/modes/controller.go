// Package modes tracks whether the lesson-entry form is creating a new
// lesson or editing an existing one. The distinction lives in one state
// machine so "open add-new right after editing lesson X" can never silently
// turn into an update of X.
package modes

import (
	"context"
	"errors"

	"lms/authoring/lesson"
)

// ErrNoTarget is returned when Submit is called with the form closed.
var ErrNoTarget = errors.New("modes: no lesson form is open")

// LessonWriter issues the create or update call a submission resolves to.
// client.Client implements it.
type LessonWriter interface {
	CreateLesson(ctx context.Context, moduleID uint, l *lesson.Lesson) (*lesson.Lesson, error)
	UpdateLesson(ctx context.Context, id uint, l *lesson.Lesson) (*lesson.Lesson, error)
}

// Mode is the controller's current state.
type Mode int

const (
	// Closed: no form open, no target.
	Closed Mode = iota
	// ComposingNew: the form will create a lesson under a module.
	ComposingNew
	// Editing: the form will update one specific lesson.
	Editing
)

func (m Mode) String() string {
	switch m {
	case ComposingNew:
		return "composing"
	case Editing:
		return "editing"
	default:
		return "closed"
	}
}

// Controller owns the lesson-entry form state. The target lesson identity is
// only ever set by OpenForEdit and always cleared by OpenForCreate, so a
// submission in ComposingNew cannot reach an update path.
type Controller struct {
	writer LessonWriter

	mode     Mode
	moduleID uint
	lessonID uint
	form     lesson.Lesson
}

// NewController returns a closed controller submitting through w.
func NewController(w LessonWriter) *Controller {
	return &Controller{writer: w}
}

// Mode returns the current state.
func (c *Controller) Mode() Mode { return c.mode }

// ModuleID returns the module the open form targets, zero when closed.
func (c *Controller) ModuleID() uint { return c.moduleID }

// Form gives access to the in-progress lesson fields. The pointer stays
// valid until the next OpenForCreate/OpenForEdit/Close.
func (c *Controller) Form() *lesson.Lesson { return &c.form }

// OpenForCreate opens a blank form targeting moduleID. Any residual editing
// target and leftover field values are dropped.
func (c *Controller) OpenForCreate(moduleID uint) {
	c.mode = ComposingNew
	c.moduleID = moduleID
	c.lessonID = 0
	c.form = lesson.Lesson{}
}

// OpenForEdit opens the form pre-filled from l, targeting that lesson's
// identity. The variant-specific exclusivity state carries over: a video
// lesson with an external link opens with the link active, not the upload.
func (c *Controller) OpenForEdit(l lesson.Lesson, moduleID uint) {
	c.mode = Editing
	c.moduleID = moduleID
	c.lessonID = l.ID

	c.form = l
	c.form.ID = 0 // the target identity lives in the controller, not the form
	if c.form.Kind == lesson.KindVideo && c.form.VideoURL != "" {
		c.form.SetVideoURL(c.form.VideoURL)
	}
}

// Submit validates the form and issues the call the current mode demands: a
// create in ComposingNew, an update of the tracked identity in Editing. On
// success the controller transitions to Closed and returns the canonical
// lesson. On failure it stays open with the form intact so the submission
// can be retried without re-entering everything.
func (c *Controller) Submit(ctx context.Context) (*lesson.Lesson, error) {
	switch c.mode {
	case ComposingNew:
		if err := c.form.Validate(); err != nil {
			return nil, err
		}
		saved, err := c.writer.CreateLesson(ctx, c.moduleID, &c.form)
		if err != nil {
			return nil, err
		}
		c.Close()
		return saved, nil
	case Editing:
		if err := c.form.Validate(); err != nil {
			return nil, err
		}
		c.form.ModuleID = c.moduleID
		saved, err := c.writer.UpdateLesson(ctx, c.lessonID, &c.form)
		if err != nil {
			return nil, err
		}
		c.Close()
		return saved, nil
	default:
		return nil, ErrNoTarget
	}
}

// Close discards the form and clears the target.
func (c *Controller) Close() {
	c.mode = Closed
	c.moduleID = 0
	c.lessonID = 0
	c.form = lesson.Lesson{}
}
