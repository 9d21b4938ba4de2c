package draft

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"

	"lms/authoring/lesson"
)

var validate = validator.New()

var (
	ErrIndexOutOfRange = errors.New("draft: index out of range")
	ErrLastModule      = errors.New("draft: a course needs at least one module")
	ErrClosed          = errors.New("draft: draft has been discarded")
)

// CourseFields are the editable course attributes of a draft.
type CourseFields struct {
	Title       string `validate:"required,min=3"`
	CategoryID  uint   `validate:"required"`
	Description string
	ImagePath   string // local file pending upload
	ImageURL    string // image already stored remotely
	IsPublished bool
}

// Module is one entry of the draft's ordered module list. ID is zero until
// the synchronization engine persists the module and writes the remote
// identity back.
type Module struct {
	ID          uint
	Title       string
	Description string
	Lessons     []*lesson.Lesson
}

// HasRemoteID reports whether the module has already been persisted.
func (m *Module) HasRemoteID() bool {
	return m.ID != 0
}

// Draft is the working tree of one authoring session: course fields plus an
// ordered module list. Every operation is local and synchronous; nothing here
// talks to the network. Module and lesson order is always derived from slice
// position, never from stored order values.
type Draft struct {
	CourseID uint
	Course   CourseFields
	Modules  []*Module

	mu     sync.Mutex
	closed bool
}

// New returns a draft for a brand-new course, seeded with one empty module.
func New() *Draft {
	d := &Draft{}
	d.AddModule(-1)
	return d
}

// SetCourseFields shallow-merges the non-zero fields of f into the draft
// course. IsPublished is a bool and merges through SetPublished instead.
func (d *Draft) SetCourseFields(f CourseFields) {
	if f.Title != "" {
		d.Course.Title = f.Title
	}
	if f.CategoryID != 0 {
		d.Course.CategoryID = f.CategoryID
	}
	if f.Description != "" {
		d.Course.Description = f.Description
	}
	if f.ImagePath != "" {
		d.Course.ImagePath = f.ImagePath
		d.Course.ImageURL = ""
	}
	if f.ImageURL != "" {
		d.Course.ImageURL = f.ImageURL
	}
}

// SetPublished toggles the course publish flag.
func (d *Draft) SetPublished(published bool) {
	d.Course.IsPublished = published
}

// ValidateCourse checks that the course fields are complete enough to save.
func (d *Draft) ValidateCourse() error {
	return validate.Struct(d.Course)
}

// AddModule inserts a new module after afterIndex (-1 prepends, anything past
// the end appends) and returns it. The default title reflects the module's
// position at creation time.
func (d *Draft) AddModule(afterIndex int) *Module {
	pos := afterIndex + 1
	if pos < 0 {
		pos = 0
	}
	if pos > len(d.Modules) {
		pos = len(d.Modules)
	}

	m := &Module{Title: fmt.Sprintf("%d. Week", pos+1)}
	d.Modules = append(d.Modules, nil)
	copy(d.Modules[pos+1:], d.Modules[pos:])
	d.Modules[pos] = m
	return m
}

// RemoveModule deletes the module at index locally. If the module carries a
// remote identity the actual server-side delete happens on the next
// synchronization pass.
func (d *Draft) RemoveModule(index int) error {
	if index < 0 || index >= len(d.Modules) {
		return ErrIndexOutOfRange
	}
	if len(d.Modules) == 1 {
		return ErrLastModule
	}
	d.Modules = append(d.Modules[:index], d.Modules[index+1:]...)
	return nil
}

// MoveModule moves the module at from to position to.
func (d *Draft) MoveModule(from, to int) error {
	if from < 0 || from >= len(d.Modules) || to < 0 || to >= len(d.Modules) {
		return ErrIndexOutOfRange
	}
	m := d.Modules[from]
	d.Modules = append(d.Modules[:from], d.Modules[from+1:]...)
	d.Modules = append(d.Modules, nil)
	copy(d.Modules[to+1:], d.Modules[to:])
	d.Modules[to] = m
	return nil
}

// AddLesson appends l to the lesson list of the module at moduleIndex.
func (d *Draft) AddLesson(moduleIndex int, l *lesson.Lesson) error {
	if moduleIndex < 0 || moduleIndex >= len(d.Modules) {
		return ErrIndexOutOfRange
	}
	d.Modules[moduleIndex].Lessons = append(d.Modules[moduleIndex].Lessons, l)
	return nil
}

// UpdateLesson replaces the lesson at lessonIndex, preserving its remote
// identity so the next sync issues an update, not a duplicate create.
func (d *Draft) UpdateLesson(moduleIndex, lessonIndex int, l *lesson.Lesson) error {
	m, err := d.module(moduleIndex)
	if err != nil {
		return err
	}
	if lessonIndex < 0 || lessonIndex >= len(m.Lessons) {
		return ErrIndexOutOfRange
	}
	l.ID = m.Lessons[lessonIndex].ID
	m.Lessons[lessonIndex] = l
	return nil
}

// RemoveLesson deletes the lesson at lessonIndex locally.
func (d *Draft) RemoveLesson(moduleIndex, lessonIndex int) error {
	m, err := d.module(moduleIndex)
	if err != nil {
		return err
	}
	if lessonIndex < 0 || lessonIndex >= len(m.Lessons) {
		return ErrIndexOutOfRange
	}
	m.Lessons = append(m.Lessons[:lessonIndex], m.Lessons[lessonIndex+1:]...)
	return nil
}

// MoveLesson moves a lesson within its module.
func (d *Draft) MoveLesson(moduleIndex, from, to int) error {
	m, err := d.module(moduleIndex)
	if err != nil {
		return err
	}
	if from < 0 || from >= len(m.Lessons) || to < 0 || to >= len(m.Lessons) {
		return ErrIndexOutOfRange
	}
	l := m.Lessons[from]
	m.Lessons = append(m.Lessons[:from], m.Lessons[from+1:]...)
	m.Lessons = append(m.Lessons, nil)
	copy(m.Lessons[to+1:], m.Lessons[to:])
	m.Lessons[to] = l
	return nil
}

// Close marks the draft discarded. A closed draft refuses identity backfill,
// so results of saves still in flight when the wizard closes are dropped.
// Close may be called while a save is running.
func (d *Draft) Close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
}

// Closed reports whether the draft was discarded.
func (d *Draft) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

func (d *Draft) module(i int) (*Module, error) {
	if i < 0 || i >= len(d.Modules) {
		return nil, ErrIndexOutOfRange
	}
	return d.Modules[i], nil
}
