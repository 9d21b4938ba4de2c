package courseValidator

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/now"

	"lms/authoring/lesson"
	"lms/middleware"
)

// ============ Lesson Validators ============

// parseLessonForm builds a lesson value from the multipart form. File parts
// carry only name and size here; the controller re-reads the actual upload.
func parseLessonForm(c *fiber.Ctx) (*lesson.Lesson, map[string]string) {
	errors := make(map[string]string)

	l := &lesson.Lesson{
		Title: strings.TrimSpace(c.FormValue("title")),
		Kind:  lesson.Kind(strings.TrimSpace(c.FormValue("resourcetype"))),
	}

	if v := c.FormValue("module"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil || id <= 0 {
			errors["module"] = "Invalid module!"
		} else {
			l.ModuleID = uint(id)
		}
	}
	if v := c.FormValue("order"); v != "" {
		order, err := strconv.Atoi(v)
		if err != nil || order <= 0 {
			errors["order"] = "Order must be a positive number!"
		} else {
			l.Order = order
		}
	}

	switch l.Kind {
	case lesson.KindVideo:
		l.VideoURL = strings.TrimSpace(c.FormValue("video_url"))
		if fh, err := c.FormFile("source_file"); err == nil {
			l.SourceFile = &lesson.FilePart{Field: "source_file", Name: fh.Filename, Size: fh.Size}
		}
	case lesson.KindDocument:
		if fh, err := c.FormFile("file"); err == nil {
			l.File = &lesson.FilePart{Field: "file", Name: fh.Filename, Size: fh.Size}
		}
	case lesson.KindLive:
		if v := c.FormValue("start_time"); v != "" {
			t, err := now.Parse(v)
			if err != nil {
				errors["start_time"] = "Invalid start time!"
			} else {
				l.StartTime = t
			}
		}
		l.MeetingLink = strings.TrimSpace(c.FormValue("meeting_link"))
		if v := c.FormValue("duration_minutes"); v != "" {
			l.DurationMinutes, _ = strconv.Atoi(v)
		}
	case lesson.KindQuiz:
		if v := c.FormValue("duration_minutes"); v != "" {
			l.DurationMinutes, _ = strconv.Atoi(v)
		}
		if v := c.FormValue("passing_score"); v != "" {
			l.PassingScore, _ = strconv.Atoi(v)
		}
	case lesson.KindAssignment:
		if v := c.FormValue("due_date"); v != "" {
			t, err := now.Parse(v)
			if err != nil {
				errors["due_date"] = "Invalid due date!"
			} else {
				l.DueDate = t
			}
		}
		if v := c.FormValue("max_score"); v != "" {
			l.MaxScore, _ = strconv.Atoi(v)
		}
	case lesson.KindHTML:
		l.Content = c.FormValue("content")
	}

	return l, errors
}

// addLessonError maps a registry validation error onto the field it concerns.
func addLessonError(errors map[string]string, err error) {
	switch e := err.(type) {
	case *lesson.MissingFieldError:
		errors[e.Field] = "This field is required!"
	case *lesson.ConflictingFieldsError:
		errors[strings.Join(e.Fields, ",")] = "These fields cannot be set together!"
	case *lesson.FileTooLargeError:
		errors[e.Field] = "File is too large!"
	case *lesson.UnknownKindError:
		errors["resourcetype"] = "Unknown lesson type!"
	default:
		errors["lesson"] = err.Error()
	}
}

// CreateLesson validates lesson creation requests against the variant registry
func CreateLesson() fiber.Handler {
	return func(c *fiber.Ctx) error {
		l, errors := parseLessonForm(c)

		if l.ModuleID == 0 {
			errors["module"] = "Module is required!"
		}
		if len(errors) == 0 {
			if err := l.Validate(); err != nil {
				addLessonError(errors, err)
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedLesson", l)
		return c.Next()
	}
}

// UpdateLesson validates lesson update requests
func UpdateLesson() fiber.Handler {
	return func(c *fiber.Ctx) error {
		lessonID, err := parseIDParam(c, "id")
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Lesson ID!", nil)
		}

		l, errors := parseLessonForm(c)

		if l.Kind == "" {
			errors["resourcetype"] = "Resource type is required!"
		} else if !l.Kind.Valid() {
			errors["resourcetype"] = "Unknown lesson type!"
		}
		// Updates merge into the stored record, so only the fields that
		// were sent get checked; the full contract was enforced on create.
		if l.Kind == lesson.KindVideo && l.VideoURL != "" && l.SourceFile != nil {
			addLessonError(errors, &lesson.ConflictingFieldsError{Fields: []string{"video_url", "source_file"}})
		}
		if l.SourceFile != nil && l.SourceFile.Size > lesson.MaxVideoSize {
			addLessonError(errors, &lesson.FileTooLargeError{Field: "source_file", Size: l.SourceFile.Size, Limit: lesson.MaxVideoSize})
		}
		if l.File != nil && l.File.Size > lesson.MaxDocumentSize {
			addLessonError(errors, &lesson.FileTooLargeError{Field: "file", Size: l.File.Size, Limit: lesson.MaxDocumentSize})
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("lessonID", lessonID)
		c.Locals("validatedLessonUpdate", l)
		return c.Next()
	}
}

// LessonID validates the id path parameter for lesson delete
func LessonID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		lessonID, err := parseIDParam(c, "id")
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Lesson ID!", nil)
		}
		c.Locals("lessonID", lessonID)
		return c.Next()
	}
}
