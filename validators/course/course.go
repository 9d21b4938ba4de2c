package courseValidator

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"lms/middleware"
)

// ============ Course Validators ============

// CourseForm is the validated multipart payload for course create/update.
type CourseForm struct {
	Title       string
	CategoryID  uint
	Description string
	IsPublished string // "", "true" or "false"; empty means leave unchanged
}

// CreateCourse validates the course creation form
func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := &CourseForm{
			Title:       strings.TrimSpace(c.FormValue("title")),
			Description: strings.TrimSpace(c.FormValue("description")),
			IsPublished: strings.TrimSpace(c.FormValue("is_published")),
		}

		errors := make(map[string]string)

		if reqData.Title == "" {
			errors["title"] = "Title is required!"
		} else if len(reqData.Title) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}

		categoryStr := strings.TrimSpace(c.FormValue("category"))
		if categoryStr == "" {
			errors["category"] = "Category is required!"
		} else if categoryID, err := strconv.Atoi(categoryStr); err != nil || categoryID <= 0 {
			errors["category"] = "Invalid category!"
		} else {
			reqData.CategoryID = uint(categoryID)
		}

		if reqData.IsPublished != "" && reqData.IsPublished != "true" && reqData.IsPublished != "false" {
			errors["is_published"] = "is_published must be true or false!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

// UpdateCourse validates the course update form; all fields are optional
func UpdateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, err := parseIDParam(c, "id")
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		reqData := &CourseForm{
			Title:       strings.TrimSpace(c.FormValue("title")),
			Description: strings.TrimSpace(c.FormValue("description")),
			IsPublished: strings.TrimSpace(c.FormValue("is_published")),
		}

		errors := make(map[string]string)

		if reqData.Title != "" && len(reqData.Title) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}

		if categoryStr := strings.TrimSpace(c.FormValue("category")); categoryStr != "" {
			if categoryID, convErr := strconv.Atoi(categoryStr); convErr != nil || categoryID <= 0 {
				errors["category"] = "Invalid category!"
			} else {
				reqData.CategoryID = uint(categoryID)
			}
		}

		if reqData.IsPublished != "" && reqData.IsPublished != "true" && reqData.IsPublished != "false" {
			errors["is_published"] = "is_published must be true or false!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("courseID", courseID)
		c.Locals("validatedCourseUpdate", reqData)
		return c.Next()
	}
}

// CourseID validates the id path parameter for get/delete routes
func CourseID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, err := parseIDParam(c, "id")
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}
		c.Locals("courseID", courseID)
		return c.Next()
	}
}

// CategoryBody is the JSON payload for category creation.
type CategoryBody struct {
	Name string `json:"name"`
}

// CreateCategory validates the category creation request
func CreateCategory() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CategoryBody)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.Name = strings.TrimSpace(reqData.Name)
		if reqData.Name == "" {
			return middleware.ValidationErrorResponse(c, map[string]string{"name": "Name is required!"})
		}

		c.Locals("validatedCategory", reqData)
		return c.Next()
	}
}

func parseIDParam(c *fiber.Ctx, name string) (int, error) {
	idStr := strings.TrimSpace(c.Params(name))
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		return 0, fiber.ErrBadRequest
	}
	return id, nil
}
