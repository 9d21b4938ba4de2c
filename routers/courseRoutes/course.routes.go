package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up the authoring API consumed by the course builder
func SetupCourseRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	// Categories
	api.Get("/categories", middleware.JWTMiddleware, controllers.ListCategories)
	api.Post("/categories", middleware.JWTMiddleware, validators.CreateCategory(), controllers.CreateCategory)

	// Courses (multipart, image upload)
	api.Post("/courses", middleware.JWTMiddleware, validators.CreateCourse(), controllers.CreateCourse)
	api.Get("/courses", middleware.JWTMiddleware, controllers.GetMyCourses)
	api.Get("/courses/:id", middleware.JWTMiddleware, validators.CourseID(), controllers.GetCourse)
	api.Patch("/courses/:id", middleware.JWTMiddleware, validators.UpdateCourse(), controllers.UpdateCourse)
	api.Delete("/courses/:id", middleware.JWTMiddleware, validators.CourseID(), controllers.DeleteCourse)

	// Modules (JSON body carries the course id)
	api.Post("/modules", middleware.JWTMiddleware, validators.CreateModule(), controllers.CreateModule)
	api.Patch("/modules/:id", middleware.JWTMiddleware, validators.UpdateModule(), controllers.UpdateModule)
	api.Delete("/modules/:id", middleware.JWTMiddleware, validators.ModuleID(), controllers.DeleteModule)

	// Lessons (multipart, resourcetype picks the shape)
	api.Post("/lessons", middleware.JWTMiddleware, validators.CreateLesson(), controllers.CreateLesson)
	api.Patch("/lessons/:id", middleware.JWTMiddleware, validators.UpdateLesson(), controllers.UpdateLesson)
	api.Delete("/lessons/:id", middleware.JWTMiddleware, validators.LessonID(), controllers.DeleteLesson)
}
