package controllers

import (
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/utils"
	courseValidator "lms/validators/course"
)

func currentUser(c *fiber.Ctx) (*models.User, error) {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return nil, fiber.ErrUnauthorized
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return nil, fiber.ErrUnauthorized
	}
	return &user, nil
}

// ownedCourse loads the course and checks the requester is its instructor.
func ownedCourse(c *fiber.Ctx, courseID int) (*models.User, *courseModels.Course, error) {
	user, err := currentUser(c)
	if err != nil {
		return nil, nil, err
	}

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return nil, nil, fiber.ErrNotFound
	}
	if course.InstructorID != user.ID && user.Role != "ADMIN" {
		return nil, nil, fiber.ErrForbidden
	}
	return user, &course, nil
}

// CreateCourse creates a draft course for the requesting instructor
func CreateCourse(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedCourse").(*courseValidator.CourseForm)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	course := courseModels.Course{
		Title:        reqData.Title,
		Description:  reqData.Description,
		CategoryID:   reqData.CategoryID,
		InstructorID: user.ID,
		IsPublished:  reqData.IsPublished == "true",
	}

	if image, err := c.FormFile("image"); err == nil {
		path, saveErr := utils.SaveUploadedFile(image, filepath.Join(config.AppConfig.UploadDir, "course_images"))
		if saveErr != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to store course image!", nil)
		}
		course.ImageURL = utils.GetFileURL(path)
	}

	if err := database.Database.Db.Create(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	course.Modules = []courseModels.Module{}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", course)
}

// UpdateCourse patches an existing course owned by the requester
func UpdateCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	user, course, err := ownedCourse(c, courseID)
	if err != nil {
		return courseAccessError(c, err)
	}

	reqData, ok := c.Locals("validatedCourseUpdate").(*courseValidator.CourseForm)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.Title != "" {
		course.Title = reqData.Title
	}
	if reqData.Description != "" {
		course.Description = reqData.Description
	}
	if reqData.CategoryID != 0 {
		course.CategoryID = reqData.CategoryID
	}

	wasPublished := course.IsPublished
	if reqData.IsPublished != "" {
		course.IsPublished = reqData.IsPublished == "true"
	}

	if image, err := c.FormFile("image"); err == nil {
		path, saveErr := utils.SaveUploadedFile(image, filepath.Join(config.AppConfig.UploadDir, "course_images"))
		if saveErr != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to store course image!", nil)
		}
		course.ImageURL = utils.GetFileURL(path)
	}

	if err := database.Database.Db.Save(course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}

	if !wasPublished && course.IsPublished {
		utils.SendCoursePublishedEmail(user.Email, user.Name, course.Title)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", course)
}

// GetCourse returns the full course tree: modules and lessons in order
func GetCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	if _, err := currentUser(c); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var course courseModels.Course
	err := database.Database.Db.
		Where("id = ? AND is_deleted = ?", courseID, false).
		Preload("Modules", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_deleted = ?", false).Order("order_index asc")
		}).
		Preload("Modules.Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_deleted = ?", false).Order("order_index asc")
		}).
		First(&course).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if course.Modules == nil {
		course.Modules = []courseModels.Module{}
	}
	for i := range course.Modules {
		if course.Modules[i].Lessons == nil {
			course.Modules[i].Lessons = []courseModels.Lesson{}
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", course)
}

// GetMyCourses lists the requesting instructor's courses
func GetMyCourses(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var courses []courseModels.Course
	if err := database.Database.Db.
		Where("instructor_id = ? AND is_deleted = ?", user.ID, false).
		Order("created_at desc").
		Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", courses)
}

// DeleteCourse soft deletes a course with its modules and lessons
func DeleteCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	_, course, err := ownedCourse(c, courseID)
	if err != nil {
		return courseAccessError(c, err)
	}

	tx := database.Database.Db.Begin()

	course.IsDeleted = true
	if err := tx.Save(course).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}

	var moduleIDs []uint
	tx.Model(&courseModels.Module{}).Where("course_id = ?", course.ID).Pluck("id", &moduleIDs)

	if err := tx.Model(&courseModels.Module{}).Where("course_id = ?", course.ID).Update("is_deleted", true).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course modules!", nil)
	}
	if len(moduleIDs) > 0 {
		if err := tx.Model(&courseModels.Lesson{}).Where("module_id IN ?", moduleIDs).Update("is_deleted", true).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course lessons!", nil)
		}
	}

	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully!", nil)
}

func courseAccessError(c *fiber.Ctx, err error) error {
	switch err {
	case fiber.ErrUnauthorized:
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	case fiber.ErrForbidden:
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Not your course.", nil)
	default:
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}
}
