package controllers

import (
	"path/filepath"

	"github.com/gofiber/fiber/v2"

	"lms/authoring/lesson"
	"lms/config"
	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"
	"lms/utils"
)

// ownedModule loads a module and checks course ownership through it.
func ownedModule(c *fiber.Ctx, moduleID uint) (*courseModels.Module, error) {
	var module courseModels.Module
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", moduleID, false).First(&module).Error; err != nil {
		return nil, fiber.ErrNotFound
	}
	if _, _, err := ownedCourse(c, int(module.CourseID)); err != nil {
		return nil, err
	}
	return &module, nil
}

// CreateLesson creates a lesson of any of the six kinds in a module
func CreateLesson(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedLesson").(*lesson.Lesson)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	module, err := ownedModule(c, reqData.ModuleID)
	if err != nil {
		return courseAccessError(c, err)
	}

	// Get the next order index if not provided
	orderIndex := reqData.Order
	if orderIndex == 0 {
		var maxOrder int
		database.Database.Db.Model(&courseModels.Lesson{}).
			Where("module_id = ? AND is_deleted = ?", module.ID, false).
			Select("COALESCE(MAX(order_index), 0)").Scan(&maxOrder)
		orderIndex = maxOrder + 1
	}

	record := courseModels.Lesson{
		ModuleID:     module.ID,
		Title:        reqData.Title,
		OrderIndex:   orderIndex,
		Resourcetype: string(reqData.Kind),
	}

	switch reqData.Kind {
	case lesson.KindVideo:
		if reqData.VideoURL != "" {
			record.VideoURL = reqData.VideoURL
		} else if fh, err := c.FormFile("source_file"); err == nil {
			path, saveErr := utils.SaveUploadedFile(fh, filepath.Join(config.AppConfig.UploadDir, "videos"))
			if saveErr != nil {
				return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to store video file!", nil)
			}
			record.SourceFileURL = utils.GetFileURL(path)
			record.ProcessingStatus = courseModels.VideoProcessing
		}
	case lesson.KindDocument:
		if fh, err := c.FormFile("file"); err == nil {
			path, saveErr := utils.SaveUploadedFile(fh, filepath.Join(config.AppConfig.UploadDir, "files"))
			if saveErr != nil {
				return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to store document!", nil)
			}
			record.FileURL = utils.GetFileURL(path)
		}
	case lesson.KindLive:
		startTime := reqData.StartTime
		record.StartTime = &startTime
		record.MeetingLink = reqData.MeetingLink
		record.DurationMinutes = reqData.DurationMinutes
	case lesson.KindQuiz:
		record.DurationMinutes = reqData.DurationMinutes
		record.PassingScore = reqData.PassingScore
	case lesson.KindAssignment:
		dueDate := reqData.DueDate
		record.DueDate = &dueDate
		record.MaxScore = reqData.MaxScore
	case lesson.KindHTML:
		record.Content = reqData.Content
	}

	if err := database.Database.Db.Create(&record).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create lesson!", nil)
	}

	if reqData.Kind == lesson.KindLive {
		if user, err := currentUser(c); err == nil {
			utils.SendLiveSessionEmail(user.Email, user.Name, record.Title, record.MeetingLink, reqData.StartTime)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Lesson created successfully!", record)
}

// UpdateLesson updates an existing lesson, keeping the video exclusivity rule
func UpdateLesson(c *fiber.Ctx) error {
	lessonID := c.Locals("lessonID").(int)

	var record courseModels.Lesson
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", lessonID, false).First(&record).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	if _, err := ownedModule(c, record.ModuleID); err != nil {
		return courseAccessError(c, err)
	}

	reqData, ok := c.Locals("validatedLessonUpdate").(*lesson.Lesson)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.ModuleID != 0 && reqData.ModuleID != record.ModuleID {
		if _, err := ownedModule(c, reqData.ModuleID); err != nil {
			return courseAccessError(c, err)
		}
		record.ModuleID = reqData.ModuleID
	}

	if reqData.Title != "" {
		record.Title = reqData.Title
	}
	if reqData.Order > 0 {
		record.OrderIndex = reqData.Order
	}

	switch lesson.Kind(record.Resourcetype) {
	case lesson.KindVideo:
		if fh, err := c.FormFile("source_file"); err == nil {
			path, saveErr := utils.SaveUploadedFile(fh, filepath.Join(config.AppConfig.UploadDir, "videos"))
			if saveErr != nil {
				return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to store video file!", nil)
			}
			record.SourceFileURL = utils.GetFileURL(path)
			record.ProcessingStatus = courseModels.VideoProcessing
			// A fresh upload replaces the external link.
			record.VideoURL = ""
		} else if reqData.VideoURL != "" {
			record.VideoURL = reqData.VideoURL
			record.SourceFileURL = ""
			record.ProcessingStatus = ""
		}
	case lesson.KindDocument:
		if fh, err := c.FormFile("file"); err == nil {
			path, saveErr := utils.SaveUploadedFile(fh, filepath.Join(config.AppConfig.UploadDir, "files"))
			if saveErr != nil {
				return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to store document!", nil)
			}
			record.FileURL = utils.GetFileURL(path)
		}
	case lesson.KindLive:
		if !reqData.StartTime.IsZero() {
			startTime := reqData.StartTime
			record.StartTime = &startTime
		}
		if reqData.MeetingLink != "" {
			record.MeetingLink = reqData.MeetingLink
		}
		if reqData.DurationMinutes > 0 {
			record.DurationMinutes = reqData.DurationMinutes
		}
	case lesson.KindQuiz:
		if reqData.DurationMinutes > 0 {
			record.DurationMinutes = reqData.DurationMinutes
		}
		if reqData.PassingScore > 0 {
			record.PassingScore = reqData.PassingScore
		}
	case lesson.KindAssignment:
		if !reqData.DueDate.IsZero() {
			dueDate := reqData.DueDate
			record.DueDate = &dueDate
		}
		if reqData.MaxScore > 0 {
			record.MaxScore = reqData.MaxScore
		}
	case lesson.KindHTML:
		if reqData.Content != "" {
			record.Content = reqData.Content
		}
	}

	if err := database.Database.Db.Save(&record).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update lesson!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson updated successfully!", record)
}

// DeleteLesson soft deletes a lesson
func DeleteLesson(c *fiber.Ctx) error {
	lessonID := c.Locals("lessonID").(int)

	var record courseModels.Lesson
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", lessonID, false).First(&record).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	if _, err := ownedModule(c, record.ModuleID); err != nil {
		return courseAccessError(c, err)
	}

	record.IsDeleted = true
	if err := database.Database.Db.Save(&record).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete lesson!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson deleted successfully!", nil)
}
