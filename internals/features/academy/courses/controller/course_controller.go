package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	courseDTO "osa_backend/internals/features/academy/courses/dto"
	courseModel "osa_backend/internals/features/academy/courses/model"
	userModel "osa_backend/internals/features/users/user/model"
	helper "osa_backend/internals/helpers"
)

var validate = validator.New()

type CourseController struct {
	DB *gorm.DB
}

func NewCourseController(db *gorm.DB) *CourseController {
	return &CourseController{DB: db}
}

func (ctrl *CourseController) findCourse(id any) (*courseModel.CourseModel, error) {
	var course courseModel.CourseModel
	if err := ctrl.DB.First(&course, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Course not found")
		}
		return nil, err
	}
	return &course, nil
}

func (ctrl *CourseController) checkTeacher(id any) error {
	var teacher userModel.UserModel
	err := ctrl.DB.First(&teacher, "id = ? AND role = ?", id, userModel.RoleTeacher).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "Teacher not found")
	}
	return err
}

// 🟢 GET /api/courses
func (ctrl *CourseController) GetCourses(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 50, 200)

	q := ctrl.DB.Model(&courseModel.CourseModel{})
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count courses")
	}

	var courses []courseModel.CourseModel
	if err := q.Order("created_at ASC").
		Offset(p.Offset).Limit(p.PerPage).
		Find(&courses).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load courses")
	}

	out := make([]courseDTO.CourseResponse, 0, len(courses))
	for _, course := range courses {
		resp := courseDTO.ToCourseResponse(course)
		var teacher userModel.UserModel
		if err := ctrl.DB.Select("id", "full_name").First(&teacher, "id = ?", course.TeacherID).Error; err == nil {
			resp.TeacherName = teacher.FullName
		}
		out = append(out, resp)
	}
	return helper.JsonList(c, "Courses fetched", out, helper.BuildPagination(total, p))
}

// 🟢 GET /api/courses/:id — course plus its chapters and attachments.
func (ctrl *CourseController) GetCourse(c *fiber.Ctx) error {
	courseID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	course, err := ctrl.findCourse(courseID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	detail := courseDTO.CourseDetailResponse{
		CourseResponse: courseDTO.ToCourseResponse(*course),
		Chapters:       []courseModel.ChapterModel{},
		Attachments:    []courseModel.AttachmentModel{},
	}
	var teacher userModel.UserModel
	if err := ctrl.DB.Select("id", "full_name").First(&teacher, "id = ?", course.TeacherID).Error; err == nil {
		detail.TeacherName = teacher.FullName
	}

	if err := ctrl.DB.Where("course_id = ?", courseID).
		Order("chapter_order ASC").Find(&detail.Chapters).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load chapters")
	}
	if err := ctrl.DB.Where("course_id = ?", courseID).
		Order("uploaded_at ASC").Find(&detail.Attachments).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load attachments")
	}
	return helper.JsonOK(c, "Course fetched", detail)
}

// 🟡 POST /api/admin/courses
func (ctrl *CourseController) CreateCourse(c *fiber.Ctx) error {
	var req courseDTO.CreateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	if err := ctrl.checkTeacher(req.TeacherID); err != nil {
		return helper.FromFiberError(c, err)
	}

	course := courseModel.CourseModel{
		Title:       req.Title,
		Description: req.Description,
		TeacherID:   req.TeacherID,
	}
	if err := ctrl.DB.Create(&course).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create course")
	}
	return helper.JsonCreated(c, "Course created", courseDTO.ToCourseResponse(course))
}

// 🟡 PUT /api/admin/courses/:id
func (ctrl *CourseController) UpdateCourse(c *fiber.Ctx) error {
	courseID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	course, err := ctrl.findCourse(courseID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req courseDTO.UpdateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	updates := map[string]any{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.TeacherID != nil {
		if err := ctrl.checkTeacher(*req.TeacherID); err != nil {
			return helper.FromFiberError(c, err)
		}
		updates["teacher_id"] = *req.TeacherID
	}
	if len(updates) > 0 {
		if err := ctrl.DB.Model(course).Updates(updates).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update course")
		}
	}
	return helper.JsonUpdated(c, "Course updated", courseDTO.ToCourseResponse(*course))
}

// 🔴 DELETE /api/admin/courses/:id — the whole subtree goes with it.
func (ctrl *CourseController) DeleteCourse(c *fiber.Ctx) error {
	courseID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if _, err := ctrl.findCourse(courseID); err != nil {
		return helper.FromFiberError(c, err)
	}

	err = ctrl.DB.Transaction(func(tx *gorm.DB) error {
		for _, table := range []string{"class_sessions"} {
			if err := tx.Exec(
				"DELETE FROM "+table+" WHERE lesson_id IN (SELECT id FROM lessons WHERE course_id = ?)",
				courseID,
			).Error; err != nil {
				return err
			}
		}
		if err := tx.Exec(
			"DELETE FROM lesson_contents WHERE lesson_id IN (SELECT id FROM lessons WHERE course_id = ?)",
			courseID,
		).Error; err != nil {
			return err
		}
		for _, stmt := range []string{
			"DELETE FROM lessons WHERE course_id = ?",
			"DELETE FROM subjects WHERE course_id = ?",
			"DELETE FROM chapters WHERE course_id = ?",
			"DELETE FROM attachments WHERE course_id = ?",
			"DELETE FROM enrollments WHERE course_id = ?",
		} {
			if err := tx.Exec(stmt, courseID).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&courseModel.CourseModel{}, "id = ?", courseID).Error
	})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete course")
	}
	return helper.JsonDeleted(c)
}

/* ================= Chapters ================= */

// 🟡 POST /api/admin/courses/:id/chapters
func (ctrl *CourseController) CreateChapter(c *fiber.Ctx) error {
	courseID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if _, err := ctrl.findCourse(courseID); err != nil {
		return helper.FromFiberError(c, err)
	}

	var req courseDTO.CreateChapterRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	chapter := courseModel.ChapterModel{
		CourseID:    courseID,
		Title:       req.Title,
		Description: req.Description,
		Order:       req.Order,
	}
	if err := ctrl.DB.Create(&chapter).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create chapter")
	}
	return helper.JsonCreated(c, "Chapter created", chapter)
}

// 🟡 PUT /api/admin/courses/:id/chapters/:chapterId — chapter lookup is
// scoped to the course in the path.
func (ctrl *CourseController) UpdateChapter(c *fiber.Ctx) error {
	courseID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	chapterID, err := helper.ParseUUIDParam(c, "chapterId")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var chapter courseModel.ChapterModel
	if err := ctrl.DB.First(&chapter, "id = ? AND course_id = ?", chapterID, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Chapter not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load chapter")
	}

	var req courseDTO.UpdateChapterRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	updates := map[string]any{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Order != nil {
		updates["chapter_order"] = *req.Order
	}
	if len(updates) > 0 {
		if err := ctrl.DB.Model(&chapter).Updates(updates).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update chapter")
		}
	}
	return helper.JsonUpdated(c, "Chapter updated", chapter)
}

// 🔴 DELETE /api/admin/courses/:id/chapters/:chapterId — enrollments
// pointing at the chapter lose the pointer, not the enrollment.
func (ctrl *CourseController) DeleteChapter(c *fiber.Ctx) error {
	courseID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	chapterID, err := helper.ParseUUIDParam(c, "chapterId")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var chapter courseModel.ChapterModel
	if err := ctrl.DB.First(&chapter, "id = ? AND course_id = ?", chapterID, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Chapter not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load chapter")
	}

	err = ctrl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("UPDATE enrollments SET class_id = NULL WHERE class_id = ?", chapterID).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM attachments WHERE chapter_id = ?", chapterID).Error; err != nil {
			return err
		}
		return tx.Delete(&chapter).Error
	})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete chapter")
	}
	return helper.JsonDeleted(c)
}

/* ================= Attachments ================= */

// 🟡 POST /api/admin/attachments — must reference at least one of
// course, lesson or chapter, and any referenced parent must exist.
func (ctrl *CourseController) CreateAttachment(c *fiber.Ctx) error {
	var req courseDTO.CreateAttachmentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}
	if req.CourseID == nil && req.LessonID == nil && req.ChapterID == nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Attachment must reference a course, lesson or chapter")
	}

	if req.CourseID != nil {
		if _, err := ctrl.findCourse(*req.CourseID); err != nil {
			return helper.FromFiberError(c, err)
		}
	}
	if req.LessonID != nil {
		var n int64
		ctrl.DB.Table("lessons").Where("id = ?", *req.LessonID).Count(&n)
		if n == 0 {
			return helper.JsonError(c, fiber.StatusNotFound, "Lesson not found")
		}
	}
	if req.ChapterID != nil {
		var n int64
		ctrl.DB.Table("chapters").Where("id = ?", *req.ChapterID).Count(&n)
		if n == 0 {
			return helper.JsonError(c, fiber.StatusNotFound, "Chapter not found")
		}
	}

	attachment := courseModel.AttachmentModel{
		CourseID:    req.CourseID,
		LessonID:    req.LessonID,
		ChapterID:   req.ChapterID,
		Title:       req.Title,
		Description: req.Description,
		FileURL:     req.FileURL,
		FileType:    req.FileType,
		FileSize:    req.FileSize,
		Duration:    req.Duration,
	}
	if req.Source != "" {
		attachment.Source = req.Source
	} else {
		attachment.Source = "upload"
	}
	if err := ctrl.DB.Create(&attachment).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create attachment")
	}
	return helper.JsonCreated(c, "Attachment created", attachment)
}

// 🔴 DELETE /api/admin/attachments/:id
func (ctrl *CourseController) DeleteAttachment(c *fiber.Ctx) error {
	attachmentID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	res := ctrl.DB.Delete(&courseModel.AttachmentModel{}, "id = ?", attachmentID)
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete attachment")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Attachment not found")
	}
	return helper.JsonDeleted(c)
}
