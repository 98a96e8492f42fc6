package service

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	courseModel "osa_backend/internals/features/academy/courses/model"
	approvalDTO "osa_backend/internals/features/admin/approval/dto"
	approvalModel "osa_backend/internals/features/admin/approval/model"
	teacherModel "osa_backend/internals/features/teachers/model"
	userModel "osa_backend/internals/features/users/user/model"
)

// ApprovalService owns the admin approval workflow: activating pending
// accounts and reconciling the role-specific links (enrollments for
// students, child links for parents) that come with them.
type ApprovalService struct {
	DB *gorm.DB
}

func NewApprovalService(db *gorm.DB) *ApprovalService {
	return &ApprovalService{DB: db}
}

func (s *ApprovalService) ListPending(role string) ([]userModel.UserModel, error) {
	var users []userModel.UserModel
	q := s.DB.Where("is_active = ?", false)
	if role != "" {
		q = q.Where("role = ?", role)
	}
	if err := q.Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// ApproveUser activates (or explicitly keeps inactive) a pending account
// and applies the role-specific assignments in the same transaction, so
// a rejected assignment never leaves a half-approved user behind.
func (s *ApprovalService) ApproveUser(userID uuid.UUID, req *approvalDTO.ApproveUserRequest) (*userModel.UserModel, error) {
	var user userModel.UserModel

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "User not found")
			}
			return err
		}

		plan, err := req.PlanFor(user.Role)
		if err != nil {
			return err
		}
		if plan.Activate && user.IsActive {
			return fiber.NewError(fiber.StatusBadRequest, "User is already active")
		}

		if err := tx.Model(&userModel.UserModel{}).
			Where("id = ?", user.ID).
			Update("is_active", plan.Activate).Error; err != nil {
			return err
		}
		user.IsActive = plan.Activate

		if plan.Student != nil {
			for _, a := range plan.Student.CourseAssignments {
				if err := s.applyAssignment(tx, user.ID, a, false); err != nil {
					return err
				}
			}
		}
		if plan.Parent != nil {
			for _, childID := range plan.Parent.ChildIDs {
				if err := s.linkChild(tx, user.ID, childID); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[APPROVAL] user %s (%s) approved, active=%v", user.Email, user.Role, user.IsActive)
	return &user, nil
}

// ApplyAssignment upserts one (student, course) enrollment for direct
// admin enrollment, outside the approval flow.
func (s *ApprovalService) ApplyAssignment(tx *gorm.DB, studentID uuid.UUID, a approvalDTO.CourseAssignmentPayload) error {
	return s.applyAssignment(tx, studentID, a, false)
}

// applyAssignment upserts one (student, course) enrollment. With
// forceClass an existing row is repointed even when the payload omits
// the class; without it an omitted class leaves the pointer alone.
func (s *ApprovalService) applyAssignment(tx *gorm.DB, studentID uuid.UUID, a approvalDTO.CourseAssignmentPayload, forceClass bool) error {
	var course courseModel.CourseModel
	if err := tx.First(&course, "id = ?", a.CourseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Course not found")
		}
		return err
	}

	if a.ClassID != nil {
		var chapter courseModel.ChapterModel
		err := tx.First(&chapter, "id = ? AND course_id = ?", *a.ClassID, a.CourseID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Class does not belong to the selected course")
		}
		if err != nil {
			return err
		}
	}

	var existing approvalModel.EnrollmentModel
	err := tx.First(&existing, "student_id = ? AND course_id = ?", studentID, a.CourseID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		enrollment := approvalModel.EnrollmentModel{
			StudentID: studentID,
			CourseID:  a.CourseID,
			ClassID:   a.ClassID,
			IsActive:  true,
		}
		return tx.Create(&enrollment).Error
	case err != nil:
		return err
	}

	updates := map[string]any{"is_active": true}
	if forceClass || a.ClassID != nil {
		updates["class_id"] = a.ClassID
	}
	return tx.Model(&existing).Updates(updates).Error
}

// linkChild attaches a student to a parent, skipping silently when the
// link already exists.
func (s *ApprovalService) linkChild(tx *gorm.DB, parentID, childID uuid.UUID) error {
	var child userModel.UserModel
	if err := tx.First(&child, "id = ?", childID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Child student not found")
		}
		return err
	}
	if child.Role != userModel.RoleStudent {
		return fiber.NewError(fiber.StatusBadRequest, "Linked child must have the student role")
	}

	var count int64
	if err := tx.Model(&approvalModel.ParentStudentModel{}).
		Where("parent_id = ? AND student_id = ?", parentID, childID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	link := approvalModel.ParentStudentModel{ParentID: parentID, StudentID: childID}
	return tx.Create(&link).Error
}

// UpdateStudentEnrollments makes the stored enrollment set match the
// request exactly: listed courses are upserted active, everything else
// the student had is deactivated, never deleted.
func (s *ApprovalService) UpdateStudentEnrollments(studentID uuid.UUID, assignments []approvalDTO.CourseAssignmentPayload) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var student userModel.UserModel
		if err := tx.First(&student, "id = ? AND role = ?", studentID, userModel.RoleStudent).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Student not found")
			}
			return err
		}

		keep := make([]uuid.UUID, 0, len(assignments))
		for _, a := range assignments {
			if err := s.applyAssignment(tx, studentID, a, true); err != nil {
				return err
			}
			keep = append(keep, a.CourseID)
		}

		q := tx.Model(&approvalModel.EnrollmentModel{}).Where("student_id = ?", studentID)
		if len(keep) > 0 {
			q = q.Where("course_id NOT IN ?", keep)
		}
		return q.Update("is_active", false).Error
	})
}

// UpdateParentChildren replaces a parent's child links with the given
// set. Links are plain join rows, so removal is a hard delete.
func (s *ApprovalService) UpdateParentChildren(parentID uuid.UUID, childIDs []uuid.UUID) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var parent userModel.UserModel
		if err := tx.First(&parent, "id = ? AND role = ?", parentID, userModel.RoleParent).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Parent not found")
			}
			return err
		}

		for _, childID := range childIDs {
			if err := s.linkChild(tx, parentID, childID); err != nil {
				return err
			}
		}

		q := tx.Where("parent_id = ?", parentID)
		if len(childIDs) > 0 {
			q = q.Where("student_id NOT IN ?", childIDs)
		}
		return q.Delete(&approvalModel.ParentStudentModel{}).Error
	})
}

/* ================= Serializers ================= */

func (s *ApprovalService) SerializeStudent(student userModel.UserModel) (*approvalDTO.StudentAdminResponse, error) {
	var enrollments []approvalModel.EnrollmentModel
	if err := s.DB.Where("student_id = ? AND is_active = ?", student.ID, true).
		Order("enrolled_at ASC").Find(&enrollments).Error; err != nil {
		return nil, err
	}

	summaries := make([]approvalDTO.EnrollmentSummary, 0, len(enrollments))
	for _, e := range enrollments {
		summary := approvalDTO.EnrollmentSummary{
			ID:         e.ID,
			CourseID:   e.CourseID,
			ClassID:    e.ClassID,
			EnrolledAt: e.EnrolledAt,
		}
		var course courseModel.CourseModel
		if err := s.DB.Select("id", "title").First(&course, "id = ?", e.CourseID).Error; err == nil {
			summary.CourseTitle = course.Title
		}
		if e.ClassID != nil {
			var chapter courseModel.ChapterModel
			if err := s.DB.Select("id", "title").First(&chapter, "id = ?", *e.ClassID).Error; err == nil {
				summary.ClassName = &chapter.Title
			}
		}
		summaries = append(summaries, summary)
	}

	return &approvalDTO.StudentAdminResponse{
		ID:          student.ID,
		Email:       student.Email,
		FullName:    student.FullName,
		CreatedAt:   student.CreatedAt,
		Enrollments: summaries,
	}, nil
}

func (s *ApprovalService) SerializeParent(parent userModel.UserModel) (*approvalDTO.ParentAdminResponse, error) {
	var links []approvalModel.ParentStudentModel
	if err := s.DB.Where("parent_id = ?", parent.ID).Find(&links).Error; err != nil {
		return nil, err
	}

	children := make([]approvalDTO.ParentChildSummary, 0, len(links))
	for _, link := range links {
		var child userModel.UserModel
		if err := s.DB.First(&child, "id = ?", link.StudentID).Error; err != nil {
			continue
		}
		children = append(children, approvalDTO.ParentChildSummary{
			ID:       child.ID,
			Email:    child.Email,
			FullName: child.FullName,
		})
	}

	return &approvalDTO.ParentAdminResponse{
		ID:        parent.ID,
		Email:     parent.Email,
		FullName:  parent.FullName,
		CreatedAt: parent.CreatedAt,
		Children:  children,
	}, nil
}

/* ================= Teacher reassignment ================= */

func (s *ApprovalService) TeacherOverview(teacherID uuid.UUID) (*approvalDTO.TeacherAssignmentOverview, error) {
	var teacher userModel.UserModel
	if err := s.DB.First(&teacher, "id = ? AND role = ?", teacherID, userModel.RoleTeacher).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Teacher not found")
		}
		return nil, err
	}
	return s.buildTeacherOverview(teacher)
}

func (s *ApprovalService) AllTeacherOverviews() ([]approvalDTO.TeacherAssignmentOverview, error) {
	var teachers []userModel.UserModel
	if err := s.DB.Where("role = ?", userModel.RoleTeacher).
		Order("created_at ASC").Find(&teachers).Error; err != nil {
		return nil, err
	}

	overviews := make([]approvalDTO.TeacherAssignmentOverview, 0, len(teachers))
	for _, t := range teachers {
		ov, err := s.buildTeacherOverview(t)
		if err != nil {
			return nil, err
		}
		overviews = append(overviews, *ov)
	}
	return overviews, nil
}

func (s *ApprovalService) buildTeacherOverview(teacher userModel.UserModel) (*approvalDTO.TeacherAssignmentOverview, error) {
	ov := &approvalDTO.TeacherAssignmentOverview{
		TeacherID:    teacher.ID,
		TeacherEmail: teacher.Email,
		TeacherName:  teacher.FullName,
		Courses:      []approvalDTO.TeacherCourseSummary{},
		Subjects:     []approvalDTO.TeacherSubjectSummary{},
	}

	var courses []courseModel.CourseModel
	if err := s.DB.Where("teacher_id = ?", teacher.ID).Find(&courses).Error; err != nil {
		return nil, err
	}
	courseTitles := map[uuid.UUID]string{}
	for _, c := range courses {
		ov.Courses = append(ov.Courses, approvalDTO.TeacherCourseSummary{ID: c.ID, Title: c.Title})
		courseTitles[c.ID] = c.Title
	}
	ov.CourseCount = len(courses)

	var subjects []subjectRow
	if err := s.DB.Table("subjects").
		Where("instructor_id = ?", teacher.ID).
		Find(&subjects).Error; err != nil {
		return nil, err
	}
	for _, sub := range subjects {
		title, ok := courseTitles[sub.CourseID]
		if !ok {
			var course courseModel.CourseModel
			if err := s.DB.Select("id", "title").First(&course, "id = ?", sub.CourseID).Error; err == nil {
				title = course.Title
			}
		}
		ov.Subjects = append(ov.Subjects, approvalDTO.TeacherSubjectSummary{
			ID:          sub.ID,
			Name:        sub.Name,
			CourseID:    sub.CourseID,
			CourseTitle: title,
		})
	}
	ov.SubjectCount = len(subjects)

	s.DB.Model(&teacherModel.LiveClassModel{}).Where("teacher_id = ?", teacher.ID).Count(&ov.LiveClassCount)
	s.DB.Model(&teacherModel.ExamModel{}).Where("teacher_id = ?", teacher.ID).Count(&ov.ExamCount)
	s.DB.Model(&teacherModel.LessonAnswerModel{}).Where("teacher_id = ?", teacher.ID).Count(&ov.LessonAnswerCount)

	return ov, nil
}

type subjectRow struct {
	ID       uuid.UUID `gorm:"column:id"`
	Name     string    `gorm:"column:name"`
	CourseID uuid.UUID `gorm:"column:course_id"`
}

// ReassignTeacherAndDelete moves every row owned by the departing
// teacher to the replacement and deletes the account, all in one
// transaction. The per-table counts in the result come from the UPDATE
// row counts.
func (s *ApprovalService) ReassignTeacherAndDelete(teacherID, replacementID uuid.UUID) (*approvalDTO.TeacherReassignmentResult, error) {
	if teacherID == replacementID {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Replacement teacher must be a different account")
	}

	result := &approvalDTO.TeacherReassignmentResult{DeletedTeacherID: teacherID}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var teacher userModel.UserModel
		if err := tx.First(&teacher, "id = ? AND role = ?", teacherID, userModel.RoleTeacher).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Teacher not found")
			}
			return err
		}

		var replacement userModel.UserModel
		if err := tx.First(&replacement, "id = ? AND role = ?", replacementID, userModel.RoleTeacher).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Replacement teacher not found")
			}
			return err
		}
		if !replacement.IsActive {
			return fiber.NewError(fiber.StatusBadRequest, "Replacement teacher is not active")
		}

		repoint := func(table, column string, counter *int64) error {
			res := tx.Table(table).
				Where(column+" = ?", teacherID).
				Update(column, replacementID)
			if res.Error != nil {
				return res.Error
			}
			*counter = res.RowsAffected
			return nil
		}

		if err := repoint("courses", "teacher_id", &result.ReassignedCourses); err != nil {
			return err
		}
		if err := repoint("subjects", "instructor_id", &result.ReassignedSubjects); err != nil {
			return err
		}
		if err := repoint("live_classes", "teacher_id", &result.ReassignedLiveClasses); err != nil {
			return err
		}
		if err := repoint("exams", "teacher_id", &result.ReassignedExams); err != nil {
			return err
		}
		if err := repoint("lesson_answers", "teacher_id", &result.ReassignedLessonAnswers); err != nil {
			return err
		}

		return tx.Delete(&userModel.UserModel{}, "id = ?", teacherID).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[APPROVAL] teacher %s deleted, workload moved to %s", teacherID, replacementID)
	return result, nil
}
