package service

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	courseModel "osa_backend/internals/features/academy/courses/model"
	subjectModel "osa_backend/internals/features/academy/subjects/model"
	approvalDTO "osa_backend/internals/features/admin/approval/dto"
	approvalModel "osa_backend/internals/features/admin/approval/model"
	teacherModel "osa_backend/internals/features/teachers/model"
	userModel "osa_backend/internals/features/users/user/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&userModel.UserModel{},
		&courseModel.CourseModel{},
		&courseModel.ChapterModel{},
		&subjectModel.SubjectModel{},
		&approvalModel.EnrollmentModel{},
		&approvalModel.ParentStudentModel{},
		&teacherModel.ExamModel{},
		&teacherModel.ExamResultModel{},
		&teacherModel.LiveClassModel{},
		&teacherModel.LessonQuestionModel{},
		&teacherModel.LessonAnswerModel{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, role string, active bool) userModel.UserModel {
	t.Helper()
	u := userModel.UserModel{
		Email:    fmt.Sprintf("%s-%s@example.com", role, uuid.NewString()[:8]),
		Password: "x",
		FullName: "Test " + role,
		Role:     role,
		IsActive: active,
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func seedCourse(t *testing.T, db *gorm.DB, teacherID uuid.UUID) courseModel.CourseModel {
	t.Helper()
	c := courseModel.CourseModel{Title: "Fiqh Basics", TeacherID: teacherID}
	require.NoError(t, db.Create(&c).Error)
	return c
}

func seedChapter(t *testing.T, db *gorm.DB, courseID uuid.UUID) courseModel.ChapterModel {
	t.Helper()
	ch := courseModel.ChapterModel{CourseID: courseID, Title: "Intro", Order: 1}
	require.NoError(t, db.Create(&ch).Error)
	return ch
}

func fiberStatus(t *testing.T, err error) int {
	t.Helper()
	fe, ok := err.(*fiber.Error)
	require.True(t, ok, "expected *fiber.Error, got %v", err)
	return fe.Code
}

func TestApproveStudentActivatesAndEnrolls(t *testing.T) {
	db := newTestDB(t)
	svc := NewApprovalService(db)

	teacher := seedUser(t, db, userModel.RoleTeacher, true)
	course := seedCourse(t, db, teacher.ID)
	chapter := seedChapter(t, db, course.ID)
	student := seedUser(t, db, userModel.RoleStudent, false)

	req := &approvalDTO.ApproveUserRequest{
		CourseAssignments: []approvalDTO.CourseAssignmentPayload{
			{CourseID: course.ID, ClassID: &chapter.ID},
		},
	}
	updated, err := svc.ApproveUser(student.ID, req)
	require.NoError(t, err)
	assert.True(t, updated.IsActive)

	var enrollment approvalModel.EnrollmentModel
	require.NoError(t, db.First(&enrollment, "student_id = ?", student.ID).Error)
	assert.Equal(t, course.ID, enrollment.CourseID)
	require.NotNil(t, enrollment.ClassID)
	assert.Equal(t, chapter.ID, *enrollment.ClassID)
	assert.True(t, enrollment.IsActive)
}

func TestApproveAlreadyActiveIsRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewApprovalService(db)

	student := seedUser(t, db, userModel.RoleStudent, true)
	_, err := svc.ApproveUser(student.ID, &approvalDTO.ApproveUserRequest{})
	require.Error(t, err)
	assert.Equal(t, fiber.StatusBadRequest, fiberStatus(t, err))
}

func TestApproveWithForeignChapterLeavesNoEnrollment(t *testing.T) {
	db := newTestDB(t)
	svc := NewApprovalService(db)

	teacher := seedUser(t, db, userModel.RoleTeacher, true)
	course := seedCourse(t, db, teacher.ID)
	otherCourse := seedCourse(t, db, teacher.ID)
	foreignChapter := seedChapter(t, db, otherCourse.ID)
	student := seedUser(t, db, userModel.RoleStudent, false)

	req := &approvalDTO.ApproveUserRequest{
		CourseAssignments: []approvalDTO.CourseAssignmentPayload{
			{CourseID: course.ID, ClassID: &foreignChapter.ID},
		},
	}
	_, err := svc.ApproveUser(student.ID, req)
	require.Error(t, err)
	assert.Equal(t, fiber.StatusNotFound, fiberStatus(t, err))

	// the transaction must roll everything back
	var count int64
	db.Model(&approvalModel.EnrollmentModel{}).Where("student_id = ?", student.ID).Count(&count)
	assert.EqualValues(t, 0, count)

	var reloaded userModel.UserModel
	require.NoError(t, db.First(&reloaded, "id = ?", student.ID).Error)
	assert.False(t, reloaded.IsActive)
}

func TestApproveRejectsMismatchedPayloadHalf(t *testing.T) {
	db := newTestDB(t)
	svc := NewApprovalService(db)

	student := seedUser(t, db, userModel.RoleStudent, false)
	other := seedUser(t, db, userModel.RoleStudent, true)

	req := &approvalDTO.ApproveUserRequest{ChildIDs: []uuid.UUID{other.ID}}
	_, err := svc.ApproveUser(student.ID, req)
	require.Error(t, err)
	assert.Equal(t, fiber.StatusBadRequest, fiberStatus(t, err))
}

func TestParentChildLinkIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewApprovalService(db)

	parent := seedUser(t, db, userModel.RoleParent, true)
	child := seedUser(t, db, userModel.RoleStudent, true)

	for i := 0; i < 2; i++ {
		require.NoError(t, svc.UpdateParentChildren(parent.ID, []uuid.UUID{child.ID}))
	}

	var count int64
	db.Model(&approvalModel.ParentStudentModel{}).
		Where("parent_id = ? AND student_id = ?", parent.ID, child.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestUpdateParentChildrenReplacesSet(t *testing.T) {
	db := newTestDB(t)
	svc := NewApprovalService(db)

	parent := seedUser(t, db, userModel.RoleParent, true)
	first := seedUser(t, db, userModel.RoleStudent, true)
	second := seedUser(t, db, userModel.RoleStudent, true)

	require.NoError(t, svc.UpdateParentChildren(parent.ID, []uuid.UUID{first.ID}))
	require.NoError(t, svc.UpdateParentChildren(parent.ID, []uuid.UUID{second.ID}))

	var links []approvalModel.ParentStudentModel
	require.NoError(t, db.Where("parent_id = ?", parent.ID).Find(&links).Error)
	require.Len(t, links, 1)
	assert.Equal(t, second.ID, links[0].StudentID)
}

func TestUpdateEnrollmentsEmptySetDeactivatesAll(t *testing.T) {
	db := newTestDB(t)
	svc := NewApprovalService(db)

	teacher := seedUser(t, db, userModel.RoleTeacher, true)
	course := seedCourse(t, db, teacher.ID)
	student := seedUser(t, db, userModel.RoleStudent, true)

	require.NoError(t, svc.UpdateStudentEnrollments(student.ID, []approvalDTO.CourseAssignmentPayload{
		{CourseID: course.ID},
	}))
	require.NoError(t, svc.UpdateStudentEnrollments(student.ID, nil))

	var enrollment approvalModel.EnrollmentModel
	require.NoError(t, db.First(&enrollment, "student_id = ?", student.ID).Error)
	assert.False(t, enrollment.IsActive)
}

func TestUpdateEnrollmentsReactivatesExistingRow(t *testing.T) {
	db := newTestDB(t)
	svc := NewApprovalService(db)

	teacher := seedUser(t, db, userModel.RoleTeacher, true)
	course := seedCourse(t, db, teacher.ID)
	student := seedUser(t, db, userModel.RoleStudent, true)

	require.NoError(t, svc.UpdateStudentEnrollments(student.ID, []approvalDTO.CourseAssignmentPayload{
		{CourseID: course.ID},
	}))
	require.NoError(t, svc.UpdateStudentEnrollments(student.ID, nil))
	require.NoError(t, svc.UpdateStudentEnrollments(student.ID, []approvalDTO.CourseAssignmentPayload{
		{CourseID: course.ID},
	}))

	var count int64
	db.Model(&approvalModel.EnrollmentModel{}).
		Where("student_id = ? AND course_id = ?", student.ID, course.ID).Count(&count)
	assert.EqualValues(t, 1, count)

	var enrollment approvalModel.EnrollmentModel
	require.NoError(t, db.First(&enrollment, "student_id = ?", student.ID).Error)
	assert.True(t, enrollment.IsActive)
}

func TestReassignTeacherRejectsSameAccount(t *testing.T) {
	db := newTestDB(t)
	svc := NewApprovalService(db)

	teacher := seedUser(t, db, userModel.RoleTeacher, true)
	_, err := svc.ReassignTeacherAndDelete(teacher.ID, teacher.ID)
	require.Error(t, err)
	assert.Equal(t, fiber.StatusBadRequest, fiberStatus(t, err))
}

func TestReassignTeacherMovesWorkloadAndDeletes(t *testing.T) {
	db := newTestDB(t)
	svc := NewApprovalService(db)

	departing := seedUser(t, db, userModel.RoleTeacher, true)
	replacement := seedUser(t, db, userModel.RoleTeacher, true)

	course := seedCourse(t, db, departing.ID)
	subject := subjectModel.SubjectModel{CourseID: course.ID, Name: "Tajweed", InstructorID: &departing.ID}
	require.NoError(t, db.Create(&subject).Error)
	exam := teacherModel.ExamModel{CourseID: course.ID, TeacherID: departing.ID, Title: "Midterm"}
	require.NoError(t, db.Create(&exam).Error)

	result, err := svc.ReassignTeacherAndDelete(departing.ID, replacement.ID)
	require.NoError(t, err)

	assert.EqualValues(t, 1, result.ReassignedCourses)
	assert.EqualValues(t, 1, result.ReassignedSubjects)
	assert.EqualValues(t, 1, result.ReassignedExams)
	assert.EqualValues(t, 0, result.ReassignedLiveClasses)

	var reloadedCourse courseModel.CourseModel
	require.NoError(t, db.First(&reloadedCourse, "id = ?", course.ID).Error)
	assert.Equal(t, replacement.ID, reloadedCourse.TeacherID)

	var gone int64
	db.Model(&userModel.UserModel{}).Where("id = ?", departing.ID).Count(&gone)
	assert.EqualValues(t, 0, gone)
}

func TestReassignRequiresActiveReplacement(t *testing.T) {
	db := newTestDB(t)
	svc := NewApprovalService(db)

	departing := seedUser(t, db, userModel.RoleTeacher, true)
	inactive := seedUser(t, db, userModel.RoleTeacher, false)

	_, err := svc.ReassignTeacherAndDelete(departing.ID, inactive.ID)
	require.Error(t, err)
	assert.Equal(t, fiber.StatusBadRequest, fiberStatus(t, err))
}
