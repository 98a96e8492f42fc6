package service

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	courseModel "osa_backend/internals/features/academy/courses/model"
	subjectModel "osa_backend/internals/features/academy/subjects/model"
)

// TeacherScope is the set of catalog ids a teacher may touch: courses
// they own plus courses where they instruct at least one subject.
type TeacherScope struct {
	CourseIDs  map[uuid.UUID]bool
	SubjectIDs map[uuid.UUID]bool
}

type TeacherScopeService struct {
	DB *gorm.DB
}

func NewTeacherScopeService(db *gorm.DB) *TeacherScopeService {
	return &TeacherScopeService{DB: db}
}

func (s *TeacherScopeService) Resolve(teacherID uuid.UUID) (*TeacherScope, error) {
	scope := &TeacherScope{
		CourseIDs:  map[uuid.UUID]bool{},
		SubjectIDs: map[uuid.UUID]bool{},
	}

	var courses []courseModel.CourseModel
	if err := s.DB.Select("id").Where("teacher_id = ?", teacherID).Find(&courses).Error; err != nil {
		return nil, err
	}
	for _, c := range courses {
		scope.CourseIDs[c.ID] = true
	}

	var subjects []subjectModel.SubjectModel
	if err := s.DB.Select("id", "course_id").Where("instructor_id = ?", teacherID).Find(&subjects).Error; err != nil {
		return nil, err
	}
	for _, sub := range subjects {
		scope.SubjectIDs[sub.ID] = true
		scope.CourseIDs[sub.CourseID] = true
	}
	return scope, nil
}

func (s *TeacherScopeService) RequireCourse(teacherID, courseID uuid.UUID) error {
	scope, err := s.Resolve(teacherID)
	if err != nil {
		return err
	}
	if !scope.CourseIDs[courseID] {
		return fiber.NewError(fiber.StatusForbidden, "Course is outside your teaching assignments")
	}
	return nil
}

// CourseIDList returns the scope's course ids as a slice for IN queries.
func (scope *TeacherScope) CourseIDList() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(scope.CourseIDs))
	for id := range scope.CourseIDs {
		out = append(out, id)
	}
	return out
}
