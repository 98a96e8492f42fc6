package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"osa_backend/internals/features/teachers/controller"
)

// TeacherRoutes mounts under the already role-gated /teacher group.
func TeacherRoutes(teacher fiber.Router, db *gorm.DB) {
	ctrl := controller.NewTeacherController(db)

	teacher.Get("/overview", ctrl.GetOverview)
	teacher.Get("/courses", ctrl.GetCourses)
	teacher.Get("/courses/:id/students", ctrl.GetCourseStudents)
	teacher.Get("/subjects", ctrl.GetSubjects)
	teacher.Get("/students", ctrl.GetStudents)
	teacher.Get("/students/:id/report", ctrl.GetStudentReport)

	exams := teacher.Group("/exams")
	exams.Get("/", ctrl.GetExams)
	exams.Post("/", ctrl.CreateExam)
	exams.Put("/:id", ctrl.UpdateExam)
	exams.Delete("/:id", ctrl.DeleteExam)
	exams.Get("/:id/results", ctrl.GetExamResults)
	exams.Post("/:id/results", ctrl.SubmitExamResults)

	liveClasses := teacher.Group("/live-classes")
	liveClasses.Get("/", ctrl.GetLiveClasses)
	liveClasses.Post("/", ctrl.CreateLiveClass)
	liveClasses.Put("/:id", ctrl.UpdateLiveClass)
	liveClasses.Delete("/:id", ctrl.DeleteLiveClass)

	questions := teacher.Group("/questions")
	questions.Get("/", ctrl.GetQuestions)
	questions.Post("/:id/answer", ctrl.AnswerQuestion)
}
