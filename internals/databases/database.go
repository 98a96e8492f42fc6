package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	courseModel "osa_backend/internals/features/academy/courses/model"
	lessonModel "osa_backend/internals/features/academy/lessons/model"
	sessionModel "osa_backend/internals/features/academy/sessions/model"
	subjectModel "osa_backend/internals/features/academy/subjects/model"
	approvalModel "osa_backend/internals/features/admin/approval/model"
	settingsModel "osa_backend/internals/features/admin/settings/model"
	teacherModel "osa_backend/internals/features/teachers/model"
	userModel "osa_backend/internals/features/users/user/model"
)

var DB *gorm.DB

func ConnectDB() {
	log.Println("🔌 Connecting to PostgreSQL...")

	sslmode := getenv("DB_SSLMODE", "require")
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=osa",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
		sslmode,
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	if err != nil {
		log.Fatalf("❌ DB connect failed: %v", err)
	}
	DB = db
	log.Println("✅ DB connected.")
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("pool tune err: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

// Models registers every table in dependency order so parents migrate
// before the rows that reference them.
func Models() []any {
	return []any{
		&userModel.UserModel{},
		&courseModel.CourseModel{},
		&courseModel.ChapterModel{},
		&courseModel.AttachmentModel{},
		&subjectModel.SubjectModel{},
		&lessonModel.LessonModel{},
		&lessonModel.LessonContentModel{},
		&sessionModel.ClassSessionModel{},
		&approvalModel.EnrollmentModel{},
		&approvalModel.ParentStudentModel{},
		&settingsModel.PlatformSettingModel{},
		&teacherModel.ExamModel{},
		&teacherModel.ExamResultModel{},
		&teacherModel.LiveClassModel{},
		&teacherModel.LessonQuestionModel{},
		&teacherModel.LessonAnswerModel{},
	}
}

func Migrate() {
	if err := DB.AutoMigrate(Models()...); err != nil {
		log.Fatalf("❌ AutoMigrate failed: %v", err)
	}
	log.Println("✅ Schema migrated.")
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
