package service

import (
	"encoding/json"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"osa_backend/internals/features/admin/settings/model"
)

// Setting keys consumed by the admin settings endpoints.
const (
	KeyFeatureFlags    = "feature_flags"
	KeyRolePermissions = "role_permissions"
	KeyScheduleConfig  = "schedule_config"
)

func DefaultFeatureFlags() map[string]any {
	return map[string]any{
		"allow_teacher_live_classes":          true,
		"allow_teacher_exam_creation":         true,
		"allow_teacher_manage_course_content": true,
		"allow_teacher_view_student_progress": true,
		"allow_parent_view_progress":          true,
		"allow_parent_message_teacher":        true,
		"allow_parent_download_reports":       true,
		"enable_course_catalog":               true,
		"enable_student_self_enrollment":      true,
	}
}

func DefaultRolePermissions() map[string]any {
	return map[string]any{
		"teacher": map[string]any{
			"manage_courses":        true,
			"manage_course_content": true,
			"conduct_live_classes":  true,
			"create_exams":          true,
			"grade_exams":           true,
			"respond_to_questions":  true,
			"view_student_progress": true,
			"message_parents":       true,
		},
		"parent": map[string]any{
			"view_child_progress": true,
			"view_grades":         true,
			"download_reports":    true,
			"message_teacher":     true,
			"join_live_classes":   false,
		},
	}
}

func DefaultScheduleConfig() map[string]any {
	return map[string]any{
		"max_lessons_per_day": float64(3),
	}
}

// Merge lays overrides over defaults. Top level is shallow; when both
// sides hold a map for the same key the merge goes exactly one level
// deeper. Any other value type (lists included) is replaced wholesale.
// Nesting beyond two levels is replaced, not merged.
func Merge(defaults, overrides map[string]any) map[string]any {
	merged := make(map[string]any, len(defaults))
	for k, v := range defaults {
		merged[k] = v
	}
	for k, v := range overrides {
		ov, vIsMap := v.(map[string]any)
		dv, dIsMap := merged[k].(map[string]any)
		if vIsMap && dIsMap {
			nested := make(map[string]any, len(dv)+len(ov))
			for nk, nv := range dv {
				nested[nk] = nv
			}
			for nk, nv := range ov {
				nested[nk] = nv
			}
			merged[k] = nested
			continue
		}
		merged[k] = v
	}
	return merged
}

type SettingsService struct {
	DB *gorm.DB
}

func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{DB: db}
}

// Get returns merge(fallback, stored). A missing row is seeded with the
// fallback so later reads and writes see the same baseline.
func (s *SettingsService) Get(key string, fallback map[string]any) (map[string]any, error) {
	var row model.PlatformSettingModel
	err := s.DB.Where("key = ?", key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		raw, mErr := json.Marshal(fallback)
		if mErr != nil {
			return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to encode setting")
		}
		row = model.PlatformSettingModel{Key: key, Value: raw}
		if cErr := s.DB.Create(&row).Error; cErr != nil {
			log.Printf("[ERROR] seed setting %q: %v", key, cErr)
			return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to save setting")
		}
		return Merge(fallback, nil), nil
	}
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to load setting")
	}

	stored := map[string]any{}
	if len(row.Value) > 0 {
		if uErr := json.Unmarshal(row.Value, &stored); uErr != nil {
			log.Printf("[ERROR] setting %q holds unreadable JSON, serving defaults: %v", key, uErr)
		}
	}
	return Merge(fallback, stored), nil
}

// Save upserts the value; description is only overwritten when provided.
func (s *SettingsService) Save(key string, value map[string]any, description *string) (map[string]any, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to encode setting")
	}

	var row model.PlatformSettingModel
	err = s.DB.Where("key = ?", key).First(&row).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		row = model.PlatformSettingModel{Key: key, Value: raw, Description: description}
		if cErr := s.DB.Create(&row).Error; cErr != nil {
			return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to save setting")
		}
	case err != nil:
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to load setting")
	default:
		row.Value = raw
		if description != nil {
			row.Description = description
		}
		if sErr := s.DB.Save(&row).Error; sErr != nil {
			return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to save setting")
		}
	}
	return value, nil
}

// Reset restores a key to its compiled-in defaults.
func (s *SettingsService) Reset(key string, defaults map[string]any) (map[string]any, error) {
	return s.Save(key, defaults, nil)
}
