package service

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"osa_backend/internals/features/admin/settings/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.PlatformSettingModel{}))
	return db
}

func TestMergeTopLevelShallow(t *testing.T) {
	defaults := map[string]any{"a": true, "b": false}
	overrides := map[string]any{"b": true, "c": "extra"}

	out := Merge(defaults, overrides)

	assert.Equal(t, true, out["a"])
	assert.Equal(t, true, out["b"])
	assert.Equal(t, "extra", out["c"])
	// inputs untouched
	assert.Equal(t, false, defaults["b"])
}

func TestMergeOneLevelIntoMaps(t *testing.T) {
	defaults := map[string]any{
		"teacher": map[string]any{"create_exams": true, "grade_exams": true},
	}
	overrides := map[string]any{
		"teacher": map[string]any{"create_exams": false},
	}

	out := Merge(defaults, overrides)

	teacher, ok := out["teacher"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, false, teacher["create_exams"])
	assert.Equal(t, true, teacher["grade_exams"])

	// the default's nested map must not be mutated
	orig := defaults["teacher"].(map[string]any)
	assert.Equal(t, true, orig["create_exams"])
}

func TestMergeListsReplacedWholesale(t *testing.T) {
	defaults := map[string]any{"days": []any{"mon", "tue", "wed"}}
	overrides := map[string]any{"days": []any{"fri"}}

	out := Merge(defaults, overrides)

	assert.Equal(t, []any{"fri"}, out["days"])
}

func TestMergeMapOverScalarReplaces(t *testing.T) {
	defaults := map[string]any{"limit": float64(3)}
	overrides := map[string]any{"limit": map[string]any{"weekday": float64(2)}}

	out := Merge(defaults, overrides)

	m, ok := out["limit"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(2), m["weekday"])
}

func TestGetSeedsMissingKeyWithDefaults(t *testing.T) {
	db := newTestDB(t)
	svc := NewSettingsService(db)

	out, err := svc.Get(KeyScheduleConfig, DefaultScheduleConfig())
	require.NoError(t, err)
	assert.Equal(t, float64(3), out["max_lessons_per_day"])

	var count int64
	db.Model(&model.PlatformSettingModel{}).Where("key = ?", KeyScheduleConfig).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestGetMergesStoredOverDefaults(t *testing.T) {
	db := newTestDB(t)
	svc := NewSettingsService(db)

	_, err := svc.Save(KeyFeatureFlags, map[string]any{"enable_course_catalog": false}, nil)
	require.NoError(t, err)

	out, err := svc.Get(KeyFeatureFlags, DefaultFeatureFlags())
	require.NoError(t, err)

	assert.Equal(t, false, out["enable_course_catalog"])
	// untouched defaults survive a partial override
	assert.Equal(t, true, out["allow_teacher_exam_creation"])
}

func TestGetCorruptedRowServesDefaults(t *testing.T) {
	db := newTestDB(t)
	svc := NewSettingsService(db)

	row := model.PlatformSettingModel{
		Key:   KeyFeatureFlags,
		Value: datatypes.JSON([]byte(`{"enable_course_catalog": tru`)),
	}
	require.NoError(t, db.Create(&row).Error)

	out, err := svc.Get(KeyFeatureFlags, DefaultFeatureFlags())
	require.NoError(t, err)
	assert.Equal(t, DefaultFeatureFlags(), out)
}

func TestResetRestoresDefaults(t *testing.T) {
	db := newTestDB(t)
	svc := NewSettingsService(db)

	_, err := svc.Save(KeyScheduleConfig, map[string]any{"max_lessons_per_day": float64(9)}, nil)
	require.NoError(t, err)

	_, err = svc.Reset(KeyScheduleConfig, DefaultScheduleConfig())
	require.NoError(t, err)

	out, err := svc.Get(KeyScheduleConfig, DefaultScheduleConfig())
	require.NoError(t, err)
	assert.Equal(t, float64(3), out["max_lessons_per_day"])
}

func TestSaveKeepsDescriptionWhenNil(t *testing.T) {
	db := newTestDB(t)
	svc := NewSettingsService(db)

	desc := "Class scheduling configuration"
	_, err := svc.Save(KeyScheduleConfig, DefaultScheduleConfig(), &desc)
	require.NoError(t, err)

	_, err = svc.Save(KeyScheduleConfig, map[string]any{"max_lessons_per_day": float64(5)}, nil)
	require.NoError(t, err)

	var row model.PlatformSettingModel
	require.NoError(t, db.Where("key = ?", KeyScheduleConfig).First(&row).Error)
	require.NotNil(t, row.Description)
	assert.Equal(t, desc, *row.Description)
}
