package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"osa_backend/internals/features/admin/settings/service"
	helper "osa_backend/internals/helpers"
)

type SettingsController struct {
	DB      *gorm.DB
	Service *service.SettingsService
}

func NewSettingsController(db *gorm.DB) *SettingsController {
	return &SettingsController{DB: db, Service: service.NewSettingsService(db)}
}

type adminSettingsResponse struct {
	FeatureFlags    map[string]any `json:"feature_flags"`
	RolePermissions map[string]any `json:"role_permissions"`
	ScheduleConfig  map[string]any `json:"schedule_config"`
}

type adminSettingsUpdateRequest struct {
	FeatureFlags    map[string]any `json:"feature_flags"`
	RolePermissions map[string]any `json:"role_permissions"`
	ScheduleConfig  map[string]any `json:"schedule_config"`
}

func (ctrl *SettingsController) loadAll() (*adminSettingsResponse, error) {
	flags, err := ctrl.Service.Get(service.KeyFeatureFlags, service.DefaultFeatureFlags())
	if err != nil {
		return nil, err
	}
	perms, err := ctrl.Service.Get(service.KeyRolePermissions, service.DefaultRolePermissions())
	if err != nil {
		return nil, err
	}
	sched, err := ctrl.Service.Get(service.KeyScheduleConfig, service.DefaultScheduleConfig())
	if err != nil {
		return nil, err
	}
	return &adminSettingsResponse{
		FeatureFlags:    flags,
		RolePermissions: perms,
		ScheduleConfig:  sched,
	}, nil
}

// 🟢 GET /api/v1/admin/settings
func (ctrl *SettingsController) GetSettings(c *fiber.Ctx) error {
	out, err := ctrl.loadAll()
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "Settings fetched", out)
}

// 🟡 PUT /api/v1/admin/settings
// Partial update: each provided block is merged into the current value
// before saving, so sibling keys survive.
func (ctrl *SettingsController) UpdateSettings(c *fiber.Ctx) error {
	var req adminSettingsUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	current, err := ctrl.loadAll()
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	if req.FeatureFlags != nil {
		current.FeatureFlags = service.Merge(current.FeatureFlags, req.FeatureFlags)
	}
	if req.RolePermissions != nil {
		current.RolePermissions = service.Merge(current.RolePermissions, req.RolePermissions)
	}
	if req.ScheduleConfig != nil {
		current.ScheduleConfig = service.Merge(current.ScheduleConfig, req.ScheduleConfig)
	}

	descFlags := "Platform feature toggles"
	descPerms := "Role permission matrix"
	descSched := "Class scheduling configuration"
	if current.FeatureFlags, err = ctrl.Service.Save(service.KeyFeatureFlags, current.FeatureFlags, &descFlags); err != nil {
		return helper.FromFiberError(c, err)
	}
	if current.RolePermissions, err = ctrl.Service.Save(service.KeyRolePermissions, current.RolePermissions, &descPerms); err != nil {
		return helper.FromFiberError(c, err)
	}
	if current.ScheduleConfig, err = ctrl.Service.Save(service.KeyScheduleConfig, current.ScheduleConfig, &descSched); err != nil {
		return helper.FromFiberError(c, err)
	}

	return helper.JsonUpdated(c, "Settings updated", current)
}

// 🔴 POST /api/v1/admin/settings/reset
func (ctrl *SettingsController) ResetSettings(c *fiber.Ctx) error {
	flags, err := ctrl.Service.Reset(service.KeyFeatureFlags, service.DefaultFeatureFlags())
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	perms, err := ctrl.Service.Reset(service.KeyRolePermissions, service.DefaultRolePermissions())
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	sched, err := ctrl.Service.Reset(service.KeyScheduleConfig, service.DefaultScheduleConfig())
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "Settings reset to defaults", adminSettingsResponse{
		FeatureFlags:    flags,
		RolePermissions: perms,
		ScheduleConfig:  sched,
	})
}
