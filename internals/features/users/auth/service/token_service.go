package service

import (
	"time"

	"github.com/golang-jwt/jwt/v4"

	"osa_backend/internals/configs"
	userModel "osa_backend/internals/features/users/user/model"
)

// CreateAccessToken issues the signed bearer token the API accepts.
// Claims carry the user id under "uid"; the auth middleware reloads the
// account on every request, so stale role or active flags never
// outlive a single call.
func CreateAccessToken(user *userModel.UserModel) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  user.Email,
		"uid":  user.ID.String(),
		"role": user.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(time.Duration(configs.AccessTokenMinutes) * time.Minute).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(configs.JWTSecret))
}
