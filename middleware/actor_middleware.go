package middleware

import (
	"github.com/gofiber/fiber/v2"
	authutils "isnad-backend/lib/utils/auth-utils"
)

// Actor identity comes from the externally issued token; the engine does not
// enforce authorization, it only records who acted.

func GetUserID(ctx *fiber.Ctx) string {
	claims := authutils.GetClaims(ctx)
	if sub, exist := claims["sub"]; exist {
		if value, ok := sub.(string); ok {
			return value
		}
	}
	return ""
}

func GetUserName(ctx *fiber.Ctx) string {
	claims := authutils.GetClaims(ctx)
	if name, exist := claims["name"]; exist {
		if value, ok := name.(string); ok {
			return value
		}
	}
	return ""
}

func GetUserDepartment(ctx *fiber.Ctx) string {
	claims := authutils.GetClaims(ctx)
	if department, exist := claims["department"]; exist {
		if value, ok := department.(string); ok {
			return value
		}
	}
	return ""
}
