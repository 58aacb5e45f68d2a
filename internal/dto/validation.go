package dto

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/stellar-edu/stellar-admin-api/internal/models"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("gamemode", func(fl validator.FieldLevel) bool {
			return models.GameMode(fl.Field().String()).Valid()
		})
	}
}
