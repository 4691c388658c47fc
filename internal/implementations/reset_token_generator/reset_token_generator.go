package resettokengenerator

import (
	"vitalance/internal/core/domain/user"

	"github.com/google/uuid"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) GenerateResetToken() user.ResetTokenValue {
	return user.ResetTokenValue(uuid.New().String())
}
