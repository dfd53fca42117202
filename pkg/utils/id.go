package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewID 生成无连字符的 32 位实体主键
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
