package storage

import (
	"path"
	"strings"

	"github.com/google/uuid"
)

// NewObjectKey returns a collision-free key such as "media/<uuid>.jpg".
func NewObjectKey(prefix, ext string) string {
	name := uuid.NewString() + ext
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}
