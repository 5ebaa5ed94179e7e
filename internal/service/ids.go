package service

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// newRefID builds a short human-facing reference like LN-3F2A9C41 from a
// fresh uuid.
func newRefID(prefix string) string {
	id := uuid.New().String()
	return fmt.Sprintf("%s-%s", prefix, strings.ToUpper(id[:8]))
}
