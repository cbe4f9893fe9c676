package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	ProfileKeyPrefix = "profile:%d"
)

const (
	ProfileTTL = 5 * time.Minute
)

func ProfileKey(userID uint) string {
	return fmt.Sprintf(ProfileKeyPrefix, userID)
}

// InvalidateProfile drops the cached public profile for the user.
func (c *Cache) InvalidateProfile(ctx context.Context, userID uint) {
	c.Invalidate(ctx, ProfileKey(userID))
}
