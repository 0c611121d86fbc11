package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketai-bot/internal/api/marketai"
)

const (
	CampaignsCacheTTL  = 5 * time.Minute
	RateLimitWindowTTL = 1 * time.Minute
	UserStateCacheTTL  = 30 * time.Minute
)

func FilterStateKey(userID int64) string {
	return fmt.Sprintf("filters:user:%d", userID)
}

func CampaignsKey(userID int64) string {
	return fmt.Sprintf("campaigns:user:%d", userID)
}

func RateLimitKey(userID int64) string {
	return fmt.Sprintf("ratelimit:user:%d", userID)
}

func UserStateKey(userID int64) string {
	return fmt.Sprintf("state:user:%d", userID)
}

// LoadFilterState returns the persisted campaign scope of a user, nil if
// nothing was saved.
func (c *Cache) LoadFilterState(ctx context.Context, userID int64) ([]byte, error) {
	return c.GetBytes(ctx, FilterStateKey(userID))
}

// SaveFilterState overwrites the campaign scope of a user. It never expires.
func (c *Cache) SaveFilterState(ctx context.Context, userID int64, data []byte) error {
	return c.SetBytes(ctx, FilterStateKey(userID), data, 0)
}

func (c *Cache) GetCampaigns(ctx context.Context, userID int64) ([]marketai.Campaign, bool, error) {
	var campaigns []marketai.Campaign
	err := c.Get(ctx, CampaignsKey(userID), &campaigns)
	if errors.Is(err, ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return campaigns, true, nil
}

func (c *Cache) SetCampaigns(ctx context.Context, userID int64, campaigns []marketai.Campaign) error {
	return c.Set(ctx, CampaignsKey(userID), campaigns, CampaignsCacheTTL)
}

// InvalidateCampaigns drops the cached campaign list so the next read goes
// upstream.
func (c *Cache) InvalidateCampaigns(ctx context.Context, userID int64) error {
	return c.Delete(ctx, CampaignsKey(userID))
}

func (c *Cache) IncrementUserRateLimit(ctx context.Context, userID int64) (int64, error) {
	key := RateLimitKey(userID)
	return c.IncrementWithExpiry(ctx, key, RateLimitWindowTTL)
}

func (c *Cache) SetUserState(ctx context.Context, userID int64, state string) error {
	key := UserStateKey(userID)
	return c.SetString(ctx, key, state, UserStateCacheTTL)
}

func (c *Cache) GetUserState(ctx context.Context, userID int64) (string, error) {
	key := UserStateKey(userID)
	return c.GetString(ctx, key)
}

func (c *Cache) DeleteUserState(ctx context.Context, userID int64) error {
	key := UserStateKey(userID)
	return c.Delete(ctx, key)
}
