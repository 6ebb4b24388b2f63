package utils

import (
	"ControlMed/cache"
	"context"
	"fmt"
	"math/rand"
	"time"
)

// resetCodeTTL bounds how long a mailed reset code stays valid.
const resetCodeTTL = 15 * time.Minute

func resetCodeKey(email string) string {
	return "reset_code:" + email
}

// GenerateResetCode produces a random 6-digit reset code.
func GenerateResetCode() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}

// SetResetCode stores the reset code for an email in Redis.
func SetResetCode(ctx context.Context, email, code string) error {
	cacheInstance, err := cache.NewCache()
	if err != nil {
		return err
	}
	return cacheInstance.Set(ctx, resetCodeKey(email), code, resetCodeTTL)
}

// GetResetCode retrieves the reset code for an email. A nil result means no
// code is pending (or it already expired).
func GetResetCode(ctx context.Context, email string) (*string, error) {
	cacheInstance, err := cache.NewCache()
	if err != nil {
		return nil, err
	}
	code, err := cacheInstance.Get(ctx, resetCodeKey(email))
	if err != nil {
		return nil, err
	}
	if code == "" {
		return nil, nil
	}
	return &code, nil
}

// DeleteResetCode invalidates a consumed reset code.
func DeleteResetCode(ctx context.Context, email string) error {
	cacheInstance, err := cache.NewCache()
	if err != nil {
		return err
	}
	return cacheInstance.Delete(ctx, resetCodeKey(email))
}
