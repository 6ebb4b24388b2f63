package utils

import (
	"time"

	"github.com/gin-gonic/gin"
)

const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"
)

// SetAuthCookies mirrors the token pair into HttpOnly cookies so browser
// clients do not have to store tokens in script-readable storage.
func SetAuthCookies(c *gin.Context, accessToken, refreshToken string) {
	setCookie(c, accessTokenCookie, accessToken, AccessTokenExpiry)
	setCookie(c, refreshTokenCookie, refreshToken, RefreshTokenExpiry)
}

// ClearAuthCookies expires both auth cookies on logoff.
func ClearAuthCookies(c *gin.Context) {
	setCookie(c, accessTokenCookie, "", -time.Second)
	setCookie(c, refreshTokenCookie, "", -time.Second)
}

func setCookie(c *gin.Context, name, value string, expiry time.Duration) {
	// Secure is dropped in debug mode so local HTTP development works.
	secure := gin.Mode() != gin.DebugMode
	c.SetCookie(name, value, int(expiry.Seconds()), "/", "", secure, true)
}
