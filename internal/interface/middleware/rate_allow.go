package middleware

import (
	"net"

	"github.com/gin-gonic/gin"
)

// AllowPrivateIP exempts loopback and RFC 1918 callers from rate limiting.
// Used by the debug metrics endpoint.
func AllowPrivateIP() AllowFunc {
	return func(c *gin.Context) bool {
		ip := net.ParseIP(ipFromCtx(c))
		if ip == nil {
			return false
		}
		return ip.IsLoopback() || ip.IsPrivate()
	}
}
