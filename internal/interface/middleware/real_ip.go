package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// RealIP resolves the caller's address into the "real_ip" context key.
// CF-Connecting-IP wins over X-Forwarded-For (left-most hop); gin's
// ClientIP is the fallback when neither header parses.
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		if ip := parseIP(c.GetHeader("CF-Connecting-IP")); ip != "" {
			c.Set("real_ip", ip)
			c.Next()
			return
		}
		if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if ip := parseIP(first); ip != "" {
				c.Set("real_ip", ip)
				c.Next()
				return
			}
		}
		c.Set("real_ip", c.ClientIP())
		c.Next()
	}
}

func parseIP(s string) string {
	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil {
		return ""
	}
	return ip.String()
}
