package middleware

import "github.com/gin-gonic/gin"

// adminKey stores the authenticated administrator's login.
const adminKey = contextKey("admin")

// GetAdminFromContext retrieves the authenticated administrator login.
// It returns the login and a boolean indicating if it was found.
func GetAdminFromContext(c *gin.Context) (string, bool) {
	if v, exists := c.Get(string(adminKey)); exists {
		admin, ok := v.(string)
		return admin, ok
	}
	if v := c.Request.Context().Value(adminKey); v != nil {
		admin, ok := v.(string)
		return admin, ok
	}
	return "", false
}
