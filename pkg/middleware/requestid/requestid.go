package requestid

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Header carries the request id in and out of the service.
const Header = "X-Request-ID"

const (
	ctxKey = "requestID"

	// inbound ids longer than this are replaced rather than trusted
	maxInboundLen = 64
)

// New returns middleware that tags every request with an id. An id supplied
// by the caller is reused so requests stay traceable across proxies.
func New() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(Header)
		if id == "" || len(id) > maxInboundLen {
			id = uuid.NewString()
		}

		c.Set(ctxKey, id)
		c.Header(Header, id)

		c.Next()
	}
}

// Get returns the id assigned to the request, or "" outside the middleware.
func Get(c *gin.Context) string {
	return c.GetString(ctxKey)
}
