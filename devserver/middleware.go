package devserver

import (
	"fmt"
	"log"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/etnz/profiles/api"
)

// TraceHeader is the response header carrying the id of the request.
const TraceHeader = "X-Trace-Id"

const traceKey = "trace_id"

// traceID tags every request with a uuid, reusing the one of the caller.
func traceID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(TraceHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(traceKey, id)
		c.Header(TraceHeader, id)
		c.Next()
	}
}

// requestLog logs one line per request.
func requestLog(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Printf("%s %s %d %v trace=%s",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start).Round(time.Microsecond), c.GetString(traceKey))
	}
}

// recovery turns panics into a 500 envelope.
func recovery(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Printf("panic serving %s %s trace=%s: %v\n%s", c.Request.Method, c.Request.URL.Path, c.GetString(traceKey), r, debug.Stack())
				internalError(c, fmt.Errorf("%v", r))
			}
		}()
		c.Next()
	}
}

func ok(c *gin.Context, msg string, data any) {
	c.JSON(http.StatusOK, api.Envelope[any]{Status: api.StatusOK, Msg: msg, Data: data})
}

// fail aborts the request with an envelope whose business status is the
// HTTP status.
func fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, api.Envelope[any]{Status: status, Msg: msg})
}

func internalError(c *gin.Context, err error) {
	_ = c.Error(err)
	fail(c, http.StatusInternalServerError, "Internal Server Error")
}
