package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// OptionsGet, OptionsGetPost and OptionsGetPatchDelete answer OPTIONS
// requests with the verbs the resource supports in the "allow" header.
func OptionsGet(c *gin.Context)            { options(c, "GET") }
func OptionsGetPost(c *gin.Context)        { options(c, "GET, POST") }
func OptionsGetPatchDelete(c *gin.Context) { options(c, "GET, PATCH, DELETE") }

func options(c *gin.Context, allowed string) {
	c.Header("allow", allowed)
	c.Status(http.StatusNoContent)
}
