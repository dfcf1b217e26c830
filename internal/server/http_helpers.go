package server

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

func writeJSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

func writeError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// writeGameError maps domain errors to a status. Unclassified errors are
// logged and hidden from the client.
func writeGameError(c *gin.Context, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		log.Printf("request failed method=%s path=%s error=%v", c.Request.Method, c.Request.URL.Path, err)
		writeError(c, status, "internal error")
		return
	}
	writeError(c, status, err.Error())
}

func hostTokenFrom(c *gin.Context) string {
	if token := c.GetHeader("X-Host-Token"); token != "" {
		return token
	}
	return c.PostForm("host_token")
}
