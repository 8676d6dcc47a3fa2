package web

import (
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	flashSuccess = "success"
	flashError   = "error"
)

// Flash is a one-shot notification: stored in the cookie session,
// rendered by the next page, gone after that.
type Flash struct {
	Level string
	Text  string
}

func emitFlash(c *gin.Context, level, text string) {
	sess := sessions.Default(c)
	sess.AddFlash(level + "|" + text)
	_ = sess.Save()
}

func takeFlashes(c *gin.Context) []Flash {
	sess := sessions.Default(c)
	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	_ = sess.Save()

	flashes := make([]Flash, 0, len(raw))
	for _, v := range raw {
		s, ok := v.(string)
		if !ok {
			continue
		}
		level, text, found := strings.Cut(s, "|")
		if !found {
			level, text = flashSuccess, s
		}
		flashes = append(flashes, Flash{Level: level, Text: text})
	}
	return flashes
}
