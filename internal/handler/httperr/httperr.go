package httperr

import (
	"errors"

	"github.com/gin-gonic/gin"
)

type Body struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type Response struct {
	Status int  `json:"-"`
	OK     bool `json:"ok"`
	Error  Body `json:"error"`
}

func New(status int, code, msg string) Response {
	return Response{Status: status, Error: Body{Code: code, Message: msg}}
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, code, msg string) {
	if err == nil {
		err = errors.New(msg)
	}

	resp := New(status, code, msg)

	_ = c.Error(&gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}
