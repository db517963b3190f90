package handlers

import (
	"github.com/gin-gonic/gin"
)

// ErrorResponse структура ответа с ошибкой
type ErrorResponse struct {
	Error string `json:"error"`
}

// SendJSONResponse отправляет успешный JSON ответ
func SendJSONResponse(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

// SendJSONError отправляет JSON ответ с ошибкой
func SendJSONError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Error: message})
}
