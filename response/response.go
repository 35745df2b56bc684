package response

import (
	"time"

	"partyinvite/models"
)

type Response struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Error     models.Kind `json:"error,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp"`
}

func Ok(message string, data interface{}) Response {
	return Response{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: now(),
	}
}

// Fail describes err by kind and caller-facing message.
func Fail(err error) Response {
	return Response{
		Success:   false,
		Message:   models.MessageOf(err),
		Error:     models.KindOf(err),
		Timestamp: now(),
	}
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
