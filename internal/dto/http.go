package dto

import "net/http"

// BaseResponse is the envelope of every JSON API response. Errors lists field-level validation
// failures on 400 responses.
type BaseResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Errors  []string    `json:"errors,omitempty"`
}

func NewBaseResponse(code int, message string, data interface{}) *BaseResponse {
	return &BaseResponse{Code: code, Message: message, Data: data}
}

func NewSuccessResponse(message string, data interface{}) *BaseResponse {
	return NewBaseResponse(http.StatusOK, message, data)
}

func NewCreatedResponse(message string, data interface{}) *BaseResponse {
	return NewBaseResponse(http.StatusCreated, message, data)
}

func NewAcceptedResponse(message string, data interface{}) *BaseResponse {
	return NewBaseResponse(http.StatusAccepted, message, data)
}

// NewErrorResponse carries no data; message is shown to the client as is.
func NewErrorResponse(code int, message string) *BaseResponse {
	return NewBaseResponse(code, message, nil)
}

func NewBadRequestResponse(message string, errs ...string) *BaseResponse {
	resp := NewErrorResponse(http.StatusBadRequest, message)
	resp.Errors = errs
	return resp
}
