package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// DataResponse writes the envelope. The HTTP status mirrors the envelope status.
func DataResponse(c echo.Context, statusCode int, data interface{}) error {
	return c.JSON(statusCode, APIResponse{
		Status:  statusCode,
		Message: http.StatusText(statusCode),
		Data:    data,
	})
}

// SuccessResponse writes success response.
func SuccessResponse(c echo.Context, data interface{}) error {
	return DataResponse(c, http.StatusOK, data)
}

// BadRequestResponse writes bad request error.
func BadRequestResponse(c echo.Context, data interface{}) error {
	return DataResponse(c, http.StatusBadRequest, data)
}

// AppErrorResponse writes an application error. Plain errors are reported
// as 500 with their message as detail.
func AppErrorResponse(c echo.Context, err error) error {
	appErr := AsAppError(err)
	return DataResponse(c, appErr.Status, []*AppError{appErr})
}
