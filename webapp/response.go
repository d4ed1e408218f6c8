package webapp

import (
	"errors"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/sartorproj/goseries/packet"
	"github.com/sartorproj/goseries/table"
	"github.com/sartorproj/goseries/timeseries"
)

// Response codes.
const (
	CodeSuccess      = "SUCCESS"
	CodeInvalidInput = "INVALID_INPUT"
	CodeInternal     = "INTERNAL_ERROR"
)

// Response is the JSON envelope of every API reply.
type Response struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// errBadRequest marks malformed form input.
var errBadRequest = errors.New("bad request")

// SuccessResponse writes data with status 200.
func SuccessResponse(c *app.RequestContext, data any) {
	c.JSON(consts.StatusOK, Response{
		Code:    CodeSuccess,
		Message: "operation successful",
		Data:    data,
	})
}

// ErrorResponse maps err to 400 for input and data problems and 500 for
// anything else. Only client errors expose their message.
func ErrorResponse(c *app.RequestContext, err error) {
	if isClientError(err) {
		c.JSON(consts.StatusBadRequest, Response{
			Code:    CodeInvalidInput,
			Message: err.Error(),
		})
		return
	}
	c.JSON(consts.StatusInternalServerError, Response{
		Code:    CodeInternal,
		Message: "internal server error",
	})
}

func isClientError(err error) bool {
	for _, target := range []error{
		errBadRequest,
		table.ErrInvalidCSV,
		table.ErrColumnNotFound,
		timeseries.ErrInvalidData,
		timeseries.ErrMissingColumn,
		packet.ErrUnknownSlot,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
