package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"quranstudy/apperror"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Envelope is the shape of every JSON body the API returns.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
	Error   *string     `json:"error"`
	Stack   string      `json:"stack,omitempty"`
}

// exposeCauses controls whether the wrapped cause of an error reaches the client.
var exposeCauses = true

// SetProduction hides internal error causes from responses.
func SetProduction(production bool) {
	exposeCauses = !production
}

func Success(c *gin.Context, status int, message string, data interface{}) {
	if status == http.StatusNoContent {
		c.Status(status)
		return
	}
	c.JSON(status, Envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func OK(c *gin.Context, message string, data interface{}) {
	Success(c, http.StatusOK, message, data)
}

func Created(c *gin.Context, message string, data interface{}) {
	Success(c, http.StatusCreated, message, data)
}

func NoContent(c *gin.Context) {
	Success(c, http.StatusNoContent, "", nil)
}

// Error writes err as a failure envelope.
func Error(c *gin.Context, err error) {
	appErr := apperror.From(err)
	c.JSON(appErr.Status, failure(appErr))
}

// Abort writes err and stops the handler chain.
func Abort(c *gin.Context, err error) {
	appErr := apperror.From(err)
	c.AbortWithStatusJSON(appErr.Status, failure(appErr))
}

// BindError converts a gin binding failure into a 400 envelope.
func BindError(c *gin.Context, err error) {
	Error(c, apperror.BadRequest(ValidationMessage(err)))
}

func failure(appErr *apperror.Error) Envelope {
	message := appErr.Message
	env := Envelope{
		Success: false,
		Message: message,
		Error:   &message,
	}
	if exposeCauses && appErr.Err != nil {
		env.Stack = appErr.Err.Error()
	}
	return env
}

// ValidationMessage renders validator errors the way clients expect them,
// e.g. `"topic" is required`.
func ValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return decodeMessage(err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return strings.Join(msgs, ", ")
}

// decodeMessage covers failures that happen before validation runs.
func decodeMessage(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return fmt.Sprintf("%q must be of type %s", typeErr.Field, typeErr.Type.Kind())
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return "Request body is not valid JSON"
	}
	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		return fmt.Sprintf("%q is not a valid number", numErr.Num)
	}
	return err.Error()
}

func fieldMessage(fe validator.FieldError) string {
	field := fmt.Sprintf("%q", lowerFirst(fe.Field()))
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s length must be at least %s characters long", field, fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must contain at least %s items", field, fe.Param())
		}
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s length must be less than or equal to %s characters long", field, fe.Param())
		}
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	case "email":
		return field + " must be a valid email"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "password":
		return field + " must contain at least 1 letter and 1 number"
	default:
		return fmt.Sprintf("%s failed on the %q rule", field, fe.Tag())
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
