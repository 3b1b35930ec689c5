package api

import (
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/globetrotter/server/internal/apperrors"
	"github.com/globetrotter/server/internal/models"
	"github.com/globetrotter/server/internal/utils"
	"github.com/go-playground/validator/v10"
)

var registerTagNames sync.Once

// useJSONFieldNames makes validator report fields by their JSON names.
func useJSONFieldNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// writeError renders err as an ErrorResponse with the status of its code.
func writeError(c *gin.Context, err error) {
	appErr := apperrors.From(err)
	c.JSON(appErr.Code.HTTPStatus(), models.ErrorResponse{
		Status:  "error",
		Code:    string(appErr.Code),
		Message: appErr.Message,
		Details: appErr.Fields,
	})
}

// respondError writes err and logs internal failures, whose cause never
// reaches the client.
func respondError(c *gin.Context, logger *utils.Logger, err error) {
	if apperrors.CodeOf(err) == apperrors.CodeInternal {
		logger.Error("%s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	writeError(c, err)
}

// bindError converts a gin binding failure into a validation error.
func bindError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fieldPath(fe)] = fieldMessage(fe)
		}
		return apperrors.Validation("invalid request", fields)
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.EOF):
		return apperrors.Validation("request body is required", nil)
	case errors.As(err, &typeErr):
		return apperrors.Validation("invalid request body", map[string]string{typeErr.Field: "has the wrong type"})
	case errors.As(err, &syntaxErr):
		return apperrors.Validation("malformed JSON", nil)
	}
	return apperrors.Wrap(apperrors.CodeValidation, "invalid request body", err)
}

// fieldPath drops the struct name from the validator namespace, giving
// paths such as "stops[0].cityId".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "len":
		return "must have length " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "oneof":
		return "must be one of " + fe.Param()
	case "url":
		return "must be a valid URL"
	}
	return "is invalid"
}
