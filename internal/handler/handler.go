package handler

import (
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	apperrors "mnki/internal/errors"
	"mnki/internal/service"
)

// httpError translates a service error into the uniform error envelope.
func httpError(err error) *echo.HTTPError {
	he := apperrors.MapErrorToHTTP(err)
	return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
}

// FieldError is one entry of a validation failure response.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// validationError turns validator failures into a 400 with a structured
// field list; anything else becomes a generic bad-request.
func validationError(err error) *echo.HTTPError {
	var verrs validator.ValidationErrors
	if !asValidationErrors(err, &verrs) {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{Error: err.Error()})
	}
	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{
			Field:   fe.Field(),
			Message: "failed on " + fe.Tag() + " validation",
		})
	}
	return echo.NewHTTPError(http.StatusBadRequest, map[string]interface{}{"errors": fields})
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	verrs, ok := err.(validator.ValidationErrors)
	if ok {
		*target = verrs
	}
	return ok
}

// readImage pulls a multipart image file into memory. required controls
// whether a missing file is an error or a nil upload.
func readImage(c echo.Context, field string, required bool) (*service.ImageUpload, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if required {
			return nil, echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{Error: "image file is required"})
		}
		return nil, nil
	}

	src, err := fh.Open()
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{Error: "failed to read image file"})
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{Error: "failed to read image file"})
	}

	return &service.ImageUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
