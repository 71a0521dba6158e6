package helper

import (
	"errors"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"chamber-cms/models"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// HTTPHelper writes the JSON bodies every handler returns: data on success,
// { "message" } on failure, plus "errors" for field validation failures.
type HTTPHelper struct {
	Validate   *validator.Validate
	Translator ut.Translator
}

var (
	setupOnce  sync.Once
	sharedHTTP *HTTPHelper
)

// NewHTTPHelper hooks English translations into gin's binding validator so
// binding errors can be reported per field.
func NewHTTPHelper() *HTTPHelper {
	setupOnce.Do(func() {
		h := &HTTPHelper{}
		locale := en.New()
		h.Translator, _ = ut.New(locale, locale).GetTranslator("en")

		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.RegisterTagNameFunc(jsonFieldName)
			if err := en_translations.RegisterDefaultTranslations(v, h.Translator); err != nil {
				slog.Error("registering validator translations", "error", err)
			}
			h.Validate = v
		}
		sharedHTTP = h
	})
	return sharedHTTP
}

func jsonFieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

// GetStatusCode maps a service error onto an HTTP status.
func (u *HTTPHelper) GetStatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrValidation), errors.Is(err, models.ErrConflict):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// SendMessage writes { "message": message } with the given status.
func (u *HTTPHelper) SendMessage(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"message": message})
}

// SendSuccess writes data with status 200.
func (u *HTTPHelper) SendSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func (u *HTTPHelper) SendCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

func (u *HTTPHelper) SendBadRequest(c *gin.Context, message string) {
	u.SendMessage(c, http.StatusBadRequest, message)
}

func (u *HTTPHelper) SendUnauthorizedError(c *gin.Context, message string) {
	u.SendMessage(c, http.StatusUnauthorized, message)
}

func (u *HTTPHelper) SendForbiddenError(c *gin.Context, message string) {
	u.SendMessage(c, http.StatusForbidden, message)
}

func (u *HTTPHelper) SendNotFoundError(c *gin.Context, message string) {
	u.SendMessage(c, http.StatusNotFound, message)
}

// SendValidationError reports a binding failure. Validator errors are
// translated per field, anything else (malformed JSON, wrong types) gets
// a generic message.
func (u *HTTPHelper) SendValidationError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || u.Translator == nil {
		u.SendBadRequest(c, "Invalid request body")
		return
	}

	errorResponse := map[string][]string{}
	errorTranslation := validationErrors.Translate(u.Translator)
	message := ""
	for _, fe := range validationErrors {
		text := errorTranslation[fe.Namespace()]
		errorResponse[fe.Field()] = append(errorResponse[fe.Field()], text)
		if message == "" {
			message = text
		}
	}

	c.JSON(http.StatusBadRequest, gin.H{
		"message": message,
		"errors":  errorResponse,
	})
}

// SendServiceError writes a domain error with its mapped status. Unexpected
// errors are logged and replaced by fallback so internals never leak.
func (u *HTTPHelper) SendServiceError(c *gin.Context, err error, fallback string) {
	code := u.GetStatusCode(err)
	if code == http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), fallback, "error", err, "path", c.FullPath())
		u.SendMessage(c, code, fallback)
		return
	}

	message := err.Error()
	var userErr *models.UserError
	if errors.As(err, &userErr) {
		message = userErr.Message
	}
	u.SendMessage(c, code, message)
}
