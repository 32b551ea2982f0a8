// Package httpx reúne el parseo de peticiones que comparten los handlers.
package httpx

import (
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/luisrdz5/sistemahacienda-sub001/internal/apperr"
	"github.com/luisrdz5/sistemahacienda-sub001/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// En los errores usar el nombre JSON del campo
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ParseBody decodifica el JSON y aplica las etiquetas validate del DTO.
func ParseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return apperr.Validation(apperr.CodeInvalidInput, "Cuerpo de la petición inválido")
	}
	if err := validate.Struct(dst); err != nil {
		return ValidationError(err)
	}
	return nil
}

func ValidationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperr.Validation(apperr.CodeInvalidInput, err.Error())
	}
	details := make([]FieldError, 0, len(verrs))
	for _, e := range verrs {
		details = append(details, FieldError{Field: e.Field(), Message: message(e)})
	}
	return apperr.Validation(apperr.CodeInvalidInput, "Datos inválidos").WithDetails(details)
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "Campo obligatorio"
	case "oneof":
		return "Debe ser uno de: " + e.Param()
	case "gt":
		return "Debe ser mayor a " + e.Param()
	case "min":
		return "Mínimo " + e.Param()
	case "max":
		return "Máximo " + e.Param()
	case "datetime":
		return "Formato de fecha AAAA-MM-DD"
	default:
		return "Valor inválido"
	}
}

// ParamID lee un parámetro de ruta numérico.
func ParamID(c *fiber.Ctx, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || v == 0 {
		return 0, apperr.Validation(apperr.CodeInvalidInput, name+" inválido")
	}
	return uint(v), nil
}

// QueryUint: nil si no viene; error si viene mal formado.
func QueryUint(c *fiber.Ctx, key string) (*uint, error) {
	s := c.Query(key)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil || v == 0 {
		return nil, apperr.Validation(apperr.CodeInvalidInput, key+" inválido")
	}
	u := uint(v)
	return &u, nil
}

func QueryInt(c *fiber.Ctx, key string, def int) (int, error) {
	s := c.Query(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, apperr.Validation(apperr.CodeInvalidInput, key+" inválido")
	}
	return v, nil
}

// QueryDate: nil si no viene.
func QueryDate(c *fiber.Ctx, key string) (*time.Time, error) {
	s := c.Query(key)
	if s == "" {
		return nil, nil
	}
	d, err := models.ParseDay(s)
	if err != nil {
		return nil, apperr.Validation(apperr.CodeInvalidInput, key+" debe tener formato AAAA-MM-DD")
	}
	return &d, nil
}

// RequiredDate es QueryDate con valor por defecto "hoy" (UTC).
func RequiredDate(c *fiber.Ctx, key string) (time.Time, error) {
	d, err := QueryDate(c, key)
	if err != nil {
		return time.Time{}, err
	}
	if d == nil {
		return models.Day(time.Now()), nil
	}
	return *d, nil
}

// ParseDate para campos "fecha" del cuerpo; vacío = hoy.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return models.Day(time.Now()), nil
	}
	d, err := models.ParseDay(s)
	if err != nil {
		return time.Time{}, apperr.Validation(apperr.CodeInvalidInput, "La fecha debe tener formato AAAA-MM-DD")
	}
	return d, nil
}
