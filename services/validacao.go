package services

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report json names so clients can map errors back to their fields
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// validar runs the struct tags of v and merges extra, already detected
// problems. It returns nil or a *ValidationError.
func validar(v any, extra map[string]string) error {
	campos := make(map[string]string)
	if err := validate.Struct(v); err != nil {
		var ve validator.ValidationErrors
		if !errors.As(err, &ve) {
			return err
		}
		for _, fe := range ve {
			campos[campoRelativo(fe.Namespace())] = fe.Tag()
		}
	}
	for campo, regra := range extra {
		campos[campo] = regra
	}
	if len(campos) == 0 {
		return nil
	}
	return &ValidationError{Campos: campos}
}

// campoRelativo drops the struct name: "VendaInput.itens[0].produto" -> "itens[0].produto".
func campoRelativo(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
