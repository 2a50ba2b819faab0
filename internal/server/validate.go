package server

import (
	"errors"
	"strings"

	"ladangwatch/pkg/types"

	"github.com/go-playground/validator/v10"
)

func (s *Service) validateStruct(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, strings.ToLower(fe.Field()))
		}
		return types.NewValidationError("invalid fields: %s", strings.Join(fields, ", "))
	}

	return types.NewValidationError("invalid request: %v", err)
}
