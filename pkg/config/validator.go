package config

import (
	"slices"

	"github.com/go-playground/validator/v10"
)

// tiktokenEncodings lists the encodings the token counter can load.
var tiktokenEncodings = []string{"cl100k_base", "o200k_base", "p50k_base", "p50k_edit", "r50k_base"}

// RegisterCustomValidators registers custom validation functions
func RegisterCustomValidators(v *validator.Validate) error {
	return v.RegisterValidation("tiktoken_encoding", validateTiktokenEncoding)
}

func validateTiktokenEncoding(fl validator.FieldLevel) bool {
	return slices.Contains(tiktokenEncodings, fl.Field().String())
}
