package message

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/heartmarshall/instant-jisho/internal/domain"
)

// ErrUnknownType is returned by Decode for a missing or unsupported "type".
var ErrUnknownType = errors.New("message: unknown type")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Inbound payload shapes. Pointers distinguish absent fields from zero
// values where the zero value is legal.
type (
	togglePayload struct {
		Value *bool `json:"value" validate:"required"`
	}
	requestPayload struct {
		Words []string `json:"words" validate:"required,min=1,dive,required"`
	}
	cancelPayload struct {
		Words []string `json:"words" validate:"required,dive,required"`
	}
	responsePayload struct {
		Word  string        `json:"word" validate:"required"`
		Entry *domain.Entry `json:"entry"`
	}
)

// Decode parses and validates one message. Malformed JSON and an unknown
// type are reported as is; payloads failing validation yield a
// *domain.ValidationError.
func Decode(data []byte) (Message, error) {
	var head struct {
		Type Type `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("message: decode json: %w", err)
	}

	switch head.Type {
	case TypeToggle:
		var p togglePayload
		if err := unmarshalValid(data, &p); err != nil {
			return nil, err
		}
		return Toggle{Value: *p.Value}, nil

	case TypeTranslateRequest:
		var p requestPayload
		if err := unmarshalValid(data, &p); err != nil {
			return nil, err
		}
		return TranslateRequest{Words: p.Words}, nil

	case TypeTranslateCancel:
		var p cancelPayload
		if err := unmarshalValid(data, &p); err != nil {
			return nil, err
		}
		return TranslateCancel{Words: p.Words}, nil

	case TypeTranslateResponse:
		var p responsePayload
		if err := unmarshalValid(data, &p); err != nil {
			return nil, err
		}
		return TranslateResponse{Word: p.Word, Entry: p.Entry}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, head.Type)
	}
}

// Encode serializes m with its type discriminator.
func Encode(m Message) ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("message: encode %s: %w", m.Type(), err)
	}
	return data, nil
}

func unmarshalValid(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("message: decode json: %w", err)
	}
	if err := validate.Struct(v); err != nil {
		return toValidationError(err)
	}
	return nil
}

func toValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("message: validate: %w", err)
	}
	fields := make([]domain.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, domain.FieldError{
			Field:   fieldPath(fe),
			Message: describe(fe),
		})
	}
	return domain.NewValidationErrors(fields)
}

// fieldPath drops the payload struct name: "requestPayload.words[0]"
// becomes "words[0]".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "min":
		return "must have at least " + fe.Param() + " element(s)"
	default:
		return "failed " + fe.Tag()
	}
}
