package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/edvin/customerapi/internal/model"
)

const maxBodyBytes = 1 << 20

const (
	msgRequired    = "Missing data for required field."
	msgNull        = "Field may not be null."
	msgNotString   = "Not a valid string."
	msgInvalidType = "Invalid input type."
)

// SchemaKey holds errors that apply to the body as a whole.
const SchemaKey = "_schema"

var ErrInvalidJSON = errors.New("invalid JSON")

// FieldErrors maps a JSON field name to its validation messages. It is
// written back to the client verbatim as the 400 body.
type FieldErrors map[string][]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(fe[k], " "))
	}
	return "validation error: " + strings.Join(parts, "; ")
}

func (fe FieldErrors) add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

type customerBody struct {
	CustomerName *string `json:"customer_name" validate:"required"`
	Email        *string `json:"email"`
	Phone        *string `json:"phone"`
}

// DecodeCustomer reads and validates a customer write body. Unknown keys,
// including id, are ignored. A validation failure is returned as FieldErrors.
func DecodeCustomer(r *http.Request) (model.CustomerInput, error) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return model.CustomerInput{}, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return model.CustomerInput{}, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return model.CustomerInput{}, FieldErrors{SchemaKey: {msgInvalidType}}
	}

	errs := FieldErrors{}
	var body customerBody
	body.CustomerName = stringField(obj, "customer_name", errs)
	body.Email = stringField(obj, "email", errs)
	body.Phone = stringField(obj, "phone", errs)

	if err := validate.Struct(body); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return model.CustomerInput{}, fmt.Errorf("validation error: %w", err)
		}
		for _, fe := range verrs {
			if len(errs[fe.Field()]) > 0 {
				continue
			}
			if fe.Tag() == "required" {
				errs.add(fe.Field(), msgRequired)
			} else {
				errs.add(fe.Field(), fe.Error())
			}
		}
	}

	if len(errs) > 0 {
		return model.CustomerInput{}, errs
	}

	return model.CustomerInput{
		CustomerName: *body.CustomerName,
		Email:        body.Email,
		Phone:        body.Phone,
	}, nil
}

// stringField returns the string value of key, or nil when it is absent or
// invalid. Invalid values are recorded in errs.
func stringField(obj map[string]any, key string, errs FieldErrors) *string {
	v, present := obj[key]
	if !present {
		return nil
	}
	switch s := v.(type) {
	case nil:
		errs.add(key, msgNull)
	case string:
		return &s
	default:
		errs.add(key, msgNotString)
	}
	return nil
}
