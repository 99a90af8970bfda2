package browse

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Websocket message types.
const (
	MsgQuerySet          = "query:set"
	MsgSortSet           = "sort:set"
	MsgGenreSet          = "genre:set"
	MsgDescriptionToggle = "description:toggle"

	MsgViewUpdated  = "view:updated"
	MsgGenresLoaded = "genres:loaded"
	MsgInputInvalid = "input:invalid"
)

// ErrUnknownMessage is returned for a message type no handler accepts.
var ErrUnknownMessage = errors.New("unknown message type")

// QueryPayload is the payload of query:set.
type QueryPayload struct {
	Value string `json:"value" validate:"max=200"`
}

// SortPayload is the payload of sort:set.
type SortPayload struct {
	Value string `json:"value" validate:"required,oneof=popularity.desc popularity.asc vote_average.desc vote_average.asc release_date.desc release_date.asc"`
}

// GenrePayload is the payload of genre:set. An empty value selects all genres.
type GenrePayload struct {
	Value string `json:"value" validate:"omitempty,number,max=10"`
}

// TogglePayload is the payload of description:toggle.
type TogglePayload struct {
	MovieID int `json:"movieId" validate:"gt=0"`
}

// inputValidator wraps go-playground/validator with JSON field names.
type inputValidator struct {
	v *validator.Validate
}

func newInputValidator() *inputValidator {
	v := validator.New()

	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	return &inputValidator{v: v}
}

func (iv *inputValidator) validate(s any) error {
	err := iv.v.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	fe := fieldErrs[0]
	return fmt.Errorf("%s %s", fe.Field(), friendlyMessage(fe))
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must not exceed %s characters", e.Param())
	case "oneof":
		return "must be one of: " + e.Param()
	case "number":
		return "must be a genre id"
	case "gt":
		return "must be greater than " + e.Param()
	default:
		return "is invalid"
	}
}

// decodeInput turns a websocket message into a state mutation. Nothing is
// returned for input that fails to decode or validate.
func (iv *inputValidator) decodeInput(msgType string, raw json.RawMessage) (func(*QueryState), error) {
	switch msgType {
	case MsgQuerySet:
		var p QueryPayload
		if err := iv.decode(raw, &p); err != nil {
			return nil, err
		}
		return func(q *QueryState) { q.SearchQuery = p.Value }, nil

	case MsgSortSet:
		var p SortPayload
		if err := iv.decode(raw, &p); err != nil {
			return nil, err
		}
		return func(q *QueryState) { q.SortBy = SortBy(p.Value) }, nil

	case MsgGenreSet:
		var p GenrePayload
		if err := iv.decode(raw, &p); err != nil {
			return nil, err
		}
		id := 0
		if p.Value != "" {
			n, err := strconv.Atoi(p.Value)
			if err != nil {
				return nil, errors.New("value must be a genre id")
			}
			id = n
		}
		return func(q *QueryState) { q.GenreID = id }, nil

	case MsgDescriptionToggle:
		var p TogglePayload
		if err := iv.decode(raw, &p); err != nil {
			return nil, err
		}
		return func(q *QueryState) { q.ToggleExpanded(p.MovieID) }, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownMessage, msgType)
}

func (iv *inputValidator) decode(raw json.RawMessage, dst any) error {
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("malformed payload: %w", err)
	}
	return iv.validate(dst)
}
