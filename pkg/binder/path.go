package binder

import (
	"encoding"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strings"
)

var textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()

// Path binds URL path parameters using the router's extractor, e.g. chi.URLParam.
//
// Only fields tagged with `path:"name"` are bound. Targets must be string kinds
// (named string types included), pointers to them, or implement encoding.TextUnmarshaler.
// Escaped values are unescaped, so "%2B15550001" binds as "+15550001".
//
//	type CancelRequest struct {
//		UserID    string `path:"userID"`
//		ServiceID string `path:"serviceID"`
//	}
//
//	r.Delete("/users/{userID}/subscriptions/{serviceID}", handler.Wrap(h.cancel,
//		handler.WithBinders(binder.Path(chi.URLParam)),
//	))
func Path(extractor func(r *http.Request, key string) string) func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		if extractor == nil {
			return fmt.Errorf("%w: extractor function is nil", ErrFailedToParsePath)
		}

		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
			return fmt.Errorf("%w: target must be a non-nil pointer to struct", ErrFailedToParsePath)
		}
		rv = rv.Elem()

		for _, sf := range reflect.VisibleFields(rv.Type()) {
			name, _, _ := strings.Cut(sf.Tag.Get("path"), ",")
			if name == "" || name == "-" || !sf.IsExported() {
				continue
			}

			raw := extractor(r, name)
			if raw == "" {
				continue
			}
			value, err := url.PathUnescape(raw)
			if err != nil {
				return fmt.Errorf("%w: %s: %v", ErrFailedToParsePath, name, err)
			}

			field, err := rv.FieldByIndexErr(sf.Index)
			if err != nil {
				// nil embedded pointer
				continue
			}
			if err := setPathValue(field, value); err != nil {
				return fmt.Errorf("%w: field %s: %v", ErrFailedToParsePath, sf.Name, err)
			}
		}

		return nil
	}
}

func setPathValue(field reflect.Value, value string) error {
	if field.Kind() == reflect.Pointer {
		if field.IsNil() {
			field.Set(reflect.New(field.Type().Elem()))
		}
		field = field.Elem()
	}

	if field.Addr().Type().Implements(textUnmarshalerType) {
		return field.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(value))
	}
	if field.Kind() != reflect.String {
		return fmt.Errorf("unsupported type %s", field.Type())
	}
	field.SetString(value)
	return nil
}
