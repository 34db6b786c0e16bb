package httputil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/url"
	"reflect"
	"strings"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// GetURLFields checks which query parameters are set and which of them
// can be used directly in a gorm query.
//
// queryFields contains all field names that can be passed to a gorm Where
// statement to specify the fields filtered on. gorm uses interface{} for
// these, so this is []any and not []string.
//
// setFields contains all field names set in the query parameters. This
// allows filtering for zero values without making the fields pointers.
func GetURLFields(url *url.URL, filter any) ([]any, []string) {
	return urlFields(reflect.Indirect(reflect.ValueOf(filter)).Type(), url.Query())
}

func urlFields(t reflect.Type, query url.Values) (queryFields []any, setFields []string) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		param := f.Tag.Get("form")

		if f.Anonymous && f.Type.Kind() == reflect.Struct && param == "" {
			q, s := urlFields(f.Type, query)
			queryFields = append(queryFields, q...)
			setFields = append(setFields, s...)
			continue
		}

		// filterField marks fields that are processed by explicit logic
		// instead of being passed to the Where statement
		filterField := f.Tag.Get("filterField")

		if query.Has(param) {
			setFields = append(setFields, f.Name)

			if filterField != "false" {
				queryFields = append(queryFields, f.Name)
			}
		}
	}

	return queryFields, setFields
}

// GetBodyFields returns the names of the fields of resource that are
// set in the request body.
//
// The request body is copied, so this can be called before any of
// gin's c.*Bind methods.
func GetBodyFields(c *gin.Context, resource any) ([]any, error) {
	body, _ := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(bytes.NewBuffer(body))

	if len(body) == 0 {
		return []any{}, ErrRequestBodyEmpty
	}

	var mapBody map[string]any
	if err := json.Unmarshal(body, &mapBody); err != nil {
		log.Error().Str("request-id", requestid.Get(c)).Msgf("%T: %v", err, err.Error())
		return []any{}, ErrInvalidBody
	}

	return bodyFields(reflect.Indirect(reflect.ValueOf(resource)).Type(), mapBody), nil
}

// bodyFields collects the names of the fields of t that are keys of body.
// Fields of embedded structs are promoted, as in encoding/json.
func bodyFields(t reflect.Type, body map[string]any) []any {
	var fields []any
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		param, _, _ := strings.Cut(f.Tag.Get("json"), ",")

		if f.Anonymous && f.Type.Kind() == reflect.Struct && param == "" {
			fields = append(fields, bodyFields(f.Type, body)...)
			continue
		}

		if _, ok := body[param]; ok {
			fields = append(fields, f.Name)
		}
	}
	return fields
}
