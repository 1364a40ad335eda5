// internal/app/system/rpc/decode.go
package rpc

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/schema"
	"github.com/orkestra-ventures/orkestra/internal/app/system/inputval"
)

// MaxBodyBytes caps a procedure's request body.
const MaxBodyBytes = 1 << 20

// LimitBody caps request bodies before any middleware reads them.
func LimitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
		}
		next.ServeHTTP(w, r)
	})
}

// input is the undecoded procedure input: a JSON document or a form post.
type input struct {
	raw  json.RawMessage
	form url.Values
}

func readInput(w http.ResponseWriter, r *http.Request) (input, error) {
	if r.Method == http.MethodGet {
		q := r.URL.Query().Get("input")
		if q == "" {
			return input{}, nil
		}
		if !json.Valid([]byte(q)) {
			return input{}, BadRequest("The input parameter is not valid JSON.")
		}
		return input{raw: json.RawMessage(q)}, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return input{}, bodyError(err)
		}
		return input{form: r.PostForm}, nil
	case "multipart/form-data":
		if err := r.ParseMultipartForm(MaxBodyBytes); err != nil {
			return input{}, bodyError(err)
		}
		return input{form: r.PostForm}, nil
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return input{}, bodyError(err)
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return input{}, nil
	}
	if !json.Valid(body) {
		return input{}, BadRequest("Request body is not valid JSON.")
	}
	return input{raw: body}, nil
}

func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return newError(http.StatusRequestEntityTooLarge, CodePayloadTooLarge, "Request body is too large.")
	}
	return BadRequest("Request body could not be read.")
}

// decode fills v (a pointer to struct) from the input.
func (in input) decode(v any) error {
	if in.form != nil {
		return decodeForm(in.form, v)
	}
	if len(in.raw) == 0 || string(in.raw) == "null" {
		return nil
	}

	if err := json.Unmarshal(in.raw, v); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return FieldError(typeErr.Field, fmt.Sprintf("%s has the wrong type.", typeErr.Field))
		}
		return BadRequest("Input does not match the procedure's shape.")
	}
	return nil
}

// formDecoder maps form keys onto the same json names the JSON path uses.
// Blank values never reach it, so a blank numeric field stays unset.
var formDecoder = newFormDecoder()

func newFormDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.SetAliasTag("json")
	d.IgnoreUnknownKeys(true)
	d.ZeroEmpty(false)

	d.RegisterConverter(int(0), func(s string) reflect.Value {
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 0)
		if err != nil {
			return reflect.Value{}
		}
		return reflect.ValueOf(int(n))
	})
	d.RegisterConverter(int64(0), func(s string) reflect.Value {
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return reflect.Value{}
		}
		return reflect.ValueOf(n)
	})
	d.RegisterConverter(float64(0), func(s string) reflect.Value {
		n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return reflect.Value{}
		}
		return reflect.ValueOf(n)
	})
	// Checkboxes post "on".
	d.RegisterConverter(false, func(s string) reflect.Value {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "1", "true", "on", "yes":
			return reflect.ValueOf(true)
		case "0", "false", "off", "no":
			return reflect.ValueOf(false)
		}
		return reflect.Value{}
	})
	return d
}

func decodeForm(form url.Values, v any) error {
	src := make(map[string][]string, len(form))
	for k, vals := range form {
		kept := vals[:0:0]
		for _, s := range vals {
			if strings.TrimSpace(s) != "" {
				kept = append(kept, s)
			}
		}
		if len(kept) > 0 {
			src[k] = kept
		}
	}

	err := formDecoder.Decode(v, src)
	if err == nil {
		return nil
	}
	var multi schema.MultiError
	if !errors.As(err, &multi) {
		return BadRequest("Input does not match the procedure's shape.")
	}
	keys := make([]string, 0, len(multi))
	for k := range multi {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	k := keys[0]
	label := fieldLabel(reflect.TypeOf(v), k)
	var conv schema.ConversionError
	if errors.As(multi[k], &conv) {
		return FieldError(k, conversionMessage(label, conv.Type))
	}
	return FieldError(k, label+" is not valid.")
}

var timeType = reflect.TypeOf(time.Time{})

func conversionMessage(label string, t reflect.Type) string {
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch {
	case t == nil:
		return label + " is not valid."
	case t == timeType:
		return label + " must be an RFC 3339 timestamp."
	case t.Kind() >= reflect.Int && t.Kind() <= reflect.Int64:
		return label + " must be a whole number."
	case t.Kind() == reflect.Float32 || t.Kind() == reflect.Float64:
		return label + " must be a number."
	case t.Kind() == reflect.Bool:
		return label + " must be true or false."
	}
	return label + " is not valid."
}

// fieldLabel returns the label tag of the field whose json name is key,
// falling back to key itself.
func fieldLabel(t reflect.Type, key string) string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return key
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if f.Anonymous && name == "" {
			if l := fieldLabel(f.Type, key); l != key {
				return l
			}
			continue
		}
		if strings.EqualFold(name, key) {
			if l := f.Tag.Get("label"); l != "" {
				return l
			}
			return key
		}
	}
	return key
}

// Bind decodes the call's input into v and validates it. Validation
// failures come back as an inputval.Result.
func (c *Call) Bind(v any) error {
	if err := c.in.decode(v); err != nil {
		return err
	}
	if res := inputval.Validate(v); res.HasErrors() {
		return res
	}
	return nil
}

// Decode fills v without validating it.
func (c *Call) Decode(v any) error {
	return c.in.decode(v)
}
