package param

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/schema"
	"github.com/spf13/cast"
)

const maxBodySize = 1 << 20

var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.SetAliasTag("json")
	d.IgnoreUnknownKeys(true)
	return d
}

// Binding decodes the request into v: a json body for requests carrying
// one, the url query otherwise
func Binding(r *http.Request, v interface{}) error {
	if hasJSONBody(r) {
		dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
		dec.UseNumber()
		if err := dec.Decode(v); err != nil && err != io.EOF {
			return fmt.Errorf("decode body: %w", err)
		}

		return nil
	}

	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("parse form: %w", err)
	}

	if err := decoder.Decode(v, r.Form); err != nil {
		return fmt.Errorf("decode query: %w", err)
	}

	return nil
}

func hasJSONBody(r *http.Request) bool {
	if r.Method == http.MethodGet || r.Body == nil || r.Body == http.NoBody {
		return false
	}

	typ := r.Header.Get("Content-Type")
	return typ == "" || strings.HasPrefix(typ, "application/json")
}

// Int query value as int, def when missing or malformed
func Int(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}

	n, err := cast.ToIntE(v)
	if err != nil {
		return def
	}

	return n
}
