package httputil

import (
	"encoding/json"
	"net/http"
)

// ReadJSON decodes a request body into dst and closes the body.
func ReadJSON(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}
