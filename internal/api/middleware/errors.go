package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/lzjever/mbos-activity/internal/core"
)

// writeError mirrors api.WriteError; middleware cannot import the api package.
func writeError(w http.ResponseWriter, code core.ErrorCode, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code.HTTPStatus())
	json.NewEncoder(w).Encode(map[string]string{
		"code":    string(code),
		"message": msg,
	})
}
