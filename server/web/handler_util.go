package web

import (
	"encoding/json"
	"net/http"
	"strconv"
)

func writeJson(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	enc.Encode(v)
}

func formInt(r *http.Request, name string) int {
	val, err := strconv.Atoi(r.FormValue(name))

	if err != nil {
		return -1
	}

	return val
}
