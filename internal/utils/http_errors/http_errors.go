package errutils

import (
	"encoding/json"
	"net/http"
)

type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code int    `json:"code"`
	Text string `json:"text"`
}

func WriteJSONError(w http.ResponseWriter, code int, text string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	_ = json.NewEncoder(w).Encode(errorResponse{
		Error: errorBody{
			Code: code,
			Text: text,
		},
	})
}
