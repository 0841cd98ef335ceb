package handler

import "net/http"

type emptyResponse struct {
	status int
}

func (e emptyResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	w.WriteHeader(e.status)
	return nil
}

// Empty responds 204 No Content, e.g. after a successful DELETE.
func Empty() Response {
	return emptyResponse{status: http.StatusNoContent}
}
