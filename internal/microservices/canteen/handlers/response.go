package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"campus-canteen/internal/common/logger"
	"campus-canteen/internal/domain"
)

var lg = logger.New("canteen-server")

const apiPrefix = "/api/v1"

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeProblem writes a simplified RFC 7807 body. redirect names the route a
// client should return to.
func writeProblem(w http.ResponseWriter, code int, typ, detail, redirect string) {
	resp := map[string]any{
		"type":   typ,
		"title":  http.StatusText(code),
		"status": code,
		"detail": detail,
	}
	if redirect != "" {
		resp["redirect"] = redirect
	}
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}

func statusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindAuthorization:
		return http.StatusForbidden
	case domain.KindConflict, domain.KindUnavailable, domain.KindInvalidTransition:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps domain errors to their status; anything else is logged and
// hidden behind a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, err error, redirect string) {
	var de *domain.Error
	if errors.As(err, &de) {
		writeProblem(w, statusFor(de.Kind), string(de.Kind), de.Message, redirect)
		return
	}
	lg.FromContext(r.Context()).Error("request_failed", err, map[string]any{"method": r.Method, "path": r.URL.Path})
	writeProblem(w, http.StatusInternalServerError, "internal", "something went wrong, please try again", redirect)
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	if err := dec.Decode(v); err != nil {
		return domain.Validation("invalid JSON body")
	}
	return nil
}

func pathID(r *http.Request, key string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(key), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.Validation("invalid " + key)
	}
	return id, nil
}

// flexPrice accepts a price sent as a JSON number or string.
type flexPrice string

func (p *flexPrice) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*p = flexPrice(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		*p = ""
		return nil
	}
	*p = flexPrice(n.String())
	return nil
}
