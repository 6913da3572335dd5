package httptransport

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func int64Param(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// seqParam reads the mailbox sequence. A missing value means zero.
func seqParam(r *http.Request) (int64, bool) {
	v := r.URL.Query().Get("seq")
	if v == "" {
		return 0, true
	}
	seq, err := strconv.ParseInt(v, 10, 64)
	if err != nil || seq < 0 {
		return 0, false
	}
	return seq, true
}
