package api

import (
	"net/http"
	"strconv"

	"carnorm/internal/errors"
	"carnorm/internal/export"
)

// ParseOutputParams reads ?format= and ?indent= on top of the server
// defaults.
func ParseOutputParams(r *http.Request, defaults export.Options) (export.Options, error) {
	query := r.URL.Query()
	opts := defaults

	if f := query.Get("format"); f != "" {
		format, err := export.ParseFormat(f)
		if err != nil {
			return opts, err
		}
		opts.Format = format
	}

	if v := query.Get("indent"); v != "" {
		indent, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.NewInvalidParameter("indent", "must be a boolean")
		}
		opts.Indent = indent
	}

	return opts, nil
}
