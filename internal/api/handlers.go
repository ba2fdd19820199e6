package api

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"carnorm/internal/errors"
	"carnorm/internal/pipeline"
	"carnorm/internal/source"
)

// handleNormalize runs the pipeline over the request body. The body may be
// gzip or zstd compressed; the limit applies before and after decompression.
func (s *Server) handleNormalize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowed(w, http.MethodPost)
		return
	}

	opts, err := ParseOutputParams(r, s.config.Output)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	body := http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes)
	reader := &source.Reader{MaxBytes: s.config.MaxBodyBytes}
	input, err := reader.ReadFrom(body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if stderrors.As(err, &maxErr) || stderrors.Is(err, source.ErrTooLarge) {
			s.metrics.RecordFailure("BODY_TOO_LARGE")
			WriteError(w, errors.NewInvalidDocument(
				fmt.Sprintf("request body exceeds %d bytes", s.config.MaxBodyBytes), err),
				http.StatusRequestEntityTooLarge)
			return
		}
		s.fail(w, r, errors.NewIOFailure("request body", err))
		return
	}

	start := time.Now()
	records, err := pipeline.Process(input)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	data, err := pipeline.Export(records, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.metrics.RecordNormalize(len(records), time.Since(start))

	w.Header().Set("Content-Type", opts.Format.ContentType()+"; charset=utf-8")
	w.Header().Set("X-Record-Count", strconv.Itoa(len(records)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.InternalError
	var carErr *errors.CarError
	if stderrors.As(err, &carErr) {
		code = carErr.Code
	}
	s.metrics.RecordFailure(string(code))

	s.logger.Warn("Normalize request rejected", map[string]interface{}{
		"requestID": GetRequestID(r.Context()),
		"code":      string(code),
		"error":     err.Error(),
	})
	WriteCarError(w, err)
}
