// Command carnorm-wasm exposes the normalizer to browsers as the global
// JavaScript function parseJson. Build it with GOOS=js GOARCH=wasm and serve
// the result with `carnorm serve --assets`.
package main

import (
	stderrors "errors"
	"fmt"

	"github.com/TwiN/go-color"

	"carnorm/internal/errors"
	"carnorm/internal/pipeline"
)

const example = `[{"Name":"chevy s-10","Miles_per_Gallon":31,"Cylinders":4,"Displacement":"119","Horsepower":82,"Weight_in_lbs":2720,"Acceleration":19.4,"Year":"1982-01-01","Origin":"USA"}]`

// greeting is printed to the browser console at start-up.
func greeting() string {
	return fmt.Sprintf("Hello%s webassembly!%s\nTry this example:\nparseJson('%s')", color.Red, color.Reset, example)
}

// parseJSON returns the canonical text, or an {error, code} object that
// the JavaScript side can inspect.
func parseJSON(text string) interface{} {
	out, err := pipeline.Run(text)
	if err != nil {
		code := string(errors.InternalError)
		var carErr *errors.CarError
		if stderrors.As(err, &carErr) {
			code = string(carErr.Code)
		}
		return map[string]interface{}{
			"error": err.Error(),
			"code":  code,
		}
	}
	return out
}
