//go:build js && wasm

package main

import (
	"fmt"
	"syscall/js"
)

func jsParseJSON(this js.Value, args []js.Value) interface{} {
	if len(args) != 1 || args[0].Type() != js.TypeString {
		return map[string]interface{}{
			"error": "parseJson expects a single string argument",
			"code":  "INVALID_PARAMETER",
		}
	}
	return parseJSON(args[0].String())
}

func main() {
	fmt.Println(greeting())
	js.Global().Set("parseJson", js.FuncOf(jsParseJSON))
	select {}
}
