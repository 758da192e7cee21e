//go:build js && wasm

package jsdom

import (
	"fmt"
	"syscall/js"
)

// JSError is a rejected promise value.
type JSError struct {
	Code    int
	Message string
}

func (e *JSError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("jsdom: %s (code %d)", e.Message, e.Code)
	}
	return "jsdom: " + e.Message
}

// Await blocks until promise settles.
func Await(promise js.Value) (js.Value, error) {
	type settled struct {
		value js.Value
		err   error
	}
	done := make(chan settled, 1)

	onResolve := js.FuncOf(func(_ js.Value, args []js.Value) any {
		v := js.Undefined()
		if len(args) > 0 {
			v = args[0]
		}
		done <- settled{value: v}
		return nil
	})
	defer onResolve.Release()
	onReject := js.FuncOf(func(_ js.Value, args []js.Value) any {
		v := js.Undefined()
		if len(args) > 0 {
			v = args[0]
		}
		done <- settled{err: rejection(v)}
		return nil
	})
	defer onReject.Release()

	promise.Call("then", onResolve, onReject)
	out := <-done
	return out.value, out.err
}

func rejection(v js.Value) *JSError {
	if v.Type() != js.TypeObject {
		if truthy(v) {
			return &JSError{Message: v.String()}
		}
		return &JSError{Message: "promise rejected"}
	}
	e := &JSError{}
	if code := v.Get("code"); code.Type() == js.TypeNumber {
		e.Code = code.Int()
	}
	if msg := v.Get("message"); msg.Type() == js.TypeString {
		e.Message = msg.String()
	} else {
		e.Message = "promise rejected"
	}
	return e
}
