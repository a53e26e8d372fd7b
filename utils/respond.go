package utils

import (
	"net/http"
	"reflect"

	"github.com/gofiber/fiber/v2"
)

// Respond wraps every payload in the {code, message, data[]} envelope.
// Data is always an array on the wire: nil becomes an empty array and a
// single object becomes a singleton.
func Respond(c *fiber.Ctx, code int, data interface{}) error {
	var payload interface{}
	switch {
	case data == nil:
		payload = []interface{}{}
	case reflect.TypeOf(data).Kind() == reflect.Slice:
		// A nil slice would serialize as null, not [].
		if reflect.ValueOf(data).IsNil() {
			payload = []interface{}{}
		} else {
			payload = data
		}
	default:
		payload = []interface{}{data}
	}

	return c.Status(code).JSON(fiber.Map{
		"code":    code,
		"message": http.StatusText(code),
		"data":    payload,
	})
}

// RespondError reports a failure as a singleton {"error": msg} inside
// the standard envelope.
func RespondError(c *fiber.Ctx, code int, msg string) error {
	return Respond(c, code, fiber.Map{"error": msg})
}
