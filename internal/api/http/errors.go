package httpapi

import (
	"errors"
	"io/fs"
	"log"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler renders every handler error as {"error": message}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	} else {
		// Handlers log their own 500s; this catches errors that bypassed them.
		log.Printf("ERROR: %s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}

// internalError logs err in full and returns a 500 whose message keeps
// only the base name of any file the error mentions.
func internalError(c *fiber.Ctx, prefix string, err error) error {
	log.Printf("ERROR: %s %s: %s: %v", c.Method(), c.Path(), prefix, err)
	return fiber.NewError(fiber.StatusInternalServerError, prefix+": "+redactPaths(err))
}

func redactPaths(err error) string {
	msg := err.Error()
	for e := err; e != nil; {
		var pe *fs.PathError
		if !errors.As(e, &pe) {
			break
		}
		if pe.Path != "" {
			msg = strings.ReplaceAll(msg, pe.Path, filepath.Base(pe.Path))
		}
		e = pe.Err
	}
	return msg
}
