package actions

import (
	"fmt"

	"github.com/gobuffalo/buffalo"

	"github.com/embedsure/embed-api/domain"
)

// homeHandler is a default handler to serve up a home page.
func homeHandler(c buffalo.Context) error {
	return renderOk(c, map[string]string{
		"message": fmt.Sprintf("Welcome to the %s API", domain.Env.AppName),
	})
}
