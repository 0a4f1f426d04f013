package graphql

import (
	"github.com/AlvinAbiero/online-marketplace/internal/marketplace"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"
)

// Request is the standard GraphQL-over-HTTP POST body.
type Request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// Handler executes queries and mutations over POST /graphql. The
// principal placed in Locals by the auth middleware is forwarded into
// the resolver context; anonymous requests run with a nil principal.
func Handler(schema graphql.Schema) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req Request
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"errors": []fiber.Map{{"message": "invalid request body"}},
			})
		}

		principal, _ := c.Locals("principal").(*marketplace.Principal)
		ctx := WithPrincipal(c.UserContext(), principal)

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			OperationName:  req.OperationName,
			VariableValues: req.Variables,
			Context:        ctx,
		})

		return c.JSON(result)
	}
}
