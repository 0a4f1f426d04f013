package graphql

import (
	"github.com/AlvinAbiero/online-marketplace/internal/fanout"
	"github.com/AlvinAbiero/online-marketplace/internal/marketplace"

	"github.com/graphql-go/graphql"
)

// Subscriptions are filtered server-side: a client may only subscribe to
// its own message stream and to orders it participates in. The Subscribe
// resolver bridges a fanout topic channel into the channel the engine
// expects; the per-event Resolve just passes the payload through.
func newSubscriptionObject(svc *marketplace.Service, bus *fanout.Fanout) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Subscription",
		Fields: graphql.Fields{
			"messageAdded": &graphql.Field{
				Type: graphql.NewNonNull(messageType),
				Args: graphql.FieldConfigArgument{
					"userId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source, nil
				},
				Subscribe: func(p graphql.ResolveParams) (interface{}, error) {
					principal := PrincipalFrom(p.Context)
					if err := marketplace.RequireAuth(principal); err != nil {
						return nil, err
					}

					userID := parseID(p.Args["userId"])
					if principal.UserID != userID && !principal.IsAdmin() {
						return nil, marketplace.ErrForbidden("You can only subscribe to your own messages")
					}

					return streamTopic(p, bus, fanout.MessageTopic(userID)), nil
				},
			},

			"orderStatusUpdated": &graphql.Field{
				Type: graphql.NewNonNull(orderType),
				Args: graphql.FieldConfigArgument{
					"orderId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source, nil
				},
				Subscribe: func(p graphql.ResolveParams) (interface{}, error) {
					principal := PrincipalFrom(p.Context)
					orderID := parseID(p.Args["orderId"])

					// GetOrder enforces both authentication and order
					// participation.
					if _, err := svc.GetOrder(principal, orderID); err != nil {
						return nil, err
					}

					return streamTopic(p, bus, fanout.OrderTopic(orderID)), nil
				},
			},
		},
	})
}

// streamTopic subscribes to a fanout topic and forwards payloads until
// the resolver context is cancelled.
func streamTopic(p graphql.ResolveParams, bus *fanout.Fanout, topic string) <-chan interface{} {
	events, cancel := bus.Subscribe(topic)
	out := make(chan interface{})

	go func() {
		defer cancel()
		defer close(out)
		for {
			select {
			case <-p.Context.Done():
				return
			case event, ok := <-events:
				if !ok {
					return
				}
				select {
				case out <- event.Payload:
				case <-p.Context.Done():
					return
				}
			}
		}
	}()

	return out
}
