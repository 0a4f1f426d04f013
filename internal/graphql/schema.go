package graphql

import (
	"github.com/AlvinAbiero/online-marketplace/internal/fanout"
	"github.com/AlvinAbiero/online-marketplace/internal/marketplace"
	"github.com/AlvinAbiero/online-marketplace/models"

	"github.com/graphql-go/graphql"
)

// NewSchema builds the executable schema over the shared service layer.
func NewSchema(svc *marketplace.Service, bus *fanout.Fanout) (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"me": &graphql.Field{
				Type: userType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return svc.Me(PrincipalFrom(p.Context))
				},
			},

			"products": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(productType))),
				Args: graphql.FieldConfigArgument{
					"category": &graphql.ArgumentConfig{Type: graphql.String},
					"search":   &graphql.ArgumentConfig{Type: graphql.String},
					"limit":    &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
					"offset":   &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					filter := marketplace.ProductFilter{}
					if category, ok := p.Args["category"].(string); ok {
						filter.Category = category
					}
					if search, ok := p.Args["search"].(string); ok {
						filter.Search = search
					}
					if limit, ok := p.Args["limit"].(int); ok {
						filter.Limit = limit
					}
					if offset, ok := p.Args["offset"].(int); ok {
						filter.Offset = offset
					}
					return svc.ListProducts(filter)
				},
			},

			"product": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return svc.GetProduct(parseID(p.Args["id"]))
				},
			},

			"myProducts": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(productType))),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return svc.MyProducts(PrincipalFrom(p.Context))
				},
			},

			"orders": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(orderType))),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return svc.Orders(PrincipalFrom(p.Context))
				},
			},

			"order": &graphql.Field{
				Type: orderType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return svc.GetOrder(PrincipalFrom(p.Context), parseID(p.Args["id"]))
				},
			},

			"messages": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(messageType))),
				Args: graphql.FieldConfigArgument{
					"userId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return svc.Conversation(PrincipalFrom(p.Context), parseID(p.Args["userId"]))
				},
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"register": &graphql.Field{
				Type: graphql.NewNonNull(authPayloadType),
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(registerInputType)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					input := p.Args["input"].(map[string]interface{})
					role, _ := input["role"].(string)
					return svc.Register(marketplace.RegisterInput{
						Email:     stringArg(input, "email"),
						Password:  stringArg(input, "password"),
						FirstName: stringArg(input, "firstName"),
						LastName:  stringArg(input, "lastName"),
						Role:      role,
					})
				},
			},

			"login": &graphql.Field{
				Type: graphql.NewNonNull(authPayloadType),
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(loginInputType)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					input := p.Args["input"].(map[string]interface{})
					return svc.Login(marketplace.LoginInput{
						Email:    stringArg(input, "email"),
						Password: stringArg(input, "password"),
					})
				},
			},

			"createProduct": &graphql.Field{
				Type: graphql.NewNonNull(productType),
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(productInputType)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return svc.CreateProduct(PrincipalFrom(p.Context), productInputArg(p.Args["input"]))
				},
			},

			"updateProduct": &graphql.Field{
				Type: graphql.NewNonNull(productType),
				Args: graphql.FieldConfigArgument{
					"id":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(productInputType)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return svc.UpdateProduct(PrincipalFrom(p.Context), parseID(p.Args["id"]), productInputArg(p.Args["input"]))
				},
			},

			"deleteProduct": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return svc.DeleteProduct(PrincipalFrom(p.Context), parseID(p.Args["id"]))
				},
			},

			"createOrder": &graphql.Field{
				Type: graphql.NewNonNull(orderType),
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(orderInputType)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					input := p.Args["input"].(map[string]interface{})
					quantity, _ := input["quantity"].(int)
					return svc.CreateOrder(PrincipalFrom(p.Context), marketplace.OrderInput{
						ProductID: parseID(input["productId"]),
						Quantity:  quantity,
					})
				},
			},

			"updateOrderStatus": &graphql.Field{
				Type: graphql.NewNonNull(orderType),
				Args: graphql.FieldConfigArgument{
					"id":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"status": &graphql.ArgumentConfig{Type: graphql.NewNonNull(orderStatusEnum)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					status, _ := p.Args["status"].(string)
					return svc.UpdateOrderStatus(PrincipalFrom(p.Context), parseID(p.Args["id"]), models.OrderStatus(status))
				},
			},

			"createPayment": &graphql.Field{
				Type: graphql.NewNonNull(paymentPayloadType),
				Args: graphql.FieldConfigArgument{
					"orderId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return svc.CreatePayment(p.Context, PrincipalFrom(p.Context), parseID(p.Args["orderId"]))
				},
			},

			"executePayment": &graphql.Field{
				Type: graphql.NewNonNull(orderType),
				Args: graphql.FieldConfigArgument{
					"paymentId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"payerId":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"orderId":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					paymentID, _ := p.Args["paymentId"].(string)
					payerID, _ := p.Args["payerId"].(string)
					return svc.ExecutePayment(p.Context, PrincipalFrom(p.Context), paymentID, payerID, parseID(p.Args["orderId"]))
				},
			},

			"sendMessage": &graphql.Field{
				Type: graphql.NewNonNull(messageType),
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(messageInputType)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					input := p.Args["input"].(map[string]interface{})
					msgInput := marketplace.MessageInput{
						ReceiverID: parseID(input["receiverId"]),
						Content:    stringArg(input, "content"),
					}
					if raw, ok := input["orderId"]; ok && raw != nil {
						orderID := parseID(raw)
						msgInput.OrderID = &orderID
					}
					return svc.SendMessage(PrincipalFrom(p.Context), msgInput)
				},
			},
		},
	})

	subscription := newSubscriptionObject(svc, bus)

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:        query,
		Mutation:     mutation,
		Subscription: subscription,
	})
}

func stringArg(input map[string]interface{}, key string) string {
	s, _ := input[key].(string)
	return s
}

func productInputArg(raw interface{}) marketplace.ProductInput {
	input, _ := raw.(map[string]interface{})
	price, ok := input["price"].(float64)
	if !ok {
		if n, isInt := input["price"].(int); isInt {
			price = float64(n)
		}
	}
	stock, _ := input["stock"].(int)
	return marketplace.ProductInput{
		Title:       stringArg(input, "title"),
		Description: stringArg(input, "description"),
		Price:       price,
		Category:    stringArg(input, "category"),
		Stock:       stock,
	}
}
