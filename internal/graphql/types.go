package graphql

import (
	"time"

	"github.com/AlvinAbiero/online-marketplace/models"

	"github.com/graphql-go/graphql"
)

var roleEnum = graphql.NewEnum(graphql.EnumConfig{
	Name: "Role",
	Values: graphql.EnumValueConfigMap{
		"BUYER":  &graphql.EnumValueConfig{Value: models.RoleBuyer},
		"SELLER": &graphql.EnumValueConfig{Value: models.RoleSeller},
		"ADMIN":  &graphql.EnumValueConfig{Value: models.RoleAdmin},
	},
})

var orderStatusEnum = graphql.NewEnum(graphql.EnumConfig{
	Name: "OrderStatus",
	Values: graphql.EnumValueConfigMap{
		"PENDING":   &graphql.EnumValueConfig{Value: string(models.OrderStatusPending)},
		"PAID":      &graphql.EnumValueConfig{Value: string(models.OrderStatusPaid)},
		"SHIPPED":   &graphql.EnumValueConfig{Value: string(models.OrderStatusShipped)},
		"DELIVERED": &graphql.EnumValueConfig{Value: string(models.OrderStatusDelivered)},
		"CANCELLED": &graphql.EnumValueConfig{Value: string(models.OrderStatusCancelled)},
	},
})

func timestampField(pick func(interface{}) time.Time) *graphql.Field {
	return &graphql.Field{
		Type: graphql.NewNonNull(graphql.String),
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			return pick(p.Source).Format(time.RFC3339), nil
		},
	}
}

var userType = graphql.NewObject(graphql.ObjectConfig{
	Name: "User",
	Fields: graphql.Fields{
		"id":         &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"email":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"firstName":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"lastName":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"avatar":     &graphql.Field{Type: graphql.String},
		"isVerified": &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
		"role": &graphql.Field{
			Type: graphql.NewNonNull(roleEnum),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return userOf(p.Source).Role, nil
			},
		},
		"createdAt": timestampField(func(src interface{}) time.Time { return userOf(src).CreatedAt }),
		"updatedAt": timestampField(func(src interface{}) time.Time { return userOf(src).UpdatedAt }),
	},
})

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"title":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"description": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"price":       &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
		"category":    &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"stock":       &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"isActive":    &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
		"seller": &graphql.Field{
			Type: graphql.NewNonNull(userType),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return &productOf(p.Source).Seller, nil
			},
		},
		"createdAt": timestampField(func(src interface{}) time.Time { return productOf(src).CreatedAt }),
		"updatedAt": timestampField(func(src interface{}) time.Time { return productOf(src).UpdatedAt }),
	},
})

var orderType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Order",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"quantity":    &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"totalAmount": &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
		"reference":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"paymentId": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if id := orderOf(p.Source).PaymentID; id != "" {
					return id, nil
				}
				return nil, nil
			},
		},
		"status": &graphql.Field{
			Type: graphql.NewNonNull(orderStatusEnum),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return string(orderOf(p.Source).Status), nil
			},
		},
		"buyer": &graphql.Field{
			Type: graphql.NewNonNull(userType),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return &orderOf(p.Source).Buyer, nil
			},
		},
		"seller": &graphql.Field{
			Type: graphql.NewNonNull(userType),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return &orderOf(p.Source).Seller, nil
			},
		},
		"product": &graphql.Field{
			Type: graphql.NewNonNull(productType),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return &orderOf(p.Source).Product, nil
			},
		},
		"createdAt": timestampField(func(src interface{}) time.Time { return orderOf(src).CreatedAt }),
		"updatedAt": timestampField(func(src interface{}) time.Time { return orderOf(src).UpdatedAt }),
	},
})

var messageType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Message",
	Fields: graphql.Fields{
		"id":      &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"content": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"orderId": &graphql.Field{
			Type: graphql.ID,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if id := messageOf(p.Source).OrderID; id != nil {
					return *id, nil
				}
				return nil, nil
			},
		},
		"sender": &graphql.Field{
			Type: graphql.NewNonNull(userType),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return &messageOf(p.Source).Sender, nil
			},
		},
		"receiver": &graphql.Field{
			Type: graphql.NewNonNull(userType),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return &messageOf(p.Source).Receiver, nil
			},
		},
		"createdAt": timestampField(func(src interface{}) time.Time { return messageOf(src).CreatedAt }),
	},
})

var authPayloadType = graphql.NewObject(graphql.ObjectConfig{
	Name: "AuthPayload",
	Fields: graphql.Fields{
		"token": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"user":  &graphql.Field{Type: graphql.NewNonNull(userType)},
	},
})

var paymentPayloadType = graphql.NewObject(graphql.ObjectConfig{
	Name: "PaymentPayload",
	Fields: graphql.Fields{
		"approvalUrl": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"paymentId":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
	},
})

var registerInputType = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "RegisterInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"email":     &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"password":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"firstName": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"lastName":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"role":      &graphql.InputObjectFieldConfig{Type: roleEnum, DefaultValue: models.RoleBuyer},
	},
})

var loginInputType = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "LoginInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"email":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"password": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
	},
})

var productInputType = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "ProductInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"title":       &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"description": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"price":       &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Float)},
		"category":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"stock":       &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Int)},
	},
})

var orderInputType = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "OrderInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"productId": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.ID)},
		"quantity":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Int)},
	},
})

var messageInputType = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "MessageInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"receiverId": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.ID)},
		"content":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"orderId":    &graphql.InputObjectFieldConfig{Type: graphql.ID},
	},
})

// Source coercion helpers. Resolvers receive either values or pointers
// depending on whether the parent returned a slice element or a record.

func userOf(src interface{}) *models.User {
	switch v := src.(type) {
	case *models.User:
		return v
	case models.User:
		return &v
	}
	return &models.User{}
}

func productOf(src interface{}) *models.Product {
	switch v := src.(type) {
	case *models.Product:
		return v
	case models.Product:
		return &v
	}
	return &models.Product{}
}

func orderOf(src interface{}) *models.Order {
	switch v := src.(type) {
	case *models.Order:
		return v
	case models.Order:
		return &v
	}
	return &models.Order{}
}

func messageOf(src interface{}) *models.Message {
	switch v := src.(type) {
	case *models.Message:
		return v
	case models.Message:
		return &v
	}
	return &models.Message{}
}
