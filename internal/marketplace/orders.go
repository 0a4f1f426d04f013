package marketplace

import (
	"context"
	"fmt"
	"log"

	"github.com/AlvinAbiero/online-marketplace/internal/fanout"
	"github.com/AlvinAbiero/online-marketplace/internal/payment"
	"github.com/AlvinAbiero/online-marketplace/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderInput struct {
	ProductID uint `json:"productId" validate:"required"`
	Quantity  int  `json:"quantity" validate:"required,min=1"`
}

// orderTransitions is the set of legal updateOrderStatus moves. Pending
// orders become paid only through ExecutePayment, never here.
var orderTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderStatusPending: {models.OrderStatusCancelled},
	models.OrderStatusPaid:    {models.OrderStatusShipped},
	models.OrderStatusShipped: {models.OrderStatusDelivered},
}

func transitionAllowed(from, to models.OrderStatus) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CreateOrder places a pending order. Stock is checked but not
// decremented here; the decrement happens atomically when the payment is
// executed, so a pending order never holds inventory.
func (s *Service) CreateOrder(p *Principal, input OrderInput) (*models.Order, error) {
	if err := RequireAuth(p); err != nil {
		return nil, err
	}
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	product, err := s.GetProduct(input.ProductID)
	if err != nil {
		return nil, err
	}

	if product.Stock < input.Quantity {
		return nil, ErrInsufficientStock()
	}

	if product.SellerID == p.UserID {
		return nil, ErrInvalidOperation("You cannot order your own product")
	}

	order := models.Order{
		BuyerID:   p.UserID,
		SellerID:  product.SellerID,
		ProductID: product.ID,
		Quantity:  input.Quantity,
		// Snapshot at this instant; later price edits must not change it.
		TotalAmount: product.Price * float64(input.Quantity),
		Status:      models.OrderStatusPending,
		Reference:   uuid.NewString(),
	}

	if err := s.DB.Create(&order).Error; err != nil {
		return nil, ErrInternal()
	}

	return s.GetOrderUnchecked(order.ID)
}

// Orders lists every order the principal participates in, newest first.
func (s *Service) Orders(p *Principal) ([]models.Order, error) {
	if err := RequireAuth(p); err != nil {
		return nil, err
	}

	var orders []models.Order
	err := s.orderQuery().
		Where("buyer_id = ? OR seller_id = ?", p.UserID, p.UserID).
		Order("created_at desc").
		Find(&orders).Error
	if err != nil {
		return nil, ErrInternal()
	}

	return orders, nil
}

func (s *Service) GetOrder(p *Principal, id uint) (*models.Order, error) {
	order, err := s.GetOrderUnchecked(id)
	if err != nil {
		return nil, err
	}
	if err := RequireOrderParticipant(p, order); err != nil {
		return nil, err
	}
	return order, nil
}

// GetOrderUnchecked loads an order with relations expanded, without any
// authorization check. Internal callers only.
func (s *Service) GetOrderUnchecked(id uint) (*models.Order, error) {
	var order models.Order
	if err := s.orderQuery().First(&order, id).Error; err != nil {
		return nil, ErrNotFound("Order")
	}
	return &order, nil
}

func (s *Service) orderQuery() *gorm.DB {
	// Products are soft-deleted; orders must still expand them.
	return s.DB.Preload("Buyer").Preload("Seller").
		Preload("Product", func(db *gorm.DB) *gorm.DB {
			return db.Unscoped()
		}).
		Preload("Product.Seller")
}

// UpdateOrderStatus applies a seller-driven transition, validated
// against the transition table. The buyer may only confirm delivery.
func (s *Service) UpdateOrderStatus(p *Principal, id uint, status models.OrderStatus) (*models.Order, error) {
	if err := RequireAuth(p); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, ErrValidation("invalid order status")
	}

	order, err := s.GetOrderUnchecked(id)
	if err != nil {
		return nil, err
	}

	isBuyerConfirmingDelivery := p.UserID == order.BuyerID &&
		order.Status == models.OrderStatusShipped &&
		status == models.OrderStatusDelivered
	if p.UserID != order.SellerID && !p.IsAdmin() && !isBuyerConfirmingDelivery {
		return nil, ErrForbidden("Access denied")
	}

	if !transitionAllowed(order.Status, status) {
		return nil, ErrInvalidTransition(string(order.Status), string(status))
	}

	// Compare-and-swap on the current status so two racing updates
	// cannot both apply.
	res := s.DB.Model(&models.Order{}).
		Where("id = ? AND status = ?", order.ID, order.Status).
		Update("status", status)
	if res.Error != nil {
		return nil, ErrInternal()
	}
	if res.RowsAffected == 0 {
		return nil, ErrInvalidTransition(string(order.Status), string(status))
	}

	order, err = s.GetOrderUnchecked(order.ID)
	if err != nil {
		return nil, err
	}

	s.publishOrderUpdate(order)

	return order, nil
}

// PaymentPayload is the approval handle handed back to the buyer.
type PaymentPayload struct {
	ApprovalURL string `json:"approvalUrl"`
	PaymentID   string `json:"paymentId"`
}

// CreatePayment asks the gateway for an approval handle for a pending
// order. Gateway failures are wrapped; nothing is mutated.
func (s *Service) CreatePayment(ctx context.Context, p *Principal, orderID uint) (*PaymentPayload, error) {
	order, err := s.GetOrderUnchecked(orderID)
	if err != nil {
		return nil, err
	}

	if err := RequireOrderBuyer(p, order); err != nil {
		return nil, err
	}

	if order.Status != models.OrderStatusPending {
		return nil, ErrInvalidOperation("Order is not pending payment")
	}

	approval, err := s.Gateway.Create(ctx, payment.CreateRequest{
		Amount:      order.TotalAmount,
		Currency:    "USD",
		Description: fmt.Sprintf("Order %s", order.Reference),
		ReturnURL:   s.ClientURL + "/payment/success",
		CancelURL:   s.ClientURL + "/payment/cancel",
	})
	if err != nil {
		log.Printf("payment creation failed for order %d: %v", order.ID, err)
		return nil, ErrPaymentCreationFailed()
	}

	return &PaymentPayload{
		ApprovalURL: approval.ApprovalURL,
		PaymentID:   approval.PaymentID,
	}, nil
}

// ExecutePayment finalizes a payment with the gateway and then, inside a
// single store transaction, flips the order to paid and decrements the
// product stock. The status flip is a compare-and-swap on pending, so a
// repeated execute fails before touching stock; the decrement is
// conditional on remaining stock, so inventory can never go negative
// even when several racing orders all passed the CreateOrder check.
func (s *Service) ExecutePayment(ctx context.Context, p *Principal, paymentID, payerID string, orderID uint) (*models.Order, error) {
	order, err := s.GetOrderUnchecked(orderID)
	if err != nil {
		return nil, err
	}

	if err := RequireOrderBuyer(p, order); err != nil {
		return nil, err
	}

	if order.Status != models.OrderStatusPending {
		return nil, ErrInvalidOperation("Order is not pending payment")
	}

	if err := s.Gateway.Execute(ctx, paymentID, payerID); err != nil {
		// The order stays pending; nothing was mutated.
		log.Printf("payment execution failed for order %d: %v", order.ID, err)
		return nil, ErrPaymentExecutionFailed()
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", order.ID, models.OrderStatusPending).
			Updates(map[string]interface{}{
				"status":     models.OrderStatusPaid,
				"payment_id": paymentID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvalidOperation("Order is not pending payment")
		}

		res = tx.Model(&models.Product{}).
			Where("id = ? AND stock >= ?", order.ProductID, order.Quantity).
			Update("stock", gorm.Expr("stock - ?", order.Quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientStock()
		}

		return nil
	})
	if err != nil {
		if domainErr, ok := err.(*Error); ok {
			return nil, domainErr
		}
		return nil, ErrInternal()
	}

	order, err = s.GetOrderUnchecked(order.ID)
	if err != nil {
		return nil, err
	}

	s.publishOrderUpdate(order)

	return order, nil
}

func (s *Service) publishOrderUpdate(order *models.Order) {
	s.Fanout.Publish(fanout.Event{
		Kind:    fanout.OrderStatusUpdated,
		OrderID: order.ID,
		Payload: order,
	})
}
