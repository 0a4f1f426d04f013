package marketplace

import (
	"github.com/AlvinAbiero/online-marketplace/models"
)

// Principal is the decoded identity attached to a request after token
// verification. A nil *Principal means the request is anonymous.
type Principal struct {
	UserID uint
	Role   string
}

func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == models.RoleAdmin
}

// RequireAuth fails unless a principal is present.
func RequireAuth(p *Principal) error {
	if p == nil {
		return ErrUnauthenticated()
	}
	return nil
}

// RequireSeller implies RequireAuth and additionally demands the seller
// or admin role.
func RequireSeller(p *Principal) error {
	if err := RequireAuth(p); err != nil {
		return err
	}
	if p.Role != models.RoleSeller && p.Role != models.RoleAdmin {
		return ErrForbidden("You must be a seller to perform this action")
	}
	return nil
}

// RequireProductOwner passes for the product's seller or an admin.
// Identity comparison is always uint equality on user ids.
func RequireProductOwner(p *Principal, product *models.Product) error {
	if err := RequireAuth(p); err != nil {
		return err
	}
	if p.UserID != product.SellerID && !p.IsAdmin() {
		return ErrForbidden("Access denied")
	}
	return nil
}

// RequireOrderParticipant passes for the order's buyer, its seller, or
// an admin. Orders are dually owned for read and authorization purposes.
func RequireOrderParticipant(p *Principal, order *models.Order) error {
	if err := RequireAuth(p); err != nil {
		return err
	}
	if p.UserID != order.BuyerID && p.UserID != order.SellerID && !p.IsAdmin() {
		return ErrForbidden("Access denied")
	}
	return nil
}

// RequireOrderBuyer passes only for the order's buyer or an admin. The
// payment protocol is buyer-initiated.
func RequireOrderBuyer(p *Principal, order *models.Order) error {
	if err := RequireAuth(p); err != nil {
		return err
	}
	if p.UserID != order.BuyerID && !p.IsAdmin() {
		return ErrForbidden("Access denied")
	}
	return nil
}
