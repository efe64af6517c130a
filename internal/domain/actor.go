package domain

import "github.com/google/uuid"

const (
	RoleAdmin    = "admin"
	RoleRep      = "rep"
	RoleCustomer = "customer"
)

// Operations subject to authorization.
const (
	OpSubmitDraw    = "submit_draw"
	OpReviewDraw    = "review_draw"
	OpApplyPayment  = "apply_payment"
	OpChangeStatus  = "change_status"
	OpDeleteAccount = "delete_account"
)

// Actor is the identity performing an operation, resolved by the external
// authentication layer and passed explicitly into every workflow call.
// Either UserID (admin/rep) or CustomerID is set.
type Actor struct {
	UserID     *uuid.UUID `json:"user_id,omitempty"`
	CustomerID *uuid.UUID `json:"customer_id,omitempty"`
	Role       string     `json:"role"`
}

// IsReviewer reports whether the actor may review draws and mutate account
// status.
func (a Actor) IsReviewer() bool {
	return a.Role == RoleAdmin || a.Role == RoleRep
}

// CanPerform is the pure authorization predicate consulted before any
// mutating operation reaches the ledger.
func CanPerform(actor Actor, operation string) bool {
	switch operation {
	case OpSubmitDraw:
		return actor.Role == RoleCustomer && actor.CustomerID != nil
	case OpReviewDraw, OpApplyPayment, OpChangeStatus:
		return actor.IsReviewer() && actor.UserID != nil
	case OpDeleteAccount:
		return actor.Role == RoleAdmin && actor.UserID != nil
	}
	return false
}
