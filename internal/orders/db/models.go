package db

import (
	"time"

	"github.com/uptrace/bun"
)

// Order is the durable record of a purchase. OrderID is externally supplied
// (it equals the checkout session id by convention) and immutable. Status is
// a free business-layer value; the conventional set is pending, processing,
// completed, cancelled. AccountNames holds the serialized account payload as
// written by the checkout flow; it is parsed only at export time.
type Order struct {
	bun.BaseModel `bun:"table:orders"`

	OrderID            string    `bun:"order_id,pk" json:"orderId"`
	Status             string    `bun:"status,notnull" json:"status"`
	ProgressPercentage int       `bun:"progress_percentage,notnull,default:0" json:"progressPercentage"`
	ProgressStatus     string    `bun:"progress_status,nullzero" json:"progressStatus"`
	AccountNames       string    `bun:"account_names,nullzero" json:"accountNames"`
	CreatedAt          time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt          time.Time `bun:"updated_at,nullzero" json:"updatedAt"`
}

// OrderPatch carries the mutable fields of an update. Nil means "leave the
// stored value alone" (merge semantics, never replace).
type OrderPatch struct {
	Status             *string `json:"status"`
	ProgressPercentage *int    `json:"progressPercentage"`
	ProgressStatus     *string `json:"progressStatus"`
}

// Empty reports whether the patch would change nothing.
func (p OrderPatch) Empty() bool {
	return p.Status == nil && p.ProgressPercentage == nil && p.ProgressStatus == nil
}
