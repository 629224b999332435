package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"
)

// ErrNotFound is returned when no order matches the requested id.
var ErrNotFound = errors.New("order not found")

type DB struct {
	Bun *bun.DB
}

// ---------------- ORDERS ----------------

// GetOrderByID → fetch one order by its ID
func (d *DB) GetOrderByID(id string) (*Order, error) {
	var order Order
	err := d.Bun.NewSelect().
		Model(&order).
		Where("order_id = ?", id).
		Limit(1).
		Scan(context.Background())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrders → all orders, newest first
func (d *DB) ListOrders() ([]Order, error) {
	var orders []Order
	err := d.Bun.NewSelect().
		Model(&orders).
		Order("created_at DESC").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []Order{}
	}
	return orders, nil
}

// CreateOrder → insert new order
func (d *DB) CreateOrder(order Order) error {
	_, err := d.Bun.NewInsert().Model(&order).Exec(context.Background())
	return err
}

// UpdateOrderFields applies a merge patch: only columns the patch carries are
// written, everything else keeps its stored value. Returns the updated row.
func (d *DB) UpdateOrderFields(id string, patch OrderPatch) (*Order, error) {
	query := d.Bun.NewUpdate().
		Model((*Order)(nil)).
		Where("order_id = ?", id).
		Set("updated_at = ?", time.Now())

	if patch.Status != nil {
		query = query.Set("status = ?", *patch.Status)
	}
	if patch.ProgressPercentage != nil {
		query = query.Set("progress_percentage = ?", *patch.ProgressPercentage)
	}
	if patch.ProgressStatus != nil {
		query = query.Set("progress_status = ?", *patch.ProgressStatus)
	}

	res, err := query.Exec(context.Background())
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrNotFound
	}

	return d.GetOrderByID(id)
}


// OrderExists → cheap existence probe used by the checkout finalizer.
func (d *DB) OrderExists(id string) (bool, error) {
	return d.Bun.NewSelect().
		Model((*Order)(nil)).
		Where("order_id = ?", id).
		Exists(context.Background())
}
