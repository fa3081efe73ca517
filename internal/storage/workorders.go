package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/artel-io/naryad/internal/model"
	"github.com/artel-io/naryad/internal/normalize"
)

// DefaultContractCode is assigned to work orders whose product carries no
// resolvable contract.
const DefaultContractCode = "Без контракта"

// WorkerAllocation is one worker's share of a work order total.
type WorkerAllocation struct {
	WorkerID int64
	Amount   float64
}

// EnsureContract resolves a contract by code, creating a minimal row when
// absent. An empty code resolves to the default contract.
func (t *Tx) EnsureContract(ctx context.Context, code string) (int64, error) {
	if code == "" {
		code = DefaultContractCode
	}
	norm := normalize.ForSearch(code)

	var id int64
	err := t.tx.QueryRowContext(ctx,
		`SELECT id FROM contracts WHERE code_norm = ?`, norm).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to find contract: %w", err)
	}

	res, err := t.tx.ExecContext(ctx,
		`INSERT INTO contracts (code, code_norm) VALUES (?, ?)`, code, norm)
	if err != nil {
		return 0, fmt.Errorf("failed to create contract %q: %w", code, err)
	}
	return lastInsertID(res)
}

// EnsureProduct resolves a product by factory number, creating it when
// absent.
func (t *Tx) EnsureProduct(ctx context.Context, productNo string) (int64, error) {
	id, err := findProduct(ctx, t.tx, productNo, "")
	if err != nil {
		return 0, err
	}
	if id != 0 {
		return id, nil
	}

	res, err := t.tx.ExecContext(ctx, `
		INSERT INTO products (product_no, product_no_norm) VALUES (?, ?)
	`, productNo, normalize.ForSearch(productNo))
	if err != nil {
		return 0, fmt.Errorf("failed to create product %q: %w", productNo, err)
	}
	return lastInsertID(res)
}

// ProductContractCode returns the contract code recorded for a product,
// or empty.
func (t *Tx) ProductContractCode(ctx context.Context, productID int64) (string, error) {
	var code string
	err := t.tx.QueryRowContext(ctx,
		`SELECT contract_code FROM products WHERE id = ?`, productID).Scan(&code)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read product contract: %w", err)
	}
	return code, nil
}

// EnsureWorker resolves a ledger worker reference by personnel number or
// name. An unknown worker is created with an auto-generated personnel
// number so the allocation rows stay attributable.
func (t *Tx) EnsureWorker(ctx context.Context, w model.OrderWorker) (int64, error) {
	id, err := findWorker(ctx, t.tx, w.PersonnelNo, w.FullName)
	if err != nil {
		return 0, err
	}
	if id != 0 {
		return id, nil
	}

	personnelNo := w.PersonnelNo
	if personnelNo == "" {
		personnelNo = "AUTO-" + uuid.NewString()[:8]
	}
	res, err := t.tx.ExecContext(ctx, `
		INSERT INTO workers (personnel_no, full_name, full_name_norm)
		VALUES (?, ?, ?)
	`, personnelNo, w.FullName, normalize.ForSearch(w.FullName))
	if err != nil {
		return 0, fmt.Errorf("failed to create worker %q: %w", w.FullName, err)
	}
	return lastInsertID(res)
}

// CreateWorkOrder inserts a work order header with its item lines and
// worker allocations, returning the new order id.
func (t *Tx) CreateWorkOrder(ctx context.Context, date string, productID, contractID int64, items []model.OrderItem, allocs []WorkerAllocation) (int64, error) {
	var total float64
	for _, it := range items {
		total += it.Amount
	}

	res, err := t.tx.ExecContext(ctx, `
		INSERT INTO work_orders (order_date, product_id, contract_id, total)
		VALUES (?, ?, ?, ?)
	`, date, productID, contractID, total)
	if err != nil {
		return 0, fmt.Errorf("failed to insert work order: %w", err)
	}
	orderID, err := lastInsertID(res)
	if err != nil {
		return 0, err
	}

	for _, it := range items {
		if _, err := t.tx.ExecContext(ctx, `
			INSERT INTO work_order_items (work_order_id, job_name, unit, unit_price, quantity, amount)
			VALUES (?, ?, ?, ?, ?, ?)
		`, orderID, it.JobName, it.Unit, it.UnitPrice, it.Quantity, it.Amount); err != nil {
			return 0, fmt.Errorf("failed to insert work order item: %w", err)
		}
	}

	for _, a := range allocs {
		if _, err := t.tx.ExecContext(ctx, `
			INSERT INTO work_order_workers (work_order_id, worker_id, amount)
			VALUES (?, ?, ?)
		`, orderID, a.WorkerID, a.Amount); err != nil {
			return 0, fmt.Errorf("failed to insert worker allocation: %w", err)
		}
	}

	return orderID, nil
}

// WorkOrderAllocations reads back the worker allocations of an order, in
// insertion order.
func (s *Store) WorkOrderAllocations(ctx context.Context, orderID int64) ([]WorkerAllocation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT worker_id, amount FROM work_order_workers
		WHERE work_order_id = ? ORDER BY id
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query allocations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var allocs []WorkerAllocation
	for rows.Next() {
		var a WorkerAllocation
		if err := rows.Scan(&a.WorkerID, &a.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan allocation: %w", err)
		}
		allocs = append(allocs, a)
	}
	return allocs, rows.Err()
}

// WorkOrderDates lists the dates of all work orders, oldest first.
func (s *Store) WorkOrderDates(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT order_date FROM work_orders ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query work order dates: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var dates []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("failed to scan work order date: %w", err)
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

func lastInsertID(res sql.Result) (int64, error) {
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read last insert id: %w", err)
	}
	return id, nil
}
