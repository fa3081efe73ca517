package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/artel-io/naryad/internal/model"
	"github.com/artel-io/naryad/internal/normalize"
)

// All upserts match by natural key and report whether the row was added
// (inserted) or updated in place. Duplicate natural keys are never an
// error.

// UpsertWorker matches by personnel number, falling back to the folded
// full name.
func (t *Tx) UpsertWorker(ctx context.Context, w model.Worker) (bool, error) {
	id, err := findWorker(ctx, t.tx, w.PersonnelNo, w.FullName)
	if err != nil {
		return false, err
	}

	if id == 0 {
		_, err := t.tx.ExecContext(ctx, `
			INSERT INTO workers (personnel_no, full_name, full_name_norm, department, position, status)
			VALUES (?, ?, ?, ?, ?, ?)
		`, nullIfEmpty(w.PersonnelNo), w.FullName, normalize.ForSearch(w.FullName),
			w.Department, w.Position, w.Status)
		if err != nil {
			return false, fmt.Errorf("failed to insert worker: %w", err)
		}
		return true, nil
	}

	_, err = t.tx.ExecContext(ctx, `
		UPDATE workers
		SET personnel_no = COALESCE(?, personnel_no),
			full_name = ?, full_name_norm = ?,
			department = ?, position = ?, status = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, nullIfEmpty(w.PersonnelNo), w.FullName, normalize.ForSearch(w.FullName),
		w.Department, w.Position, w.Status, id)
	if err != nil {
		return false, fmt.Errorf("failed to update worker: %w", err)
	}
	return false, nil
}

func findWorker(ctx context.Context, q queryable, personnelNo, fullName string) (int64, error) {
	var id int64
	if personnelNo != "" {
		err := q.QueryRowContext(ctx,
			`SELECT id FROM workers WHERE personnel_no = ?`, personnelNo).Scan(&id)
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("failed to find worker by personnel number: %w", err)
		}
	}
	err := q.QueryRowContext(ctx,
		`SELECT id FROM workers WHERE full_name_norm = ?`, normalize.ForSearch(fullName)).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to find worker by name: %w", err)
	}
	return id, nil
}

// UpsertJobType matches by folded name; the price of an existing job type
// is refreshed so tariffs stay current.
func (t *Tx) UpsertJobType(ctx context.Context, j model.JobType) (bool, error) {
	norm := normalize.ForSearch(j.Name)

	var id int64
	err := t.tx.QueryRowContext(ctx,
		`SELECT id FROM job_types WHERE name_norm = ?`, norm).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err := t.tx.ExecContext(ctx, `
			INSERT INTO job_types (name, name_norm, unit, price) VALUES (?, ?, ?, ?)
		`, j.Name, norm, j.Unit, j.Price)
		if err != nil {
			return false, fmt.Errorf("failed to insert job type: %w", err)
		}
		return true, nil
	case err != nil:
		return false, fmt.Errorf("failed to find job type: %w", err)
	}

	_, err = t.tx.ExecContext(ctx, `
		UPDATE job_types
		SET name = ?, unit = ?, price = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, j.Name, j.Unit, j.Price, id)
	if err != nil {
		return false, fmt.Errorf("failed to update job type: %w", err)
	}
	return false, nil
}

// UpsertProduct matches by folded product number, falling back to the
// folded name for numberless register rows.
func (t *Tx) UpsertProduct(ctx context.Context, p model.Product) (bool, error) {
	id, err := findProduct(ctx, t.tx, p.ProductNo, p.Name)
	if err != nil {
		return false, err
	}

	if id == 0 {
		_, err := t.tx.ExecContext(ctx, `
			INSERT INTO products (name, name_norm, product_no, product_no_norm, contract_code)
			VALUES (?, ?, ?, ?, ?)
		`, p.Name, normalize.ForSearch(p.Name),
			p.ProductNo, normalize.ForSearch(p.ProductNo), p.ContractCode)
		if err != nil {
			return false, fmt.Errorf("failed to insert product: %w", err)
		}
		return true, nil
	}

	_, err = t.tx.ExecContext(ctx, `
		UPDATE products
		SET name = ?, name_norm = ?, product_no = ?, product_no_norm = ?,
			contract_code = CASE WHEN ? != '' THEN ? ELSE contract_code END,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, p.Name, normalize.ForSearch(p.Name), p.ProductNo, normalize.ForSearch(p.ProductNo),
		p.ContractCode, p.ContractCode, id)
	if err != nil {
		return false, fmt.Errorf("failed to update product: %w", err)
	}
	return false, nil
}

func findProduct(ctx context.Context, q queryable, productNo, name string) (int64, error) {
	var id int64
	if productNo != "" {
		err := q.QueryRowContext(ctx,
			`SELECT id FROM products WHERE product_no_norm = ?`,
			normalize.ForSearch(productNo)).Scan(&id)
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("failed to find product by number: %w", err)
		}
	}
	if name == "" {
		return 0, nil
	}
	err := q.QueryRowContext(ctx,
		`SELECT id FROM products WHERE name_norm = ?`, normalize.ForSearch(name)).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to find product by name: %w", err)
	}
	return id, nil
}

// UpsertContract matches by folded code. Updating an existing contract
// first snapshots the previous row into contract_history; the history is
// append-only and never touched otherwise.
func (t *Tx) UpsertContract(ctx context.Context, c model.Contract) (bool, error) {
	norm := normalize.ForSearch(c.Code)

	var id int64
	err := t.tx.QueryRowContext(ctx,
		`SELECT id FROM contracts WHERE code_norm = ?`, norm).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err := t.tx.ExecContext(ctx, `
			INSERT INTO contracts (code, code_norm, name, type, executor, igk,
				contract_number, bank_account, start_date, end_date, description)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, c.Code, norm, c.Name, c.Type, c.Executor, c.IGK,
			c.ContractNumber, c.BankAccount, c.StartDate, c.EndDate, c.Description)
		if err != nil {
			return false, fmt.Errorf("failed to insert contract: %w", err)
		}
		return true, nil
	case err != nil:
		return false, fmt.Errorf("failed to find contract: %w", err)
	}

	if _, err := t.tx.ExecContext(ctx, `
		INSERT INTO contract_history (contract_id, code, name, type, executor, igk,
			contract_number, bank_account, start_date, end_date, description)
		SELECT id, code, name, type, executor, igk,
			contract_number, bank_account, start_date, end_date, description
		FROM contracts WHERE id = ?
	`, id); err != nil {
		return false, fmt.Errorf("failed to snapshot contract history: %w", err)
	}

	_, err = t.tx.ExecContext(ctx, `
		UPDATE contracts
		SET code = ?, name = ?, type = ?, executor = ?, igk = ?,
			contract_number = ?, bank_account = ?, start_date = ?, end_date = ?,
			description = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, c.Code, c.Name, c.Type, c.Executor, c.IGK,
		c.ContractNumber, c.BankAccount, c.StartDate, c.EndDate, c.Description, id)
	if err != nil {
		return false, fmt.Errorf("failed to update contract: %w", err)
	}
	return false, nil
}

// GetJobType reads one job type by name, mostly for verification after an
// import.
func (s *Store) GetJobType(ctx context.Context, name string) (*model.JobType, error) {
	var j model.JobType
	err := s.db.QueryRowContext(ctx, `
		SELECT name, unit, price FROM job_types WHERE name_norm = ?
	`, normalize.ForSearch(name)).Scan(&j.Name, &j.Unit, &j.Price)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job type: %w", err)
	}
	return &j, nil
}

// ContractHistoryEntry is one audit snapshot of a contract row.
type ContractHistoryEntry struct {
	Code      string
	Name      string
	Executor  string
	ChangedAt string
}

// GetContractHistory lists the audit snapshots of a contract, oldest first.
func (s *Store) GetContractHistory(ctx context.Context, code string) ([]ContractHistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT h.code, h.name, h.executor, h.changed_at
		FROM contract_history h
		JOIN contracts c ON c.id = h.contract_id
		WHERE c.code_norm = ?
		ORDER BY h.id
	`, normalize.ForSearch(code))
	if err != nil {
		return nil, fmt.Errorf("failed to query contract history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []ContractHistoryEntry
	for rows.Next() {
		var e ContractHistoryEntry
		if err := rows.Scan(&e.Code, &e.Name, &e.Executor, &e.ChangedAt); err != nil {
			return nil, fmt.Errorf("failed to scan contract history: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
