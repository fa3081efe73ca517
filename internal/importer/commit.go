package importer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/artel-io/naryad/internal/model"
	"github.com/artel-io/naryad/internal/storage"
)

// placeholderProductNo labels work orders reconstructed from ledgers that
// never named a product.
const placeholderProductNo = "Б/Н"

// commit writes everything parsed from one file inside a single store
// transaction: commit on success, rollback on any error.
func (im *Importer) commit(ctx context.Context, p *parsed, res *model.ImportResult) error {
	tx, err := im.store.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, w := range p.workers {
		added, err := tx.UpsertWorker(ctx, w)
		if err := record(res, model.KindWorkers, added, err); err != nil {
			return err
		}
	}
	for _, j := range p.jobTypes {
		added, err := tx.UpsertJobType(ctx, j)
		if err := record(res, model.KindJobTypes, added, err); err != nil {
			return err
		}
	}
	for _, pr := range p.products {
		added, err := tx.UpsertProduct(ctx, pr)
		if err := record(res, model.KindProducts, added, err); err != nil {
			return err
		}
	}
	for _, c := range p.contracts {
		added, err := tx.UpsertContract(ctx, c)
		if err := record(res, model.KindContracts, added, err); err != nil {
			return err
		}
	}

	for _, g := range p.groups {
		if len(g.Items) == 0 {
			continue
		}
		created, err := im.commitGroup(ctx, tx, g)
		if err != nil {
			return err
		}
		res.Record(model.KindOrders, model.UpsertResult{Added: created})
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}
	slog.Info("import committed",
		"added", res.Added,
		"updated", res.Updated,
		"skipped", res.Skipped)
	return nil
}

// commitGroup turns one reconstructed order group into work orders: one
// order per referenced product, each carrying the full item list, with
// the group total split equally across the group's workers.
func (im *Importer) commitGroup(ctx context.Context, tx *storage.Tx, g model.OrderGroup) (int, error) {
	// Keep tariffs current for every job the group references.
	seenJobs := make(map[string]bool, len(g.Items))
	for _, it := range g.Items {
		if seenJobs[it.JobName] {
			continue
		}
		seenJobs[it.JobName] = true
		if _, err := tx.UpsertJobType(ctx, model.JobType{
			Name:  it.JobName,
			Unit:  it.Unit,
			Price: it.UnitPrice,
		}); err != nil {
			return 0, err
		}
	}

	// Worker resolution follows the reconstructor's accumulation order,
	// so the rounding remainder lands on the same worker every run.
	workerIDs := make([]int64, 0, len(g.Workers))
	for _, w := range g.Workers {
		id, err := tx.EnsureWorker(ctx, w)
		if err != nil {
			return 0, err
		}
		workerIDs = append(workerIDs, id)
	}

	shares := splitEqually(g.Total(), len(workerIDs))
	allocs := make([]storage.WorkerAllocation, len(workerIDs))
	for i, id := range workerIDs {
		allocs[i] = storage.WorkerAllocation{WorkerID: id, Amount: shares[i]}
	}

	productNos := g.Products
	if len(productNos) == 0 {
		productNos = []string{placeholderProductNo}
	}

	created := 0
	for _, no := range productNos {
		productID, err := tx.EnsureProduct(ctx, no)
		if err != nil {
			return 0, err
		}
		contractCode, err := tx.ProductContractCode(ctx, productID)
		if err != nil {
			return 0, err
		}
		contractID, err := tx.EnsureContract(ctx, contractCode)
		if err != nil {
			return 0, err
		}

		// Quantities are deliberately not divided between the products
		// of a group: each product's order carries the full item list.
		if _, err := tx.CreateWorkOrder(ctx, g.Date, productID, contractID, g.Items, allocs); err != nil {
			return 0, err
		}
		created++
	}
	return created, nil
}

// splitEqually divides total across n workers: every share is the total
// over n rounded to 2 decimals, and the rounding remainder goes to the
// last worker so the shares always sum to the exact total.
func splitEqually(total float64, n int) []float64 {
	if n == 0 {
		return nil
	}

	d := decimal.NewFromFloat(total)
	share := d.Div(decimal.NewFromInt(int64(n))).Round(2)
	shares := make([]float64, n)
	for i := 0; i < n-1; i++ {
		shares[i] = share.InexactFloat64()
	}
	last := d.Sub(share.Mul(decimal.NewFromInt(int64(n - 1)))).Round(2)
	shares[n-1] = last.InexactFloat64()
	return shares
}

func record(res *model.ImportResult, kind model.TableKind, added bool, err error) error {
	if err != nil {
		return err
	}
	if added {
		res.Record(kind, model.UpsertResult{Added: 1})
	} else {
		res.Record(kind, model.UpsertResult{Updated: 1})
	}
	return nil
}
