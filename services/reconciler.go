package services

import (
	"context"

	"c3speakers/models"
	"c3speakers/storage"
	"c3speakers/utils"
)

// Diff compares a stored mapping with a freshly extracted one. Changed holds
// ids present in both with a different value (mapped to the fresh value),
// Removed holds ids only present in before (mapped to the stored value).
func Diff(before, after map[string]string) models.Diff {
	d := models.Diff{
		Changed: make(map[string]string),
		Removed: make(map[string]string),
	}
	for id, old := range before {
		cur, ok := after[id]
		switch {
		case !ok:
			d.Removed[id] = old
		case cur != old:
			d.Changed[id] = cur
		}
	}
	return d
}

// MergeResult is the outcome of merging fresh values into a snapshot.
type MergeResult struct {
	// Additions are the fresh values for ids without a stored value.
	Additions map[string]string
	// Merged is the snapshot after applying Additions.
	Merged map[string]string
	// Diff compares Merged with the fresh values.
	Diff models.Diff
}

// Merge applies first-write-wins: a stored non-empty value is never
// replaced, differences are only reported.
func Merge(persisted, fresh map[string]string) MergeResult {
	res := MergeResult{
		Additions: make(map[string]string),
		Merged:    make(map[string]string, len(persisted)),
	}
	for id, v := range persisted {
		res.Merged[id] = v
	}
	for id, v := range fresh {
		if res.Merged[id] == "" {
			res.Additions[id] = v
			res.Merged[id] = v
		}
	}
	res.Diff = Diff(res.Merged, fresh)
	return res
}

// Outcome reports one reconciliation of an attribute against the store.
type Outcome struct {
	Attribute models.Attribute
	Before    map[string]string
	After     map[string]string
	Additions map[string]string
	// Diff compares After with the fresh values.
	Diff models.Diff
	// Degraded is set when the additions were not written.
	Degraded bool
}

// Written is the number of values the store gained.
func (o *Outcome) Written() int {
	return len(o.After) - len(o.Before)
}

// Reconciler merges freshly scraped data into the snapshot store.
// After the first failed write it stops writing for the rest of the run.
type Reconciler struct {
	store    storage.SnapshotStore
	logger   *utils.Logger
	writeErr error
}

// NewReconciler creates a Reconciler backed by store.
func NewReconciler(store storage.SnapshotStore, logger *utils.Logger) *Reconciler {
	return &Reconciler{store: store, logger: logger}
}

// Degraded reports whether a write failed during this run.
func (r *Reconciler) Degraded() bool {
	return r.writeErr != nil
}

// Err returns the write error that degraded the run, if any.
func (r *Reconciler) Err() error {
	return r.writeErr
}

// ReconcileNames creates the schema if needed and stores new speakers.
func (r *Reconciler) ReconcileNames(ctx context.Context, fresh map[string]string) (*Outcome, error) {
	if err := r.store.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	return r.reconcile(ctx, models.AttrName, fresh, r.store.WriteNames)
}

// ReconcileHandles stores handles for speakers that have none yet.
func (r *Reconciler) ReconcileHandles(ctx context.Context, fresh map[string]string) (*Outcome, error) {
	return r.reconcile(ctx, models.AttrHandle, fresh, r.store.WriteHandles)
}

func (r *Reconciler) reconcile(
	ctx context.Context,
	attr models.Attribute,
	fresh map[string]string,
	write func(context.Context, map[string]string) error,
) (*Outcome, error) {
	before, err := r.store.Read(ctx, attr)
	if err != nil {
		return nil, err
	}

	merged := Merge(before, fresh)
	out := &Outcome{Attribute: attr, Before: before, Additions: merged.Additions}

	switch {
	case len(merged.Additions) == 0:
	case r.Degraded():
		r.logger.Warn("[store] Not writing %d %s value(s): store is degraded", len(merged.Additions), attr)
		out.Degraded = true
	default:
		if err := write(ctx, merged.Additions); err != nil {
			r.logger.Error("[store] Writing %s values to %s failed: %v", attr, r.store.Name(), err)
			r.writeErr = err
			out.Degraded = true
		}
	}

	after, err := r.store.Read(ctx, attr)
	if err != nil {
		return nil, err
	}
	out.After = after
	out.Diff = Diff(after, fresh)
	return out, nil
}
