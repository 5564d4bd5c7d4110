package dbtx

import (
	"context"

	"github.com/fox-one/pkg/store/db"
)

type txKey struct{}

// WithContext returns a copy of ctx carrying the open transaction tx
func WithContext(ctx context.Context, tx *db.DB) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// FromContext the transaction carried by ctx, fallback when there is none.
// Stores write through it so token moves made while an engine commit is open
// share that commit's fate.
func FromContext(ctx context.Context, fallback *db.DB) *db.DB {
	if tx, ok := ctx.Value(txKey{}).(*db.DB); ok && tx != nil {
		return tx
	}

	return fallback
}
