package adapters

import (
	"github.com/de-tools/purchase-atlas/pkg/models/domain"
	"github.com/de-tools/purchase-atlas/pkg/models/store"
)

func MapDatasetToStorePurchases(runID string, ds domain.Dataset) []store.Purchase {
	out := make([]store.Purchase, len(ds))
	for i, r := range ds {
		out[i] = store.Purchase{
			RunID:     runID,
			Position:  i,
			Segment:   r.Segment,
			Amount:    r.Amount,
			HeavyTail: r.HeavyTail,
		}
	}
	return out
}

// MapStorePurchasesToDataset expects rows ordered by position.
func MapStorePurchasesToDataset(rows []store.Purchase) domain.Dataset {
	ds := make(domain.Dataset, len(rows))
	for i, r := range rows {
		ds[i] = domain.PurchaseRecord{
			Segment:   r.Segment,
			Amount:    r.Amount,
			HeavyTail: r.HeavyTail,
		}
	}
	return ds
}
