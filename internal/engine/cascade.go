package engine

import "github.com/agrodata-labs/sicorboard/internal/dataset"

// capability flags name the categorical attributes a collection actually
// carries. A filter on an attribute a collection lacks passes through as a
// no-op; this asymmetry is real data availability (the product slice carries
// a purpose column, the municipality slice does not) and is encoded here as
// a static table rather than sniffed per record.
type capability uint8

const (
	capPurpose capability = 1 << iota
	capProgram
	capProduct
	capMunicipality
	capPeriod
)

var collectionCaps = map[dataset.Collection]capability{
	dataset.CollectionYear:         capPeriod,
	dataset.CollectionMonth:        capPeriod,
	dataset.CollectionPurpose:      capPurpose | capPeriod,
	dataset.CollectionProgram:      capProgram,
	dataset.CollectionProduct:      capProduct | capPurpose,
	dataset.CollectionMunicipality: capMunicipality,
	dataset.CollectionLeaderboard:  capMunicipality | capPurpose | capPeriod,
}

func (c capability) has(flag capability) bool { return c&flag != 0 }

// FilterRecords applies the active filters to one collection as a single
// conjunction. Only predicates the collection is capable of answering are
// evaluated; empty selections never restrict anything. Predicates commute,
// so evaluation order is irrelevant. The input slice is never mutated.
func FilterRecords(records []dataset.Record, c dataset.Collection, f FilterState) []dataset.Record {
	caps := collectionCaps[c]

	out := make([]dataset.Record, 0, len(records))
	for _, r := range records {
		if caps.has(capPeriod) && !f.InPeriod(r.Year, r.Month) {
			continue
		}
		if caps.has(capPurpose) && f.Purpose != "" && r.Purpose != f.Purpose {
			continue
		}
		if caps.has(capProgram) && f.Program != "" && r.Program != f.Program {
			continue
		}
		if caps.has(capProduct) && f.Product != "" && r.Product != f.Product {
			continue
		}
		if caps.has(capMunicipality) && f.Municipality != "" && r.Municipality != f.Municipality {
			continue
		}
		out = append(out, r)
	}
	return out
}
