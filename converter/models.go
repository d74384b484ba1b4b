package converter

import (
	"time"

	"github.com/duneanalytics/block-to-payload/engine"
)

type Info struct {
	Blocks         int64
	Transactions   int64
	BlobHashes     int64
	HashMismatches int64
	Versions       map[engine.Version]int64
	LastBlock      uint64
	Since          time.Time
}

func NewInfo() Info {
	return Info{
		Versions: make(map[engine.Version]int64, 3),
		Since:    time.Now(),
	}
}

// LogFields is the summary logged once a run is over.
func (info Info) LogFields() []any {
	fields := []any{
		"blocks", info.Blocks,
		"transactions", info.Transactions,
		"elapsed", time.Since(info.Since),
	}
	for _, v := range []engine.Version{engine.V1, engine.V2, engine.V3} {
		if n := info.Versions[v]; n > 0 {
			fields = append(fields, v.String(), n)
		}
	}
	if info.BlobHashes > 0 {
		fields = append(fields, "blobHashes", info.BlobHashes)
	}
	if info.HashMismatches > 0 {
		fields = append(fields, "hashMismatches", info.HashMismatches)
	}
	return fields
}
