package persist

import (
	"github.com/dshills/dungeoneer-go/pkg/dgerr"
	"github.com/dshills/dungeoneer-go/pkg/tilemap"
)

// encodeDiagnostics writes the v>=9 diagnostics sub-record (§6.4): one
// record per post-process step, then one per room-type quota.
func encodeDiagnostics(bw *writer, d *tilemap.Diagnostics) {
	bw.u64(uint64(len(d.ProcessSteps)))
	for _, s := range d.ProcessSteps {
		bw.i32(int32(s.MethodType))
		bw.u64(s.WalkableBefore)
		bw.u64(s.WalkableAfter)
		bw.i64(s.WalkableDelta)
		bw.u64(s.ComponentsBefore)
		bw.u64(s.ComponentsAfter)
		bw.i64(s.ComponentsDelta)
		bw.bool(s.ConnectedBefore)
		bw.bool(s.ConnectedAfter)
	}

	bw.u64(uint64(len(d.TypeQuotas)))
	for _, q := range d.TypeQuotas {
		bw.u32(q.TypeID)
		bw.bool(q.Enabled)
		bw.i32(q.Min)
		bw.i32(q.Max)
		bw.i32(q.Target)
		bw.u64(q.AssignedCount)
		bw.bool(q.MinSatisfied)
		bw.bool(q.MaxSatisfied)
		bw.bool(q.TargetSatisfied)
	}
}

func decodeDiagnostics(br *reader) (tilemap.Diagnostics, error) {
	var d tilemap.Diagnostics

	stepCount := br.u64()
	d.ProcessSteps = make([]tilemap.ProcessStepDiagnostic, stepCount)
	for i := range d.ProcessSteps {
		d.ProcessSteps[i] = tilemap.ProcessStepDiagnostic{
			MethodType:       tilemap.ProcessMethodType(br.i32()),
			WalkableBefore:   br.u64(),
			WalkableAfter:    br.u64(),
			WalkableDelta:    br.i64(),
			ComponentsBefore: br.u64(),
			ComponentsAfter:  br.u64(),
			ComponentsDelta:  br.i64(),
			ConnectedBefore:  br.boolean(),
			ConnectedAfter:   br.boolean(),
		}
	}

	quotaCount := br.u64()
	d.TypeQuotas = make([]tilemap.RoomTypeQuotaDiagnostic, quotaCount)
	for i := range d.TypeQuotas {
		d.TypeQuotas[i] = tilemap.RoomTypeQuotaDiagnostic{
			TypeID:          br.u32(),
			Enabled:         br.boolean(),
			Min:             br.i32(),
			Max:             br.i32(),
			Target:          br.i32(),
			AssignedCount:   br.u64(),
			MinSatisfied:    br.boolean(),
			MaxSatisfied:    br.boolean(),
			TargetSatisfied: br.boolean(),
		}
	}

	if br.err != nil {
		return d, dgerr.Wrap("persist.decodeDiagnostics", dgerr.IOError, br.err)
	}
	return d, nil
}
