package export

import (
	"context"
	"log/slog"
	"time"

	"sitesurvey/internal/survey/model"
)

// Renderer turns one record into a named artifact. Implementations are the
// strategy parameter the export profiles differ by; the pipeline itself is
// identical for all of them.
type Renderer interface {
	Render(ctx context.Context, rec *model.SurveyRecord) (name string, data []byte, err error)
}

// Sink receives rendered artifacts. Write is only called from the pipeline's
// collector loop, so implementations need no locking.
type Sink interface {
	Write(name string, data []byte) error
}

// Progress is invoked after every record settles (success or failure) with
// (completedSoFar, total). completedSoFar is strictly increasing. Keep the
// callback fast; it runs on the pipeline's collector loop.
type Progress func(completed, total int)

// Result summarizes one export run. Succeeded+Failed always equals the
// number of input records.
type Result struct {
	Succeeded int
	Failed    int
	Failures  []model.ExportFailure
}

// Runner executes a bulk export: the input is partitioned into fixed-size
// contiguous batches, batches run strictly in order, and records within a
// batch render concurrently. A single record's failure never aborts its
// batch or the batches after it. There is no pause or mid-run cancellation;
// a job goes Idle -> Running -> Completed and that is all.
type Runner struct {
	Renderer   Renderer
	Sink       Sink
	BatchSize  int
	BatchDelay time.Duration
	Logger     *slog.Logger
}

type outcome struct {
	rec  *model.SurveyRecord
	name string
	data []byte
	err  error
}

func (r *Runner) Run(ctx context.Context, records []*model.SurveyRecord, onProgress Progress) Result {
	var res Result

	total := len(records)
	if total == 0 {
		return res
	}

	batchSize := r.BatchSize
	if batchSize < 1 {
		batchSize = model.DefaultExportBatchSize
	}

	completed := 0
	for start := 0; start < total; start += batchSize {
		end := start + batchSize
		if end > total {
			end = total
		}
		batch := records[start:end]

		outcomes := make(chan outcome, len(batch))
		for _, rec := range batch {
			go func(rec *model.SurveyRecord) {
				name, data, err := r.Renderer.Render(ctx, rec)
				outcomes <- outcome{rec: rec, name: name, data: data, err: err}
			}(rec)
		}

		// Collect every task in the batch before the next batch starts.
		// Completion order within the batch is whichever renders first.
		for i := 0; i < len(batch); i++ {
			o := <-outcomes
			if o.err == nil {
				if err := r.Sink.Write(o.name, o.data); err != nil {
					o.err = err
				}
			}
			if o.err != nil {
				res.Failed++
				res.Failures = append(res.Failures, model.ExportFailure{
					RFPNo:  o.rec.RFPNo,
					PoleNo: o.rec.PoleNo,
					Reason: o.err.Error(),
				})
				if r.Logger != nil {
					r.Logger.Warn("export record failed",
						"rfp_no", o.rec.RFPNo,
						"pole_no", o.rec.PoleNo,
						"error", o.err,
					)
				}
			} else {
				res.Succeeded++
			}

			completed++
			if onProgress != nil {
				onProgress(completed, total)
			}
		}

		// Throttle between batches, not a correctness requirement. Skipped
		// after the final batch.
		if end < total && r.BatchDelay > 0 {
			time.Sleep(r.BatchDelay)
		}
	}

	return res
}
