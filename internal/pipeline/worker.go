package pipeline

import (
	"context"
	"log/slog"

	"github.com/dgallion1/notepress/internal/render"
)

// Worker processes compile jobs one at a time.
type Worker struct {
	compiler *Compiler
	log      *slog.Logger
}

func NewWorker(compiler *Compiler, log *slog.Logger) *Worker {
	return &Worker{compiler: compiler, log: log}
}

// Process scans then renders the job's text. The artifact is published only
// after both stages have finished.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "format", job.Format)

	if err := ctx.Err(); err != nil {
		log.Warn("job cancelled before start", "error", err)
		job.Fail("queued", "cancelled", err)
		return
	}

	// Phase 1: Scan
	job.SetStatus(StatusScanning, "scanning")
	doc := w.compiler.Scan(job.Text())
	job.SetBlocks(doc.Len())
	log.Info("scanned document", "blocks", doc.Len())

	// Phase 2: Render
	job.SetStatus(StatusRendering, "rendering")
	artifact, err := w.compiler.Render(job.Format, doc, job.Title)
	if err != nil {
		log.Error("render failed", "error", err)
		job.Fail("rendering", render.Reason(err), err)
		return
	}

	job.Complete(artifact)
	log.Info("job completed", "file", artifact.Filename)
}
