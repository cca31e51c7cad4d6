package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/dgallion1/doccompose/internal/compose"
	"github.com/dgallion1/doccompose/internal/importer"
	"github.com/dgallion1/doccompose/internal/postprocess"
	"github.com/dgallion1/doccompose/internal/snapshot"
	"github.com/dgallion1/doccompose/internal/store"
)

// Worker processes a single merge job.
type Worker struct {
	results     *store.Store
	log         *slog.Logger
	pdfFallback bool
}

func NewWorker(results *store.Store, log *slog.Logger, pdfFallback bool) *Worker {
	return &Worker{
		results:     results,
		log:         log,
		pdfFallback: pdfFallback,
	}
}

// Process runs the full merge pipeline for a job. The first input is the
// designated output document: it seeds the accumulator and contributes its
// styles, settings and themes to the result.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID)

	// Phase 1: load every input into a snapshot.
	job.SetStatus(StatusLoading, "loading inputs")
	inputs := job.Inputs()
	if len(inputs) == 0 {
		job.AddError("no input files")
		job.SetStatus(StatusFailed, "loading inputs")
		return
	}

	snapshots := make([]*snapshot.Snapshot, 0, len(inputs))
	for _, in := range inputs {
		s, err := w.load(in)
		if err != nil {
			log.Error("load failed", "filename", in.Name, "error", err)
			job.AddError(fmt.Sprintf("load %s: %s", in.Name, err))
			job.SetStatus(StatusFailed, "loading inputs")
			return
		}
		snapshots = append(snapshots, s)
	}

	// Phase 2: fold left to right.
	job.SetStatus(StatusComposing, "composing")
	acc := snapshots[0]
	job.IncrInputsFolded()
	for i, next := range snapshots[1:] {
		if ctx.Err() != nil {
			job.AddError("canceled")
			job.SetStatus(StatusFailed, "composing")
			return
		}
		merged, err := compose.Fold(acc, next)
		if err != nil {
			log.Error("fold failed", "filename", inputs[i+1].Name, "error", err)
			job.AddError(fmt.Sprintf("compose %s: %s", inputs[i+1].Name, err))
			job.SetStatus(StatusFailed, "composing")
			return
		}
		acc = merged
		job.IncrInputsFolded()
	}

	// Phase 3: cosmetic passes and serialization.
	job.SetStatus(StatusFinishing, "finishing")
	acc, err := postprocess.InjectHeaderFooter(acc, job.Options.HeaderText, job.Options.FooterText)
	if err != nil {
		log.Error("header/footer injection failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "finishing")
		return
	}
	acc = postprocess.EnsureStyles(acc)

	pkg, err := acc.ToPackage()
	if err != nil {
		log.Error("serialization failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "finishing")
		return
	}
	data, err := pkg.Bytes()
	if err != nil {
		log.Error("container write failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "finishing")
		return
	}
	if _, err := w.results.Save(job.ID, data); err != nil {
		log.Error("result save failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "finishing")
		return
	}

	job.SetResultStats(len(acc.Footnotes), len(acc.ContentRelations), len(acc.Charts), int64(len(data)))
	job.SetStatus(StatusCompleted, "done")
	log.Info("merge completed",
		"inputs", len(inputs),
		"footnotes", len(acc.Footnotes),
		"relationships", len(acc.ContentRelations),
		"charts", len(acc.Charts),
		"result_bytes", len(data),
	)
}

func (w *Worker) load(in InputFile) (*snapshot.Snapshot, error) {
	imp, err := importer.ForFile(in.Name)
	if err != nil {
		return nil, err
	}
	if p, ok := imp.(*importer.PDFImporter); ok {
		p.FallbackPdftotext = w.pdfFallback
	}
	return imp.Import(bytes.NewReader(in.Data), in.Name)
}
