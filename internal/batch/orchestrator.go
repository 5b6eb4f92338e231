// Package batch drives the recognition pipeline over a set of screenshots,
// strictly one image at a time.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"path/filepath"

	"github.com/junwei-lu/tradescan/constants"
	"github.com/junwei-lu/tradescan/internal/record"
	"github.com/junwei-lu/tradescan/internal/recognize"
	"github.com/junwei-lu/tradescan/internal/rules"
)

// State is the orchestrator's coarse lifecycle.
type State int

const (
	Idle State = iota
	Running
	Completed
)

// BatchState is owned by the orchestrator for the lifetime of one run and
// reset on each new run. Errors are per-image and soft; a batch with only
// errors is still a completed batch.
type BatchState struct {
	Total     int
	Completed int
	Results   []*record.TransactionRecord
	Errors    []string
}

// ProgressFunc receives monotonically non-decreasing progress after each
// image. percent is round(100*completed/total).
type ProgressFunc func(completed, total, percent int)

// Orchestrator runs recognition, rule matching, and reconciliation per image.
// Images are processed sequentially: one outstanding recognition call at a
// time bounds load on the OCR service and keeps progress monotonic.
type Orchestrator struct {
	Recognizer recognize.Recognizer
	Catalog    *rules.Catalog
	Matcher    *rules.Matcher
	Reconciler *record.Reconciler
	Logger     *slog.Logger
	OnProgress ProgressFunc

	state State
}

func NewOrchestrator(rec recognize.Recognizer, catalog *rules.Catalog, matcher *rules.Matcher, reconciler *record.Reconciler, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		Recognizer: rec,
		Catalog:    catalog,
		Matcher:    matcher,
		Reconciler: reconciler,
		Logger:     logger,
	}
}

func (o *Orchestrator) State() State { return o.state }

// Run processes images sequentially and returns partial results even when
// every image fails; the caller decides whether an all-failure batch is a
// user-facing error. Context cancellation stops further images from being
// scheduled; the in-flight image always finishes.
func (o *Orchestrator) Run(ctx context.Context, kind constants.RecordKind, images []string) *BatchState {
	state := &BatchState{Total: len(images)}
	o.state = Running

	for _, img := range images {
		if ctx.Err() != nil {
			o.Logger.Warn("batch.cancelled", "completed", state.Completed, "total", state.Total)
			o.state = Idle
			return state
		}
		o.processImage(ctx, kind, img, state)
		state.Completed++
		o.publish(state)
	}

	o.state = Completed
	o.Logger.Info("batch.done",
		"total", state.Total,
		"results", len(state.Results),
		"errors", len(state.Errors),
	)
	return state
}

func (o *Orchestrator) processImage(ctx context.Context, kind constants.RecordKind, img string, state *BatchState) {
	name := filepath.Base(img)

	res, err := o.Recognizer.Recognize(ctx, img)
	if err != nil {
		state.Errors = append(state.Errors, fmt.Sprintf("%s: recognition failed: %v", name, err))
		o.Logger.Warn("batch.image.recognize_error", "image", name, "error", err)
		return
	}
	if !res.Success {
		msg := res.Message
		if msg == "" {
			msg = "recognition service reported failure"
		}
		state.Errors = append(state.Errors, fmt.Sprintf("%s: %s", name, msg))
		o.Logger.Warn("batch.image.recognize_failed", "image", name, "message", msg)
		return
	}

	fields, ok := o.extractFields(ctx, kind, name, res)
	if !ok {
		state.Errors = append(state.Errors, fmt.Sprintf("%s: no rule set matched", name))
		return
	}

	rec := o.Reconciler.Reconcile(fields, kind)
	rec.SourceImage = img
	rec.RawText = res.RawText
	state.Results = append(state.Results, rec)
	o.Logger.Info("batch.image.ok", "image", name, "item", rec.ItemName, "quantity", rec.Quantity)
}

// extractFields runs the matcher against the catalog's rule sets. With no
// catalog available it degrades to the recognition service's own structured
// guess rather than failing the image.
func (o *Orchestrator) extractFields(ctx context.Context, kind constants.RecordKind, name string, res recognize.Result) (map[string]string, bool) {
	sets, err := o.Catalog.GetRules(ctx, kind, false)
	if err != nil {
		o.Logger.Warn("batch.image.no_rules", "image", name, "error", err)
		fields := res.Data
		if fields == nil {
			fields = map[string]string{}
		}
		return fields, true
	}

	ex := o.Matcher.Match(res.RawText, sets)
	if ex == nil {
		o.Logger.Warn("batch.image.no_match", "image", name, "rule_sets", len(sets))
		return nil, false
	}
	return ex.Fields, true
}

func (o *Orchestrator) publish(state *BatchState) {
	if o.OnProgress == nil {
		return
	}
	percent := int(math.Round(100 * float64(state.Completed) / float64(state.Total)))
	o.OnProgress(state.Completed, state.Total, percent)
}
