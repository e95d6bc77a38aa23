// Package pipeline wires the per-post stages together: detection,
// classification and normalization, plus the sinks approved records go to.
package pipeline

import (
	"context"
	"errors"

	"civic_ingest/internal/model"
)

// Sink receives approved complaint records.
type Sink interface {
	Append(ctx context.Context, rec model.ComplaintRecord) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, rec model.ComplaintRecord) error

// Append calls f.
func (f SinkFunc) Append(ctx context.Context, rec model.ComplaintRecord) error {
	return f(ctx, rec)
}

// MultiSink appends to every sink in order. A failing sink does not stop
// the others; all errors are joined.
type MultiSink []Sink

// Append implements Sink.
func (m MultiSink) Append(ctx context.Context, rec model.ComplaintRecord) error {
	var errs []error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Append(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// DetectFunc judges whether a text is a genuine report.
type DetectFunc func(text string) model.Verdict

// Classifier infers a classification from text and an optional hint.
type Classifier interface {
	Classify(text, hint string) model.Classification
}

// Normalizer builds a store-ready record.
type Normalizer interface {
	Normalize(post model.RawPost, cls model.Classification) model.ComplaintRecord
}

// Outcome is the result of processing one post. Classification and Record
// are set only when the post was approved.
type Outcome struct {
	Verdict        model.Verdict
	Classification *model.Classification
	Record         *model.ComplaintRecord
}

// Approved reports whether the post passed detection.
func (o Outcome) Approved() bool {
	return !o.Verdict.IsFake
}

// Processor runs the stages for a single post.
type Processor struct {
	detect     DetectFunc
	classifier Classifier
	normalizer Normalizer
}

// NewProcessor builds a Processor from its stages.
func NewProcessor(detect DetectFunc, c Classifier, n Normalizer) *Processor {
	return &Processor{detect: detect, classifier: c, normalizer: n}
}

// Process detects, then classifies and normalizes genuine posts.
// Fake posts are never classified.
func (p *Processor) Process(post model.RawPost) Outcome {
	verdict := p.detect(post.Text)
	if verdict.IsFake {
		return Outcome{Verdict: verdict}
	}

	cls := p.classifier.Classify(post.Text, "")
	rec := p.normalizer.Normalize(post, cls)
	return Outcome{Verdict: verdict, Classification: &cls, Record: &rec}
}
