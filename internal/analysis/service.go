// Package analysis orchestrates the classification pipeline: rule
// lookup, usage profiling, integration matching, investigation, and
// action resolution, feeding the report aggregator.
package analysis

import (
	"context"
	"errors"

	"github.com/EchoingVesper/vespera-atelier-sub001/internal/classify"
	"github.com/EchoingVesper/vespera-atelier-sub001/internal/config"
	"github.com/EchoingVesper/vespera-atelier-sub001/internal/ingest"
	"github.com/EchoingVesper/vespera-atelier-sub001/internal/integrate"
	"github.com/EchoingVesper/vespera-atelier-sub001/internal/investigate"
	"github.com/EchoingVesper/vespera-atelier-sub001/internal/report"
	"github.com/EchoingVesper/vespera-atelier-sub001/internal/usage"
)

// Service runs the full triage pipeline. It holds only configuration
// and collaborators; per-run state (file contents, warnings) lives in
// the run, so one Service is safe to reuse across calls.
type Service struct {
	reader     FileReader
	classifier *classify.Classifier
	analyzer   *usage.Analyzer
	finder     *integrate.Finder
	engine     *investigate.Engine
	cfg        config.Values
}

func NewService(rules *classify.Registry, table integrate.Table, reader FileReader, cfg config.Values) *Service {
	return &Service{
		reader:     reader,
		classifier: classify.NewClassifier(rules),
		analyzer:   usage.NewAnalyzer(),
		finder:     integrate.NewFinder(table),
		engine:     investigate.NewEngine(table.KnownFalsePositives),
		cfg:        cfg,
	}
}

// ClassifyAll classifies every parseable diagnostic. Diagnostics whose
// message does not carry a symbol are skipped, never fatal.
func (s *Service) ClassifyAll(ctx context.Context, diagnostics []ingest.Diagnostic) ([]classify.Symbol, []string, error) {
	files := newFileCache(s.reader)
	symbols, err := s.classifyAll(ctx, diagnostics, files)
	return symbols, files.warnings, err
}

func (s *Service) classifyAll(ctx context.Context, diagnostics []ingest.Diagnostic, files *fileCache) ([]classify.Symbol, error) {
	symbols := make([]classify.Symbol, 0, len(diagnostics))
	for _, diagnostic := range diagnostics {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		symbol, err := s.classifier.Classify(diagnostic, files.text(diagnostic.File))
		if err != nil {
			if errors.Is(err, classify.ErrNotASymbol) {
				continue
			}
			return nil, err
		}
		symbols = append(symbols, symbol)
	}
	return symbols, nil
}

// AnalyzeAll runs usage, integration, and investigation analysis over
// already classified symbols.
func (s *Service) AnalyzeAll(ctx context.Context, symbols []classify.Symbol) ([]report.Result, []string, error) {
	files := newFileCache(s.reader)
	results, err := s.analyzeAll(ctx, symbols, files)
	return results, files.warnings, err
}

func (s *Service) analyzeAll(ctx context.Context, symbols []classify.Symbol, files *fileCache) ([]report.Result, error) {
	results := make([]report.Result, 0, len(symbols))
	for _, symbol := range symbols {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		results = append(results, s.analyzeOne(symbol, files.text(symbol.File)))
	}
	return results, nil
}

func (s *Service) analyzeOne(symbol classify.Symbol, fileText string) report.Result {
	profile := s.analyzer.Analyze(symbol, fileText)
	opportunity := s.finder.Find(symbol, profile)
	findings := s.engine.Investigate(symbol, fileText)
	action, confidence := resolveAction(symbol, profile, opportunity, findings, s.cfg.CompositionRootMarkers)

	return report.Result{
		Symbol:      symbol,
		Profile:     profile,
		Opportunity: opportunity,
		Findings:    findings,
		Action:      action,
		Confidence:  confidence,
	}
}

// Run executes the whole pipeline over a parsed diagnostic log. One
// file cache spans classification and analysis so every stage sees the
// same snapshot of each file.
func (s *Service) Run(ctx context.Context, diagnostics []ingest.Diagnostic) (report.PhaseReport, error) {
	return s.run(ctx, diagnostics, "")
}

// RunPhase is Run restricted to one phase; counts and estimates cover
// only symbols in that phase.
func (s *Service) RunPhase(ctx context.Context, diagnostics []ingest.Diagnostic, phase classify.Phase) (report.PhaseReport, error) {
	return s.run(ctx, diagnostics, phase)
}

func (s *Service) run(ctx context.Context, diagnostics []ingest.Diagnostic, phase classify.Phase) (report.PhaseReport, error) {
	files := newFileCache(s.reader)

	symbols, err := s.classifyAll(ctx, diagnostics, files)
	if err != nil {
		return report.PhaseReport{}, err
	}
	results, err := s.analyzeAll(ctx, symbols, files)
	if err != nil {
		return report.PhaseReport{}, err
	}
	if phase != "" {
		results = report.FilterByPhase(results, phase)
	}

	reportData := report.Aggregate(results, s.cfg.Estimates())
	reportData.Warnings = append(reportData.Warnings, files.warnings...)
	return reportData, nil
}
