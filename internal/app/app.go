// Package app wires configuration, reference data, and the analysis
// service into the two command modes.
package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/EchoingVesper/vespera-atelier-sub001/internal/analysis"
	"github.com/EchoingVesper/vespera-atelier-sub001/internal/classify"
	"github.com/EchoingVesper/vespera-atelier-sub001/internal/config"
	"github.com/EchoingVesper/vespera-atelier-sub001/internal/ingest"
	"github.com/EchoingVesper/vespera-atelier-sub001/internal/integrate"
	"github.com/EchoingVesper/vespera-atelier-sub001/internal/report"
	"github.com/EchoingVesper/vespera-atelier-sub001/internal/safeio"
)

var ErrUnknownMode = errors.New("unknown mode")

type App struct {
	Formatter report.Formatter
}

func New() *App {
	return &App{Formatter: report.NewFormatter()}
}

func (a *App) Execute(ctx context.Context, req Request) (string, error) {
	switch req.Mode {
	case ModeAnalyse, ModePhases:
		return a.executeAnalyse(ctx, req)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownMode, req.Mode)
	}
}

func (a *App) executeAnalyse(ctx context.Context, req Request) (string, error) {
	cfg, err := resolveConfig(req)
	if err != nil {
		return "", err
	}
	table, err := resolveTable(req, cfg)
	if err != nil {
		return "", err
	}
	parsed, err := readLog(req.Analyse.LogPath)
	if err != nil {
		return "", err
	}

	rules := classify.NewRegistryWithSecurityKeywords(cfg.SecurityKeywords)
	service := analysis.NewService(rules, table, analysis.RepoReader{Root: req.RepoPath}, cfg)

	var reportData report.PhaseReport
	if req.Analyse.Phase != "" {
		reportData, err = service.RunPhase(ctx, parsed.Diagnostics, req.Analyse.Phase)
	} else {
		reportData, err = service.Run(ctx, parsed.Diagnostics)
	}
	if err != nil {
		return "", err
	}

	if parsed.SkippedLines > 0 {
		reportData.Warnings = append(reportData.Warnings,
			fmt.Sprintf("skipped %d unrecognized log line(s)", parsed.SkippedLines))
	}
	if req.Mode == ModePhases {
		reportData.PrioritizedOrder = nil
	} else {
		reportData = report.TruncateOrder(reportData, req.Analyse.TopN)
	}

	return a.Formatter.Format(reportData, req.Analyse.Format)
}

func resolveConfig(req Request) (config.Values, error) {
	overrides, _, err := config.Load(req.RepoPath, req.Analyse.ConfigPath)
	if err != nil {
		return config.Values{}, err
	}
	resolved := overrides.Apply(config.Defaults())
	if err := resolved.Validate(); err != nil {
		return config.Values{}, err
	}
	return resolved, nil
}

func resolveTable(req Request, cfg config.Values) (integrate.Table, error) {
	tablePath := req.Analyse.TablePath
	if tablePath == "" {
		tablePath = cfg.ReferenceTablePath
	}
	if tablePath == "" {
		return integrate.DefaultTable(), nil
	}
	if !filepath.IsAbs(tablePath) {
		tablePath = filepath.Join(req.RepoPath, tablePath)
	}
	return integrate.LoadTable(tablePath)
}

func readLog(logPath string) (ingest.ParseResult, error) {
	if logPath == "" {
		return ingest.ParseResult{}, errors.New("diagnostic log path is required")
	}
	data, err := safeio.ReadFile(logPath)
	if err != nil {
		return ingest.ParseResult{}, fmt.Errorf("read diagnostic log %s: %w", logPath, err)
	}
	return ingest.ParseLog(bytes.NewReader(data))
}
