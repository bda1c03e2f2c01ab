package app

import (
	"github.com/EchoingVesper/vespera-atelier-sub001/internal/classify"
	"github.com/EchoingVesper/vespera-atelier-sub001/internal/report"
)

type Mode string

const (
	ModeAnalyse Mode = "analyse"
	ModePhases  Mode = "phases"
)

type Request struct {
	Mode     Mode
	RepoPath string
	NoColor  bool
	Analyse  AnalyseRequest
}

type AnalyseRequest struct {
	LogPath    string
	Phase      classify.Phase
	Format     report.Format
	TopN       int
	ConfigPath string
	TablePath  string
}

func DefaultRequest() Request {
	return Request{
		Mode:     ModeAnalyse,
		RepoPath: ".",
		Analyse: AnalyseRequest{
			Format: report.FormatTable,
		},
	}
}
