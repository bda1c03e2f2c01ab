package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/EchoingVesper/vespera-atelier-sub001/internal/app"
	"github.com/EchoingVesper/vespera-atelier-sub001/internal/classify"
	"github.com/EchoingVesper/vespera-atelier-sub001/internal/report"
)

var ErrHelpRequested = errors.New("help requested")

func ParseArgs(args []string) (app.Request, error) {
	req := app.DefaultRequest()
	if len(args) == 0 {
		return req, ErrHelpRequested
	}

	if isHelpArg(args[0]) {
		return req, ErrHelpRequested
	}

	switch args[0] {
	case "analyse", "analyze":
		return parseAnalyse(args[1:], req, app.ModeAnalyse)
	case "phases":
		return parseAnalyse(args[1:], req, app.ModePhases)
	default:
		return req, fmt.Errorf("unknown command: %s", args[0])
	}
}

func parseAnalyse(args []string, req app.Request, mode app.Mode) (app.Request, error) {
	fs := flag.NewFlagSet(string(mode), flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	logPath := fs.String("log", "", "diagnostic log path")
	repoPath := fs.String("repo", req.RepoPath, "repository path")
	phaseFlag := fs.String("phase", "", "restrict to one phase")
	formatFlag := fs.String("format", string(req.Analyse.Format), "output format")
	top := fs.Int("top", 0, "cap the prioritized order")
	configPath := fs.String("config", "", "config file path")
	tablePath := fs.String("table", "", "integration reference table path")
	noColor := fs.Bool("no-color", false, "disable colored output")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return req, ErrHelpRequested
		}
		return req, err
	}
	if fs.NArg() > 0 {
		return req, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	if strings.TrimSpace(*logPath) == "" {
		return req, fmt.Errorf("--log is required")
	}
	if *top < 0 {
		return req, fmt.Errorf("--top must be >= 0")
	}

	format, err := report.ParseFormat(*formatFlag)
	if err != nil {
		return req, err
	}

	phase := classify.Phase("")
	if trimmed := strings.TrimSpace(*phaseFlag); trimmed != "" {
		parsed, ok := classify.ParsePhase(trimmed)
		if !ok {
			return req, fmt.Errorf("unknown phase: %s", trimmed)
		}
		phase = parsed
	}

	req.Mode = mode
	req.RepoPath = strings.TrimSpace(*repoPath)
	req.NoColor = *noColor
	req.Analyse = app.AnalyseRequest{
		LogPath:    strings.TrimSpace(*logPath),
		Phase:      phase,
		Format:     format,
		TopN:       *top,
		ConfigPath: strings.TrimSpace(*configPath),
		TablePath:  strings.TrimSpace(*tablePath),
	}

	return req, nil
}

func isHelpArg(arg string) bool {
	switch arg {
	case "-h", "--help", "help":
		return true
	default:
		return false
	}
}
