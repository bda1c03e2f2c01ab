package usage

import (
	"regexp"
	"strings"

	"github.com/EchoingVesper/vespera-atelier-sub001/internal/classify"
)

const maxRecordedContexts = 10

var (
	coreServicesNamePattern = regexp.MustCompile(`(?i)(coreservices|services)$`)
	errorHandlerNamePattern = regexp.MustCompile(`(?i)(errorhandler|errormanager)`)
	assignmentSourcePattern = regexp.MustCompile(`=\s*([A-Za-z_$][A-Za-z0-9_$]*)`)
	methodDeclarationLine   = regexp.MustCompile(`^\s*(?:public\s+|private\s+|protected\s+)?(?:static\s+)?(?:async\s+)?([A-Za-z_$][A-Za-z0-9_$]*)\s*\(`)
)

var initKeywords = []string{"init", "setup", "create", "configure", "build"}

var deadCodeMarkers = []string{"TODO", "DISABLED", "@ts-ignore", "@ts-nocheck"}

var nonMethodKeywords = map[string]struct{}{
	"if": {}, "for": {}, "while": {}, "switch": {}, "catch": {}, "return": {}, "constructor": {},
}

// Analyzer derives a usage profile for one symbol from the raw text of
// its declaring file. Detection is line and substring based only; a
// profile is a set of heuristics to rank, not a proof of usage.
type Analyzer struct{}

func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

func (a *Analyzer) Analyze(symbol classify.Symbol, fileText string) Profile {
	profile := Profile{}
	if symbol.Name == "" {
		profile.Pattern = fallbackPattern(symbol.Phase)
		return profile
	}

	lines := strings.Split(fileText, "\n")
	word := wordMatcher(symbol.Name)

	scan := newFileScan(symbol.Name)
	for index, line := range lines {
		scan.observeStructure(line)
		if !word.MatchString(line) {
			continue
		}
		scan.observeOccurrence(index+1, line, symbol.Line)
	}

	profile.Locations = scan.locations
	profile.Constructor = scan.constructorProfile()
	profile.Runtime = scan.runtimeProfile()
	profile.Access = accessCounts(symbol.Name, fileText)
	profile.Dependencies = serviceDependencies(symbol.Name, fileText)
	profile.Pattern = resolvePattern(symbol, profile)
	return profile
}

// resolvePattern applies the fixed first-match-wins ordering: a
// constructor-assigned symbol with no runtime reads wins outright, then
// service vocabulary, then any detected access contradicting the
// diagnostic, then a per-phase fallback.
func resolvePattern(symbol classify.Symbol, profile Profile) Pattern {
	if profile.Constructor.AssignedInConstructor && profile.Runtime.AccessCount == 0 {
		return PatternConstructorOnly
	}
	if errorHandlerNamePattern.MatchString(symbol.Name) {
		return PatternErrorHandlerGap
	}
	if coreServicesNamePattern.MatchString(symbol.Name) {
		return PatternServiceIntegrationGap
	}
	if profile.Runtime.AccessCount > 0 {
		return PatternFalsePositive
	}
	return fallbackPattern(symbol.Phase)
}

func fallbackPattern(phase classify.Phase) Pattern {
	switch phase {
	case classify.PhaseSafeRemoval:
		return PatternStoredNeverAccessed
	case classify.PhaseIntegration:
		return PatternServiceIntegrationGap
	default:
		return PatternIncompleteFeature
	}
}

type fileScan struct {
	name string

	locations []Location

	inConstructor    bool
	constructorDepth int
	currentMethod    string

	constructorAssignLine int
	parameterSource       string
	usedForInit           bool

	accessCount      int
	liveAccess       bool
	accessingMethods []string
	contexts         []string
}

func newFileScan(name string) *fileScan {
	return &fileScan{
		name:      name,
		locations: make([]Location, 0, 8),
	}
}

// observeStructure tracks constructor scope and the enclosing method
// name by brace counting, which is deliberately naive: single-line
// bodies and unbalanced templates degrade to a wider scope.
func (s *fileScan) observeStructure(line string) {
	if s.inConstructor {
		s.constructorDepth += strings.Count(line, "{") - strings.Count(line, "}")
		if s.constructorDepth <= 0 {
			s.inConstructor = false
		}
	}
	if strings.Contains(line, "constructor(") {
		s.inConstructor = true
		s.constructorDepth = strings.Count(line, "{") - strings.Count(line, "}")
		if s.constructorDepth <= 0 {
			s.constructorDepth = 1
		}
		s.currentMethod = "constructor"
		return
	}
	if match := methodDeclarationLine.FindStringSubmatch(line); match != nil {
		if _, keyword := nonMethodKeywords[match[1]]; !keyword {
			s.currentMethod = match[1]
		}
	}
}

func (s *fileScan) observeOccurrence(lineNumber int, line string, declarationLine int) {
	role := s.roleFor(line, lineNumber, declarationLine)
	s.locations = append(s.locations, Location{
		Line:       lineNumber,
		Snippet:    strings.TrimSpace(line),
		Role:       role,
		Confidence: occurrenceConfidence(line, s.name),
	})

	if role == RoleConstructorInit {
		s.recordConstructorAssignment(lineNumber, line)
		return
	}
	if role == RoleDeclaration {
		return
	}
	if strings.Contains(line, "this."+s.name) || strings.Contains(line, "."+s.name) {
		s.accessCount++
		if !isDeadCodeLine(line) {
			s.liveAccess = true
		}
		if s.currentMethod != "" {
			s.accessingMethods = appendUnique(s.accessingMethods, s.currentMethod)
		}
		if len(s.contexts) < maxRecordedContexts {
			s.contexts = append(s.contexts, strings.TrimSpace(line))
		}
	}
}

func (s *fileScan) roleFor(line string, lineNumber int, declarationLine int) Role {
	switch {
	case lineNumber == declarationLine || strings.Contains(line, s.name+":"):
		return RoleDeclaration
	case s.inConstructor && strings.Contains(line, "this."+s.name+" ="):
		return RoleConstructorInit
	case strings.Contains(line, "= "+s.name) || strings.Contains(line, s.name+" ="):
		return RoleAssignment
	case strings.Contains(line, "this."+s.name):
		return RolePropertyAccess
	case strings.Contains(line, s.name+"("):
		return RoleMethodCall
	default:
		return RoleAccess
	}
}

func (s *fileScan) recordConstructorAssignment(lineNumber int, line string) {
	s.constructorAssignLine = lineNumber
	s.parameterSource = assignmentSource(line, s.name)
	s.usedForInit = containsAnyFold(line, initKeywords)
}

func (s *fileScan) constructorProfile() ConstructorProfile {
	if s.constructorAssignLine == 0 {
		return ConstructorProfile{}
	}
	profile := ConstructorProfile{
		AssignedInConstructor: true,
		ConstructorLine:       s.constructorAssignLine,
		ParameterSource:       s.parameterSource,
		UsedForInit:           s.usedForInit,
	}
	switch {
	case s.parameterSource == "":
		profile.InitPattern = InitConstantAssignment
	case s.usedForInit:
		profile.InitPattern = InitDerivedValue
	default:
		profile.InitPattern = InitParameterStorage
	}
	return profile
}

func (s *fileScan) runtimeProfile() RuntimeProfile {
	return RuntimeProfile{
		AccessCount:           s.accessCount,
		AccessingMethods:      s.accessingMethods,
		Contexts:              s.contexts,
		OnlyInDeadCode:        s.accessCount > 0 && !s.liveAccess,
		PossibleFalsePositive: s.accessCount > 0,
	}
}

func occurrenceConfidence(line string, name string) classify.Confidence {
	if strings.Contains(line, "this."+name) || strings.Contains(line, name+":") {
		return classify.ConfidenceHigh
	}
	if wordMatcher(name).MatchString(line) {
		return classify.ConfidenceMedium
	}
	return classify.ConfidenceLow
}

func assignmentSource(line string, name string) string {
	assignPos := strings.Index(line, "this."+name)
	if assignPos < 0 {
		return ""
	}
	match := assignmentSourcePattern.FindStringSubmatch(line[assignPos:])
	if match == nil {
		return ""
	}
	return match[1]
}

func accessCounts(name string, fileText string) AccessCounts {
	return AccessCounts{
		PropertyAccess:    strings.Count(fileText, "this."+name),
		CallSyntax:        strings.Count(fileText, name+"("),
		ErrorHandlerCalls: strings.Count(fileText, ".handleError("),
	}
}

func serviceDependencies(name string, fileText string) []ServiceDependency {
	dependencies := make([]ServiceDependency, 0, 2)
	if coreServicesNamePattern.MatchString(name) {
		callDetected := strings.Contains(fileText, name+".")
		dependencies = append(dependencies, ServiceDependency{
			Service:              name,
			Kind:                 DependencyCoreServices,
			CallDetected:         callDetected,
			IntegrationCandidate: !callDetected,
		})
	}
	if errorHandlerNamePattern.MatchString(name) {
		callDetected := strings.Contains(fileText, name+".handleError(") ||
			strings.Contains(fileText, "this."+name+".handle")
		dependencies = append(dependencies, ServiceDependency{
			Service:              name,
			Kind:                 DependencyErrorHandler,
			CallDetected:         callDetected,
			IntegrationCandidate: !callDetected,
		})
	}
	if len(dependencies) == 0 {
		return nil
	}
	return dependencies
}

func isDeadCodeLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "*") {
		return true
	}
	return containsAnyFold(line, deadCodeMarkers)
}

func containsAnyFold(line string, markers []string) bool {
	lower := strings.ToLower(line)
	for _, marker := range markers {
		if strings.Contains(lower, strings.ToLower(marker)) {
			return true
		}
	}
	return false
}

func appendUnique(values []string, value string) []string {
	for _, existing := range values {
		if existing == value {
			return values
		}
	}
	return append(values, value)
}

func wordMatcher(name string) *regexp.Regexp {
	return regexp.MustCompile(`(^|[^A-Za-z0-9_$])` + regexp.QuoteMeta(name) + `($|[^A-Za-z0-9_$])`)
}
