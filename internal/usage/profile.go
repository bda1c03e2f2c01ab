package usage

import "github.com/EchoingVesper/vespera-atelier-sub001/internal/classify"

type Role string

const (
	RoleDeclaration     Role = "declaration"
	RoleAssignment      Role = "assignment"
	RoleAccess          Role = "access"
	RoleConstructorInit Role = "constructor-init"
	RoleMethodCall      Role = "method-call"
	RolePropertyAccess  Role = "property-access"
)

// Location is one textual occurrence of a symbol's name in its file.
type Location struct {
	Line       int                 `json:"line"`
	Snippet    string              `json:"snippet"`
	Role       Role                `json:"role"`
	Confidence classify.Confidence `json:"confidence"`
}

type InitPattern string

const (
	InitParameterStorage   InitPattern = "parameter-storage"
	InitDirectUsage        InitPattern = "direct-usage"
	InitDerivedValue       InitPattern = "derived-value"
	InitConstantAssignment InitPattern = "constant-assignment"
)

type ConstructorProfile struct {
	AssignedInConstructor bool        `json:"assignedInConstructor"`
	ConstructorLine       int         `json:"constructorLine,omitempty"`
	ParameterSource       string      `json:"parameterSource,omitempty"`
	UsedForInit           bool        `json:"usedForInit"`
	InitPattern           InitPattern `json:"initPattern,omitempty"`
}

type RuntimeProfile struct {
	AccessCount           int      `json:"accessCount"`
	AccessingMethods      []string `json:"accessingMethods,omitempty"`
	Contexts              []string `json:"contexts,omitempty"`
	OnlyInDeadCode        bool     `json:"onlyInDeadCode"`
	PossibleFalsePositive bool     `json:"possibleFalsePositive"`
}

type Pattern string

const (
	PatternConstructorOnly       Pattern = "constructor-only"
	PatternStoredNeverAccessed   Pattern = "stored-never-accessed"
	PatternServiceIntegrationGap Pattern = "service-integration-gap"
	PatternErrorHandlerGap       Pattern = "error-handler-gap"
	PatternFalsePositive         Pattern = "false-positive"
	PatternIncompleteFeature     Pattern = "incomplete-feature"
	PatternArchitecturalPrep     Pattern = "architectural-prep"
)

// AccessCounts records occurrences of the fixed structural shapes the
// analyzer looks for when sketching how a symbol is reached.
type AccessCounts struct {
	PropertyAccess    int `json:"propertyAccess"`
	CallSyntax        int `json:"callSyntax"`
	ErrorHandlerCalls int `json:"errorHandlerCalls"`
}

type DependencyKind string

const (
	DependencyCoreServices DependencyKind = "core-services"
	DependencyErrorHandler DependencyKind = "error-handler"
)

// ServiceDependency is a presumed service connection inferred from the
// symbol's name, flagged as an integration candidate when no downstream
// call was found in the file.
type ServiceDependency struct {
	Service              string         `json:"service"`
	Kind                 DependencyKind `json:"kind"`
	CallDetected         bool           `json:"callDetected"`
	IntegrationCandidate bool           `json:"integrationCandidate"`
}

type Profile struct {
	Locations    []Location          `json:"locations,omitempty"`
	Constructor  ConstructorProfile  `json:"constructor"`
	Runtime      RuntimeProfile      `json:"runtime"`
	Pattern      Pattern             `json:"pattern"`
	Access       AccessCounts        `json:"access"`
	Dependencies []ServiceDependency `json:"dependencies,omitempty"`
}
