package graph

// EntityKind represents the kind of a declared code entity.
type EntityKind string

const (
	KindClass    EntityKind = "class"
	KindFunction EntityKind = "function"
)

// RefKind classifies the syntactic site a reference was discovered at.
type RefKind string

const (
	RefCall      RefKind = "call"      // call site
	RefInherit   RefKind = "inherit"   // base class / embedded type
	RefReference RefKind = "reference" // annotation, decorator, or other mention
)

// Entity is a registered class or function declaration. The qualified name
// is the identity: two declarations with the same qualified name are the
// same entity.
type Entity struct {
	QualifiedName string     `json:"qualified_name"`
	Name          string     `json:"name"` // local (bare) name
	Kind          EntityKind `json:"kind"`
	File          string     `json:"file"`
	Line          int        `json:"line"`
	External      bool       `json:"external,omitempty"` // originates from an ignored source root
}

// Declaration is a single class or function declaration as produced by a
// parser adapter.
type Declaration struct {
	QualifiedName string
	Name          string
	Kind          EntityKind
	Module        string // dotted module path of the declaring file
	File          string
	Line          int
}

// RawReference is a directed "uses" occurrence before resolution.
type RawReference struct {
	From string  // qualified name of the referencing entity
	To   string  // raw target name as written at the site
	Kind RefKind // call, inherit, or reference
	File string
	Line int
}

// FileParse is the parser adapter output for one source file: declarations,
// raw references, and the file's import table (local name -> qualified
// target) used during resolution.
type FileParse struct {
	Path         string
	Module       string
	Declarations []Declaration
	References   []RawReference
	Imports      map[string]string
}

// Edge is a resolved reference between two registered entities. Multiple
// raw references between the same ordered pair collapse to one edge; Count
// carries the multiplicity and Kinds the sorted set of observed kinds.
type Edge struct {
	From  string    `json:"from"`
	To    string    `json:"to"`
	Count int       `json:"count"`
	Kinds []RefKind `json:"kinds"`
}

// addKind inserts kind into the sorted kind set if not already present.
func (e *Edge) addKind(kind RefKind) {
	for i, k := range e.Kinds {
		if k == kind {
			return
		}
		if k > kind {
			e.Kinds = append(e.Kinds[:i], append([]RefKind{kind}, e.Kinds[i:]...)...)
			return
		}
	}
	e.Kinds = append(e.Kinds, kind)
}

// HasKind reports whether kind was observed on this edge.
func (e *Edge) HasKind(kind RefKind) bool {
	for _, k := range e.Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// DiagnosticKind classifies a non-fatal issue found during a scan.
type DiagnosticKind string

const (
	DiagCollision    DiagnosticKind = "collision"     // name collision override
	DiagAmbiguous    DiagnosticKind = "ambiguous"     // bare name with multiple candidates
	DiagDangling     DiagnosticKind = "dangling"      // reference target not found
	DiagParseFailure DiagnosticKind = "parse_failure" // file skipped, could not be parsed
)

// Diagnostic is a non-fatal issue collected alongside a successful result.
// Diagnostics never abort a scan.
type Diagnostic struct {
	Kind    DiagnosticKind `json:"kind"`
	Message string         `json:"message"`
	File    string         `json:"file,omitempty"`
	Line    int            `json:"line,omitempty"`
}
