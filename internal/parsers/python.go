package parsers

import (
	"context"
	"fmt"
	"os"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"

	"diagraph/internal/graph"
)

// PythonParser extracts classes, top-level functions, and the references
// between them from Python source. Methods are not separate entities: a
// reference found inside a method is attributed to its class.
type PythonParser struct {
	rootDir  string
	language *sitter.Language
}

// NewPythonParser creates a Python parser. Module paths are computed
// relative to rootDir.
func NewPythonParser(rootDir string) *PythonParser {
	return &PythonParser{
		rootDir:  rootDir,
		language: sitter.NewLanguage(python.Language()),
	}
}

// Extensions returns the extensions handled by this parser.
func (p *PythonParser) Extensions() []string {
	return []string{".py"}
}

// ParseFile parses a Python source file.
func (p *PythonParser) ParseFile(ctx context.Context, path string) (*graph.FileParse, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(p.language)

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse python file: %s", path)
	}
	defer tree.Close()

	fp := &graph.FileParse{
		Path:    relPath(p.rootDir, path),
		Module:  modulePath(p.rootDir, path),
		Imports: make(map[string]string),
	}

	root := tree.RootNode()
	p.extractImports(root, source, fp)
	p.extractDeclarations(root, source, fp)
	p.extractReferences(root, source, fp)

	return fp, nil
}

// extractImports fills the file's import table.
//
//	import a.b          -> "a.b" => "a.b" (and "a" => "a")
//	import a.b as c     -> "c"   => "a.b"
//	from x.y import Z   -> "Z"   => "x.y.Z"
//	from .m import f    -> "f"   => "<package>.m.f"
func (p *PythonParser) extractImports(root *sitter.Node, source []byte, fp *graph.FileParse) {
	walkTree(root, func(n *sitter.Node) bool {
		switch n.Kind() {
		case "import_statement":
			for i := 0; i < int(n.NamedChildCount()); i++ {
				child := n.NamedChild(uint(i))
				switch child.Kind() {
				case "dotted_name":
					target := nodeText(child, source)
					fp.Imports[target] = target
					if head, _, found := strings.Cut(target, "."); found {
						fp.Imports[head] = head
					}
				case "aliased_import":
					target := fieldText(child, "name", source)
					alias := fieldText(child, "alias", source)
					if alias != "" {
						fp.Imports[alias] = target
					}
				}
			}
			return false
		case "import_from_statement":
			moduleNode := n.ChildByFieldName("module_name")
			module := p.resolveImportModule(nodeText(moduleNode, source), fp.Module)
			for i := 0; i < int(n.NamedChildCount()); i++ {
				child := n.NamedChild(uint(i))
				if moduleNode != nil && child.StartByte() == moduleNode.StartByte() {
					continue
				}
				switch child.Kind() {
				case "dotted_name":
					name := nodeText(child, source)
					fp.Imports[name] = joinModule(module, name)
				case "aliased_import":
					name := fieldText(child, "name", source)
					alias := fieldText(child, "alias", source)
					if alias != "" {
						fp.Imports[alias] = joinModule(module, name)
					}
				}
			}
			return false
		}
		return true
	})
}

// resolveImportModule resolves relative imports ("." prefixes) against the
// importing file's module path.
func (p *PythonParser) resolveImportModule(module, fileModule string) string {
	if !strings.HasPrefix(module, ".") {
		return module
	}
	base := fileModule
	for strings.HasPrefix(module, ".") {
		module = module[1:]
		if i := strings.LastIndex(base, "."); i >= 0 {
			base = base[:i]
		} else {
			base = ""
		}
	}
	if module == "" {
		return base
	}
	return joinModule(base, module)
}

// extractDeclarations registers classes and top-level functions, plus the
// inherit/annotation references anchored at declarations.
func (p *PythonParser) extractDeclarations(root *sitter.Node, source []byte, fp *graph.FileParse) {
	walkTree(root, func(n *sitter.Node) bool {
		switch n.Kind() {
		case "class_definition":
			p.extractClass(n, source, fp)
		case "function_definition":
			if isTopLevel(n) {
				name := fieldText(n, "name", source)
				if name == "" {
					return true
				}
				fp.Declarations = append(fp.Declarations, graph.Declaration{
					QualifiedName: joinModule(fp.Module, name),
					Name:          name,
					Kind:          graph.KindFunction,
					Module:        fp.Module,
					File:          fp.Path,
					Line:          nodeLine(n),
				})
			}
		}
		return true
	})
}

func (p *PythonParser) extractClass(n *sitter.Node, source []byte, fp *graph.FileParse) {
	name := fieldText(n, "name", source)
	if name == "" {
		return
	}
	qualified := joinModule(fp.Module, name)

	fp.Declarations = append(fp.Declarations, graph.Declaration{
		QualifiedName: qualified,
		Name:          name,
		Kind:          graph.KindClass,
		Module:        fp.Module,
		File:          fp.Path,
		Line:          nodeLine(n),
	})

	// Base classes are inherit references.
	if bases := n.ChildByFieldName("superclasses"); bases != nil {
		for i := 0; i < int(bases.NamedChildCount()); i++ {
			base := bases.NamedChild(uint(i))
			switch base.Kind() {
			case "identifier", "attribute":
				fp.References = append(fp.References, graph.RawReference{
					From: qualified,
					To:   nodeText(base, source),
					Kind: graph.RefInherit,
					File: fp.Path,
					Line: nodeLine(base),
				})
			}
		}
	}

	// Annotated __init__ parameters are type references from the class.
	if body := n.ChildByFieldName("body"); body != nil {
		walkTree(body, func(fn *sitter.Node) bool {
			if fn.Kind() != "function_definition" || fieldText(fn, "name", source) != "__init__" {
				return true
			}
			if cls := nearestAncestor(fn, "class_definition"); cls == nil || cls.StartByte() != n.StartByte() {
				return true
			}
			if params := fn.ChildByFieldName("parameters"); params != nil {
				for i := 0; i < int(params.NamedChildCount()); i++ {
					param := params.NamedChild(uint(i))
					if param.Kind() != "typed_parameter" && param.Kind() != "typed_default_parameter" {
						continue
					}
					typeNode := param.ChildByFieldName("type")
					if typeNode == nil {
						continue
					}
					if t := nodeText(typeNode, source); isSimpleName(t) {
						fp.References = append(fp.References, graph.RawReference{
							From: qualified,
							To:   t,
							Kind: graph.RefReference,
							File: fp.Path,
							Line: nodeLine(param),
						})
					}
				}
			}
			return false
		})
	}
}

// extractReferences collects call sites and decorators, attributed to the
// nearest enclosing entity.
func (p *PythonParser) extractReferences(root *sitter.Node, source []byte, fp *graph.FileParse) {
	walkTree(root, func(n *sitter.Node) bool {
		switch n.Kind() {
		case "call":
			fn := n.ChildByFieldName("function")
			target := callTarget(fn, source)
			if target == "" {
				return true
			}
			from, ok := p.enclosingEntity(n, source, fp.Module)
			if !ok {
				return true
			}
			fp.References = append(fp.References, graph.RawReference{
				From: from,
				To:   target,
				Kind: graph.RefCall,
				File: fp.Path,
				Line: nodeLine(n),
			})
		case "decorator":
			target := decoratorTarget(n, source)
			if target == "" {
				return true
			}
			from, ok := p.decoratedEntity(n, source, fp.Module)
			if !ok {
				return true
			}
			fp.References = append(fp.References, graph.RawReference{
				From: from,
				To:   target,
				Kind: graph.RefReference,
				File: fp.Path,
				Line: nodeLine(n),
			})
		}
		return true
	})
}

// callTarget extracts the raw name of a call's function expression.
// Attribute chains rooted at self/cls are instance plumbing, not
// resolvable entity names, and are skipped.
func callTarget(fn *sitter.Node, source []byte) string {
	if fn == nil {
		return ""
	}
	switch fn.Kind() {
	case "identifier":
		return nodeText(fn, source)
	case "attribute":
		text := nodeText(fn, source)
		if strings.HasPrefix(text, "self.") || strings.HasPrefix(text, "cls.") {
			return ""
		}
		return text
	}
	return ""
}

// decoratorTarget extracts the decorator's name, unwrapping parameterized
// decorators like @cache(size=10).
func decoratorTarget(n *sitter.Node, source []byte) string {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(uint(i))
		switch child.Kind() {
		case "identifier", "attribute":
			return nodeText(child, source)
		case "call":
			return callTarget(child.ChildByFieldName("function"), source)
		}
	}
	return ""
}

// enclosingEntity finds the qualified name of the entity a node belongs to:
// the nearest enclosing class, or the nearest top-level function. A method
// attributes to its class; a function nested inside another keeps climbing
// to whatever outer entity exists.
func (p *PythonParser) enclosingEntity(node *sitter.Node, source []byte, module string) (string, bool) {
	for cur := node.Parent(); cur != nil; cur = cur.Parent() {
		switch cur.Kind() {
		case "class_definition":
			if name := fieldText(cur, "name", source); name != "" {
				return joinModule(module, name), true
			}
		case "function_definition":
			if cls := nearestAncestor(cur, "class_definition"); cls != nil {
				if name := fieldText(cls, "name", source); name != "" {
					return joinModule(module, name), true
				}
			}
			if isTopLevel(cur) {
				if name := fieldText(cur, "name", source); name != "" {
					return joinModule(module, name), true
				}
			}
		}
	}
	return "", false
}

// decoratedEntity resolves the entity a decorator applies to.
func (p *PythonParser) decoratedEntity(n *sitter.Node, source []byte, module string) (string, bool) {
	decorated := nearestAncestor(n, "decorated_definition")
	if decorated == nil {
		return "", false
	}
	def := decorated.ChildByFieldName("definition")
	if def == nil {
		return "", false
	}
	switch def.Kind() {
	case "class_definition":
		if name := fieldText(def, "name", source); name != "" {
			return joinModule(module, name), true
		}
	case "function_definition":
		if cls := nearestAncestor(def, "class_definition"); cls != nil {
			if name := fieldText(cls, "name", source); name != "" {
				return joinModule(module, name), true
			}
		}
		if name := fieldText(def, "name", source); name != "" {
			return joinModule(module, name), true
		}
	}
	return "", false
}

// isTopLevel reports whether a definition sits at module level, outside
// any class or function body.
func isTopLevel(node *sitter.Node) bool {
	for cur := node.Parent(); cur != nil; cur = cur.Parent() {
		switch cur.Kind() {
		case "class_definition", "function_definition":
			return false
		case "module":
			return true
		}
	}
	return true
}

// isSimpleName reports whether s is a plain (possibly dotted) identifier,
// rejecting subscripted annotations like Optional[str].
func isSimpleName(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r == '[' || r == ']' || r == '(' || r == ' ' || r == ',' {
			return false
		}
	}
	return true
}

func joinModule(module, name string) string {
	if module == "" {
		return name
	}
	return module + "." + name
}
