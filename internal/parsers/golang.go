package parsers

import (
	"context"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strings"

	"diagraph/internal/graph"
)

// GoParser extracts type and function declarations from Go source using
// go/ast. Struct and interface types map to the class kind; methods
// attribute their references to the receiver type, mirroring how Python
// methods attribute to their class.
type GoParser struct {
	rootDir string
}

// NewGoParser creates a Go parser. Module paths are computed relative to
// rootDir.
func NewGoParser(rootDir string) *GoParser {
	return &GoParser{rootDir: rootDir}
}

// Extensions returns the extensions handled by this parser.
func (p *GoParser) Extensions() []string {
	return []string{".go"}
}

// ParseFile parses a Go source file.
func (p *GoParser) ParseFile(_ context.Context, path string) (*graph.FileParse, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Go file: %w", err)
	}

	fp := &graph.FileParse{
		Path:    relPath(p.rootDir, path),
		Module:  modulePath(p.rootDir, path),
		Imports: make(map[string]string),
	}

	for _, imp := range file.Imports {
		importPath := strings.Trim(imp.Path.Value, `"`)
		local := importPath[strings.LastIndex(importPath, "/")+1:]
		if imp.Name != nil {
			local = imp.Name.Name
		}
		if local == "_" || local == "." {
			continue
		}
		fp.Imports[local] = strings.ReplaceAll(importPath, "/", ".")
	}

	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.GenDecl:
			if d.Tok == token.TYPE {
				for _, spec := range d.Specs {
					if typeSpec, ok := spec.(*ast.TypeSpec); ok {
						p.extractType(typeSpec, fset, fp)
					}
				}
			}
		case *ast.FuncDecl:
			p.extractFunc(d, fset, fp)
		}
	}

	return fp, nil
}

// extractType records struct and interface declarations and their embedded
// types as inherit references.
func (p *GoParser) extractType(spec *ast.TypeSpec, fset *token.FileSet, fp *graph.FileParse) {
	name := spec.Name.Name
	qualified := joinModule(fp.Module, name)

	var fields *ast.FieldList
	switch t := spec.Type.(type) {
	case *ast.StructType:
		fields = t.Fields
	case *ast.InterfaceType:
		fields = t.Methods
	default:
		return
	}

	fp.Declarations = append(fp.Declarations, graph.Declaration{
		QualifiedName: qualified,
		Name:          name,
		Kind:          graph.KindClass,
		Module:        fp.Module,
		File:          fp.Path,
		Line:          fset.Position(spec.Pos()).Line,
	})

	if fields == nil {
		return
	}
	for _, field := range fields.List {
		if len(field.Names) != 0 {
			continue // embedded types have no field name
		}
		if target := typeName(field.Type); target != "" {
			fp.References = append(fp.References, graph.RawReference{
				From: qualified,
				To:   target,
				Kind: graph.RefInherit,
				File: fp.Path,
				Line: fset.Position(field.Pos()).Line,
			})
		}
	}
}

// extractFunc records a top-level function (or attributes a method's body
// to its receiver type) and collects the call sites inside it.
func (p *GoParser) extractFunc(fn *ast.FuncDecl, fset *token.FileSet, fp *graph.FileParse) {
	var owner string
	if fn.Recv != nil {
		recv := receiverTypeName(fn.Recv)
		if recv == "" {
			return
		}
		owner = joinModule(fp.Module, recv)
	} else {
		owner = joinModule(fp.Module, fn.Name.Name)
		fp.Declarations = append(fp.Declarations, graph.Declaration{
			QualifiedName: owner,
			Name:          fn.Name.Name,
			Kind:          graph.KindFunction,
			Module:        fp.Module,
			File:          fp.Path,
			Line:          fset.Position(fn.Pos()).Line,
		})
	}

	if fn.Body == nil {
		return
	}
	ast.Inspect(fn.Body, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		var target string
		switch fun := call.Fun.(type) {
		case *ast.Ident:
			target = fun.Name
		case *ast.SelectorExpr:
			if x, ok := fun.X.(*ast.Ident); ok {
				target = x.Name + "." + fun.Sel.Name
			}
		}
		if target == "" {
			return true
		}
		fp.References = append(fp.References, graph.RawReference{
			From: owner,
			To:   target,
			Kind: graph.RefCall,
			File: fp.Path,
			Line: fset.Position(call.Pos()).Line,
		})
		return true
	})
}

// typeName extracts a plain or selector type name, unwrapping pointers and
// generic instantiations.
func typeName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.SelectorExpr:
		if x, ok := t.X.(*ast.Ident); ok {
			return x.Name + "." + t.Sel.Name
		}
	case *ast.StarExpr:
		return typeName(t.X)
	case *ast.IndexExpr:
		return typeName(t.X)
	case *ast.IndexListExpr:
		return typeName(t.X)
	}
	return ""
}

// receiverTypeName extracts the bare receiver type name from a method
// receiver list.
func receiverTypeName(recv *ast.FieldList) string {
	if recv == nil || len(recv.List) == 0 {
		return ""
	}
	return typeName(recv.List[0].Type)
}
