package main

import (
	"bytes"
	"flag"
	"fmt"
	"go/ast"
	"go/parser"
	"go/printer"
	"go/token"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

type structField struct {
	Name  string
	Type  string
	YAML  string
	Notes string
}

type categoryRow struct {
	Name   string
	String string
	Level  string
	Notes  string
}

type optionFunc struct {
	Signature string
	Doc       string
}

type sentinel struct {
	Name    string
	Message string
}

func main() {
	var categoriesOut string
	var policyOut string
	flag.StringVar(&categoriesOut, "categories-out", "docs/reference/failure-categories.md", "output markdown path for failure categories")
	flag.StringVar(&policyOut, "policy-out", "docs/reference/policy-schema.md", "output markdown path for the policy schema")
	flag.Parse()

	root, err := os.Getwd()
	if err != nil {
		fail(err)
	}

	if err := generateFailureCategories(root, categoriesOut); err != nil {
		fail(err)
	}
	if err := generatePolicySchema(root, policyOut); err != nil {
		fail(err)
	}
}

func generateFailureCategories(root, outPath string) error {
	path := filepath.Join(root, "failure", "failure.go")

	names, notes, err := collectCategoryConsts(path)
	if err != nil {
		return err
	}
	strs, defaultStr, err := collectCategoryStrings(path)
	if err != nil {
		return err
	}
	levels, defaultLevel, err := collectCategoryLevels(path)
	if err != nil {
		return err
	}
	sentinels, err := collectSentinels(path)
	if err != nil {
		return err
	}

	rows := make([]categoryRow, 0, len(names))
	for _, name := range names {
		str := strs[name]
		if str == "" {
			str = defaultStr
		}
		level := levels[name]
		if level == "" {
			level = defaultLevel
		}
		rows = append(rows, categoryRow{
			Name:   name,
			String: str,
			Level:  level,
			Notes:  notes[name],
		})
	}

	content := renderFailureCategoriesMarkdown(rows, sentinels)
	return os.WriteFile(outPath, content, 0o644)
}

func generatePolicySchema(root, outPath string) error {
	schemaPath := filepath.Join(root, "policy", "schema.go")

	structs, err := collectStructFields(schemaPath, []string{"Policy"})
	if err != nil {
		return err
	}

	ceilings, err := collectConstValues(schemaPath, []string{"MaxRetriesCeiling", "DelayCeiling"})
	if err != nil {
		return err
	}

	options, err := collectOptionFuncs(filepath.Join(root, "policy", "options.go"))
	if err != nil {
		return err
	}

	content := renderPolicySchemaMarkdown(structs["Policy"], ceilings, options)
	return os.WriteFile(outPath, content, 0o644)
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

// collectCategoryConsts returns the names of the Category const block in
// declaration order plus their line comments.
func collectCategoryConsts(path string) ([]string, map[string]string, error) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
	if err != nil {
		return nil, nil, err
	}

	var names []string
	notes := make(map[string]string)
	for _, decl := range f.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.CONST || !constBlockHasType(gen, "Category") {
			continue
		}
		for _, spec := range gen.Specs {
			vs, ok := spec.(*ast.ValueSpec)
			if !ok {
				continue
			}
			for _, name := range vs.Names {
				names = append(names, name.Name)
				notes[name.Name] = joinComments(vs.Doc, vs.Comment)
			}
		}
	}
	return names, notes, nil
}

func constBlockHasType(gen *ast.GenDecl, typeName string) bool {
	for _, spec := range gen.Specs {
		vs, ok := spec.(*ast.ValueSpec)
		if !ok {
			continue
		}
		if ident, ok := vs.Type.(*ast.Ident); ok && ident.Name == typeName {
			return true
		}
	}
	return false
}

// collectCategoryStrings maps Category const names to their String()
// values; the second return is the default clause's value.
func collectCategoryStrings(path string) (map[string]string, string, error) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, path, nil, 0)
	if err != nil {
		return nil, "", err
	}

	out := make(map[string]string)
	var def string
	fn := methodDeclByName(f, "Category", "String")
	if fn == nil || fn.Body == nil {
		return out, def, nil
	}
	ast.Inspect(fn.Body, func(n ast.Node) bool {
		cc, ok := n.(*ast.CaseClause)
		if !ok {
			return true
		}
		val := returnedString(cc.Body)
		if val == "" {
			return true
		}
		if len(cc.List) == 0 {
			def = val
			return true
		}
		for _, expr := range cc.List {
			if ident, ok := expr.(*ast.Ident); ok {
				out[ident.Name] = val
			}
		}
		return true
	})
	return out, def, nil
}

// collectCategoryLevels maps Category const names to the level LevelFor
// returns for them; the second return is the default clause's level.
func collectCategoryLevels(path string) (map[string]string, string, error) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, path, nil, 0)
	if err != nil {
		return nil, "", err
	}

	out := make(map[string]string)
	var def string
	fn := funcDeclByName(f, "LevelFor")
	if fn == nil || fn.Body == nil {
		return out, def, nil
	}
	ast.Inspect(fn.Body, func(n ast.Node) bool {
		cc, ok := n.(*ast.CaseClause)
		if !ok {
			return true
		}
		val := returnedExpr(cc.Body)
		if val == "" {
			return true
		}
		if len(cc.List) == 0 {
			def = val
			return true
		}
		for _, expr := range cc.List {
			if ident, ok := expr.(*ast.Ident); ok {
				out[ident.Name] = val
			}
		}
		return true
	})
	return out, def, nil
}

func collectSentinels(path string) ([]sentinel, error) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, path, nil, 0)
	if err != nil {
		return nil, err
	}

	var out []sentinel
	for _, decl := range f.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.VAR {
			continue
		}
		for _, spec := range gen.Specs {
			vs, ok := spec.(*ast.ValueSpec)
			if !ok {
				continue
			}
			for i, name := range vs.Names {
				if !strings.HasPrefix(name.Name, "Err") || len(vs.Values) <= i {
					continue
				}
				call, ok := vs.Values[i].(*ast.CallExpr)
				if !ok || !isSelectorCall(call, "errors", "New") || len(call.Args) == 0 {
					continue
				}
				if msg, ok := stringLiteral(call.Args[0]); ok {
					out = append(out, sentinel{Name: name.Name, Message: msg})
				}
			}
		}
	}
	return out, nil
}

func collectStructFields(path string, names []string) (map[string][]structField, error) {
	want := make(map[string]struct{})
	for _, name := range names {
		want[name] = struct{}{}
	}

	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
	if err != nil {
		return nil, err
	}

	out := make(map[string][]structField)
	for _, decl := range f.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}
		for _, spec := range gen.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			if _, ok := want[ts.Name.Name]; !ok {
				continue
			}
			st, ok := ts.Type.(*ast.StructType)
			if !ok {
				continue
			}
			fields := make([]structField, 0, len(st.Fields.List))
			for _, field := range st.Fields.List {
				typeStr := exprString(field.Type)
				notes := joinComments(field.Doc, field.Comment)
				yamlTag := ""
				if field.Tag != nil {
					if tag, err := strconv.Unquote(field.Tag.Value); err == nil {
						yamlTag = strings.Split(reflect.StructTag(tag).Get("yaml"), ",")[0]
					}
				}
				if len(field.Names) == 0 {
					fields = append(fields, structField{Name: typeStr, YAML: yamlTag, Notes: notes})
					continue
				}
				for _, name := range field.Names {
					fields = append(fields, structField{Name: name.Name, Type: typeStr, YAML: yamlTag, Notes: notes})
				}
			}
			out[ts.Name.Name] = fields
		}
	}
	return out, nil
}

func collectConstValues(path string, names []string) (map[string]string, error) {
	want := make(map[string]struct{})
	for _, name := range names {
		want[name] = struct{}{}
	}

	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, path, nil, 0)
	if err != nil {
		return nil, err
	}

	out := make(map[string]string)
	for _, decl := range f.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.CONST {
			continue
		}
		for _, spec := range gen.Specs {
			vs, ok := spec.(*ast.ValueSpec)
			if !ok {
				continue
			}
			for i, name := range vs.Names {
				if _, ok := want[name.Name]; !ok {
					continue
				}
				if len(vs.Values) == 0 {
					continue
				}
				idx := i
				if idx >= len(vs.Values) {
					idx = len(vs.Values) - 1
				}
				out[name.Name] = exprString(vs.Values[idx])
			}
		}
	}
	return out, nil
}

// collectOptionFuncs returns the exported constructors returning Option,
// in declaration order.
func collectOptionFuncs(path string) ([]optionFunc, error) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
	if err != nil {
		return nil, err
	}

	var out []optionFunc
	for _, decl := range f.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Name == nil || fn.Recv != nil || !fn.Name.IsExported() {
			continue
		}
		if !returnsType(fn, "Option") {
			continue
		}
		out = append(out, optionFunc{
			Signature: fn.Name.Name + "(" + paramString(fn.Type.Params) + ")",
			Doc:       joinComments(fn.Doc),
		})
	}
	return out, nil
}

func returnsType(fn *ast.FuncDecl, name string) bool {
	if fn.Type.Results == nil || len(fn.Type.Results.List) != 1 {
		return false
	}
	return isIdent(fn.Type.Results.List[0].Type, name)
}

func paramString(fields *ast.FieldList) string {
	if fields == nil {
		return ""
	}
	parts := make([]string, 0, len(fields.List))
	for _, field := range fields.List {
		typeStr := exprString(field.Type)
		if len(field.Names) == 0 {
			parts = append(parts, typeStr)
			continue
		}
		names := make([]string, 0, len(field.Names))
		for _, n := range field.Names {
			names = append(names, n.Name)
		}
		parts = append(parts, strings.Join(names, ", ")+" "+typeStr)
	}
	return strings.Join(parts, ", ")
}

func returnedString(stmts []ast.Stmt) string {
	for _, stmt := range stmts {
		ret, ok := stmt.(*ast.ReturnStmt)
		if !ok || len(ret.Results) == 0 {
			continue
		}
		if val, ok := stringLiteral(ret.Results[0]); ok {
			return val
		}
	}
	return ""
}

func returnedExpr(stmts []ast.Stmt) string {
	for _, stmt := range stmts {
		ret, ok := stmt.(*ast.ReturnStmt)
		if !ok || len(ret.Results) == 0 {
			continue
		}
		return exprString(ret.Results[0])
	}
	return ""
}

func stringLiteral(expr ast.Expr) (string, bool) {
	lit, ok := expr.(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return "", false
	}
	val, err := strconv.Unquote(lit.Value)
	if err != nil {
		return "", false
	}
	return val, true
}

func funcDeclByName(f *ast.File, name string) *ast.FuncDecl {
	for _, decl := range f.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Name == nil || fn.Name.Name != name || fn.Recv != nil {
			continue
		}
		return fn
	}
	return nil
}

func methodDeclByName(f *ast.File, recv, name string) *ast.FuncDecl {
	for _, decl := range f.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Name == nil || fn.Name.Name != name || fn.Recv == nil {
			continue
		}
		for _, field := range fn.Recv.List {
			if isIdent(field.Type, recv) {
				return fn
			}
		}
	}
	return nil
}

func isIdent(expr ast.Expr, name string) bool {
	ident, ok := expr.(*ast.Ident)
	return ok && ident.Name == name
}

func isSelectorCall(call *ast.CallExpr, pkg, name string) bool {
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok || sel.Sel == nil || sel.Sel.Name != name {
		return false
	}
	return isIdent(sel.X, pkg)
}

func exprString(expr ast.Expr) string {
	var buf bytes.Buffer
	_ = printer.Fprint(&buf, token.NewFileSet(), expr)
	return buf.String()
}

func joinComments(groups ...*ast.CommentGroup) string {
	var parts []string
	for _, g := range groups {
		if g == nil {
			continue
		}
		text := strings.TrimSpace(g.Text())
		if text != "" {
			parts = append(parts, strings.ReplaceAll(text, "\n", " "))
		}
	}
	return strings.Join(parts, " ")
}

func renderFailureCategoriesMarkdown(rows []categoryRow, sentinels []sentinel) []byte {
	var buf bytes.Buffer

	buf.WriteString("<!-- Generated by scripts/gen_reference.go; do not edit by hand. -->\n")
	buf.WriteString("# Failure categories\n\n")
	buf.WriteString("Generated from: `failure/failure.go`.\n\n")
	buf.WriteString("Categories are advisory: they pick the default log level for severity-aware logging and never change retry or recovery behavior.\n\n")

	buf.WriteString("| Category | String | Default level | Notes |\n")
	buf.WriteString("|---|---|---|---|\n")
	for _, row := range rows {
		note := row.Notes
		if note == "" {
			note = "-"
		}
		buf.WriteString("| `" + row.Name + "` | `" + row.String + "` | `" + row.Level + "` | " + escapePipes(note) + " |\n")
	}
	buf.WriteString("\n")

	if len(sentinels) > 0 {
		buf.WriteString("## Sentinel causes\n\n")
		buf.WriteString("Wrap these with `%w` to mark caller-misuse failures.\n\n")
		for _, s := range sentinels {
			buf.WriteString("- `" + s.Name + "`: " + s.Message + "\n")
		}
		buf.WriteString("\n")
	}

	return buf.Bytes()
}

func renderPolicySchemaMarkdown(fields []structField, ceilings map[string]string, options []optionFunc) []byte {
	var buf bytes.Buffer

	buf.WriteString("<!-- Generated by scripts/gen_reference.go; do not edit by hand. -->\n")
	buf.WriteString("# Policy schema reference\n\n")
	buf.WriteString("Generated from: `policy/schema.go`, `policy/options.go`.\n\n")

	if len(fields) > 0 {
		buf.WriteString("## policy.Policy\n\n")
		buf.WriteString("| Field | Type | YAML | Notes |\n")
		buf.WriteString("|---|---|---|---|\n")
		for _, field := range fields {
			note := field.Notes
			if note == "" {
				note = "-"
			}
			tag := field.YAML
			if tag == "" {
				tag = "-"
			}
			buf.WriteString("| `" + field.Name + "` | `" + field.Type + "` | `" + tag + "` | " + escapePipes(note) + " |\n")
		}
		buf.WriteString("\n")
	}

	if len(ceilings) > 0 {
		buf.WriteString("## Normalization ceilings\n\n")
		buf.WriteString("Values are defined in `policy/schema.go` and applied by `Policy.Normalize`; `Policy.Validate` rejects instead of clamping.\n\n")
		buf.WriteString("| Constant | Value |\n")
		buf.WriteString("|---|---|\n")
		for _, name := range sortedKeys(ceilings) {
			buf.WriteString("| `" + name + "` | `" + ceilings[name] + "` |\n")
		}
		buf.WriteString("\n")
	}

	if len(options) > 0 {
		buf.WriteString("## Options\n\n")
		buf.WriteString("Options are applied by `policy.New`.\n\n")
		buf.WriteString("| Option | Notes |\n")
		buf.WriteString("|---|---|\n")
		for _, opt := range options {
			doc := opt.Doc
			if doc == "" {
				doc = "-"
			}
			buf.WriteString("| `" + opt.Signature + "` | " + escapePipes(doc) + " |\n")
		}
		buf.WriteString("\n")
	}

	return buf.Bytes()
}

func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
