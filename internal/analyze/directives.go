package analyze

import (
	"go/ast"
	"go/types"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"typebind/internal/diagnostic"
	"typebind/internal/match"
	"typebind/meta"
)

// DefaultDirective is the comment prefix read by default, as in //typebind:sealed.
const DefaultDirective = "typebind"

const verbTag = "tag"

var (
	directiveVerbs = []string{meta.FlagSealed, verbTag}
	controlFlags   = []string{meta.FlagSealed, meta.FlagExtends}
)

// directives holds what the doc comment of one declaration asked for.
type directives struct {
	sealed bool
	tags   []meta.Tag
}

// parseDirectives reads //<prefix>:<verb> lines from a doc comment.
// Unknown verbs and malformed tags are reported and otherwise ignored.
func (a *Analyzer) parseDirectives(doc *ast.CommentGroup, typeName, member string) directives {
	var d directives
	if doc == nil {
		return d
	}

	marker := "//" + a.directive + ":"
	for _, c := range doc.List {
		text, ok := strings.CutPrefix(c.Text, marker)
		if !ok {
			continue
		}

		verb, args, _ := strings.Cut(strings.TrimSpace(text), " ")
		switch verb {
		case meta.FlagSealed:
			d.sealed = true

		case verbTag:
			tags, _, err := meta.ParseTags(reflect.StructTag(strings.TrimSpace(args)))
			if err != nil {
				a.diags.AddWarning(diagnostic.CodeMalformedTag, err.Error(), typeName, member)
				continue
			}
			d.tags = append(d.tags, tags...)

		default:
			a.diags.AddWarning(diagnostic.CodeUnknownDirective,
				unknownWord("directive", verb, directiveVerbs), typeName, member)
		}
	}

	return d
}

// checkControl reports words in a typebind struct tag that are neither
// sealed nor extends.
func (a *Analyzer) checkControl(control *meta.Tag, typeName, member string) {
	if control == nil {
		return
	}

	words := append([]string{control.Name()}, control.Options()...)
	for _, w := range words {
		if w != "" && !slices.Contains(controlFlags, w) {
			a.diags.AddWarning(diagnostic.CodeUnknownDirective,
				unknownWord("control flag", w, controlFlags), typeName, member)
		}
	}
}

// declaresSealed reports whether a type asks to be sealed, by directive or by
// a blank field control tag. Nothing is reported; describe does that.
func (a *Analyzer) declaresSealed(u *unit, tn *types.TypeName) bool {
	if doc := u.docs.types[tn.Name()]; doc != nil {
		marker := "//" + a.directive + ":"
		for _, c := range doc.List {
			text, ok := strings.CutPrefix(c.Text, marker)
			if !ok {
				continue
			}
			if verb, _, _ := strings.Cut(strings.TrimSpace(text), " "); verb == meta.FlagSealed {
				return true
			}
		}
	}

	st, ok := tn.Type().Underlying().(*types.Struct)
	if !ok {
		return false
	}

	for i := range st.NumFields() {
		if st.Field(i).Name() != "_" {
			continue
		}
		if _, control, err := meta.ParseTags(reflect.StructTag(st.Tag(i))); err == nil && hasFlag(control, meta.FlagSealed) {
			return true
		}
	}

	return false
}

func unknownWord(what, word string, known []string) string {
	msg := "unknown " + what + " " + strconv.Quote(word)
	if near := match.Closest(word, known, 1); len(near) > 0 {
		msg += ", did you mean " + strconv.Quote(near[0]) + "?"
	}

	return msg
}

// docIndex maps declared objects to their doc comments.
type docIndex struct {
	types   map[string]*ast.CommentGroup // type name -> doc
	methods map[string]*ast.CommentGroup // "Recv.Method" -> doc
}

func indexDocs(files []*ast.File) docIndex {
	idx := docIndex{
		types:   make(map[string]*ast.CommentGroup),
		methods: make(map[string]*ast.CommentGroup),
	}

	for _, file := range files {
		for _, decl := range file.Decls {
			switch d := decl.(type) {
			case *ast.GenDecl:
				for _, spec := range d.Specs {
					ts, ok := spec.(*ast.TypeSpec)
					if !ok {
						continue
					}

					doc := ts.Doc
					if doc == nil && len(d.Specs) == 1 {
						doc = d.Doc
					}
					idx.types[ts.Name.Name] = doc
				}

			case *ast.FuncDecl:
				if d.Recv == nil || len(d.Recv.List) == 0 {
					continue
				}

				if recv := receiverName(d.Recv.List[0].Type); recv != "" {
					idx.methods[recv+"."+d.Name.Name] = d.Doc
				}
			}
		}
	}

	return idx
}

func receiverName(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.StarExpr:
		return receiverName(e.X)
	case *ast.Ident:
		return e.Name
	case *ast.IndexExpr:
		return receiverName(e.X)
	case *ast.IndexListExpr:
		return receiverName(e.X)
	default:
		return ""
	}
}
