package analyze

import (
	"cmp"
	"fmt"
	"go/constant"
	"go/token"
	"go/types"
	"reflect"
	"slices"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/tools/go/packages"

	"typebind/internal/diagnostic"
	"typebind/meta"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets the logger for load progress.
func WithLogger(l *zap.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithDirective changes the directive comment prefix.
func WithDirective(prefix string) Option {
	return func(a *Analyzer) {
		if prefix != "" {
			a.directive = prefix
		}
	}
}

// WithDir sets the directory packages are resolved from.
func WithDir(dir string) Option {
	return func(a *Analyzer) { a.dir = dir }
}

// WithTests includes test files of the loaded packages.
func WithTests(tests bool) Option {
	return func(a *Analyzer) { a.tests = tests }
}

// WithBuildTags passes -tags to the build system.
func WithBuildTags(tags ...string) Option {
	return func(a *Analyzer) { a.buildTags = append(a.buildTags, tags...) }
}

// Analyzer loads Go packages and describes their named types.
type Analyzer struct {
	logger    *zap.Logger
	directive string
	dir       string
	tests     bool
	buildTags []string

	diags  diagnostic.Diagnostics
	ifaces []*types.TypeName // every loaded interface, in declaration order
	loaded map[meta.TypeID]bool
	sealed map[meta.TypeID]bool
}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{
		logger:    zap.NewNop(),
		directive: DefaultDirective,
		loaded:    make(map[meta.TypeID]bool),
		sealed:    make(map[meta.TypeID]bool),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Diagnostics returns what was reported during loading.
func (a *Analyzer) Diagnostics() diagnostic.Diagnostics {
	return a.diags
}

// LoadPackages loads the specified packages and describes their exported named types.
// Patterns are standard Go package patterns (e.g., "./...", "typebind/internal/fixture").
func (a *Analyzer) LoadPackages(patterns ...string) ([]meta.TypeDecl, error) {
	cfg := &packages.Config{
		Mode:  LoadMode,
		Dir:   a.dir,
		Tests: a.tests,
	}

	if len(a.buildTags) > 0 {
		cfg.BuildFlags = []string{"-tags=" + strings.Join(a.buildTags, ",")}
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}
	pkgs = withoutTestDuplicates(pkgs)

	// Check for package errors
	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %v", errs)
	}

	units := make([]*unit, 0, len(pkgs))
	for _, pkg := range pkgs {
		u := a.collect(pkg)
		units = append(units, u)
		a.logger.Debug("loaded package",
			zap.String("package", pkg.PkgPath),
			zap.Int("types", len(u.named)),
		)
	}

	var decls []meta.TypeDecl
	seen := make(map[meta.TypeID]bool)
	for _, u := range units {
		for _, tn := range u.named {
			id := typeID(tn)
			if seen[id] {
				continue
			}
			seen[id] = true

			if d, ok := a.describe(u, tn); ok {
				decls = append(decls, d)
			}
		}
	}

	return decls, nil
}

// withoutTestDuplicates drops what loading with tests adds twice. A package
// comes back both as itself and as a test variant ("p [p.test]") that also
// holds its _test.go files; the variant is kept. Generated test mains are dropped.
func withoutTestDuplicates(pkgs []*packages.Package) []*packages.Package {
	variant := make(map[string]bool)
	for _, pkg := range pkgs {
		if pkg.ID != pkg.PkgPath {
			variant[pkg.PkgPath] = true
		}
	}

	out := make([]*packages.Package, 0, len(pkgs))
	for _, pkg := range pkgs {
		switch {
		case strings.HasSuffix(pkg.PkgPath, ".test"):
			continue
		case pkg.ID == pkg.PkgPath && variant[pkg.PkgPath]:
			continue
		}
		out = append(out, pkg)
	}

	return out
}

// unit is one loaded package with its exported named types in declaration order.
type unit struct {
	pkg    *packages.Package
	docs   docIndex
	named  []*types.TypeName
	consts map[*types.TypeName][]*types.Const
}

func (a *Analyzer) collect(pkg *packages.Package) *unit {
	u := &unit{
		pkg:    pkg,
		docs:   indexDocs(pkg.Syntax),
		consts: make(map[*types.TypeName][]*types.Const),
	}

	scope := pkg.Types.Scope()
	for _, name := range scope.Names() {
		switch obj := scope.Lookup(name).(type) {
		case *types.TypeName:
			// Only process exported, non-alias types
			if !obj.Exported() || obj.IsAlias() {
				continue
			}
			u.named = append(u.named, obj)
			a.loaded[typeID(obj)] = true
			if a.declaresSealed(u, obj) {
				a.sealed[typeID(obj)] = true
			}

		case *types.Const:
			if named, ok := types.Unalias(obj.Type()).(*types.Named); ok && named.Obj().Pkg() == pkg.Types {
				u.consts[named.Obj()] = append(u.consts[named.Obj()], obj)
			}
		}
	}

	// scope.Names is sorted by name; declaration order is what callers see.
	slices.SortFunc(u.named, func(x, y *types.TypeName) int { return u.comparePos(x.Pos(), y.Pos()) })
	for tn := range u.consts {
		slices.SortFunc(u.consts[tn], func(x, y *types.Const) int { return u.comparePos(x.Pos(), y.Pos()) })
	}

	for _, tn := range u.named {
		if types.IsInterface(tn.Type()) {
			a.ifaces = append(a.ifaces, tn)
		}
	}

	return u
}

// comparePos orders positions by file name, then offset. Files are parsed
// concurrently, so raw token.Pos values do not follow file order.
func (u *unit) comparePos(x, y token.Pos) int {
	px, py := u.pkg.Fset.Position(x), u.pkg.Fset.Position(y)
	if c := cmp.Compare(px.Filename, py.Filename); c != 0 {
		return c
	}

	return cmp.Compare(px.Offset, py.Offset)
}

// describe turns one named type into a TypeDecl.
func (a *Analyzer) describe(u *unit, tn *types.TypeName) (meta.TypeDecl, bool) {
	named, ok := tn.Type().(*types.Named)
	if !ok {
		return meta.TypeDecl{}, false
	}

	id := typeID(tn)
	if named.TypeParams().Len() > 0 {
		a.diags.AddWarning(diagnostic.CodeGenericType, "generic types are not described", id.Short(), "")
		return meta.TypeDecl{}, false
	}

	dirs := a.parseDirectives(u.docs.types[tn.Name()], id.Short(), "")
	decl := meta.TypeDecl{
		ID:     id,
		Sealed: dirs.sealed,
		Tags:   dirs.tags,
	}

	switch ut := named.Underlying().(type) {
	case *types.Interface:
		decl.Kind = meta.KindInterface
		decl.Implements = a.directInterfaces(named, nil)

	case *types.Struct:
		decl.Kind = meta.KindStruct
		a.describeStruct(u, named, ut, &decl)

	case *types.Basic:
		decl.Kind = meta.KindBasic
		if consts := u.consts[tn]; len(consts) > 0 {
			decl.Kind = meta.KindEnum
			decl.Values = a.enumValues(id, consts)
		}
		decl.Implements = a.directInterfaces(named, nil)

	default:
		decl.Kind = meta.KindBasic
		decl.Implements = a.directInterfaces(named, nil)
	}

	a.logger.Debug("described type",
		zap.Stringer("type", id),
		zap.Stringer("kind", decl.Kind),
		zap.Int("members", len(decl.Members)),
	)

	return decl, true
}

func (a *Analyzer) describeStruct(u *unit, named *types.Named, st *types.Struct, decl *meta.TypeDecl) {
	id := decl.ID
	superIndex := -1
	firstEmbedded := -1

	var fields []meta.MemberDecl
	for i := range st.NumFields() {
		field := st.Field(i)

		tags, control, err := meta.ParseTags(reflect.StructTag(st.Tag(i)))
		if err != nil {
			a.diags.AddWarning(diagnostic.CodeMalformedTag, err.Error(), id.Short(), field.Name())
		}
		a.checkControl(control, id.Short(), field.Name())

		if field.Name() == "_" {
			decl.Tags = append(decl.Tags, tags...)
			if hasFlag(control, meta.FlagSealed) {
				decl.Sealed = true
			}
			continue
		}

		if field.Embedded() {
			if _, ok := embeddedStruct(field.Type()); ok {
				switch {
				case hasFlag(control, meta.FlagExtends) && superIndex >= 0:
					a.diags.AddWarning(diagnostic.CodeMultipleExtends,
						"more than one embedded field tagged extends; keeping the first", id.Short(), field.Name())
				case hasFlag(control, meta.FlagExtends):
					superIndex = i
				case firstEmbedded < 0:
					firstEmbedded = i
				}
			}
		}

		// Only process exported fields
		if !field.Exported() {
			continue
		}

		fields = append(fields, meta.MemberDecl{
			Name:     field.Name(),
			Kind:     meta.MemberField,
			Index:    i,
			TypeName: types.TypeString(field.Type(), types.RelativeTo(u.pkg.Types)),
			Tags:     tags,
		})
	}

	if superIndex < 0 {
		superIndex = firstEmbedded
	}

	var super *types.Named
	if superIndex >= 0 {
		super, _ = embeddedStruct(st.Field(superIndex).Type())
		switch superID := typeID(super.Obj()); {
		case !a.loaded[superID]:
			a.diags.AddInfo(diagnostic.CodeUnloadedSuper,
				"supertype "+super.Obj().Name()+" is not loaded; treated as a root type", id.Short(), "")
			super = nil
		case a.sealed[superID]:
			a.diags.AddWarning(diagnostic.CodeSealedSuper,
				"supertype "+super.Obj().Name()+" is sealed; treated as a root type", id.Short(), st.Field(superIndex).Name())
			super = nil
		default:
			decl.Extends = superID
			fields = slices.DeleteFunc(fields, func(m meta.MemberDecl) bool { return m.Index == superIndex })
		}
	}

	decl.Members = append(fields, a.accessors(u, named, id)...)
	decl.Implements = a.directInterfaces(named, super)
}

// accessors pairs X() T getters with SetX(T) setters declared on the type itself.
// A lone getter or setter only counts when a tag directive is attached to it.
func (a *Analyzer) accessors(u *unit, named *types.Named, id meta.TypeID) []meta.MemberDecl {
	type side struct {
		fn  *types.Func
		typ types.Type
	}

	getters := make(map[string]side)
	setters := make(map[string]side)
	for i := range named.NumMethods() {
		fn := named.Method(i)
		if !fn.Exported() {
			continue
		}

		sig := fn.Type().(*types.Signature)
		switch {
		case sig.Params().Len() == 0 && sig.Results().Len() == 1:
			getters[fn.Name()] = side{fn, sig.Results().At(0).Type()}
		case sig.Params().Len() == 1 && sig.Results().Len() == 0 && len(fn.Name()) > 3 && strings.HasPrefix(fn.Name(), "Set"):
			setters[strings.TrimPrefix(fn.Name(), "Set")] = side{fn, sig.Params().At(0).Type()}
		}
	}

	type candidate struct {
		pos  token.Pos
		decl meta.MemberDecl
	}

	var out []candidate
	seen := make(map[string]bool)
	for _, names := range []map[string]side{getters, setters} {
		for name := range names {
			if seen[name] {
				continue
			}
			seen[name] = true

			g, hasGetter := getters[name]
			s, hasSetter := setters[name]
			if hasGetter && hasSetter && !types.Identical(g.typ, s.typ) {
				a.diags.AddWarning(diagnostic.CodeSetterMismatch,
					"setter type differs from getter type; setter ignored", id.Short(), name)
				hasSetter = false
			}

			var tags []meta.Tag
			pos := token.NoPos
			d := meta.MemberDecl{Name: name, Kind: meta.MemberAccessor, Index: -1}
			if hasGetter {
				tags = append(tags, a.parseDirectives(u.docs.methods[id.Name+"."+g.fn.Name()], id.Short(), name).tags...)
				d.Getter = g.fn.Name()
				d.TypeName = types.TypeString(g.typ, types.RelativeTo(u.pkg.Types))
				pos = g.fn.Pos()
			}
			if hasSetter {
				tags = append(tags, a.parseDirectives(u.docs.methods[id.Name+"."+s.fn.Name()], id.Short(), name).tags...)
				d.Setter = s.fn.Name()
				d.TypeName = types.TypeString(s.typ, types.RelativeTo(u.pkg.Types))
				if pos == token.NoPos || u.comparePos(s.fn.Pos(), pos) < 0 {
					pos = s.fn.Pos()
				}
			}

			if (!hasGetter || !hasSetter) && len(tags) == 0 {
				continue
			}

			d.Tags = tags
			out = append(out, candidate{pos: pos, decl: d})
		}
	}

	slices.SortFunc(out, func(x, y candidate) int { return u.comparePos(x.pos, y.pos) })

	decls := make([]meta.MemberDecl, 0, len(out))
	for _, c := range out {
		decls = append(decls, c.decl)
	}

	return decls
}

// directInterfaces lists the loaded interfaces satisfied by T or *T that super does not satisfy.
// For an interface T these are the loaded interfaces whose method sets T's includes.
func (a *Analyzer) directInterfaces(named *types.Named, super *types.Named) []meta.TypeID {
	var out []meta.TypeID
	for _, tn := range a.ifaces {
		if tn == named.Obj() {
			continue
		}

		iface := tn.Type().Underlying().(*types.Interface)
		if !satisfies(named, iface) {
			continue
		}

		if super != nil && satisfies(super, iface) {
			continue
		}

		out = append(out, typeID(tn))
	}

	return out
}

func (a *Analyzer) enumValues(id meta.TypeID, consts []*types.Const) []meta.EnumValue {
	out := make([]meta.EnumValue, 0, len(consts))
	for _, c := range consts {
		v, ok := constantValue(c.Val())
		if !ok {
			a.diags.AddWarning(diagnostic.CodeConstantValue,
				"constant "+c.Name()+" has no exact primitive value", id.Short(), c.Name())
			continue
		}
		out = append(out, meta.EnumValue{Name: c.Name(), Value: v})
	}

	return out
}

// constantValue decays a constant to int64, uint64, float64, bool or string.
func constantValue(v constant.Value) (any, bool) {
	switch v.Kind() {
	case constant.Int:
		if n, exact := constant.Int64Val(v); exact {
			return n, true
		}
		if n, exact := constant.Uint64Val(v); exact {
			return n, true
		}
		return nil, false
	case constant.Float:
		f, _ := constant.Float64Val(v)
		return f, true
	case constant.String:
		return constant.StringVal(v), true
	case constant.Bool:
		return constant.BoolVal(v), true
	default:
		return nil, false
	}
}

func satisfies(named *types.Named, iface *types.Interface) bool {
	return types.Implements(named, iface) || types.Implements(types.NewPointer(named), iface)
}

func embeddedStruct(t types.Type) (*types.Named, bool) {
	t = types.Unalias(t)
	if ptr, ok := t.(*types.Pointer); ok {
		t = types.Unalias(ptr.Elem())
	}

	named, ok := t.(*types.Named)
	if !ok {
		return nil, false
	}

	_, isStruct := named.Underlying().(*types.Struct)
	return named, isStruct
}

func hasFlag(control *meta.Tag, flag string) bool {
	if control == nil {
		return false
	}

	return control.Name() == flag || control.HasOption(flag)
}

func typeID(tn *types.TypeName) meta.TypeID {
	return meta.TypeID{PkgPath: tn.Pkg().Path(), Name: tn.Name()}
}
