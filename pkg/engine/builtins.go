package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/kerf/pkg/scene"
	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms scene script source before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: look-at -> look_at
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpVec3 wraps a v3.Vec.
type sexpVec3 struct {
	vec v3.Vec
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpShape wraps a scene node so shapes can be nested, bound with def
// and passed to target.
type sexpShape struct {
	node *scene.Node
}

func (s *sexpShape) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(%s ...)", s.node.Kind)
}
func (s *sexpShape) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value, treated as a flag.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// number reads a numeric argument given either as keyword key or as
// positional argument pos. ok is false when neither is present.
func (a kwArgs) number(key string, pos int) (f float64, ok bool, err error) {
	v, found := a.kw[key]
	if !found {
		if pos < 0 || pos >= len(a.positional) {
			return 0, false, nil
		}
		v = a.positional[pos]
	}
	f, err = toFloat64(v)
	return f, true, err
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts a whole number from a Sexp.
func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_box) and plain strings ("box").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toVec3 extracts a v3.Vec from a sexpVec3.
func toVec3(s zygo.Sexp) (v3.Vec, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return v3.Vec{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toShape extracts a scene node from a sexpShape.
func toShape(s zygo.Sexp) (*scene.Node, error) {
	if sh, ok := s.(*sexpShape); ok {
		return sh.node, nil
	}
	return nil, fmt.Errorf("expected shape, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// toShapes collects shapes from args, flattening lists and arrays one
// level deep so (union (list a b) c) works.
func toShapes(args []zygo.Sexp) ([]*scene.Node, error) {
	var nodes []*scene.Node
	for i, arg := range args {
		if n, err := toShape(arg); err == nil {
			nodes = append(nodes, n)
			continue
		}
		items, err := sexpListToSlice(arg)
		if err != nil {
			return nil, fmt.Errorf("argument %d: expected shape or list of shapes, got %T (%s)",
				i+1, arg, arg.SexpString(nil))
		}
		for _, item := range items {
			n, err := toShape(item)
			if err != nil {
				return nil, fmt.Errorf("argument %d: %w", i+1, err)
			}
			nodes = append(nodes, n)
		}
	}
	return nodes, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs all scene builtins into a zygomys environment.
// The builtins operate on the provided Scene, populating it during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, s *scene.Scene) {

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}

		x, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: x: %w", err)
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: y: %w", err)
		}
		z, err := toFloat64(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: z: %w", err)
		}

		return &sexpVec3{vec: v3.Vec{X: x, Y: y, Z: z}}, nil
	})

	// -----------------------------------------------------------------------
	// (box 10 20 30) or (box :size (vec3 10 20 30))
	// -----------------------------------------------------------------------
	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)

		if v, ok := pa.kw["size"]; ok {
			size, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("box: size: %w", err)
			}
			return &sexpShape{node: scene.Box(size)}, nil
		}
		if len(pa.positional) == 1 {
			size, err := toVec3(pa.positional[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("box: size: %w", err)
			}
			return &sexpShape{node: scene.Box(size)}, nil
		}
		if len(pa.positional) != 3 {
			return zygo.SexpNull, fmt.Errorf("box requires :size (vec3 x y z) or 3 dimensions, got %d arguments", len(args))
		}

		var dims [3]float64
		for i, axis := range []string{"x", "y", "z"} {
			f, err := toFloat64(pa.positional[i])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("box: %s: %w", axis, err)
			}
			dims[i] = f
		}
		return &sexpShape{node: scene.Box(v3.Vec{X: dims[0], Y: dims[1], Z: dims[2]})}, nil
	})

	// -----------------------------------------------------------------------
	// (sphere :radius 5) or (sphere 5)
	// -----------------------------------------------------------------------
	env.AddFunction("sphere", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		r, ok, err := pa.number("radius", 0)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("sphere: radius: %w", err)
		}
		if !ok {
			return zygo.SexpNull, fmt.Errorf("sphere requires :radius")
		}
		return &sexpShape{node: scene.Sphere(r)}, nil
	})

	// -----------------------------------------------------------------------
	// (cylinder :height 10 :radius 2) or (cylinder 10 2)
	// -----------------------------------------------------------------------
	env.AddFunction("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		h, ok, err := pa.number("height", 0)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: height: %w", err)
		}
		if !ok {
			return zygo.SexpNull, fmt.Errorf("cylinder requires :height")
		}
		pos := 1
		if _, kw := pa.kw["height"]; kw {
			pos = 0
		}
		r, ok, err := pa.number("radius", pos)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: radius: %w", err)
		}
		if !ok {
			return zygo.SexpNull, fmt.Errorf("cylinder requires :radius")
		}
		return &sexpShape{node: scene.Cylinder(h, r)}, nil
	})

	// -----------------------------------------------------------------------
	// (union a b ...), (difference a b ...), (intersection a b ...)
	// -----------------------------------------------------------------------
	for _, kind := range []scene.NodeKind{scene.NodeUnion, scene.NodeDifference, scene.NodeIntersection} {
		env.AddFunction(kind.String(), func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			children, err := toShapes(args)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", kind, err)
			}
			if len(children) == 0 {
				return zygo.SexpNull, fmt.Errorf("%s requires at least one shape", kind)
			}
			return &sexpShape{node: scene.Boolean(kind, children...)}, nil
		})
	}

	// -----------------------------------------------------------------------
	// (translate shape (vec3 1 0 0)) or (translate shape :by (vec3 1 0 0))
	// (rotate shape (vec3 0 0 90))   or (rotate shape :by (vec3 0 0 90))
	// -----------------------------------------------------------------------
	transforms := map[string]func(*scene.Node, v3.Vec) *scene.Node{
		"translate": scene.Translate,
		"rotate":    scene.Rotate,
	}
	for fname, build := range transforms {
		env.AddFunction(fname, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			pa := parseArgs(args)
			if len(pa.positional) < 1 {
				return zygo.SexpNull, fmt.Errorf("%s requires a shape as first argument", fname)
			}
			child, err := toShape(pa.positional[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: shape: %w", fname, err)
			}

			v, ok := pa.kw["by"]
			if !ok {
				if len(pa.positional) != 2 {
					return zygo.SexpNull, fmt.Errorf("%s requires a shape and a vec3", fname)
				}
				v = pa.positional[1]
			}
			vec, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: by: %w", fname, err)
			}
			return &sexpShape{node: build(child, vec)}, nil
		})
	}

	// -----------------------------------------------------------------------
	// (target "name" shape) or (target shape)
	// -----------------------------------------------------------------------
	env.AddFunction("target", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if s.Target != nil {
			return zygo.SexpNull, fmt.Errorf("target already defined as %q", s.Name)
		}
		if len(args) < 1 || len(args) > 2 {
			return zygo.SexpNull, fmt.Errorf("target requires an optional name and a shape")
		}

		shapeArg := args[len(args)-1]
		if len(args) == 2 {
			targetName, err := toString(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("target: name: %w", err)
			}
			s.Name = targetName
		}
		node, err := toShape(shapeArg)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("target: %w", err)
		}
		s.Target = node

		return shapeArg, nil
	})

	// -----------------------------------------------------------------------
	// (view :eye (vec3 0 0 -10) :look-at (vec3 0 0 0) :up (vec3 0 1 0))
	// -----------------------------------------------------------------------
	env.AddFunction("view", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		v := scene.View{Up: v3.Vec{X: 0, Y: 1, Z: 0}}

		fields := []struct {
			key      string
			dst      *v3.Vec
			required bool
		}{
			{"eye", &v.Eye, true},
			{"look-at", &v.LookAt, true},
			{"up", &v.Up, false},
		}
		for _, f := range fields {
			raw, ok := pa.kw[f.key]
			if !ok {
				if f.required {
					return zygo.SexpNull, fmt.Errorf("view requires :%s", f.key)
				}
				continue
			}
			vec, err := toVec3(raw)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("view: %s: %w", f.key, err)
			}
			*f.dst = vec
		}

		s.View = &v
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (slicing :step 0.05 :mode :box :cells 48)
	// -----------------------------------------------------------------------
	env.AddFunction("slicing", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)

		if v, ok := pa.kw["step"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("slicing: step: %w", err)
			}
			s.Slicing.Step = f
		}
		if v, ok := pa.kw["mode"]; ok {
			m, err := toKeywordString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("slicing: mode: %w", err)
			}
			s.Slicing.Mode = m
		}
		if v, ok := pa.kw["cells"]; ok {
			n, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("slicing: cells: %w", err)
			}
			s.Slicing.Cells = n
		}
		return zygo.SexpNull, nil
	})
}
