package types

// IsCompatible reports whether a value of type actual may be used where
// expected is required. It implements structural compatibility: bivariant
// for method parameters is applied by the caller (checker) by trying both
// directions, not here — this function is the single-direction structural
// check shared by every variance mode.
func IsCompatible(expected, actual Type) bool {
	return isCompatible(expected, actual, map[string]bool{})
}

// seen guards against infinite recursion through recursive interfaces
// (interface A referencing itself through a field).
func isCompatible(expected, actual Type, seen map[string]bool) bool {
	if expected == nil || actual == nil {
		return false
	}

	if ep, ok := expected.(*Primitive); ok {
		if ep.Kind == Any || ep.Kind == Unknown {
			return true
		}
	}
	if ap, ok := actual.(*Primitive); ok {
		if ap.Kind == Any {
			return true
		}
		if ap.Kind == Never {
			return true
		}
		if ap.Kind == Unknown {
			if ep, ok := expected.(*Primitive); ok {
				return ep.Kind == Any || ep.Kind == Unknown
			}
			return false
		}
	}
	if ep, ok := expected.(*Primitive); ok && ep.Kind == Never {
		return false
	}

	if expected.Equals(actual) {
		return true
	}

	if u, ok := expected.(*Union); ok {
		for _, m := range u.Members {
			if isCompatible(m, actual, seen) {
				return true
			}
		}
		return false
	}
	if u, ok := actual.(*Union); ok {
		for _, m := range u.Members {
			if !isCompatible(expected, m, seen) {
				return false
			}
		}
		return true
	}

	if in, ok := expected.(*Intersection); ok {
		for _, m := range in.Members {
			if !isCompatible(m, actual, seen) {
				return false
			}
		}
		return true
	}
	if in, ok := actual.(*Intersection); ok {
		for _, m := range in.Members {
			if isCompatible(expected, m, seen) {
				return true
			}
		}
		return false
	}

	if lit, ok := actual.(*Literal); ok {
		if isCompatible(expected, lit.Widen(), seen) {
			return true
		}
		if elit, ok := expected.(*Literal); ok {
			return elit.Kind == lit.Kind && elit.Value == lit.Value
		}
	}

	switch e := expected.(type) {
	case *Array:
		a, ok := actual.(*Array)
		return ok && isCompatible(e.Element, a.Element, seen)
	case *Tuple:
		return tupleCompatible(e, actual, seen)
	case *Record:
		return recordCompatible(e, actual, seen)
	case *Interface:
		return interfaceCompatible(e, actual, seen)
	case *Instance:
		a, ok := actual.(*Instance)
		return ok && a.Class.IsSubclassOf(e.Class)
	case *FuncType:
		a, ok := actual.(*FuncType)
		return ok && funcCompatible(e, a, seen)
	case *Promise:
		a, ok := actual.(*Promise)
		return ok && isCompatible(e.Value, a.Value, seen)
	case *Enum:
		a, ok := actual.(*Enum)
		return ok && a.Name == e.Name
	}

	// Instance against a structural shape: the class's public surface must
	// satisfy the expected shape's requirements.
	if a, ok := actual.(*Instance); ok {
		switch expected.(type) {
		case *Record, *Interface:
			return structuralFromMembers(expected, a.Class.AllPublicMembers(), seen)
		}
	}

	return false
}

func tupleCompatible(e *Tuple, actual Type, seen map[string]bool) bool {
	a, ok := actual.(*Tuple)
	if !ok {
		return false
	}
	if a.RequiredCount < e.RequiredCount {
		return false
	}
	if !e.HasSpread && !a.HasSpread && len(a.Elements) != len(e.Elements) {
		return false
	}
	n := len(e.Elements)
	if len(a.Elements) < n {
		n = len(a.Elements)
	}
	for i := 0; i < n; i++ {
		if !isCompatible(e.Elements[i].Type, a.Elements[i].Type, seen) {
			return false
		}
	}
	return true
}

func recordCompatible(e *Record, actual Type, seen map[string]bool) bool {
	fields, stringIdx, numberIdx, ok := fieldsOf(actual)
	if !ok {
		return false
	}
	for _, ef := range e.Fields {
		af, found := findField(fields, ef.Name)
		if found {
			if !isCompatible(ef.Type, af.Type, seen) {
				return false
			}
			continue
		}
		if ef.Optional {
			continue
		}
		if idx := indexFor(ef.Name, stringIdx, numberIdx); idx != nil {
			if !isCompatible(ef.Type, idx, seen) {
				return false
			}
			continue
		}
		return false
	}
	return true
}

func interfaceCompatible(e *Interface, actual Type, seen map[string]bool) bool {
	key := e.Name
	if seen[key] {
		return true
	}
	seen[key] = true
	fields, stringIdx, numberIdx, ok := fieldsOf(actual)
	if !ok {
		return false
	}
	for _, m := range e.Members {
		af, found := findField(fields, m.Name)
		if !found {
			if e.IsRequired(m.Name) {
				if idx := indexFor(m.Name, stringIdx, numberIdx); idx != nil {
					if isCompatible(m.Type, idx, seen) {
						continue
					}
				}
				return false
			}
			continue
		}
		if !isCompatible(m.Type, af.Type, seen) {
			return false
		}
	}
	return true
}

func structuralFromMembers(expected Type, members []Member, seen map[string]bool) bool {
	fields := make([]Field, len(members))
	for i, m := range members {
		fields[i] = Field{Name: m.Name, Type: m.Type, Readonly: m.Readonly}
	}
	switch e := expected.(type) {
	case *Record:
		return recordCompatible(e, &Record{Fields: fields}, seen)
	case *Interface:
		return interfaceCompatible(e, &Record{Fields: fields}, seen)
	default:
		return false
	}
}

func fieldsOf(t Type) (fields []Field, stringIdx, numberIdx Type, ok bool) {
	switch v := t.(type) {
	case *Record:
		return v.Fields, v.StringIndex, v.NumberIndex, true
	case *Interface:
		return v.Members, v.StringIndex, v.NumberIndex, true
	default:
		return nil, nil, nil, false
	}
}

func findField(fields []Field, name string) (Field, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func indexFor(name string, stringIdx, numberIdx Type) Type {
	if stringIdx != nil {
		return stringIdx
	}
	_ = name
	return nil
}

// funcCompatible checks call-signature compatibility: contravariant in
// parameters for top-level function variables, but the checker applies
// bivariant parameter checking for method positions by calling this in
// both directions and accepting either.
func funcCompatible(expected, actual *FuncType, seen map[string]bool) bool {
	if !actual.Accepts(len(expected.Params)) && len(actual.Params) < len(expected.Params) {
		return false
	}
	n := len(expected.Params)
	if len(actual.Params) < n {
		n = len(actual.Params)
	}
	for i := 0; i < n; i++ {
		if !isCompatible(actual.Params[i].Type, expected.Params[i].Type, seen) {
			return false
		}
	}
	return isCompatible(expected.Return, actual.Return, seen)
}
