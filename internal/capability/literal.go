package capability

import (
	"fmt"
	"strings"

	"github.com/typesugar/typesugar-sub002/internal/ast"
	"github.com/typesugar/typesugar-sub002/internal/config"
	"github.com/typesugar/typesugar-sub002/internal/token"
)

// MethodFromExpression builds a table entry from its value expression.
func MethodFromExpression(name string, value ast.Expression) *Method {
	m := &Method{Name: name, Value: value}
	fn, ok := value.(*ast.ArrowFunction)
	if !ok || fn.Name != nil {
		return m
	}
	for _, p := range fn.Parameters {
		if p.Rest || p.Default != nil {
			return m
		}
	}
	m.Params = fn.ParamNames()
	m.Body = fn.Body
	return m
}

// FromObjectLiteral converts a table literal. Spread entries must name a
// table already in r; their methods are copied first so later keys win.
func (r *Registry) FromObjectLiteral(name, brand string, obj *ast.ObjectLiteral) (*Table, error) {
	methods := make(map[string]*Method)
	for _, prop := range obj.Properties {
		if prop.Spread {
			ref, ok := prop.Value.(*ast.Identifier)
			if !ok {
				return nil, fmt.Errorf("table %s: spread of a non-identifier cannot be resolved statically", name)
			}
			base, ok := r.Lookup(ref.Value)
			if !ok {
				return nil, fmt.Errorf("table %s: spread table %s is not registered", name, ref.Value)
			}
			for k, m := range base.Methods {
				methods[k] = m
			}
			continue
		}
		methods[prop.Key] = MethodFromExpression(prop.Key, prop.Value)
	}
	return &Table{Name: name, Brand: brand, Methods: methods}, nil
}

// ObjectLiteral rebuilds the runtime value of a table, in method-name order.
func (t *Table) ObjectLiteral() *ast.ObjectLiteral {
	obj := &ast.ObjectLiteral{Token: token.Token{Type: token.LBRACE, Lexeme: "{"}}
	for _, name := range t.MethodNames() {
		m := t.Methods[name]
		obj.Properties = append(obj.Properties, &ast.Property{
			Key:   name,
			Value: ast.CloneExpression(m.Value),
		})
	}
	return obj
}

// ParseAnnotation finds "@capability [Brand [Contract]]" in a statement's
// comments.
func ParseAnnotation(comments []string) (brand, contract string, ok bool) {
	for _, c := range comments {
		i := strings.Index(c, config.CapabilityMarker)
		if i < 0 {
			continue
		}
		fields := strings.Fields(strings.TrimSuffix(c[i+len(config.CapabilityMarker):], "*/"))
		if len(fields) > 0 {
			brand = fields[0]
		}
		if len(fields) > 1 {
			contract = fields[1]
		}
		return brand, contract, true
	}
	return "", "", false
}
