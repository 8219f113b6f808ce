package filterexpr

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/cel-go/cel"
	exprpb "google.golang.org/genproto/googleapis/api/expr/v1alpha1"
)

func parseFilter(filter string, fields map[string]Field) ([]Predicate, error) {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		return nil, nil
	}
	if len(fields) == 0 {
		return nil, errors.New("resource does not support filtering")
	}

	env, err := newEnv(fields)
	if err != nil {
		return nil, err
	}
	ast, issues := env.Parse(filter)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("invalid filter: %w", issues.Err())
	}
	parsed, err := cel.AstToParsedExpr(ast)
	if err != nil {
		return nil, fmt.Errorf("convert ast: %w", err)
	}

	var conjuncts []*exprpb.Expr
	if err := flattenAnd(parsed.GetExpr(), &conjuncts); err != nil {
		return nil, err
	}

	preds := make([]Predicate, 0, len(conjuncts))
	for _, expr := range conjuncts {
		pred, err := comparison(expr)
		if err != nil {
			return nil, err
		}
		field, ok := fields[pred.Field]
		if !ok {
			return nil, fmt.Errorf("field %q is not allowed", pred.Field)
		}
		if !field.allows(pred.Op) {
			return nil, fmt.Errorf("operator %q is not allowed for field %q", pred.Op, pred.Field)
		}
		if err := checkLiteral(field.Kind, pred.Op, pred.Value); err != nil {
			return nil, fmt.Errorf("field %q: %w", pred.Field, err)
		}
		pred.Column = field.Column
		preds = append(preds, pred)
	}
	return preds, nil
}

func newEnv(fields map[string]Field) (*cel.Env, error) {
	opts := make([]cel.EnvOption, 0, len(fields)+1)
	for name, field := range fields {
		var typ *cel.Type
		switch field.Kind {
		case KindString:
			typ = cel.StringType
		case KindNumber:
			typ = cel.DoubleType
		case KindTimestamp:
			typ = cel.TimestampType
		default:
			return nil, fmt.Errorf("field %q: unsupported kind %s", name, field.Kind)
		}
		opts = append(opts, cel.Variable(name, typ))
	}
	opts = append(opts, cel.CrossTypeNumericComparisons(true))
	return cel.NewEnv(opts...)
}

// flattenAnd collects the operands of nested _&&_ calls; any other logical operator is rejected.
func flattenAnd(expr *exprpb.Expr, out *[]*exprpb.Expr) error {
	if expr == nil {
		return errors.New("empty expression")
	}
	call := expr.GetCallExpr()
	if call == nil {
		*out = append(*out, expr)
		return nil
	}
	switch call.Function {
	case "_&&_":
		for _, arg := range call.Args {
			if err := flattenAnd(arg, out); err != nil {
				return err
			}
		}
		return nil
	case "_||_", "_?_:_", "!_":
		return fmt.Errorf("logical operator %q is not supported; only AND is allowed", call.Function)
	default:
		*out = append(*out, expr)
		return nil
	}
}

func comparison(expr *exprpb.Expr) (Predicate, error) {
	call := expr.GetCallExpr()
	if call == nil {
		return Predicate{}, errors.New("unsupported expression; expected a comparison")
	}

	var op Op
	var fieldExpr, valueExpr *exprpb.Expr
	switch call.Function {
	case "_==_", "_>=_", "_<=_":
		if call.Target != nil || len(call.Args) != 2 {
			return Predicate{}, fmt.Errorf("operator %q expects two operands", call.Function)
		}
		op = map[string]Op{"_==_": OpEQ, "_>=_": OpGTE, "_<=_": OpLTE}[call.Function]
		fieldExpr, valueExpr = call.Args[0], call.Args[1]
	case "@in":
		if len(call.Args) != 2 {
			return Predicate{}, errors.New("in operator expects two operands")
		}
		op = OpIN
		fieldExpr, valueExpr = call.Args[0], call.Args[1]
	case "startsWith":
		if call.Target == nil || len(call.Args) != 1 {
			return Predicate{}, errors.New("startsWith must be called on a field with one argument")
		}
		op = OpSW
		fieldExpr, valueExpr = call.Target, call.Args[0]
	default:
		return Predicate{}, fmt.Errorf("function %q is not supported", call.Function)
	}

	ident := fieldExpr.GetIdentExpr()
	if ident == nil {
		return Predicate{}, errors.New("left-hand side must be an identifier")
	}
	value, err := literal(valueExpr)
	if err != nil {
		return Predicate{}, err
	}
	return Predicate{Field: ident.GetName(), Op: op, Value: value}, nil
}

func literal(expr *exprpb.Expr) (any, error) {
	if c := expr.GetConstExpr(); c != nil {
		switch v := c.ConstantKind.(type) {
		case *exprpb.Constant_StringValue:
			return v.StringValue, nil
		case *exprpb.Constant_Int64Value:
			return float64(v.Int64Value), nil
		case *exprpb.Constant_Uint64Value:
			return float64(v.Uint64Value), nil
		case *exprpb.Constant_DoubleValue:
			return v.DoubleValue, nil
		default:
			return nil, fmt.Errorf("literal type %T is not supported", c.ConstantKind)
		}
	}

	if list := expr.GetListExpr(); list != nil {
		values := make([]string, 0, len(list.GetElements()))
		for i, elem := range list.GetElements() {
			c := elem.GetConstExpr()
			if c == nil {
				return nil, fmt.Errorf("list element %d must be a literal", i)
			}
			s, ok := c.ConstantKind.(*exprpb.Constant_StringValue)
			if !ok {
				return nil, errors.New("list literal elements must be strings")
			}
			values = append(values, s.StringValue)
		}
		return values, nil
	}

	if call := expr.GetCallExpr(); call != nil && call.Function == "timestamp" {
		if call.Target != nil || len(call.Args) != 1 || call.Args[0].GetConstExpr() == nil {
			return nil, errors.New("timestamp() expects a single string literal")
		}
		raw := call.Args[0].GetConstExpr().GetStringValue()
		ts, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return nil, fmt.Errorf("timestamp literal %q is not RFC3339", raw)
		}
		return ts.UTC(), nil
	}

	return nil, errors.New("right-hand side must be a literal, list literal, or timestamp() call")
}

func checkLiteral(kind Kind, op Op, value any) error {
	switch kind {
	case KindString:
		if op == OpIN {
			list, ok := value.([]string)
			if !ok || len(list) == 0 {
				return errors.New("expected a non-empty list of strings")
			}
			return nil
		}
		if _, ok := value.(string); !ok {
			return fmt.Errorf("expected %s literal", kind)
		}
	case KindNumber:
		if _, ok := value.(float64); !ok {
			return fmt.Errorf("expected %s literal", kind)
		}
	case KindTimestamp:
		if _, ok := value.(time.Time); !ok {
			return fmt.Errorf("expected %s literal", kind)
		}
	default:
		return fmt.Errorf("unsupported field kind %s", kind)
	}
	return nil
}
