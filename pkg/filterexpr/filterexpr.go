// Package filterexpr turns list request filters written in a small CEL subset, and comma separated
// order_by clauses, into SQL fragments restricted to a whitelisted schema.
//
// Filters are conjunctions of comparisons between a field and a literal:
//
//	name.startsWith('ger') && updated_at >= timestamp('2025-01-01T00:00:00Z')
package filterexpr

import (
	"errors"
	"fmt"
	"strings"
)

// Msg is implemented by request types carrying raw filter and order_by inputs.
type Msg interface {
	GetFilter() string
	GetOrderBy() string
}

// Kind is the literal type a field compares against.
type Kind string

const (
	KindString    Kind = "string"
	KindNumber    Kind = "number"
	KindTimestamp Kind = "timestamp"
)

// Op is a supported comparison.
type Op string

const (
	OpEQ  Op = "=="
	OpGTE Op = ">="
	OpLTE Op = "<="
	OpSW  Op = "startsWith"
	OpIN  Op = "in"
)

// Field maps a filter identifier onto a SQL expression.
type Field struct {
	Column string
	Kind   Kind
	Ops    []Op
}

func (f Field) allows(op Op) bool {
	for _, allowed := range f.Ops {
		if allowed == op {
			return true
		}
	}
	return false
}

// OrderSchema whitelists order keys. Tiebreak is appended when the request does not order by it.
type OrderSchema struct {
	Columns  map[string]string
	Default  []OrderTerm
	Tiebreak OrderTerm
}

// Schema is the full set of filtering and ordering rules of one resource.
type Schema struct {
	Fields map[string]Field
	Order  OrderSchema
}

// Predicate is one validated comparison of the filter.
type Predicate struct {
	Field  string
	Column string
	Op     Op
	Value  any
}

// OrderTerm is one key of the resulting ORDER BY.
type OrderTerm struct {
	Key  string
	Desc bool
}

// Query is the compiled form of a request's filter and order_by.
type Query struct {
	Predicates []Predicate
	Order      []OrderTerm

	columns map[string]string
}

// Compile validates the request's filter and order_by against schema.
func Compile[M Msg](msg M, schema Schema) (*Query, error) {
	preds, err := parseFilter(msg.GetFilter(), schema.Fields)
	if err != nil {
		return nil, fmt.Errorf("filter: %w", err)
	}
	order, err := parseOrderBy(msg.GetOrderBy(), schema.Order)
	if err != nil {
		return nil, fmt.Errorf("order_by: %w", err)
	}
	return &Query{Predicates: preds, Order: order, columns: schema.Order.Columns}, nil
}

// Where renders the predicates as a conjunction using ? placeholders. It returns an empty
// string when the filter was empty.
func (q *Query) Where() (string, []any) {
	if len(q.Predicates) == 0 {
		return "", nil
	}
	clauses := make([]string, 0, len(q.Predicates))
	var args []any
	for _, p := range q.Predicates {
		switch p.Op {
		case OpEQ:
			clauses = append(clauses, p.Column+" = ?")
			args = append(args, p.Value)
		case OpGTE:
			clauses = append(clauses, p.Column+" >= ?")
			args = append(args, p.Value)
		case OpLTE:
			clauses = append(clauses, p.Column+" <= ?")
			args = append(args, p.Value)
		case OpSW:
			clauses = append(clauses, p.Column+` LIKE ? ESCAPE '\'`)
			args = append(args, escapeLike(p.Value.(string))+"%")
		case OpIN:
			values := p.Value.([]string)
			marks := strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", ")
			clauses = append(clauses, p.Column+" IN ("+marks+")")
			for _, v := range values {
				args = append(args, v)
			}
		}
	}
	return strings.Join(clauses, " AND "), args
}

// OrderBy renders the ORDER BY expression list.
func (q *Query) OrderBy() string {
	parts := make([]string, 0, len(q.Order))
	for _, term := range q.Order {
		dir := "ASC"
		if term.Desc {
			dir = "DESC"
		}
		parts = append(parts, q.columns[term.Key]+" "+dir)
	}
	return strings.Join(parts, ", ")
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func parseOrderBy(raw string, schema OrderSchema) ([]OrderTerm, error) {
	if _, ok := schema.Columns[schema.Tiebreak.Key]; !ok {
		return nil, fmt.Errorf("tiebreak key %q missing from order columns", schema.Tiebreak.Key)
	}

	var terms []OrderTerm
	seen := make(map[string]struct{})
	for _, seg := range strings.Split(raw, ",") {
		parts := strings.Fields(seg)
		if len(parts) == 0 {
			continue
		}
		if len(parts) > 2 {
			return nil, fmt.Errorf("invalid order segment %q", strings.TrimSpace(seg))
		}
		key := parts[0]
		if _, ok := schema.Columns[key]; !ok {
			return nil, fmt.Errorf("field %q cannot be used for ordering", key)
		}
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("duplicate order key %q", key)
		}
		seen[key] = struct{}{}

		term := OrderTerm{Key: key}
		if len(parts) == 2 {
			switch strings.ToLower(parts[1]) {
			case "asc":
			case "desc":
				term.Desc = true
			default:
				return nil, fmt.Errorf("invalid direction %q for field %q", parts[1], key)
			}
		}
		terms = append(terms, term)
	}

	if len(terms) == 0 {
		for _, term := range schema.Default {
			if _, ok := schema.Columns[term.Key]; !ok {
				return nil, errors.New("default order references unknown key " + term.Key)
			}
			seen[term.Key] = struct{}{}
		}
		terms = append(terms, schema.Default...)
	}
	if _, ok := seen[schema.Tiebreak.Key]; !ok {
		terms = append(terms, schema.Tiebreak)
	}
	return terms, nil
}
