package dao

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"
	"github.com/streamhouse/streamhouse-featurestore-go-sdk/constants"
	"github.com/streamhouse/streamhouse-featurestore-go-sdk/utils"
)

type FeatureGroupDao interface {
	GetFeatures(keys []interface{}, selectFields []string) ([]map[string]interface{}, error)
	RowCount(string) int
	RowCountIds(string) ([]string, int, error)
	ScanAndIterateData(filter string, ch chan<- string) ([]string, error)
}

// ErrNotSupported is returned by DAO operations the online store
// backend does not implement, filter scans on redis and tablestore in
// particular.
var ErrNotSupported = errors.New("operation is not supported by this online store backend")

// UnimplementedFeatureGroupDao is the base every backend DAO embeds,
// answering ErrNotSupported for the operations it does not override.
type UnimplementedFeatureGroupDao struct {
}

func (d *UnimplementedFeatureGroupDao) GetFeatures(keys []interface{}, selectFields []string) ([]map[string]interface{}, error) {
	return nil, ErrNotSupported
}
func (d *UnimplementedFeatureGroupDao) RowCount(string) int {
	return 0
}
func (d *UnimplementedFeatureGroupDao) RowCountIds(string) ([]string, int, error) {
	return nil, 0, ErrNotSupported
}
func (d *UnimplementedFeatureGroupDao) ScanAndIterateData(filter string, ch chan<- string) ([]string, error) {
	// The channel is closed so a ranging caller terminates instead of
	// blocking on a backend that cannot scan.
	if ch != nil {
		close(ch)
	}
	return nil, ErrNotSupported
}

// NewFeatureGroupDao returns the online store access object matching
// the datasource type, or nil when the datasource client is not
// registered.
func NewFeatureGroupDao(config DaoConfig) FeatureGroupDao {
	if config.DatasourceType == constants.Datasource_Type_Postgres {
		if d := NewFeatureGroupPostgresDao(config); d != nil {
			return d
		}
	} else if config.DatasourceType == constants.Datasource_Type_Mysql {
		if d := NewFeatureGroupMysqlDao(config); d != nil {
			return d
		}
	} else if config.DatasourceType == constants.Datasource_Type_Redis {
		if d := NewFeatureGroupRedisDao(config); d != nil {
			return d
		}
	} else if config.DatasourceType == constants.Datasource_Type_TableStore {
		if d := NewFeatureGroupTableStoreDao(config); d != nil {
			return d
		}
	} else {
		panic("not found FeatureGroupDao implement")
	}

	return nil
}

// ExtractVariables parses an expr filter and returns the variable
// names it references, sorted.
func ExtractVariables(code string) ([]string, error) {
	tree, err := parser.Parse(code)
	if err != nil {
		return nil, fmt.Errorf("failed to parse expression: %w", err)
	}

	variables := make(map[string]struct{})
	walk(tree.Node, variables)

	var result []string
	for v := range variables {
		result = append(result, v)
	}

	sort.Strings(result)

	return result, nil
}

func walk(node ast.Node, variables map[string]struct{}) {
	if node == nil {
		return
	}

	switch n := node.(type) {
	case *ast.IdentifierNode:
		variables[n.Value] = struct{}{}

	case *ast.BinaryNode:
		walk(n.Left, variables)
		walk(n.Right, variables)

	case *ast.UnaryNode:
		walk(n.Node, variables)

	case *ast.MemberNode:
		walk(n.Node, variables)

	case *ast.CallNode:
		for _, arg := range n.Arguments {
			walk(arg, variables)
		}
		walk(n.Callee, variables)

	case *ast.ConditionalNode:
		walk(n.Cond, variables)
		walk(n.Exp1, variables)
		walk(n.Exp2, variables)

	case *ast.ArrayNode:
		for _, elem := range n.Nodes {
			walk(elem, variables)
		}

	case *ast.MapNode:
		for _, pair := range n.Pairs {
			walk(pair, variables)
		}

	case *ast.PairNode:
		walk(n.Key, variables)
		walk(n.Value, variables)

	case *ast.NilNode, *ast.IntegerNode, *ast.FloatNode, *ast.BoolNode, *ast.StringNode:
		// Do nothing

	default:
		log.Printf("unhandled node type: %T\n", n)
	}
}

// Visitor renders a parsed expr filter into a SQL condition. Walking a
// tree with it leaves the root in LastNode.
type Visitor struct {
	LastNode ast.Node
}

func (v *Visitor) Visit(node *ast.Node) {
	v.LastNode = *node
}

// ConvertToSql renders the node. Every literal is quoted, == becomes =,
// && and || become and/or, binary operands keep their own parentheses.
func (v *Visitor) ConvertToSql(node ast.Node) string {
	switch n := node.(type) {
	case *ast.BinaryNode:
		operator := n.Operator
		switch operator {
		case "&&":
			operator = "and"
		case "||":
			operator = "or"
		case "==":
			operator = "="
		}
		left := v.ConvertToSql(n.Left)
		if _, ok := n.Left.(*ast.BinaryNode); ok {
			left = "(" + left + ")"
		}
		right := v.ConvertToSql(n.Right)
		if _, ok := n.Right.(*ast.BinaryNode); ok {
			right = "(" + right + ")"
		}
		return fmt.Sprintf("%s %s %s", left, operator, right)

	case *ast.UnaryNode:
		switch n.Operator {
		case "!", "not":
			return fmt.Sprintf("not (%s)", v.ConvertToSql(n.Node))
		case "-":
			return "-" + v.ConvertToSql(n.Node)
		default:
			return v.ConvertToSql(n.Node)
		}

	case *ast.IdentifierNode:
		return n.Value

	case *ast.IntegerNode:
		return fmt.Sprintf("'%d'", n.Value)

	case *ast.FloatNode:
		return fmt.Sprintf("'%v'", n.Value)

	case *ast.BoolNode:
		return fmt.Sprintf("'%v'", n.Value)

	case *ast.StringNode:
		return fmt.Sprintf("'%s'", strings.ReplaceAll(n.Value, "'", "''"))

	case *ast.NilNode:
		return "null"

	case *ast.ArrayNode:
		elems := make([]string, 0, len(n.Nodes))
		for _, elem := range n.Nodes {
			elems = append(elems, v.ConvertToSql(elem))
		}
		return "(" + strings.Join(elems, ", ") + ")"

	default:
		log.Printf("unhandled node type: %T\n", n)
		return ""
	}
}

// renderSQLCondition parses the filter and renders it, returning an
// empty condition for an empty filter.
func renderSQLCondition(code string) (string, error) {
	if code == "" {
		return "", nil
	}
	tree, err := parser.Parse(code)
	if err != nil {
		return "", fmt.Errorf("failed to parse expression: %w", err)
	}

	visitor := &Visitor{}
	return visitor.ConvertToSql(tree.Node), nil
}

func convertValue(value interface{}, fsType constants.FSType) interface{} {
	if value == nil {
		return nil
	}
	if b, ok := value.([]byte); ok {
		value = string(b)
	}
	switch fsType {
	case constants.FS_INT32:
		return utils.ToInt(value, 0)
	case constants.FS_INT64:
		return utils.ToInt64(value, 0)
	case constants.FS_FLOAT, constants.FS_DOUBLE:
		return utils.ToFloat(value, 0)
	case constants.FS_BOOLEAN:
		return utils.ToBool(value, false)
	case constants.FS_STRING:
		return utils.ToString(value, "")
	default:
		return value
	}
}
