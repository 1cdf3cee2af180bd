package conversations

import (
	"fmt"
	"strconv"
	"strings"
)

// sqlArgs accumulates positional ($n) arguments while rendering.
type sqlArgs struct {
	args []any
}

func (a *sqlArgs) add(v any) string {
	a.args = append(a.args, v)
	return "$" + strconv.Itoa(len(a.args))
}

// renderWhere renders p as a SQL boolean expression. Arguments are appended to a.
func renderWhere(p Predicate, a *sqlArgs) (string, error) {
	if len(p.Conds) == 0 {
		return "TRUE", nil
	}
	parts := make([]string, 0, len(p.Conds))
	for _, c := range p.Conds {
		s, err := renderCond(c, a)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " AND "), nil
}

func renderCond(c Cond, a *sqlArgs) (string, error) {
	switch c := c.(type) {
	case Eq:
		if err := checkColumn(c.Field); err != nil {
			return "", err
		}
		return fmt.Sprintf("%s = %s", c.Field, a.add(c.Value)), nil
	case In:
		if err := checkColumn(c.Field); err != nil {
			return "", err
		}
		return fmt.Sprintf("%s = ANY(%s)", c.Field, a.add(c.Values)), nil
	case Between:
		if err := checkColumn(c.Field); err != nil {
			return "", err
		}
		var parts []string
		if c.From != nil {
			parts = append(parts, fmt.Sprintf("%s >= %s", c.Field, a.add(*c.From)))
		}
		if c.To != nil {
			parts = append(parts, fmt.Sprintf("%s <= %s", c.Field, a.add(*c.To)))
		}
		if len(parts) == 0 {
			return "TRUE", nil
		}
		return strings.Join(parts, " AND "), nil
	case Contains:
		if err := checkColumn(c.Field); err != nil {
			return "", err
		}
		return fmt.Sprintf(`%s ILIKE %s ESCAPE '\'`, c.Field, a.add("%"+escapeLike(c.Substr)+"%")), nil
	case AnyOf:
		if len(c) == 0 {
			return "FALSE", nil
		}
		parts := make([]string, 0, len(c))
		for _, child := range c {
			s, err := renderCond(child, a)
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
		return "(" + strings.Join(parts, " OR ") + ")", nil
	default:
		return "", fmt.Errorf("conversations: unsupported condition %T", c)
	}
}

func renderOrderBy(keys []SortKey) (string, error) {
	if len(keys) == 0 {
		return "", nil
	}
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		if err := checkColumn(k.Field); err != nil {
			return "", err
		}
		dir := "ASC"
		if k.Desc {
			dir = "DESC"
		}
		parts = append(parts, string(k.Field)+" "+dir)
	}
	return " ORDER BY " + strings.Join(parts, ", "), nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s a literal inside a LIKE pattern.
func escapeLike(s string) string { return likeEscaper.Replace(s) }

// checkColumn guards against rendering anything but a known column name.
func checkColumn(f Field) error {
	switch f {
	case FieldID, FieldTenantDomain, FieldCallerNumber, FieldCallerName, FieldCalleeNumber,
		FieldCalleeName, FieldDirection, FieldStatus, FieldStartTime, FieldNotes,
		FieldIsArchived, FieldCreatedAt:
		return nil
	default:
		return fmt.Errorf("conversations: unknown field %q", string(f))
	}
}
