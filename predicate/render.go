package predicate

import (
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// Quoter quotes a single identifier part.
type Quoter func(string) string

// Options configures a Renderer.
type Options struct {
	// Quote quotes one identifier part. Defaults to pq.QuoteIdentifier.
	Quote Quoter

	// LikeOperator is used for Like nodes. Defaults to "LIKE".
	LikeOperator string

	// LikeCast, when set, casts the column of Like nodes to this type so
	// non-text columns can be pattern matched.
	LikeCast string

	// LikeEscape, when set, is rendered as the ESCAPE character of Like
	// nodes. Engines without a default escape character need it for the
	// backslash escapes of Contains patterns.
	LikeEscape string
}

// Renderer turns condition trees into SQL with ? placeholders.
type Renderer struct {
	quote  Quoter
	like   string
	cast   string
	escape string
}

// NewRenderer creates a Renderer. A nil opts selects the defaults.
func NewRenderer(opts *Options) *Renderer {
	r := &Renderer{quote: pq.QuoteIdentifier, like: "LIKE"}
	if opts == nil {
		return r
	}
	if opts.Quote != nil {
		r.quote = opts.Quote
	}
	if opts.LikeOperator != "" {
		r.like = opts.LikeOperator
	}
	r.cast = opts.LikeCast
	r.escape = opts.LikeEscape
	return r
}

// Ident quotes a possibly qualified identifier. A trailing * is kept bare.
func (r *Renderer) Ident(name string) string {
	parts := strings.Split(name, ".")
	for i, part := range parts {
		if part == "*" {
			continue
		}
		parts[i] = r.quote(part)
	}
	return strings.Join(parts, ".")
}

// Render returns the SQL for p and its arguments in placeholder order.
// A nil predicate renders as "1=1".
func (r *Renderer) Render(p Predicate) (string, []any) {
	w := &writer{r: r}
	w.write(p)
	return w.sb.String(), w.args
}

// RenderSubquery returns the parenthesised SQL for sq, without its outer alias.
func (r *Renderer) RenderSubquery(sq Subquery) (string, []any) {
	w := &writer{r: r}
	w.subquery(sq)
	return w.sb.String(), w.args
}

type writer struct {
	r    *Renderer
	sb   strings.Builder
	args []any
}

func (w *writer) write(p Predicate) {
	switch n := p.(type) {
	case nil:
		w.sb.WriteString("1=1")
	case Eq:
		if n.Value == nil {
			fmt.Fprintf(&w.sb, "%s IS NULL", w.r.Ident(n.Column))
			return
		}
		fmt.Fprintf(&w.sb, "%s = ?", w.r.Ident(n.Column))
		w.args = append(w.args, n.Value)
	case Compare:
		op := n.Op
		if !op.Valid() {
			op = OpEq
		}
		fmt.Fprintf(&w.sb, "%s %s ?", w.r.Ident(n.Column), op)
		w.args = append(w.args, n.Value)
	case Like:
		col := w.r.Ident(n.Column)
		if w.r.cast != "" {
			col = fmt.Sprintf("CAST(%s AS %s)", col, w.r.cast)
		}
		fmt.Fprintf(&w.sb, "%s %s ?", col, w.r.like)
		if w.r.escape != "" {
			fmt.Fprintf(&w.sb, " ESCAPE '%s'", w.r.escape)
		}
		w.args = append(w.args, n.Pattern)
	case In:
		if len(n.Values) == 0 {
			w.sb.WriteString("1=0")
			return
		}
		placeholders := make([]string, len(n.Values))
		for i := range n.Values {
			placeholders[i] = "?"
		}
		fmt.Fprintf(&w.sb, "%s IN (%s)", w.r.Ident(n.Column), strings.Join(placeholders, ", "))
		w.args = append(w.args, n.Values...)
	case ColumnEq:
		fmt.Fprintf(&w.sb, "%s = %s", w.r.Ident(n.Left), w.r.Ident(n.Right))
	case And:
		w.junction([]Predicate(n), " AND ", "1=1")
	case Or:
		w.junction([]Predicate(n), " OR ", "1=0")
	case Exists:
		fmt.Fprintf(&w.sb, "EXISTS (SELECT 1 FROM %s WHERE ", w.r.Ident(n.Table))
		w.write(n.Where)
		w.sb.WriteString(")")
	case Raw:
		w.sb.WriteString("(")
		w.sb.WriteString(n.SQL)
		w.sb.WriteString(")")
		w.args = append(w.args, n.Args...)
	default:
		// Unknown nodes must not widen the result set.
		w.sb.WriteString("1=0")
	}
}

func (w *writer) junction(children []Predicate, sep, empty string) {
	live := children[:0:0]
	for _, c := range children {
		if c != nil {
			live = append(live, c)
		}
	}
	switch len(live) {
	case 0:
		w.sb.WriteString(empty)
	case 1:
		w.write(live[0])
	default:
		w.sb.WriteString("(")
		for i, c := range live {
			if i > 0 {
				w.sb.WriteString(sep)
			}
			w.write(c)
		}
		w.sb.WriteString(")")
	}
}

func (w *writer) subquery(sq Subquery) {
	w.sb.WriteString("(SELECT ")
	w.sb.WriteString(w.r.Ident(sq.Column))
	if sq.Alias != "" {
		w.sb.WriteString(" AS ")
		w.sb.WriteString(w.r.Ident(sq.Alias))
	}
	w.sb.WriteString(" FROM ")
	w.sb.WriteString(w.r.Ident(sq.Table))
	if sq.Where != nil {
		w.sb.WriteString(" WHERE ")
		w.write(sq.Where)
	}
	if sq.Limit > 0 {
		fmt.Fprintf(&w.sb, " LIMIT %d", sq.Limit)
	}
	w.sb.WriteString(")")
}
