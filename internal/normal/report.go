package normal

import (
	"fmt"
	"strings"
)

// Form identifies a normal form audit.
type Form int

const (
	Form1NF Form = iota + 1
	Form2NF
	Form3NF
	Form4NF
	Form5NF
	Form6NF
)

// AllForms lists every audit in ascending order.
var AllForms = []Form{Form1NF, Form2NF, Form3NF, Form4NF, Form5NF, Form6NF}

func (f Form) String() string {
	switch f {
	case Form1NF:
		return "1NF"
	case Form2NF:
		return "2NF"
	case Form3NF:
		return "3NF/BCNF"
	case Form4NF:
		return "4NF"
	case Form5NF:
		return "5NF"
	case Form6NF:
		return "6NF/DKNF"
	default:
		return fmt.Sprintf("Form(%d)", int(f))
	}
}

// Slug returns a short lowercase name usable in file names and flags.
func (f Form) Slug() string {
	switch f {
	case Form3NF:
		return "3nf"
	case Form6NF:
		return "6nf"
	default:
		return strings.ToLower(f.String())
	}
}

// ParseForm accepts "1nf" through "6nf" plus the aliases "bcnf" and "dknf".
func ParseForm(s string) (Form, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "1nf":
		return Form1NF, nil
	case "2", "2nf":
		return Form2NF, nil
	case "3", "3nf", "bcnf":
		return Form3NF, nil
	case "4", "4nf":
		return Form4NF, nil
	case "5", "5nf":
		return Form5NF, nil
	case "6", "6nf", "dknf":
		return Form6NF, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownForm, s)
}

// Rule identifies the check that produced an Issue.
type Rule string

const (
	RuleMultiValued       Rule = "1NF-MULTI-VALUED"
	RuleDuplicateColumn   Rule = "1NF-DUPLICATE-COLUMN"
	RuleMixedTypes        Rule = "1NF-MIXED-TYPES"
	RuleNoPrimaryKey      Rule = "1NF-NO-PRIMARY-KEY"
	RuleRepeatingGroup    Rule = "1NF-REPEATING-GROUP"
	RulePartialDependency Rule = "2NF-PARTIAL-DEPENDENCY"
	RuleNonKeyDeterminant Rule = "3NF-NON-KEY-DETERMINANT"
	RuleMultivalued       Rule = "4NF-MULTIVALUED-DEPENDENCY"
	RuleJoinDependency    Rule = "5NF-JOIN-DEPENDENCY"
	RuleUntypedColumn     Rule = "DKNF-UNTYPED-COLUMN"
	RuleNoKeyConstraint   Rule = "DKNF-NO-PRIMARY-KEY"
	RuleForeignKey        Rule = "DKNF-FOREIGN-KEY"
	RuleExtraUnique       Rule = "DKNF-UNIQUE-CONSTRAINT"
	RuleCheckConstraint   Rule = "DKNF-CHECK-CONSTRAINT"
)

// Issue is one likely violation.
type Issue struct {
	Table   string
	Rule    Rule
	Message string
	Columns []string
}

func (i Issue) String() string {
	return fmt.Sprintf("Table %q %s", i.Table, i.Message)
}

// NoticeKind classifies a Notice.
type NoticeKind int

const (
	// NoticeSkipped means a table lacked a precondition and was not analysed.
	NoticeSkipped NoticeKind = iota
	// NoticeBounded means part of a search was cut short by a configured limit.
	NoticeBounded
	// NoticeWarning flags a degraded analysis of a table.
	NoticeWarning
)

func (k NoticeKind) String() string {
	switch k {
	case NoticeSkipped:
		return "skipped"
	case NoticeBounded:
		return "bounded"
	default:
		return "warning"
	}
}

// Notice is informational output about a table. Notices are never
// violations.
type Notice struct {
	Table   string
	Kind    NoticeKind
	Message string
}

// Report is the outcome of one normal form audit over a snapshot. Issues
// are kept in discovery order: table order, then column order.
type Report struct {
	Form     Form
	Analyzed []string
	Issues   []Issue
	Notices  []Notice
}

// Skipped reports whether table was skipped by this audit.
func (r *Report) Skipped(table string) bool {
	for _, n := range r.Notices {
		if n.Table == table && n.Kind == NoticeSkipped {
			return true
		}
	}
	return false
}

// IssuesFor returns the issues reported for table.
func (r *Report) IssuesFor(table string) []Issue {
	var out []Issue
	for _, i := range r.Issues {
		if i.Table == table {
			out = append(out, i)
		}
	}
	return out
}

// tableResult collects one table's findings during an audit.
type tableResult struct {
	table   string
	issues  []Issue
	notices []Notice
	skipped bool
}

func (t *tableResult) issue(rule Rule, cols []string, format string, args ...any) {
	t.issues = append(t.issues, Issue{
		Table:   t.table,
		Rule:    rule,
		Message: fmt.Sprintf(format, args...),
		Columns: cols,
	})
}

func (t *tableResult) skip(format string, args ...any) {
	t.skipped = true
	t.notices = append(t.notices, Notice{Table: t.table, Kind: NoticeSkipped, Message: fmt.Sprintf(format, args...)})
}

func (t *tableResult) notice(kind NoticeKind, format string, args ...any) {
	t.notices = append(t.notices, Notice{Table: t.table, Kind: kind, Message: fmt.Sprintf(format, args...)})
}
